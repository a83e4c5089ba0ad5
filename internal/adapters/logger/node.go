package logger

import (
	"context"
	"os"
	"strings"

	"github.com/grindlemire/graft"
	"go.trai.ch/seek/internal/core/ports"
)

// NodeID is the unique identifier for the logger Graft node.
const NodeID graft.ID = "adapter.logger"

// FormatEnv selects the log format; "json" switches to structured output.
const FormatEnv = "SEEK_LOG_FORMAT"

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Logger, error) {
			return fromEnv(), nil
		},
	})
}

func fromEnv() *Logger {
	l := New()
	if strings.EqualFold(os.Getenv(FormatEnv), "json") {
		l.SetJSON(true)
	}
	return l
}
