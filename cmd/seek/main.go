// Package main is the entry point for the seek discovery tool.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/seek/cmd/seek/commands"
	"go.trai.ch/seek/internal/app"
	"go.trai.ch/seek/internal/core/domain"
	_ "go.trai.ch/seek/internal/wiring"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string, opts ...func(*commands.CLI)) int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}

	cli := commands.New(components.App, components.Logger)
	cli.SetArgs(args)
	for _, opt := range opts {
		opt(cli)
	}

	if err := cli.Execute(ctx); err != nil {
		// Exhaustion diagnostics are already on stderr.
		if errors.Is(err, domain.ErrNoMatchingCandidate) {
			return 1
		}
		components.Logger.Error(err)
		return 1
	}
	return 0
}
