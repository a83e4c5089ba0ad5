// Package shell runs out-of-process metadata extractors.
package shell

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os/exec"
	"strings"
	"time"

	"go.trai.ch/seek/internal/core/domain"
	"go.trai.ch/seek/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.MetadataExtractor = (*Extractor)(nil)

// waitDelay bounds how long a killed extractor may hold its output pipes open.
const waitDelay = 500 * time.Millisecond

// Extractor implements ports.MetadataExtractor by running a configured
// command per language. The file content is written to stdin and the
// command prints ExportMetadata JSON on stdout. The file name is passed as
// the last argument. Languages without a command go to the fallback.
type Extractor struct {
	commands map[string][]string
	timeout  time.Duration
	fallback ports.MetadataExtractor
	logger   ports.Logger
}

// NewExtractor creates an Extractor. fallback may be nil.
func NewExtractor(
	commands map[string][]string,
	timeout time.Duration,
	fallback ports.MetadataExtractor,
	logger ports.Logger,
) *Extractor {
	return &Extractor{
		commands: commands,
		timeout:  timeout,
		fallback: fallback,
		logger:   logger,
	}
}

// Extract runs the command for the file's language, bounded by the timeout.
func (e *Extractor) Extract(ctx context.Context, content []byte, fileName string) (*domain.ExportMetadata, error) {
	language := domain.LanguageForFile(fileName)
	argv := e.commands[language]
	if len(argv) == 0 {
		if e.fallback != nil {
			return e.fallback.Extract(ctx, content, fileName)
		}
		return nil, zerr.With(zerr.Wrap(domain.ErrUnsupportedLanguage, "no extraction command for file"), "file", fileName)
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	args := append(append([]string{}, argv[1:]...), fileName)
	cmd := exec.CommandContext(ctx, argv[0], args...) //nolint:gosec // user configured command
	cmd.Stdin = bytes.NewReader(content)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &logWriter{logger: e.logger}
	cmd.WaitDelay = waitDelay

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, zerr.With(zerr.Wrap(ctx.Err(), domain.ErrExtractionTimeout.Error()), "file", fileName)
		}
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return nil, zerr.With(zerr.With(zerr.Wrap(err, domain.ErrExtractionFailed.Error()), "file", fileName), "exit_code", exitCode)
	}

	var meta domain.ExportMetadata
	if err := json.Unmarshal(stdout.Bytes(), &meta); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrExtractionFailed.Error()), "file", fileName)
	}
	if meta.Language == "" {
		meta.Language = language
	}
	return &meta, nil
}

// logWriter forwards extractor stderr to the debug log, one line per entry.
type logWriter struct {
	logger ports.Logger
}

func (w *logWriter) Write(p []byte) (int, error) {
	if w.logger == nil {
		return len(p), nil
	}
	for _, line := range strings.Split(strings.TrimSuffix(string(p), "\n"), "\n") {
		if line != "" {
			w.logger.Debug("extractor: " + line)
		}
	}
	return len(p), nil
}
