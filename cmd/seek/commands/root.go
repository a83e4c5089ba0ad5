// Package commands implements the CLI commands for seek.
package commands

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/seek/internal/app"
	"go.trai.ch/seek/internal/build"
	"go.trai.ch/seek/internal/core/domain"
	"go.trai.ch/seek/internal/core/ports"
)

// App is the application surface the commands drive.
type App interface {
	Find(ctx context.Context, root string, sig domain.Signature, opts app.FindOptions) (*domain.Resolution, error)
	ClearCache(ctx context.Context, root, configPath string) error
}

// verboser is implemented by loggers that can toggle debug output.
type verboser interface {
	SetVerbose(enable bool)
}

// CLI represents the command line interface for seek.
type CLI struct {
	app     App
	logger  ports.Logger
	rootCmd *cobra.Command
	stdout  io.Writer
	stderr  io.Writer
}

// New creates a new CLI instance with the given app and logger.
func New(a App, log ports.Logger) *CLI {
	rootCmd := &cobra.Command{
		Use:           "seek",
		Short:         "Find source entities by signature",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	// Registered first so -v stays with --verbose.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Print debug logs")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the configuration file (default <root>/seek.yaml)")

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		logger:  log,
		rootCmd: rootCmd,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		if v, ok := c.logger.(verboser); ok {
			v.SetVerbose(verbose)
		}
	}

	rootCmd.AddCommand(c.newFindCmd())
	rootCmd.AddCommand(c.newClearCacheCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput redirects result and diagnostic output. Used for testing.
func (c *CLI) SetOutput(stdout, stderr io.Writer) {
	c.stdout = stdout
	c.stderr = stderr
	c.rootCmd.SetOut(stdout)
	c.rootCmd.SetErr(stderr)
}

func rootArg(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}
