package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/seek/internal/build"
)

func (c *CLI) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the application version",
		Run: func(_ *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(c.stdout, "seek version %s (%s)\n", build.Version, build.Commit)
		},
	}
}
