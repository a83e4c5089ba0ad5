package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newClearCacheCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-cache [root]",
		Short: "Remove cached resolutions and loaded modules for a root",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			return c.app.ClearCache(cmd.Context(), rootArg(args), configPath)
		},
	}
}
