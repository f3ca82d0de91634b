package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/leaf/internal/logger"
)

// NewRemoveCmd creates the remove command.
func NewRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remove PACKAGE...",
		Aliases: []string{"uninstall"},
		Short:   "Remove installed packages",
		Long: `Remove one or more installed packages.
Only the files and links recorded at install time are deleted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.OutOrStdout(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			for _, name := range args {
				rec, err := a.orch.Remove(cmd.Context(), name)
				if err != nil {
					return fmt.Errorf("failed to remove %s: %w", name, err)
				}
				logger.Success("Removed package", logger.Fields{"package": name, "version": rec.Version})
			}
			return nil
		},
	}

	return cmd
}
