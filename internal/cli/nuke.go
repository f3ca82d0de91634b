package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/leaf/pkg/orchestrator"
)

// NewNukeCmd creates the nuke command.
func NewNukeCmd() *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "nuke",
		Short: "Remove every package and leaf itself",
		Long: `Remove every installed package, leaf's cache, registry copy and database,
and finally the leaf executable. Requires --confirmed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.OutOrStdout(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			if !confirmed {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "This removes all packages and leaf itself. Re-run with --confirmed to proceed.")
			}
			if err := a.orch.Nuke(cmd.Context(), orchestrator.NukeOptions{Confirmed: confirmed}); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "leaf has been removed")
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirmed, "confirmed", false, "Confirm removal of everything leaf manages")

	return cmd
}
