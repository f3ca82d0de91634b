package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/leaf/internal/logger"
	"github.com/glorpus-work/leaf/pkg/orchestrator"
)

// NewSelfUpdateCmd creates the self-update command.
func NewSelfUpdateCmd() *cobra.Command {
	var (
		version string
		pre     bool
	)

	cmd := &cobra.Command{
		Use:   "self-update",
		Short: "Update leaf itself",
		Long: `Replace the leaf executable with the latest stable release, a prerelease (--pre)
or an exact version (--version). The replaced binary is kept next to the new one
until the next self-update.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.OutOrStdout(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.orch.SelfUpdate(cmd.Context(), orchestrator.SelfUpdateOptions{Version: version, AllowPrerelease: pre})
			if err != nil {
				return fmt.Errorf("self-update failed: %w", err)
			}
			if res.AlreadyCurrent {
				logger.Info("leaf is already up to date", logger.Fields{"version": res.Selection.Version})
				return nil
			}
			if res.VerifyErr != nil {
				logger.Warn("New leaf binary did not pass its version check", logger.Fields{
					"error":    res.VerifyErr.Error(),
					"previous": res.Previous,
				})
			}
			logger.Success("Updated leaf", logger.Fields{"version": res.Selection.Version})
			return nil
		},
	}

	cmd.Flags().StringVar(&version, "version", "", "Install this exact release tag")
	cmd.Flags().BoolVar(&pre, "pre", false, "Install the newest prerelease")
	cmd.MarkFlagsMutuallyExclusive("version", "pre")

	return cmd
}
