package cli

import (
	"github.com/spf13/cobra"

	"github.com/glorpus-work/leaf/internal/logger"
)

// NewUpdateCmd creates the update command, which refreshes the local registry copy.
func NewUpdateCmd() *cobra.Command {
	var registryURL string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Refresh the package registry",
		Long: `Download the package registry and replace the local copy.
The local copy is only replaced when the download parses as a registry.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.OutOrStdout(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			source := registryURL
			if source == "" {
				source = a.cfg.Settings.RegistryURL
			}
			reg, err := a.orch.SyncRegistry(cmd.Context(), source, a.cfg.RegistryPath())
			if err != nil {
				return err
			}
			logger.Success("Registry updated", logger.Fields{"packages": len(reg.Packages)})
			return nil
		},
	}

	cmd.Flags().StringVar(&registryURL, "url", "", "Registry URL (defaults to config)")

	return cmd
}
