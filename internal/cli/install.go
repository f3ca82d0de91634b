package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/leaf/internal/logger"
	"github.com/glorpus-work/leaf/pkg/errors"
	"github.com/glorpus-work/leaf/pkg/orchestrator"
)

// NewInstallCmd creates the install command.
func NewInstallCmd() *cobra.Command {
	var version string

	cmd := &cobra.Command{
		Use:   "install PACKAGE...",
		Short: "Install packages",
		Long: `Install one or more packages from the local registry copy.
Packages are installed one at a time; a failed package leaves no files behind.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if version != "" && len(args) != 1 {
				return fmt.Errorf("--version applies to a single package: %w", errors.ErrInvalidArguments)
			}
			a, err := openApp(cmd.OutOrStdout(), true)
			if err != nil {
				return err
			}
			defer a.Close()

			for _, name := range args {
				outcome, err := a.orch.Install(cmd.Context(), name, orchestrator.InstallOptions{Version: version})
				if err != nil {
					return fmt.Errorf("failed to install %s: %w", name, err)
				}
				logger.Success("Installed package", logger.Fields{
					"package": name,
					"version": outcome.Package.Version,
					"files":   len(outcome.Package.Files),
				})
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&version, "version", "", "Install this exact version instead of the registry's current one")

	return cmd
}
