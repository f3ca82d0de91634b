package cli

import (
	"github.com/spf13/cobra"

	"github.com/glorpus-work/leaf/internal/logger"
	"github.com/glorpus-work/leaf/pkg/errors"
	"github.com/glorpus-work/leaf/pkg/orchestrator"
)

// NewUpgradeCmd creates the upgrade command.
func NewUpgradeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upgrade [PACKAGE...]",
		Short: "Upgrade installed packages",
		Long: `Upgrade the named packages, or every installed package when none is named,
to the version in the local registry copy.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.OutOrStdout(), true)
			if err != nil {
				return err
			}
			defer a.Close()

			if len(args) == 0 {
				outcomes, err := a.orch.UpgradeAll(cmd.Context())
				reportUpgrades(outcomes)
				return err
			}

			var outcomes []*orchestrator.Outcome
			var errs []error
			for _, name := range args {
				outcome, err := a.orch.Upgrade(cmd.Context(), name)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				outcomes = append(outcomes, outcome)
			}
			reportUpgrades(outcomes)
			return errors.Join(errs...)
		},
	}

	return cmd
}

func reportUpgrades(outcomes []*orchestrator.Outcome) {
	for _, o := range outcomes {
		if o.AlreadyCurrent {
			logger.Info("Package is up to date", logger.Fields{"package": o.Package.Name, "version": o.Package.Version})
			continue
		}
		logger.Success("Upgraded package", logger.Fields{
			"package": o.Package.Name,
			"from":    o.PreviousVersion,
			"to":      o.Package.Version,
		})
	}
}
