package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	var nameFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List installed packages",
		Long: `List all installed packages from the local database.
Use --name to filter packages by name.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.OutOrStdout(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			installed, err := a.orch.List()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			w := tabwriter.NewWriter(out, 0, 0, TabWidth, ' ', 0)
			rows := 0
			for _, rec := range installed {
				if nameFilter != "" && !strings.Contains(rec.Name, nameFilter) {
					continue
				}
				if rows == 0 {
					_, _ = fmt.Fprintln(w, "PACKAGE\tVERSION\tPLATFORM\tINSTALLED")
				}
				rows++
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", rec.Name, rec.Version, rec.Platform, rec.InstalledAt.Format("2006-01-02 15:04"))
			}
			if rows == 0 {
				_, _ = fmt.Fprintln(out, "No packages installed")
				return nil
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&nameFilter, "name", "", "Filter packages by name (partial match)")

	return cmd
}
