package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search TERM",
		Short: "Search the package registry",
		Long:  "Search package names, descriptions and tags, case-insensitively.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.OutOrStdout(), true)
			if err != nil {
				return err
			}
			defer a.Close()

			results, err := a.orch.Search(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(results) == 0 {
				_, _ = fmt.Fprintf(out, "No packages match %q\n", args[0])
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, TabWidth, ' ', 0)
			_, _ = fmt.Fprintln(w, "PACKAGE\tVERSION\tSTATUS\tDESCRIPTION\tTAGS")
			for _, r := range results {
				status := ""
				if r.Installed != nil {
					status = "installed " + r.Installed.Version
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					r.Name, r.Package.Version, status,
					truncate(r.Package.Description, MaxDescriptionLength),
					strings.Join(r.Package.Tags, ","))
			}
			return w.Flush()
		},
	}

	return cmd
}
