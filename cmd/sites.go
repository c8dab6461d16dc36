package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"newsharvest/internal/sites"
)

// newSitesCmd creates and configures the 'sites' subcommand, which lists the
// site profiles compiled into the binary.
func newSitesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sites",
		Short: "Lists the built-in site profiles",
		Long: `Lists every site profile compiled into the binary together with its
listing selector and date layout. A custom profile can be supplied with
--site-file instead.`,

		RunE: runSitesCommand,
	}
	return cmd
}

func runSitesCommand(cmd *cobra.Command, _ []string) error {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Name", "Teaser Selector", "Date Layout"})

	for _, name := range sites.Names() {
		profile, err := sites.Lookup(name)
		if err != nil {
			return fmt.Errorf("lookup site %s: %w", name, err)
		}
		t.AppendRow(table.Row{profile.Name, profile.List.Teasers, profile.Date.Layout})
	}

	t.Render()
	return nil
}
