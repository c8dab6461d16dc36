package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"newsharvest/internal/config"
	appconfig "newsharvest/pkg/config"
)

// newCheckCmd creates and configures the 'check' subcommand.
// It validates the scrape configuration without touching the network and
// prints the run parameters a harvest would use.
func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validates the scrape configuration",
		Long: `Loads and validates the scrape configuration JSON, then prints the
run parameters it would use. No requests are made and no artifacts are
written.`,

		RunE: runCheckCommand,
	}
	return cmd
}

func runCheckCommand(cmd *cobra.Command, _ []string) error {
	path := viper.GetString(appconfig.KeyConfigPath)
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load scrape config: %w", err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Setting", "Value"})
	t.AppendRow(table.Row{"Seed URLs", strings.Join(cfg.SeedURLs, "\n")})
	t.AppendRow(table.Row{"Articles", cfg.TotalArticles})
	t.AppendRow(table.Row{"Headers", formatHeaders(cfg.Headers)})
	t.AppendRow(table.Row{"Encoding", orDash(cfg.Encoding)})
	t.AppendRow(table.Row{"Timeout", cfg.Timeout()})
	t.AppendRow(table.Row{"Verify certificate", cfg.VerifyCertificate})
	t.AppendRow(table.Row{"Headless mode", cfg.Headless})
	t.Render()

	fmt.Fprintf(cmd.OutOrStdout(), "Configuration %s is valid.\n", path)
	return nil
}

func formatHeaders(headers map[string]string) string {
	if len(headers) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %s", k, headers[k]))
	}
	return strings.Join(lines, "\n")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
