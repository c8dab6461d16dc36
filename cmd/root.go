package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	appconfig "newsharvest/pkg/config"
)

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "newsharvest",
		Short: "A bounded batch scraper for regional news sites.",
		Long: `newsharvest runs a single bounded harvest: it reads a scrape
configuration, discovers article pages from the configured seed listings,
and persists one raw text and one metadata artifact per article.`,
		SilenceUsage: true,
	}

	// Initialize Viper settings before any command runs.
	cobra.OnInitialize(appconfig.InitConfig)

	flags := cmd.PersistentFlags()
	flags.String("config", "configs/config.json", "path to the scrape configuration JSON")
	flags.String("site", "chelny-izvest", "built-in site profile to harvest")
	flags.String("site-file", "", "YAML site profile; overrides --site")
	flags.String("output", "artifacts", "artifact output directory")
	flags.Duration("max-jitter", 2*time.Second, "maximum random pause before each request")
	flags.Bool("dev", false, "enable development logging")

	cobra.CheckErr(viper.BindPFlag(appconfig.KeyConfigPath, flags.Lookup("config")))
	cobra.CheckErr(viper.BindPFlag(appconfig.KeySite, flags.Lookup("site")))
	cobra.CheckErr(viper.BindPFlag(appconfig.KeySiteFile, flags.Lookup("site-file")))
	cobra.CheckErr(viper.BindPFlag(appconfig.KeyOutputDir, flags.Lookup("output")))
	cobra.CheckErr(viper.BindPFlag(appconfig.KeyMaxJitter, flags.Lookup("max-jitter")))
	cobra.CheckErr(viper.BindPFlag(appconfig.KeyDev, flags.Lookup("dev")))

	cmd.AddCommand(newCrawlCmd())
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newSitesCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
