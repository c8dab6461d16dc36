// Package cmd defines and implements the CLI commands for the newsharvest executable.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"newsharvest/internal/clock/system"
	"newsharvest/internal/config"
	collyfetcher "newsharvest/internal/fetcher/colly"
	"newsharvest/internal/fetcher/headless"
	"newsharvest/internal/logging"
	"newsharvest/internal/metrics"
	"newsharvest/internal/runner"
	"newsharvest/internal/scraper"
	"newsharvest/internal/sites"
	"newsharvest/internal/storage/fs"
	appconfig "newsharvest/pkg/config"
)

// newCrawlCmd creates and configures the 'crawl' subcommand.
// This command runs one full harvest: it loads the scrape configuration,
// discovers article pages from the seed listings, and persists the raw text
// and metadata artifacts for every discovered article.
func newCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Runs a single bounded harvest",
		Long: `Runs one harvest against the configured site: seed listings are
scanned for article links up to the configured quota, each article is fetched
and parsed, and the raw text and metadata artifacts are written to the output
directory. The output directory is wiped before the run starts.`,

		RunE: runCrawlCommand,
	}
	return cmd
}

func runCrawlCommand(cmd *cobra.Command, _ []string) error {
	logger, err := logging.New(viper.GetBool(appconfig.KeyDev))
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	metrics.Init()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(viper.GetString(appconfig.KeyConfigPath))
	if err != nil {
		return fmt.Errorf("load scrape config: %w", err)
	}

	site, err := resolveSiteProfile()
	if err != nil {
		return err
	}

	fetcher, closeFetcher, err := buildFetcher(cfg)
	if err != nil {
		return err
	}
	defer closeFetcher()

	sink := fs.New(viper.GetString(appconfig.KeyOutputDir), logger)

	summary, err := runner.New(cfg, fetcher, site, sink, system.New(), logger).Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("Harvest interrupted before completion")
			return nil
		}
		return fmt.Errorf("run harvest: %w", err)
	}

	logger.Info("Crawl command finished",
		zap.Int("persisted", summary.Persisted),
		zap.String("output_dir", sink.Root()),
	)
	return nil
}

// resolveSiteProfile picks the extraction profile for this run. A site file
// takes precedence over the built-in registry.
func resolveSiteProfile() (scraper.SiteProfile, error) {
	if path := viper.GetString(appconfig.KeySiteFile); path != "" {
		profile, err := sites.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load site profile: %w", err)
		}
		return profile, nil
	}
	profile, err := sites.Lookup(viper.GetString(appconfig.KeySite))
	if err != nil {
		return nil, fmt.Errorf("resolve site profile: %w", err)
	}
	return profile, nil
}

// buildFetcher constructs the fetcher matching the configured mode. The
// returned close function releases the headless browser; for the plain HTTP
// fetcher it is a no-op.
func buildFetcher(cfg *config.RunConfig) (scraper.Fetcher, func(), error) {
	jitter := viper.GetDuration(appconfig.KeyMaxJitter)

	if cfg.Headless {
		f := headless.New(headless.Config{
			Headers:          cfg.Headers,
			Timeout:          cfg.Timeout(),
			MaxJitter:        jitter,
			IgnoreCertErrors: !cfg.VerifyCertificate,
		})
		return f, f.Close, nil
	}

	f, err := collyfetcher.New(collyfetcher.Config{
		Headers:   cfg.Headers,
		Encoding:  cfg.Encoding,
		Timeout:   cfg.Timeout(),
		MaxJitter: jitter,
		VerifyTLS: cfg.VerifyCertificate,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("init fetcher: %w", err)
	}
	return f, func() {}, nil
}
