// Package config is responsible for initializing the application's runtime
// settings. It uses the Viper library to merge defaults, environment
// variables, and command-line flags, so deployments can steer the harvester
// without touching the scrape configuration file itself.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Settings keys understood by the harvester. Each is overridable through a
// NEWSHARVEST_* environment variable, e.g. NEWSHARVEST_OUTPUT_DIR.
const (
	// KeyConfigPath locates the scrape configuration JSON.
	KeyConfigPath = "config_path"
	// KeySite names the built-in site profile to harvest.
	KeySite = "site"
	// KeySiteFile points at a YAML site profile and overrides KeySite.
	KeySiteFile = "site_file"
	// KeyOutputDir is the artifact directory, wiped at the start of a run.
	KeyOutputDir = "output_dir"
	// KeyMaxJitter caps the random pause inserted before each request.
	KeyMaxJitter = "max_jitter"
	// KeyDev switches to human-readable development logging.
	KeyDev = "dev"
)

// InitConfig initializes the application's runtime settings using Viper.
// It sets sensible defaults and enables reading from environment variables.
// This function is designed to be called once at application startup.
func InitConfig() {
	viper.SetDefault(KeyConfigPath, "configs/config.json")
	viper.SetDefault(KeySite, "chelny-izvest")
	viper.SetDefault(KeySiteFile, "")
	viper.SetDefault(KeyOutputDir, "artifacts")
	viper.SetDefault(KeyMaxJitter, 2*time.Second)
	viper.SetDefault(KeyDev, false)

	viper.SetEnvPrefix("NEWSHARVEST")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}
