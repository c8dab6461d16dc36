// Package config loads and validates the scraper run configuration.
//
// The run configuration is a JSON file with exactly seven keys. Validation
// operates on the raw file bytes before any typed construction happens, so a
// malformed file can never short-circuit into default values. Each rule maps
// to one of the flat error kinds below; the first violated rule wins.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"
)

// Bounds enforced by the validation rules.
const (
	MinArticles = 1
	MaxArticles = 150

	MinTimeoutSeconds = 1
	MaxTimeoutSeconds = 59
)

// Error kinds returned by Load. Callers match them with errors.Is; the
// wrapping message carries the human-readable detail.
var (
	ErrInvalidSeedURL      = errors.New("invalid seed url")
	ErrInvalidArticleCount = errors.New("invalid article count")
	ErrInvalidHeaders      = errors.New("invalid headers")
	ErrInvalidEncoding     = errors.New("invalid encoding")
	ErrInvalidTimeout      = errors.New("invalid timeout")
	ErrInvalidVerifyFlags  = errors.New("invalid verify flags")
)

// seedURLPattern is the shape every seed must match: an http(s) URL with an
// optional www prefix and a dotted host.
var seedURLPattern = regexp.MustCompile(`^https?://(www\.)?[\w-]+(\.[\w-]+)+`)

// RunConfig holds the frozen run parameters. It is immutable after Load and
// shared by reference across the crawl and parse phases.
type RunConfig struct {
	SeedURLs          []string          `json:"seed_urls"`
	TotalArticles     int               `json:"total_articles_to_find_and_parse"`
	Headers           map[string]string `json:"headers"`
	Encoding          string            `json:"encoding"`
	TimeoutSeconds    int               `json:"timeout"`
	VerifyCertificate bool              `json:"should_verify_certificate"`
	Headless          bool              `json:"headless_mode"`
}

// Timeout returns the request timeout as a duration.
func (c *RunConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Load reads the JSON run configuration at path, validates the raw content,
// and decodes it into a RunConfig. Validation and construction decode the
// bytes independently, so construction never runs on unvalidated input. No
// network or filesystem side effects beyond reading the one file.
func Load(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := validate(data); err != nil {
		return nil, err
	}

	var cfg RunConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// validate applies the rules in their fixed order against the raw bytes.
// Types are checked strictly: a quoted number is not an integer and a
// fractional number is not a count.
func validate(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("config is not a JSON object: %w", err)
	}

	if err := validateSeedURLs(raw); err != nil {
		return err
	}
	if err := validateArticleCount(raw); err != nil {
		return err
	}
	if err := validateHeaders(raw); err != nil {
		return err
	}
	if err := validateEncoding(raw); err != nil {
		return err
	}
	if err := validateTimeout(raw); err != nil {
		return err
	}
	return validateFlags(raw)
}

func validateSeedURLs(raw map[string]json.RawMessage) error {
	payload, ok := raw["seed_urls"]
	if !ok {
		return fmt.Errorf("seed_urls is missing: %w", ErrInvalidSeedURL)
	}
	var seeds []string
	if err := json.Unmarshal(payload, &seeds); err != nil {
		return fmt.Errorf("seed_urls must be a list of strings: %w", ErrInvalidSeedURL)
	}
	if len(seeds) == 0 {
		return fmt.Errorf("seed_urls must not be empty: %w", ErrInvalidSeedURL)
	}
	for _, seed := range seeds {
		if !seedURLPattern.MatchString(seed) {
			return fmt.Errorf("seed url %q does not match the site pattern: %w", seed, ErrInvalidSeedURL)
		}
	}
	return nil
}

func validateArticleCount(raw map[string]json.RawMessage) error {
	payload, ok := raw["total_articles_to_find_and_parse"]
	if !ok {
		return fmt.Errorf("total_articles_to_find_and_parse is missing: %w", ErrInvalidArticleCount)
	}
	var quota int
	if err := json.Unmarshal(payload, &quota); err != nil {
		return fmt.Errorf("total_articles_to_find_and_parse must be an integer: %w", ErrInvalidArticleCount)
	}
	if quota < MinArticles || quota > MaxArticles {
		return fmt.Errorf("total_articles_to_find_and_parse %d outside [%d, %d]: %w",
			quota, MinArticles, MaxArticles, ErrInvalidArticleCount)
	}
	return nil
}

func validateHeaders(raw map[string]json.RawMessage) error {
	payload, ok := raw["headers"]
	if !ok {
		return fmt.Errorf("headers is missing: %w", ErrInvalidHeaders)
	}
	var headers map[string]string
	if err := json.Unmarshal(payload, &headers); err != nil {
		return fmt.Errorf("headers must be a string-to-string map: %w", ErrInvalidHeaders)
	}
	return nil
}

func validateEncoding(raw map[string]json.RawMessage) error {
	payload, ok := raw["encoding"]
	if !ok {
		return fmt.Errorf("encoding is missing: %w", ErrInvalidEncoding)
	}
	var encoding string
	if err := json.Unmarshal(payload, &encoding); err != nil {
		return fmt.Errorf("encoding must be a string: %w", ErrInvalidEncoding)
	}
	return nil
}

func validateTimeout(raw map[string]json.RawMessage) error {
	payload, ok := raw["timeout"]
	if !ok {
		return fmt.Errorf("timeout is missing: %w", ErrInvalidTimeout)
	}
	var timeout int
	if err := json.Unmarshal(payload, &timeout); err != nil {
		return fmt.Errorf("timeout must be an integer: %w", ErrInvalidTimeout)
	}
	if timeout < MinTimeoutSeconds || timeout > MaxTimeoutSeconds {
		return fmt.Errorf("timeout %d outside [%d, %d] seconds: %w",
			timeout, MinTimeoutSeconds, MaxTimeoutSeconds, ErrInvalidTimeout)
	}
	return nil
}

func validateFlags(raw map[string]json.RawMessage) error {
	for _, key := range []string{"should_verify_certificate", "headless_mode"} {
		payload, ok := raw[key]
		if !ok {
			return fmt.Errorf("%s is missing: %w", key, ErrInvalidVerifyFlags)
		}
		var flag bool
		if err := json.Unmarshal(payload, &flag); err != nil {
			return fmt.Errorf("%s must be a boolean: %w", key, ErrInvalidVerifyFlags)
		}
	}
	return nil
}
