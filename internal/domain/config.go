package domain

import (
	"fmt"
	"strings"
	"time"
)

// DefaultAPIVersion is the SuiteTalk endpoint version used when none is configured.
const DefaultAPIVersion = "2024_1"

// Config represents the suitemap configuration loaded from suitemap.yaml.
type Config struct {
	Account  AccountConfig
	Endpoint EndpointConfig
	Search   SearchConfig
	Journal  JournalConfig
	Defaults DefaultsConfig
	Paths    PathsConfig
}

// Headers are extra HTTP headers sent with every remote call.
type Headers map[string]string

type AccountConfig struct {
	ID string
}

type EndpointConfig struct {
	// URL overrides the account-derived SuiteTalk endpoint.
	URL        string
	APIVersion string
	Timeout    time.Duration

	// MaxBodyBytes bounds how much of a response is read; 0 reads it all.
	MaxBodyBytes int64

	// Headers are forwarded verbatim on every call.
	Headers Headers
}

type SearchConfig struct {
	PageSize       int
	BodyFieldsOnly bool
}

type JournalConfig struct {
	Enabled bool
	Masking bool
}

type DefaultsConfig struct {
	Environment string
}

type PathsConfig struct {
	BatchesDir      string
	EnvironmentsDir string
	JournalDir      string
}

// DefaultMaxBodyBytes fits a search page of 1000 body-field-only records.
const DefaultMaxBodyBytes int64 = 16 << 20

// DefaultConfig provides sane defaults if suitemap.yaml is partially missing.
func DefaultConfig() Config {
	return Config{
		Endpoint: EndpointConfig{
			APIVersion: DefaultAPIVersion,
			Timeout:      60 * time.Second,
			MaxBodyBytes: DefaultMaxBodyBytes,
			Headers:      Headers{},
		},
		Search: SearchConfig{
			PageSize:       50,
			BodyFieldsOnly: true,
		},
		Journal: JournalConfig{
			Enabled: true,
			Masking: true,
		},
		Defaults: DefaultsConfig{
			Environment: "sandbox",
		},
		Paths: PathsConfig{
			BatchesDir:      "batches",
			EnvironmentsDir: "env",
			JournalDir:      "journal",
		},
	}
}

// EndpointURL returns the configured endpoint or derives it from the account id.
// Account ids like "123456_SB1" map to the "123456-sb1" host label.
func (c Config) EndpointURL() (string, error) {
	if u := strings.TrimSpace(c.Endpoint.URL); u != "" {
		return u, nil
	}

	acct := strings.TrimSpace(c.Account.ID)
	if acct == "" {
		return "", &OpError{
			Op:   "config.endpoint",
			Kind: KindInvalidConfig,
			Err:  fmt.Errorf("account id or endpoint url is required: %w", ErrInvalidConfig),
		}
	}

	version := c.Endpoint.APIVersion
	if version == "" {
		version = DefaultAPIVersion
	}

	host := strings.ToLower(strings.ReplaceAll(acct, "_", "-"))
	return fmt.Sprintf("https://%s.suitetalk.api.netsuite.com/services/NetSuitePort_%s", host, version), nil
}
