package workspacefinder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aalvaropc/suitemap/internal/domain"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// ConfigFile is the workspace marker and configuration file name.
const ConfigFile = "suitemap.yaml"

// Search page size bounds accepted by SuiteTalk.
const (
	minPageSize = 5
	maxPageSize = 1000
)

// LoadConfig loads suitemap.yaml from the workspace root, applies defaults and then
// SUITEMAP_* environment overrides.
func LoadConfig(root string) (domain.Config, error) {
	return LoadConfigWithEnv(root, nil)
}

// LoadConfigWithEnv is LoadConfig with an explicit environment. A nil map reads the
// process environment.
func LoadConfigWithEnv(root string, environ map[string]string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	path := filepath.Join(root, ConfigFile)
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var y yamlConfig
	if err := yaml.Unmarshal(b, &y); err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	if err := applyYAML(&cfg, y.Suitemap); err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	if err := applyEnv(&cfg, environ); err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.env",
			Kind: domain.KindInvalidConfig,
			Err:  err,
		}
	}

	if cfg.Endpoint.MaxBodyBytes < 0 {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  fmt.Errorf("endpoint.max_body_bytes must not be negative, got %d", cfg.Endpoint.MaxBodyBytes),
		}
	}

	if ps := cfg.Search.PageSize; ps < minPageSize || ps > maxPageSize {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  fmt.Errorf("search page size %d out of range [%d, %d]", ps, minPageSize, maxPageSize),
		}
	}

	return cfg, nil
}

type yamlConfig struct {
	Suitemap yamlSuitemap `yaml:"suitemap"`
}

type yamlSuitemap struct {
	Account string `yaml:"account"`

	Endpoint struct {
		URL        string            `yaml:"url"`
		APIVersion string            `yaml:"api_version"`
		Timeout      string            `yaml:"timeout"`
		MaxBodyBytes *int64            `yaml:"max_body_bytes"`
		Headers      map[string]string `yaml:"headers"`
	} `yaml:"endpoint"`

	Search struct {
		PageSize       int   `yaml:"page_size"`
		BodyFieldsOnly *bool `yaml:"body_fields_only"`
	} `yaml:"search"`

	Journal struct {
		Enabled *bool `yaml:"enabled"`
		Masking *bool `yaml:"masking"`
	} `yaml:"journal"`

	Defaults struct {
		Env string `yaml:"env"`
	} `yaml:"defaults"`

	Paths struct {
		BatchesDir      string `yaml:"batches_dir"`
		EnvironmentsDir string `yaml:"environments_dir"`
		JournalDir      string `yaml:"journal_dir"`
	} `yaml:"paths"`
}

func applyYAML(cfg *domain.Config, y yamlSuitemap) error {
	if y.Account != "" {
		cfg.Account.ID = strings.TrimSpace(y.Account)
	}
	if y.Endpoint.URL != "" {
		cfg.Endpoint.URL = strings.TrimSpace(y.Endpoint.URL)
	}
	if y.Endpoint.APIVersion != "" {
		cfg.Endpoint.APIVersion = y.Endpoint.APIVersion
	}
	if y.Endpoint.Timeout != "" {
		d, err := time.ParseDuration(y.Endpoint.Timeout)
		if err != nil {
			return fmt.Errorf("endpoint.timeout: %w", err)
		}
		cfg.Endpoint.Timeout = d
	}
	if y.Endpoint.MaxBodyBytes != nil {
		cfg.Endpoint.MaxBodyBytes = *y.Endpoint.MaxBodyBytes
	}
	for k, v := range y.Endpoint.Headers {
		cfg.Endpoint.Headers[k] = v
	}

	if y.Search.PageSize != 0 {
		cfg.Search.PageSize = y.Search.PageSize
	}
	if y.Search.BodyFieldsOnly != nil {
		cfg.Search.BodyFieldsOnly = *y.Search.BodyFieldsOnly
	}
	if y.Journal.Enabled != nil {
		cfg.Journal.Enabled = *y.Journal.Enabled
	}
	if y.Journal.Masking != nil {
		cfg.Journal.Masking = *y.Journal.Masking
	}
	if y.Defaults.Env != "" {
		cfg.Defaults.Environment = y.Defaults.Env
	}
	if y.Paths.BatchesDir != "" {
		cfg.Paths.BatchesDir = y.Paths.BatchesDir
	}
	if y.Paths.EnvironmentsDir != "" {
		cfg.Paths.EnvironmentsDir = y.Paths.EnvironmentsDir
	}
	if y.Paths.JournalDir != "" {
		cfg.Paths.JournalDir = y.Paths.JournalDir
	}
	return nil
}

// envOverrides are optional; unset variables leave the file value alone.
type envOverrides struct {
	Account    *string        `env:"SUITEMAP_ACCOUNT"`
	Endpoint   *string        `env:"SUITEMAP_ENDPOINT"`
	APIVersion *string        `env:"SUITEMAP_API_VERSION"`
	Timeout    *time.Duration `env:"SUITEMAP_TIMEOUT"`
	PageSize   *int           `env:"SUITEMAP_PAGE_SIZE"`
	MaxBody    *int64         `env:"SUITEMAP_MAX_BODY_BYTES"`
	Journal    *bool          `env:"SUITEMAP_JOURNAL"`
}

func applyEnv(cfg *domain.Config, environ map[string]string) error {
	var o envOverrides
	if err := env.ParseWithOptions(&o, env.Options{Environment: environ}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if o.Account != nil {
		cfg.Account.ID = strings.TrimSpace(*o.Account)
	}
	if o.Endpoint != nil {
		cfg.Endpoint.URL = strings.TrimSpace(*o.Endpoint)
	}
	if o.APIVersion != nil {
		cfg.Endpoint.APIVersion = *o.APIVersion
	}
	if o.Timeout != nil {
		cfg.Endpoint.Timeout = *o.Timeout
	}
	if o.PageSize != nil {
		cfg.Search.PageSize = *o.PageSize
	}
	if o.MaxBody != nil {
		cfg.Endpoint.MaxBodyBytes = *o.MaxBody
	}
	if o.Journal != nil {
		cfg.Journal.Enabled = *o.Journal
	}
	return nil
}
