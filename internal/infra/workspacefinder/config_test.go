package workspacefinder

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aalvaropc/suitemap/internal/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "ws")
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, ConfigFile), []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return root
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	// Partial config (no paths/defaults)
	root := writeConfig(t, "suitemap:\n  account: \"123456_SB1\"\n  journal:\n    masking: false\n")

	cfg, err := LoadConfigWithEnv(root, map[string]string{})
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	if cfg.Account.ID != "123456_SB1" {
		t.Fatalf("expected account=123456_SB1, got=%s", cfg.Account.ID)
	}
	if cfg.Journal.Masking != false {
		t.Fatalf("expected masking=false, got=%v", cfg.Journal.Masking)
	}
	if !cfg.Journal.Enabled {
		t.Fatalf("expected journal enabled by default")
	}
	if cfg.Defaults.Environment != "sandbox" {
		t.Fatalf("expected default env=sandbox, got=%s", cfg.Defaults.Environment)
	}
	if cfg.Paths.BatchesDir != "batches" {
		t.Fatalf("expected batches dir=batches, got=%s", cfg.Paths.BatchesDir)
	}
	if cfg.Endpoint.APIVersion != domain.DefaultAPIVersion {
		t.Fatalf("expected api version=%s, got=%s", domain.DefaultAPIVersion, cfg.Endpoint.APIVersion)
	}
	if cfg.Search.PageSize != 50 {
		t.Fatalf("expected page size=50, got=%d", cfg.Search.PageSize)
	}
}

func TestLoadConfig_FullFile(t *testing.T) {
	root := writeConfig(t, `
suitemap:
  account: "777"
  endpoint:
    url: "https://example.test/services/NetSuitePort_2023_2"
    api_version: "2023_2"
    timeout: 15s
    headers:
      X-Trace: "on"
  search:
    page_size: 200
    body_fields_only: false
  journal:
    enabled: false
  defaults:
    env: production
  paths:
    batches_dir: jobs
    environments_dir: environments
    journal_dir: .journal
`)

	cfg, err := LoadConfigWithEnv(root, map[string]string{})
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	if cfg.Endpoint.Timeout != 15*time.Second {
		t.Fatalf("expected timeout=15s, got=%s", cfg.Endpoint.Timeout)
	}
	if cfg.Endpoint.Headers["X-Trace"] != "on" {
		t.Fatalf("expected header X-Trace, got=%v", cfg.Endpoint.Headers)
	}
	if cfg.Search.PageSize != 200 || cfg.Search.BodyFieldsOnly {
		t.Fatalf("unexpected search config: %+v", cfg.Search)
	}
	if cfg.Journal.Enabled {
		t.Fatalf("expected journal disabled")
	}
	if cfg.Paths.BatchesDir != "jobs" || cfg.Paths.EnvironmentsDir != "environments" || cfg.Paths.JournalDir != ".journal" {
		t.Fatalf("unexpected paths: %+v", cfg.Paths)
	}
	got, err := cfg.EndpointURL()
	if err != nil || got != "https://example.test/services/NetSuitePort_2023_2" {
		t.Fatalf("unexpected endpoint %q (%v)", got, err)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	root := writeConfig(t, "suitemap:\n  account: \"111\"\n  search:\n    page_size: 20\n")

	cfg, err := LoadConfigWithEnv(root, map[string]string{
		"SUITEMAP_ACCOUNT":     "222_SB2",
		"SUITEMAP_API_VERSION": "2025_1",
		"SUITEMAP_TIMEOUT":     "5s",
		"SUITEMAP_PAGE_SIZE":   "100",
		"SUITEMAP_JOURNAL":     "false",
	})
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	if cfg.Account.ID != "222_SB2" {
		t.Fatalf("expected env account, got=%s", cfg.Account.ID)
	}
	if cfg.Endpoint.APIVersion != "2025_1" || cfg.Endpoint.Timeout != 5*time.Second {
		t.Fatalf("unexpected endpoint config: %+v", cfg.Endpoint)
	}
	if cfg.Search.PageSize != 100 {
		t.Fatalf("expected page size=100, got=%d", cfg.Search.PageSize)
	}
	if cfg.Journal.Enabled {
		t.Fatalf("expected journal disabled by env")
	}

	got, err := cfg.EndpointURL()
	if err != nil {
		t.Fatalf("EndpointURL error: %v", err)
	}
	want := "https://222-sb2.suitetalk.api.netsuite.com/services/NetSuitePort_2025_1"
	if got != want {
		t.Fatalf("expected %s, got=%s", want, got)
	}
}

func TestLoadConfig_MaxBodyBytes(t *testing.T) {
	root := writeConfig(t, "suitemap:\n  endpoint:\n    max_body_bytes: 1048576\n")

	cfg, err := LoadConfigWithEnv(root, map[string]string{})
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Endpoint.MaxBodyBytes != 1<<20 {
		t.Fatalf("expected file limit, got=%d", cfg.Endpoint.MaxBodyBytes)
	}

	cfg, err = LoadConfigWithEnv(root, map[string]string{"SUITEMAP_MAX_BODY_BYTES": "0"})
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Endpoint.MaxBodyBytes != 0 {
		t.Fatalf("expected env to lift the limit, got=%d", cfg.Endpoint.MaxBodyBytes)
	}

	cfg, err = LoadConfigWithEnv(writeConfig(t, "suitemap: {}\n"), map[string]string{})
	if err != nil || cfg.Endpoint.MaxBodyBytes != domain.DefaultMaxBodyBytes {
		t.Fatalf("expected default limit, got=%d (%v)", cfg.Endpoint.MaxBodyBytes, err)
	}
}

func TestLoadConfig_UnsetEnvKeepsFile(t *testing.T) {
	root := writeConfig(t, "suitemap:\n  account: \"111\"\n")

	cfg, err := LoadConfigWithEnv(root, map[string]string{"UNRELATED": "x"})
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Account.ID != "111" {
		t.Fatalf("expected file account, got=%s", cfg.Account.ID)
	}
}

func TestLoadConfig_ProcessEnv(t *testing.T) {
	root := writeConfig(t, "suitemap:\n  account: \"111\"\n")
	t.Setenv("SUITEMAP_ENDPOINT", "http://127.0.0.1:9/soap")

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Endpoint.URL != "http://127.0.0.1:9/soap" {
		t.Fatalf("expected endpoint from process env, got=%s", cfg.Endpoint.URL)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := []struct {
		name    string
		content string
		environ map[string]string
	}{
		{name: "bad yaml", content: "suitemap: [\n"},
		{name: "bad timeout", content: "suitemap:\n  endpoint:\n    timeout: soon\n"},
		{name: "page size too small", content: "suitemap:\n  search:\n    page_size: 2\n"},
		{name: "bad env int", content: "suitemap: {}\n", environ: map[string]string{"SUITEMAP_PAGE_SIZE": "many"}},
		{name: "negative body limit", content: "suitemap:\n  endpoint:\n    max_body_bytes: -1\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			root := writeConfig(t, tc.content)
			environ := tc.environ
			if environ == nil {
				environ = map[string]string{}
			}
			_, err := LoadConfigWithEnv(root, environ)
			if !domain.IsKind(err, domain.KindInvalidConfig) {
				t.Fatalf("expected invalid_config, got=%v", err)
			}
		})
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfigWithEnv(t.TempDir(), map[string]string{})
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not_found, got=%v", err)
	}
}
