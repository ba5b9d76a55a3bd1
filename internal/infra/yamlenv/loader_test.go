package yamlenv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aalvaropc/suitemap/internal/domain"
)

func envWorkspace(t *testing.T, files map[string]string) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "ws")
	envDir := filepath.Join(root, "env")
	if err := os.MkdirAll(envDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(envDir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return root
}

func TestLoadEnvironment_MergesSecrets(t *testing.T) {
	root := envWorkspace(t, map[string]string{
		"sandbox.yaml":       "account: \"123456_SB1\"\nvars:\n  subsidiary_id: \"1\"\n  token: base\n",
		"secrets.local.yaml": "vars:\n  token: secret\n",
	})

	env, err := NewLoader(root).LoadEnvironment("sandbox")
	if err != nil {
		t.Fatalf("LoadEnvironment error: %v", err)
	}

	if env.Account != "123456_SB1" {
		t.Fatalf("expected account=123456_SB1, got=%s", env.Account)
	}
	if env.Vars["subsidiary_id"] != "1" {
		t.Fatalf("expected subsidiary_id, got=%s", env.Vars["subsidiary_id"])
	}
	if env.Vars["token"] != "secret" {
		t.Fatalf("expected token=secret override, got=%s", env.Vars["token"])
	}
}

func TestLoadEnvironment_SecretsMissing(t *testing.T) {
	root := envWorkspace(t, map[string]string{
		"sandbox.yaml": "vars:\n  subsidiary_id: \"1\"\n",
	})

	env, err := NewLoader(root).LoadEnvironment("sandbox")
	if err != nil {
		t.Fatalf("LoadEnvironment error: %v", err)
	}
	if env.Account != "" {
		t.Fatalf("expected no account override, got=%s", env.Account)
	}
	if env.Vars["subsidiary_id"] != "1" {
		t.Fatalf("expected subsidiary_id, got=%s", env.Vars["subsidiary_id"])
	}
}

func TestLoadEnvironment_EnvMissing(t *testing.T) {
	root := envWorkspace(t, nil)

	_, err := NewLoader(root).LoadEnvironment("sandbox")
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected KindNotFound, got=%v", err)
	}
}

func TestLoadEnvironment_SupportsYML(t *testing.T) {
	root := envWorkspace(t, map[string]string{
		"production.yml": "vars:\n  subsidiary_id: \"3\"\n",
	})

	env, err := NewLoader(root).LoadEnvironment("production")
	if err != nil {
		t.Fatalf("LoadEnvironment error: %v", err)
	}
	if env.Name != "production" {
		t.Fatalf("expected name=production, got=%s", env.Name)
	}
	if env.Vars["subsidiary_id"] != "3" {
		t.Fatalf("expected subsidiary_id=3, got=%s", env.Vars["subsidiary_id"])
	}
}

func TestLoadEnvironment_ByPath(t *testing.T) {
	root := envWorkspace(t, map[string]string{
		"qa.yaml": "vars:\n  a: b\n",
	})

	env, err := NewLoader("/does/not/matter").LoadEnvironment(filepath.Join(root, "env", "qa.yaml"))
	if err != nil {
		t.Fatalf("LoadEnvironment error: %v", err)
	}
	if env.Name != "qa" || env.Vars["a"] != "b" {
		t.Fatalf("unexpected env: %+v", env)
	}
}

func TestLoadEnvironment_InvalidYAML(t *testing.T) {
	root := envWorkspace(t, map[string]string{
		"broken.yaml": "vars: [unterminated\n",
	})

	_, err := NewLoader(root).LoadEnvironment("broken")
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected KindInvalidConfig, got=%v", err)
	}
}

func TestListEnvironments_SkipsSecrets(t *testing.T) {
	root := envWorkspace(t, map[string]string{
		"sandbox.yaml":       "vars: {}\n",
		"production.yml":     "vars: {}\n",
		"secrets.local.yaml": "vars: {}\n",
		"README.md":          "ignored",
	})

	refs, err := NewLoader(root).ListEnvironments(root)
	if err != nil {
		t.Fatalf("ListEnvironments error: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("expected 2 envs, got=%d (%+v)", len(refs), refs)
	}
	if refs[0].Name != "production" || refs[1].Name != "sandbox" {
		t.Fatalf("unexpected order: %+v", refs)
	}
}

func TestListEnvironments_MissingDir(t *testing.T) {
	root := t.TempDir()
	_, err := NewLoader(root, WithEnvDir("nope")).ListEnvironments(root)
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected KindNotFound, got=%v", err)
	}
}
