package fsworkspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aalvaropc/suitemap/internal/domain"
)

func TestInitializer_Init_CreatesWorkspaceFiles(t *testing.T) {
	tmp := t.TempDir()

	i := NewInitializer()
	if err := i.Init(domain.WorkspaceSpec{Root: tmp}, false); err != nil {
		t.Fatalf("Init error: %v", err)
	}

	assertFileExists(t, filepath.Join(tmp, "suitemap.yaml"))
	assertFileExists(t, filepath.Join(tmp, "batches", "example.yaml"))
	assertFileExists(t, filepath.Join(tmp, "env", "sandbox.yaml"))
	assertFileExists(t, filepath.Join(tmp, "env", "production.yaml"))
	assertFileExists(t, filepath.Join(tmp, "journal"))
	assertFileExists(t, filepath.Join(tmp, ".suitemap", "logs"))

	secretPath := filepath.Join(tmp, "env", "secrets.local.yaml")
	assertFileExists(t, secretPath)
	info, err := os.Stat(secretPath)
	if err != nil {
		t.Fatalf("stat secrets file: %v", err)
	}
	if got := info.Mode().Perm(); got != 0o600 {
		t.Fatalf("expected secrets file mode 600, got %o", got)
	}
}

func TestInitializer_Init_HonoursPaths(t *testing.T) {
	tmp := t.TempDir()

	i := NewInitializer(WithPaths(domain.PathsConfig{
		BatchesDir:      "jobs",
		EnvironmentsDir: "environments",
		JournalDir:      "out",
	}))
	if err := i.Init(domain.WorkspaceSpec{Root: tmp}, false); err != nil {
		t.Fatalf("Init error: %v", err)
	}

	assertFileExists(t, filepath.Join(tmp, "jobs", "example.yaml"))
	assertFileExists(t, filepath.Join(tmp, "environments", "sandbox.yaml"))
	assertFileExists(t, filepath.Join(tmp, "out"))

	b, err := os.ReadFile(filepath.Join(tmp, ".gitignore"))
	if err != nil {
		t.Fatalf("read .gitignore: %v", err)
	}
	if !strings.Contains(string(b), "environments/secrets.local.yaml") {
		t.Fatalf("expected secrets ignore under custom env dir, got:\n%s", b)
	}
}

func TestInitializer_Init_SkipsExistingFilesUnlessForce(t *testing.T) {
	tmp := t.TempDir()

	cfgPath := filepath.Join(tmp, "suitemap.yaml")
	if err := os.WriteFile(cfgPath, []byte("custom\n"), 0o644); err != nil {
		t.Fatalf("write existing suitemap.yaml: %v", err)
	}

	i := NewInitializer()

	if err := i.Init(domain.WorkspaceSpec{Root: tmp}, false); err != nil {
		t.Fatalf("Init (force=false) error: %v", err)
	}

	b, err := os.ReadFile(cfgPath)
	if err != nil {
		t.Fatalf("read suitemap.yaml: %v", err)
	}
	if string(b) != "custom\n" {
		t.Fatalf("expected suitemap.yaml preserved, got %q", string(b))
	}

	if err := i.Init(domain.WorkspaceSpec{Root: tmp}, true); err != nil {
		t.Fatalf("Init (force=true) error: %v", err)
	}

	b, err = os.ReadFile(cfgPath)
	if err != nil {
		t.Fatalf("read suitemap.yaml after force: %v", err)
	}
	if !strings.Contains(string(b), "suitemap:") {
		t.Fatalf("expected suitemap.yaml overwritten with template, got %q", string(b))
	}
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file %s, stat err=%v", path, err)
	}
}
