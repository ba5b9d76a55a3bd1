package fsworkspace

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/aalvaropc/suitemap/internal/domain"
	"github.com/aalvaropc/suitemap/internal/ports"
)

//go:embed templates
var templatesFS embed.FS

// Initializer scaffolds a workspace: suitemap.yaml, environments, an example batch and
// the git ignores for the journal and local secrets.
type Initializer struct {
	paths domain.PathsConfig
}

type Option func(*Initializer)

func WithPaths(p domain.PathsConfig) Option {
	return func(i *Initializer) { i.paths = p }
}

func NewInitializer(opts ...Option) *Initializer {
	i := &Initializer{paths: domain.DefaultConfig().Paths}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

var _ ports.WorkspaceInitializer = (*Initializer)(nil)

func (i *Initializer) Init(spec domain.WorkspaceSpec, force bool) error {
	root := filepath.Clean(spec.Root)

	dirs := []string{
		filepath.Join(root, i.paths.BatchesDir),
		filepath.Join(root, i.paths.EnvironmentsDir),
		filepath.Join(root, i.paths.JournalDir),
		filepath.Join(root, ".suitemap", "logs"),
	}

	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return &domain.OpError{Op: "fsworkspace.init", Kind: domain.KindExecution, Path: d, Err: err}
		}
	}

	if err := i.ensureGitignore(root); err != nil {
		return &domain.OpError{Op: "fsworkspace.gitignore", Kind: domain.KindExecution, Path: root, Err: err}
	}

	return fs.WalkDir(templatesFS, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		dst := filepath.Join(root, i.target(strings.TrimPrefix(p, "templates/")))

		if !force {
			if _, statErr := os.Stat(dst); statErr == nil {
				return nil
			}
		}

		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}

		b, err := fs.ReadFile(templatesFS, p)
		if err != nil {
			return err
		}

		mode := fs.FileMode(0o644)
		if strings.Contains(strings.ToLower(p), "secrets") {
			mode = 0o600
		}

		if err := os.WriteFile(dst, b, mode); err != nil {
			return &domain.OpError{Op: "fsworkspace.init", Kind: domain.KindExecution, Path: dst, Err: err}
		}
		return nil
	})
}

// target maps a template path onto the configured directories.
func (i *Initializer) target(rel string) string {
	dir, file := filepath.Split(filepath.FromSlash(rel))
	switch filepath.Clean(dir) {
	case "env":
		return filepath.Join(i.paths.EnvironmentsDir, file)
	case "batches":
		return filepath.Join(i.paths.BatchesDir, file)
	default:
		return filepath.FromSlash(rel)
	}
}

func (i *Initializer) ensureGitignore(root string) error {
	const header = "# suitemap"
	entries := []string{
		strings.TrimSuffix(i.paths.JournalDir, "/") + "/",
		".suitemap/",
		filepath.ToSlash(filepath.Join(i.paths.EnvironmentsDir, "secrets.local.yaml")),
	}

	path := filepath.Join(root, ".gitignore")
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			lines := append([]string{header}, entries...)
			lines = append(lines, "")
			return os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644)
		}
		return err
	}

	existing := string(b)
	present := map[string]bool{}
	for _, line := range strings.Split(existing, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			present[trimmed] = true
		}
	}

	var missing []string
	for _, e := range entries {
		if !present[e] {
			missing = append(missing, e)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	var out strings.Builder
	out.Grow(len(existing) + 64)

	out.WriteString(existing)
	if existing != "" && !strings.HasSuffix(existing, "\n") {
		out.WriteByte('\n')
	}
	out.WriteByte('\n')
	if !present[header] {
		out.WriteString(header)
		out.WriteByte('\n')
	}
	for _, e := range missing {
		out.WriteString(e)
		out.WriteByte('\n')
	}

	return os.WriteFile(path, []byte(out.String()), 0o644)
}
