package yamlenv

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aalvaropc/suitemap/internal/domain"
	"github.com/aalvaropc/suitemap/internal/ports"
	"gopkg.in/yaml.v3"
)

// Loader reads environments from <root>/<envDir>/<name>.yaml. A secrets file next to
// the environments, ignored by git, overrides their vars.
type Loader struct {
	rootDir     string
	envDir      string
	secretsFile string
}

type Option func(*Loader)

func WithEnvDir(dir string) Option {
	return func(l *Loader) { l.envDir = dir }
}

func WithSecretsFile(name string) Option {
	return func(l *Loader) { l.secretsFile = name }
}

func NewLoader(root string, opts ...Option) *Loader {
	l := &Loader{
		rootDir:     root,
		envDir:      "env",
		secretsFile: "secrets.local.yaml",
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

var (
	_ ports.EnvironmentLoader  = (*Loader)(nil)
	_ ports.EnvironmentCatalog = (*Loader)(nil)
)

// LoadEnvironment accepts either an env name (e.g., "sandbox") or a path to a YAML file.
func (l *Loader) LoadEnvironment(nameOrPath string) (domain.Environment, error) {
	envPath, envName := l.resolve(nameOrPath)

	base, err := readEnv(envPath)
	if err != nil {
		return domain.Environment{}, err
	}

	// Secrets are optional; they override base vars.
	secretsPath := filepath.Join(filepath.Dir(envPath), l.secretsFile)
	secrets, secErr := readVarsOptional(secretsPath)
	if secErr != nil {
		return domain.Environment{}, secErr
	}

	return domain.Environment{
		Name:    envName,
		Account: strings.TrimSpace(base.Account),
		Vars:    domain.Merge(domain.Vars(base.Vars), secrets),
	}, nil
}

// ListEnvironments returns every environment file except the secrets file, sorted by name.
func (l *Loader) ListEnvironments(root string) ([]domain.EnvironmentRef, error) {
	dir := filepath.Join(root, l.envDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "yamlenv.list",
			Kind: domain.KindNotFound,
			Path: dir,
			Err:  err,
		}
	}

	var refs []domain.EnvironmentRef
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == l.secretsFile || !isYAML(name) {
			continue
		}
		refs = append(refs, domain.EnvironmentRef{
			Name: strings.TrimSuffix(name, filepath.Ext(name)),
			Path: filepath.Join(dir, name),
		})
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

func (l *Loader) resolve(nameOrPath string) (string, string) {
	if isYAML(nameOrPath) || strings.ContainsRune(nameOrPath, filepath.Separator) {
		p := filepath.Clean(nameOrPath)
		return p, strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
	}

	p := filepath.Join(l.rootDir, l.envDir, nameOrPath+".yaml")
	if _, err := os.Stat(p); err != nil {
		if alt := strings.TrimSuffix(p, ".yaml") + ".yml"; fileExists(alt) {
			p = alt
		}
	}
	return p, nameOrPath
}

type yamlEnv struct {
	Account string            `yaml:"account"`
	Vars    map[string]string `yaml:"vars"`
}

func readEnv(path string) (yamlEnv, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return yamlEnv{}, &domain.OpError{
			Op:   "yamlenv.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var y yamlEnv
	if err := yaml.Unmarshal(b, &y); err != nil {
		return yamlEnv{}, &domain.OpError{
			Op:   "yamlenv.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	if y.Vars == nil {
		y.Vars = map[string]string{}
	}
	return y, nil
}

func readVarsOptional(path string) (domain.Vars, error) {
	_, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Vars{}, nil
		}
		return nil, &domain.OpError{
			Op:   "yamlenv.secrets",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	y, err := readEnv(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load secrets: %w", err)
	}
	return domain.Vars(y.Vars), nil
}

func isYAML(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

func fileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
