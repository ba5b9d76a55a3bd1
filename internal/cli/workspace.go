package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aalvaropc/suitemap/internal/domain"
	"github.com/aalvaropc/suitemap/internal/infra/journal"
	"github.com/aalvaropc/suitemap/internal/infra/logger"
	"github.com/aalvaropc/suitemap/internal/infra/soap"
	"github.com/aalvaropc/suitemap/internal/infra/workspacefinder"
	"github.com/aalvaropc/suitemap/internal/infra/yamlbatch"
	"github.com/aalvaropc/suitemap/internal/infra/yamlenv"
	"github.com/aalvaropc/suitemap/internal/ports"
	"github.com/aalvaropc/suitemap/internal/record"
	"github.com/aalvaropc/suitemap/internal/records"
)

type workspaceCtx struct {
	root string
	cfg  domain.Config

	batches ports.BatchLoader

	envs       ports.EnvironmentLoader
	envCatalog ports.EnvironmentCatalog

	registry *record.Registry

	// store is nil when the journal is disabled.
	store ports.ExchangeStore
}

func loadWorkspace(workspaceFlag string) (*workspaceCtx, error) {
	root, err := resolveWorkspaceRoot(workspaceFlag)
	if err != nil {
		return nil, err
	}

	cfg, err := workspacefinder.LoadConfig(root)
	if err != nil {
		return nil, err
	}

	envLoader := yamlenv.NewLoader(
		root,
		yamlenv.WithEnvDir(cfg.Paths.EnvironmentsDir),
	)

	ws := &workspaceCtx{
		root: root,
		cfg:  cfg,
		batches: yamlbatch.NewLoader(
			yamlbatch.WithBatchesDir(cfg.Paths.BatchesDir),
		),
		envs:       envLoader,
		envCatalog: envLoader,
		registry:   records.Registry(),
	}
	if cfg.Journal.Enabled {
		ws.store = journal.NewJSONStore(root, cfg, journal.WithIndex(true))
	}
	return ws, nil
}

// dispatcher builds a SOAP client for env. An environment account replaces the
// configured one; journaling follows the workspace unless noSave is set.
func (ws *workspaceCtx) dispatcher(env domain.Environment, noSave bool) (ports.Dispatcher, error) {
	cfg := ws.cfg
	if acct := strings.TrimSpace(env.Account); acct != "" {
		cfg.Account.ID = acct
	}

	opts := []soap.Option{soap.WithLogger(logger.L())}
	if ws.store != nil && !noSave {
		opts = append(opts, soap.WithStore(ws.store))
	}
	return soap.New(cfg, opts...)
}

func resolveWorkspaceRoot(workspaceFlag string) (string, error) {
	w := strings.TrimSpace(workspaceFlag)
	if w != "" {
		abs, err := filepath.Abs(w)
		if err != nil {
			return "", fmt.Errorf("invalid workspace path: %w", err)
		}
		return abs, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	locator := workspacefinder.NewFinder()
	root, err := locator.FindRoot(wd)
	if err != nil {
		return "", fmt.Errorf("workspace not found from %q (tip: run `suitemap init`): %w", wd, err)
	}
	return root, nil
}

func resolveBatchPath(ws *workspaceCtx, arg string) (string, error) {
	in := strings.TrimSpace(arg)
	if in == "" {
		return "", fmt.Errorf("batch is required (use --batch or -b)")
	}

	if looksLikePath(in) {
		p := in
		if !filepath.IsAbs(p) {
			p = filepath.Join(ws.root, p)
		}
		return filepath.Clean(p), nil
	}

	batchesDir := filepath.Join(ws.root, ws.cfg.Paths.BatchesDir)

	if hasYAMLExt(in) {
		p := filepath.Join(batchesDir, in)
		if fileExists(p) {
			return p, nil
		}
	}

	for _, ext := range []string{".yaml", ".yml"} {
		p := filepath.Join(batchesDir, in+ext)
		if fileExists(p) {
			return p, nil
		}
	}

	// Last resort: match by the batch "name" field.
	refs, err := ws.batches.ListBatches(ws.root)
	if err == nil {
		for _, r := range refs {
			if strings.EqualFold(r.Name, in) {
				return r.Path, nil
			}
		}
	}

	return "", fmt.Errorf("batch %q not found in %q", in, batchesDir)
}

func resolveEnvironmentArg(ws *workspaceCtx, arg string) string {
	in := strings.TrimSpace(arg)
	if in == "" {
		return ws.cfg.Defaults.Environment
	}

	if looksLikePath(in) {
		p := in
		if !filepath.IsAbs(p) {
			p = filepath.Join(ws.root, p)
		}
		return filepath.Clean(p)
	}

	if hasYAMLExt(in) {
		return filepath.Join(ws.root, ws.cfg.Paths.EnvironmentsDir, in)
	}

	// A bare name ("sandbox") is resolved by the loader.
	return in
}

func looksLikePath(s string) bool {
	return strings.Contains(s, "/") || strings.Contains(s, string(filepath.Separator))
}

func hasYAMLExt(s string) bool {
	ext := strings.ToLower(filepath.Ext(s))
	return ext == ".yaml" || ext == ".yml"
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
