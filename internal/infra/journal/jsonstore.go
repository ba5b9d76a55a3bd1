// Package journal persists remote exchanges and batch runs as JSON files.
package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aalvaropc/suitemap/internal/domain"
	"github.com/aalvaropc/suitemap/internal/ports"
)

const (
	defaultJournalDir = "journal"
	exchangesDir      = "exchanges"
	runsDir           = "runs"
	maskValue         = "********"
)

type JSONStore struct {
	rootDir        string
	journalDirName string
	maskingEnabled bool
	writeIndex     bool
	now            func() time.Time
}

type Option func(*JSONStore)

// WithIndex enables a JSONL index per directory (index.jsonl).
func WithIndex(enabled bool) Option {
	return func(s *JSONStore) { s.writeIndex = enabled }
}

// WithNow is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(s *JSONStore) { s.now = now }
}

func NewJSONStore(root string, cfg domain.Config, opts ...Option) *JSONStore {
	dir := cfg.Paths.JournalDir
	if strings.TrimSpace(dir) == "" {
		dir = defaultJournalDir
	}

	s := &JSONStore{
		rootDir:        root,
		journalDirName: dir,
		maskingEnabled: cfg.Journal.Masking,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.ExchangeStore = (*JSONStore)(nil)

// SaveExchange writes <journal>/exchanges/<ts>_<action>_<id>.json.
func (s *JSONStore) SaveExchange(ex domain.Exchange) (string, error) {
	ts := ex.StartedAt
	if ts.IsZero() {
		ts = s.now()
		ex.StartedAt = ts
	}

	short := ex.ID
	if len(short) > 8 {
		short = short[:8]
	}
	slug := slugify(string(ex.Action) + "-" + short)
	if slug == "" {
		slug = "exchange"
	}

	if s.maskingEnabled {
		ex = maskExchange(ex)
	}

	id, err := s.write(exchangesDir, ts, slug, ex)
	if err != nil {
		return "", err
	}
	if s.writeIndex {
		_ = s.appendIndex(exchangesDir, indexEntry{
			ID:        id,
			File:      id + ".json",
			Action:    string(ex.Action),
			Record:    ex.RecordType,
			Success:   ex.Success,
			StartedAt: ex.StartedAt,
		})
	}
	return id, nil
}

// SaveRun writes <journal>/runs/<ts>_<batch>.json.
func (s *JSONStore) SaveRun(run domain.RunResult) (string, error) {
	ts := run.StartedAt
	if ts.IsZero() {
		ts = s.now()
		run.StartedAt = ts
	}

	batchPart := run.BatchName
	if strings.TrimSpace(batchPart) == "" {
		batchPart = strings.TrimSuffix(filepath.Base(run.BatchPath), filepath.Ext(run.BatchPath))
	}
	slug := slugify(batchPart)
	if slug == "" {
		slug = "run"
	}

	if s.maskingEnabled {
		run = maskRun(run)
	}

	id, err := s.write(runsDir, ts, slug, run)
	if err != nil {
		return "", err
	}
	if s.writeIndex {
		_ = s.appendIndex(runsDir, indexEntry{
			ID:        id,
			File:      id + ".json",
			Batch:     run.BatchName,
			Env:       run.EnvironmentName,
			StartedAt: run.StartedAt,
		})
	}
	return id, nil
}

func (s *JSONStore) write(sub string, ts time.Time, slug string, v any) (string, error) {
	dir := filepath.Join(s.rootDir, s.journalDirName, sub)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &domain.OpError{
			Op:   "journal.mkdir",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	filename := fmt.Sprintf("%s_%s.json", ts.UTC().Format("20060102T150405Z"), slug)
	id := strings.TrimSuffix(filename, ".json")
	path := filepath.Join(dir, filename)

	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", &domain.OpError{
			Op:   "journal.marshal",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	// Atomic-ish write: tmp then rename.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return "", &domain.OpError{
			Op:   "journal.write",
			Kind: domain.KindExecution,
			Path: tmp,
			Err:  err,
		}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", &domain.OpError{
			Op:   "journal.rename",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}
	return id, nil
}

type indexEntry struct {
	ID        string    `json:"id"`
	File      string    `json:"file"`
	Action    string    `json:"action,omitempty"`
	Record    string    `json:"record_type,omitempty"`
	Success   bool      `json:"success,omitempty"`
	Batch     string    `json:"batch,omitempty"`
	Env       string    `json:"env,omitempty"`
	StartedAt time.Time `json:"started_at"`
}

func (s *JSONStore) appendIndex(sub string, e indexEntry) error {
	line, err := json.Marshal(e)
	if err != nil {
		return err
	}

	indexPath := filepath.Join(s.rootDir, s.journalDirName, sub, "index.jsonl")
	f, err := os.OpenFile(indexPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(append(line, '\n'))
	return err
}

// maskExchange returns a masked copy (does NOT mutate the input).
func maskExchange(ex domain.Exchange) domain.Exchange {
	out := ex
	if ex.RequestHeaders != nil {
		out.RequestHeaders = make(map[string][]string, len(ex.RequestHeaders))
		for k, v := range ex.RequestHeaders {
			cp := make([]string, len(v))
			copy(cp, v)
			if isSensitiveHeaderKey(k) {
				for i := range cp {
					cp[i] = maskValue
				}
			}
			out.RequestHeaders[k] = cp
		}
	}
	out.Request = maskXML(ex.Request)
	out.Response = maskXML(ex.Response)
	return out
}

// maskRun returns a masked copy (does NOT mutate the input).
func maskRun(run domain.RunResult) domain.RunResult {
	out := run
	out.Results = make([]domain.StepResult, 0, len(run.Results))

	for _, sr := range run.Results {
		c := sr
		c.Extracted = domain.Merge(nil, sr.Extracted)
		for k := range c.Extracted {
			if isSensitiveKey(k) {
				c.Extracted[k] = maskValue
			}
		}
		out.Results = append(out.Results, c)
	}
	return out
}

func isSensitiveKey(k string) bool {
	kk := strings.ToLower(k)
	return strings.Contains(kk, "token") ||
		strings.Contains(kk, "secret") ||
		strings.Contains(kk, "password")
}

func isSensitiveHeaderKey(k string) bool {
	kk := strings.ToLower(strings.TrimSpace(k))
	switch kk {
	case "authorization", "proxy-authorization", "cookie", "set-cookie", "x-api-key", "x-auth-token":
		return true
	}

	return strings.Contains(kk, "token") ||
		strings.Contains(kk, "secret") ||
		strings.Contains(kk, "password") ||
		strings.Contains(kk, "api-key") ||
		strings.Contains(kk, "apikey")
}

// slugify produces a safe filename component.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))

	lastDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	return strings.Trim(b.String(), "-")
}
