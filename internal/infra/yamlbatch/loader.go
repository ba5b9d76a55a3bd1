package yamlbatch

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

type Loader struct {
	batchesDir string
}

func NewLoader(opts ...Option) *Loader {
	l := &Loader{batchesDir: "batches"}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type Option func(*Loader)

func WithBatchesDir(dir string) Option {
	return func(l *Loader) { l.batchesDir = dir }
}

var _ ports.BatchLoader = (*Loader)(nil)

func (l *Loader) LoadBatch(path string) (domain.Batch, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.Batch{}, &domain.OpError{
			Op:   "yamlbatch.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var yb yamlBatch
	if err := yaml.Unmarshal(b, &yb); err != nil {
		return domain.Batch{}, &domain.OpError{
			Op:   "yamlbatch.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return mapAndValidate(path, yb)
}

func (l *Loader) ListBatches(root string) ([]domain.BatchRef, error) {
	dir := filepath.Join(root, l.batchesDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "yamlbatch.list",
			Kind: domain.KindNotFound,
			Path: dir,
			Err:  err,
		}
	}

	var refs []domain.BatchRef
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}

		p := filepath.Join(dir, name)
		n, _ := readBatchName(p)
		if strings.TrimSpace(n) == "" {
			n = strings.TrimSuffix(name, filepath.Ext(name))
		}

		refs = append(refs, domain.BatchRef{Name: n, Path: p})
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

func readBatchName(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var v struct {
		Name string `yaml:"name"`
	}
	if err := yaml.Unmarshal(b, &v); err != nil {
		return "", err
	}
	return v.Name, nil
}

type yamlBatch struct {
	Name  string            `yaml:"name"`
	Vars  map[string]string `yaml:"vars"`
	Steps []yamlStep        `yaml:"steps"`
}

type yamlStep struct {
	Name       string         `yaml:"name"`
	Action     string         `yaml:"action"`
	Type       string         `yaml:"type"`
	Attributes map[string]any `yaml:"attributes"`

	Ref       *yamlRef    `yaml:"ref"`
	Refs      []yamlRef   `yaml:"refs"`
	Reference *yamlRef    `yaml:"reference"`
	Search    *yamlSearch `yaml:"search"`

	Assert  yamlAssertions    `yaml:"assert"`
	Extract map[string]string `yaml:"extract"`
}

type yamlRef struct {
	InternalID string `yaml:"internal_id"`
	ExternalID string `yaml:"external_id"`
	Type       string `yaml:"type"`
	Name       string `yaml:"name"`
}

type yamlSearch struct {
	Type     string          `yaml:"type"`
	Basic    []yamlCondition `yaml:"basic"`
	PageSize int             `yaml:"page_size"`
	All      bool            `yaml:"all"`
}

type yamlCondition struct {
	Field    string   `yaml:"field"`
	Kind     string   `yaml:"kind"`
	Operator string   `yaml:"operator"`
	Values   []string `yaml:"values"`
}

type yamlAssertions struct {
	Success *bool `yaml:"success"`
	MaxMS   *int  `yaml:"max_ms"`

	JSONPath map[string]yamlJSONPathAssertion `yaml:"jsonpath"`
}

type yamlJSONPathAssertion struct {
	Exists   bool     `yaml:"exists"`
	Eq       *string  `yaml:"eq"`
	Contains *string  `yaml:"contains"`
	Matches  *string  `yaml:"matches"`
	Gt       *float64 `yaml:"gt"`
	Lt       *float64 `yaml:"lt"`
}

func mapAndValidate(path string, yb yamlBatch) (domain.Batch, error) {
	if strings.TrimSpace(yb.Name) == "" {
		return domain.Batch{}, invalidField(path, "name", "batch name is required")
	}

	batch := domain.Batch{
		Name:  yb.Name,
		Vars:  domain.Vars(yb.Vars),
		Steps: make([]domain.StepSpec, 0, len(yb.Steps)),
	}
	if batch.Vars == nil {
		batch.Vars = domain.Vars{}
	}

	for i, s := range yb.Steps {
		prefix := fmt.Sprintf("steps[%d]", i)

		step, err := mapStep(s)
		if err != nil {
			return domain.Batch{}, invalidField(path, prefix+err.field, err.msg)
		}
		batch.Steps = append(batch.Steps, step)
	}

	return batch, nil
}

type fieldError struct {
	field string
	msg   string
}

func mapStep(s yamlStep) (domain.StepSpec, *fieldError) {
	if strings.TrimSpace(s.Name) == "" {
		return domain.StepSpec{}, &fieldError{".name", "step name is required"}
	}
	action, err := domain.ParseAction(s.Action)
	if err != nil {
		return domain.StepSpec{}, &fieldError{".action", err.Error()}
	}
	if action == domain.ActionSearchMore {
		return domain.StepSpec{}, &fieldError{".action", "use search with all: true to page through results"}
	}
	if strings.TrimSpace(s.Type) == "" {
		return domain.StepSpec{}, &fieldError{".type", "record type is required"}
	}

	step := domain.StepSpec{
		Name:       s.Name,
		Action:     action,
		RecordType: strings.TrimSpace(s.Type),
		Attributes: s.Attributes,
		Ref:        mapRef(s.Ref),
		Reference:  mapRef(s.Reference),
		Assert: domain.AssertionsSpec{
			Success:      s.Assert.Success,
			MaxLatencyMS: s.Assert.MaxMS,
			JSONPath:     mapJSONPath(s.Assert.JSONPath),
		},
		Extract: domain.ExtractSpec(s.Extract),
	}
	for _, r := range s.Refs {
		step.Refs = append(step.Refs, *mapRef(&r))
	}
	if step.Assert.JSONPath == nil {
		step.Assert.JSONPath = map[string]domain.JSONPathAssertion{}
	}
	if step.Extract == nil {
		step.Extract = domain.ExtractSpec{}
	}

	switch action {
	case domain.ActionGet, domain.ActionDelete:
		if step.Ref == nil || step.Ref.IsZero() {
			return domain.StepSpec{}, &fieldError{".ref", "ref is required for " + string(action)}
		}
	case domain.ActionGetList:
		if len(step.Refs) == 0 {
			return domain.StepSpec{}, &fieldError{".refs", "at least one ref is required"}
		}
	case domain.ActionInitialize:
		if step.Reference == nil || step.Reference.IsZero() {
			return domain.StepSpec{}, &fieldError{".reference", "reference is required for initialize"}
		}
	case domain.ActionAdd, domain.ActionUpdate, domain.ActionUpsert:
		if len(step.Attributes) == 0 {
			return domain.StepSpec{}, &fieldError{".attributes", "attributes are required for " + string(action)}
		}
	case domain.ActionSearch:
		crit, ferr := mapSearch(step.RecordType, s.Search)
		if ferr != nil {
			return domain.StepSpec{}, ferr
		}
		step.Search = crit
	}

	return step, nil
}

func mapSearch(recordType string, ys *yamlSearch) (*domain.SearchCriteria, *fieldError) {
	crit := &domain.SearchCriteria{RecordType: recordType}
	if ys == nil {
		return crit, nil
	}
	if t := strings.TrimSpace(ys.Type); t != "" {
		crit.RecordType = t
	}
	if ys.PageSize < 0 {
		return nil, &fieldError{".search.page_size", "page size must not be negative"}
	}
	crit.PageSize = ys.PageSize
	crit.All = ys.All

	for i, c := range ys.Basic {
		prefix := fmt.Sprintf(".search.basic[%d]", i)
		if strings.TrimSpace(c.Field) == "" {
			return nil, &fieldError{prefix + ".field", "field is required"}
		}
		kind, err := parseKind(c.Kind)
		if err != nil {
			return nil, &fieldError{prefix + ".kind", err.Error()}
		}
		crit.Basic = append(crit.Basic, domain.SearchCondition{
			Field:    strings.TrimSpace(c.Field),
			Kind:     kind,
			Operator: strings.TrimSpace(c.Operator),
			Values:   c.Values,
		})
	}
	return crit, nil
}

func parseKind(k string) (domain.SearchFieldKind, error) {
	return domain.ParseSearchFieldKind(k)
}

func mapRef(r *yamlRef) *domain.RecordRef {
	if r == nil {
		return nil
	}
	return &domain.RecordRef{
		InternalID: strings.TrimSpace(r.InternalID),
		ExternalID: strings.TrimSpace(r.ExternalID),
		Type:       strings.TrimSpace(r.Type),
		Name:       r.Name,
	}
}

func mapJSONPath(in map[string]yamlJSONPathAssertion) map[string]domain.JSONPathAssertion {
	if in == nil {
		return nil
	}
	out := make(map[string]domain.JSONPathAssertion, len(in))
	for k, v := range in {
		out[k] = domain.JSONPathAssertion{
			Exists:   v.Exists,
			Eq:       v.Eq,
			Contains: v.Contains,
			Matches:  v.Matches,
			Gt:       v.Gt,
			Lt:       v.Lt,
		}
	}
	return out
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "yamlbatch.validate",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s", field, msg),
	}
}
