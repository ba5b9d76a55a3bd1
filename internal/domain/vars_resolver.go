package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// VarResolver resolves {{var}} placeholders in strings and JSON-like attribute trees.
// It supports built-ins: {{$timestamp}}, {{$uuid}} and {{$today}}.
type VarResolver struct {
	now    func() time.Time
	uuidV4 func() (string, error)
}

// VarResolverOption configures VarResolver.
type VarResolverOption func(*VarResolver)

// WithNow overrides the clock (useful for tests).
func WithNow(now func() time.Time) VarResolverOption {
	return func(r *VarResolver) { r.now = now }
}

// WithUUID overrides UUID generation (useful for tests).
func WithUUID(gen func() (string, error)) VarResolverOption {
	return func(r *VarResolver) { r.uuidV4 = gen }
}

func NewVarResolver(opts ...VarResolverOption) *VarResolver {
	r := &VarResolver{
		now:    time.Now,
		uuidV4: newUUID,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RuntimeResolver caches built-ins for a single resolution session (one batch step)
// so repeated {{$uuid}} inside multiple attributes stays consistent.
type RuntimeResolver struct {
	base     Vars
	builtins Vars
	inner    *VarResolver
}

func (r *VarResolver) NewRuntime(vars Vars) (*RuntimeResolver, error) {
	now := r.now()

	u, err := r.uuidV4()
	if err != nil {
		return nil, &OpError{
			Op:   "vars.builtins.uuid",
			Kind: KindExecution,
			Err:  err,
		}
	}

	baseCopy := Vars{}
	for k, v := range vars {
		baseCopy[k] = v
	}

	return &RuntimeResolver{
		base: baseCopy,
		builtins: Vars{
			"$timestamp": strconv.FormatInt(now.Unix(), 10),
			"$uuid":      u,
			"$today":     now.UTC().Format("2006-01-02"),
		},
		inner: r,
	}, nil
}

// ResolveString resolves placeholders in a string.
func (rr *RuntimeResolver) ResolveString(s string) (string, error) {
	return rr.inner.resolveStringWith(rr.base, rr.builtins, s)
}

// ResolveRef resolves placeholders in every field of a record ref.
func (rr *RuntimeResolver) ResolveRef(ref RecordRef) (RecordRef, error) {
	var err error
	out := ref
	if out.InternalID, err = rr.ResolveString(ref.InternalID); err != nil {
		return RecordRef{}, err
	}
	if out.ExternalID, err = rr.ResolveString(ref.ExternalID); err != nil {
		return RecordRef{}, err
	}
	if out.Type, err = rr.ResolveString(ref.Type); err != nil {
		return RecordRef{}, err
	}
	if out.Name, err = rr.ResolveString(ref.Name); err != nil {
		return RecordRef{}, err
	}
	return out, nil
}

// ResolveStep resolves placeholders in attributes, refs and search values.
// It returns a copy (does not mutate input).
func (rr *RuntimeResolver) ResolveStep(step StepSpec) (StepSpec, error) {
	out := step

	if step.Attributes != nil {
		v, err := rr.ResolveJSONValue(step.Attributes)
		if err != nil {
			return StepSpec{}, wrapField(err, "step.attributes")
		}
		m, ok := v.(map[string]any)
		if !ok {
			return StepSpec{}, &OpError{
				Op:   "vars.resolve.attributes",
				Kind: KindInvalidConfig,
				Err:  errors.New("attributes must be an object"),
			}
		}
		out.Attributes = m
	}

	if step.Ref != nil {
		r, err := rr.ResolveRef(*step.Ref)
		if err != nil {
			return StepSpec{}, wrapField(err, "step.ref")
		}
		out.Ref = &r
	}

	if step.Reference != nil {
		r, err := rr.ResolveRef(*step.Reference)
		if err != nil {
			return StepSpec{}, wrapField(err, "step.reference")
		}
		out.Reference = &r
	}

	if step.Refs != nil {
		out.Refs = make([]RecordRef, 0, len(step.Refs))
		for i, ref := range step.Refs {
			r, err := rr.ResolveRef(ref)
			if err != nil {
				return StepSpec{}, wrapField(err, fmt.Sprintf("step.refs[%d]", i))
			}
			out.Refs = append(out.Refs, r)
		}
	}

	if step.Search != nil {
		s := *step.Search
		s.Basic = make([]SearchCondition, 0, len(step.Search.Basic))
		for i, c := range step.Search.Basic {
			cc := c
			cc.Values = make([]string, 0, len(c.Values))
			for _, v := range c.Values {
				rv, err := rr.ResolveString(v)
				if err != nil {
					return StepSpec{}, wrapField(err, fmt.Sprintf("step.search.basic[%d]", i))
				}
				cc.Values = append(cc.Values, rv)
			}
			s.Basic = append(s.Basic, cc)
		}
		out.Search = &s
	}

	if len(step.Assert.JSONPath) > 0 {
		checks := make(map[string]JSONPathAssertion, len(step.Assert.JSONPath))
		for expr, a := range step.Assert.JSONPath {
			for _, p := range []**string{&a.Eq, &a.Contains, &a.Matches} {
				if *p == nil {
					continue
				}
				rv, err := rr.ResolveString(**p)
				if err != nil {
					return StepSpec{}, wrapField(err, fmt.Sprintf("step.assert.jsonpath[%s]", expr))
				}
				*p = &rv
			}
			checks[expr] = a
		}
		out.Assert.JSONPath = checks
	}

	return out, nil
}

// ResolveJSONValue recursively resolves string values inside JSON-like structures.
// Supported types: map[string]any, []any, string; anything else is left unchanged.
func (rr *RuntimeResolver) ResolveJSONValue(v any) (any, error) {
	switch t := v.(type) {
	case string:
		return rr.ResolveString(t)

	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			rv, err := rr.ResolveJSONValue(vv)
			if err != nil {
				return nil, err
			}
			out[k] = rv
		}
		return out, nil

	case []any:
		out := make([]any, 0, len(t))
		for _, it := range t {
			rv, err := rr.ResolveJSONValue(it)
			if err != nil {
				return nil, err
			}
			out = append(out, rv)
		}
		return out, nil

	default:
		return v, nil
	}
}

func (r *VarResolver) resolveStringWith(vars Vars, builtins Vars, s string) (string, error) {
	// Fast path: no token start.
	if !strings.Contains(s, "{{") {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s) + 16)

	for i := 0; i < len(s); {
		if i+1 < len(s) && s[i] == '{' && s[i+1] == '{' {
			start := i + 2

			end := strings.Index(s[start:], "}}")
			if end < 0 {
				return "", &OpError{
					Op:   "vars.resolve",
					Kind: KindInvalidConfig,
					Err:  errors.New("unclosed placeholder"),
				}
			}
			end = start + end

			name := strings.TrimSpace(s[start:end])
			if name == "" {
				return "", &OpError{
					Op:   "vars.resolve",
					Kind: KindInvalidConfig,
					Err:  errors.New("empty placeholder"),
				}
			}

			val, ok := builtins[name]
			if !ok {
				val, ok = vars[name]
			}
			if !ok {
				return "", &OpError{
					Op:   "vars.resolve",
					Kind: KindMissingVar,
					Err:  fmt.Errorf("missing variable: %s", name),
				}
			}

			b.WriteString(val)
			i = end + 2
			continue
		}

		b.WriteByte(s[i])
		i++
	}

	return b.String(), nil
}

func wrapField(err error, field string) error {
	// Keep Kind information, but add context about which field was being resolved.
	return &OpError{
		Op:   "vars.resolve",
		Kind: kindFrom(err),
		Err:  fmt.Errorf("%s: %w", field, err),
	}
}

func kindFrom(err error) ErrorKind {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind
	}
	return KindExecution
}

func newUUID() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
