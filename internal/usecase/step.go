package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aalvaropc/suitemap/internal/domain"
	"github.com/aalvaropc/suitemap/internal/ports"
	"github.com/aalvaropc/suitemap/internal/record"
	"github.com/aalvaropc/suitemap/internal/usecase/actions"
)

// Outcome is the result of one executed step.
type Outcome struct {
	Success   bool
	LatencyMS int64

	// Output is the JSON view of what came back: a record, a ref, a list or a page.
	Output  any
	Details []domain.StatusDetail
}

// StepExecutor runs resolved steps against a dispatcher. It is shared by batch runs
// and the single-action CLI commands.
type StepExecutor struct {
	registry   *record.Registry
	dispatcher ports.Dispatcher
	now        func() time.Time
}

func NewStepExecutor(reg *record.Registry, d ports.Dispatcher, now func() time.Time) *StepExecutor {
	if now == nil {
		now = time.Now
	}
	return &StepExecutor{registry: reg, dispatcher: d, now: now}
}

// Prepared is a step checked against the registry: its type is known, the action is
// supported and any record or search element builds.
type Prepared struct {
	Step   domain.StepSpec
	Type   record.Type
	Record record.Record
	Search *domain.Node
}

// Prepare type-checks step without touching the network.
func Prepare(reg *record.Registry, step domain.StepSpec) (Prepared, error) {
	name := step.RecordType
	if step.Search != nil && step.Search.RecordType != "" {
		name = step.Search.RecordType
	}

	t, err := reg.Lookup(name)
	if err != nil {
		return Prepared{}, err
	}
	if !t.Supports(step.Action) {
		return Prepared{}, &domain.OpError{
			Op:   "step.prepare",
			Kind: domain.KindUnsupportedAction,
			Path: t.Name(),
			Err:  fmt.Errorf("%s does not support %s: %w", t.Name(), step.Action, domain.ErrUnsupportedAction),
		}
	}

	p := Prepared{Step: step, Type: t}
	switch step.Action {
	case domain.ActionAdd, domain.ActionUpdate, domain.ActionUpsert:
		p.Record, err = t.New(step.Attributes)
	case domain.ActionDelete:
		if step.Ref == nil {
			return Prepared{}, missingInput(step, "ref")
		}
		p.Record, err = t.New(nil)
		if err == nil {
			record.Adopt(p.Record, *step.Ref)
		}
	case domain.ActionGet:
		if step.Ref == nil {
			return Prepared{}, missingInput(step, "ref")
		}
	case domain.ActionGetList:
		if len(step.Refs) == 0 {
			return Prepared{}, missingInput(step, "refs")
		}
	case domain.ActionInitialize:
		if step.Reference == nil {
			return Prepared{}, missingInput(step, "reference")
		}
	case domain.ActionSearch:
		crit := domain.SearchCriteria{}
		if step.Search != nil {
			crit = *step.Search
		}
		p.Search, err = record.SearchRecord(t, crit)
	}
	if err != nil {
		return Prepared{}, err
	}
	return p, nil
}

func missingInput(step domain.StepSpec, what string) error {
	return &domain.OpError{
		Op:   "step.prepare",
		Kind: domain.KindInvalidConfig,
		Path: step.Name,
		Err:  fmt.Errorf("%s requires %s: %w", step.Action, what, domain.ErrInvalidConfig),
	}
}

// Execute prepares and runs one resolved step. Remote rejections (record not found,
// initialization refused, a write that did not take) come back as an unsuccessful
// Outcome; errors are reserved for invalid steps, transport failures and faults.
func (e *StepExecutor) Execute(ctx context.Context, step domain.StepSpec) (Outcome, error) {
	p, err := Prepare(e.registry, step)
	if err != nil {
		return Outcome{}, err
	}

	start := e.now()
	out, err := e.dispatch(ctx, p)
	out.LatencyMS = e.now().Sub(start).Milliseconds()
	return out, err
}

func (e *StepExecutor) dispatch(ctx context.Context, p Prepared) (Outcome, error) {
	t, step := p.Type, p.Step

	switch step.Action {
	case domain.ActionGet:
		rec, err := actions.Get(ctx, e.dispatcher, t, *step.Ref)
		return recordOutcome(t, rec, err)

	case domain.ActionInitialize:
		rec, err := actions.Initialize(ctx, e.dispatcher, t, *step.Reference)
		return recordOutcome(t, rec, err)

	case domain.ActionGetList:
		recs, failures, err := actions.GetList(ctx, e.dispatcher, t, step.Refs)
		if err != nil {
			return Outcome{}, err
		}
		views, err := recordViews(t, recs)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{
			Success: len(failures) == 0,
			Output:  map[string]any{"records": views},
			Details: failures,
		}, nil

	case domain.ActionAdd, domain.ActionUpdate, domain.ActionUpsert:
		write := actions.Add
		switch step.Action {
		case domain.ActionUpdate:
			write = actions.Update
		case domain.ActionUpsert:
			write = actions.Upsert
		}
		ok, err := write(ctx, e.dispatcher, t, p.Record)
		if err != nil {
			return Outcome{}, err
		}
		view, err := t.JSON(p.Record)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Success: ok, Output: view}, nil

	case domain.ActionDelete:
		ok, err := actions.Delete(ctx, e.dispatcher, t, p.Record)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Success: ok, Output: record.RefJSON(record.RefOf(p.Record))}, nil

	case domain.ActionSearch:
		crit := domain.SearchCriteria{}
		if step.Search != nil {
			crit = *step.Search
		}
		search := actions.Search
		if crit.All {
			search = actions.SearchAll
		}
		res, err := search(ctx, e.dispatcher, t, crit)
		if err != nil {
			return Outcome{}, err
		}
		return pageOutcome(t, res)

	default:
		return Outcome{}, &domain.OpError{
			Op:   "step.execute",
			Kind: domain.KindUnsupportedAction,
			Path: step.Name,
			Err:  fmt.Errorf("action %q: %w", step.Action, domain.ErrUnsupportedAction),
		}
	}
}

// recordOutcome turns typed remote rejections into an unsuccessful outcome.
func recordOutcome(t record.Type, rec record.Record, err error) (Outcome, error) {
	var notFound *domain.RecordNotFoundError
	var initErr *domain.InitializationError
	switch {
	case errors.As(err, &notFound):
		return Outcome{Details: notFound.Details}, nil
	case errors.As(err, &initErr):
		return Outcome{Details: initErr.Details}, nil
	case err != nil:
		return Outcome{}, err
	}

	view, err := t.JSON(rec)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Success: true, Output: view}, nil
}

func recordViews(t record.Type, recs []record.Record) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(recs))
	for _, r := range recs {
		v, err := t.JSON(r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func pageOutcome(t record.Type, res actions.SearchResult) (Outcome, error) {
	views, err := recordViews(t, res.Records)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{
		Success: true,
		Output: map[string]any{
			"total_records": res.TotalRecords,
			"total_pages":   res.TotalPages,
			"page_index":    res.PageIndex,
			"page_size":     res.PageSize,
			"search_id":     res.SearchID,
			"records":       views,
		},
	}, nil
}
