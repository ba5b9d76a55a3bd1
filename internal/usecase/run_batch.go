package usecase

import (
	"context"

	"github.com/aalvaropc/suitemap/internal/domain"
	"github.com/aalvaropc/suitemap/internal/ports"
	"github.com/aalvaropc/suitemap/internal/record"
	ucassert "github.com/aalvaropc/suitemap/internal/usecase/assert"
	ucextract "github.com/aalvaropc/suitemap/internal/usecase/extract"
)

// DispatcherFactory builds the dispatcher for an environment, which may override the
// configured account.
type DispatcherFactory func(env domain.Environment) (ports.Dispatcher, error)

type RunBatch struct {
	batches  ports.BatchLoader
	envs     ports.EnvironmentLoader
	registry *record.Registry
	dial     DispatcherFactory
	opts     options
}

func NewRunBatch(bl ports.BatchLoader, el ports.EnvironmentLoader, reg *record.Registry, dial DispatcherFactory, opts ...Option) *RunBatch {
	return &RunBatch{
		batches:  bl,
		envs:     el,
		registry: reg,
		dial:     dial,
		opts:     newOptions(opts),
	}
}

// Execute runs every step of a batch in order and returns the run with the id it was
// stored under ("" without a store). A failing step does not stop the run; a cancelled
// context does.
func (uc *RunBatch) Execute(ctx context.Context, batchPath string, envNameOrPath string) (domain.RunResult, string, error) {
	batch, err := uc.batches.LoadBatch(batchPath)
	if err != nil {
		return domain.RunResult{}, "", err
	}

	env, err := uc.envs.LoadEnvironment(envNameOrPath)
	if err != nil {
		return domain.RunResult{}, "", err
	}

	d, err := uc.dial(env)
	if err != nil {
		return domain.RunResult{}, "", err
	}
	exec := NewStepExecutor(uc.registry, d, uc.opts.now)

	// batch vars < env vars < extracted runtime vars (updated per step)
	vars := domain.Merge(batch.Vars, env.Vars)

	run := domain.RunResult{
		BatchName:       batch.Name,
		BatchPath:       batchPath,
		EnvironmentName: env.Name,
		StartedAt:       uc.opts.now(),
		Results:         make([]domain.StepResult, 0, len(batch.Steps)),
	}

	for _, step := range batch.Steps {
		if err := ctx.Err(); err != nil {
			run.EndedAt = uc.opts.now()
			return run, "", err
		}

		res := uc.runStep(ctx, exec, step, vars)
		for k, v := range res.Extracted {
			vars[k] = v
		}
		run.Results = append(run.Results, res)

		attrs := []any{"batch", batch.Name, "step", res.Name, "action", string(res.Action), "success", res.Success, "latency_ms", res.LatencyMS}
		if res.Failed() {
			uc.opts.log.Warn("batch.step", append(attrs, "failed", true)...)
		} else {
			uc.opts.log.Info("batch.step", attrs...)
		}
	}

	run.EndedAt = uc.opts.now()

	if uc.opts.store == nil {
		return run, "", nil
	}
	id, err := uc.opts.store.SaveRun(run)
	if err != nil {
		return run, "", err
	}
	return run, id, nil
}

func (uc *RunBatch) runStep(ctx context.Context, exec *StepExecutor, step domain.StepSpec, vars domain.Vars) domain.StepResult {
	res := domain.StepResult{
		Name:       step.Name,
		Action:     step.Action,
		RecordType: step.RecordType,
		Assertions: []domain.AssertionResult{},
		Extracts:   []domain.ExtractResult{},
		Extracted:  domain.Vars{},
	}

	rt, err := uc.opts.resolver.NewRuntime(vars)
	if err != nil {
		res.Error = domain.NewCallError(err)
		return res
	}
	resolved, err := rt.ResolveStep(step)
	if err != nil {
		res.Error = domain.NewCallError(err)
		return res
	}

	out, err := exec.Execute(ctx, resolved)
	res.Success = out.Success
	res.LatencyMS = out.LatencyMS
	res.Details = out.Details
	if err != nil {
		res.Error = domain.NewCallError(err)
	}

	doc, err := ucextract.Document(out.Output)
	if err != nil && res.Error == nil {
		res.Error = domain.NewCallError(err)
	}
	res.Output = doc

	// Assertions are evaluated even when the call failed.
	res.Assertions = ucassert.Evaluate(resolved.Assert, out.Success, out.LatencyMS, doc)

	extracted, results := ucextract.Apply(doc, resolved.Extract)
	res.Extracts = results
	res.Extracted = extracted
	return res
}
