package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aalvaropc/suitemap/internal/domain"
	"github.com/aalvaropc/suitemap/internal/infra/logger"
	"github.com/aalvaropc/suitemap/internal/usecase"
)

// actionFlags are shared by every single-action command.
type actionFlags struct {
	workspace  string
	env        string
	recordType string
	format     string
	noSave     bool
}

func (f *actionFlags) bind(c *cobra.Command) {
	c.Flags().StringVarP(&f.workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().StringVarP(&f.env, "env", "e", "", "Environment name or path (optional; defaults to workspace default env)")
	c.Flags().StringVarP(&f.recordType, "type", "t", "", "Record type, e.g. check (required)")
	c.Flags().StringVar(&f.format, "format", formatPretty, "Output format: pretty|json")
	c.Flags().BoolVar(&f.noSave, "no-save", false, "Do not journal the exchange")
	_ = c.MarkFlagRequired("type")
}

type refFlags struct {
	internalID string
	externalID string
}

func (f *refFlags) bind(c *cobra.Command) {
	c.Flags().StringVar(&f.internalID, "id", "", "Internal id")
	c.Flags().StringVar(&f.externalID, "external-id", "", "External id")
}

func (f refFlags) ref() *domain.RecordRef {
	ref := domain.RecordRef{InternalID: strings.TrimSpace(f.internalID), ExternalID: strings.TrimSpace(f.externalID)}
	if ref.IsZero() {
		return nil
	}
	return &ref
}

type attrFlags struct {
	file string
	sets []string
}

func (f *attrFlags) bind(c *cobra.Command) {
	c.Flags().StringVarP(&f.file, "file", "f", "", "YAML or JSON file with record attributes")
	c.Flags().StringArrayVar(&f.sets, "set", nil, "Attribute as key=value; dotted keys nest (account.internal_id=12), values stay text unless they start with [ or {")
}

// runAction resolves {{vars}} in step against the environment, executes it and prints
// the outcome. An unsuccessful remote status is reported and returned as an error.
func runAction(cmd *cobra.Command, f *actionFlags, step domain.StepSpec) error {
	if err := checkFormat(f.format); err != nil {
		return err
	}

	ws, err := loadWorkspace(f.workspace)
	if err != nil {
		return err
	}

	env, err := ws.envs.LoadEnvironment(resolveEnvironmentArg(ws, f.env))
	if err != nil {
		return err
	}

	d, err := ws.dispatcher(env, f.noSave)
	if err != nil {
		return err
	}

	step.Name = string(step.Action)
	step.RecordType = f.recordType
	if step.Search != nil {
		step.Search.RecordType = f.recordType
	}

	rt, err := domain.NewVarResolver().NewRuntime(env.Vars)
	if err != nil {
		return err
	}
	resolved, err := rt.ResolveStep(step)
	if err != nil {
		return err
	}

	out, err := usecase.NewStepExecutor(ws.registry, d, nil).Execute(cmd.Context(), resolved)
	if err != nil {
		return err
	}
	logger.L().Info("cli.action", "action", string(step.Action), "type", step.RecordType, "success", out.Success, "latency_ms", out.LatencyMS)

	res := actionResult{
		Action:     step.Action,
		RecordType: step.RecordType,
		Success:    out.Success,
		LatencyMS:  out.LatencyMS,
		Output:     out.Output,
		Details:    out.Details,
	}
	if err := printAction(cmd.OutOrStdout(), res, f.format); err != nil {
		return err
	}
	if !out.Success {
		return fmt.Errorf("%s %s was not successful", step.Action, step.RecordType)
	}
	return nil
}

func getCmd() *cobra.Command {
	var f actionFlags
	var rf refFlags

	c := &cobra.Command{
		Use:   "get",
		Short: "Fetch one record by internal or external id",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAction(cmd, &f, domain.StepSpec{Action: domain.ActionGet, Ref: rf.ref()})
		},
	}
	f.bind(c)
	rf.bind(c)
	return c
}

func getListCmd() *cobra.Command {
	var f actionFlags
	var ids, externalIDs []string

	c := &cobra.Command{
		Use:   "get-list",
		Short: "Fetch several records in one call",
		RunE: func(cmd *cobra.Command, _ []string) error {
			refs := make([]domain.RecordRef, 0, len(ids)+len(externalIDs))
			for _, id := range ids {
				refs = append(refs, domain.RecordRef{InternalID: id})
			}
			for _, id := range externalIDs {
				refs = append(refs, domain.RecordRef{ExternalID: id})
			}
			return runAction(cmd, &f, domain.StepSpec{Action: domain.ActionGetList, Refs: refs})
		},
	}
	f.bind(c)
	c.Flags().StringSliceVar(&ids, "id", nil, "Internal ids (repeatable or comma separated)")
	c.Flags().StringSliceVar(&externalIDs, "external-id", nil, "External ids (repeatable or comma separated)")
	return c
}

func initializeCmd() *cobra.Command {
	var f actionFlags
	var rf refFlags
	var fromType string

	c := &cobra.Command{
		Use:   "initialize",
		Short: "Ask NetSuite to build a new record from a reference record",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ref := rf.ref()
			if ref != nil {
				ref.Type = strings.TrimSpace(fromType)
			}
			return runAction(cmd, &f, domain.StepSpec{Action: domain.ActionInitialize, Reference: ref})
		},
	}
	f.bind(c)
	rf.bind(c)
	c.Flags().StringVar(&fromType, "from", "", "Reference record type, e.g. vendorBill")
	return c
}

func writeCmd(action domain.Action, use, short string) *cobra.Command {
	var f actionFlags
	var af attrFlags

	c := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			attrs, err := loadAttributes(af.file, af.sets)
			if err != nil {
				return err
			}
			return runAction(cmd, &f, domain.StepSpec{Action: action, Attributes: attrs})
		},
	}
	f.bind(c)
	af.bind(c)
	return c
}

func addCmd() *cobra.Command {
	return writeCmd(domain.ActionAdd, "add", "Create a record")
}

func updateCmd() *cobra.Command {
	return writeCmd(domain.ActionUpdate, "update", "Update the set fields of a record (needs internal_id or external_id)")
}

func upsertCmd() *cobra.Command {
	return writeCmd(domain.ActionUpsert, "upsert", "Add or update a record keyed by external_id")
}

func deleteCmd() *cobra.Command {
	var f actionFlags
	var rf refFlags

	c := &cobra.Command{
		Use:   "delete",
		Short: "Delete a record by internal or external id",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAction(cmd, &f, domain.StepSpec{Action: domain.ActionDelete, Ref: rf.ref()})
		},
	}
	f.bind(c)
	rf.bind(c)
	return c
}

func searchCmd() *cobra.Command {
	var f actionFlags
	var where []string
	var pageSize int
	var all bool

	c := &cobra.Command{
		Use:   "search",
		Short: "Run a basic search",
		Example: `  suitemap search -t check --where "memo contains rent"
  suitemap search -t check --where "tranDate@date within 2026-01-01,2026-01-31" --all`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			criteria := &domain.SearchCriteria{PageSize: pageSize, All: all}
			for _, w := range where {
				cond, err := parseWhere(w)
				if err != nil {
					return err
				}
				criteria.Basic = append(criteria.Basic, cond)
			}
			return runAction(cmd, &f, domain.StepSpec{Action: domain.ActionSearch, Search: criteria})
		},
	}
	f.bind(c)
	c.Flags().StringArrayVar(&where, "where", nil, `Condition "field[@kind] operator value[,value]"`)
	c.Flags().IntVar(&pageSize, "page-size", 0, "Page size (defaults to the workspace setting)")
	c.Flags().BoolVar(&all, "all", false, "Follow searchMoreWithId until every page is read")
	return c
}

// parseWhere reads "field[@kind] operator value[,value]". The value may contain spaces.
func parseWhere(s string) (domain.SearchCondition, error) {
	parts := strings.SplitN(strings.TrimSpace(s), " ", 3)
	if len(parts) != 3 || strings.TrimSpace(parts[2]) == "" {
		return domain.SearchCondition{}, fmt.Errorf("invalid condition %q (expected \"field operator value\")", s)
	}

	field, kindName, _ := strings.Cut(parts[0], "@")
	kind, err := domain.ParseSearchFieldKind(kindName)
	if err != nil {
		return domain.SearchCondition{}, fmt.Errorf("condition %q: %w", s, err)
	}

	var values []string
	for _, v := range strings.Split(parts[2], ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}

	return domain.SearchCondition{
		Field:    field,
		Kind:     kind,
		Operator: parts[1],
		Values:   values,
	}, nil
}

// loadAttributes merges an attribute file with --set pairs; pairs win.
func loadAttributes(file string, sets []string) (map[string]any, error) {
	attrs := map[string]any{}

	if p := strings.TrimSpace(file); p != "" {
		b, err := os.ReadFile(filepath.Clean(p))
		if err != nil {
			return nil, &domain.OpError{Op: "cli.attributes", Kind: domain.KindNotFound, Path: p, Err: err}
		}
		if err := yaml.Unmarshal(b, &attrs); err != nil {
			return nil, &domain.OpError{Op: "cli.attributes", Kind: domain.KindInvalidConfig, Path: p, Err: err}
		}
		if attrs == nil {
			attrs = map[string]any{}
		}
	}

	for _, kv := range sets {
		key, raw, ok := strings.Cut(kv, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q (expected key=value)", kv)
		}

		v, err := setValue(raw)
		if err != nil {
			return nil, fmt.Errorf("--set %q: %w", kv, err)
		}
		if err := setPath(attrs, strings.Split(key, "."), v); err != nil {
			return nil, fmt.Errorf("--set %q: %w", kv, err)
		}
	}

	return attrs, nil
}

// setValue keeps scalars as typed text; records convert them per field. Only flow
// collections such as [1, 2] or {internal_id: "3"} are read as YAML.
func setValue(raw string) (any, error) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "[") && !strings.HasPrefix(trimmed, "{") {
		return raw, nil
	}
	var v any
	if err := yaml.Unmarshal([]byte(trimmed), &v); err != nil {
		return nil, err
	}
	return v, nil
}

func setPath(m map[string]any, path []string, v any) error {
	if len(path) == 1 {
		m[path[0]] = v
		return nil
	}
	next, ok := m[path[0]]
	if !ok {
		child := map[string]any{}
		m[path[0]] = child
		return setPath(child, path[1:], v)
	}
	child, ok := next.(map[string]any)
	if !ok {
		return fmt.Errorf("%s is not an object", path[0])
	}
	return setPath(child, path[1:], v)
}
