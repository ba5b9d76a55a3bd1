package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aalvaropc/suitemap/internal/domain"
)

const (
	formatPretty = "pretty"
	formatJSON   = "json"
)

var (
	styleTitle = lipgloss.NewStyle().Bold(true)
	styleLabel = lipgloss.NewStyle().Faint(true)
	styleOK    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	styleFail  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
)

func checkFormat(format string) error {
	switch format {
	case formatPretty, formatJSON, "":
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func status(ok bool) string {
	if ok {
		return styleOK.Render("OK")
	}
	return styleFail.Render("FAIL")
}

func label(w io.Writer, name string, value any) {
	fmt.Fprintf(w, "%s %v\n", styleLabel.Render(fmt.Sprintf("%-10s", name+":")), value)
}

// actionResult is what single-action commands print.
type actionResult struct {
	Action     domain.Action         `json:"action"`
	RecordType string                `json:"record_type"`
	Success    bool                  `json:"success"`
	LatencyMS  int64                 `json:"latency_ms"`
	Output     any                   `json:"output,omitempty"`
	Details    []domain.StatusDetail `json:"details,omitempty"`
}

func printAction(w io.Writer, res actionResult, format string) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	if format == formatJSON {
		return writeJSON(w, res)
	}

	fmt.Fprintf(w, "%s %s %s (%dms)\n", status(res.Success), styleTitle.Render(string(res.Action)), res.RecordType, res.LatencyMS)
	for _, d := range res.Details {
		fmt.Fprintf(w, "  %s\n", d.String())
	}
	if res.Output != nil {
		b, err := json.MarshalIndent(res.Output, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, string(b))
	}
	return nil
}

func printRun(w io.Writer, run domain.RunResult, runID string, format string) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	if format == formatJSON {
		return writeJSON(w, map[string]any{
			"run_id": runID,
			"run":    run,
		})
	}
	printPrettyRun(w, run, runID)
	return nil
}

func printPrettyRun(w io.Writer, run domain.RunResult, runID string) {
	total := run.EndedAt.Sub(run.StartedAt)
	if run.StartedAt.IsZero() || run.EndedAt.IsZero() {
		total = 0
	}

	label(w, "Batch", run.BatchName)
	label(w, "Env", run.EnvironmentName)
	label(w, "Duration", total)
	if runID != "" {
		label(w, "Run ID", runID)
	}
	fmt.Fprintln(w)

	for _, r := range run.Results {
		fmt.Fprintf(w, "- [%s] %s (%s %s) %dms\n", status(!r.Failed()), r.Name, r.Action, r.RecordType, r.LatencyMS)

		if r.Error != nil {
			fmt.Fprintf(w, "  error: %s (%s)\n", r.Error.Message, r.Error.Kind)
		}
		for _, d := range r.Details {
			fmt.Fprintf(w, "  %s\n", d.String())
		}

		if len(r.Assertions) > 0 {
			pass, fail := countAssertionPassFail(r.Assertions)
			fmt.Fprintf(w, "  assertions: %d pass / %d fail\n", pass, fail)
			for _, a := range r.Assertions {
				mark := "✓"
				if !a.Passed {
					mark = "✗"
				}
				fmt.Fprintf(w, "    %s %s: %s\n", mark, a.Name, a.Message)
			}
		}

		if len(r.Extracts) > 0 {
			ok, bad := countExtractPassFail(r.Extracts)
			fmt.Fprintf(w, "  extracts: %d ok / %d fail\n", ok, bad)
			for _, e := range r.Extracts {
				mark := "✓"
				if !e.Success {
					mark = "✗"
				}
				fmt.Fprintf(w, "    %s %s: %s\n", mark, e.Name, e.Message)
			}
		}

		if len(r.Extracted) > 0 {
			fmt.Fprintf(w, "  extracted vars:\n")
			for _, k := range sortedKeys(r.Extracted) {
				fmt.Fprintf(w, "    - %s = %s\n", k, r.Extracted[k])
			}
		}

		fmt.Fprintln(w)
	}

	passed, failed := run.Summary()
	fmt.Fprintf(w, "%s %d passed, %d failed\n", styleTitle.Render("Summary:"), passed, failed)
}

func countAssertionPassFail(in []domain.AssertionResult) (pass int, fail int) {
	for _, a := range in {
		if a.Passed {
			pass++
		} else {
			fail++
		}
	}
	return pass, fail
}

func countExtractPassFail(in []domain.ExtractResult) (ok int, bad int) {
	for _, e := range in {
		if e.Success {
			ok++
		} else {
			bad++
		}
	}
	return ok, bad
}

func joinActions(in []domain.Action) string {
	out := make([]string, len(in))
	for i, a := range in {
		out[i] = string(a)
	}
	return strings.Join(out, ", ")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
