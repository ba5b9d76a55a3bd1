package domain

import "time"

// AssertionResult is the output of a single assertion.
type AssertionResult struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
}

// ExtractResult is the output of a single extraction rule.
type ExtractResult struct {
	Name    string `json:"name"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// StepResult represents the result of executing a single batch step.
type StepResult struct {
	Name       string `json:"name"`
	Action     Action `json:"action"`
	RecordType string `json:"record_type"`

	Success   bool  `json:"success"`
	LatencyMS int64 `json:"latency_ms"`

	// Output is the JSON view of what the action returned (record, list or page).
	Output  any            `json:"output,omitempty"`
	Details []StatusDetail `json:"details,omitempty"`

	Assertions []AssertionResult `json:"assertions"`
	Extracts   []ExtractResult   `json:"extracts"`
	Extracted  Vars              `json:"extracted"`

	Error *CallError `json:"error,omitempty"`
}

// Failed reports whether the step errored or any check did not pass.
// An unsuccessful remote status only counts when no assertion covers it.
func (r StepResult) Failed() bool {
	if r.Error != nil {
		return true
	}
	for _, a := range r.Assertions {
		if !a.Passed {
			return true
		}
	}
	for _, e := range r.Extracts {
		if !e.Success {
			return true
		}
	}
	if !r.Success {
		for _, a := range r.Assertions {
			if a.Name == "success" {
				return false
			}
		}
		return true
	}
	return false
}

// RunResult represents the result of executing a batch.
type RunResult struct {
	BatchName       string       `json:"batch_name"`
	BatchPath       string       `json:"batch_path"`
	EnvironmentName string       `json:"environment_name"`
	StartedAt       time.Time    `json:"started_at"`
	EndedAt         time.Time    `json:"ended_at"`
	Results         []StepResult `json:"results"`
}

// Failed reports whether any step failed.
func (r RunResult) Failed() bool {
	for _, s := range r.Results {
		if s.Failed() {
			return true
		}
	}
	return false
}

// Summary counts passed and failed steps.
func (r RunResult) Summary() (passed, failed int) {
	for _, s := range r.Results {
		if s.Failed() {
			failed++
		} else {
			passed++
		}
	}
	return passed, failed
}
