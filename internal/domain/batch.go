package domain

// JSONPathAssertion defines a JSONPath-based check against a step's output.
type JSONPathAssertion struct {
	Exists   bool
	Eq       *string
	Contains *string
	Matches  *string
	Gt       *float64
	Lt       *float64
}

// AssertionsSpec defines functional assertions for a step.
type AssertionsSpec struct {
	// Success is the expected remote status (optional).
	Success *bool

	// MaxLatencyMS is a maximum allowed latency in milliseconds (optional).
	MaxLatencyMS *int

	// JSONPath contains JSONPath assertions keyed by expression.
	JSONPath map[string]JSONPathAssertion
}

// ExtractSpec defines variable extraction from step outputs.
// Map: variableName -> jsonpathExpression
type ExtractSpec map[string]string

// StepSpec describes a single record action inside a batch.
type StepSpec struct {
	Name       string
	Action     Action
	RecordType string

	// Attributes feed add/update/upsert. Values are JSON-like (maps, slices, scalars).
	Attributes map[string]any

	// Ref targets get/delete; Refs targets get_list; Reference seeds initialize.
	Ref       *RecordRef
	Refs      []RecordRef
	Reference *RecordRef

	Search *SearchCriteria

	Assert  AssertionsSpec
	Extract ExtractSpec
}

// Batch groups steps under one logical unit (Git-friendly).
type Batch struct {
	Name string

	// Vars are default variables available to all steps. Environment vars and
	// extracted vars override them.
	Vars Vars

	Steps []StepSpec
}

// BatchRef is a lightweight reference to a batch file on disk.
type BatchRef struct {
	Name string
	Path string
}

// EnvironmentRef is a lightweight reference to an environment file on disk.
type EnvironmentRef struct {
	Name string
	Path string
}

// WorkspaceSpec describes where a workspace should be scaffolded.
type WorkspaceSpec struct {
	Root string
}
