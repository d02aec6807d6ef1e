package models

// ValidationResult is the outcome of checking a parsed payload against the
// command schema registry. Diagnostic is a self-contained, human-readable
// explanation - it is echoed verbatim into the model conversation as
// corrective feedback, so it must be actionable on its own.
type ValidationResult struct {
	Valid      bool
	Diagnostic string
}

// ExtractionResult is the final output of one orchestration run.
type ExtractionResult struct {
	Success bool     `json:"success"`
	Command *Command `json:"command,omitempty"`
	RawText string   `json:"raw_text"`
	Error   string   `json:"error,omitempty"`
}
