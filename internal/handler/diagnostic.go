package handler

import "fmt"

// Diagnostic codes.
const (
	// CodeUndocumentable marks diagnostics backed by an UndocumentableError.
	CodeUndocumentable = "undocumentable"
	// CodeParse marks a file whose syntax tree ended in an error.
	CodeParse = "parse"
	// CodeConflict marks a definition that clashes with an earlier one.
	CodeConflict = "conflict"
	// CodeRead marks a file that could not be read or extracted.
	CodeRead = "read"
)

const (
	// SeverityWarning indicates a recoverable extraction problem.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a file could not be fully processed.
	SeverityError Severity = "error"
)

type (
	// Severity represents diagnostic severity.
	Severity string

	// Diagnostic is a non-fatal problem collected during a run and reported
	// once at the end rather than written to stderr as it happens.
	Diagnostic struct {
		Severity Severity
		// Code is a machine-readable identifier such as "undocumentable".
		Code    string
		Message string
		File    string
		Line    int
		// Cause is the underlying error, for errors.As inspection.
		Cause error
	}

	// UndocumentableError describes a well-formed construct that rbdoc
	// recognizes but cannot turn into a code object.
	UndocumentableError struct {
		File   string
		Line   int
		Source string
		Reason string
	}
)

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Severity, d.Message)
}

func (e *UndocumentableError) Error() string {
	return fmt.Sprintf("%s:%d: undocumentable code: %s: %s", e.File, e.Line, e.Reason, e.Source)
}
