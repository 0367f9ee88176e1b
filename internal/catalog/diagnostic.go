// SPDX-License-Identifier: MPL-2.0

package catalog

import "fmt"

const (
	// SeverityWarning indicates a script that was skipped or only partly cataloged.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a script whose help invocation failed outright.
	SeverityError Severity = "error"

	// CodeHelpInvocationFailed is reported when the help command exits non-zero or cannot start.
	CodeHelpInvocationFailed = "help_invocation_failed"
	// CodeHelpTimeout is reported when the help command exceeds the per-script timeout.
	CodeHelpTimeout = "help_timeout"
	// CodeUsageSyntax is reported when the usage line does not parse.
	CodeUsageSyntax = "usage_syntax"
	// CodeDescriptionMissing is reported when a grammar argument has no option line.
	CodeDescriptionMissing = "description_missing"
	// CodeHelpMalformed is reported when a title is present but no usage line is.
	CodeHelpMalformed = "help_malformed"
)

type (
	// Severity represents catalog diagnostic severity.
	Severity string

	// Diagnostic is a structured, non-fatal catalog problem returned to callers
	// instead of being written to stderr.
	Diagnostic struct {
		// Severity is the diagnostic level (warning or error).
		Severity Severity
		// Code is a machine-readable identifier (e.g., "usage_syntax").
		Code string
		// Message is the human-readable description.
		Message string
		// Path is the script path associated with this diagnostic.
		Path string
		// Cause is the underlying error (optional, for programmatic inspection).
		Cause error
	}
)

// String renders the diagnostic on one line.
func (d Diagnostic) String() string {
	if d.Cause != nil {
		return fmt.Sprintf("%s [%s] %s: %s: %v", d.Severity, d.Code, d.Path, d.Message, d.Cause)
	}
	return fmt.Sprintf("%s [%s] %s: %s", d.Severity, d.Code, d.Path, d.Message)
}
