package interfaces

import "context"

// Status is the outcome class of a single guardrail check
type Status string

const (
	// StatusPassed means the content is acceptable as-is or as modified
	StatusPassed Status = "passed"

	// StatusFailed means the content is rejected and the pipeline must halt
	StatusFailed Status = "failed"

	// StatusWarning means the content is acceptable but was flagged,
	// typically because the guardrail rewrote it
	StatusWarning Status = "warning"
)

// Result is the immutable outcome of one guardrail invocation.
// Every Validate/Filter call produces a fresh Result.
type Result struct {
	// Status decides whether the pipeline continues
	Status Status

	// Message is a human-readable explanation of the outcome
	Message string

	// ModifiedContent, when non-nil, replaces the text flowing to the
	// next pipeline stage. A nil value means the text is unchanged.
	// The pipeline ignores ModifiedContent on a failed result.
	ModifiedContent *string

	// Guardrail is the name of the guardrail that produced the result,
	// filled in by the pipeline for observability
	Guardrail string
}

// Passed creates a passing result that leaves the content unchanged
func Passed(message string) Result {
	return Result{Status: StatusPassed, Message: message}
}

// PassedWith creates a passing result that replaces the content
func PassedWith(message, content string) Result {
	return Result{Status: StatusPassed, Message: message, ModifiedContent: &content}
}

// Warn creates a warning result that replaces the content. Warnings
// behave like passes for pipeline continuation.
func Warn(message, content string) Result {
	return Result{Status: StatusWarning, Message: message, ModifiedContent: &content}
}

// Failed creates a failing result that halts the pipeline
func Failed(message string) Result {
	return Result{Status: StatusFailed, Message: message}
}

// IsFailure reports whether the result halts the pipeline
func (r Result) IsFailure() bool {
	return r.Status == StatusFailed
}

// Metadata carries request-scoped context through one pipeline run,
// such as the run ID, the adapter type and the call timestamp. It is
// read-only to guardrails; the pipeline never mutates the map a caller
// passes in.
type Metadata map[string]interface{}

// InputGuardrail validates or transforms user input before it reaches
// the underlying agent
type InputGuardrail interface {
	// Name returns the caller-assigned name of the guardrail
	Name() string

	// Validate checks the input text. A failed Result blocks the call;
	// a non-nil error reports a guardrail malfunction and also blocks
	// the call. Implementations must be safe for concurrent use.
	Validate(ctx context.Context, input string, metadata Metadata) (Result, error)
}

// OutputGuardrail validates or transforms the agent's response before
// it is released to the caller
type OutputGuardrail interface {
	// Name returns the caller-assigned name of the guardrail
	Name() string

	// Filter checks the output text. A failed Result withholds the
	// response from the caller; a non-nil error reports a guardrail
	// malfunction and also withholds it. Implementations must be safe
	// for concurrent use.
	Filter(ctx context.Context, output string, metadata Metadata) (Result, error)
}
