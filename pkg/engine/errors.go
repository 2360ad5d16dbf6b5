package engine

import "fmt"

// Direction identifies which pipeline a guardrail ran in
type Direction string

const (
	// DirectionInput is the pipeline run before the agent call
	DirectionInput Direction = "input"

	// DirectionOutput is the pipeline run after the agent call
	DirectionOutput Direction = "output"
)

// ViolationError reports that a registered guardrail failed the
// content. On the input side the underlying agent is never invoked; on
// the output side the agent's response is withheld from the caller.
type ViolationError struct {
	Guardrail string
	Direction Direction
	Message   string
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("%s guardrail %q blocked the call: %s", e.Direction, e.Guardrail, e.Message)
}
