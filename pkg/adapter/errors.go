package adapter

import (
	"fmt"
	"strings"
)

// InvocationError reports that the underlying agent call failed or
// returned a shape the adapter could not coerce to text. It wraps the
// original cause.
type InvocationError struct {
	AdapterType Type
	Err         error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("agent invocation failed (%s adapter): %v", e.AdapterType, e.Err)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

// UnknownTypeError reports an explicitly requested adapter type that is
// not part of the variant set
type UnknownTypeError struct {
	Type Type
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown adapter type %q (known types: %s)", e.Type,
		strings.Join([]string{
			string(TypeChat), string(TypeInvoke), string(TypeRun),
			string(TypeCallable), string(TypeFunction),
			string(TypeOpenAIClient), string(TypeCustom),
		}, ", "))
}

// UnsupportedInterfaceError reports that no adapter variant matched the
// agent's shape. It lists the agent's exported methods so the caller
// can see what was probed.
type UnsupportedInterfaceError struct {
	AgentType string
	Methods   []string
}

func (e *UnsupportedInterfaceError) Error() string {
	methods := "none"
	if len(e.Methods) > 0 {
		methods = strings.Join(e.Methods, ", ")
	}
	return fmt.Sprintf(
		"unable to detect an adapter for %s (exported methods: %s); select adapter.TypeCustom with a CustomConfig to wrap it",
		e.AgentType, methods)
}

// InvalidConfigError reports an adapter configuration that cannot
// construct the requested variant
type InvalidConfigError struct {
	Type   Type
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid %s adapter config: %s", e.Type, e.Reason)
}
