// Package adapter normalizes arbitrary agent calling conventions to a
// single text-in/text-out contract. Each adapter variant knows how to
// drive one agent shape; Resolve picks the variant by structural probing
// or explicit configuration.
package adapter

import (
	"context"
	"fmt"
)

// Type identifies an adapter variant. The set is closed; TypeCustom is
// the explicit extension point for shapes the resolver does not know.
type Type string

const (
	// TypeChat adapts agents exposing Chat(ctx, text) (text, error)
	TypeChat Type = "chat"

	// TypeInvoke adapts agents exposing Invoke(ctx, map) (map, error)
	TypeInvoke Type = "invoke"

	// TypeRun adapts agents exposing Run(ctx, text) (text, error)
	TypeRun Type = "run"

	// TypeCallable adapts objects exposing Call(ctx, text) (text, error)
	TypeCallable Type = "callable"

	// TypeFunction adapts bare function values
	TypeFunction Type = "function"

	// TypeOpenAIClient adapts an OpenAI chat-completion client
	TypeOpenAIClient Type = "openai_client"

	// TypeCustom adapts any agent through caller-supplied transforms
	TypeCustom Type = "custom"
)

// Adapter drives one underlying agent through the uniform chat contract.
// Adapters hold a reference to the wrapped agent and never copy it; the
// agent's lifetime stays with the caller.
type Adapter interface {
	// Invoke sends the input text to the underlying agent and returns
	// its response as plain text. Failures are reported as
	// *InvocationError.
	Invoke(ctx context.Context, input string) (string, error)

	// Type returns the adapter variant
	Type() Type
}

// Chatter is the native agent shape: no translation needed
type Chatter interface {
	Chat(ctx context.Context, input string) (string, error)
}

// Invoker is the mapping-based agent shape common in chain frameworks
type Invoker interface {
	Invoke(ctx context.Context, input map[string]interface{}) (map[string]interface{}, error)
}

// Runner is the plain-text run shape
type Runner interface {
	Run(ctx context.Context, input string) (string, error)
}

// Caller is the call-capability shape for function-like objects
type Caller interface {
	Call(ctx context.Context, input string) (string, error)
}

// ChatAdapter passes text straight through to an agent's Chat method
type ChatAdapter struct {
	agent Chatter
}

// NewChatAdapter creates an adapter for a Chatter agent
func NewChatAdapter(agent Chatter) *ChatAdapter {
	return &ChatAdapter{agent: agent}
}

func (a *ChatAdapter) Type() Type { return TypeChat }

func (a *ChatAdapter) Invoke(ctx context.Context, input string) (string, error) {
	response, err := a.agent.Chat(ctx, input)
	if err != nil {
		return "", &InvocationError{AdapterType: TypeChat, Err: err}
	}
	return response, nil
}

// InvokeAdapter maps text into and out of a mapping-based agent. The
// input text goes in under InputKey and the response is read from
// OutputKey; both default to "input"/"output".
type InvokeAdapter struct {
	agent     Invoker
	inputKey  string
	outputKey string
}

// NewInvokeAdapter creates an adapter for an Invoker agent. Empty keys
// fall back to the defaults.
func NewInvokeAdapter(agent Invoker, inputKey, outputKey string) *InvokeAdapter {
	if inputKey == "" {
		inputKey = DefaultInputKey
	}
	if outputKey == "" {
		outputKey = DefaultOutputKey
	}
	return &InvokeAdapter{agent: agent, inputKey: inputKey, outputKey: outputKey}
}

func (a *InvokeAdapter) Type() Type { return TypeInvoke }

func (a *InvokeAdapter) Invoke(ctx context.Context, input string) (string, error) {
	result, err := a.agent.Invoke(ctx, map[string]interface{}{a.inputKey: input})
	if err != nil {
		return "", &InvocationError{AdapterType: TypeInvoke, Err: err}
	}
	raw, ok := result[a.outputKey]
	if !ok {
		return "", &InvocationError{
			AdapterType: TypeInvoke,
			Err:         fmt.Errorf("agent result has no %q key", a.outputKey),
		}
	}
	text, err := coerceText(raw)
	if err != nil {
		return "", &InvocationError{AdapterType: TypeInvoke, Err: err}
	}
	return text, nil
}

// RunAdapter passes text straight through to an agent's Run method
type RunAdapter struct {
	agent Runner
}

// NewRunAdapter creates an adapter for a Runner agent
func NewRunAdapter(agent Runner) *RunAdapter {
	return &RunAdapter{agent: agent}
}

func (a *RunAdapter) Type() Type { return TypeRun }

func (a *RunAdapter) Invoke(ctx context.Context, input string) (string, error) {
	response, err := a.agent.Run(ctx, input)
	if err != nil {
		return "", &InvocationError{AdapterType: TypeRun, Err: err}
	}
	return response, nil
}

// CallableAdapter drives objects that expose a Call capability
type CallableAdapter struct {
	agent Caller
}

// NewCallableAdapter creates an adapter for a Caller agent
func NewCallableAdapter(agent Caller) *CallableAdapter {
	return &CallableAdapter{agent: agent}
}

func (a *CallableAdapter) Type() Type { return TypeCallable }

func (a *CallableAdapter) Invoke(ctx context.Context, input string) (string, error) {
	response, err := a.agent.Call(ctx, input)
	if err != nil {
		return "", &InvocationError{AdapterType: TypeCallable, Err: err}
	}
	return response, nil
}

// FunctionAdapter drives a bare function value. The recognized
// signatures are normalized to one form at construction time.
type FunctionAdapter struct {
	fn func(ctx context.Context, input string) (string, error)
}

// NewFunctionAdapter creates an adapter for a function agent. Supported
// signatures:
//
//	func(context.Context, string) (string, error)
//	func(string) (string, error)
//	func(string) string
func NewFunctionAdapter(agent interface{}) (*FunctionAdapter, error) {
	fn, ok := normalizeFunc(agent)
	if !ok {
		return nil, &InvalidConfigError{
			Type:   TypeFunction,
			Reason: fmt.Sprintf("unsupported function signature %T", agent),
		}
	}
	return &FunctionAdapter{fn: fn}, nil
}

func normalizeFunc(agent interface{}) (func(context.Context, string) (string, error), bool) {
	switch fn := agent.(type) {
	case func(context.Context, string) (string, error):
		return fn, true
	case func(string) (string, error):
		return func(_ context.Context, input string) (string, error) {
			return fn(input)
		}, true
	case func(string) string:
		return func(_ context.Context, input string) (string, error) {
			return fn(input), nil
		}, true
	}
	return nil, false
}

func (a *FunctionAdapter) Type() Type { return TypeFunction }

func (a *FunctionAdapter) Invoke(ctx context.Context, input string) (string, error) {
	response, err := a.fn(ctx, input)
	if err != nil {
		return "", &InvocationError{AdapterType: TypeFunction, Err: err}
	}
	return response, nil
}

// CustomAdapter drives an agent through caller-supplied transforms. It
// is the escape hatch for calling conventions the resolver does not
// recognize.
type CustomAdapter struct {
	config CustomConfig
}

// NewCustomAdapter creates an adapter from a CustomConfig. All three
// members of the config are required.
func NewCustomAdapter(config *CustomConfig) (*CustomAdapter, error) {
	if config == nil {
		return nil, &InvalidConfigError{Type: TypeCustom, Reason: "custom config is required"}
	}
	if config.InputTransform == nil {
		return nil, &InvalidConfigError{Type: TypeCustom, Reason: "InputTransform is required"}
	}
	if config.Invoke == nil {
		return nil, &InvalidConfigError{Type: TypeCustom, Reason: "Invoke is required"}
	}
	if config.OutputTransform == nil {
		return nil, &InvalidConfigError{Type: TypeCustom, Reason: "OutputTransform is required"}
	}
	return &CustomAdapter{config: *config}, nil
}

func (a *CustomAdapter) Type() Type { return TypeCustom }

func (a *CustomAdapter) Invoke(ctx context.Context, input string) (string, error) {
	payload, err := a.config.InputTransform(input)
	if err != nil {
		return "", &InvocationError{AdapterType: TypeCustom, Err: fmt.Errorf("input transform: %w", err)}
	}
	raw, err := a.config.Invoke(ctx, payload)
	if err != nil {
		return "", &InvocationError{AdapterType: TypeCustom, Err: err}
	}
	text, err := a.config.OutputTransform(raw)
	if err != nil {
		return "", &InvocationError{AdapterType: TypeCustom, Err: fmt.Errorf("output transform: %w", err)}
	}
	return text, nil
}

// coerceText converts an agent result value to plain text. Shapes the
// adapter cannot coerce are reported as errors rather than stringified.
func coerceText(raw interface{}) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return "", fmt.Errorf("cannot coerce %T result to text", raw)
	}
}
