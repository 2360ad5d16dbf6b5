package adapter

import (
	"fmt"
	"reflect"
)

// Resolve selects or constructs the adapter for an agent. With an
// explicit type in the options the matching variant is constructed
// directly; otherwise the agent's shape is probed in a fixed priority
// order and the first match wins. Probing is structural: only the
// presence of a capability matters, never the agent's concrete type.
func Resolve(agent interface{}, opts ...Option) (Adapter, error) {
	var config Config
	for _, opt := range opts {
		opt(&config)
	}
	if config.Type != "" {
		return construct(agent, config)
	}
	return detect(agent, config)
}

// detect probes the agent's shape. The order favors the most native and
// least ambiguous capability first: an agent offering both Chat and
// Call is assumed to prefer Chat.
func detect(agent interface{}, config Config) (Adapter, error) {
	if chatter, ok := agent.(Chatter); ok {
		return NewChatAdapter(chatter), nil
	}
	if invoker, ok := agent.(Invoker); ok {
		return NewInvokeAdapter(invoker, config.InputKey, config.OutputKey), nil
	}
	if runner, ok := agent.(Runner); ok {
		return NewRunAdapter(runner), nil
	}
	if fn, ok := normalizeFunc(agent); ok {
		return &FunctionAdapter{fn: fn}, nil
	}
	if caller, ok := agent.(Caller); ok {
		return NewCallableAdapter(caller), nil
	}
	if client, ok := agent.(ChatCompleter); ok {
		return NewOpenAIClientAdapter(client, config)
	}
	return nil, &UnsupportedInterfaceError{
		AgentType: fmt.Sprintf("%T", agent),
		Methods:   exportedMethods(agent),
	}
}

// construct builds the explicitly requested variant, verifying the
// agent actually carries the capability that variant drives
func construct(agent interface{}, config Config) (Adapter, error) {
	switch config.Type {
	case TypeChat:
		chatter, ok := agent.(Chatter)
		if !ok {
			return nil, &InvalidConfigError{Type: TypeChat, Reason: capabilityReason(agent, "Chat(ctx, string) (string, error)")}
		}
		return NewChatAdapter(chatter), nil
	case TypeInvoke:
		invoker, ok := agent.(Invoker)
		if !ok {
			return nil, &InvalidConfigError{Type: TypeInvoke, Reason: capabilityReason(agent, "Invoke(ctx, map) (map, error)")}
		}
		return NewInvokeAdapter(invoker, config.InputKey, config.OutputKey), nil
	case TypeRun:
		runner, ok := agent.(Runner)
		if !ok {
			return nil, &InvalidConfigError{Type: TypeRun, Reason: capabilityReason(agent, "Run(ctx, string) (string, error)")}
		}
		return NewRunAdapter(runner), nil
	case TypeCallable:
		caller, ok := agent.(Caller)
		if !ok {
			return nil, &InvalidConfigError{Type: TypeCallable, Reason: capabilityReason(agent, "Call(ctx, string) (string, error)")}
		}
		return NewCallableAdapter(caller), nil
	case TypeFunction:
		return NewFunctionAdapter(agent)
	case TypeOpenAIClient:
		client, ok := agent.(ChatCompleter)
		if !ok {
			return nil, &InvalidConfigError{Type: TypeOpenAIClient, Reason: capabilityReason(agent, "CreateChatCompletion")}
		}
		return NewOpenAIClientAdapter(client, config)
	case TypeCustom:
		return NewCustomAdapter(config.Custom)
	default:
		return nil, &UnknownTypeError{Type: config.Type}
	}
}

func capabilityReason(agent interface{}, capability string) string {
	return fmt.Sprintf("%T does not implement %s", agent, capability)
}

// exportedMethods lists the agent's exported methods for diagnostics
func exportedMethods(agent interface{}) []string {
	t := reflect.TypeOf(agent)
	if t == nil {
		return nil
	}
	methods := make([]string, 0, t.NumMethod())
	for i := 0; i < t.NumMethod(); i++ {
		methods = append(methods, t.Method(i).Name)
	}
	return methods
}
