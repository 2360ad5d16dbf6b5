package adapter

import (
	"context"
	"time"
)

// Default mapping keys for the invoke adapter
const (
	DefaultInputKey  = "input"
	DefaultOutputKey = "output"
)

// Config collects the per-variant adapter settings. A zero Type means
// the resolver probes the agent's shape.
type Config struct {
	Type Type

	// InputKey and OutputKey configure the invoke adapter's mapping keys
	InputKey  string
	OutputKey string

	// Model, SystemPrompt and RequestTimeout configure the OpenAI
	// client adapter. Model is required for that variant.
	Model          string
	SystemPrompt   string
	RequestTimeout time.Duration

	// Custom configures the custom adapter
	Custom *CustomConfig
}

// CustomConfig describes how the custom adapter drives an agent.
// Invoke is the bound agent call, typically a method value on the
// wrapped agent; the transforms convert text to the call's payload and
// its raw result back to text. All three are required.
type CustomConfig struct {
	InputTransform  func(input string) (interface{}, error)
	Invoke          func(ctx context.Context, payload interface{}) (interface{}, error)
	OutputTransform func(result interface{}) (string, error)
}

// Option configures adapter resolution
type Option func(*Config)

// WithType selects an adapter variant explicitly, bypassing detection
func WithType(t Type) Option {
	return func(c *Config) {
		c.Type = t
	}
}

// WithInvokeKeys sets the mapping keys used by the invoke adapter
func WithInvokeKeys(inputKey, outputKey string) Option {
	return func(c *Config) {
		c.InputKey = inputKey
		c.OutputKey = outputKey
	}
}

// WithModel sets the model for the OpenAI client adapter
func WithModel(model string) Option {
	return func(c *Config) {
		c.Model = model
	}
}

// WithSystemPrompt sets the system turn prepended by the OpenAI client
// adapter
func WithSystemPrompt(prompt string) Option {
	return func(c *Config) {
		c.SystemPrompt = prompt
	}
}

// WithRequestTimeout bounds each OpenAI request. Zero means no bound.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.RequestTimeout = timeout
	}
}

// WithCustom supplies the custom adapter configuration and selects the
// custom variant
func WithCustom(config CustomConfig) Option {
	return func(c *Config) {
		c.Type = TypeCustom
		c.Custom = &config
	}
}
