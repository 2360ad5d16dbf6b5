package guardrails

import (
	"context"
	"fmt"
	"strings"

	"github.com/run-bigpig/agent-guardrails/pkg/interfaces"
)

// TokenCounter is an interface for counting tokens in text
type TokenCounter interface {
	CountTokens(text string) (int, error)
}

// SimpleTokenCounter approximates token counts by whitespace-separated
// words
type SimpleTokenCounter struct{}

// CountTokens counts tokens in text
func (s *SimpleTokenCounter) CountTokens(text string) (int, error) {
	return len(strings.Fields(text)), nil
}

// TokenLimitConfig configures a TokenLimit
type TokenLimitConfig struct {
	// MaxTokens is the maximum allowed token count
	MaxTokens int

	// TruncateMode is where tokens are dropped: "start", "middle" or
	// "end" (default)
	TruncateMode string

	// Counter overrides the token counter; nil uses SimpleTokenCounter
	Counter TokenCounter
}

// TokenLimit truncates text that exceeds a token budget
type TokenLimit struct {
	name    string
	config  TokenLimitConfig
	counter TokenCounter
}

// NewTokenLimit creates a token limit guardrail
func NewTokenLimit(name string, config TokenLimitConfig) (*TokenLimit, error) {
	if name == "" {
		name = "token_limit"
	}
	if config.MaxTokens <= 0 {
		return nil, fmt.Errorf("token limit %q: max tokens must be > 0", name)
	}
	switch config.TruncateMode {
	case "":
		config.TruncateMode = "end"
	case "start", "middle", "end":
	default:
		return nil, fmt.Errorf("token limit %q: unknown truncate mode %q", name, config.TruncateMode)
	}
	counter := config.Counter
	if counter == nil {
		counter = &SimpleTokenCounter{}
	}
	return &TokenLimit{name: name, config: config, counter: counter}, nil
}

// Name returns the guardrail name
func (t *TokenLimit) Name() string {
	return t.name
}

// Validate checks the input token count
func (t *TokenLimit) Validate(ctx context.Context, input string, metadata interfaces.Metadata) (interfaces.Result, error) {
	return t.check(input)
}

// Filter checks the output token count
func (t *TokenLimit) Filter(ctx context.Context, output string, metadata interfaces.Metadata) (interfaces.Result, error) {
	return t.check(output)
}

func (t *TokenLimit) check(text string) (interfaces.Result, error) {
	tokens, err := t.counter.CountTokens(text)
	if err != nil {
		return interfaces.Result{}, fmt.Errorf("failed to count tokens: %w", err)
	}
	if tokens <= t.config.MaxTokens {
		return interfaces.Passed(fmt.Sprintf("token check passed: %d tokens", tokens)), nil
	}
	truncated := t.truncate(text)
	return interfaces.Warn(fmt.Sprintf("text truncated to %d tokens (was %d)",
		t.config.MaxTokens, tokens), truncated), nil
}

func (t *TokenLimit) truncate(text string) string {
	words := strings.Fields(text)
	if len(words) <= t.config.MaxTokens {
		return text
	}
	switch t.config.TruncateMode {
	case "start":
		return strings.Join(words[len(words)-t.config.MaxTokens:], " ")
	case "middle":
		half := t.config.MaxTokens / 2
		return strings.Join(words[:half], " ") + " ... " + strings.Join(words[len(words)-half:], " ")
	default:
		return strings.Join(words[:t.config.MaxTokens], " ") + " ..."
	}
}
