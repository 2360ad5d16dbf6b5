// Package guardrails provides the built-in guardrail policies. Every
// policy implements both the input and the output contract so it can be
// registered on either side of the agent call.
package guardrails

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/run-bigpig/agent-guardrails/pkg/interfaces"
)

// LengthValidatorConfig configures a LengthValidator
type LengthValidatorConfig struct {
	// MinLength is the minimum allowed length in runes, counted after
	// trimming surrounding whitespace
	MinLength int

	// MaxLength is the maximum allowed length in runes
	MaxLength int

	// Truncate rewrites over-long text instead of rejecting it
	Truncate bool

	// TruncateSuffix is appended to truncated text
	TruncateSuffix string
}

// DefaultLengthValidatorConfig returns the default length limits
func DefaultLengthValidatorConfig() LengthValidatorConfig {
	return LengthValidatorConfig{
		MinLength:      1,
		MaxLength:      10000,
		TruncateSuffix: "...",
	}
}

// LengthValidator checks text length bounds and can optionally truncate
// over-long text instead of rejecting it
type LengthValidator struct {
	name   string
	config LengthValidatorConfig
}

// NewLengthValidator creates a length validator guardrail. Zero-valued
// limits fall back to the defaults.
func NewLengthValidator(name string, config LengthValidatorConfig) (*LengthValidator, error) {
	if name == "" {
		name = "length_validator"
	}
	if config.MaxLength == 0 {
		config.MaxLength = 10000
	}
	if config.TruncateSuffix == "" {
		config.TruncateSuffix = "..."
	}
	if config.MinLength < 0 {
		return nil, fmt.Errorf("length validator %q: min length must be >= 0", name)
	}
	if config.MaxLength < 0 {
		return nil, fmt.Errorf("length validator %q: max length must be > 0", name)
	}
	if config.MinLength > config.MaxLength {
		return nil, fmt.Errorf("length validator %q: min length %d exceeds max length %d",
			name, config.MinLength, config.MaxLength)
	}
	return &LengthValidator{name: name, config: config}, nil
}

// Name returns the guardrail name
func (v *LengthValidator) Name() string {
	return v.name
}

// Validate checks input length
func (v *LengthValidator) Validate(ctx context.Context, input string, metadata interfaces.Metadata) (interfaces.Result, error) {
	return v.check(input), nil
}

// Filter checks output length
func (v *LengthValidator) Filter(ctx context.Context, output string, metadata interfaces.Metadata) (interfaces.Result, error) {
	return v.check(output), nil
}

func (v *LengthValidator) check(text string) interfaces.Result {
	length := utf8.RuneCountInString(strings.TrimSpace(text))

	if length < v.config.MinLength {
		return interfaces.Failed(fmt.Sprintf("text too short: %d chars (minimum %d)",
			length, v.config.MinLength))
	}

	if length > v.config.MaxLength {
		if !v.config.Truncate {
			return interfaces.Failed(fmt.Sprintf("text too long: %d chars (maximum %d)",
				length, v.config.MaxLength))
		}
		keep := v.config.MaxLength - utf8.RuneCountInString(v.config.TruncateSuffix)
		if keep <= 0 {
			return interfaces.Failed(fmt.Sprintf(
				"text too long and cannot be truncated safely: %d chars", length))
		}
		truncated := string([]rune(text)[:keep]) + v.config.TruncateSuffix
		return interfaces.Warn(fmt.Sprintf("text truncated: %d -> %d chars",
			length, utf8.RuneCountInString(truncated)), truncated)
	}

	return interfaces.Passed(fmt.Sprintf("length check passed: %d chars", length))
}
