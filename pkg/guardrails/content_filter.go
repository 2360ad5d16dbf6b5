package guardrails

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/run-bigpig/agent-guardrails/pkg/interfaces"
)

// ContentFilterConfig configures a ContentFilter
type ContentFilterConfig struct {
	// BlockedWords is the list of words to detect, matched
	// case-insensitively on word boundaries
	BlockedWords []string

	// Replacement substitutes each blocked word when masking
	Replacement string

	// StrictMode rejects content containing blocked words instead of
	// masking them
	StrictMode bool
}

// ContentFilter masks or rejects text containing blocked words
type ContentFilter struct {
	name    string
	config  ContentFilterConfig
	pattern *regexp.Regexp
}

// NewContentFilter creates a content filter guardrail
func NewContentFilter(name string, config ContentFilterConfig) (*ContentFilter, error) {
	if name == "" {
		name = "content_filter"
	}
	if len(config.BlockedWords) == 0 {
		return nil, fmt.Errorf("content filter %q: blocked word list is empty", name)
	}
	if config.Replacement == "" {
		config.Replacement = "****"
	}

	quoted := make([]string, len(config.BlockedWords))
	for i, word := range config.BlockedWords {
		quoted[i] = regexp.QuoteMeta(word)
	}
	pattern, err := regexp.Compile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`)
	if err != nil {
		return nil, fmt.Errorf("content filter %q: %w", name, err)
	}

	return &ContentFilter{name: name, config: config, pattern: pattern}, nil
}

// Name returns the guardrail name
func (f *ContentFilter) Name() string {
	return f.name
}

// Validate checks user input for blocked words
func (f *ContentFilter) Validate(ctx context.Context, input string, metadata interfaces.Metadata) (interfaces.Result, error) {
	return f.check(input), nil
}

// Filter checks the agent's response for blocked words
func (f *ContentFilter) Filter(ctx context.Context, output string, metadata interfaces.Metadata) (interfaces.Result, error) {
	return f.check(output), nil
}

func (f *ContentFilter) check(text string) interfaces.Result {
	matches := f.pattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return interfaces.Passed("no blocked content")
	}
	if f.config.StrictMode {
		return interfaces.Failed(fmt.Sprintf("content blocked, %d blocked word(s) detected", len(matches)))
	}
	masked := f.pattern.ReplaceAllString(text, f.config.Replacement)
	return interfaces.Warn(fmt.Sprintf("masked %d blocked word(s)", len(matches)), masked)
}
