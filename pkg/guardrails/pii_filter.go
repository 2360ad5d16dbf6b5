package guardrails

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/run-bigpig/agent-guardrails/pkg/interfaces"
)

// PIIFilterConfig configures a PIIFilter
type PIIFilterConfig struct {
	MaskEmails      bool
	MaskPhones      bool
	MaskCreditCards bool
	MaskSSN         bool

	// Replacement substitutes each detected PII span
	Replacement string

	// StrictMode rejects content containing PII instead of masking it
	StrictMode bool
}

// DefaultPIIFilterConfig returns a config that masks every supported
// PII kind with "[REDACTED]"
func DefaultPIIFilterConfig() PIIFilterConfig {
	return PIIFilterConfig{
		MaskEmails:      true,
		MaskPhones:      true,
		MaskCreditCards: true,
		MaskSSN:         true,
		Replacement:     "[REDACTED]",
	}
}

type piiPattern struct {
	kind    string
	pattern *regexp.Regexp
}

// PIIFilter detects and masks personally identifiable information. In
// strict mode detection rejects the content outright instead of
// masking. Masking is idempotent: the replacement token never matches
// any of the detection patterns.
type PIIFilter struct {
	name     string
	config   PIIFilterConfig
	patterns []piiPattern
}

// NewPIIFilter creates a PII filter guardrail
func NewPIIFilter(name string, config PIIFilterConfig) (*PIIFilter, error) {
	if name == "" {
		name = "pii_filter"
	}
	if config.Replacement == "" {
		config.Replacement = "[REDACTED]"
	}

	var patterns []piiPattern
	if config.MaskEmails {
		patterns = append(patterns, piiPattern{
			kind:    "email",
			pattern: regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		})
	}
	if config.MaskPhones {
		patterns = append(patterns,
			piiPattern{kind: "phone", pattern: regexp.MustCompile(`\b\d{3}-\d{3}-\d{4}\b`)},
			piiPattern{kind: "phone", pattern: regexp.MustCompile(`\(\d{3}\)\s*\d{3}-\d{4}`)},
			piiPattern{kind: "phone", pattern: regexp.MustCompile(`\b\d{3}\.\d{3}\.\d{4}\b`)},
			piiPattern{kind: "phone", pattern: regexp.MustCompile(`\b\d{10}\b`)},
		)
	}
	if config.MaskCreditCards {
		patterns = append(patterns, piiPattern{
			kind:    "credit_card",
			pattern: regexp.MustCompile(`\b\d{4}[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`),
		})
	}
	if config.MaskSSN {
		patterns = append(patterns,
			piiPattern{kind: "ssn", pattern: regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)},
			piiPattern{kind: "ssn", pattern: regexp.MustCompile(`\b\d{9}\b`)},
		)
	}
	if len(patterns) == 0 {
		return nil, fmt.Errorf("pii filter %q: no PII kinds enabled", name)
	}

	return &PIIFilter{name: name, config: config, patterns: patterns}, nil
}

// Name returns the guardrail name
func (f *PIIFilter) Name() string {
	return f.name
}

// Validate checks user input for PII
func (f *PIIFilter) Validate(ctx context.Context, input string, metadata interfaces.Metadata) (interfaces.Result, error) {
	return f.check(input), nil
}

// Filter checks the agent's response for PII
func (f *PIIFilter) Filter(ctx context.Context, output string, metadata interfaces.Metadata) (interfaces.Result, error) {
	return f.check(output), nil
}

type piiSpan struct {
	start, end int
	kind       string
}

func (f *PIIFilter) check(text string) interfaces.Result {
	spans := f.detect(text)
	if len(spans) == 0 {
		return interfaces.Passed("no PII detected")
	}

	kinds := spanKinds(spans)
	if f.config.StrictMode {
		return interfaces.Failed(fmt.Sprintf("content blocked, detected PII: %s",
			strings.Join(kinds, ", ")))
	}

	masked := f.mask(text, spans)
	return interfaces.Warn(fmt.Sprintf("masked %d PII span(s): %s",
		len(spans), strings.Join(kinds, ", ")), masked)
}

func (f *PIIFilter) detect(text string) []piiSpan {
	var spans []piiSpan
	for _, p := range f.patterns {
		for _, loc := range p.pattern.FindAllStringIndex(text, -1) {
			spans = append(spans, piiSpan{start: loc[0], end: loc[1], kind: p.kind})
		}
	}
	return mergeOverlaps(spans)
}

// mask replaces spans back to front so earlier offsets stay valid
func (f *PIIFilter) mask(text string, spans []piiSpan) string {
	masked := text
	for i := len(spans) - 1; i >= 0; i-- {
		masked = masked[:spans[i].start] + f.config.Replacement + masked[spans[i].end:]
	}
	return masked
}

// mergeOverlaps coalesces overlapping detections, e.g. a ten-digit
// phone number inside a credit card match, into single spans sorted by
// position
func mergeOverlaps(spans []piiSpan) []piiSpan {
	if len(spans) < 2 {
		return spans
	}
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].end > spans[j].end
	})
	merged := spans[:1]
	for _, s := range spans[1:] {
		last := &merged[len(merged)-1]
		if s.start < last.end {
			if s.end > last.end {
				last.end = s.end
			}
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

func spanKinds(spans []piiSpan) []string {
	seen := make(map[string]bool)
	var kinds []string
	for _, s := range spans {
		if !seen[s.kind] {
			seen[s.kind] = true
			kinds = append(kinds, s.kind)
		}
	}
	sort.Strings(kinds)
	return kinds
}
