package engine

import (
	"fmt"
	"os"

	"github.com/run-bigpig/agent-guardrails/pkg/guardrails"
	"github.com/run-bigpig/agent-guardrails/pkg/interfaces"
	"gopkg.in/yaml.v3"
)

// Config represents an engine configuration loaded from YAML. Each
// pipeline lists its guardrails in order; a guardrail entry names a
// built-in type and its settings, e.g.
//
//	input:
//	  - type: length_validator
//	    name: request_length
//	    settings:
//	      min_length: 3
//	      truncate: true
//	output:
//	  - type: pii_filter
//	    settings:
//	      strict_mode: true
type Config struct {
	Input  []GuardrailSpec `yaml:"input"`
	Output []GuardrailSpec `yaml:"output"`
}

// GuardrailSpec is one guardrail entry in a Config
type GuardrailSpec struct {
	Type     string    `yaml:"type"`
	Name     string    `yaml:"name"`
	Settings yaml.Node `yaml:"settings"`
}

// LoadConfigFile builds an engine from a YAML configuration file
func LoadConfigFile(path string, opts ...Option) (*Engine, error) {
	data, err := os.ReadFile(path) // #nosec G304 - caller-controlled config path
	if err != nil {
		return nil, fmt.Errorf("failed to read engine config file: %w", err)
	}
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal engine config: %w", err)
	}
	return NewFromConfig(config, opts...)
}

// NewFromConfig builds an engine from a parsed configuration
func NewFromConfig(config Config, opts ...Option) (*Engine, error) {
	e := New(opts...)
	for i, spec := range config.Input {
		built, err := buildGuardrail(spec)
		if err != nil {
			return nil, fmt.Errorf("input guardrail %d: %w", i, err)
		}
		guardrail, ok := built.(interfaces.InputGuardrail)
		if !ok {
			return nil, fmt.Errorf("input guardrail %d: type %q cannot validate input", i, spec.Type)
		}
		e.AddInputGuardrail(guardrail)
	}
	for i, spec := range config.Output {
		built, err := buildGuardrail(spec)
		if err != nil {
			return nil, fmt.Errorf("output guardrail %d: %w", i, err)
		}
		guardrail, ok := built.(interfaces.OutputGuardrail)
		if !ok {
			return nil, fmt.Errorf("output guardrail %d: type %q cannot filter output", i, spec.Type)
		}
		e.AddOutputGuardrail(guardrail)
	}
	return e, nil
}

type lengthSettings struct {
	MinLength      *int    `yaml:"min_length"`
	MaxLength      *int    `yaml:"max_length"`
	Truncate       *bool   `yaml:"truncate"`
	TruncateSuffix *string `yaml:"truncate_suffix"`
}

type piiSettings struct {
	MaskEmails      *bool   `yaml:"mask_emails"`
	MaskPhones      *bool   `yaml:"mask_phones"`
	MaskCreditCards *bool   `yaml:"mask_credit_cards"`
	MaskSSN         *bool   `yaml:"mask_ssn"`
	Replacement     *string `yaml:"replacement"`
	StrictMode      *bool   `yaml:"strict_mode"`
}

type contentSettings struct {
	BlockedWords []string `yaml:"blocked_words"`
	Replacement  *string  `yaml:"replacement"`
	StrictMode   *bool    `yaml:"strict_mode"`
}

type tokenSettings struct {
	MaxTokens    int    `yaml:"max_tokens"`
	TruncateMode string `yaml:"truncate_mode"`
}

var settingsKeys = map[string][]string{
	"length_validator": {"min_length", "max_length", "truncate", "truncate_suffix"},
	"pii_filter":       {"mask_emails", "mask_phones", "mask_credit_cards", "mask_ssn", "replacement", "strict_mode"},
	"content_filter":   {"blocked_words", "replacement", "strict_mode"},
	"token_limit":      {"max_tokens", "truncate_mode"},
}

func buildGuardrail(spec GuardrailSpec) (interface{}, error) {
	keys, ok := settingsKeys[spec.Type]
	if !ok {
		return nil, fmt.Errorf("unknown guardrail type %q", spec.Type)
	}
	if err := rejectUnknownKeys(spec.Settings, keys); err != nil {
		return nil, fmt.Errorf("guardrail type %q: %w", spec.Type, err)
	}

	switch spec.Type {
	case "length_validator":
		var s lengthSettings
		if err := decodeSettings(spec.Settings, &s); err != nil {
			return nil, err
		}
		config := guardrails.DefaultLengthValidatorConfig()
		if s.MinLength != nil {
			config.MinLength = *s.MinLength
		}
		if s.MaxLength != nil {
			config.MaxLength = *s.MaxLength
		}
		if s.Truncate != nil {
			config.Truncate = *s.Truncate
		}
		if s.TruncateSuffix != nil {
			config.TruncateSuffix = *s.TruncateSuffix
		}
		return guardrails.NewLengthValidator(spec.Name, config)

	case "pii_filter":
		var s piiSettings
		if err := decodeSettings(spec.Settings, &s); err != nil {
			return nil, err
		}
		config := guardrails.DefaultPIIFilterConfig()
		if s.MaskEmails != nil {
			config.MaskEmails = *s.MaskEmails
		}
		if s.MaskPhones != nil {
			config.MaskPhones = *s.MaskPhones
		}
		if s.MaskCreditCards != nil {
			config.MaskCreditCards = *s.MaskCreditCards
		}
		if s.MaskSSN != nil {
			config.MaskSSN = *s.MaskSSN
		}
		if s.Replacement != nil {
			config.Replacement = *s.Replacement
		}
		if s.StrictMode != nil {
			config.StrictMode = *s.StrictMode
		}
		return guardrails.NewPIIFilter(spec.Name, config)

	case "content_filter":
		var s contentSettings
		if err := decodeSettings(spec.Settings, &s); err != nil {
			return nil, err
		}
		config := guardrails.ContentFilterConfig{BlockedWords: s.BlockedWords}
		if s.Replacement != nil {
			config.Replacement = *s.Replacement
		}
		if s.StrictMode != nil {
			config.StrictMode = *s.StrictMode
		}
		return guardrails.NewContentFilter(spec.Name, config)

	case "token_limit":
		var s tokenSettings
		if err := decodeSettings(spec.Settings, &s); err != nil {
			return nil, err
		}
		return guardrails.NewTokenLimit(spec.Name, guardrails.TokenLimitConfig{
			MaxTokens:    s.MaxTokens,
			TruncateMode: s.TruncateMode,
		})
	}
	return nil, fmt.Errorf("unknown guardrail type %q", spec.Type)
}

func decodeSettings(node yaml.Node, out interface{}) error {
	if node.IsZero() {
		return nil
	}
	if err := node.Decode(out); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// rejectUnknownKeys surfaces caller typos in guardrail settings instead
// of silently ignoring them
func rejectUnknownKeys(node yaml.Node, allowed []string) error {
	if node.IsZero() || node.Kind != yaml.MappingNode {
		return nil
	}
	known := make(map[string]bool, len(allowed))
	for _, key := range allowed {
		known[key] = true
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		if !known[key] {
			return fmt.Errorf("unknown setting %q", key)
		}
	}
	return nil
}
