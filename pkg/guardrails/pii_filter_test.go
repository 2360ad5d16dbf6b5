package guardrails

import (
	"context"
	"testing"

	"github.com/run-bigpig/agent-guardrails/pkg/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPIIFilterMasksEmail(t *testing.T) {
	filter, err := NewPIIFilter("pii", DefaultPIIFilterConfig())
	require.NoError(t, err)

	result, err := filter.Filter(context.Background(), "reach me at jane.doe@example.com today", nil)
	require.NoError(t, err)
	assert.Equal(t, interfaces.StatusWarning, result.Status)
	require.NotNil(t, result.ModifiedContent)
	assert.Equal(t, "reach me at [REDACTED] today", *result.ModifiedContent)
	assert.Contains(t, result.Message, "email")
}

func TestPIIFilterMasksPhoneFormats(t *testing.T) {
	filter, err := NewPIIFilter("pii", DefaultPIIFilterConfig())
	require.NoError(t, err)

	for _, text := range []string{
		"call 555-123-4567 now",
		"call (555) 123-4567 now",
		"call 555.123.4567 now",
	} {
		result, err := filter.Filter(context.Background(), text, nil)
		require.NoError(t, err)
		assert.Equal(t, interfaces.StatusWarning, result.Status, text)
		require.NotNil(t, result.ModifiedContent, text)
		assert.Equal(t, "call [REDACTED] now", *result.ModifiedContent, text)
	}
}

func TestPIIFilterMasksSSNAndCreditCard(t *testing.T) {
	filter, err := NewPIIFilter("pii", DefaultPIIFilterConfig())
	require.NoError(t, err)

	result, err := filter.Filter(context.Background(), "ssn 123-45-6789 card 4111-1111-1111-1111", nil)
	require.NoError(t, err)
	assert.Equal(t, interfaces.StatusWarning, result.Status)
	require.NotNil(t, result.ModifiedContent)
	assert.Equal(t, "ssn [REDACTED] card [REDACTED]", *result.ModifiedContent)
}

func TestPIIFilterNoPII(t *testing.T) {
	filter, err := NewPIIFilter("pii", DefaultPIIFilterConfig())
	require.NoError(t, err)

	result, err := filter.Filter(context.Background(), "nothing sensitive here", nil)
	require.NoError(t, err)
	assert.Equal(t, interfaces.StatusPassed, result.Status)
	assert.Nil(t, result.ModifiedContent)
}

func TestPIIFilterMaskingIsIdempotent(t *testing.T) {
	filter, err := NewPIIFilter("pii", DefaultPIIFilterConfig())
	require.NoError(t, err)

	first, err := filter.Filter(context.Background(), "email jane@example.com and phone 555-123-4567", nil)
	require.NoError(t, err)
	require.NotNil(t, first.ModifiedContent)

	second, err := filter.Filter(context.Background(), *first.ModifiedContent, nil)
	require.NoError(t, err)
	assert.Equal(t, interfaces.StatusPassed, second.Status)
	assert.Nil(t, second.ModifiedContent)
}

func TestPIIFilterStrictMode(t *testing.T) {
	config := DefaultPIIFilterConfig()
	config.StrictMode = true
	filter, err := NewPIIFilter("pii", config)
	require.NoError(t, err)

	result, err := filter.Filter(context.Background(), "contact jane@example.com", nil)
	require.NoError(t, err)
	assert.Equal(t, interfaces.StatusFailed, result.Status)
	assert.Nil(t, result.ModifiedContent)
	assert.Contains(t, result.Message, "email")
}

func TestPIIFilterCustomReplacement(t *testing.T) {
	config := DefaultPIIFilterConfig()
	config.Replacement = "<hidden>"
	filter, err := NewPIIFilter("pii", config)
	require.NoError(t, err)

	result, err := filter.Filter(context.Background(), "jane@example.com", nil)
	require.NoError(t, err)
	require.NotNil(t, result.ModifiedContent)
	assert.Equal(t, "<hidden>", *result.ModifiedContent)
}

func TestPIIFilterDisabledKinds(t *testing.T) {
	config := DefaultPIIFilterConfig()
	config.MaskEmails = false
	filter, err := NewPIIFilter("pii", config)
	require.NoError(t, err)

	result, err := filter.Filter(context.Background(), "email jane@example.com only", nil)
	require.NoError(t, err)
	assert.Equal(t, interfaces.StatusPassed, result.Status)
}

func TestPIIFilterNoKindsEnabled(t *testing.T) {
	_, err := NewPIIFilter("pii", PIIFilterConfig{Replacement: "[X]"})
	assert.Error(t, err)
}

func TestPIIFilterMergesOverlappingMatches(t *testing.T) {
	filter, err := NewPIIFilter("pii", DefaultPIIFilterConfig())
	require.NoError(t, err)

	// A bare 16-digit card number also contains ten- and nine-digit
	// runs; the masked text must contain exactly one replacement
	result, err := filter.Filter(context.Background(), "card 4111111111111111 end", nil)
	require.NoError(t, err)
	require.NotNil(t, result.ModifiedContent)
	assert.Equal(t, "card [REDACTED] end", *result.ModifiedContent)
}

func TestPIIFilterValidateChecksInput(t *testing.T) {
	filter, err := NewPIIFilter("pii", DefaultPIIFilterConfig())
	require.NoError(t, err)

	result, err := filter.Validate(context.Background(), "my ssn is 123-45-6789", nil)
	require.NoError(t, err)
	assert.Equal(t, interfaces.StatusWarning, result.Status)
}
