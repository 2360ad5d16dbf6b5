package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerStampsRunID(t *testing.T) {
	var buf bytes.Buffer
	logger := New(WithWriter(&buf))

	ctx := WithRunID(context.Background(), "run-42")
	logger.Info(ctx, "pipeline started", map[string]interface{}{"guardrail": "length"})

	output := buf.String()
	assert.Contains(t, output, "run-42")
	assert.Contains(t, output, "pipeline started")
	assert.Contains(t, output, "length")
}

func TestRunIDRoundTrip(t *testing.T) {
	ctx := WithRunID(context.Background(), "run-1")
	runID, ok := RunID(ctx)
	assert.True(t, ok)
	assert.Equal(t, "run-1", runID)

	_, ok = RunID(context.Background())
	assert.False(t, ok)
}

func TestLoggerLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := New(WithWriter(&buf), WithLevel("info"))

	logger.Debug(context.Background(), "hidden", nil)
	assert.Empty(t, buf.String())

	logger.Info(context.Background(), "visible", nil)
	assert.Contains(t, buf.String(), "visible")
}
