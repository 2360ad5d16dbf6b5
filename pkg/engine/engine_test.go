package engine_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/run-bigpig/agent-guardrails/pkg/adapter"
	"github.com/run-bigpig/agent-guardrails/pkg/engine"
	"github.com/run-bigpig/agent-guardrails/pkg/interfaces"
	"github.com/run-bigpig/agent-guardrails/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *engine.Engine {
	return engine.New(engine.WithLogger(logging.New(logging.WithWriter(io.Discard))))
}

// stubGuardrail returns a fixed result on both sides of the pipeline
type stubGuardrail struct {
	name         string
	result       interfaces.Result
	err          error
	calls        int
	lastText     string
	lastMetadata interfaces.Metadata
}

func (g *stubGuardrail) Name() string { return g.name }

func (g *stubGuardrail) Validate(ctx context.Context, input string, metadata interfaces.Metadata) (interfaces.Result, error) {
	g.calls++
	g.lastText = input
	g.lastMetadata = metadata
	return g.result, g.err
}

func (g *stubGuardrail) Filter(ctx context.Context, output string, metadata interfaces.Metadata) (interfaces.Result, error) {
	return g.Validate(ctx, output, metadata)
}

// appendGuardrail passes everything through with a suffix appended
type appendGuardrail struct {
	name   string
	suffix string
}

func (g *appendGuardrail) Name() string { return g.name }

func (g *appendGuardrail) Validate(ctx context.Context, input string, metadata interfaces.Metadata) (interfaces.Result, error) {
	return interfaces.PassedWith("appended", input+g.suffix), nil
}

func (g *appendGuardrail) Filter(ctx context.Context, output string, metadata interfaces.Metadata) (interfaces.Result, error) {
	return g.Validate(ctx, output, metadata)
}

// countingAgent records how often the underlying agent was invoked
type countingAgent struct {
	calls    int
	response string
}

func (a *countingAgent) Run(ctx context.Context, input string) (string, error) {
	a.calls++
	if a.response != "" {
		return a.response, nil
	}
	return input, nil
}

func TestInputPipelineThreadsModifications(t *testing.T) {
	e := newTestEngine().
		AddInputGuardrail(&appendGuardrail{name: "first", suffix: "-a"}).
		AddInputGuardrail(&appendGuardrail{name: "second", suffix: "-b"})

	text, results, err := e.RunInputPipeline(context.Background(), "x", nil)
	require.NoError(t, err)
	assert.Equal(t, "x-a-b", text)
	require.Len(t, results, 2)
	assert.Equal(t, "first", results[0].Guardrail)
	assert.Equal(t, "second", results[1].Guardrail)
}

func TestInputPipelineKeepsTextWhenUnmodified(t *testing.T) {
	passing := &stubGuardrail{name: "noop", result: interfaces.Passed("ok")}
	e := newTestEngine().AddInputGuardrail(passing)

	text, _, err := e.RunInputPipeline(context.Background(), "untouched", nil)
	require.NoError(t, err)
	assert.Equal(t, "untouched", text)
}

func TestInputPipelineSeesPreviousModification(t *testing.T) {
	observer := &stubGuardrail{name: "observer", result: interfaces.Passed("ok")}
	e := newTestEngine().
		AddInputGuardrail(&appendGuardrail{name: "rewriter", suffix: "!"}).
		AddInputGuardrail(observer)

	_, _, err := e.RunInputPipeline(context.Background(), "hey", nil)
	require.NoError(t, err)
	assert.Equal(t, "hey!", observer.lastText)
}

func TestInputPipelineFailureHaltsImmediately(t *testing.T) {
	never := &stubGuardrail{name: "never", result: interfaces.Passed("ok")}
	e := newTestEngine().
		AddInputGuardrail(&stubGuardrail{name: "blocker", result: interfaces.Failed("nope")}).
		AddInputGuardrail(never)

	_, results, err := e.RunInputPipeline(context.Background(), "x", nil)
	require.Error(t, err)

	var violation *engine.ViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "blocker", violation.Guardrail)
	assert.Equal(t, engine.DirectionInput, violation.Direction)
	assert.Equal(t, "nope", violation.Message)

	assert.Equal(t, 0, never.calls)
	require.Len(t, results, 1)
	assert.Equal(t, interfaces.StatusFailed, results[0].Status)
}

func TestWarningContinuesAndSubstitutesContent(t *testing.T) {
	warned := interfaces.Warn("rewritten", "safe text")
	observer := &stubGuardrail{name: "observer", result: interfaces.Passed("ok")}
	e := newTestEngine().
		AddInputGuardrail(&stubGuardrail{name: "rewriter", result: warned}).
		AddInputGuardrail(observer)

	text, _, err := e.RunInputPipeline(context.Background(), "raw text", nil)
	require.NoError(t, err)
	assert.Equal(t, "safe text", text)
	assert.Equal(t, "safe text", observer.lastText)
}

func TestOutputPipelineFailureDirection(t *testing.T) {
	e := newTestEngine().
		AddOutputGuardrail(&stubGuardrail{name: "blocker", result: interfaces.Failed("unsafe")})

	_, _, err := e.RunOutputPipeline(context.Background(), "x", nil)
	var violation *engine.ViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, engine.DirectionOutput, violation.Direction)
}

func TestGuardrailMalfunctionIsNotAViolation(t *testing.T) {
	cause := errors.New("regex service down")
	e := newTestEngine().
		AddInputGuardrail(&stubGuardrail{name: "broken", err: cause})

	_, _, err := e.RunInputPipeline(context.Background(), "x", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)

	var violation *engine.ViolationError
	assert.False(t, errors.As(err, &violation))
}

func TestWrapAgentResolvesAdapter(t *testing.T) {
	wrapped, err := newTestEngine().WrapAgent(&countingAgent{})
	require.NoError(t, err)
	assert.Equal(t, adapter.TypeRun, wrapped.AdapterType())
}

func TestWrapAgentPropagatesResolverError(t *testing.T) {
	_, err := newTestEngine().WrapAgent(struct{}{})
	var unsupported *adapter.UnsupportedInterfaceError
	require.ErrorAs(t, err, &unsupported)
}

func TestWrapAgentSnapshotsGuardrails(t *testing.T) {
	e := newTestEngine()
	wrapped, err := e.WrapAgent(&countingAgent{})
	require.NoError(t, err)

	// Guardrails registered after wrapping must not affect this agent
	e.AddInputGuardrail(&stubGuardrail{name: "late", result: interfaces.Failed("late block")})

	response, err := wrapped.Chat(context.Background(), "hi", nil)
	require.NoError(t, err)
	assert.Equal(t, "hi", response)
}

func TestStats(t *testing.T) {
	e := newTestEngine().
		AddInputGuardrail(&stubGuardrail{name: "in_a", result: interfaces.Passed("ok")}).
		AddInputGuardrail(&stubGuardrail{name: "in_b", result: interfaces.Passed("ok")}).
		AddOutputGuardrail(&stubGuardrail{name: "out_a", result: interfaces.Passed("ok")})

	stats := e.Stats()
	assert.Equal(t, 2, stats.InputGuardrails)
	assert.Equal(t, 1, stats.OutputGuardrails)
	assert.Equal(t, 3, stats.TotalGuardrails)
	assert.Equal(t, []string{"in_a", "in_b"}, stats.InputNames)
	assert.Equal(t, []string{"out_a"}, stats.OutputNames)
}
