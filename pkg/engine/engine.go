// Package engine orchestrates guardrail pipelines around adapted
// agents. An Engine holds ordered input and output guardrail lists and
// wraps agents into guarded chat endpoints.
package engine

import (
	"context"
	"fmt"

	"github.com/run-bigpig/agent-guardrails/pkg/adapter"
	"github.com/run-bigpig/agent-guardrails/pkg/interfaces"
	"github.com/run-bigpig/agent-guardrails/pkg/logging"
	"github.com/run-bigpig/agent-guardrails/pkg/tracing"
)

// Engine manages ordered guardrail lists and wraps agents with them.
// Guardrails run in registration order; there is no priority system.
// Registration is not synchronized against in-flight Chat calls:
// register every guardrail before wrapping or invoking agents, or
// serialize configuration changes externally.
type Engine struct {
	inputGuardrails  []interfaces.InputGuardrail
	outputGuardrails []interfaces.OutputGuardrail
	logger           logging.Logger
	tracer           tracing.Tracer
}

// Option represents an option for configuring an engine
type Option func(*Engine)

// WithLogger sets the logger for the engine
func WithLogger(logger logging.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithTracer sets the tracer for the engine
func WithTracer(tracer tracing.Tracer) Option {
	return func(e *Engine) {
		e.tracer = tracer
	}
}

// New creates an engine with empty guardrail lists
func New(options ...Option) *Engine {
	e := &Engine{
		logger: logging.New(),
		tracer: tracing.Noop(),
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// AddInputGuardrail appends a guardrail to the input pipeline. Returns
// the engine for chaining.
func (e *Engine) AddInputGuardrail(guardrail interfaces.InputGuardrail) *Engine {
	e.inputGuardrails = append(e.inputGuardrails, guardrail)
	e.logger.Info(context.Background(), "registered input guardrail", map[string]interface{}{
		"guardrail": guardrail.Name(),
		"position":  len(e.inputGuardrails) - 1,
	})
	return e
}

// AddOutputGuardrail appends a guardrail to the output pipeline.
// Returns the engine for chaining.
func (e *Engine) AddOutputGuardrail(guardrail interfaces.OutputGuardrail) *Engine {
	e.outputGuardrails = append(e.outputGuardrails, guardrail)
	e.logger.Info(context.Background(), "registered output guardrail", map[string]interface{}{
		"guardrail": guardrail.Name(),
		"position":  len(e.outputGuardrails) - 1,
	})
	return e
}

// WrapAgent resolves an adapter for the agent and binds it to the
// engine's guardrails. The guardrail lists are snapshotted at wrap
// time, so guardrails added afterwards do not affect agents that are
// already wrapped.
func (e *Engine) WrapAgent(agent interface{}, opts ...adapter.Option) (*WrappedAgent, error) {
	a, err := adapter.Resolve(agent, opts...)
	if err != nil {
		e.logger.Error(context.Background(), "failed to wrap agent", map[string]interface{}{
			"agent_type": fmt.Sprintf("%T", agent),
			"error":      err.Error(),
		})
		return nil, err
	}
	e.logger.Info(context.Background(), "wrapped agent", map[string]interface{}{
		"agent_type":        fmt.Sprintf("%T", agent),
		"adapter_type":      string(a.Type()),
		"input_guardrails":  len(e.inputGuardrails),
		"output_guardrails": len(e.outputGuardrails),
	})
	return &WrappedAgent{
		adapter: a,
		input:   append([]interfaces.InputGuardrail(nil), e.inputGuardrails...),
		output:  append([]interfaces.OutputGuardrail(nil), e.outputGuardrails...),
		engine:  e,
	}, nil
}

// RunInputPipeline runs the engine's current input guardrails over the
// text in registration order. Each guardrail receives the output of the
// previous one. It returns the final text and the ordered results; on a
// failed guardrail it stops immediately and returns a *ViolationError.
func (e *Engine) RunInputPipeline(ctx context.Context, text string, metadata interfaces.Metadata) (string, []interfaces.Result, error) {
	return e.runInput(ctx, e.inputGuardrails, text, metadata)
}

// RunOutputPipeline is the output-side counterpart of RunInputPipeline
func (e *Engine) RunOutputPipeline(ctx context.Context, text string, metadata interfaces.Metadata) (string, []interfaces.Result, error) {
	return e.runOutput(ctx, e.outputGuardrails, text, metadata)
}

func (e *Engine) runInput(ctx context.Context, guardrails []interfaces.InputGuardrail, text string, metadata interfaces.Metadata) (string, []interfaces.Result, error) {
	ctx, span := e.tracer.StartSpan(ctx, "guardrails.input_pipeline", map[string]string{
		"guardrails": fmt.Sprintf("%d", len(guardrails)),
	})

	current := text
	results := make([]interfaces.Result, 0, len(guardrails))
	for _, guardrail := range guardrails {
		result, err := guardrail.Validate(ctx, current, metadata)
		if err != nil {
			err = fmt.Errorf("input guardrail %q: %w", guardrail.Name(), err)
			e.tracer.EndSpan(span, err)
			return "", results, err
		}
		result.Guardrail = guardrail.Name()
		results = append(results, result)

		if result.IsFailure() {
			violation := &ViolationError{
				Guardrail: guardrail.Name(),
				Direction: DirectionInput,
				Message:   result.Message,
			}
			e.logger.Warn(ctx, "input guardrail blocked the call", map[string]interface{}{
				"guardrail": guardrail.Name(),
				"message":   result.Message,
			})
			e.tracer.EndSpan(span, violation)
			return "", results, violation
		}
		if result.ModifiedContent != nil {
			current = *result.ModifiedContent
			e.logger.Debug(ctx, "input modified by guardrail", map[string]interface{}{
				"guardrail": guardrail.Name(),
				"status":    string(result.Status),
			})
		}
	}
	e.tracer.EndSpan(span, nil)
	return current, results, nil
}

func (e *Engine) runOutput(ctx context.Context, guardrails []interfaces.OutputGuardrail, text string, metadata interfaces.Metadata) (string, []interfaces.Result, error) {
	ctx, span := e.tracer.StartSpan(ctx, "guardrails.output_pipeline", map[string]string{
		"guardrails": fmt.Sprintf("%d", len(guardrails)),
	})

	current := text
	results := make([]interfaces.Result, 0, len(guardrails))
	for _, guardrail := range guardrails {
		result, err := guardrail.Filter(ctx, current, metadata)
		if err != nil {
			err = fmt.Errorf("output guardrail %q: %w", guardrail.Name(), err)
			e.tracer.EndSpan(span, err)
			return "", results, err
		}
		result.Guardrail = guardrail.Name()
		results = append(results, result)

		if result.IsFailure() {
			violation := &ViolationError{
				Guardrail: guardrail.Name(),
				Direction: DirectionOutput,
				Message:   result.Message,
			}
			e.logger.Warn(ctx, "output guardrail withheld the response", map[string]interface{}{
				"guardrail": guardrail.Name(),
				"message":   result.Message,
			})
			e.tracer.EndSpan(span, violation)
			return "", results, violation
		}
		if result.ModifiedContent != nil {
			current = *result.ModifiedContent
			e.logger.Debug(ctx, "output modified by guardrail", map[string]interface{}{
				"guardrail": guardrail.Name(),
				"status":    string(result.Status),
			})
		}
	}
	e.tracer.EndSpan(span, nil)
	return current, results, nil
}

// Stats describes the engine's current guardrail configuration
type Stats struct {
	InputGuardrails  int
	OutputGuardrails int
	TotalGuardrails  int
	InputNames       []string
	OutputNames      []string
}

// Stats returns a snapshot of the engine's configuration for
// diagnostics
func (e *Engine) Stats() Stats {
	s := Stats{
		InputGuardrails:  len(e.inputGuardrails),
		OutputGuardrails: len(e.outputGuardrails),
		TotalGuardrails:  len(e.inputGuardrails) + len(e.outputGuardrails),
	}
	for _, g := range e.inputGuardrails {
		s.InputNames = append(s.InputNames, g.Name())
	}
	for _, g := range e.outputGuardrails {
		s.OutputNames = append(s.OutputNames, g.Name())
	}
	return s
}
