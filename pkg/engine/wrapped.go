package engine

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/run-bigpig/agent-guardrails/pkg/adapter"
	"github.com/run-bigpig/agent-guardrails/pkg/interfaces"
	"github.com/run-bigpig/agent-guardrails/pkg/logging"
)

// WrappedAgent is an agent bound to guardrail pipelines through an
// adapter. Each Chat call runs the full input pipeline, the adapter
// invocation and the output pipeline synchronously on the calling
// goroutine; no state is retained between calls except inside the
// underlying agent itself.
type WrappedAgent struct {
	adapter adapter.Adapter
	input   []interfaces.InputGuardrail
	output  []interfaces.OutputGuardrail
	engine  *Engine

	mu          sync.Mutex
	lastResults []interfaces.Result
}

// AdapterType returns the variant of the adapter driving the agent
func (w *WrappedAgent) AdapterType() adapter.Type {
	return w.adapter.Type()
}

// Chat sends input through the guardrail pipelines and the underlying
// agent. metadata may be nil; the pipeline run always carries a run ID,
// the adapter type and the call timestamp on top of whatever the caller
// provides. A failed input guardrail means the agent is never invoked;
// a failed output guardrail means its response is never released.
func (w *WrappedAgent) Chat(ctx context.Context, input string, metadata interfaces.Metadata) (string, error) {
	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)

	md := make(interfaces.Metadata, len(metadata)+3)
	for k, v := range metadata {
		md[k] = v
	}
	md["run_id"] = runID
	md["adapter_type"] = string(w.adapter.Type())
	md["started_at"] = time.Now().UTC()

	ctx, span := w.engine.tracer.StartSpan(ctx, "guarded_agent.chat", map[string]string{
		"run_id":       runID,
		"adapter_type": string(w.adapter.Type()),
	})

	processed, inputResults, err := w.engine.runInput(ctx, w.input, input, md)
	if err != nil {
		w.setLastResults(inputResults)
		w.engine.tracer.EndSpan(span, err)
		return "", err
	}

	response, err := w.invokeAgent(ctx, processed)
	if err != nil {
		w.setLastResults(inputResults)
		w.engine.tracer.EndSpan(span, err)
		return "", err
	}

	final, outputResults, err := w.engine.runOutput(ctx, w.output, response, md)
	w.setLastResults(append(inputResults, outputResults...))
	if err != nil {
		w.engine.tracer.EndSpan(span, err)
		return "", err
	}

	w.engine.tracer.EndSpan(span, nil)
	return final, nil
}

func (w *WrappedAgent) invokeAgent(ctx context.Context, input string) (string, error) {
	ctx, span := w.engine.tracer.StartSpan(ctx, "guarded_agent.invoke", map[string]string{
		"adapter_type": string(w.adapter.Type()),
	})
	response, err := w.adapter.Invoke(ctx, input)
	if err != nil {
		w.engine.logger.Error(ctx, "agent invocation failed", map[string]interface{}{
			"adapter_type": string(w.adapter.Type()),
			"error":        err.Error(),
		})
		w.engine.tracer.EndSpan(span, err)
		return "", err
	}
	w.engine.tracer.EndSpan(span, nil)
	return response, nil
}

// LastResults returns the ordered guardrail results of the most recent
// Chat call, for diagnostics
func (w *WrappedAgent) LastResults() []interfaces.Result {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]interfaces.Result(nil), w.lastResults...)
}

func (w *WrappedAgent) setLastResults(results []interfaces.Result) {
	w.mu.Lock()
	w.lastResults = results
	w.mu.Unlock()
}
