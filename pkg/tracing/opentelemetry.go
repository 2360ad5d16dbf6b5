// Package tracing provides OpenTelemetry spans around guardrail
// pipeline stages and agent invocations.
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"
)

// Tracer traces pipeline stages. A disabled tracer is a no-op, so
// callers never need to branch on whether tracing is configured.
type Tracer interface {
	// StartSpan starts a new span with the given attributes
	StartSpan(ctx context.Context, name string, attributes map[string]string) (context.Context, trace.Span)

	// EndSpan ends a span, recording the error if there is one
	EndSpan(span trace.Span, err error)
}

// OTelTracer implements Tracer using OpenTelemetry with an OTLP/gRPC
// exporter
type OTelTracer struct {
	tracer      trace.Tracer
	enabled     bool
	serviceName string
}

// Config contains configuration for the OpenTelemetry tracer
type Config struct {
	// Enabled determines whether tracing is enabled
	Enabled bool

	// ServiceName is the name of the service
	ServiceName string

	// CollectorEndpoint is the endpoint of the OpenTelemetry collector
	CollectorEndpoint string
}

// Noop returns a tracer that records nothing
func Noop() Tracer {
	return &OTelTracer{enabled: false}
}

// NewOTelTracer creates a new OpenTelemetry tracer
func NewOTelTracer(config Config) (*OTelTracer, error) {
	if !config.Enabled {
		return &OTelTracer{enabled: false}, nil
	}

	ctx := context.Background()
	exporter, err := otlptrace.New(
		ctx,
		otlptracegrpc.NewClient(
			otlptracegrpc.WithEndpoint(config.CollectorEndpoint),
			otlptracegrpc.WithInsecure(),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(config.ServiceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	return &OTelTracer{
		tracer:      tp.Tracer(config.ServiceName),
		enabled:     true,
		serviceName: config.ServiceName,
	}, nil
}

// StartSpan starts a new span
func (t *OTelTracer) StartSpan(ctx context.Context, name string, attributes map[string]string) (context.Context, trace.Span) {
	if !t.enabled {
		return ctx, trace.SpanFromContext(ctx)
	}

	attrs := make([]attribute.KeyValue, 0, len(attributes))
	for k, v := range attributes {
		attrs = append(attrs, attribute.String(k, v))
	}

	return t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// EndSpan ends a span
func (t *OTelTracer) EndSpan(span trace.Span, err error) {
	if !t.enabled {
		return
	}

	if err != nil {
		span.RecordError(err)
	}
	span.End()
}
