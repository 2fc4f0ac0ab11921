package cmd

import (
	"context"
	"fmt"

	"github.com/dukex/operion-analyzer/pkg/otelhelper"
	"go.opentelemetry.io/otel/trace"
)

// NewTracer returns an OTLP tracer when enabled and a noop tracer otherwise,
// together with a shutdown func that is always safe to call.
// nolint:ireturn // Returning interface is intentional for OpenTelemetry tracing
func NewTracer(ctx context.Context, enabled bool, serviceName string) (trace.Tracer, func(context.Context) error, error) {
	if !enabled {
		return otelhelper.NoopTracer(), func(context.Context) error { return nil }, nil
	}

	tracer, shutdown, err := otelhelper.NewTracer(ctx, serviceName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	return tracer, shutdown, nil
}
