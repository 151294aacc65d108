package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the library-wide tracer. Without SetupTracing it resolves to
// the global no-op provider, so instrumented paths cost nothing unless a
// host application opts in.
var Tracer trace.Tracer = otel.Tracer("trespass")

// SetupTracing installs an OTLP/gRPC trace exporter and returns a shutdown
// function. Endpoint is host:port of a collector; insecure skips TLS.
func SetupTracing(ctx context.Context, endpoint string, insecure bool) (func(context.Context) error, error) {
	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(endpoint)}
	if insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, err
	}

	provider := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(provider)
	Tracer = provider.Tracer("trespass")

	slog.Info("trace exporter configured", "endpoint", endpoint)

	return provider.Shutdown, nil
}
