// Package observability holds the stylist's tracing setup and its domain
// Prometheus collectors.
package observability

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"google.golang.org/grpc/credentials"

	"github.com/tbourn/go-stylist-backend/internal/config"
)

// ServiceNamespace groups the stylist's services in trace backends.
const ServiceNamespace = "stylist"

// Shutdown flushes and stops the tracer provider.
type Shutdown func(context.Context) error

func noopShutdown(context.Context) error { return nil }

// Replaced in tests.
var (
	newTraceClient = otlptracegrpc.NewClient

	newTraceExporter = func(ctx context.Context, client otlptrace.Client) (*otlptrace.Exporter, error) {
		return otlptrace.New(ctx, client)
	}

	newTraceResource = func(ctx context.Context, serviceName, version string) (*resource.Resource, error) {
		return resource.New(ctx,
			resource.WithAttributes(
				semconv.ServiceName(serviceName),
				semconv.ServiceVersion(version),
				attribute.String("service.namespace", ServiceNamespace),
			),
		)
	}
)

// SetupTracing installs a global OTLP/gRPC tracer provider and W3C
// propagation. With tracing disabled it changes nothing and returns a no-op
// Shutdown. On error the globals are left untouched.
func SetupTracing(ctx context.Context, cfg config.OTELConfig, version string) (Shutdown, error) {
	if !cfg.Enabled {
		return noopShutdown, nil
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	} else {
		opts = append(opts, otlptracegrpc.WithTLSCredentials(credentials.NewClientTLSFromCert(nil, "")))
	}

	exp, err := newTraceExporter(ctx, newTraceClient(opts...))
	if err != nil {
		return nil, fmt.Errorf("otlp exporter: %w", err)
	}
	res, err := newTraceResource(ctx, cfg.ServiceName, version)
	if err != nil {
		return nil, fmt.Errorf("otel resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithSampler(Sampler(cfg.SampleRatio)),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))

	log.Info().
		Str("endpoint", cfg.Endpoint).
		Bool("insecure", cfg.Insecure).
		Float64("sample_ratio", cfg.SampleRatio).
		Msg("tracing enabled")
	return tp.Shutdown, nil
}

// Sampler honours the parent's decision and samples new roots at ratio.
// Ratios at or above 1 always sample; at or below 0 never.
func Sampler(ratio float64) sdktrace.Sampler {
	var root sdktrace.Sampler
	switch {
	case ratio >= 1:
		root = sdktrace.AlwaysSample()
	case ratio <= 0:
		root = sdktrace.NeverSample()
	default:
		root = sdktrace.TraceIDRatioBased(ratio)
	}
	return sdktrace.ParentBased(root)
}
