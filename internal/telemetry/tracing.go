package telemetry

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	Insecure    bool
	SampleRatio float64
	ServiceName string
	Env         string
}

var lg = zerolog.New(os.Stdout).With().Str("Module", "Telemetry").Timestamp().Logger()

// NewTracerProvider exports spans over OTLP/gRPC in batches.
func NewTracerProvider(ctx context.Context, conf TracingConfig) (*sdktrace.TracerProvider, error) {

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(conf.Endpoint)}
	if conf.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exp, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("otlp exporter 생성 오류. %w", err)
	}

	ratio := conf.SampleRatio
	if ratio <= 0 || ratio > 1 {
		ratio = 1
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", conf.ServiceName),
		attribute.String("deployment.environment", conf.Env),
	)

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
	), nil
}

// Setup installs the global tracer provider when tracing is enabled. The returned func
// flushes pending spans and is safe to call when tracing is off.
func Setup(ctx context.Context, conf TracingConfig) (func(context.Context) error, error) {
	if !conf.Enabled {
		lg.Info().Msg("tracing disabled")
		return func(context.Context) error { return nil }, nil
	}
	if conf.Endpoint == "" {
		return nil, fmt.Errorf("tracing enabled without an otlp endpoint")
	}

	tp, err := NewTracerProvider(ctx, conf)
	if err != nil {
		return nil, err
	}
	otel.SetTracerProvider(tp)

	lg.Info().Str("endpoint", conf.Endpoint).Float64("sample_ratio", conf.SampleRatio).Msg("tracing enabled")
	return tp.Shutdown, nil
}
