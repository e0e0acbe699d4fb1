package telemetry

import (
	"context"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/vinayprograms/vogsphere/errors"
)

// ServiceName is reported when OTEL_SERVICE_NAME is unset.
const ServiceName = "vogsphere"

// Config is the OTLP export setup of one CLI run.
type Config struct {
	// Endpoint is host:port with any scheme removed. Empty disables tracing.
	Endpoint string

	// Protocol is "grpc" or "http".
	Protocol string

	Insecure bool
	Service  string
	Version  string

	// Debug records prompt and response text on LLM spans.
	Debug bool
}

// ConfigFromEnv reads the standard OTEL_EXPORTER_OTLP_* variables. An
// http:// endpoint implies Insecure, and "http/protobuf" is accepted as
// "http".
func ConfigFromEnv(version string, debug bool) Config {
	cfg := Config{
		Protocol: strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_PROTOCOL")),
		Insecure: os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") == "true",
		Service:  os.Getenv("OTEL_SERVICE_NAME"),
		Version:  version,
		Debug:    debug,
	}

	endpoint := strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"))
	if strings.HasPrefix(endpoint, "http://") {
		cfg.Insecure = true
	}
	endpoint = strings.TrimPrefix(endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")
	cfg.Endpoint = strings.TrimRight(endpoint, "/")

	switch cfg.Protocol {
	case "":
		cfg.Protocol = "grpc"
	case "http/protobuf":
		cfg.Protocol = "http"
	}
	if cfg.Service == "" {
		cfg.Service = ServiceName
	}
	return cfg
}

// Provider owns the SDK tracer provider for the lifetime of a run.
type Provider struct {
	tp *sdktrace.TracerProvider
}

// Init installs a batching OTLP tracer provider and points GetTracer at it.
// The returned Provider must be shut down to flush pending spans.
func Init(ctx context.Context, cfg Config) (*Provider, error) {
	if cfg.Endpoint == "" {
		return nil, errors.Configuration("telemetry endpoint not configured",
			errors.WithMetadata("env", "OTEL_EXPORTER_OTLP_ENDPOINT"),
		)
	}

	exporter, err := newExporter(ctx, cfg)
	if err != nil {
		return nil, err
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(cfg.Service),
			semconv.ServiceVersion(cfg.Version),
		),
	)
	if err != nil {
		return nil, errors.Wrap(err, "creating telemetry resource")
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	SetGlobalTracer(NewTracer(cfg.Service, cfg.Debug))

	return &Provider{tp: tp}, nil
}

func newExporter(ctx context.Context, cfg Config) (sdktrace.SpanExporter, error) {
	var (
		exp sdktrace.SpanExporter
		err error
	)
	switch cfg.Protocol {
	case "grpc":
		opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		exp, err = otlptracegrpc.New(ctx, opts...)
	case "http":
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		exp, err = otlptracehttp.New(ctx, opts...)
	default:
		return nil, errors.Configuration("unknown telemetry protocol (use grpc or http)",
			errors.WithMetadata("protocol", cfg.Protocol),
		)
	}
	if err != nil {
		return nil, errors.Wrap(err, "creating span exporter")
	}
	return exp, nil
}

// Shutdown flushes pending spans and stops the exporter.
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.tp.Shutdown(ctx)
}

// InitFromEnv calls Init with ConfigFromEnv. It returns a nil Provider and
// nil error when no endpoint is set, in which case GetTracer keeps returning
// a no-op tracer.
func InitFromEnv(ctx context.Context, version string, debug bool) (*Provider, error) {
	cfg := ConfigFromEnv(version, debug)
	if cfg.Endpoint == "" {
		return nil, nil
	}
	return Init(ctx, cfg)
}
