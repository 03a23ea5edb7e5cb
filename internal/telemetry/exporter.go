// ABOUTME: Optional OTLP/gRPC metrics export configured from environment variables
// ABOUTME: Disabled unless PI_HOOKS_OTEL_ENDPOINT is set; installs the global meter provider

package telemetry

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const serviceName = "pi-hooks"

// ExporterConfig holds OTLP exporter settings.
type ExporterConfig struct {
	Endpoint string
	Insecure bool
}

// Enabled reports whether an endpoint was configured.
func (c ExporterConfig) Enabled() bool {
	return c.Endpoint != ""
}

// LoadExporterConfig reads PI_HOOKS_OTEL_ENDPOINT and PI_HOOKS_OTEL_INSECURE.
func LoadExporterConfig() ExporterConfig {
	insecureFlag, _ := strconv.ParseBool(os.Getenv("PI_HOOKS_OTEL_INSECURE"))
	return ExporterConfig{
		Endpoint: os.Getenv("PI_HOOKS_OTEL_ENDPOINT"),
		Insecure: insecureFlag,
	}
}

// Setup installs a periodic OTLP exporter as the global meter provider and
// returns its shutdown function. With export disabled it installs nothing
// and returns a no-op shutdown.
func Setup(ctx context.Context, cfg ExporterConfig, version string) (func(context.Context) error, error) {
	if !cfg.Enabled() {
		return func(context.Context) error { return nil }, nil
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts,
			otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
			otlpmetricgrpc.WithInsecure(),
		)
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	return provider.Shutdown, nil
}
