package infra

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/umalmyha/bankadmin/internal/config"
)

// ShutdownFunc flushes and stops telemetry providers
type ShutdownFunc func(context.Context) error

// Telemetry installs global tracer and meter providers used by instrumented database driver.
// Spans and metrics are written to stdout when enabled, otherwise they are only sampled in process.
func Telemetry(cfg config.TelemetryCfg) (ShutdownFunc, error) {
	res := resource.NewSchemaless(attribute.String("service.name", cfg.ServiceName))

	traceOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	meterOpts := []sdkmetric.Option{sdkmetric.WithResource(res)}

	if cfg.StdoutEnabled {
		traceExp, err := stdouttrace.New()
		if err != nil {
			return nil, fmt.Errorf("failed to build trace exporter - %w", err)
		}
		traceOpts = append(traceOpts, sdktrace.WithBatcher(traceExp))

		metricExp, err := stdoutmetric.New()
		if err != nil {
			return nil, fmt.Errorf("failed to build metric exporter - %w", err)
		}
		meterOpts = append(meterOpts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExp)))
	}

	tp := sdktrace.NewTracerProvider(traceOpts...)
	mp := sdkmetric.NewMeterProvider(meterOpts...)

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)

	return func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}, nil
}
