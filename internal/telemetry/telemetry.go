// Package telemetry sets up the OpenTelemetry meter provider and exposes it
// to Prometheus.
package telemetry

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.30.0"
)

// Config describes the process being instrumented.
type Config struct {
	ServiceName string
	Version     string
	// Enabled false installs a no-op meter and no handler.
	Enabled bool
}

// Telemetry holds the meter provider and its scrape handler.
type Telemetry struct {
	provider metric.MeterProvider
	shutdown func(context.Context) error
	handler  http.Handler
}

// Setup creates the meter provider. Each call uses its own Prometheus
// registry so tests and multiple instances do not collide; the provider is
// also installed as the global one.
func Setup(ctx context.Context, cfg Config, logger *slog.Logger) (*Telemetry, error) {
	if !cfg.Enabled {
		logger.Info("metrics disabled")
		return &Telemetry{
			provider: noop.NewMeterProvider(),
			shutdown: func(context.Context) error { return nil },
		}, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.Version),
			attribute.String("app.component", "studio"),
		),
	)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		logger.Warn("failed to initialize prometheus exporter", "error", err)
		provider := sdkmetric.NewMeterProvider(sdkmetric.WithResource(res))
		otel.SetMeterProvider(provider)
		return &Telemetry{provider: provider, shutdown: provider.Shutdown}, nil
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	logger.Info("telemetry initialized", "exporter", "prometheus")
	return &Telemetry{
		provider: provider,
		shutdown: provider.Shutdown,
		handler:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}, nil
}

// Meter returns a named meter from the provider.
func (t *Telemetry) Meter(name string) metric.Meter {
	return t.provider.Meter(name)
}

// Handler returns the Prometheus scrape handler, or nil when metrics are
// disabled or the exporter failed.
func (t *Telemetry) Handler() http.Handler {
	return t.handler
}

// Shutdown flushes and stops the provider.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	return t.shutdown(ctx)
}
