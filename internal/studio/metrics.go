package studio

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/dgnsrekt/vozviva-go/internal/media"
)

// MeterName scopes the studio's instruments.
const MeterName = "github.com/dgnsrekt/vozviva-go/studio"

// Outcome attribute values.
const (
	outcomeOK    = "ok"
	outcomeError = "error"
	outcomeBusy  = "busy"
)

// metrics records synthesis and cloning activity.
type metrics struct {
	generations metric.Int64Counter
	duration    metric.Float64Histogram
	clones      metric.Int64Counter
}

func newMetrics(meter metric.Meter, store *Store, resources *media.Store) (*metrics, error) {
	if meter == nil {
		meter = noop.NewMeterProvider().Meter(MeterName)
	}

	generations, err := meter.Int64Counter("vozviva.generations",
		metric.WithDescription("Synthesis requests by kind and outcome"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("vozviva.generation.duration",
		metric.WithDescription("Synthesis latency"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}
	clones, err := meter.Int64Counter("vozviva.clones.saved",
		metric.WithDescription("Custom voices created from a microphone sample"))
	if err != nil {
		return nil, err
	}

	historyGauge, err := meter.Int64ObservableGauge("vozviva.history.items",
		metric.WithDescription("Items in the session history"))
	if err != nil {
		return nil, err
	}
	mediaGauge, err := meter.Int64ObservableGauge("vozviva.media.resources",
		metric.WithDescription("Live playable audio resources"))
	if err != nil {
		return nil, err
	}
	_, err = meter.RegisterCallback(func(ctx context.Context, obs metric.Observer) error {
		obs.ObserveInt64(historyGauge, int64(len(store.State().History)))
		obs.ObserveInt64(mediaGauge, int64(resources.Len()))
		return nil
	}, historyGauge, mediaGauge)
	if err != nil {
		return nil, err
	}

	return &metrics{
		generations: generations,
		duration:    duration,
		clones:      clones,
	}, nil
}

func (m *metrics) recordGeneration(ctx context.Context, kind, outcome string, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("outcome", outcome),
	)
	m.generations.Add(ctx, 1, attrs)
	if outcome != outcomeBusy {
		m.duration.Record(ctx, elapsed.Seconds(), attrs)
	}
}

func (m *metrics) recordClone(ctx context.Context, base string) {
	m.clones.Add(ctx, 1, metric.WithAttributes(attribute.String("base_voice", base)))
}
