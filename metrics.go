package weft

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsObserver publishes container activity as OpenTelemetry
// metrics. Its methods match the observer hook signatures:
//
//	m, err := weft.NewMetricsObserver(meter)
//	if err != nil {
//		return err
//	}
//	c := weft.New(
//		weft.WithCreateObserver(m.ObserveCreate),
//		weft.WithLookupObserver(m.ObserveLookup),
//		weft.WithStartObserver(m.ObserveStart),
//		weft.WithStopObserver(m.ObserveStop),
//	)
type MetricsObserver struct {
	creations      metric.Int64Counter
	createDuration metric.Float64Histogram
	lookups        metric.Int64Counter
	lookupDuration metric.Float64Histogram
	starts         metric.Int64Counter
	stops          metric.Int64Counter
}

// NewMetricsObserver creates the container instruments on the given
// meter.
func NewMetricsObserver(meter metric.Meter) (*MetricsObserver, error) {
	creations, err := meter.Int64Counter("weft.component.creations",
		metric.WithDescription("Total component constructions"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating weft.component.creations counter: %w", err)
	}

	createDuration, err := meter.Float64Histogram("weft.component.create.duration",
		metric.WithDescription("Duration of component constructions in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating weft.component.create.duration histogram: %w", err)
	}

	lookups, err := meter.Int64Counter("weft.lookups",
		metric.WithDescription("Total component lookups"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating weft.lookups counter: %w", err)
	}

	lookupDuration, err := meter.Float64Histogram("weft.lookup.duration",
		metric.WithDescription("Duration of component lookups in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating weft.lookup.duration histogram: %w", err)
	}

	starts, err := meter.Int64Counter("weft.component.starts",
		metric.WithDescription("Total component startups"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating weft.component.starts counter: %w", err)
	}

	stops, err := meter.Int64Counter("weft.component.stops",
		metric.WithDescription("Total component shutdowns"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating weft.component.stops counter: %w", err)
	}

	return &MetricsObserver{
		creations:      creations,
		createDuration: createDuration,
		lookups:        lookups,
		lookupDuration: lookupDuration,
		starts:         starts,
		stops:          stops,
	}, nil
}

// ObserveCreate records one construction.
func (m *MetricsObserver) ObserveCreate(_ uuid.UUID, component string, duration time.Duration, err error) {
	ctx := context.Background()
	m.creations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("component", component),
		attribute.String("status", statusOf(err)),
	))
	m.createDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("component", component),
	))
}

// ObserveLookup records one lookup.
func (m *MetricsObserver) ObserveLookup(component string, duration time.Duration, err error) {
	ctx := context.Background()
	m.lookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String("component", component),
		attribute.String("status", statusOf(err)),
	))
	m.lookupDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("component", component),
	))
}

// ObserveStart records one component startup.
func (m *MetricsObserver) ObserveStart(component string, _ time.Duration, err error) {
	m.starts.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("component", component),
		attribute.String("status", statusOf(err)),
	))
}

// ObserveStop records one component shutdown.
func (m *MetricsObserver) ObserveStop(component string, _ time.Duration, err error) {
	m.stops.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("component", component),
		attribute.String("status", statusOf(err)),
	))
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
