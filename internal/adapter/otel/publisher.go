package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/neomorfeo/roomkeeper/internal/domain"
)

// TracingPublisher wraps a domain.EventPublisher with OpenTelemetry tracing
// and counts published booking events.
type TracingPublisher struct {
	next   domain.EventPublisher
	tracer trace.Tracer
	events metric.Int64Counter
}

// Compile-time check: TracingPublisher implements domain.EventPublisher.
var _ domain.EventPublisher = (*TracingPublisher)(nil)

// NewTracingPublisher creates a tracing decorator around the given publisher.
func NewTracingPublisher(next domain.EventPublisher) (*TracingPublisher, error) {
	events, err := otel.Meter(tracerName).Int64Counter("roomkeeper.booking.events",
		metric.WithDescription("Booking events published, by event and outcome."),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}

	return &TracingPublisher{
		next:   next,
		tracer: otel.Tracer(tracerName),
		events: events,
	}, nil
}

func (p *TracingPublisher) Publish(ctx context.Context, event domain.Event, booking domain.Booking) error {
	ctx, span := p.tracer.Start(ctx, "EventPublisher.Publish",
		trace.WithAttributes(
			attribute.String("event.type", string(event)),
			attribute.String("booking.id", booking.ID),
			attribute.String("booking.status", string(booking.Status)),
		),
	)
	defer span.End()

	outcome := "ok"
	err := p.next.Publish(ctx, event, booking)
	if err != nil {
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	p.events.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event.type", string(event)),
		attribute.String("outcome", outcome),
	))
	return err
}
