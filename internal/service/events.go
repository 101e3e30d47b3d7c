package service

import (
	"context"
	"log/slog"

	"github.com/dukerupert/forever/internal/events"
	"github.com/dukerupert/forever/internal/telemetry"
)

// publish sends an event and logs, rather than returns, any failure.
func publish(ctx context.Context, p events.Publisher, logger *slog.Logger, subject string, data any) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, subject, data); err != nil {
		logger.Warn("failed to publish event", "subject", subject, "error", err)
		if telemetry.Business != nil {
			telemetry.Business.EventsFailed.WithLabelValues(subject).Inc()
		}
		return
	}
	if telemetry.Business != nil {
		telemetry.Business.EventsPublished.WithLabelValues(subject).Inc()
	}
}
