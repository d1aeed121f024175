package database

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/event"
)

// NewCommandMonitor logs commands slower than threshold at warn level and
// failed commands at error level. A zero threshold disables slow logging.
func NewCommandMonitor(logger zerolog.Logger, threshold time.Duration) *event.CommandMonitor {
	log := logger.With().Str("component", "mongo_monitor").Logger()

	return &event.CommandMonitor{
		Succeeded: func(_ context.Context, e *event.CommandSucceededEvent) {
			if threshold <= 0 || e.Duration < threshold {
				return
			}
			log.Warn().
				Str("command", e.CommandName).
				Str("database", e.DatabaseName).
				Int64("request_id", e.RequestID).
				Dur("duration", e.Duration).
				Dur("threshold", threshold).
				Msg("slow database command")
		},
		Failed: func(_ context.Context, e *event.CommandFailedEvent) {
			log.Error().
				Str("command", e.CommandName).
				Str("database", e.DatabaseName).
				Int64("request_id", e.RequestID).
				Dur("duration", e.Duration).
				Str("failure", e.Failure).
				Msg("database command failed")
		},
	}
}
