package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/devconnector/profile-api/internal/api/metrics"
	"github.com/devconnector/profile-api/internal/core/ports"
)

type eventService struct {
	repo ports.EventRepository
	log  zerolog.Logger
}

// NewEventService returns the audit event processor that runs behind the
// dispatcher workers.
func NewEventService(repo ports.EventRepository, log zerolog.Logger) ports.EventService {
	return &eventService{repo: repo, log: log}
}

// Process persists a single audit event. Failures are surfaced to the worker
// loop for logging; the originating request has already completed.
func (s *eventService) Process(ctx context.Context, in ports.ProfileEventInput) error {
	if err := s.repo.InsertEvent(ctx, &in); err != nil {
		metrics.EventsErrorsTotal.WithLabelValues("insert_failed").Inc()
		return fmt.Errorf("process event: %w", err)
	}

	metrics.EventsProcessedTotal.WithLabelValues(in.Action).Inc()
	s.log.Debug().Str("user_id", in.UserID).Str("action", in.Action).Msg("audit event recorded")
	return nil
}
