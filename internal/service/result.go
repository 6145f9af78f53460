package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/observability"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// Result pairs the data of a successful call with its human-readable message.
type Result[T any] struct {
	Data    T
	Message string
}

func newResult[T any](data T, message string) *Result[T] {
	return &Result[T]{Data: data, Message: message}
}

func clockOrDefault(now func() time.Time) func() time.Time {
	if now == nil {
		return time.Now
	}
	return now
}

func loggerOrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func requireUUIDs(message string, values ...string) error {
	for _, v := range values {
		if !domain.IsValidUUID(v) {
			return apperrors.NewBadRequest(message)
		}
	}
	return nil
}

func validationError(message string, violations []domain.FieldViolation) error {
	if len(violations) == 0 {
		return nil
	}
	return apperrors.NewValidationError(message, domain.ViolationDetails(violations))
}

// eventPublisher fans lifecycle events out to the dispatcher and counts them.
type eventPublisher struct {
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

func (p eventPublisher) publish(ctx context.Context, event events.Event) {
	p.metrics.RecordTicketEvent(string(event.Type))
	if p.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now()
	}
	if err := p.dispatcher.Publish(ctx, event); err != nil {
		p.logger.Warn("publish event", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
