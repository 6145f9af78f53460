package service

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// TicketHistoryService is the only writer of ticket history. It reads the
// current ticket to fill in the previous side of every entry.
type TicketHistoryService struct {
	history repository.TicketHistoryRepository
	tickets repository.TicketRepository
	logger  *zap.Logger
	now     func() time.Time
}

// TicketHistoryDependencies bundles collaborators for the history service.
type TicketHistoryDependencies struct {
	HistoryRepo repository.TicketHistoryRepository
	TicketRepo  repository.TicketRepository
	Logger      *zap.Logger
	Now         func() time.Time
}

// NewTicketHistoryService constructs the service.
func NewTicketHistoryService(deps TicketHistoryDependencies) *TicketHistoryService {
	return &TicketHistoryService{
		history: deps.HistoryRepo,
		tickets: deps.TicketRepo,
		logger:  loggerOrNop(deps.Logger),
		now:     clockOrDefault(deps.Now),
	}
}

// Create records change against the ticket as it is currently persisted.
func (s *TicketHistoryService) Create(ctx context.Context, change domain.HistoryChange) (_ *Result[*domain.TicketHistory], err error) {
	ctx, span := observability.StartSpan(ctx, "TicketHistoryService.Create",
		attribute.String("ticket.uuid", change.TicketUUID))
	defer func() { observability.EndSpan(span, err) }()

	if err := requireUUIDs("Invalid ticket UUID format", change.TicketUUID); err != nil {
		return nil, err
	}

	current, err := s.tickets.FindByUUID(ctx, change.TicketUUID)
	if err != nil {
		return nil, err
	}

	entry := domain.NewTicketHistory(current, change, s.now())
	if err := validationError("Ticket history validation failed", domain.ValidateTicketHistory(entry)); err != nil {
		return nil, err
	}
	if err := s.history.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Debug("ticket history recorded",
		zap.String("ticket_uuid", entry.TicketUUID),
		zap.String("previous_status", string(entry.PreviousStatus)),
		zap.String("new_status", string(entry.NewStatus)))
	return newResult(entry, fmt.Sprintf("Entity %s created successfully", entry.UUID)), nil
}

// Update always fails: history is append-only.
func (s *TicketHistoryService) Update(context.Context, string, *domain.TicketHistory) error {
	return apperrors.NewBadRequest("The ticket history cannot be updated, only created")
}

// Delete always fails: history is append-only.
func (s *TicketHistoryService) Delete(context.Context, string) error {
	return apperrors.NewBadRequest("The ticket history cannot be deleted, only created")
}

func (s *TicketHistoryService) FindByTicket(ctx context.Context, ticketUUID string) (*Result[[]domain.TicketHistory], error) {
	if err := requireUUIDs("Invalid ticket UUID format", ticketUUID); err != nil {
		return nil, err
	}
	entries, err := s.history.FindByTicket(ctx, ticketUUID)
	if err != nil {
		return nil, err
	}
	return newResult(entries, fmt.Sprintf("Found %d history records for ticket %s", len(entries), ticketUUID)), nil
}

func (s *TicketHistoryService) FindByUser(ctx context.Context, userUUID string) (*Result[[]domain.TicketHistory], error) {
	if err := requireUUIDs("Invalid user UUID format", userUUID); err != nil {
		return nil, err
	}
	entries, err := s.history.FindByUser(ctx, userUUID)
	if err != nil {
		return nil, err
	}
	return newResult(entries, fmt.Sprintf("Found %d history records for user %s", len(entries), userUUID)), nil
}

// FindRecentActivity returns the newest entries across all tickets. A
// non-positive limit means the default of 10.
func (s *TicketHistoryService) FindRecentActivity(ctx context.Context, limit int) (*Result[[]domain.TicketHistory], error) {
	if limit <= 0 {
		limit = repository.DefaultRecentActivityLimit
	}
	entries, err := s.history.FindRecentActivity(ctx, limit)
	if err != nil {
		return nil, err
	}
	return newResult(entries, fmt.Sprintf("Retrieved %d recent ticket history records", len(entries))), nil
}
