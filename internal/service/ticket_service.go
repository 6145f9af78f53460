package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/ai"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/ticketcsv"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

const (
	csvImportReason = "Updated by CSV import"
	approvalReason  = "Approved without severity change"
)

// HistoryRecorder writes and reads ticket history on behalf of the ticket
// workflow. TicketHistoryService implements it.
type HistoryRecorder interface {
	Create(ctx context.Context, change domain.HistoryChange) (*Result[*domain.TicketHistory], error)
	FindByTicket(ctx context.Context, ticketUUID string) (*Result[[]domain.TicketHistory], error)
}

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets repository.TicketRepository
	history HistoryRecorder
	oracle  ai.SeverityOracle
	events  eventPublisher
	logger  *zap.Logger
	now     func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	History    HistoryRecorder
	Oracle     ai.SeverityOracle
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	Now        func() time.Time
}

// CreateTicketInput describes ticket creation payload. Status is accepted
// for compatibility with clients and ignored: new tickets are always DRAFT.
type CreateTicketInput struct {
	WorkspaceUUID        string
	CreatedByUUID        string
	Title                string
	Description          string
	Severity             domain.TicketSeverity
	Status               domain.TicketStatus
	SeverityChangeReason *string
	DueDate              time.Time
}

// ReviewTicketInput is a manager's severity decision on a DRAFT ticket.
type ReviewTicketInput struct {
	TicketUUID  string
	ManagerUUID string
	NewSeverity domain.TicketSeverity
	Reason      string
}

// UpdateTicketDetailsInput is the creator's answer to an escalation. Nil or
// blank fields are left unchanged.
type UpdateTicketDetailsInput struct {
	TicketUUID    string
	AssociateUUID string
	Title         *string
	Description   *string
}

// UpdateTicketInput is a generic field update. It records no history.
type UpdateTicketInput struct {
	Title                *string
	Description          *string
	Severity             *domain.TicketSeverity
	SeverityChangeReason *string
	DueDate              *time.Time
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := loggerOrNop(deps.Logger)
	now := clockOrDefault(deps.Now)
	oracle := deps.Oracle
	if oracle == nil {
		oracle = ai.NewMockOracle()
	}
	return &TicketService{
		tickets: deps.TicketRepo,
		history: deps.History,
		oracle:  oracle,
		events: eventPublisher{
			dispatcher: deps.Dispatcher,
			metrics:    deps.Metrics,
			logger:     logger,
			now:        now,
		},
		logger: logger,
		now:    now,
	}
}

// Create opens a DRAFT ticket numbered within its workspace and year, then
// records its first history entry.
func (s *TicketService) Create(ctx context.Context, input CreateTicketInput) (_ *Result[*domain.Ticket], err error) {
	ctx, span := observability.StartSpan(ctx, "TicketService.Create",
		attribute.String("workspace.uuid", input.WorkspaceUUID))
	defer func() { observability.EndSpan(span, err) }()

	if err := requireUUIDs("Invalid UUID format", input.WorkspaceUUID, input.CreatedByUUID); err != nil {
		return nil, err
	}

	now := s.now()
	year := now.Year()
	sequence, err := s.tickets.GetNextSequenceNumber(ctx, year, input.WorkspaceUUID)
	if err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		Entity:               domain.NewEntity(now),
		TicketNumber:         domain.GenerateTicketNumber(year, sequence),
		WorkspaceUUID:        input.WorkspaceUUID,
		CreatedByUUID:        input.CreatedByUUID,
		Title:                strings.TrimSpace(input.Title),
		Description:          strings.TrimSpace(input.Description),
		Severity:             input.Severity,
		Status:               domain.TicketStatusDraft,
		SeverityChangeReason: input.SeverityChangeReason,
		DueDate:              input.DueDate,
	}
	if err := validationError("Ticket validation failed", domain.ValidateTicket(ticket)); err != nil {
		return nil, err
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	// The ticket already exists here, so the entry's previous side equals its
	// initial state.
	if _, err := s.history.Create(ctx, domain.HistoryChange{
		TicketUUID:   ticket.UUID,
		UserUUID:     input.CreatedByUUID,
		NewStatus:    ticket.Status,
		NewSeverity:  domain.SeverityPtr(ticket.Severity),
		ChangeReason: ticket.SeverityChangeReason,
	}); err != nil {
		return nil, err
	}

	s.events.publish(ctx, events.Event{
		Type:          events.EventTicketCreated,
		TicketUUID:    ticket.UUID,
		WorkspaceUUID: ticket.WorkspaceUUID,
		ActorUUID:     ticket.CreatedByUUID,
		Payload: events.TicketCreatedPayload{
			TicketNumber: ticket.TicketNumber,
			Title:        ticket.Title,
			Severity:     ticket.Severity,
		},
	})
	s.logger.Info("ticket created",
		zap.String("ticket_uuid", ticket.UUID),
		zap.String("ticket_number", ticket.TicketNumber))
	return newResult(ticket, fmt.Sprintf("Ticket %s created successfully", ticket.TicketNumber)), nil
}

func (s *TicketService) GetByUUID(ctx context.Context, ticketUUID string) (*Result[*domain.Ticket], error) {
	if err := requireUUIDs("Invalid UUID format", ticketUUID); err != nil {
		return nil, err
	}
	ticket, err := s.tickets.FindByUUID(ctx, ticketUUID)
	if err != nil {
		return nil, err
	}
	return newResult(ticket, fmt.Sprintf("Ticket %s retrieved successfully", ticket.TicketNumber)), nil
}

// GetAll lists active tickets across all workspaces.
func (s *TicketService) GetAll(ctx context.Context) (*Result[[]domain.Ticket], error) {
	tickets, err := s.tickets.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return newResult(tickets, fmt.Sprintf("Retrieved %d tickets", len(tickets))), nil
}

// Update applies a generic field update outside the review workflow.
func (s *TicketService) Update(ctx context.Context, ticketUUID string, input UpdateTicketInput) (_ *Result[*domain.Ticket], err error) {
	ctx, span := observability.StartSpan(ctx, "TicketService.Update",
		attribute.String("ticket.uuid", ticketUUID))
	defer func() { observability.EndSpan(span, err) }()

	if err := requireUUIDs("Invalid UUID format", ticketUUID); err != nil {
		return nil, err
	}
	ticket, err := s.tickets.FindByUUID(ctx, ticketUUID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		ticket.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		ticket.Description = strings.TrimSpace(*input.Description)
	}
	if input.Severity != nil {
		ticket.Severity = *input.Severity
	}
	if input.SeverityChangeReason != nil {
		ticket.SeverityChangeReason = input.SeverityChangeReason
	}
	if input.DueDate != nil {
		ticket.DueDate = *input.DueDate
	}
	ticket.MarkUpdated(s.now())

	if err := validationError("Ticket validation failed", domain.ValidateTicket(ticket)); err != nil {
		return nil, err
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}
	return newResult(ticket, fmt.Sprintf("Ticket %s updated successfully", ticket.TicketNumber)), nil
}

// Delete soft-deletes a ticket. Its history is kept.
func (s *TicketService) Delete(ctx context.Context, ticketUUID string) (_ *Result[*domain.Ticket], err error) {
	ctx, span := observability.StartSpan(ctx, "TicketService.Delete",
		attribute.String("ticket.uuid", ticketUUID))
	defer func() { observability.EndSpan(span, err) }()

	if err := requireUUIDs("Invalid UUID format", ticketUUID); err != nil {
		return nil, err
	}
	ticket, err := s.tickets.FindByUUID(ctx, ticketUUID)
	if err != nil {
		return nil, err
	}
	ticket.SoftDelete(s.now())
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}
	return newResult(ticket, fmt.Sprintf("Ticket %s deleted successfully", ticket.TicketNumber)), nil
}

func (s *TicketService) GetTicketByNumber(ctx context.Context, ticketNumber string) (*Result[*domain.Ticket], error) {
	ticketNumber = strings.TrimSpace(ticketNumber)
	if ticketNumber == "" {
		return nil, apperrors.NewBadRequest("Ticket number is required")
	}
	ticket, err := s.tickets.FindByTicketNumber(ctx, ticketNumber)
	if err != nil {
		return nil, err
	}
	return newResult(ticket, fmt.Sprintf("Ticket %s retrieved successfully", ticket.TicketNumber)), nil
}

func (s *TicketService) GetTicketsByStatus(ctx context.Context, workspaceUUID string, status domain.TicketStatus) (*Result[[]domain.Ticket], error) {
	if err := requireUUIDs("Invalid workspace UUID format", workspaceUUID); err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, apperrors.NewBadRequest("Invalid ticket status")
	}
	tickets, err := s.tickets.FindByStatus(ctx, workspaceUUID, status)
	if err != nil {
		return nil, err
	}
	return newResult(tickets, fmt.Sprintf("Found %d tickets with status %s", len(tickets), status)), nil
}

func (s *TicketService) GetTicketsByCreator(ctx context.Context, createdByUUID string) (*Result[[]domain.Ticket], error) {
	if err := requireUUIDs("Invalid creator UUID format", createdByUUID); err != nil {
		return nil, err
	}
	tickets, err := s.tickets.FindByCreatedBy(ctx, createdByUUID)
	if err != nil {
		return nil, err
	}
	return newResult(tickets, fmt.Sprintf("Found %d tickets created by %s", len(tickets), createdByUUID)), nil
}

func (s *TicketService) GetTicketsByWorkspace(ctx context.Context, workspaceUUID string) (*Result[[]domain.Ticket], error) {
	if err := requireUUIDs("Invalid workspace UUID format", workspaceUUID); err != nil {
		return nil, err
	}
	tickets, err := s.tickets.FindByWorkspace(ctx, workspaceUUID)
	if err != nil {
		return nil, err
	}
	return newResult(tickets, fmt.Sprintf("Found %d tickets in workspace %s", len(tickets), workspaceUUID)), nil
}

// GetAllByWorkspaceID includes soft-deleted tickets.
func (s *TicketService) GetAllByWorkspaceID(ctx context.Context, workspaceUUID string) (*Result[[]domain.Ticket], error) {
	if err := requireUUIDs("Invalid workspace UUID format", workspaceUUID); err != nil {
		return nil, err
	}
	tickets, err := s.tickets.FindAllByWorkspaceID(ctx, workspaceUUID)
	if err != nil {
		return nil, err
	}
	return newResult(tickets, fmt.Sprintf("Found %d tickets in workspace %s", len(tickets), workspaceUUID)), nil
}

// ReviewTicket applies a manager's severity decision. An increase sends the
// ticket back to its creator (REVIEW); anything else approves it (PENDING).
func (s *TicketService) ReviewTicket(ctx context.Context, input ReviewTicketInput) (_ *Result[*domain.Ticket], err error) {
	ctx, span := observability.StartSpan(ctx, "TicketService.ReviewTicket",
		attribute.String("ticket.uuid", input.TicketUUID),
		attribute.String("ticket.new_severity", string(input.NewSeverity)))
	defer func() { observability.EndSpan(span, err) }()

	if err := requireUUIDs("Invalid UUID format", input.TicketUUID, input.ManagerUUID); err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, apperrors.NewBadRequest("Severity change reason is required when changing severity")
	}
	if !input.NewSeverity.IsValid() {
		return nil, apperrors.NewBadRequest("Invalid ticket severity")
	}

	ticket, err := s.loadReviewable(ctx, input.TicketUUID, input.ManagerUUID)
	if err != nil {
		return nil, err
	}

	previousSeverity := ticket.Severity
	ticket.Status = ticket.UpdateSeverity(input.NewSeverity, reason, previousSeverity)
	ticket.MarkUpdated(s.now())

	if err := s.recordAndSave(ctx, ticket, domain.HistoryChange{
		TicketUUID:   ticket.UUID,
		UserUUID:     input.ManagerUUID,
		NewStatus:    ticket.Status,
		NewSeverity:  domain.SeverityPtr(ticket.Severity),
		ChangeReason: domain.StringPtr(reason),
	}); err != nil {
		return nil, err
	}

	s.events.publish(ctx, events.Event{
		Type:          events.EventTicketReviewed,
		TicketUUID:    ticket.UUID,
		WorkspaceUUID: ticket.WorkspaceUUID,
		ActorUUID:     input.ManagerUUID,
		Payload: events.TicketReviewedPayload{
			PreviousSeverity: previousSeverity,
			NewSeverity:      ticket.Severity,
			NewStatus:        ticket.Status,
			Reason:           reason,
		},
	})
	return newResult(ticket, fmt.Sprintf("Ticket %s reviewed successfully", ticket.TicketNumber)), nil
}

// ApproveTicket moves a DRAFT ticket to PENDING without touching its severity.
func (s *TicketService) ApproveTicket(ctx context.Context, ticketUUID, managerUUID string) (_ *Result[*domain.Ticket], err error) {
	ctx, span := observability.StartSpan(ctx, "TicketService.ApproveTicket",
		attribute.String("ticket.uuid", ticketUUID))
	defer func() { observability.EndSpan(span, err) }()

	if err := requireUUIDs("Invalid UUID format", ticketUUID, managerUUID); err != nil {
		return nil, err
	}
	ticket, err := s.loadReviewable(ctx, ticketUUID, managerUUID)
	if err != nil {
		return nil, err
	}

	ticket.Status = domain.TicketStatusPending
	ticket.MarkUpdated(s.now())

	if err := s.recordAndSave(ctx, ticket, domain.HistoryChange{
		TicketUUID:   ticket.UUID,
		UserUUID:     managerUUID,
		NewStatus:    ticket.Status,
		NewSeverity:  domain.SeverityPtr(ticket.Severity),
		ChangeReason: domain.StringPtr(approvalReason),
	}); err != nil {
		return nil, err
	}

	s.events.publish(ctx, events.Event{
		Type:          events.EventTicketReviewed,
		TicketUUID:    ticket.UUID,
		WorkspaceUUID: ticket.WorkspaceUUID,
		ActorUUID:     managerUUID,
		Payload: events.TicketReviewedPayload{
			PreviousSeverity: ticket.Severity,
			NewSeverity:      ticket.Severity,
			NewStatus:        ticket.Status,
			Reason:           approvalReason,
		},
	})
	return newResult(ticket, fmt.Sprintf("Ticket %s approved successfully", ticket.TicketNumber)), nil
}

// UpdateTicketDetails lets the creator revise an escalated ticket, which
// resubmits it for review as DRAFT.
func (s *TicketService) UpdateTicketDetails(ctx context.Context, input UpdateTicketDetailsInput) (_ *Result[*domain.Ticket], err error) {
	ctx, span := observability.StartSpan(ctx, "TicketService.UpdateTicketDetails",
		attribute.String("ticket.uuid", input.TicketUUID))
	defer func() { observability.EndSpan(span, err) }()

	if err := requireUUIDs("Invalid UUID format", input.TicketUUID, input.AssociateUUID); err != nil {
		return nil, err
	}
	ticket, err := s.tickets.FindByUUID(ctx, input.TicketUUID)
	if err != nil {
		return nil, err
	}
	if ticket.CreatedByUUID != input.AssociateUUID {
		return nil, apperrors.NewForbidden("Only the ticket creator can update ticket details")
	}
	if ticket.Status != domain.TicketStatusReview {
		return nil, apperrors.NewConflict("Ticket details can only be updated when ticket is in REVIEW status", map[string]any{
			"status": ticket.Status,
		})
	}

	if title := trimmed(input.Title); title != "" {
		ticket.Title = title
	}
	if description := trimmed(input.Description); description != "" {
		ticket.Description = description
	}
	ticket.Status = domain.TicketStatusDraft
	ticket.MarkUpdated(s.now())

	if err := s.recordAndSave(ctx, ticket, domain.HistoryChange{
		TicketUUID:     ticket.UUID,
		UserUUID:       input.AssociateUUID,
		NewStatus:      ticket.Status,
		NewSeverity:    domain.SeverityPtr(ticket.Severity),
		ChangeReason:   ticket.SeverityChangeReason,
		NewTitle:       domain.StringPtr(ticket.Title),
		NewDescription: domain.StringPtr(ticket.Description),
	}); err != nil {
		return nil, err
	}

	s.events.publish(ctx, events.Event{
		Type:          events.EventTicketDetailsUpdated,
		TicketUUID:    ticket.UUID,
		WorkspaceUUID: ticket.WorkspaceUUID,
		ActorUUID:     input.AssociateUUID,
		Payload: events.TicketDetailsUpdatedPayload{
			Title:       ticket.Title,
			Description: ticket.Description,
		},
	})
	return newResult(ticket, fmt.Sprintf("Ticket %s details updated successfully", ticket.TicketNumber)), nil
}

// CanUserReviewTicket is a read-only check of the review gate.
func (s *TicketService) CanUserReviewTicket(ctx context.Context, ticketUUID, userUUID string) (*Result[bool], error) {
	if err := requireUUIDs("Invalid UUID format", ticketUUID, userUUID); err != nil {
		return nil, err
	}
	ticket, err := s.tickets.FindByUUID(ctx, ticketUUID)
	if err != nil {
		return nil, err
	}
	if ticket.CanBeReviewedBy(userUUID) {
		return newResult(true, "Manager can review this ticket"), nil
	}
	return newResult(false, "Manager cannot review this ticket"), nil
}

// SuggestSeverity delegates to the oracle and cannot fail.
func (s *TicketService) SuggestSeverity(ctx context.Context, title, description string) *Result[ai.Suggestion] {
	ctx, span := observability.StartSpan(ctx, "TicketService.SuggestSeverity")
	defer span.End()

	suggestion := s.oracle.SuggestSeverity(ctx, title, description)
	span.SetAttributes(
		attribute.String("ticket.suggested_severity", string(suggestion.Severity)),
		attribute.Bool("ai.fallback", suggestion.Fallback))
	return newResult(suggestion, suggestion.Message)
}

// ExportPendingTickets serializes the workspace's PENDING tickets. An empty
// set yields an empty payload, not an error.
func (s *TicketService) ExportPendingTickets(ctx context.Context, workspaceUUID string) (_ *Result[string], err error) {
	ctx, span := observability.StartSpan(ctx, "TicketService.ExportPendingTickets",
		attribute.String("workspace.uuid", workspaceUUID))
	defer func() { observability.EndSpan(span, err) }()

	if err := requireUUIDs("Invalid workspace UUID format", workspaceUUID); err != nil {
		return nil, err
	}
	tickets, err := s.tickets.FindByStatusAndWorkspace(ctx, domain.TicketStatusPending, workspaceUUID)
	if err != nil {
		return nil, err
	}
	if len(tickets) == 0 {
		return newResult("", "No pending tickets to export"), nil
	}
	return s.ExportTicketsToCSV(tickets)
}

func (s *TicketService) ExportTicketsToCSV(tickets []domain.Ticket) (*Result[string], error) {
	if len(tickets) == 0 {
		return newResult("", "No tickets to export"), nil
	}
	content, err := ticketcsv.Encode(tickets)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return newResult(content, fmt.Sprintf("Exported %d tickets to CSV", len(tickets))), nil
}

// ImportTicketStatuses applies a status file and reports only how many
// tickets changed.
func (s *TicketService) ImportTicketStatuses(ctx context.Context, content string) (*Result[int], error) {
	res, err := s.UpdateCsvToTickets(ctx, content)
	if err != nil {
		return nil, err
	}
	updated := len(res.Data)
	return newResult(updated, fmt.Sprintf("Successfully imported %d ticket status updates", updated)), nil
}

// UpdateCsvToTickets applies the status column of each row. Rows that are
// malformed, unknown, inactive or unchanged are skipped; only a structurally
// invalid file fails, and it does so before any row is touched.
func (s *TicketService) UpdateCsvToTickets(ctx context.Context, content string) (_ *Result[[]domain.Ticket], err error) {
	ctx, span := observability.StartSpan(ctx, "TicketService.UpdateCsvToTickets")
	defer func() { observability.EndSpan(span, err) }()

	rows, err := ticketcsv.DecodeStatuses(content)
	if err != nil {
		return nil, apperrors.NewBadRequest(err.Error())
	}

	updated := make([]domain.Ticket, 0, len(rows))
	for _, row := range rows {
		ticket, ok := s.applyImportedStatus(ctx, row)
		if ok {
			updated = append(updated, *ticket)
		}
	}

	span.SetAttributes(
		attribute.Int("csv.rows", len(rows)),
		attribute.Int("csv.updated", len(updated)))
	s.logger.Info("csv status import finished",
		zap.Int("rows", len(rows)),
		zap.Int("updated", len(updated)))
	return newResult(updated, fmt.Sprintf("Successfully updated %d tickets from CSV import", len(updated))), nil
}

func (s *TicketService) applyImportedStatus(ctx context.Context, row ticketcsv.StatusRow) (*domain.Ticket, bool) {
	if row.UUID == "" || row.Status == "" || !domain.IsValidUUID(row.UUID) {
		return nil, false
	}
	status, ok := domain.ParseTicketStatus(row.Status)
	if !ok {
		return nil, false
	}

	ticket, err := s.tickets.FindByUUID(ctx, row.UUID)
	if err != nil {
		if !apperrors.IsNotFound(err) {
			s.logger.Warn("csv import lookup failed", zap.Int("line", row.Line), zap.Error(err))
		}
		return nil, false
	}
	if !ticket.Active || ticket.Status == status {
		return nil, false
	}

	oldStatus := ticket.Status
	ticket.Status = status
	ticket.MarkUpdated(s.now())

	if err := s.recordAndSave(ctx, ticket, domain.HistoryChange{
		TicketUUID:   ticket.UUID,
		UserUUID:     ticket.CreatedByUUID,
		NewStatus:    status,
		NewSeverity:  domain.SeverityPtr(ticket.Severity),
		ChangeReason: domain.StringPtr(csvImportReason),
	}); err != nil {
		s.logger.Warn("csv import row failed",
			zap.Int("line", row.Line),
			zap.String("ticket_uuid", ticket.UUID),
			zap.Error(err))
		return nil, false
	}

	s.events.publish(ctx, events.Event{
		Type:          events.EventTicketStatusImported,
		TicketUUID:    ticket.UUID,
		WorkspaceUUID: ticket.WorkspaceUUID,
		ActorUUID:     ticket.CreatedByUUID,
		Payload: events.TicketStatusImportedPayload{
			OldStatus: oldStatus,
			NewStatus: status,
		},
	})
	return ticket, true
}

func (s *TicketService) GetTicketHistory(ctx context.Context, ticketUUID string) (*Result[[]domain.TicketHistory], error) {
	return s.history.FindByTicket(ctx, ticketUUID)
}

// loadReviewable enforces the review gate shared by review and approval.
func (s *TicketService) loadReviewable(ctx context.Context, ticketUUID, managerUUID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.FindByUUID(ctx, ticketUUID)
	if err != nil {
		return nil, err
	}
	if !ticket.CanBeReviewedBy(managerUUID) {
		return nil, apperrors.NewForbidden("Manager cannot review their own tickets or ticket is not in DRAFT status")
	}
	return ticket, nil
}

// recordAndSave writes the history entry while the stored ticket still holds
// the previous state, then persists the mutated ticket. There is no version
// check between the read and the write.
func (s *TicketService) recordAndSave(ctx context.Context, ticket *domain.Ticket, change domain.HistoryChange) error {
	if _, err := s.history.Create(ctx, change); err != nil {
		return err
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return err
	}
	return nil
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

