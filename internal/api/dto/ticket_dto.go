package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// CreateTicketRequest payload. Status is accepted and ignored.
type CreateTicketRequest struct {
	WorkspaceUUID        string                `json:"workspaceUuid" validate:"required,canonical_uuid"`
	Title                string                `json:"title" validate:"required,max=200"`
	Description          string                `json:"description" validate:"max=5000"`
	Severity             domain.TicketSeverity `json:"severity" validate:"required,ticket_severity"`
	Status               domain.TicketStatus   `json:"status" validate:"omitempty,ticket_status"`
	SeverityChangeReason *string               `json:"severityChangeReason"`
	DueDate              time.Time             `json:"dueDate" validate:"required"`
}

// ReviewTicketRequest payload. An empty reason is rejected by the service.
type ReviewTicketRequest struct {
	TicketUUID  string                `json:"ticketUuid" validate:"required"`
	NewSeverity domain.TicketSeverity `json:"newSeverity" validate:"required,ticket_severity"`
	Reason      string                `json:"reason"`
}

// ApproveTicketRequest payload.
type ApproveTicketRequest struct {
	TicketUUID string `json:"ticketUuid" validate:"required"`
}

// UpdateTicketDetailsRequest payload.
type UpdateTicketDetailsRequest struct {
	TicketUUID  string  `json:"ticketUuid" validate:"required"`
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
}

// SuggestSeverityRequest payload.
type SuggestSeverityRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

// ImportStatusesRequest payload for JSON clients; text/csv bodies are read raw.
type ImportStatusesRequest struct {
	CSVContent string `json:"csvContent"`
}

// CanReviewResponse answers the review gate check.
type CanReviewResponse struct {
	CanReview bool `json:"canReview"`
}

// ImportResult summarizes a status import.
type ImportResult struct {
	Updated int `json:"updated"`
}
