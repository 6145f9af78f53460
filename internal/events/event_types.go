package events

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated        EventType = "ticket_created"
	EventTicketReviewed       EventType = "ticket_reviewed"
	EventTicketDetailsUpdated EventType = "ticket_details_updated"
	EventTicketStatusImported EventType = "ticket_status_imported"
)

// AllTicketEvents lists every ticket lifecycle event.
var AllTicketEvents = []EventType{
	EventTicketCreated,
	EventTicketReviewed,
	EventTicketDetailsUpdated,
	EventTicketStatusImported,
}

// Event represents a domain event emitted by services.
type Event struct {
	ID            string    `json:"id"`
	Type          EventType `json:"type"`
	TicketUUID    string    `json:"ticketUuid"`
	WorkspaceUUID string    `json:"workspaceUuid"`
	ActorUUID     string    `json:"actorUuid"`
	Timestamp     time.Time `json:"timestamp"`
	Payload       any       `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TicketNumber string                `json:"ticketNumber"`
	Title        string                `json:"title"`
	Severity     domain.TicketSeverity `json:"severity"`
}

// TicketReviewedPayload payload.
type TicketReviewedPayload struct {
	PreviousSeverity domain.TicketSeverity `json:"previousSeverity"`
	NewSeverity      domain.TicketSeverity `json:"newSeverity"`
	NewStatus        domain.TicketStatus   `json:"newStatus"`
	Reason           string                `json:"reason"`
}

// TicketDetailsUpdatedPayload payload.
type TicketDetailsUpdatedPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// TicketStatusImportedPayload payload.
type TicketStatusImportedPayload struct {
	OldStatus domain.TicketStatus `json:"oldStatus"`
	NewStatus domain.TicketStatus `json:"newStatus"`
}
