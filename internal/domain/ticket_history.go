package domain

import "time"

// TicketHistory is an immutable audit trail entry pairing the persisted
// state of a ticket with the state a mutation moved it to.
type TicketHistory struct {
	Entity
	TicketUUID          string          `json:"ticketUuid" validate:"required,canonical_uuid"`
	UserUUID            string          `json:"userUuid" validate:"required,canonical_uuid"`
	PreviousStatus      TicketStatus    `json:"previousStatus" validate:"ticket_status"`
	NewStatus           TicketStatus    `json:"newStatus" validate:"ticket_status"`
	PreviousSeverity    *TicketSeverity `json:"previousSeverity" validate:"omitempty,ticket_severity"`
	NewSeverity         *TicketSeverity `json:"newSeverity" validate:"omitempty,ticket_severity"`
	ChangeReason        *string         `json:"changeReason"`
	PreviousTitle       *string         `json:"previousTitle,omitempty"`
	NewTitle            *string         `json:"newTitle,omitempty"`
	PreviousDescription *string         `json:"previousDescription,omitempty"`
	NewDescription      *string         `json:"newDescription,omitempty"`
}

// HistoryChange describes the "new" side of a mutation. Previous values are
// never supplied by callers; they come from the current ticket.
type HistoryChange struct {
	TicketUUID     string
	UserUUID       string
	NewStatus      TicketStatus
	NewSeverity    *TicketSeverity
	ChangeReason   *string
	NewTitle       *string
	NewDescription *string
}

// NewTicketHistory builds a history entry from the ticket as currently
// persisted and the requested change.
func NewTicketHistory(current *Ticket, change HistoryChange, now time.Time) *TicketHistory {
	previousSeverity := current.Severity
	previousTitle := current.Title
	previousDescription := current.Description

	history := &TicketHistory{
		Entity:              NewEntity(now),
		TicketUUID:          current.UUID,
		UserUUID:            change.UserUUID,
		PreviousStatus:      current.Status,
		NewStatus:           change.NewStatus,
		PreviousSeverity:    &previousSeverity,
		NewSeverity:         change.NewSeverity,
		ChangeReason:        change.ChangeReason,
		PreviousTitle:       &previousTitle,
		NewTitle:            change.NewTitle,
		PreviousDescription: &previousDescription,
		NewDescription:      change.NewDescription,
	}
	return history
}

// SeverityPtr is a convenience for optional severity fields.
func SeverityPtr(s TicketSeverity) *TicketSeverity {
	return &s
}

// StringPtr is a convenience for optional text fields.
func StringPtr(s string) *string {
	return &s
}
