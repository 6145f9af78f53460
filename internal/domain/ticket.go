package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TicketStatus enumerates workflow stages for tickets.
type TicketStatus string

const (
	TicketStatusDraft   TicketStatus = "DRAFT"   // created by an associate, awaiting manager review
	TicketStatusReview  TicketStatus = "REVIEW"  // severity escalated, back with the associate
	TicketStatusPending TicketStatus = "PENDING" // approved, eligible for CSV export
	TicketStatusOpen    TicketStatus = "OPEN"    // picked up by the external system
	TicketStatusClosed  TicketStatus = "CLOSED"  // closed by the external system
)

// TicketStatuses lists every status in workflow order.
var TicketStatuses = []TicketStatus{
	TicketStatusDraft,
	TicketStatusReview,
	TicketStatusPending,
	TicketStatusOpen,
	TicketStatusClosed,
}

// IsValid reports whether s is one of the known literals. Matching is case-sensitive.
func (s TicketStatus) IsValid() bool {
	for _, known := range TicketStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseTicketStatus converts a wire literal into a TicketStatus.
func ParseTicketStatus(raw string) (TicketStatus, bool) {
	status := TicketStatus(raw)
	return status, status.IsValid()
}

// TicketSeverity is the ordered urgency scale.
type TicketSeverity string

const (
	TicketSeverityEasy     TicketSeverity = "EASY"
	TicketSeverityLow      TicketSeverity = "LOW"
	TicketSeverityMedium   TicketSeverity = "MEDIUM"
	TicketSeverityHigh     TicketSeverity = "HIGH"
	TicketSeverityVeryHigh TicketSeverity = "VERY_HIGH"
)

// TicketSeverities lists severities from lowest to highest.
var TicketSeverities = []TicketSeverity{
	TicketSeverityEasy,
	TicketSeverityLow,
	TicketSeverityMedium,
	TicketSeverityHigh,
	TicketSeverityVeryHigh,
}

// Rank returns the position of s on the scale, or -1 when unknown.
func (s TicketSeverity) Rank() int {
	for i, known := range TicketSeverities {
		if s == known {
			return i
		}
	}
	return -1
}

func (s TicketSeverity) IsValid() bool {
	return s.Rank() >= 0
}

// ParseTicketSeverity converts a wire literal into a TicketSeverity.
func ParseTicketSeverity(raw string) (TicketSeverity, bool) {
	severity := TicketSeverity(raw)
	return severity, severity.IsValid()
}

const ticketNumberPrefix = "TKT"

// Ticket is the aggregate for support requests.
type Ticket struct {
	Entity
	TicketNumber         string         `json:"ticketNumber" validate:"required"`
	WorkspaceUUID        string         `json:"workspaceUuid" validate:"required,canonical_uuid"`
	CreatedByUUID        string         `json:"createdByUuid" validate:"required,canonical_uuid"`
	Title                string         `json:"title" validate:"required"`
	Description          string         `json:"description"`
	Severity             TicketSeverity `json:"severity" validate:"ticket_severity"`
	Status               TicketStatus   `json:"status" validate:"ticket_status"`
	SeverityChangeReason *string        `json:"severityChangeReason"`
	DueDate              time.Time      `json:"dueDate" validate:"required"`
}

// GenerateTicketNumber formats TKT-<year>-<sequence>, zero-padding the
// sequence to six digits without truncating longer ones.
func GenerateTicketNumber(year, sequence int) string {
	return fmt.Sprintf("%s-%d-%06d", ticketNumberPrefix, year, sequence)
}

// TicketNumberPrefix returns the prefix shared by all ticket numbers of a year.
func TicketNumberPrefix(year int) string {
	return fmt.Sprintf("%s-%d-", ticketNumberPrefix, year)
}

// NextSequenceAfter derives the sequence following lastTicketNumber. An
// unparseable suffix restarts the sequence at 1.
func NextSequenceAfter(lastTicketNumber string) int {
	parts := strings.Split(lastTicketNumber, "-")
	suffix := "0"
	if len(parts) > 2 {
		suffix = parts[2]
	}
	sequence, err := strconv.Atoi(suffix)
	if err != nil {
		return 1
	}
	return sequence + 1
}

// CanBeReviewedBy is true only for a DRAFT ticket reviewed by someone other
// than its creator.
func (t *Ticket) CanBeReviewedBy(userUUID string) bool {
	return t.CreatedByUUID != userUUID && t.Status == TicketStatusDraft
}

// UpdateSeverity applies newSeverity and reason, and returns the status the
// ticket should move to. It does not assign the status.
func (t *Ticket) UpdateSeverity(newSeverity TicketSeverity, reason string, currentSeverity TicketSeverity) TicketStatus {
	t.SeverityChangeReason = &reason
	t.Severity = newSeverity

	if newSeverity.Rank() > currentSeverity.Rank() {
		return TicketStatusReview
	}
	return TicketStatusPending
}

// Clone returns a deep copy of the ticket.
func (t *Ticket) Clone() *Ticket {
	cp := *t
	if t.SeverityChangeReason != nil {
		reason := *t.SeverityChangeReason
		cp.SeverityChangeReason = &reason
	}
	if t.DeletedAt != nil {
		deletedAt := *t.DeletedAt
		cp.DeletedAt = &deletedAt
	}
	return &cp
}
