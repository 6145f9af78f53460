package ai

import (
	"context"
	"math/rand/v2"
	"strings"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// Messages reported alongside a suggestion.
const (
	MessageSuccess        = "AI severity suggestion successful"
	MessageInvalidAnswer  = "AI returned invalid severity, using fallback"
	MessageUnavailable    = "AI service unavailable, using fallback severity"
	MessageMockSuggestion = "Severity suggested by the offline heuristic"
)

// Suggestion is the outcome of one severity request. Fallback marks a
// severity picked at random because the backend could not answer.
type Suggestion struct {
	Severity domain.TicketSeverity `json:"severity"`
	Message  string                `json:"message"`
	Fallback bool                  `json:"fallback"`
}

// SeverityOracle suggests a severity for a ticket. Implementations never
// fail; they degrade to a fallback suggestion instead.
type SeverityOracle interface {
	SuggestSeverity(ctx context.Context, title, description string) Suggestion
}

// MapToSeverity normalizes a raw model answer onto the severity scale.
func MapToSeverity(raw string) (domain.TicketSeverity, bool) {
	return domain.ParseTicketSeverity(strings.ToUpper(strings.TrimSpace(raw)))
}

func randomSeverity(pick func(n int) int) domain.TicketSeverity {
	if pick == nil {
		pick = rand.IntN
	}
	return domain.TicketSeverities[pick(len(domain.TicketSeverities))]
}

func fallback(message string, pick func(n int) int) Suggestion {
	return Suggestion{Severity: randomSeverity(pick), Message: message, Fallback: true}
}

const systemPrompt = `You are an AI assistant helping to categorize support tickets by severity. Based on the ticket title and description, suggest the most appropriate severity level from this list:

- VERY_HIGH: Critical issue requiring immediate attention; likely to severely impact business or many users.
- HIGH: High-priority issue with significant impact that should be addressed soon.
- MEDIUM: Moderate impact issue that needs timely resolution but is not urgent.
- LOW: Minor issue with low impact, can be scheduled for later resolution.
- EASY: Very minor or trivial issue, requires minimal effort and can be resolved quickly.

Analyze the urgency, impact and technical details, then answer with exactly one severity level from the list above and nothing else.`

func userPrompt(title, description string) string {
	return "Ticket Title: " + title + "\nTicket Description: " + description + "\n\nSuggested Severity:"
}
