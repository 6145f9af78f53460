package ai

import (
	"context"
	"hash/fnv"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// MockOracle derives a stable severity from the ticket text. It is used when
// no API key is configured.
type MockOracle struct{}

func NewMockOracle() *MockOracle {
	return &MockOracle{}
}

func (MockOracle) SuggestSeverity(_ context.Context, title, description string) Suggestion {
	h := fnv.New32a()
	_, _ = h.Write([]byte(title))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(description))
	idx := int(h.Sum32() % uint32(len(domain.TicketSeverities)))
	return Suggestion{Severity: domain.TicketSeverities[idx], Message: MessageMockSuggestion}
}
