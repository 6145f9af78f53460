package domain

import (
	"time"

	"github.com/google/uuid"
)

// Entity carries identity and lifecycle fields shared by every aggregate.
type Entity struct {
	UUID      string     `json:"uuid" validate:"required,canonical_uuid"`
	CreatedAt time.Time  `json:"createdAt" validate:"required"`
	UpdatedAt time.Time  `json:"updatedAt" validate:"required"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
	Active    bool       `json:"active"`
}

// NewEntity returns an active entity with a fresh v4 uuid stamped at now.
func NewEntity(now time.Time) Entity {
	return Entity{
		UUID:      uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		Active:    true,
	}
}

// MarkUpdated bumps UpdatedAt.
func (e *Entity) MarkUpdated(now time.Time) {
	e.UpdatedAt = now
}

// SoftDelete deactivates the entity; rows are never hard-deleted.
func (e *Entity) SoftDelete(now time.Time) {
	e.Active = false
	e.DeletedAt = &now
	e.MarkUpdated(now)
}
