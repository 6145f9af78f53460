package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Workspace is the tenant boundary that scopes tickets and membership.
type Workspace struct {
	Entity
	WorkspaceKey string   `json:"workspaceKey" validate:"required,canonical_uuid"`
	Name         string   `json:"name" validate:"required"`
	CreatedBy    string   `json:"createdBy" validate:"required,canonical_uuid"`
	UserUUIDs    []string `json:"userIds" validate:"dive,canonical_uuid"`
}

// NewWorkspace creates a workspace with a generated key. The creator is not
// added as a member here; WorkspaceService does that.
func NewWorkspace(name, createdBy string, now time.Time) *Workspace {
	return &Workspace{
		Entity:       NewEntity(now),
		WorkspaceKey: uuid.NewString(),
		Name:         name,
		CreatedBy:    createdBy,
		UserUUIDs:    []string{},
	}
}

func (w *Workspace) HasMember(userUUID string) bool {
	return slices.Contains(w.UserUUIDs, userUUID)
}

// AddMember appends userUUID once; it reports whether membership changed.
func (w *Workspace) AddMember(userUUID string) bool {
	if w.HasMember(userUUID) {
		return false
	}
	w.UserUUIDs = append(w.UserUUIDs, userUUID)
	return true
}

// RemoveMember drops userUUID; it reports whether membership changed.
func (w *Workspace) RemoveMember(userUUID string) bool {
	idx := slices.Index(w.UserUUIDs, userUUID)
	if idx < 0 {
		return false
	}
	w.UserUUIDs = slices.Delete(w.UserUUIDs, idx, idx+1)
	return true
}
