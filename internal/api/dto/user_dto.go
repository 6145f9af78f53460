package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// UserRegisterRequest payload.
type UserRegisterRequest struct {
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=8"`
	Name     string          `json:"name" validate:"required"`
	Role     domain.UserRole `json:"role" validate:"omitempty,user_role"`
}

// UserLoginRequest payload.
type UserLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

// AuthResponse is returned after login.
type AuthResponse struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// CreateWorkspaceRequest payload.
type CreateWorkspaceRequest struct {
	Name string `json:"name" validate:"required,max=120"`
}

// AddMemberRequest payload.
type AddMemberRequest struct {
	UserUUID string `json:"userUuid" validate:"required,canonical_uuid"`
}
