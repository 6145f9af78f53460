package domain

import "time"

// UserRole is the permission tier of a user.
type UserRole string

const (
	UserRoleAssociate UserRole = "ASSOCIATE"
	UserRoleManager   UserRole = "MANAGER"
	UserRoleAdmin     UserRole = "ADMIN"
)

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleAssociate, UserRoleManager, UserRoleAdmin:
		return true
	default:
		return false
	}
}

// User is an account that belongs to workspaces and acts on tickets.
type User struct {
	Entity
	Email        string   `json:"email" validate:"required,email"`
	PasswordHash string   `json:"-" validate:"required"`
	Name         string   `json:"name" validate:"required"`
	Role         UserRole `json:"role" validate:"user_role"`
}

// NewUser creates an active user. The password must already be hashed.
func NewUser(email, passwordHash, name string, role UserRole, now time.Time) *User {
	return &User{
		Entity:       NewEntity(now),
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		Role:         role,
	}
}
