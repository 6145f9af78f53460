package domain

import (
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldViolation is one failed rule on one field.
type FieldViolation struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator with the domain rules registered.
// DTOs in the HTTP layer use the same instance.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		_ = v.RegisterValidation("canonical_uuid", func(fl validator.FieldLevel) bool {
			return IsValidUUID(fl.Field().String())
		})
		_ = v.RegisterValidation("ticket_status", func(fl validator.FieldLevel) bool {
			return TicketStatus(fl.Field().String()).IsValid()
		})
		_ = v.RegisterValidation("ticket_severity", func(fl validator.FieldLevel) bool {
			return TicketSeverity(fl.Field().String()).IsValid()
		})
		_ = v.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
			return UserRole(fl.Field().String()).IsValid()
		})
		validate = v
	})
	return validate
}

// Violations flattens validator errors into field violations. Errors that
// are not validation failures are reported against the empty field.
func Violations(err error) []FieldViolation {
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []FieldViolation{{Field: "", Rule: err.Error()}}
	}
	out := make([]FieldViolation, 0, len(validationErrs))
	for _, fe := range validationErrs {
		out = append(out, FieldViolation{Field: fe.Field(), Rule: fe.Tag()})
	}
	return out
}

func ValidateTicket(t *Ticket) []FieldViolation {
	return Violations(Validator().Struct(t))
}

func ValidateTicketHistory(h *TicketHistory) []FieldViolation {
	return Violations(Validator().Struct(h))
}

func ValidateUser(u *User) []FieldViolation {
	return Violations(Validator().Struct(u))
}

func ValidateWorkspace(w *Workspace) []FieldViolation {
	return Violations(Validator().Struct(w))
}

// ViolationDetails shapes violations for an error envelope.
func ViolationDetails(violations []FieldViolation) map[string]any {
	return map[string]any{"violations": violations}
}
