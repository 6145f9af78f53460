package dto

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/domain"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// Bind parses the JSON body into out and checks its validate tags.
func Bind(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	return Validate(out)
}

// Validate checks the validate tags of a request struct.
func Validate(req any) error {
	if err := domain.Validator().Struct(req); err != nil {
		violations := domain.Violations(err)
		if len(violations) == 0 {
			return apperrors.NewBadRequest("invalid payload")
		}
		return apperrors.NewValidationError("request validation failed", domain.ViolationDetails(violations))
	}
	return nil
}

// Envelope is the body of every JSON response.
type Envelope struct {
	Message string     `json:"message"`
	Data    any        `json:"data"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// ErrorBody carries the error classification of a failed request.
type ErrorBody struct {
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}
