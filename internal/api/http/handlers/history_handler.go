package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/service"
)

// HistoryHandler exposes the audit trail read paths.
type HistoryHandler struct {
	history *service.TicketHistoryService
}

func NewHistoryHandler(history *service.TicketHistoryService) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// Recent GET /history/recent?limit=.
func (h *HistoryHandler) Recent(c *fiber.Ctx) error {
	res, err := h.history.FindRecentActivity(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, res.Message, res.Data)
}

// ByUser GET /users/:uuid/history.
func (h *HistoryHandler) ByUser(c *fiber.Ctx) error {
	res, err := h.history.FindByUser(c.UserContext(), c.Params("uuid"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, res.Message, res.Data)
}
