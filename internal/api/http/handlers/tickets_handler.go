package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// TicketsHandler exposes the ticket workflow.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := dto.Bind(c, &req); err != nil {
		return err
	}

	res, err := h.service.Create(c.UserContext(), service.CreateTicketInput{
		WorkspaceUUID:        req.WorkspaceUUID,
		CreatedByUUID:        user.UUID,
		Title:                req.Title,
		Description:          req.Description,
		Severity:             req.Severity,
		Status:               req.Status,
		SeverityChangeReason: req.SeverityChangeReason,
		DueDate:              req.DueDate,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, res.Message, res.Data)
}

// GetTicket GET /tickets/:uuid.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	res, err := h.service.GetByUUID(c.UserContext(), c.Params("uuid"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, res.Message, res.Data)
}

// GetTicketByNumber GET /tickets/number/:number.
func (h *TicketsHandler) GetTicketByNumber(c *fiber.Ctx) error {
	res, err := h.service.GetTicketByNumber(c.UserContext(), c.Params("number"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, res.Message, res.Data)
}

// ListWorkspaceTickets GET /workspaces/:uuid/tickets[?status=].
func (h *TicketsHandler) ListWorkspaceTickets(c *fiber.Ctx) error {
	workspaceUUID := c.Params("uuid")
	status := strings.TrimSpace(c.Query("status"))

	var (
		res *service.Result[[]domain.Ticket]
		err error
	)
	if status != "" {
		res, err = h.service.GetTicketsByStatus(c.UserContext(), workspaceUUID, domain.TicketStatus(status))
	} else {
		res, err = h.service.GetTicketsByWorkspace(c.UserContext(), workspaceUUID)
	}
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, res.Message, res.Data)
}

// ReviewTicket POST /tickets/review.
func (h *TicketsHandler) ReviewTicket(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.ReviewTicketRequest
	if err := dto.Bind(c, &req); err != nil {
		return err
	}

	res, err := h.service.ReviewTicket(c.UserContext(), service.ReviewTicketInput{
		TicketUUID:  req.TicketUUID,
		ManagerUUID: user.UUID,
		NewSeverity: req.NewSeverity,
		Reason:      req.Reason,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, res.Message, res.Data)
}

// ApproveTicket POST /tickets/approve.
func (h *TicketsHandler) ApproveTicket(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.ApproveTicketRequest
	if err := dto.Bind(c, &req); err != nil {
		return err
	}

	res, err := h.service.ApproveTicket(c.UserContext(), req.TicketUUID, user.UUID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, res.Message, res.Data)
}

// UpdateTicketDetails POST /tickets/update-details.
func (h *TicketsHandler) UpdateTicketDetails(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTicketDetailsRequest
	if err := dto.Bind(c, &req); err != nil {
		return err
	}

	res, err := h.service.UpdateTicketDetails(c.UserContext(), service.UpdateTicketDetailsInput{
		TicketUUID:    req.TicketUUID,
		AssociateUUID: user.UUID,
		Title:         req.Title,
		Description:   req.Description,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, res.Message, res.Data)
}

// CanReview GET /tickets/:uuid/can-review.
func (h *TicketsHandler) CanReview(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	res, err := h.service.CanUserReviewTicket(c.UserContext(), c.Params("uuid"), user.UUID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, res.Message, dto.CanReviewResponse{CanReview: res.Data})
}

// SuggestSeverity POST /tickets/suggest-severity.
func (h *TicketsHandler) SuggestSeverity(c *fiber.Ctx) error {
	var req dto.SuggestSeverityRequest
	if err := dto.Bind(c, &req); err != nil {
		return err
	}
	res := h.service.SuggestSeverity(c.UserContext(), req.Title, req.Description)
	return respond(c, http.StatusOK, res.Message, res.Data)
}

// ExportPending POST /workspaces/:uuid/tickets/export-pending. A non-empty
// export is sent as text/csv; an empty one as the usual JSON envelope.
func (h *TicketsHandler) ExportPending(c *fiber.Ctx) error {
	res, err := h.service.ExportPendingTickets(c.UserContext(), c.Params("uuid"))
	if err != nil {
		return err
	}
	if res.Data == "" {
		return respond(c, http.StatusOK, res.Message, "")
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="pending-tickets.csv"`)
	return c.Status(http.StatusOK).SendString(res.Data)
}

// ImportStatuses POST /tickets/import-statuses.
func (h *TicketsHandler) ImportStatuses(c *fiber.Ctx) error {
	var content string
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), "text/csv") {
		content = string(c.Body())
	} else {
		var req dto.ImportStatusesRequest
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewBadRequest("invalid payload")
		}
		content = req.CSVContent
	}

	res, err := h.service.ImportTicketStatuses(c.UserContext(), content)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, res.Message, dto.ImportResult{Updated: res.Data})
}

// History GET /tickets/:uuid/history.
func (h *TicketsHandler) History(c *fiber.Ctx) error {
	res, err := h.service.GetTicketHistory(c.UserContext(), c.Params("uuid"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, res.Message, res.Data)
}
