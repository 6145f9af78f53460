package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/service"
)

// WorkspacesHandler exposes workspace and membership endpoints.
type WorkspacesHandler struct {
	workspaces *service.WorkspaceService
}

func NewWorkspacesHandler(workspaces *service.WorkspaceService) *WorkspacesHandler {
	return &WorkspacesHandler{workspaces: workspaces}
}

// Create POST /workspaces.
func (h *WorkspacesHandler) Create(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.CreateWorkspaceRequest
	if err := dto.Bind(c, &req); err != nil {
		return err
	}
	res, err := h.workspaces.Create(c.UserContext(), req.Name, user.UUID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, res.Message, res.Data)
}

// Members GET /workspaces/:uuid/members.
func (h *WorkspacesHandler) Members(c *fiber.Ctx) error {
	res, err := h.workspaces.Members(c.UserContext(), c.Params("uuid"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, res.Message, res.Data)
}

// AddMember POST /workspaces/:uuid/members.
func (h *WorkspacesHandler) AddMember(c *fiber.Ctx) error {
	var req dto.AddMemberRequest
	if err := dto.Bind(c, &req); err != nil {
		return err
	}
	res, err := h.workspaces.AddUser(c.UserContext(), c.Params("uuid"), req.UserUUID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, res.Message, res.Data)
}

// RemoveMember DELETE /workspaces/:uuid/members/:userUuid.
func (h *WorkspacesHandler) RemoveMember(c *fiber.Ctx) error {
	res, err := h.workspaces.RemoveUser(c.UserContext(), c.Params("uuid"), c.Params("userUuid"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, res.Message, res.Data)
}

// ForUser GET /users/:uuid/workspaces.
func (h *WorkspacesHandler) ForUser(c *fiber.Ctx) error {
	res, err := h.workspaces.ListForUser(c.UserContext(), c.Params("uuid"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, res.Message, res.Data)
}
