package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// WorkspaceService manages workspaces and their membership.
type WorkspaceService struct {
	workspaces repository.WorkspaceRepository
	users      repository.UserRepository
	logger     *zap.Logger
	now        func() time.Time
}

// WorkspaceDependencies bundles repositories for the workspace service.
type WorkspaceDependencies struct {
	WorkspaceRepo repository.WorkspaceRepository
	UserRepo      repository.UserRepository
	Logger        *zap.Logger
	Now           func() time.Time
}

func NewWorkspaceService(deps WorkspaceDependencies) *WorkspaceService {
	return &WorkspaceService{
		workspaces: deps.WorkspaceRepo,
		users:      deps.UserRepo,
		logger:     loggerOrNop(deps.Logger),
		now:        clockOrDefault(deps.Now),
	}
}

// Create makes a workspace with its creator as the first member.
func (s *WorkspaceService) Create(ctx context.Context, name, creatorUUID string) (*Result[*domain.Workspace], error) {
	if err := requireUUIDs("Invalid user UUID format", creatorUUID); err != nil {
		return nil, err
	}
	workspace := domain.NewWorkspace(strings.TrimSpace(name), creatorUUID, s.now())
	workspace.AddMember(creatorUUID)

	if err := validationError("Workspace validation failed", domain.ValidateWorkspace(workspace)); err != nil {
		return nil, err
	}
	if err := s.workspaces.Create(ctx, workspace); err != nil {
		return nil, err
	}
	s.logger.Info("workspace created", zap.String("workspace_uuid", workspace.UUID), zap.String("created_by", creatorUUID))
	return newResult(workspace, fmt.Sprintf("Workspace %s created successfully", workspace.Name)), nil
}

// Update renames a workspace. Only its creator may do so.
func (s *WorkspaceService) Update(ctx context.Context, workspaceUUID, actorUUID, name string) (*Result[*domain.Workspace], error) {
	if err := requireUUIDs("Invalid UUID format", workspaceUUID, actorUUID); err != nil {
		return nil, err
	}
	workspace, err := s.workspaces.FindByUUID(ctx, workspaceUUID)
	if err != nil {
		return nil, err
	}
	if workspace.CreatedBy != actorUUID {
		return nil, apperrors.NewForbidden("Only the workspace creator can update the workspace")
	}

	workspace.Name = strings.TrimSpace(name)
	workspace.MarkUpdated(s.now())
	if err := validationError("Workspace validation failed", domain.ValidateWorkspace(workspace)); err != nil {
		return nil, err
	}
	if err := s.workspaces.Update(ctx, workspace); err != nil {
		return nil, err
	}
	return newResult(workspace, fmt.Sprintf("Workspace %s updated successfully", workspace.Name)), nil
}

func (s *WorkspaceService) GetByUUID(ctx context.Context, workspaceUUID string) (*Result[*domain.Workspace], error) {
	if err := requireUUIDs("Invalid workspace UUID format", workspaceUUID); err != nil {
		return nil, err
	}
	workspace, err := s.workspaces.FindByUUID(ctx, workspaceUUID)
	if err != nil {
		return nil, err
	}
	return newResult(workspace, "Workspace found."), nil
}

func (s *WorkspaceService) GetByKey(ctx context.Context, key string) (*Result[*domain.Workspace], error) {
	if err := requireUUIDs("Invalid workspace key format", key); err != nil {
		return nil, err
	}
	workspace, err := s.workspaces.FindByWorkspaceKey(ctx, key)
	if err != nil {
		return nil, err
	}
	return newResult(workspace, "Workspace found."), nil
}

// AddUser adds an existing, active user to the workspace.
func (s *WorkspaceService) AddUser(ctx context.Context, workspaceUUID, userUUID string) (*Result[*domain.Workspace], error) {
	if err := requireUUIDs("Invalid UUID format", workspaceUUID, userUUID); err != nil {
		return nil, err
	}
	workspace, err := s.workspaces.FindByUUID(ctx, workspaceUUID)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.FindByUUID(ctx, userUUID); err != nil {
		return nil, err
	}
	if !workspace.AddMember(userUUID) {
		return nil, apperrors.NewConflict(fmt.Sprintf("User %s is already a member of this workspace", userUUID), nil)
	}
	if err := s.workspaces.AddMember(ctx, workspace.UUID, userUUID); err != nil {
		return nil, err
	}
	return newResult(workspace, "User added to workspace successfully."), nil
}

// RemoveUser drops a member. The creator cannot be removed.
func (s *WorkspaceService) RemoveUser(ctx context.Context, workspaceUUID, userUUID string) (*Result[*domain.Workspace], error) {
	if err := requireUUIDs("Invalid UUID format", workspaceUUID, userUUID); err != nil {
		return nil, err
	}
	workspace, err := s.workspaces.FindByUUID(ctx, workspaceUUID)
	if err != nil {
		return nil, err
	}
	if workspace.CreatedBy == userUUID {
		return nil, apperrors.NewConflict("The workspace creator cannot be removed", nil)
	}
	if !workspace.RemoveMember(userUUID) {
		return nil, apperrors.NewNotFound(fmt.Sprintf("User %s is not a member of this workspace", userUUID), nil)
	}
	if err := s.workspaces.RemoveMember(ctx, workspace.UUID, userUUID); err != nil {
		return nil, err
	}
	return newResult(workspace, "User removed from workspace successfully."), nil
}

func (s *WorkspaceService) Members(ctx context.Context, workspaceUUID string) (*Result[[]domain.User], error) {
	if err := requireUUIDs("Invalid workspace UUID format", workspaceUUID); err != nil {
		return nil, err
	}
	if _, err := s.workspaces.FindByUUID(ctx, workspaceUUID); err != nil {
		return nil, err
	}
	users, err := s.users.FindByWorkspace(ctx, workspaceUUID)
	if err != nil {
		return nil, err
	}
	return newResult(users, fmt.Sprintf("Found %d members", len(users))), nil
}

// ListForUser returns every workspace the user belongs to.
func (s *WorkspaceService) ListForUser(ctx context.Context, userUUID string) (*Result[[]domain.Workspace], error) {
	if err := requireUUIDs("Invalid user UUID format", userUUID); err != nil {
		return nil, err
	}
	workspaces, err := s.workspaces.FindByUserUUID(ctx, userUUID)
	if err != nil {
		return nil, err
	}
	return newResult(workspaces, fmt.Sprintf("Found %d workspaces", len(workspaces))), nil
}
