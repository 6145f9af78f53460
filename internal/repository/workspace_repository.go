package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// WorkspaceRepository persists workspaces and their membership.
type WorkspaceRepository interface {
	Create(ctx context.Context, workspace *domain.Workspace) error
	Update(ctx context.Context, workspace *domain.Workspace) error
	FindByUUID(ctx context.Context, uuid string) (*domain.Workspace, error)
	FindByWorkspaceKey(ctx context.Context, key string) (*domain.Workspace, error)
	FindByCreatedBy(ctx context.Context, createdBy string) ([]domain.Workspace, error)
	FindByUserUUID(ctx context.Context, userUUID string) ([]domain.Workspace, error)
	AddMember(ctx context.Context, workspaceUUID, userUUID string) error
	RemoveMember(ctx context.Context, workspaceUUID, userUUID string) error
}

const workspaceColumns = `w.uuid, w.workspace_key, w.name, w.created_by, w.created_at, w.updated_at, w.deleted_at, w.active,
               COALESCE(ARRAY(SELECT m.user_uuid::text FROM workspace_members m WHERE m.workspace_uuid = w.uuid ORDER BY m.added_at), '{}')`

type workspaceRepository struct {
	pool *pgxpool.Pool
}

// NewWorkspaceRepository returns a Postgres-backed implementation.
func NewWorkspaceRepository(pool *pgxpool.Pool) WorkspaceRepository {
	return &workspaceRepository{pool: pool}
}

// Create inserts the workspace and its initial members in one transaction.
func (r *workspaceRepository) Create(ctx context.Context, workspace *domain.Workspace) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const insert = `
        INSERT INTO workspaces (uuid, workspace_key, name, created_by, created_at, updated_at, active)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`
	if _, err := tx.Exec(ctx, insert,
		workspace.UUID,
		workspace.WorkspaceKey,
		workspace.Name,
		workspace.CreatedBy,
		workspace.CreatedAt,
		workspace.UpdatedAt,
		workspace.Active,
	); err != nil {
		return err
	}

	for _, userUUID := range workspace.UserUUIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO workspace_members (workspace_uuid, user_uuid) VALUES ($1,$2) ON CONFLICT DO NOTHING`,
			workspace.UUID, userUUID,
		); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *workspaceRepository) Update(ctx context.Context, workspace *domain.Workspace) error {
	const query = `
        UPDATE workspaces SET name=$1, updated_at=$2, deleted_at=$3, active=$4
        WHERE uuid=$5`
	cmd, err := r.pool.Exec(ctx, query,
		workspace.Name,
		workspace.UpdatedAt,
		workspace.DeletedAt,
		workspace.Active,
		workspace.UUID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return notFound(workspace.UUID)
	}
	return nil
}

func (r *workspaceRepository) FindByUUID(ctx context.Context, uuid string) (*domain.Workspace, error) {
	query := `SELECT ` + workspaceColumns + ` FROM workspaces w WHERE w.uuid=$1 AND w.active`
	workspace, err := scanWorkspace(r.pool.QueryRow(ctx, query, uuid))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound(uuid)
	}
	return workspace, err
}

func (r *workspaceRepository) FindByWorkspaceKey(ctx context.Context, key string) (*domain.Workspace, error) {
	query := `SELECT ` + workspaceColumns + ` FROM workspaces w WHERE w.workspace_key=$1 AND w.active`
	workspace, err := scanWorkspace(r.pool.QueryRow(ctx, query, key))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound(fmt.Sprintf("The workspace %s was not found", key), nil)
	}
	return workspace, err
}

func (r *workspaceRepository) FindByCreatedBy(ctx context.Context, createdBy string) ([]domain.Workspace, error) {
	return r.list(ctx, `SELECT `+workspaceColumns+`
        FROM workspaces w WHERE w.created_by=$1 AND w.active ORDER BY w.created_at`, createdBy)
}

// FindByUserUUID returns workspaces the user created or belongs to.
func (r *workspaceRepository) FindByUserUUID(ctx context.Context, userUUID string) ([]domain.Workspace, error) {
	return r.list(ctx, `SELECT `+workspaceColumns+`
        FROM workspaces w
        WHERE w.active AND (w.created_by=$1 OR EXISTS (
            SELECT 1 FROM workspace_members m WHERE m.workspace_uuid = w.uuid AND m.user_uuid=$1))
        ORDER BY w.created_at`, userUUID)
}

func (r *workspaceRepository) AddMember(ctx context.Context, workspaceUUID, userUUID string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO workspace_members (workspace_uuid, user_uuid) VALUES ($1,$2) ON CONFLICT DO NOTHING`,
		workspaceUUID, userUUID)
	return err
}

func (r *workspaceRepository) RemoveMember(ctx context.Context, workspaceUUID, userUUID string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM workspace_members WHERE workspace_uuid=$1 AND user_uuid=$2`,
		workspaceUUID, userUUID)
	return err
}

func (r *workspaceRepository) list(ctx context.Context, query string, args ...any) ([]domain.Workspace, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workspaces := []domain.Workspace{}
	for rows.Next() {
		workspace, err := scanWorkspace(rows)
		if err != nil {
			return nil, err
		}
		workspaces = append(workspaces, *workspace)
	}
	return workspaces, rows.Err()
}

func scanWorkspace(row pgx.Row) (*domain.Workspace, error) {
	var workspace domain.Workspace
	if err := row.Scan(
		&workspace.UUID,
		&workspace.WorkspaceKey,
		&workspace.Name,
		&workspace.CreatedBy,
		&workspace.CreatedAt,
		&workspace.UpdatedAt,
		&workspace.DeletedAt,
		&workspace.Active,
		&workspace.UserUUIDs,
	); err != nil {
		return nil, err
	}
	return &workspace, nil
}
