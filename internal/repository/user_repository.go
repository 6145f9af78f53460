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

// UserRepository defines persistence access for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	FindByUUID(ctx context.Context, uuid string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error)
	FindByWorkspace(ctx context.Context, workspaceUUID string) ([]domain.User, error)
}

const userColumns = `u.uuid, u.email, u.password_hash, u.name, u.role, u.created_at, u.updated_at, u.deleted_at, u.active`

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (uuid, email, password_hash, name, role, created_at, updated_at, active)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		user.UUID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
		user.Active,
	)
	return err
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET email=$1, password_hash=$2, name=$3, role=$4, updated_at=$5, deleted_at=$6, active=$7
        WHERE uuid=$8`

	cmd, err := r.pool.Exec(ctx, query,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Role,
		user.UpdatedAt,
		user.DeletedAt,
		user.Active,
		user.UUID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return notFound(user.UUID)
	}
	return nil
}

func (r *userRepository) FindByUUID(ctx context.Context, uuid string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.uuid=$1 AND u.active`
	user, err := scanUser(r.pool.QueryRow(ctx, query, uuid))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound(uuid)
	}
	return user, err
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE LOWER(u.email)=LOWER($1) AND u.active`
	user, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound(fmt.Sprintf("The user %s was not found", email), nil)
	}
	return user, err
}

func (r *userRepository) FindByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error) {
	return r.list(ctx, `SELECT `+userColumns+` FROM users u WHERE u.role=$1 AND u.active ORDER BY u.created_at`, role)
}

func (r *userRepository) FindByWorkspace(ctx context.Context, workspaceUUID string) ([]domain.User, error) {
	return r.list(ctx, `SELECT `+userColumns+`
        FROM users u
        JOIN workspace_members m ON m.user_uuid = u.uuid
        JOIN workspaces w ON w.uuid = m.workspace_uuid AND w.active
        WHERE m.workspace_uuid=$1 AND u.active
        ORDER BY m.added_at`, workspaceUUID)
}

func (r *userRepository) list(ctx context.Context, query string, args ...any) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.UUID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.DeletedAt,
		&user.Active,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
