package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// DefaultRecentActivityLimit caps the activity feed when no limit is given.
const DefaultRecentActivityLimit = 10

// TicketHistoryRepository stores audit entries. It is append-only.
type TicketHistoryRepository interface {
	Create(ctx context.Context, history *domain.TicketHistory) error
	FindByTicket(ctx context.Context, ticketUUID string) ([]domain.TicketHistory, error)
	FindByUser(ctx context.Context, userUUID string) ([]domain.TicketHistory, error)
	FindRecentActivity(ctx context.Context, limit int) ([]domain.TicketHistory, error)
}

const historyColumns = `uuid, ticket_uuid, user_uuid, previous_status, new_status, previous_severity, new_severity,
               change_reason, previous_title, new_title, previous_description, new_description,
               created_at, updated_at, deleted_at, active`

type ticketHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewTicketHistoryRepository builds repository.
func NewTicketHistoryRepository(pool *pgxpool.Pool) TicketHistoryRepository {
	return &ticketHistoryRepository{pool: pool}
}

func (r *ticketHistoryRepository) Create(ctx context.Context, history *domain.TicketHistory) error {
	const query = `
        INSERT INTO ticket_history (uuid, ticket_uuid, user_uuid, previous_status, new_status,
            previous_severity, new_severity, change_reason, previous_title, new_title,
            previous_description, new_description, created_at, updated_at, active)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`
	_, err := r.pool.Exec(ctx, query,
		history.UUID,
		history.TicketUUID,
		history.UserUUID,
		history.PreviousStatus,
		history.NewStatus,
		history.PreviousSeverity,
		history.NewSeverity,
		history.ChangeReason,
		history.PreviousTitle,
		history.NewTitle,
		history.PreviousDescription,
		history.NewDescription,
		history.CreatedAt,
		history.UpdatedAt,
		history.Active,
	)
	return err
}

func (r *ticketHistoryRepository) FindByTicket(ctx context.Context, ticketUUID string) ([]domain.TicketHistory, error) {
	return r.list(ctx, `SELECT `+historyColumns+`
        FROM ticket_history WHERE ticket_uuid=$1 AND active ORDER BY created_at DESC`, ticketUUID)
}

func (r *ticketHistoryRepository) FindByUser(ctx context.Context, userUUID string) ([]domain.TicketHistory, error) {
	return r.list(ctx, `SELECT `+historyColumns+`
        FROM ticket_history WHERE user_uuid=$1 AND active ORDER BY created_at DESC`, userUUID)
}

func (r *ticketHistoryRepository) FindRecentActivity(ctx context.Context, limit int) ([]domain.TicketHistory, error) {
	if limit <= 0 {
		limit = DefaultRecentActivityLimit
	}
	return r.list(ctx, `SELECT `+historyColumns+`
        FROM ticket_history WHERE active ORDER BY created_at DESC LIMIT $1`, limit)
}

func (r *ticketHistoryRepository) list(ctx context.Context, query string, args ...any) ([]domain.TicketHistory, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.TicketHistory{}
	for rows.Next() {
		history, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *history)
	}
	return result, rows.Err()
}

func scanHistory(row pgx.Row) (*domain.TicketHistory, error) {
	var history domain.TicketHistory
	if err := row.Scan(
		&history.UUID,
		&history.TicketUUID,
		&history.UserUUID,
		&history.PreviousStatus,
		&history.NewStatus,
		&history.PreviousSeverity,
		&history.NewSeverity,
		&history.ChangeReason,
		&history.PreviousTitle,
		&history.NewTitle,
		&history.PreviousDescription,
		&history.NewDescription,
		&history.CreatedAt,
		&history.UpdatedAt,
		&history.DeletedAt,
		&history.Active,
	); err != nil {
		return nil, err
	}
	return &history, nil
}
