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

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	FindByUUID(ctx context.Context, uuid string) (*domain.Ticket, error)
	FindAll(ctx context.Context) ([]domain.Ticket, error)
	Update(ctx context.Context, ticket *domain.Ticket) error
	FindByStatus(ctx context.Context, workspaceUUID string, status domain.TicketStatus) ([]domain.Ticket, error)
	FindByCreatedBy(ctx context.Context, createdByUUID string) ([]domain.Ticket, error)
	FindByWorkspace(ctx context.Context, workspaceUUID string) ([]domain.Ticket, error)
	FindPendingTickets(ctx context.Context) ([]domain.Ticket, error)
	FindByTicketNumber(ctx context.Context, ticketNumber string) (*domain.Ticket, error)
	GetNextSequenceNumber(ctx context.Context, year int, workspaceUUID string) (int, error)
	FindByStatusAndWorkspace(ctx context.Context, status domain.TicketStatus, workspaceUUID string) ([]domain.Ticket, error)
	BulkUpdateStatus(ctx context.Context, ticketUUIDs []string, status domain.TicketStatus) ([]domain.Ticket, error)
	FindAllByWorkspaceID(ctx context.Context, workspaceUUID string) ([]domain.Ticket, error)
}

const ticketColumns = `uuid, ticket_number, workspace_uuid, created_by_uuid, title, description,
               severity, status, severity_change_reason, due_date, created_at, updated_at, deleted_at, active`

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (uuid, ticket_number, workspace_uuid, created_by_uuid, title, description,
            severity, status, severity_change_reason, due_date, created_at, updated_at, active)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`
	_, err := r.pool.Exec(ctx, query,
		ticket.UUID,
		ticket.TicketNumber,
		ticket.WorkspaceUUID,
		ticket.CreatedByUUID,
		ticket.Title,
		ticket.Description,
		ticket.Severity,
		ticket.Status,
		ticket.SeverityChangeReason,
		ticket.DueDate,
		ticket.CreatedAt,
		ticket.UpdatedAt,
		ticket.Active,
	)
	return err
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET title=$1, description=$2, severity=$3, status=$4, severity_change_reason=$5,
            due_date=$6, updated_at=$7, deleted_at=$8, active=$9
        WHERE uuid=$10`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Severity,
		ticket.Status,
		ticket.SeverityChangeReason,
		ticket.DueDate,
		ticket.UpdatedAt,
		ticket.DeletedAt,
		ticket.Active,
		ticket.UUID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return notFound(ticket.UUID)
	}
	return nil
}

func (r *ticketRepository) FindByUUID(ctx context.Context, uuid string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE uuid=$1 AND active`
	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, uuid))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound(uuid)
	}
	return ticket, err
}

func (r *ticketRepository) FindByTicketNumber(ctx context.Context, ticketNumber string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE ticket_number=$1 AND active LIMIT 1`
	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, ticketNumber))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound(fmt.Sprintf("The ticket %s was not found", ticketNumber), nil)
	}
	return ticket, err
}

func (r *ticketRepository) FindAll(ctx context.Context) ([]domain.Ticket, error) {
	return r.list(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE active ORDER BY created_at DESC`)
}

// FindByStatus lists active tickets with status; an empty workspaceUUID spans all workspaces.
func (r *ticketRepository) FindByStatus(ctx context.Context, workspaceUUID string, status domain.TicketStatus) ([]domain.Ticket, error) {
	if workspaceUUID == "" {
		return r.list(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE status=$1 AND active ORDER BY created_at`, status)
	}
	return r.FindByStatusAndWorkspace(ctx, status, workspaceUUID)
}

func (r *ticketRepository) FindByStatusAndWorkspace(ctx context.Context, status domain.TicketStatus, workspaceUUID string) ([]domain.Ticket, error) {
	return r.list(ctx, `SELECT `+ticketColumns+`
        FROM tickets WHERE status=$1 AND workspace_uuid=$2 AND active ORDER BY created_at`, status, workspaceUUID)
}

func (r *ticketRepository) FindByCreatedBy(ctx context.Context, createdByUUID string) ([]domain.Ticket, error) {
	return r.list(ctx, `SELECT `+ticketColumns+`
        FROM tickets WHERE created_by_uuid=$1 AND active ORDER BY created_at DESC`, createdByUUID)
}

func (r *ticketRepository) FindByWorkspace(ctx context.Context, workspaceUUID string) ([]domain.Ticket, error) {
	return r.list(ctx, `SELECT `+ticketColumns+`
        FROM tickets WHERE workspace_uuid=$1 AND active ORDER BY created_at DESC`, workspaceUUID)
}

// FindAllByWorkspaceID includes soft-deleted tickets.
func (r *ticketRepository) FindAllByWorkspaceID(ctx context.Context, workspaceUUID string) ([]domain.Ticket, error) {
	return r.list(ctx, `SELECT `+ticketColumns+`
        FROM tickets WHERE workspace_uuid=$1 ORDER BY created_at DESC`, workspaceUUID)
}

func (r *ticketRepository) FindPendingTickets(ctx context.Context) ([]domain.Ticket, error) {
	return r.FindByStatus(ctx, "", domain.TicketStatusPending)
}

// GetNextSequenceNumber orders by ticket_number as text, so TKT-2025-1000000
// sorts before TKT-2025-999999.
func (r *ticketRepository) GetNextSequenceNumber(ctx context.Context, year int, workspaceUUID string) (int, error) {
	const query = `
        SELECT ticket_number FROM tickets
        WHERE ticket_number LIKE $1 AND workspace_uuid=$2 AND active
        ORDER BY ticket_number DESC LIMIT 1`
	var last string
	err := r.pool.QueryRow(ctx, query, domain.TicketNumberPrefix(year)+"%", workspaceUUID).Scan(&last)
	if errors.Is(err, pgx.ErrNoRows) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return domain.NextSequenceAfter(last), nil
}

func (r *ticketRepository) BulkUpdateStatus(ctx context.Context, ticketUUIDs []string, status domain.TicketStatus) ([]domain.Ticket, error) {
	if len(ticketUUIDs) == 0 {
		return []domain.Ticket{}, nil
	}
	const update = `UPDATE tickets SET status=$1, updated_at=NOW() WHERE uuid = ANY($2) AND active`
	if _, err := r.pool.Exec(ctx, update, status, ticketUUIDs); err != nil {
		return nil, err
	}
	return r.list(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE uuid = ANY($1) AND active`, ticketUUIDs)
}

func (r *ticketRepository) list(ctx context.Context, query string, args ...any) ([]domain.Ticket, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := []domain.Ticket{}
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *ticket)
	}
	return tickets, rows.Err()
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.UUID,
		&ticket.TicketNumber,
		&ticket.WorkspaceUUID,
		&ticket.CreatedByUUID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Severity,
		&ticket.Status,
		&ticket.SeverityChangeReason,
		&ticket.DueDate,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.DeletedAt,
		&ticket.Active,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func notFound(uuid string) error {
	return apperrors.NewNotFound(fmt.Sprintf("The entity %s was not found", uuid), map[string]any{"uuid": uuid})
}
