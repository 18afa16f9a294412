package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/query-desk/internal/domain"
)

// QueryRepository encapsulates query persistence. Every method issues exactly
// one round trip; failures surface to the caller as-is.
type QueryRepository interface {
	Create(ctx context.Context, ownerID int64, title, queryType, description string) (int64, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Query, error)
	ListByOwnerAndStatus(ctx context.Context, ownerID int64, status domain.QueryStatus) ([]domain.Query, error)
	ListAll(ctx context.Context) ([]domain.AdminQuery, error)
	ListAllByStatus(ctx context.Context, status domain.QueryStatus) ([]domain.AdminQuery, error)
	ApplyTransition(ctx context.Context, id int64, status domain.QueryStatus, amount *float64, paymentLink *string) (int64, error)
}

type queryRepository struct {
	pool *pgxpool.Pool
}

// NewQueryRepository instantiates repository.
func NewQueryRepository(pool *pgxpool.Pool) QueryRepository {
	return &queryRepository{pool: pool}
}

// Payment fields are projected away unless the row's status exposes them.
const queryColumns = `
        q.id, q.user_id, q.title, q.query_type, q.description, q.status, q.created_at,
        CASE WHEN q.status IN ('in_progress', 'resolved') THEN q.amount ELSE NULL END AS amount,
        CASE WHEN q.status IN ('in_progress', 'resolved') THEN q.payment_link ELSE NULL END AS payment_link`

func (r *queryRepository) Create(ctx context.Context, ownerID int64, title, queryType, description string) (int64, error) {
	const query = `
        INSERT INTO queries (user_id, title, query_type, description)
        VALUES ($1, $2, $3, $4)
        RETURNING id`
	var id int64
	if err := r.pool.QueryRow(ctx, query, ownerID, title, queryType, description).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *queryRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Query, error) {
	query := `
        SELECT` + queryColumns + `
        FROM queries q
        WHERE q.user_id = $1
        ORDER BY q.created_at DESC`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanQueries(rows)
}

func (r *queryRepository) ListByOwnerAndStatus(ctx context.Context, ownerID int64, status domain.QueryStatus) ([]domain.Query, error) {
	query := `
        SELECT` + queryColumns + `
        FROM queries q
        WHERE q.user_id = $1 AND q.status = $2
        ORDER BY q.created_at DESC`
	rows, err := r.pool.Query(ctx, query, ownerID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanQueries(rows)
}

func (r *queryRepository) ListAll(ctx context.Context) ([]domain.AdminQuery, error) {
	query := `
        SELECT` + queryColumns + `, u.name, u.email
        FROM queries q
        JOIN users u ON q.user_id = u.id
        ORDER BY q.created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAdminQueries(rows)
}

func (r *queryRepository) ListAllByStatus(ctx context.Context, status domain.QueryStatus) ([]domain.AdminQuery, error) {
	query := `
        SELECT` + queryColumns + `, u.name, u.email
        FROM queries q
        JOIN users u ON q.user_id = u.id
        WHERE q.status = $1
        ORDER BY q.created_at DESC`
	rows, err := r.pool.Query(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAdminQueries(rows)
}

// ApplyTransition writes payment fields together with the status only for
// in_progress; any other target updates the status alone, leaving previously
// stored values untouched.
func (r *queryRepository) ApplyTransition(ctx context.Context, id int64, status domain.QueryStatus, amount *float64, paymentLink *string) (int64, error) {
	if status == domain.QueryStatusInProgress {
		const query = `
        UPDATE queries
        SET status = $1, amount = $2, payment_link = $3
        WHERE id = $4`
		cmd, err := r.pool.Exec(ctx, query, status, amount, paymentLink, id)
		if err != nil {
			return 0, err
		}
		return cmd.RowsAffected(), nil
	}

	const query = `
        UPDATE queries
        SET status = $1
        WHERE id = $2`
	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func scanQueries(rows pgx.Rows) ([]domain.Query, error) {
	var result []domain.Query
	for rows.Next() {
		var q domain.Query
		if err := rows.Scan(
			&q.ID,
			&q.OwnerID,
			&q.Title,
			&q.QueryType,
			&q.Description,
			&q.Status,
			&q.CreatedAt,
			&q.Amount,
			&q.PaymentLink,
		); err != nil {
			return nil, err
		}
		result = append(result, q)
	}
	return result, rows.Err()
}

func scanAdminQueries(rows pgx.Rows) ([]domain.AdminQuery, error) {
	var result []domain.AdminQuery
	for rows.Next() {
		var q domain.AdminQuery
		if err := rows.Scan(
			&q.ID,
			&q.OwnerID,
			&q.Title,
			&q.QueryType,
			&q.Description,
			&q.Status,
			&q.CreatedAt,
			&q.Amount,
			&q.PaymentLink,
			&q.OwnerName,
			&q.OwnerEmail,
		); err != nil {
			return nil, err
		}
		result = append(result, q)
	}
	return result, rows.Err()
}
