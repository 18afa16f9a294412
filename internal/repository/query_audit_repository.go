package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/query-desk/internal/domain"
)

// QueryAuditRepository records applied status transitions.
type QueryAuditRepository interface {
	Create(ctx context.Context, entry *domain.QueryAuditEntry) error
	ListByQuery(ctx context.Context, queryID int64) ([]domain.QueryAuditEntry, error)
}

type queryAuditRepository struct {
	pool *pgxpool.Pool
}

// NewQueryAuditRepository returns a Postgres-backed implementation.
func NewQueryAuditRepository(pool *pgxpool.Pool) QueryAuditRepository {
	return &queryAuditRepository{pool: pool}
}

func (r *queryAuditRepository) Create(ctx context.Context, entry *domain.QueryAuditEntry) error {
	const query = `
        INSERT INTO query_audit (query_id, admin_id, new_status, amount)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		entry.QueryID,
		entry.AdminID,
		entry.NewStatus,
		entry.Amount,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *queryAuditRepository) ListByQuery(ctx context.Context, queryID int64) ([]domain.QueryAuditEntry, error) {
	const query = `
        SELECT id, query_id, admin_id, new_status, amount, created_at
        FROM query_audit
        WHERE query_id = $1
        ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, queryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.QueryAuditEntry
	for rows.Next() {
		var entry domain.QueryAuditEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.QueryID,
			&entry.AdminID,
			&entry.NewStatus,
			&entry.Amount,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
