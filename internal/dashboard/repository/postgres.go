package repository

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/dashboard/dto"
	"github.com/fekuna/omnipos-storefront/pkg/database/postgres"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) conn(ctx context.Context) postgres.DBTX {
	return postgres.Conn(ctx, r.DB)
}

func (r *PGRepository) Counts(ctx context.Context) (*dto.Counts, error) {
	query := `
        SELECT
            (SELECT count(*) FROM products) AS products,
            (SELECT count(*) FROM categories) AS categories,
            (SELECT count(*) FROM users) AS users,
            (SELECT count(*) FROM users WHERE role = 'customer') AS customers,
            (SELECT count(*) FROM users WHERE role = 'admin') AS admins,
            (SELECT count(*) FROM orders) AS orders
    `
	var c dto.Counts
	if err := r.conn(ctx).GetContext(ctx, &c, query); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PGRepository) OrderStatusCounts(ctx context.Context) (map[string]int, error) {
	var rows []struct {
		Status string `db:"status"`
		Count  int    `db:"count"`
	}
	err := r.conn(ctx).SelectContext(ctx, &rows, `SELECT status, count(*) AS count FROM orders GROUP BY status`)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *PGRepository) Sales(ctx context.Context, monthStart, dayStart time.Time) (*dto.Sales, error) {
	query := `
        SELECT
            COALESCE(SUM(total), 0) AS total,
            COALESCE(SUM(total) FILTER (WHERE created_at >= $1), 0) AS monthly,
            COALESCE(SUM(total) FILTER (WHERE created_at >= $2), 0) AS daily
        FROM orders
        WHERE status <> 'canceled'
    `
	var s dto.Sales
	if err := r.conn(ctx).GetContext(ctx, &s, query, monthStart, dayStart); err != nil {
		return nil, err
	}
	return &s, nil
}
