package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/order/dto"
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

func (r *PGRepository) Create(ctx context.Context, o *model.Order) error {
	query := `
        INSERT INTO orders (
            id, user_id, address_id, total, status, payment_method, payment_reference, created_at, updated_at
        )
        VALUES (
            :id, :user_id, :address_id, :total, :status, :payment_method, :payment_reference, :created_at, :updated_at
        )
    `
	_, err := r.conn(ctx).NamedExecContext(ctx, query, o)
	return err
}

func (r *PGRepository) CreateItems(ctx context.Context, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	query := `
        INSERT INTO order_items (id, order_id, product_id, quantity, price, created_at, updated_at)
        VALUES (:id, :order_id, :product_id, :quantity, :price, :created_at, :updated_at)
    `
	_, err := r.conn(ctx).NamedExecContext(ctx, query, items)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	if !postgres.ValidID(id) {
		return nil, nil
	}
	return r.findOne(ctx, `SELECT * FROM orders WHERE id = $1 LIMIT 1`, id)
}

func (r *PGRepository) FindByPaymentReference(ctx context.Context, ref string) (*model.Order, error) {
	if ref == "" {
		return nil, nil
	}
	return r.findOne(ctx, `SELECT * FROM orders WHERE payment_reference = $1 LIMIT 1`, ref)
}

func (r *PGRepository) findOne(ctx context.Context, query string, args ...interface{}) (*model.Order, error) {
	var o model.Order
	err := r.conn(ctx).GetContext(ctx, &o, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.OrderFilters) ([]model.Order, int, error) {
	orders := []model.Order{}
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.UserID != "" {
		if !postgres.ValidID(f.UserID) {
			return orders, 0, nil
		}
		conditions = append(conditions, "o.user_id = :user_id")
		args["user_id"] = f.UserID
	}
	if f.Status != "" {
		conditions = append(conditions, "o.status = :status")
		args["status"] = f.Status
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(o.id::text ILIKE :search OR u.name ILIKE :search OR u.email ILIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}
	if f.DateFrom != nil {
		conditions = append(conditions, "o.created_at >= :date_from")
		args["date_from"] = *f.DateFrom
	}
	if f.DateTo != nil {
		conditions = append(conditions, "o.created_at < :date_to")
		args["date_to"] = f.DateTo.AddDate(0, 0, 1)
	}

	from := " FROM orders o JOIN users u ON u.id = o.user_id"
	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	q := r.conn(ctx)
	if err := postgres.NamedGet(ctx, q, &count, "SELECT count(*)"+from+whereClause, args); err != nil {
		return nil, 0, err
	}

	query := "SELECT o.*" + from + whereClause + " ORDER BY o.created_at DESC, o.id DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	if err := postgres.NamedSelect(ctx, q, &orders, query, args); err != nil {
		return nil, 0, err
	}
	return orders, count, nil
}

func (r *PGRepository) FindItemsByOrderIDs(ctx context.Context, orderIDs []string) ([]model.OrderItem, error) {
	orderIDs = postgres.ValidIDs(orderIDs)
	items := []model.OrderItem{}
	if len(orderIDs) == 0 {
		return items, nil
	}
	err := postgres.NamedSelect(ctx, r.conn(ctx), &items,
		`SELECT * FROM order_items WHERE order_id IN (:ids) ORDER BY created_at, id`,
		map[string]interface{}{"ids": orderIDs})
	return items, err
}

func (r *PGRepository) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.conn(ctx).ExecContext(ctx,
		`UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	return err
}

func (r *PGRepository) SetPaymentReference(ctx context.Context, id, ref string) error {
	_, err := r.conn(ctx).ExecContext(ctx,
		`UPDATE orders SET payment_reference = $2, updated_at = NOW() WHERE id = $1`, id, ref)
	return err
}

func (r *PGRepository) MarkPaid(ctx context.Context, id string) (bool, error) {
	if !postgres.ValidID(id) {
		return false, nil
	}
	res, err := r.conn(ctx).ExecContext(ctx,
		`UPDATE orders SET status = 'paid', updated_at = NOW() WHERE id = $1 AND status = 'pending'`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
