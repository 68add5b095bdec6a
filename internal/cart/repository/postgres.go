package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-storefront/internal/model"
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

func (r *PGRepository) FindByUser(ctx context.Context, userID string) ([]model.CartItem, error) {
	items := []model.CartItem{}
	if !postgres.ValidID(userID) {
		return items, nil
	}
	query := `SELECT * FROM cart_items WHERE user_id = $1 ORDER BY created_at, id`
	err := r.conn(ctx).SelectContext(ctx, &items, query, userID)
	return items, err
}

func (r *PGRepository) LockByUser(ctx context.Context, userID string) ([]model.CartItem, error) {
	items := []model.CartItem{}
	if !postgres.ValidID(userID) {
		return items, nil
	}
	query := `SELECT * FROM cart_items WHERE user_id = $1 ORDER BY created_at, id FOR UPDATE`
	err := r.conn(ctx).SelectContext(ctx, &items, query, userID)
	return items, err
}

func (r *PGRepository) AddQuantity(ctx context.Context, item *model.CartItem) error {
	query := `
        INSERT INTO cart_items (id, user_id, product_id, quantity, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (user_id, product_id)
        DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity,
                      updated_at = EXCLUDED.updated_at
        RETURNING *
    `
	return r.conn(ctx).GetContext(ctx, item, query,
		item.ID, item.UserID, item.ProductID, item.Quantity, item.CreatedAt, item.UpdatedAt)
}

func (r *PGRepository) SetQuantity(ctx context.Context, userID, productID string, quantity int) (*model.CartItem, error) {
	if !postgres.ValidID(userID) || !postgres.ValidID(productID) {
		return nil, nil
	}
	var item model.CartItem
	query := `
        UPDATE cart_items
        SET quantity = $3, updated_at = NOW()
        WHERE user_id = $1 AND product_id = $2
        RETURNING *
    `
	err := r.conn(ctx).GetContext(ctx, &item, query, userID, productID, quantity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *PGRepository) Delete(ctx context.Context, userID, productID string) (int64, error) {
	if !postgres.ValidID(userID) || !postgres.ValidID(productID) {
		return 0, nil
	}
	res, err := r.conn(ctx).ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *PGRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	if !postgres.ValidID(userID) {
		return 0, nil
	}
	res, err := r.conn(ctx).ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
