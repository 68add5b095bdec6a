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

func (r *PGRepository) FindByUser(ctx context.Context, userID string) ([]model.Address, error) {
	addresses := []model.Address{}
	if !postgres.ValidID(userID) {
		return addresses, nil
	}
	query := `SELECT * FROM addresses WHERE user_id = $1 ORDER BY is_default DESC, created_at DESC, id DESC`
	err := r.conn(ctx).SelectContext(ctx, &addresses, query, userID)
	return addresses, err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Address, error) {
	if !postgres.ValidID(id) {
		return nil, nil
	}
	var a model.Address
	err := r.conn(ctx).GetContext(ctx, &a, `SELECT * FROM addresses WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *PGRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Address, error) {
	ids = postgres.ValidIDs(ids)
	addresses := []model.Address{}
	if len(ids) == 0 {
		return addresses, nil
	}
	err := postgres.NamedSelect(ctx, r.conn(ctx), &addresses,
		`SELECT * FROM addresses WHERE id IN (:ids)`, map[string]interface{}{"ids": ids})
	return addresses, err
}

func (r *PGRepository) Create(ctx context.Context, a *model.Address) error {
	query := `
        INSERT INTO addresses (
            id, user_id, address, postal_code, city, country, type, is_default, created_at, updated_at
        )
        VALUES (
            $1, $2, $3, $4, $5, $6, $7,
            NOT EXISTS (SELECT 1 FROM addresses WHERE user_id = $2),
            $8, $9
        )
        RETURNING is_default
    `
	return r.conn(ctx).GetContext(ctx, &a.IsDefault, query,
		a.ID, a.UserID, a.Address, a.PostalCode, a.City, a.Country, a.Type, a.CreatedAt, a.UpdatedAt)
}

func (r *PGRepository) Update(ctx context.Context, a *model.Address) error {
	query := `
        UPDATE addresses
        SET address = :address,
            postal_code = :postal_code,
            city = :city,
            country = :country,
            type = :type,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.conn(ctx).NamedExecContext(ctx, query, a)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.conn(ctx).ExecContext(ctx, `DELETE FROM addresses WHERE id = $1`, id)
	return err
}

func (r *PGRepository) ClearDefault(ctx context.Context, userID string) error {
	_, err := r.conn(ctx).ExecContext(ctx,
		`UPDATE addresses SET is_default = FALSE, updated_at = NOW() WHERE user_id = $1 AND is_default`, userID)
	return err
}

func (r *PGRepository) MarkDefault(ctx context.Context, id string) error {
	_, err := r.conn(ctx).ExecContext(ctx,
		`UPDATE addresses SET is_default = TRUE, updated_at = NOW() WHERE id = $1`, id)
	return err
}

func (r *PGRepository) PromoteLatest(ctx context.Context, userID string) error {
	query := `
        UPDATE addresses
        SET is_default = TRUE, updated_at = NOW()
        WHERE id = (
            SELECT id FROM addresses WHERE user_id = $1
            ORDER BY created_at DESC, id DESC
            LIMIT 1
        )
        AND NOT EXISTS (SELECT 1 FROM addresses WHERE user_id = $1 AND is_default)
    `
	_, err := r.conn(ctx).ExecContext(ctx, query, userID)
	return err
}
