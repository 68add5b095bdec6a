package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/user/dto"
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

func (r *PGRepository) Create(ctx context.Context, u *model.User) error {
	query := `
        INSERT INTO users (id, name, email, password_hash, role, created_at, updated_at)
        VALUES (:id, :name, :email, :password_hash, :role, :created_at, :updated_at)
    `
	_, err := r.conn(ctx).NamedExecContext(ctx, query, u)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	if !postgres.ValidID(id) {
		return nil, nil
	}
	var u model.User
	err := r.conn(ctx).GetContext(ctx, &u, `SELECT * FROM users WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *PGRepository) FindByIDs(ctx context.Context, ids []string) ([]model.User, error) {
	ids = postgres.ValidIDs(ids)
	users := []model.User{}
	if len(ids) == 0 {
		return users, nil
	}
	err := postgres.NamedSelect(ctx, r.conn(ctx), &users,
		`SELECT * FROM users WHERE id IN (:ids)`, map[string]interface{}{"ids": ids})
	return users, err
}

func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := r.conn(ctx).GetContext(ctx, &u, `SELECT * FROM users WHERE email = $1 LIMIT 1`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.UserFilters) ([]model.User, int, error) {
	users := []model.User{}
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.Role != "" {
		conditions = append(conditions, "u.role = :role")
		args["role"] = f.Role
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(u.name ILIKE :search OR u.email ILIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	q := r.conn(ctx)
	if err := postgres.NamedGet(ctx, q, &count, "SELECT count(*) FROM users u"+whereClause, args); err != nil {
		return nil, 0, err
	}

	query := `
        SELECT u.*,
            (SELECT count(*) FROM orders o WHERE o.user_id = u.id) AS orders_count,
            (SELECT count(*) FROM addresses a WHERE a.user_id = u.id) AS addresses_count
        FROM users u` + whereClause + ` ORDER BY u.created_at DESC`

	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	if err := postgres.NamedSelect(ctx, q, &users, query, args); err != nil {
		return nil, 0, err
	}
	return users, count, nil
}

func (r *PGRepository) Update(ctx context.Context, u *model.User) error {
	query := `
        UPDATE users
        SET name = :name,
            email = :email,
            password_hash = :password_hash,
            role = :role,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.conn(ctx).NamedExecContext(ctx, query, u)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.conn(ctx).ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
	return err
}

func (r *PGRepository) IsEmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	var count int
	query := `SELECT count(*) FROM users WHERE email = $1`
	args := []interface{}{email}
	if excludeID != "" {
		query += ` AND id != $2`
		args = append(args, excludeID)
	}

	if err := r.conn(ctx).GetContext(ctx, &count, query, args...); err != nil {
		return false, err
	}
	return count > 0, nil
}
