package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// NamedSelect binds :name parameters from arg, expands slice arguments for
// IN clauses and selects into dest.
func NamedSelect(ctx context.Context, q DBTX, dest interface{}, query string, arg interface{}) error {
	bound, args, err := bindNamed(q, query, arg)
	if err != nil {
		return err
	}
	return q.SelectContext(ctx, dest, bound, args...)
}

// NamedGet is NamedSelect for a single row.
func NamedGet(ctx context.Context, q DBTX, dest interface{}, query string, arg interface{}) error {
	bound, args, err := bindNamed(q, query, arg)
	if err != nil {
		return err
	}
	return q.GetContext(ctx, dest, bound, args...)
}

func bindNamed(q DBTX, query string, arg interface{}) (string, []interface{}, error) {
	bound, args, err := sqlx.Named(query, arg)
	if err != nil {
		return "", nil, err
	}
	bound, args, err = sqlx.In(bound, args...)
	if err != nil {
		return "", nil, err
	}
	return q.Rebind(bound), args, nil
}
