// Package store is the only place that talks SQL. Callers describe reads and writes with
// structured predicates and the store compiles them for Postgres.
package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

const (
	TablePlaybooks    = "playbooks"
	TableCategories   = "playbook_categories"
	TableTags         = "tags"
	TablePlaybookTags = "playbook_tags"
	TableComments     = "playbook_comments"
	TableProducts     = "products"
	TableProductLinks = "product_links"
	TableContacts     = "contact_submissions"
)

var ErrNotFound = errors.New("record not found")

type Store interface {
	Select(ctx context.Context, dest any, q Query) error
	Get(ctx context.Context, dest any, q Query) error
	Insert(ctx context.Context, table string, values Values) (int64, error)
	InsertMany(ctx context.Context, table string, rows []Values) error
	Update(ctx context.Context, table string, values Values, filters ...Filter) (int64, error)
	Delete(ctx context.Context, table string, filters ...Filter) (int64, error)
}

type SQLStore struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Select(ctx context.Context, dest any, q Query) error {
	query, args, err := buildSelect(q)
	if err != nil {
		return err
	}
	return s.db.SelectContext(ctx, dest, query, args...)
}

// Get loads the first matching row into dest and returns ErrNotFound when nothing matches.
func (s *SQLStore) Get(ctx context.Context, dest any, q Query) error {
	query, args, err := buildSelect(q.Take(1))
	if err != nil {
		return err
	}
	err = s.db.GetContext(ctx, dest, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// Insert writes one row and returns its id column.
func (s *SQLStore) Insert(ctx context.Context, table string, values Values) (int64, error) {
	query, args, err := buildInsert(table, []Values{values}, "id")
	if err != nil {
		return 0, err
	}
	var id int64
	if err := s.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *SQLStore) InsertMany(ctx context.Context, table string, rows []Values) error {
	if len(rows) == 0 {
		return nil
	}
	query, args, err := buildInsert(table, rows, "")
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

func (s *SQLStore) Update(ctx context.Context, table string, values Values, filters ...Filter) (int64, error) {
	query, args, err := buildUpdate(table, values, filters)
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SQLStore) Delete(ctx context.Context, table string, filters ...Filter) (int64, error) {
	query, args, err := buildDelete(table, filters)
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
