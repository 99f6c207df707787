package scope

import (
	"context"
	"errors"
	"maps"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/tenantkit/pkg/pg"
)

// DBTX is the query surface PgStore needs.
type DBTX = pg.DBTX

// PgStore is a Store over a PostgreSQL table. Rows are scanned into E by
// column name, so E's db tags must match the table.
type PgStore[E any, T interface {
	*E
	Entity
}] struct {
	db    DBTX
	table Table[T]
	psql  sq.StatementBuilderType
}

// NewPgStore creates a PgStore for table.
func NewPgStore[E any, T interface {
	*E
	Entity
}](db DBTX, table Table[T]) *PgStore[E, T] {
	return &PgStore[E, T]{
		db:    db,
		table: table,
		psql:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (s *PgStore[E, T]) Insert(ctx context.Context, e T) error {
	query, args, err := s.psql.Insert(s.table.Name).
		SetMap(s.table.Values(e)).
		Suffix("RETURNING *").
		ToSql()
	if err != nil {
		return errors.Join(ErrStore, err)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return mapError(err)
	}
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[E])
	if err != nil {
		return mapError(err)
	}
	*e = *row

	return nil
}

func (s *PgStore[E, T]) Select(ctx context.Context, q Query) ([]T, error) {
	b := s.psql.Select("*").From(s.table.Name).Where(q.Where)
	if len(q.OrderBy) > 0 {
		b = b.OrderBy(q.OrderBy...)
	} else {
		b = b.OrderBy("id")
	}
	if q.Limit > 0 {
		b = b.Limit(q.Limit)
	}
	if q.Offset > 0 {
		b = b.Offset(q.Offset)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, errors.Join(ErrStore, err)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[E])
	if err != nil {
		return nil, mapError(err)
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		out = append(out, T(item))
	}
	return out, nil
}

func (s *PgStore[E, T]) Update(ctx context.Context, where sq.Eq, e T) (int64, error) {
	set := maps.Clone(s.table.Values(e))
	delete(set, DefaultColumn)
	delete(set, "id")

	b := s.psql.Update(s.table.Name).SetMap(set).Where(where)
	if s.table.Timestamps {
		b = b.Set("updated_at", sq.Expr("now()"))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return 0, errors.Join(ErrStore, err)
	}
	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, mapError(err)
	}
	return tag.RowsAffected(), nil
}

func (s *PgStore[E, T]) Delete(ctx context.Context, where sq.Eq) (int64, error) {
	query, args, err := s.psql.Delete(s.table.Name).Where(where).ToSql()
	if err != nil {
		return 0, errors.Join(ErrStore, err)
	}
	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, mapError(err)
	}
	return tag.RowsAffected(), nil
}

func (s *PgStore[E, T]) Count(ctx context.Context, where sq.Eq) (int64, error) {
	query, args, err := s.psql.Select("count(*)").From(s.table.Name).Where(where).ToSql()
	if err != nil {
		return 0, errors.Join(ErrStore, err)
	}
	var n int64
	if err := s.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, mapError(err)
	}
	return n, nil
}

func mapError(err error) error {
	switch {
	case pg.IsNotFoundError(err):
		return ErrNotFound
	case pg.IsDuplicateKeyError(err):
		return errors.Join(ErrDuplicate, err)
	default:
		return errors.Join(ErrStore, err)
	}
}
