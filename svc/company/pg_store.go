package company

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/tenantkit/pkg/pg"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

const table = "companies"

// PgStore is a Store over the companies table.
type PgStore struct {
	db   pg.DBTX
	psql sq.StatementBuilderType
}

func NewPgStore(db pg.DBTX) *PgStore {
	return &PgStore{db: db, psql: sq.StatementBuilder.PlaceholderFormat(sq.Dollar)}
}

func (s *PgStore) Create(ctx context.Context, c *tenant.Tenant) error {
	q := s.psql.Insert(table).
		SetMap(map[string]any{"name": c.Name, "email": c.Email, "phone": c.Phone}).
		Suffix("RETURNING *")
	return s.one(ctx, q, c)
}

func (s *PgStore) GetByID(ctx context.Context, id int64) (*tenant.Tenant, error) {
	var c tenant.Tenant
	if err := s.one(ctx, s.psql.Select("*").From(table).Where(sq.Eq{"id": id}), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *PgStore) GetByEmail(ctx context.Context, email string) (*tenant.Tenant, error) {
	var c tenant.Tenant
	q := s.psql.Select("*").From(table).Where(sq.Expr("lower(email) = lower(?)", email))
	if err := s.one(ctx, q, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *PgStore) List(ctx context.Context, limit, offset int) ([]*tenant.Tenant, error) {
	q := s.psql.Select("*").From(table).OrderBy("id").Offset(uint64(max(offset, 0)))
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	return s.many(ctx, q)
}

func (s *PgStore) ListAfter(ctx context.Context, afterID int64, limit int) ([]*tenant.Tenant, error) {
	q := s.psql.Select("*").From(table).Where(sq.Gt{"id": afterID}).OrderBy("id")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	return s.many(ctx, q)
}

func (s *PgStore) Update(ctx context.Context, c *tenant.Tenant) error {
	q := s.psql.Update(table).
		SetMap(map[string]any{
			"name":       c.Name,
			"email":      c.Email,
			"phone":      c.Phone,
			"updated_at": sq.Expr("now()"),
		}).
		Where(sq.Eq{"id": c.ID}).
		Suffix("RETURNING *")
	return s.one(ctx, q, c)
}

func (s *PgStore) Delete(ctx context.Context, id int64) error {
	query, args, err := s.psql.Delete(table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return errors.Join(ErrStore, err)
	}
	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PgStore) one(ctx context.Context, b sq.Sqlizer, dst *tenant.Tenant) error {
	query, args, err := b.ToSql()
	if err != nil {
		return errors.Join(ErrStore, err)
	}
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return mapError(err)
	}
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[tenant.Tenant])
	if err != nil {
		return mapError(err)
	}
	*dst = row
	return nil
}

func (s *PgStore) many(ctx context.Context, b sq.SelectBuilder) ([]*tenant.Tenant, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, errors.Join(ErrStore, err)
	}
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[tenant.Tenant])
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func mapError(err error) error {
	switch {
	case pg.IsNotFoundError(err):
		return ErrNotFound
	case pg.IsDuplicateKeyError(err):
		return errors.Join(ErrEmailTaken, err)
	default:
		return errors.Join(ErrStore, err)
	}
}
