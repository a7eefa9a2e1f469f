package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, o *Offering) error
	GetByID(ctx context.Context, id string) (*Offering, error)
	GetBySlug(ctx context.Context, slug string) (*Offering, error)
	List(ctx context.Context, filter Filter) ([]*Offering, int, error)
	Update(ctx context.Context, o *Offering) error
	// Categories returns the distinct categories of active offerings.
	Categories(ctx context.Context) ([]Category, error)
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var offeringColumns = []string{
	"id", "name", "slug", "description", "category", "price", "duration", "image",
	"is_active", "features", "requirements", "warranty", "created_at", "updated_at",
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func scanOffering(row pgx.Row, extra ...any) (*Offering, error) {
	var o Offering
	dest := []any{
		&o.ID, &o.Name, &o.Slug, &o.Description, &o.Category, &o.Price, &o.Duration, &o.Image,
		&o.IsActive, &o.Features, &o.Requirements, &o.Warranty, &o.CreatedAt, &o.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &o, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func mapWriteError(err error) error {
	var e *pgconn.PgError
	if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
		return ErrNameTaken
	}
	return err
}

func (r *pgxRepository) Create(ctx context.Context, o *Offering) error {
	query, args, err := psql.Insert("public.services").
		Columns(offeringColumns...).
		Values(o.ID, o.Name, o.Slug, o.Description, o.Category, o.Price, o.Duration, o.Image,
			o.IsActive, nonNil(o.Features), nonNil(o.Requirements), o.Warranty, o.CreatedAt, o.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build create service query failed: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		if mapped := mapWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("create service failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*Offering, error) {
	query, args, err := psql.Select(offeringColumns...).From("public.services").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get service query failed: %w", err)
	}

	o, err := scanOffering(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get service failed: %w", err)
	}
	return o, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Offering, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

func (r *pgxRepository) GetBySlug(ctx context.Context, slug string) (*Offering, error) {
	return r.getOne(ctx, squirrel.Eq{"slug": slug})
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Offering, int, error) {
	column, desc, ok := sortSpec(filter.Sort)
	if !ok {
		return nil, 0, ErrInvalidSort
	}

	where := squirrel.And{}
	if !filter.IncludeInactive {
		where = append(where, squirrel.Eq{"is_active": true})
	}
	if filter.Category != "" {
		where = append(where, squirrel.Eq{"category": filter.Category})
	}
	if filter.Search != "" {
		pattern := "%" + likeEscaper.Replace(filter.Search) + "%"
		where = append(where, squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"description": pattern},
		})
	}

	q := psql.Select(append(offeringColumns, "count(*) OVER() AS total_count")...).
		From("public.services").
		Where(where)

	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	q = q.OrderBy(column+" "+dir, "id ASC")

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 50
	}
	q = q.Limit(uint64(filter.PageSize)).Offset(uint64((filter.Page - 1) * filter.PageSize))

	query, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list services query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list services failed: %w", err)
	}
	defer rows.Close()

	var result []*Offering
	var total int
	for rows.Next() {
		o, err := scanOffering(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan service failed: %w", err)
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate services failed: %w", err)
	}

	// Past the last page the window count is absent.
	if len(result) == 0 && filter.Page > 1 {
		query, args, err := psql.Select("count(*)").From("public.services").Where(where).ToSql()
		if err != nil {
			return nil, 0, fmt.Errorf("build count services query failed: %w", err)
		}
		if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("count services failed: %w", err)
		}
	}

	return result, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, o *Offering) error {
	query, args, err := psql.Update("public.services").
		Set("name", o.Name).
		Set("slug", o.Slug).
		Set("description", o.Description).
		Set("category", o.Category).
		Set("price", o.Price).
		Set("duration", o.Duration).
		Set("image", o.Image).
		Set("is_active", o.IsActive).
		Set("features", nonNil(o.Features)).
		Set("requirements", nonNil(o.Requirements)).
		Set("warranty", o.Warranty).
		Set("updated_at", o.UpdatedAt).
		Where(squirrel.Eq{"id": o.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update service query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		if mapped := mapWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("update service failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Categories(ctx context.Context) ([]Category, error) {
	query, args, err := psql.Select("DISTINCT category").
		From("public.services").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("category").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build categories query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories failed: %w", err)
	}

	categories, err := pgx.CollectRows(rows, pgx.RowTo[Category])
	if err != nil {
		return nil, fmt.Errorf("scan categories failed: %w", err)
	}
	return categories, nil
}
