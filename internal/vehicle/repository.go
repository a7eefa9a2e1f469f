package vehicle

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, v *Vehicle) error
	GetByID(ctx context.Context, id string) (*Vehicle, error)
	List(ctx context.Context, filter Filter) ([]*Vehicle, int, error)
	Update(ctx context.Context, v *Vehicle) error
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var vehicleColumns = []string{
	"id", "user_id", "name", "brand", "model", "year", "registration_number", "color",
	"fuel_type", "transmission", "engine_capacity", "mileage", "image", "description",
	"is_active", "last_service_date", "next_service_due", "created_at", "updated_at",
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func scanVehicle(row pgx.Row, extra ...any) (*Vehicle, error) {
	var v Vehicle
	dest := []any{
		&v.ID, &v.UserID, &v.Name, &v.Brand, &v.Model, &v.Year, &v.RegistrationNumber, &v.Color,
		&v.FuelType, &v.Transmission, &v.EngineCapacity, &v.Mileage, &v.Image, &v.Description,
		&v.IsActive, &v.LastServiceDate, &v.NextServiceDue, &v.CreatedAt, &v.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &v, nil
}

func isUniqueViolation(err error) bool {
	var e *pgconn.PgError
	return errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation
}

func (r *pgxRepository) Create(ctx context.Context, v *Vehicle) error {
	query, args, err := psql.Insert("public.vehicles").
		Columns(vehicleColumns...).
		Values(v.ID, v.UserID, v.Name, v.Brand, v.Model, v.Year, v.RegistrationNumber, v.Color,
			v.FuelType, v.Transmission, v.EngineCapacity, v.Mileage, v.Image, v.Description,
			v.IsActive, v.LastServiceDate, v.NextServiceDue, v.CreatedAt, v.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build create vehicle query failed: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return ErrRegistrationTaken
		}
		return fmt.Errorf("create vehicle failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Vehicle, error) {
	query, args, err := psql.Select(vehicleColumns...).
		From("public.vehicles").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get vehicle query failed: %w", err)
	}

	v, err := scanVehicle(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get vehicle failed: %w", err)
	}
	return v, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Vehicle, int, error) {
	where := squirrel.And{}
	if filter.UserID != "" {
		where = append(where, squirrel.Eq{"user_id": filter.UserID})
	}
	if !filter.IncludeInactive {
		where = append(where, squirrel.Eq{"is_active": true})
	}

	q := psql.Select(append(vehicleColumns, "count(*) OVER() AS total_count")...).
		From("public.vehicles").
		Where(where)

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 50
	}
	q = q.OrderBy("created_at DESC", "id ASC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64((filter.Page - 1) * filter.PageSize))

	query, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list vehicles query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list vehicles failed: %w", err)
	}
	defer rows.Close()

	var result []*Vehicle
	var total int
	for rows.Next() {
		v, err := scanVehicle(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan vehicle failed: %w", err)
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate vehicles failed: %w", err)
	}

	if len(result) == 0 && filter.Page > 1 {
		query, args, err := psql.Select("count(*)").From("public.vehicles").Where(where).ToSql()
		if err != nil {
			return nil, 0, fmt.Errorf("build count vehicles query failed: %w", err)
		}
		if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("count vehicles failed: %w", err)
		}
	}

	return result, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, v *Vehicle) error {
	query, args, err := psql.Update("public.vehicles").
		SetMap(map[string]any{
			"name":                v.Name,
			"brand":               v.Brand,
			"model":               v.Model,
			"year":                v.Year,
			"registration_number": v.RegistrationNumber,
			"color":               v.Color,
			"fuel_type":           v.FuelType,
			"transmission":        v.Transmission,
			"engine_capacity":     v.EngineCapacity,
			"mileage":             v.Mileage,
			"image":               v.Image,
			"description":         v.Description,
			"is_active":           v.IsActive,
			"last_service_date":   v.LastServiceDate,
			"next_service_due":    v.NextServiceDue,
			"updated_at":          v.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": v.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update vehicle query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrRegistrationTaken
		}
		return fmt.Errorf("update vehicle failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
