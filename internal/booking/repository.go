package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	Update(ctx context.Context, b *Booking) error
	Delete(ctx context.Context, id string) error
	// HasActiveSlot reports whether another active booking holds the slot.
	HasActiveSlot(ctx context.Context, vehicleID string, date time.Time, clock, excludeID string) (bool, error)
	Totals(ctx context.Context) (Totals, error)
	RatingSummary(ctx context.Context, serviceID string) (RatingSummary, error)
}

const activeSlotConstraint = "bookings_active_slot_key"

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var bookingColumns = []string{
	"id", "user_id", "service_id", "vehicle_id", "scheduled_date", "scheduled_time", "status",
	"total_amount", "payment_status", "payment_method", "special_instructions", "technician_notes",
	"completion_notes", "rating", "review", "cancellation_reason", "cancelled_by", "created_at", "updated_at",
}

func activeStatusValues() []string {
	out := make([]string, len(ActiveStatuses))
	for i, s := range ActiveStatuses {
		out[i] = string(s)
	}
	return out
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func scanBooking(row pgx.Row, extra ...any) (*Booking, error) {
	var b Booking
	dest := []any{
		&b.ID, &b.UserID, &b.ServiceID, &b.VehicleID, &b.ScheduledDate, &b.ScheduledTime, &b.Status,
		&b.TotalAmount, &b.PaymentStatus, &b.PaymentMethod, &b.SpecialInstructions, &b.TechnicianNotes,
		&b.CompletionNotes, &b.Rating, &b.Review, &b.CancellationReason, &b.CancelledBy, &b.CreatedAt, &b.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &b, nil
}

// mapWriteError turns a violation of the active slot index into ErrSlotConflict.
func mapWriteError(err error) error {
	var e *pgconn.PgError
	if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation && e.ConstraintName == activeSlotConstraint {
		return ErrSlotConflict
	}
	return nil
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	query, args, err := psql.Insert("public.bookings").
		Columns(bookingColumns...).
		Values(b.ID, b.UserID, b.ServiceID, b.VehicleID, b.ScheduledDate, b.ScheduledTime, b.Status,
			b.TotalAmount, b.PaymentStatus, b.PaymentMethod, b.SpecialInstructions, b.TechnicianNotes,
			b.CompletionNotes, b.Rating, b.Review, b.CancellationReason, b.CancelledBy, b.CreatedAt, b.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		if mapped := mapWriteError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("create booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query, args, err := psql.Select(bookingColumns...).
		From("public.bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func filterWhere(filter Filter) squirrel.And {
	where := squirrel.And{}
	if filter.UserID != "" {
		where = append(where, squirrel.Eq{"user_id": filter.UserID})
	}
	if filter.ServiceID != "" {
		where = append(where, squirrel.Eq{"service_id": filter.ServiceID})
	}
	if filter.Status != "" {
		where = append(where, squirrel.Eq{"status": filter.Status})
	}
	if filter.RatedOnly {
		where = append(where, squirrel.NotEq{"rating": nil})
	}
	return where
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	where := filterWhere(filter)
	q := psql.Select(append(bookingColumns, "count(*) OVER() AS total_count")...).
		From("public.bookings").
		Where(where)

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 10
	}
	q = q.OrderBy("created_at DESC", "id ASC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64((filter.Page - 1) * filter.PageSize))

	query, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int
	for rows.Next() {
		b, err := scanBooking(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate bookings failed: %w", err)
	}

	// A page past the end carries no window count.
	if len(bookings) == 0 && filter.Page > 1 {
		if total, err = r.count(ctx, where); err != nil {
			return nil, 0, err
		}
	}

	return bookings, total, nil
}

func (r *pgxRepository) count(ctx context.Context, where squirrel.Sqlizer) (int, error) {
	query, args, err := psql.Select("count(*)").From("public.bookings").Where(where).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count bookings query failed: %w", err)
	}

	var n int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count bookings failed: %w", err)
	}
	return n, nil
}

func (r *pgxRepository) Update(ctx context.Context, b *Booking) error {
	query, args, err := psql.Update("public.bookings").
		Set("status", b.Status).
		Set("payment_status", b.PaymentStatus).
		Set("technician_notes", b.TechnicianNotes).
		Set("completion_notes", b.CompletionNotes).
		Set("rating", b.Rating).
		Set("review", b.Review).
		Set("cancellation_reason", b.CancellationReason).
		Set("cancelled_by", b.CancelledBy).
		Set("updated_at", b.UpdatedAt).
		Where(squirrel.Eq{"id": b.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		if mapped := mapWriteError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("update booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete("public.bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete booking query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) HasActiveSlot(ctx context.Context, vehicleID string, date time.Time, clock, excludeID string) (bool, error) {
	subQuery := psql.Select("1").
		From("public.bookings").
		Where(squirrel.Eq{
			"vehicle_id":     vehicleID,
			"scheduled_date": date,
			"scheduled_time": clock,
			"status":         activeStatusValues(),
		})
	if excludeID != "" {
		subQuery = subQuery.Where(squirrel.NotEq{"id": excludeID})
	}

	sql, args, err := subQuery.ToSql()
	if err != nil {
		return false, fmt.Errorf("build slot check query failed: %w", err)
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, "SELECT EXISTS ("+sql+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("slot check failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) Totals(ctx context.Context) (Totals, error) {
	query, args, err := psql.Select(
		"count(*)",
		"count(*) FILTER (WHERE status = 'pending')",
		"count(*) FILTER (WHERE status = 'completed')",
		"COALESCE(sum(total_amount) FILTER (WHERE status = 'completed'), 0)",
	).From("public.bookings").ToSql()
	if err != nil {
		return Totals{}, fmt.Errorf("build totals query failed: %w", err)
	}

	var t Totals
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&t.Total, &t.Pending, &t.Completed, &t.Revenue); err != nil {
		return Totals{}, fmt.Errorf("booking totals failed: %w", err)
	}
	return t, nil
}

func (r *pgxRepository) RatingSummary(ctx context.Context, serviceID string) (RatingSummary, error) {
	query, args, err := psql.Select("COALESCE(avg(rating), 0)::float8", "count(rating)").
		From("public.bookings").
		Where(squirrel.Eq{"service_id": serviceID, "status": StatusCompleted}).
		Where(squirrel.NotEq{"rating": nil}).
		ToSql()
	if err != nil {
		return RatingSummary{}, fmt.Errorf("build rating summary query failed: %w", err)
	}

	var s RatingSummary
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&s.Average, &s.Count); err != nil {
		return RatingSummary{}, fmt.Errorf("rating summary failed: %w", err)
	}
	return s, nil
}
