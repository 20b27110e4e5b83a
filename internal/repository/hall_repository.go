// Package repository holds the data access layer over MySQL. All
// repositories translate driver errors into the domain error kinds so
// handlers never inspect sql sentinels directly.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hall-reservation/internal/booking"
)

// HallRepo provides persistence for halls. It implements
// booking.HallStore.
type HallRepo struct {
	db *sql.DB
}

// NewHallRepo constructs a HallRepo with the given DB handle.
func NewHallRepo(db *sql.DB) *HallRepo { return &HallRepo{db: db} }

// DB exposes the underlying handle.
func (r *HallRepo) DB() *sql.DB { return r.db }

const hallColumns = `id, name, hall_type, capacity, is_available, description, created_at, updated_at`

func scanHall(row interface{ Scan(...any) error }) (*booking.Hall, error) {
	var h booking.Hall
	var desc sql.NullString
	if err := row.Scan(&h.ID, &h.Name, &h.HallType, &h.Capacity, &h.IsAvailable, &desc, &h.CreatedAt, &h.UpdatedAt); err != nil {
		return nil, err
	}
	if desc.Valid {
		d := desc.String
		h.Description = &d
	}
	return &h, nil
}

// GetHall retrieves a hall by ID.
func (r *HallRepo) GetHall(ctx context.Context, id uint64) (*booking.Hall, error) {
	const q = `SELECT ` + hallColumns + ` FROM halls WHERE id = ?`
	h, err := scanHall(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.NotFound("hall not found")
		}
		return nil, booking.Unavailable("query hall", err)
	}
	return h, nil
}

// ListHalls returns halls ordered by id. When hallType is non-empty
// only halls of that type are returned; when onlyAvailable is true
// halls switched off for maintenance are skipped.
func (r *HallRepo) ListHalls(ctx context.Context, hallType string, onlyAvailable bool) ([]*booking.Hall, error) {
	q := `SELECT ` + hallColumns + ` FROM halls`
	var args []any
	var conds []string
	if hallType != "" {
		conds = append(conds, "hall_type = ?")
		args = append(args, hallType)
	}
	if onlyAvailable {
		conds = append(conds, "is_available = 1")
	}
	for i, c := range conds {
		if i == 0 {
			q += " WHERE " + c
		} else {
			q += " AND " + c
		}
	}
	q += " ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, booking.Unavailable("list halls", err)
	}
	defer rows.Close()
	out := make([]*booking.Hall, 0)
	for rows.Next() {
		h, err := scanHall(rows)
		if err != nil {
			return nil, booking.Unavailable("scan hall", err)
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, booking.Unavailable("list halls", err)
	}
	return out, nil
}

// CreateHall inserts a hall and reads the row back so timestamps and
// defaults are populated on the model.
func (r *HallRepo) CreateHall(ctx context.Context, h *booking.Hall) error {
	const q = `INSERT INTO halls (name, hall_type, capacity, is_available, description)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, h.Name, h.HallType, h.Capacity, h.IsAvailable, h.Description)
	if err != nil {
		return booking.Unavailable("insert hall", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return booking.Unavailable("insert hall", err)
	}
	h.ID = uint64(id)
	got, err := r.GetHall(ctx, h.ID)
	if err != nil {
		return err
	}
	*h = *got
	return nil
}

// UpdateHall persists name, type, capacity, availability and
// description for an existing hall.
func (r *HallRepo) UpdateHall(ctx context.Context, h *booking.Hall) error {
	const q = `UPDATE halls
	           SET name = ?, hall_type = ?, capacity = ?, is_available = ?, description = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, h.Name, h.HallType, h.Capacity, h.IsAvailable, h.Description, h.ID)
	if err != nil {
		return booking.Unavailable("update hall", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// RowsAffected is 0 both for a missing row and for a no-op
		// update; re-check existence to report the right outcome.
		if _, err := r.GetHall(ctx, h.ID); err != nil {
			return err
		}
	}
	return nil
}

// DeleteHall removes a hall. Deletion is refused while any pending or
// approved booking still references the hall, so existing reservations
// are never silently orphaned.
func (r *HallRepo) DeleteHall(ctx context.Context, id uint64) error {
	var active int
	const countQ = `SELECT COUNT(*) FROM bookings WHERE hall_id = ? AND status IN ('pending','approved')`
	if err := r.db.QueryRowContext(ctx, countQ, id).Scan(&active); err != nil {
		return booking.Unavailable("count hall bookings", err)
	}
	if active > 0 {
		return booking.Conflict("hall has active bookings")
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM halls WHERE id = ?`, id)
	if err != nil {
		return booking.Unavailable("delete hall", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return booking.NotFound("hall not found")
	}
	return nil
}
