package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/hall-reservation/internal/booking"
)

// BookingRepo provides persistence for bookings. It implements
// booking.BookingStore and additionally offers read-side projections
// joined with hall and user summaries for API responses.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingColumns = `id, hall_id, user_id, date, start_time, end_time, purpose,
	expected_attendees, status, approved_by, approved_at, rejection_reason, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*booking.Booking, error) {
	var b booking.Booking
	var date time.Time
	var attendees sql.NullInt32
	var approvedBy sql.NullInt64
	var approvedAt sql.NullTime
	var reason sql.NullString
	if err := row.Scan(
		&b.ID, &b.HallID, &b.UserID, &date, &b.StartTime, &b.EndTime, &b.Purpose,
		&attendees, &b.Status, &approvedBy, &approvedAt, &reason, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	b.Date = date.Format(booking.DateLayout)
	if attendees.Valid {
		n := uint32(attendees.Int32)
		b.ExpectedAttendees = &n
	}
	if approvedBy.Valid {
		id := uint64(approvedBy.Int64)
		b.ApprovedBy = &id
	}
	if approvedAt.Valid {
		t := approvedAt.Time
		b.ApprovedAt = &t
	}
	if reason.Valid {
		s := reason.String
		b.RejectionReason = &s
	}
	return &b, nil
}

func nullAttendees(v *uint32) sql.NullInt32 {
	if v == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(*v), Valid: true}
}

// CreateBooking inserts a booking and reads the row back to populate
// the generated id, timestamps and defaults.
func (r *BookingRepo) CreateBooking(ctx context.Context, b *booking.Booking) error {
	const q = `INSERT INTO bookings (hall_id, user_id, date, start_time, end_time, purpose, expected_attendees, status)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		b.HallID, b.UserID, b.Date, b.StartTime, b.EndTime, b.Purpose, nullAttendees(b.ExpectedAttendees), b.Status)
	if err != nil {
		return booking.Unavailable("insert booking", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return booking.Unavailable("insert booking", err)
	}
	b.ID = uint64(id)
	got, err := r.GetBooking(ctx, b.ID)
	if err != nil {
		return err
	}
	*b = *got
	return nil
}

// GetBooking retrieves a booking by ID.
func (r *BookingRepo) GetBooking(ctx context.Context, id uint64) (*booking.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.NotFound("booking not found")
		}
		return nil, booking.Unavailable("query booking", err)
	}
	return b, nil
}

// UpdateBooking persists all mutable fields of a booking.
func (r *BookingRepo) UpdateBooking(ctx context.Context, b *booking.Booking) error {
	const q = `UPDATE bookings
	           SET hall_id = ?, date = ?, start_time = ?, end_time = ?, purpose = ?,
	               expected_attendees = ?, status = ?, approved_by = ?, approved_at = ?,
	               rejection_reason = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	var approvedBy sql.NullInt64
	if b.ApprovedBy != nil {
		approvedBy = sql.NullInt64{Int64: int64(*b.ApprovedBy), Valid: true}
	}
	var approvedAt sql.NullTime
	if b.ApprovedAt != nil {
		approvedAt = sql.NullTime{Time: *b.ApprovedAt, Valid: true}
	}
	var reason sql.NullString
	if b.RejectionReason != nil {
		reason = sql.NullString{String: *b.RejectionReason, Valid: true}
	}
	res, err := r.db.ExecContext(ctx, q,
		b.HallID, b.Date, b.StartTime, b.EndTime, b.Purpose,
		nullAttendees(b.ExpectedAttendees), b.Status, approvedBy, approvedAt, reason, b.ID)
	if err != nil {
		return booking.Unavailable("update booking", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetBooking(ctx, b.ID); err != nil {
			return err
		}
	}
	return nil
}

// DeleteBooking removes a booking row.
func (r *BookingRepo) DeleteBooking(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return booking.Unavailable("delete booking", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return booking.NotFound("booking not found")
	}
	return nil
}

// ListForSlot returns every booking on the hall and exact date whose
// status is in the given set, excluding excludeID when non-zero. This
// is the candidate set the conflict detector compares against.
func (r *BookingRepo) ListForSlot(ctx context.Context, hallID uint64, date string, statuses []string, excludeID uint64) ([]*booking.Booking, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(statuses))
	args := []any{hallID, date}
	for i, st := range statuses {
		placeholders[i] = "?"
		args = append(args, st)
	}
	q := `SELECT ` + bookingColumns + ` FROM bookings
	      WHERE hall_id = ? AND date = ? AND status IN (` + strings.Join(placeholders, ",") + `)`
	if excludeID != 0 {
		q += " AND id <> ?"
		args = append(args, excludeID)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, booking.Unavailable("list slot bookings", err)
	}
	defer rows.Close()
	var out []*booking.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, booking.Unavailable("scan booking", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, booking.Unavailable("list slot bookings", err)
	}
	return out, nil
}

// BookingDetail is the read-side projection returned by the API: the
// booking joined with hall and user summaries. Populating related
// records is done here, not in the core's decision logic.
type BookingDetail struct {
	booking.Booking
	HallName       string  `json:"hall_name"`
	HallType       string  `json:"hall_type"`
	RequesterEmail string  `json:"requester_email"`
	ApproverEmail  *string `json:"approver_email,omitempty"`
}

const detailQuery = `SELECT b.id, b.hall_id, b.user_id, b.date, b.start_time, b.end_time, b.purpose,
	       b.expected_attendees, b.status, b.approved_by, b.approved_at, b.rejection_reason,
	       b.created_at, b.updated_at,
	       h.name, h.hall_type, u.email, a.email
	FROM bookings b
	JOIN halls h ON h.id = b.hall_id
	JOIN users u ON u.id = b.user_id
	LEFT JOIN users a ON a.id = b.approved_by`

func scanDetail(row interface{ Scan(...any) error }) (*BookingDetail, error) {
	var d BookingDetail
	var date time.Time
	var attendees sql.NullInt32
	var approvedBy sql.NullInt64
	var approvedAt sql.NullTime
	var reason sql.NullString
	var approver sql.NullString
	if err := row.Scan(
		&d.ID, &d.HallID, &d.UserID, &date, &d.StartTime, &d.EndTime, &d.Purpose,
		&attendees, &d.Status, &approvedBy, &approvedAt, &reason, &d.CreatedAt, &d.UpdatedAt,
		&d.HallName, &d.HallType, &d.RequesterEmail, &approver,
	); err != nil {
		return nil, err
	}
	d.Date = date.Format(booking.DateLayout)
	if attendees.Valid {
		n := uint32(attendees.Int32)
		d.ExpectedAttendees = &n
	}
	if approvedBy.Valid {
		id := uint64(approvedBy.Int64)
		d.ApprovedBy = &id
	}
	if approvedAt.Valid {
		t := approvedAt.Time
		d.ApprovedAt = &t
	}
	if reason.Valid {
		s := reason.String
		d.RejectionReason = &s
	}
	if approver.Valid {
		s := approver.String
		d.ApproverEmail = &s
	}
	return &d, nil
}

// GetDetail returns one booking with its hall and user summaries.
func (r *BookingRepo) GetDetail(ctx context.Context, id uint64) (*BookingDetail, error) {
	q := detailQuery + ` WHERE b.id = ?`
	d, err := scanDetail(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.NotFound("booking not found")
		}
		return nil, booking.Unavailable("query booking detail", err)
	}
	return d, nil
}

// DetailFilter narrows ListDetails. Zero values mean "no filter".
type DetailFilter struct {
	UserID uint64
	HallID uint64
	Status string
	Date   string
}

// ListDetails returns booking projections matching the filter, newest
// first.
func (r *BookingRepo) ListDetails(ctx context.Context, f DetailFilter) ([]*BookingDetail, error) {
	q := detailQuery
	var conds []string
	var args []any
	if f.UserID != 0 {
		conds = append(conds, "b.user_id = ?")
		args = append(args, f.UserID)
	}
	if f.HallID != 0 {
		conds = append(conds, "b.hall_id = ?")
		args = append(args, f.HallID)
	}
	if f.Status != "" {
		conds = append(conds, "b.status = ?")
		args = append(args, f.Status)
	}
	if f.Date != "" {
		conds = append(conds, "b.date = ?")
		args = append(args, f.Date)
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY b.created_at DESC, b.id DESC"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, booking.Unavailable("list booking details", err)
	}
	defer rows.Close()
	out := make([]*BookingDetail, 0)
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, booking.Unavailable("scan booking detail", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, booking.Unavailable("list booking details", err)
	}
	return out, nil
}
