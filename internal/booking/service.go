package booking

import (
	"context"
	"strings"
	"time"
)

// HallStore is the persistence the core needs for halls.
type HallStore interface {
	// GetHall returns the hall or a KindNotFound error.
	GetHall(ctx context.Context, id uint64) (*Hall, error)
}

// BookingStore is the persistence the core needs for bookings.
// Implementations must treat single-record writes as atomic; the core
// closes the cross-record read-then-write race at approval time by
// re-running the conflict check (see Approve).
type BookingStore interface {
	CreateBooking(ctx context.Context, b *Booking) error
	// GetBooking returns the booking or a KindNotFound error.
	GetBooking(ctx context.Context, id uint64) (*Booking, error)
	UpdateBooking(ctx context.Context, b *Booking) error
	DeleteBooking(ctx context.Context, id uint64) error
	// ListForSlot returns every booking on the hall and exact date whose
	// status is in the given set, excluding excludeID when non-zero.
	ListForSlot(ctx context.Context, hallID uint64, date string, statuses []string, excludeID uint64) ([]*Booking, error)
}

// Service owns booking lifecycle transitions and conflict checks.
type Service struct {
	halls    HallStore
	bookings BookingStore
	clock    Clock
}

// NewService builds a Service. A nil clock falls back to SystemClock.
func NewService(halls HallStore, bookings BookingStore, clock Clock) *Service {
	if halls == nil || bookings == nil {
		panic("nil store passed to booking.NewService")
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Service{halls: halls, bookings: bookings, clock: clock}
}

// CreateInput carries the fields a caller proposes for a new booking.
type CreateInput struct {
	HallID            uint64
	Date              string
	StartTime         string
	EndTime           string
	Purpose           string
	ExpectedAttendees *uint32
}

// UpdateInput carries an edit. Nil pointers leave the field unchanged.
type UpdateInput struct {
	HallID            *uint64
	Date              *string
	StartTime         *string
	EndTime           *string
	Purpose           *string
	ExpectedAttendees *uint32
}

// slot is a validated hall/date/interval triple in minute form.
type slot struct {
	hallID   uint64
	date     string
	startMin int
	endMin   int
}

// validateSlot parses and checks a proposed slot: well-formed date and
// times, end strictly after start, and date not before today.
func (s *Service) validateSlot(hallID uint64, date, start, end string) (slot, error) {
	day, err := ParseDate(date)
	if err != nil {
		return slot{}, err
	}
	today := s.clock.Now().Truncate(24 * time.Hour)
	if day.Before(today) {
		return slot{}, Invalid("date must not be in the past")
	}
	startMin, err := ParseClock(start)
	if err != nil {
		return slot{}, err
	}
	endMin, err := ParseClock(end)
	if err != nil {
		return slot{}, err
	}
	if endMin <= startMin {
		return slot{}, Invalid("end_time must be after start_time")
	}
	return slot{hallID: hallID, date: date, startMin: startMin, endMin: endMin}, nil
}

// checkHall loads the hall and verifies it accepts bookings and can
// seat the expected attendees.
func (s *Service) checkHall(ctx context.Context, hallID uint64, attendees *uint32, requireAvailable bool) (*Hall, error) {
	hall, err := s.halls.GetHall(ctx, hallID)
	if err != nil {
		return nil, err
	}
	if requireAvailable && !hall.IsAvailable {
		return nil, Invalid("hall is not available for booking")
	}
	if attendees != nil && *attendees > hall.Capacity {
		return nil, Invalidf("expected attendees %d exceed hall capacity %d", *attendees, hall.Capacity)
	}
	return hall, nil
}

// Create proposes a new booking. Overlap with other pending bookings
// is allowed (optimistic slot policy); only an approved booking blocks
// the slot at creation time.
func (s *Service) Create(ctx context.Context, actor Actor, in CreateInput) (*Booking, error) {
	purpose := strings.TrimSpace(in.Purpose)
	if purpose == "" {
		return nil, Invalid("purpose is required")
	}
	sl, err := s.validateSlot(in.HallID, in.Date, in.StartTime, in.EndTime)
	if err != nil {
		return nil, err
	}
	if _, err := s.checkHall(ctx, in.HallID, in.ExpectedAttendees, true); err != nil {
		return nil, err
	}
	conflict, err := s.conflictAgainst(ctx, sl, 0, approvedOnly)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, Conflict("slot conflicts with an approved booking")
	}
	b := &Booking{
		HallID:            in.HallID,
		UserID:            actor.ID,
		Date:              in.Date,
		StartTime:         in.StartTime,
		EndTime:           in.EndTime,
		Purpose:           purpose,
		ExpectedAttendees: in.ExpectedAttendees,
		Status:            StatusPending,
	}
	if err := s.bookings.CreateBooking(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Update edits a booking. Changing hall, date or time re-validates the
// slot and resets the booking to pending, clearing any recorded
// decision; descriptive edits leave the status untouched. Only an
// admin may edit a booking that is already approved.
func (s *Service) Update(ctx context.Context, actor Actor, id uint64, in UpdateInput) (*Booking, error) {
	b, err := s.bookings.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAct(actor, b.UserID) {
		return nil, Forbidden("only the booking owner or an admin may edit")
	}
	switch b.Status {
	case StatusRejected, StatusCancelled:
		return nil, InvalidTransition("cannot edit a " + b.Status + " booking")
	case StatusApproved:
		if !actor.IsAdmin() {
			return nil, Forbidden("approved bookings may only be edited by an admin")
		}
	}

	hallID, date, start, end := b.HallID, b.Date, b.StartTime, b.EndTime
	if in.HallID != nil {
		hallID = *in.HallID
	}
	if in.Date != nil {
		date = *in.Date
	}
	if in.StartTime != nil {
		start = *in.StartTime
	}
	if in.EndTime != nil {
		end = *in.EndTime
	}
	slotChanged := hallID != b.HallID || date != b.Date || start != b.StartTime || end != b.EndTime

	attendees := b.ExpectedAttendees
	if in.ExpectedAttendees != nil {
		attendees = in.ExpectedAttendees
	}
	// Capacity is re-checked against the effective hall even on purely
	// descriptive edits.
	if _, err := s.checkHall(ctx, hallID, attendees, hallID != b.HallID); err != nil {
		return nil, err
	}

	if slotChanged {
		sl, err := s.validateSlot(hallID, date, start, end)
		if err != nil {
			return nil, err
		}
		conflict, err := s.conflictAgainst(ctx, sl, b.ID, approvedOnly)
		if err != nil {
			return nil, err
		}
		if conflict {
			return nil, Conflict("slot conflicts with an approved booking")
		}
		b.HallID, b.Date, b.StartTime, b.EndTime = hallID, date, start, end
		b.Status = StatusPending
		b.ApprovedBy = nil
		b.ApprovedAt = nil
		b.RejectionReason = nil
	}
	if in.Purpose != nil {
		p := strings.TrimSpace(*in.Purpose)
		if p == "" {
			return nil, Invalid("purpose is required")
		}
		b.Purpose = p
	}
	b.ExpectedAttendees = attendees

	if err := s.bookings.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Approve transitions a pending booking to approved. The conflict
// check runs again here, immediately before the commit, so that of two
// overlapping pending bookings at most one can ever reach approved.
func (s *Service) Approve(ctx context.Context, actor Actor, id uint64) (*Booking, error) {
	if !actor.IsAdmin() {
		return nil, Forbidden("only an admin may approve bookings")
	}
	b, err := s.bookings.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	switch b.Status {
	case StatusCancelled:
		return nil, InvalidTransition("cannot approve a cancelled booking")
	case StatusApproved:
		return nil, InvalidTransition("booking is already approved")
	case StatusRejected:
		return nil, InvalidTransition("cannot approve a rejected booking")
	}
	startMin, err := ParseClock(b.StartTime)
	if err != nil {
		return nil, err
	}
	endMin, err := ParseClock(b.EndTime)
	if err != nil {
		return nil, err
	}
	sl := slot{hallID: b.HallID, date: b.Date, startMin: startMin, endMin: endMin}
	conflict, err := s.conflictAgainst(ctx, sl, b.ID, approvedOnly)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, Conflict("slot conflicts with an approved booking")
	}
	now := s.clock.Now()
	b.Status = StatusApproved
	b.ApprovedBy = &actor.ID
	b.ApprovedAt = &now
	b.RejectionReason = nil
	if err := s.bookings.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Reject transitions a pending booking to rejected. A reason must be
// supplied at call time.
func (s *Service) Reject(ctx context.Context, actor Actor, id uint64, reason string) (*Booking, error) {
	if !actor.IsAdmin() {
		return nil, Forbidden("only an admin may reject bookings")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, Invalid("rejection reason is required")
	}
	b, err := s.bookings.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	switch b.Status {
	case StatusCancelled:
		return nil, InvalidTransition("cannot reject a cancelled booking")
	case StatusRejected:
		return nil, InvalidTransition("booking is already rejected")
	case StatusApproved:
		return nil, InvalidTransition("cannot reject an approved booking")
	}
	now := s.clock.Now()
	b.Status = StatusRejected
	b.ApprovedBy = &actor.ID
	b.ApprovedAt = &now
	b.RejectionReason = &reason
	if err := s.bookings.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Cancel transitions a pending or approved booking to cancelled. The
// owner or an admin may cancel.
func (s *Service) Cancel(ctx context.Context, actor Actor, id uint64) (*Booking, error) {
	b, err := s.bookings.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAct(actor, b.UserID) {
		return nil, Forbidden("only the booking owner or an admin may cancel")
	}
	switch b.Status {
	case StatusCancelled:
		return nil, InvalidTransition("booking is already cancelled")
	case StatusRejected:
		return nil, InvalidTransition("cannot cancel a rejected booking")
	}
	b.Status = StatusCancelled
	if err := s.bookings.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Delete removes a booking record in any state. Admin only.
func (s *Service) Delete(ctx context.Context, actor Actor, id uint64) error {
	if !actor.IsAdmin() {
		return Forbidden("only an admin may delete bookings")
	}
	if _, err := s.bookings.GetBooking(ctx, id); err != nil {
		return err
	}
	return s.bookings.DeleteBooking(ctx, id)
}

// Get returns a booking visible to the caller: its owner or an admin.
func (s *Service) Get(ctx context.Context, actor Actor, id uint64) (*Booking, error) {
	b, err := s.bookings.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAct(actor, b.UserID) {
		return nil, Forbidden("not your booking")
	}
	return b, nil
}
