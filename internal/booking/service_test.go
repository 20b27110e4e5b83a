package booking

import (
	"context"
	"testing"
	"time"
)

// fixedClock pins "now" so the past-date guard is deterministic.
type fixedClock struct{ t time.Time }

func (f fixedClock) Now() time.Time { return f.t }

type fakeHalls struct {
	halls map[uint64]*Hall
}

func (f *fakeHalls) GetHall(_ context.Context, id uint64) (*Hall, error) {
	h, ok := f.halls[id]
	if !ok {
		return nil, NotFound("hall not found")
	}
	cp := *h
	return &cp, nil
}

type fakeBookings struct {
	nextID   uint64
	bookings map[uint64]*Booking
}

func newFakeBookings() *fakeBookings {
	return &fakeBookings{nextID: 1, bookings: map[uint64]*Booking{}}
}

func (f *fakeBookings) CreateBooking(_ context.Context, b *Booking) error {
	b.ID = f.nextID
	f.nextID++
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeBookings) GetBooking(_ context.Context, id uint64) (*Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, NotFound("booking not found")
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookings) UpdateBooking(_ context.Context, b *Booking) error {
	if _, ok := f.bookings[b.ID]; !ok {
		return NotFound("booking not found")
	}
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeBookings) DeleteBooking(_ context.Context, id uint64) error {
	if _, ok := f.bookings[id]; !ok {
		return NotFound("booking not found")
	}
	delete(f.bookings, id)
	return nil
}

func (f *fakeBookings) ListForSlot(_ context.Context, hallID uint64, date string, statuses []string, excludeID uint64) ([]*Booking, error) {
	var out []*Booking
	for _, b := range f.bookings {
		if b.HallID != hallID || b.Date != date || b.ID == excludeID {
			continue
		}
		for _, st := range statuses {
			if b.Status == st {
				cp := *b
				out = append(out, &cp)
				break
			}
		}
	}
	return out, nil
}

var (
	admin   = Actor{ID: 1, Role: RoleAdmin}
	faculty = Actor{ID: 2, Role: RoleFaculty}
	other   = Actor{ID: 3, Role: RoleFaculty}
)

const testDate = "2025-03-15"

func newTestService() (*Service, *fakeBookings) {
	halls := &fakeHalls{halls: map[uint64]*Hall{
		1: {ID: 1, Name: "Main Auditorium", HallType: HallAuditorium, Capacity: 200, IsAvailable: true},
		2: {ID: 2, Name: "Lab 2", HallType: HallLab, Capacity: 30, IsAvailable: true},
		3: {ID: 3, Name: "Closed Hall", HallType: HallSeminar, Capacity: 50, IsAvailable: false},
	}}
	bookings := newFakeBookings()
	clock := fixedClock{t: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
	return NewService(halls, bookings, clock), bookings
}

func mustCreate(t *testing.T, s *Service, actor Actor, in CreateInput) *Booking {
	t.Helper()
	b, err := s.Create(context.Background(), actor, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return b
}

func slotInput(start, end string) CreateInput {
	return CreateInput{HallID: 1, Date: testDate, StartTime: start, EndTime: end, Purpose: "lecture"}
}

func TestCreateStartsPending(t *testing.T) {
	s, _ := newTestService()
	b := mustCreate(t, s, faculty, slotInput("10:00", "12:00"))
	if b.Status != StatusPending {
		t.Fatalf("new booking status = %q, want %q", b.Status, StatusPending)
	}
	if b.UserID != faculty.ID {
		t.Fatalf("owner = %d, want %d", b.UserID, faculty.ID)
	}
}

func TestCreateValidation(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	cases := []struct {
		name string
		in   CreateInput
		kind Kind
	}{
		{"end equals start", slotInput("10:00", "10:00"), KindValidation},
		{"end before start", slotInput("12:00", "10:00"), KindValidation},
		{"bad time format", slotInput("10am", "12:00"), KindValidation},
		{"past date", CreateInput{HallID: 1, Date: "2025-03-09", StartTime: "10:00", EndTime: "12:00", Purpose: "x"}, KindValidation},
		{"bad date", CreateInput{HallID: 1, Date: "03/15/2025", StartTime: "10:00", EndTime: "12:00", Purpose: "x"}, KindValidation},
		{"missing purpose", CreateInput{HallID: 1, Date: testDate, StartTime: "10:00", EndTime: "12:00", Purpose: "   "}, KindValidation},
		{"unknown hall", CreateInput{HallID: 99, Date: testDate, StartTime: "10:00", EndTime: "12:00", Purpose: "x"}, KindNotFound},
	}
	for _, c := range cases {
		if _, err := s.Create(ctx, faculty, c.in); KindOf(err) != c.kind {
			t.Fatalf("%s: got %v, want kind %d", c.name, err, c.kind)
		}
	}
}

func TestCreateOnTodayAllowed(t *testing.T) {
	s, _ := newTestService()
	in := slotInput("10:00", "12:00")
	in.Date = "2025-03-10" // the fixed clock's own date
	if _, err := s.Create(context.Background(), faculty, in); err != nil {
		t.Fatalf("booking for today rejected: %v", err)
	}
}

func TestCreateCapacityGuard(t *testing.T) {
	s, _ := newTestService()
	n := uint32(31)
	in := CreateInput{HallID: 2, Date: testDate, StartTime: "10:00", EndTime: "12:00", Purpose: "x", ExpectedAttendees: &n}
	if _, err := s.Create(context.Background(), faculty, in); KindOf(err) != KindValidation {
		t.Fatalf("over-capacity create: got %v, want validation error", err)
	}
	n = 30
	if _, err := s.Create(context.Background(), faculty, in); err != nil {
		t.Fatalf("at-capacity create rejected: %v", err)
	}
}

func TestCreateUnavailableHall(t *testing.T) {
	s, _ := newTestService()
	in := CreateInput{HallID: 3, Date: testDate, StartTime: "10:00", EndTime: "12:00", Purpose: "x"}
	if _, err := s.Create(context.Background(), faculty, in); KindOf(err) != KindValidation {
		t.Fatalf("unavailable hall create: got %v, want validation error", err)
	}
}

func TestOverlappingPendingsCoexist(t *testing.T) {
	s, _ := newTestService()
	mustCreate(t, s, faculty, slotInput("10:00", "12:00"))
	// A second request for the same slot is allowed while the first is
	// still undecided.
	b2 := mustCreate(t, s, other, slotInput("11:00", "13:00"))
	if b2.Status != StatusPending {
		t.Fatalf("second request status = %q, want pending", b2.Status)
	}
}

func TestCreateBlockedByApproved(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()
	b := mustCreate(t, s, faculty, slotInput("10:00", "12:00"))
	if _, err := s.Approve(ctx, admin, b.ID); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if _, err := s.Create(ctx, other, slotInput("11:00", "13:00")); KindOf(err) != KindConflict {
		t.Fatalf("create over approved slot: got %v, want conflict", err)
	}
	// An adjacent slot sharing only the boundary minute is fine.
	if _, err := s.Create(ctx, other, slotInput("12:00", "13:00")); err != nil {
		t.Fatalf("adjacent create rejected: %v", err)
	}
}

func TestApproveExclusivity(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()
	b1 := mustCreate(t, s, faculty, slotInput("10:00", "12:00"))
	b2 := mustCreate(t, s, other, slotInput("11:00", "13:00"))

	got, err := s.Approve(ctx, admin, b1.ID)
	if err != nil {
		t.Fatalf("approve first: %v", err)
	}
	if got.Status != StatusApproved || got.ApprovedBy == nil || *got.ApprovedBy != admin.ID || got.ApprovedAt == nil {
		t.Fatalf("approved booking not fully recorded: %+v", got)
	}
	// The overlapping sibling can no longer be approved.
	if _, err := s.Approve(ctx, admin, b2.ID); KindOf(err) != KindConflict {
		t.Fatalf("approve overlapping sibling: got %v, want conflict", err)
	}
}

func TestApproveGuards(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()
	b := mustCreate(t, s, faculty, slotInput("10:00", "12:00"))

	if _, err := s.Approve(ctx, faculty, b.ID); KindOf(err) != KindForbidden {
		t.Fatalf("faculty approve: got %v, want forbidden", err)
	}
	if _, err := s.Approve(ctx, admin, b.ID); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if _, err := s.Approve(ctx, admin, b.ID); KindOf(err) != KindInvalidTransition {
		t.Fatalf("re-approve: got %v, want invalid transition", err)
	}

	c := mustCreate(t, s, faculty, slotInput("14:00", "15:00"))
	if _, err := s.Cancel(ctx, faculty, c.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if _, err := s.Approve(ctx, admin, c.ID); KindOf(err) != KindInvalidTransition {
		t.Fatalf("approve cancelled: got %v, want invalid transition", err)
	}
}

func TestRejectRequiresReason(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()
	b := mustCreate(t, s, faculty, slotInput("10:00", "12:00"))

	if _, err := s.Reject(ctx, admin, b.ID, "  "); KindOf(err) != KindValidation {
		t.Fatalf("reject without reason: got %v, want validation error", err)
	}
	if _, err := s.Reject(ctx, faculty, b.ID, "room needed"); KindOf(err) != KindForbidden {
		t.Fatalf("faculty reject: got %v, want forbidden", err)
	}
	got, err := s.Reject(ctx, admin, b.ID, "maintenance window")
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if got.Status != StatusRejected || got.RejectionReason == nil || *got.RejectionReason != "maintenance window" {
		t.Fatalf("rejection not recorded: %+v", got)
	}
	if _, err := s.Reject(ctx, admin, b.ID, "again"); KindOf(err) != KindInvalidTransition {
		t.Fatalf("re-reject: got %v, want invalid transition", err)
	}
}

func TestRejectedSlotFreesUp(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()
	b := mustCreate(t, s, faculty, slotInput("10:00", "12:00"))
	if _, err := s.Reject(ctx, admin, b.ID, "no"); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	b2 := mustCreate(t, s, other, slotInput("10:00", "12:00"))
	if _, err := s.Approve(ctx, admin, b2.ID); err != nil {
		t.Fatalf("approve after rejection freed slot: %v", err)
	}
}

func TestCancelledSlotFreesUp(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()
	b := mustCreate(t, s, faculty, slotInput("10:00", "12:00"))
	if _, err := s.Approve(ctx, admin, b.ID); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if _, err := s.Cancel(ctx, faculty, b.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	// The cancelled booking no longer holds the slot.
	if _, err := s.Create(ctx, other, slotInput("10:00", "12:00")); err != nil {
		t.Fatalf("create after cancellation: %v", err)
	}
}

func TestCancelGuards(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()
	b := mustCreate(t, s, faculty, slotInput("10:00", "12:00"))

	if _, err := s.Cancel(ctx, other, b.ID); KindOf(err) != KindForbidden {
		t.Fatalf("stranger cancel: got %v, want forbidden", err)
	}
	if _, err := s.Cancel(ctx, faculty, b.ID); err != nil {
		t.Fatalf("owner cancel: %v", err)
	}
	if _, err := s.Cancel(ctx, faculty, b.ID); KindOf(err) != KindInvalidTransition {
		t.Fatalf("re-cancel: got %v, want invalid transition", err)
	}

	r := mustCreate(t, s, faculty, slotInput("14:00", "15:00"))
	if _, err := s.Reject(ctx, admin, r.ID, "no"); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if _, err := s.Cancel(ctx, faculty, r.ID); KindOf(err) != KindInvalidTransition {
		t.Fatalf("cancel rejected booking: got %v, want invalid transition", err)
	}
}

func TestUpdateSlotResetsToPending(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()
	b := mustCreate(t, s, faculty, slotInput("10:00", "12:00"))
	if _, err := s.Approve(ctx, admin, b.ID); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	// Faculty may not touch an approved booking.
	newStart := "14:00"
	newEnd := "16:00"
	if _, err := s.Update(ctx, faculty, b.ID, UpdateInput{StartTime: &newStart, EndTime: &newEnd}); KindOf(err) != KindForbidden {
		t.Fatalf("faculty edit of approved: got %v, want forbidden", err)
	}

	got, err := s.Update(ctx, admin, b.ID, UpdateInput{StartTime: &newStart, EndTime: &newEnd})
	if err != nil {
		t.Fatalf("admin edit of approved: %v", err)
	}
	if got.Status != StatusPending {
		t.Fatalf("status after slot edit = %q, want pending", got.Status)
	}
	if got.ApprovedBy != nil || got.ApprovedAt != nil {
		t.Fatalf("decision fields not cleared after slot edit: %+v", got)
	}
}

func TestUpdateDescriptiveKeepsStatus(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()
	b := mustCreate(t, s, faculty, slotInput("10:00", "12:00"))
	if _, err := s.Approve(ctx, admin, b.ID); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	p := "faculty meeting"
	got, err := s.Update(ctx, admin, b.ID, UpdateInput{Purpose: &p})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Status != StatusApproved {
		t.Fatalf("purpose-only edit changed status to %q", got.Status)
	}
	if got.Purpose != p {
		t.Fatalf("purpose = %q, want %q", got.Purpose, p)
	}
}

func TestUpdateGuards(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()
	b := mustCreate(t, s, faculty, slotInput("10:00", "12:00"))

	p := "changed"
	if _, err := s.Update(ctx, other, b.ID, UpdateInput{Purpose: &p}); KindOf(err) != KindForbidden {
		t.Fatalf("stranger edit: got %v, want forbidden", err)
	}

	if _, err := s.Cancel(ctx, faculty, b.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if _, err := s.Update(ctx, faculty, b.ID, UpdateInput{Purpose: &p}); KindOf(err) != KindInvalidTransition {
		t.Fatalf("edit cancelled booking: got %v, want invalid transition", err)
	}
}

func TestUpdateSlotConflict(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()
	a := mustCreate(t, s, faculty, slotInput("10:00", "12:00"))
	if _, err := s.Approve(ctx, admin, a.ID); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	b := mustCreate(t, s, other, slotInput("14:00", "16:00"))

	newStart := "11:00"
	newEnd := "13:00"
	if _, err := s.Update(ctx, other, b.ID, UpdateInput{StartTime: &newStart, EndTime: &newEnd}); KindOf(err) != KindConflict {
		t.Fatalf("move onto approved slot: got %v, want conflict", err)
	}
}

func TestUpdateAttendeesRechecked(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()
	n := uint32(20)
	in := CreateInput{HallID: 2, Date: testDate, StartTime: "10:00", EndTime: "12:00", Purpose: "x", ExpectedAttendees: &n}
	b := mustCreate(t, s, faculty, in)

	over := uint32(31)
	if _, err := s.Update(ctx, faculty, b.ID, UpdateInput{ExpectedAttendees: &over}); KindOf(err) != KindValidation {
		t.Fatalf("attendee bump over capacity: got %v, want validation error", err)
	}
}

func TestDeleteAdminOnly(t *testing.T) {
	s, store := newTestService()
	ctx := context.Background()
	b := mustCreate(t, s, faculty, slotInput("10:00", "12:00"))

	if err := s.Delete(ctx, faculty, b.ID); KindOf(err) != KindForbidden {
		t.Fatalf("faculty delete: got %v, want forbidden", err)
	}
	if err := s.Delete(ctx, admin, b.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if _, ok := store.bookings[b.ID]; ok {
		t.Fatalf("booking still present after delete")
	}
	if err := s.Delete(ctx, admin, b.ID); KindOf(err) != KindNotFound {
		t.Fatalf("delete missing: got %v, want not found", err)
	}
}

func TestGetVisibility(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()
	b := mustCreate(t, s, faculty, slotInput("10:00", "12:00"))

	if _, err := s.Get(ctx, faculty, b.ID); err != nil {
		t.Fatalf("owner get: %v", err)
	}
	if _, err := s.Get(ctx, admin, b.ID); err != nil {
		t.Fatalf("admin get: %v", err)
	}
	if _, err := s.Get(ctx, other, b.ID); KindOf(err) != KindForbidden {
		t.Fatalf("stranger get: got %v, want forbidden", err)
	}
}

func TestHasConflictCountsPending(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()
	mustCreate(t, s, faculty, slotInput("10:00", "12:00"))

	conflict, err := s.HasConflict(ctx, 1, testDate, "11:00", "13:00", 0)
	if err != nil {
		t.Fatalf("HasConflict: %v", err)
	}
	if !conflict {
		t.Fatalf("pending booking should make the slot contended")
	}
	conflict, err = s.HasConflict(ctx, 1, testDate, "12:00", "13:00", 0)
	if err != nil {
		t.Fatalf("HasConflict: %v", err)
	}
	if conflict {
		t.Fatalf("adjacent slot reported as contended")
	}
	// A different hall or date is never contended.
	if c, _ := s.HasConflict(ctx, 2, testDate, "11:00", "13:00", 0); c {
		t.Fatalf("other hall reported as contended")
	}
	if c, _ := s.HasConflict(ctx, 1, "2025-03-16", "11:00", "13:00", 0); c {
		t.Fatalf("other date reported as contended")
	}
}
