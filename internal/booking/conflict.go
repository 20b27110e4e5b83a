package booking

import "context"

// Status sets used by conflict checks. Cancelled and rejected bookings
// have vacated their slot and never participate.
var (
	// activeStatuses is what the availability query reports against:
	// pending bookings block the slot optimistically so callers can see
	// contested slots before an admin decides.
	activeStatuses = []string{StatusPending, StatusApproved}
	// approvedOnly is what creation, edits and approval guard against.
	// Pending siblings do not block each other; exclusivity is enforced
	// when one of them is approved.
	approvedOnly = []string{StatusApproved}
)

// HasConflict reports whether any pending or approved booking on the
// hall and exact date overlaps the [start, end) interval, excluding
// excludeID when non-zero. This is the availability query exposed to
// callers; it is a pure existence check with no ordering.
func (s *Service) HasConflict(ctx context.Context, hallID uint64, date, start, end string, excludeID uint64) (bool, error) {
	if _, err := ParseDate(date); err != nil {
		return false, err
	}
	startMin, err := ParseClock(start)
	if err != nil {
		return false, err
	}
	endMin, err := ParseClock(end)
	if err != nil {
		return false, err
	}
	if endMin <= startMin {
		return false, Invalid("end_time must be after start_time")
	}
	sl := slot{hallID: hallID, date: date, startMin: startMin, endMin: endMin}
	return s.conflictAgainst(ctx, sl, excludeID, activeStatuses)
}

// conflictAgainst fetches the candidate bookings for the slot's hall
// and date in the given status set and returns true on the first one
// whose interval overlaps the slot under half-open semantics.
func (s *Service) conflictAgainst(ctx context.Context, sl slot, excludeID uint64, statuses []string) (bool, error) {
	candidates, err := s.bookings.ListForSlot(ctx, sl.hallID, sl.date, statuses, excludeID)
	if err != nil {
		return false, err
	}
	for _, c := range candidates {
		cs, err := ParseClock(c.StartTime)
		if err != nil {
			return false, err
		}
		ce, err := ParseClock(c.EndTime)
		if err != nil {
			return false, err
		}
		if Overlaps(sl.startMin, sl.endMin, cs, ce) {
			return true, nil
		}
	}
	return false, nil
}
