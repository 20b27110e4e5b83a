package booking

import "time"

// Booking statuses. pending is the initial state; approved, rejected
// and cancelled are terminal except that an edit of the slot resets an
// approved booking back to pending.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

// Caller roles as carried in the JWT role claim.
const (
	RoleAdmin   = "ADMIN"
	RoleFaculty = "FACULTY"
)

// Hall type tags (closed enumeration).
const (
	HallLecture    = "LECTURE"
	HallSeminar    = "SEMINAR"
	HallAuditorium = "AUDITORIUM"
	HallLab        = "LAB"
	HallConference = "CONFERENCE"
)

// HallTypes lists every valid hall type tag.
var HallTypes = []string{HallLecture, HallSeminar, HallAuditorium, HallLab, HallConference}

// ValidHallType reports whether t is a member of the hall type enum.
func ValidHallType(t string) bool {
	for _, v := range HallTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Hall is a bookable physical space. Capacity is always >= 1.
// IsAvailable is the maintenance switch: an unavailable hall accepts
// no new bookings but keeps its existing ones.
type Hall struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	HallType    string    `json:"hall_type"`
	Capacity    uint32    `json:"capacity"`
	IsAvailable bool      `json:"is_available"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Booking is a reservation request for a hall over one calendar date
// and a half-open [start, end) clock interval. Times are HH:MM strings
// on the wire and are converted to minutes since midnight for every
// comparison; raw strings are never compared.
type Booking struct {
	ID                uint64     `json:"id"`
	HallID            uint64     `json:"hall_id"`
	UserID            uint64     `json:"user_id"`
	Date              string     `json:"date"` // YYYY-MM-DD, day granularity
	StartTime         string     `json:"start_time"`
	EndTime           string     `json:"end_time"`
	Purpose           string     `json:"purpose"`
	ExpectedAttendees *uint32    `json:"expected_attendees,omitempty"`
	Status            string     `json:"status"`
	ApprovedBy        *uint64    `json:"approved_by,omitempty"`
	ApprovedAt        *time.Time `json:"approved_at,omitempty"`
	RejectionReason   *string    `json:"rejection_reason,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// Actor identifies the authenticated caller for authorization guards.
type Actor struct {
	ID   uint64
	Role string
}

// IsAdmin reports whether the actor carries the admin role.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// canAct is the single authorization guard applied across operations:
// an admin may act on any booking; otherwise the actor must own it.
func canAct(actor Actor, ownerID uint64) bool {
	return actor.IsAdmin() || actor.ID == ownerID
}
