// Package queue defines message payloads exchanged over the message
// broker and the background consumer that records them.
package queue

// BookingApprovedEvent is published when an admin approves a booking.
// It carries enough information for downstream consumers to log or
// notify without querying the primary database.
type BookingApprovedEvent struct {
	BookingID      uint64 `json:"booking_id"`
	HallID         uint64 `json:"hall_id"`
	HallName       string `json:"hall_name"`
	UserID         uint64 `json:"user_id"`
	RequesterEmail string `json:"requester_email"`
	Date           string `json:"date"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	Purpose        string `json:"purpose"`
	ApprovedBy     uint64 `json:"approved_by"`
	ApprovedAt     string `json:"approved_at"`
}
