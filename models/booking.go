package models

import "time"

// Booking statuses. Cancelled and Completed are terminal.
const (
	BookingStatusPending   = "Pending"
	BookingStatusConfirmed = "Confirmed"
	BookingStatusCancelled = "Cancelled"
	BookingStatusCompleted = "Completed"
)

// Booking represents a user's reservation for a program, optionally tied
// to a scheduled session.
type Booking struct {
	ID              string    `bson:"id" json:"id"`
	UserID          string    `bson:"user_id" json:"user_id"`
	ProgramID       string    `bson:"program_id" json:"program_id"`
	SessionID       string    `bson:"session_id,omitempty" json:"session_id,omitempty"`
	Status          string    `bson:"status" json:"status"`
	PaymentIntentID string    `bson:"payment_intent_id,omitempty" json:"payment_intent_id,omitempty"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updated_at"`
}

// IsTerminal reports whether no further status transition is permitted.
func (b *Booking) IsTerminal() bool {
	return b.Status == BookingStatusCancelled || b.Status == BookingStatusCompleted
}

// OccupiesSeat reports whether the booking counts against session capacity.
func (b *Booking) OccupiesSeat() bool {
	return b.Status == BookingStatusConfirmed || b.Status == BookingStatusCompleted
}
