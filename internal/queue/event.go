// Package queue defines the booking events exchanged over the message
// broker and the background consumer that records them. Events are
// published after the owning database transaction has committed, so a
// consumer never observes a booking that was rolled back.
package queue

// Event type names carried in the envelope.
const (
	TypeBookingCreated   = "booking.created"
	TypeBookingCancelled = "booking.cancelled"
)

// BookedRoom is one line of a created booking as carried in events.
type BookedRoom struct {
	RoomID     uint64 `json:"room_id"`
	RoomNumber string `json:"room_number"`
	Nights     uint32 `json:"nights"`
	PriceCents uint32 `json:"price_cents"`
}

// BookingCreatedEvent is published when a booking commits. It carries
// enough for downstream consumers to log or notify without querying
// the primary database.
type BookingCreatedEvent struct {
	BookingID  uint64       `json:"booking_id"`
	GuestID    uint64       `json:"guest_id"`
	TotalCents uint64       `json:"total_cents"`
	Rooms      []BookedRoom `json:"rooms"`
	CreatedAt  string       `json:"created_at"`
}

// BookingCancelledEvent is published when a cancellation commits and
// the booking's nights have been returned to room inventory.
type BookingCancelledEvent struct {
	BookingID      uint64 `json:"booking_id"`
	GuestID        uint64 `json:"guest_id"`
	ItemsReleased  int    `json:"items_released"`
	NightsReleased uint32 `json:"nights_released"`
	CancelledAt    string `json:"cancelled_at"`
}
