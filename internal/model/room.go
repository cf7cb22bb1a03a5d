package model

// Room represents a bookable hotel room as stored in the `rooms` table.
// Availability is the number of nights that can still be booked; it is
// mutated exclusively by the inventory repository inside a booking or
// cancellation transaction, never by handlers directly.
//
// Fields:
//  ID             – primary key identifier.
//  RoomNumber     – unique human-facing room number (e.g. "101A").
//  PriceCents     – price per night in cents.
//  Availability   – remaining bookable nights; never negative.
//  Description    – optional free-text description.
type Room struct {
	ID           uint64 // rooms.id
	RoomNumber   string // rooms.room_number
	PriceCents   uint32 // rooms.price_per_night_cents
	Availability uint32 // rooms.availability
	Description  string // rooms.description (empty when NULL)
}
