package model

import "time"

// Booking status values as stored in bookings.status. A booking is
// created as StatusNew and only ever leaves StatusCancelled via the
// cascade delete of its guest.
const (
	StatusNew        = "New"
	StatusCheckedOut = "CheckedOut"
	StatusCancelled  = "Cancelled"
)

// Booking groups one or more room reservations made by a guest in a
// single transaction. TotalCents is recomputed from the booking's items
// at commit time and is therefore always consistent with them; the
// provisional value written at insert is zero.
//
// Fields:
//  ID          – primary key identifier.
//  GuestID     – guest who placed the booking.
//  Status      – one of StatusNew, StatusCheckedOut, StatusCancelled.
//  TotalCents  – sum of item price × nights over all items, in cents.
//  Country     – delivery address country.
//  City        – delivery address city.
//  PostalCode  – delivery address postal code.
//  AddressLine – delivery address street line.
//  CreatedAt   – creation timestamp.
type Booking struct {
	ID          uint64    // bookings.id
	GuestID     uint64    // bookings.guest_id
	Status      string    // bookings.status
	TotalCents  uint64    // bookings.total_cents
	Country     string    // bookings.country
	City        string    // bookings.city
	PostalCode  string    // bookings.postal_code
	AddressLine string    // bookings.address_line
	CreatedAt   time.Time // bookings.created_at
}

// BookingItem is a single room-for-N-nights line within a booking.
// Item numbers form a contiguous 1-based sequence in the order rooms
// were added. PriceCents snapshots the room's price at booking time so
// later price changes never alter a committed booking.
type BookingItem struct {
	BookingID  uint64 // booking_items.booking_id
	ItemNumber uint32 // booking_items.item_number (1-based, contiguous)
	RoomID     uint64 // booking_items.room_id
	Nights     uint32 // booking_items.nights (always > 0)
	PriceCents uint32 // booking_items.price_cents (per-night snapshot)
}
