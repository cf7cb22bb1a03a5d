// Package repository defines the error values shared across the
// repositories. These sentinels let higher layers such as the booking
// service and the HTTP handlers distinguish failure kinds with
// errors.Is: a handler maps ErrGuestNotFound to a 404 while the
// booking engine treats ErrInsufficientAvailability as a per-item
// rejection rather than an abort of the whole transaction.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrGuestNotFound is returned when a guest id does not exist.
var ErrGuestNotFound = errors.New("guest not found")

// ErrRoomNotFound is returned when a room id does not exist.
var ErrRoomNotFound = errors.New("room not found")

// ErrBookingNotFound is returned when a booking id does not exist.
var ErrBookingNotFound = errors.New("booking not found")

// ErrEmailExists is returned when registering a guest with an email
// address that is already taken. It is surfaced from the unique index
// on guests.email, not enforced by application-level locking.
var ErrEmailExists = errors.New("email already exists")

// ErrRatingExists is returned when a guest rates the same room twice.
// Surfaced from the (guest_id, room_id) primary key of ratings.
var ErrRatingExists = errors.New("guest has already rated this room")

// ErrInsufficientAvailability is returned by the inventory ledger when
// a room does not have enough available nights for a reservation. The
// room's availability is left unchanged.
var ErrInsufficientAvailability = errors.New("not enough available nights")

// ErrAlreadyCancelled is returned when cancelling a booking that is
// already in the Cancelled state. No availability is released a second
// time.
var ErrAlreadyCancelled = errors.New("booking already cancelled")

// ErrEmptyBooking is returned when a booking attempt ends with no
// accepted items. The whole transaction is rolled back, so no booking
// row and no availability changes survive.
var ErrEmptyBooking = errors.New("booking must contain at least one room")

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (1062), which the repositories translate into the typed conflict for
// the constraint that fired.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
