package model

import "time"

// Guest represents a registered hotel guest as stored in the `guests`
// table. Email addresses are normalized to lower case before insertion
// and protected by a unique index. Deleting a guest cascades to the
// guest's bookings and ratings at the database level.
//
// Fields:
//  ID        – primary key identifier.
//  FirstName – guest's first name.
//  LastName  – guest's last name.
//  Email     – unique, normalized email address.
//  CreatedAt – timestamp of registration.
type Guest struct {
	ID        uint64    // guests.id
	FirstName string    // guests.first_name
	LastName  string    // guests.last_name
	Email     string    // guests.email
	CreatedAt time.Time // guests.created_at
}
