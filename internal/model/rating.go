package model

// Rating is a guest's review of a room. Each guest may rate a room at
// most once; the (guest, room) pair is the primary key.
type Rating struct {
	GuestID uint64 // ratings.guest_id
	RoomID  uint64 // ratings.room_id
	Score   uint8  // ratings.rating, 1..5
	Review  string // ratings.review (empty when NULL)
}
