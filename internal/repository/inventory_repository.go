package repository

import (
	"context"
	"database/sql"
)

// InventoryRepo is the sole mutator of rooms.availability. Reserve and
// release are single conditional UPDATE statements, so the row lock
// taken by the UPDATE serializes concurrent reservations on the same
// room: two transactions can never both pass the availability guard
// for nights that only one of them can have.
//
// Both methods operate strictly inside the caller's transaction. A
// rollback of that transaction reverses the decrement, and release is
// only invoked once per cancellation because the Cancelled status
// transition in the same transaction guards against double release.
type InventoryRepo struct {
	db *sql.DB
}

// NewInventoryRepo returns an InventoryRepo bound to the given database.
func NewInventoryRepo(db *sql.DB) *InventoryRepo { return &InventoryRepo{db: db} }

// ReserveTx decrements a room's availability by nights inside tx. It
// succeeds only when nights > 0 and the room currently has at least
// that many nights available; otherwise it returns
// ErrInsufficientAvailability and the row is untouched.
func (r *InventoryRepo) ReserveTx(ctx context.Context, tx *sql.Tx, roomID uint64, nights uint32) error {
	if nights == 0 {
		return ErrInsufficientAvailability
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE rooms SET availability = availability - ? WHERE id = ? AND availability >= ?`,
		nights, roomID, nights)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInsufficientAvailability
	}
	return nil
}

// ReleaseTx increments a room's availability by nights inside tx. Used
// when a committed booking is cancelled. Whether a release has already
// happened for a given booking is tracked by the booking's status, not
// here. Returns ErrRoomNotFound when the room id does not exist.
func (r *InventoryRepo) ReleaseTx(ctx context.Context, tx *sql.Tx, roomID uint64, nights uint32) error {
	if nights == 0 {
		return nil
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE rooms SET availability = availability + ? WHERE id = ?`,
		nights, roomID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRoomNotFound
	}
	return nil
}
