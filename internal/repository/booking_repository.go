package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/harmyko/database-management-systems/internal/model"
)

// BookingRepo provides persistence for bookings and their items. The
// ...Tx methods run inside an existing transaction owned by the booking
// service, which commits or rolls back; the repository never opens its
// own transaction for multi-statement work.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle so that the booking service can
// open the transaction spanning bookings, items and inventory.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// CreateTx inserts a booking row in status New with a zero total inside
// tx and populates the generated id and creation timestamp on b. The
// total is provisional and overwritten by SetTotalTx before commit.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (guest_id, status, total_cents, country, city, postal_code, address_line)
		 VALUES (?, ?, 0, ?, ?, ?, ?)`,
		b.GuestID, model.StatusNew, b.Country, b.City, b.PostalCode, b.AddressLine)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	b.Status = model.StatusNew
	b.TotalCents = 0
	// Query back the DB-assigned creation timestamp.
	return tx.QueryRowContext(ctx,
		`SELECT created_at FROM bookings WHERE id = ?`, b.ID).Scan(&b.CreatedAt)
}

// AddItemTx inserts one booking item inside tx. Item numbers are
// assigned by the booking service as a contiguous 1-based sequence.
func (r *BookingRepo) AddItemTx(ctx context.Context, tx *sql.Tx, it model.BookingItem) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO booking_items (booking_id, item_number, room_id, nights, price_cents)
		 VALUES (?, ?, ?, ?, ?)`,
		it.BookingID, it.ItemNumber, it.RoomID, it.Nights, it.PriceCents)
	return err
}

// SetTotalTx persists the recomputed booking total inside tx. Called
// exactly once per booking, right before commit.
func (r *BookingRepo) SetTotalTx(ctx context.Context, tx *sql.Tx, bookingID, totalCents uint64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE bookings SET total_cents = ? WHERE id = ?`, totalCents, bookingID)
	return err
}

// StatusForUpdateTx returns a booking's status and guest inside tx
// with a row lock, serializing concurrent cancellations of the same
// booking. Returns ErrBookingNotFound when the id does not exist.
func (r *BookingRepo) StatusForUpdateTx(ctx context.Context, tx *sql.Tx, bookingID uint64) (status string, guestID uint64, err error) {
	err = tx.QueryRowContext(ctx,
		`SELECT status, guest_id FROM bookings WHERE id = ? FOR UPDATE`, bookingID).Scan(&status, &guestID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", 0, ErrBookingNotFound
	}
	return status, guestID, err
}

// ItemsTx returns a booking's items inside tx, ordered by item number.
func (r *BookingRepo) ItemsTx(ctx context.Context, tx *sql.Tx, bookingID uint64) ([]model.BookingItem, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT booking_id, item_number, room_id, nights, price_cents
		 FROM booking_items WHERE booking_id = ? ORDER BY item_number`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []model.BookingItem
	for rows.Next() {
		var it model.BookingItem
		if err := rows.Scan(&it.BookingID, &it.ItemNumber, &it.RoomID, &it.Nights, &it.PriceCents); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// MarkCancelledTx transitions a booking to Cancelled inside tx. The
// status guard in the WHERE clause makes the transition idempotent at
// the storage level: a booking that is already Cancelled matches no
// row and yields ErrAlreadyCancelled.
func (r *BookingRepo) MarkCancelledTx(ctx context.Context, tx *sql.Tx, bookingID uint64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = ? WHERE id = ? AND status <> ?`,
		model.StatusCancelled, bookingID, model.StatusCancelled)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAlreadyCancelled
	}
	return nil
}

// BookingSummary is a booking joined with its guest's name, as shown
// in booking listings.
type BookingSummary struct {
	ID         uint64    `json:"id"`
	GuestID    uint64    `json:"guest_id"`
	GuestName  string    `json:"guest_name"`
	Status     string    `json:"status"`
	TotalCents uint64    `json:"total_cents"`
	CreatedAt  time.Time `json:"created_at"`
}

// List returns bookings joined with guest names, newest first. With
// activeOnly set, bookings that are Cancelled or CheckedOut are
// filtered out; only the remaining ones are still cancellable.
func (r *BookingRepo) List(ctx context.Context, activeOnly bool) ([]BookingSummary, error) {
	q := `SELECT b.id, b.guest_id, CONCAT(g.first_name, ' ', g.last_name), b.status, b.total_cents, b.created_at
	      FROM bookings b
	      JOIN guests g ON g.id = b.guest_id`
	if activeOnly {
		q += ` WHERE b.status NOT IN ('` + model.StatusCancelled + `', '` + model.StatusCheckedOut + `')`
	}
	q += ` ORDER BY b.created_at DESC, b.id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]BookingSummary, 0)
	for rows.Next() {
		var s BookingSummary
		if err := rows.Scan(&s.ID, &s.GuestID, &s.GuestName, &s.Status, &s.TotalCents, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// BookingItemRow is one booking line as exposed in API responses.
type BookingItemRow struct {
	ItemNumber uint32 `json:"item_number"`
	RoomID     uint64 `json:"room_id"`
	Nights     uint32 `json:"nights"`
	PriceCents uint32 `json:"price_cents"`
}

// BookingDetail is a booking with its delivery address and items.
type BookingDetail struct {
	ID          uint64           `json:"id"`
	GuestID     uint64           `json:"guest_id"`
	Status      string           `json:"status"`
	TotalCents  uint64           `json:"total_cents"`
	Country     string           `json:"country"`
	City        string           `json:"city"`
	PostalCode  string           `json:"postal_code"`
	AddressLine string           `json:"address_line"`
	CreatedAt   time.Time        `json:"created_at"`
	Items       []BookingItemRow `json:"items"`
}

// GetByID returns one booking with its items. Returns
// ErrBookingNotFound when the id does not exist.
func (r *BookingRepo) GetByID(ctx context.Context, bookingID uint64) (*BookingDetail, error) {
	var d BookingDetail
	err := r.db.QueryRowContext(ctx,
		`SELECT id, guest_id, status, total_cents, country, city, postal_code, address_line, created_at
		 FROM bookings WHERE id = ?`, bookingID).Scan(
		&d.ID, &d.GuestID, &d.Status, &d.TotalCents,
		&d.Country, &d.City, &d.PostalCode, &d.AddressLine, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT item_number, room_id, nights, price_cents
		 FROM booking_items WHERE booking_id = ? ORDER BY item_number`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	d.Items = make([]BookingItemRow, 0)
	for rows.Next() {
		var it BookingItemRow
		if err := rows.Scan(&it.ItemNumber, &it.RoomID, &it.Nights, &it.PriceCents); err != nil {
			return nil, err
		}
		d.Items = append(d.Items, it)
	}
	return &d, rows.Err()
}
