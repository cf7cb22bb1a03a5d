package service

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/harmyko/database-management-systems/internal/model"
	"github.com/harmyko/database-management-systems/internal/repository"
)

func newService(t *testing.T) (*BookingService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	svc := NewBookingService(db,
		repository.NewGuestRepo(db),
		repository.NewRoomRepo(db),
		repository.NewBookingRepo(db),
		repository.NewInventoryRepo(db),
		nil)
	return svc, mock
}

func expectGuestLookup(mock sqlmock.Sqlmock, guestID uint64) {
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, first_name, last_name, email, created_at FROM guests WHERE id = ?`)).
		WithArgs(guestID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "created_at"}).
			AddRow(guestID, "Jonas", "Petrauskas", "jonas@example.com", time.Now()))
}

func expectBookingInsert(mock sqlmock.Sqlmock, bookingID uint64) {
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO bookings (guest_id, status, total_cents, country, city, postal_code, address_line)`)).
		WillReturnResult(sqlmock.NewResult(int64(bookingID), 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT created_at FROM bookings WHERE id = ?`)).
		WithArgs(bookingID).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
}

func expectRoomLock(mock sqlmock.Sqlmock, id uint64, number string, priceCents, availability uint32) {
	mock.ExpectQuery(regexp.QuoteMeta(`FROM rooms WHERE id = ? FOR UPDATE`)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "room_number", "price_per_night_cents", "availability", "description"}).
			AddRow(id, number, priceCents, availability, ""))
}

func expectReserve(mock sqlmock.Sqlmock, roomID uint64, nights uint32, ok bool) {
	affected := int64(0)
	if ok {
		affected = 1
	}
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE rooms SET availability = availability - ? WHERE id = ? AND availability >= ?`)).
		WithArgs(nights, roomID, nights).
		WillReturnResult(sqlmock.NewResult(0, affected))
}

func expectItemInsert(mock sqlmock.Sqlmock, bookingID uint64, itemNumber uint32, roomID uint64, nights, priceCents uint32) {
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO booking_items (booking_id, item_number, room_id, nights, price_cents)`)).
		WithArgs(bookingID, itemNumber, roomID, nights, priceCents).
		WillReturnResult(sqlmock.NewResult(0, 1))
}

// Two accepted items yield a total of price×nights summed over both and
// contiguous item numbers starting at 1.
func TestCreateBooking_TotalAndItemNumbers(t *testing.T) {
	svc, mock := newService(t)

	expectGuestLookup(mock, 3)
	mock.ExpectBegin()
	expectBookingInsert(mock, 7)
	// Room A: 2 nights at 10.00.
	expectRoomLock(mock, 1, "101", 1000, 5)
	expectReserve(mock, 1, 2, true)
	expectItemInsert(mock, 7, 1, 1, 2, 1000)
	// Room B: 1 night at 20.00.
	expectRoomLock(mock, 2, "102", 2000, 3)
	expectReserve(mock, 2, 1, true)
	expectItemInsert(mock, 7, 2, 2, 1, 2000)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE bookings SET total_cents = ? WHERE id = ?`)).
		WithArgs(4000, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := svc.CreateBooking(context.Background(), 3, Address{Country: "LT", City: "Vilnius"}, []ItemRequest{
		{RoomID: 1, Nights: 2},
		{RoomID: 2, Nights: 1},
	})
	require.NoError(t, err)
	require.Equal(t, uint64(7), result.BookingID)
	require.Equal(t, uint64(4000), result.TotalCents)
	require.Len(t, result.Items, 2)
	require.Equal(t, uint32(1), result.Items[0].ItemNumber)
	require.Equal(t, uint32(2), result.Items[1].ItemNumber)
	require.Empty(t, result.Rejected)
	require.NoError(t, mock.ExpectationsWereMet())
}

// A request for more nights than available is rejected per item; the
// remaining requests still go through and the total only counts the
// accepted ones.
func TestCreateBooking_SkipsUnavailableRoom(t *testing.T) {
	svc, mock := newService(t)

	expectGuestLookup(mock, 3)
	mock.ExpectBegin()
	expectBookingInsert(mock, 9)
	// First request wants 4 nights but only 1 remains.
	expectRoomLock(mock, 1, "101", 1000, 1)
	expectReserve(mock, 1, 4, false)
	// Second request succeeds.
	expectRoomLock(mock, 2, "102", 2000, 3)
	expectReserve(mock, 2, 2, true)
	expectItemInsert(mock, 9, 1, 2, 2, 2000)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE bookings SET total_cents = ?`)).
		WithArgs(4000, 9).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := svc.CreateBooking(context.Background(), 3, Address{}, []ItemRequest{
		{RoomID: 1, Nights: 4},
		{RoomID: 2, Nights: 2},
	})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	require.Equal(t, uint32(1), result.Items[0].ItemNumber)
	require.Len(t, result.Rejected, 1)
	require.Equal(t, uint64(1), result.Rejected[0].RoomID)
	require.Equal(t, uint64(4000), result.TotalCents)
	require.NoError(t, mock.ExpectationsWereMet())
}

// An unknown room id is rejected per item without aborting the booking.
func TestCreateBooking_SkipsUnknownRoom(t *testing.T) {
	svc, mock := newService(t)

	expectGuestLookup(mock, 3)
	mock.ExpectBegin()
	expectBookingInsert(mock, 4)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM rooms WHERE id = ? FOR UPDATE`)).
		WithArgs(99).
		WillReturnError(sql.ErrNoRows)
	expectRoomLock(mock, 2, "102", 1500, 3)
	expectReserve(mock, 2, 1, true)
	expectItemInsert(mock, 4, 1, 2, 1, 1500)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE bookings SET total_cents = ?`)).
		WithArgs(1500, 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := svc.CreateBooking(context.Background(), 3, Address{}, []ItemRequest{
		{RoomID: 99, Nights: 1},
		{RoomID: 2, Nights: 1},
	})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	require.Len(t, result.Rejected, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

// When every request is rejected the whole transaction rolls back: no
// booking row and no reservation survives.
func TestCreateBooking_EmptyRollsBack(t *testing.T) {
	svc, mock := newService(t)

	expectGuestLookup(mock, 3)
	mock.ExpectBegin()
	expectBookingInsert(mock, 11)
	expectRoomLock(mock, 1, "101", 1000, 0)
	expectReserve(mock, 1, 2, false)
	mock.ExpectRollback()

	result, err := svc.CreateBooking(context.Background(), 3, Address{}, []ItemRequest{
		{RoomID: 1, Nights: 2},
	})
	require.ErrorIs(t, err, repository.ErrEmptyBooking)
	require.NotNil(t, result)
	require.Len(t, result.Rejected, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

// No item requests at all fail fast without touching the database.
func TestCreateBooking_NoItems(t *testing.T) {
	svc, mock := newService(t)

	_, err := svc.CreateBooking(context.Background(), 3, Address{}, nil)
	require.ErrorIs(t, err, repository.ErrEmptyBooking)
	require.NoError(t, mock.ExpectationsWereMet())
}

// A missing guest fails before any state is created.
func TestCreateBooking_GuestNotFound(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM guests WHERE id = ?`)).
		WithArgs(42).
		WillReturnError(sql.ErrNoRows)

	_, err := svc.CreateBooking(context.Background(), 42, Address{}, []ItemRequest{{RoomID: 1, Nights: 1}})
	require.ErrorIs(t, err, repository.ErrGuestNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

// Cancellation flips the status and releases every item's nights in
// the same transaction.
func TestCancelBooking_ReleasesInventory(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT status, guest_id FROM bookings WHERE id = ? FOR UPDATE`)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"status", "guest_id"}).AddRow(model.StatusNew, 3))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM booking_items WHERE booking_id = ? ORDER BY item_number`)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"booking_id", "item_number", "room_id", "nights", "price_cents"}).
			AddRow(7, 1, 1, 2, 1000).
			AddRow(7, 2, 2, 1, 2000))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE bookings SET status = ? WHERE id = ? AND status <> ?`)).
		WithArgs(model.StatusCancelled, 7, model.StatusCancelled).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE rooms SET availability = availability + ? WHERE id = ?`)).
		WithArgs(2, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE rooms SET availability = availability + ? WHERE id = ?`)).
		WithArgs(1, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := svc.CancelBooking(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, 2, result.ItemsReleased)
	require.Equal(t, uint32(3), result.NightsReleased)
	require.NoError(t, mock.ExpectationsWereMet())
}

// A second cancellation is rejected before any ledger mutation, so
// availability is released exactly once per booking.
func TestCancelBooking_AlreadyCancelled(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT status, guest_id FROM bookings WHERE id = ? FOR UPDATE`)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"status", "guest_id"}).AddRow(model.StatusCancelled, 3))
	mock.ExpectRollback()

	_, err := svc.CancelBooking(context.Background(), 7)
	require.ErrorIs(t, err, repository.ErrAlreadyCancelled)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelBooking_NotFound(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT status, guest_id FROM bookings WHERE id = ? FOR UPDATE`)).
		WithArgs(123).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := svc.CancelBooking(context.Background(), 123)
	require.True(t, errors.Is(err, repository.ErrBookingNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}
