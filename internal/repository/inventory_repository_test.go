package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestReserveTx_DecrementsWhenEnough(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInventoryRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE rooms SET availability = availability - ? WHERE id = ? AND availability >= ?`)).
		WithArgs(3, 1, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, repo.ReserveTx(context.Background(), tx, 1, 3))
	require.NoError(t, tx.Rollback())
	require.NoError(t, mock.ExpectationsWereMet())
}

// The availability guard lives in the UPDATE itself: zero affected rows
// means the room either does not have the nights or does not exist.
func TestReserveTx_Insufficient(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInventoryRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE rooms SET availability = availability - ?`)).
		WithArgs(10, 1, 10).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)
	err = repo.ReserveTx(context.Background(), tx, 1, 10)
	require.ErrorIs(t, err, ErrInsufficientAvailability)
	require.NoError(t, tx.Rollback())
	require.NoError(t, mock.ExpectationsWereMet())
}

// Zero nights never reaches the database.
func TestReserveTx_ZeroNights(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInventoryRepo(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)
	err = repo.ReserveTx(context.Background(), tx, 1, 0)
	require.ErrorIs(t, err, ErrInsufficientAvailability)
	require.NoError(t, tx.Rollback())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReleaseTx_UnknownRoom(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInventoryRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE rooms SET availability = availability + ? WHERE id = ?`)).
		WithArgs(2, 99).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)
	err = repo.ReleaseTx(context.Background(), tx, 99, 2)
	require.ErrorIs(t, err, ErrRoomNotFound)
	require.NoError(t, tx.Rollback())
	require.NoError(t, mock.ExpectationsWereMet())
}
