package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestGuestCreate_NormalizesEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGuestRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO guests (first_name, last_name, email) VALUES (?, ?, ?)`)).
		WithArgs("Ona", "Kazlauskiene", "ona@example.com").
		WillReturnResult(sqlmock.NewResult(5, 1))

	id, err := repo.Create(context.Background(), "Ona", "Kazlauskiene", "  ONA@Example.com ")
	require.NoError(t, err)
	require.Equal(t, uint64(5), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

// MySQL error 1062 on the unique email index maps to ErrEmailExists.
func TestGuestCreate_DuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGuestRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO guests`)).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	_, err := repo.Create(context.Background(), "Ona", "Kazlauskiene", "ona@example.com")
	require.ErrorIs(t, err, ErrEmailExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGuestGetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGuestRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM guests WHERE id = ?`)).
		WithArgs(12).
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "created_at"}))

	_, err := repo.GetByID(context.Background(), 12)
	require.ErrorIs(t, err, ErrGuestNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGuestDelete_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGuestRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM guests WHERE id = ?`)).
		WithArgs(12).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 12)
	require.ErrorIs(t, err, ErrGuestNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGuestDelete_OK(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGuestRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM guests WHERE id = ?`)).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 3))
	require.NoError(t, mock.ExpectationsWereMet())
}
