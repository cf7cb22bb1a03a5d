package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"

	"github.com/harmyko/database-management-systems/internal/model"
)

var searchColumns = []string{
	"id", "room_number", "price_per_night_cents", "availability",
	"description", "ratings_count", "avg_rating",
}

// The search rows carry the euro price derived from cents and the
// rating aggregates from the left join.
func TestSearchByNumber_MapsAggregates(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRoomRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE LOWER(r.room_number) LIKE LOWER(?)`)).
		WithArgs("%10%").
		WillReturnRows(sqlmock.NewRows(searchColumns).
			AddRow(1, "101", 12550, 4, "Sea view", 2, 4.5).
			AddRow(2, "102", 9900, 0, "", 0, 0.0))

	rows, err := repo.SearchByNumber(context.Background(), "10")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, 125.50, rows[0].Price)
	require.Equal(t, uint32(2), rows[0].RatingsCount)
	require.Equal(t, 4.5, rows[0].AvgRating)
	require.Equal(t, uint32(0), rows[1].RatingsCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchByPriceRange_PassesBounds(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRoomRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE r.price_per_night_cents BETWEEN ? AND ?`)).
		WithArgs(5000, 10000).
		WillReturnRows(sqlmock.NewRows(searchColumns).
			AddRow(2, "102", 9900, 3, "", 1, 3.0))

	rows, err := repo.SearchByPriceRange(context.Background(), 5000, 10000)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "102", rows[0].RoomNumber)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomGetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRoomRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM rooms WHERE id = ?`)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "room_number", "price_per_night_cents", "availability", "description"}))

	_, err := repo.GetByID(context.Background(), 7)
	require.ErrorIs(t, err, ErrRoomNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

// A second rating for the same guest/room pair hits the composite
// primary key and maps to ErrRatingExists.
func TestRatingCreate_Duplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRatingRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO ratings (guest_id, room_id, rating, review)`)).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	err := repo.Create(context.Background(), model.Rating{GuestID: 1, RoomID: 2, Score: 5, Review: "great"})
	require.ErrorIs(t, err, ErrRatingExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

// Blank reviews are stored as NULL rather than empty strings.
func TestRatingCreate_EmptyReviewIsNull(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRatingRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO ratings (guest_id, room_id, rating, review)`)).
		WithArgs(1, 2, 4, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), model.Rating{GuestID: 1, RoomID: 2, Score: 4, Review: "   "}))
	require.NoError(t, mock.ExpectationsWereMet())
}
