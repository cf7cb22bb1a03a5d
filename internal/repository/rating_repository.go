package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/harmyko/database-management-systems/internal/model"
)

// RatingRepo provides access to the ratings table. The one-rating-per
// guest-room pair rule is the table's primary key; a second rating for
// the same pair surfaces as ErrRatingExists.
type RatingRepo struct {
	db *sql.DB
}

// NewRatingRepo returns a RatingRepo bound to the given database.
func NewRatingRepo(db *sql.DB) *RatingRepo { return &RatingRepo{db: db} }

// Create inserts a rating for a (guest, room) pair. An empty review is
// stored as NULL so optional reviews stay distinguishable from blank
// ones.
func (r *RatingRepo) Create(ctx context.Context, rt model.Rating) error {
	var rev interface{}
	if strings.TrimSpace(rt.Review) != "" {
		rev = rt.Review
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO ratings (guest_id, room_id, rating, review) VALUES (?, ?, ?, ?)`,
		rt.GuestID, rt.RoomID, rt.Score, rev)
	if err != nil && isDuplicateKey(err) {
		return ErrRatingExists
	}
	return err
}

// RatingRow is a rating joined with the guest's name and room number.
type RatingRow struct {
	GuestID    uint64 `json:"guest_id"`
	GuestName  string `json:"guest_name"`
	RoomID     uint64 `json:"room_id"`
	RoomNumber string `json:"room_number"`
	Score      uint8  `json:"rating"`
	Review     string `json:"review,omitempty"`
}

// ListAll returns all ratings joined with guest and room info, highest
// scores first.
func (r *RatingRepo) ListAll(ctx context.Context) ([]RatingRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT rt.guest_id, CONCAT(g.first_name, ' ', g.last_name),
		        rt.room_id, rm.room_number, rt.rating, COALESCE(rt.review, '')
		 FROM ratings rt
		 JOIN guests g ON g.id = rt.guest_id
		 JOIN rooms rm ON rm.id = rt.room_id
		 ORDER BY rt.rating DESC, rt.guest_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]RatingRow, 0)
	for rows.Next() {
		var d RatingRow
		if err := rows.Scan(&d.GuestID, &d.GuestName, &d.RoomID, &d.RoomNumber, &d.Score, &d.Review); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
