package repository

import (
	"context"
	"database/sql"
)

// StatsRepo derives per-guest and per-room rollups on demand from the
// committed base tables. Nothing here is incrementally maintained, so
// the aggregates can never drift from the facts they summarize. The
// queries use correlated subqueries rather than a single join to keep
// the booking and rating aggregates from multiplying each other's rows.
type StatsRepo struct {
	db *sql.DB
}

// NewStatsRepo returns a StatsRepo bound to the given database.
func NewStatsRepo(db *sql.DB) *StatsRepo { return &StatsRepo{db: db} }

// GuestStats is the per-guest rollup. TotalSpentCents sums the totals
// of ALL of the guest's bookings, including cancelled ones: a
// cancellation releases inventory but keeps the historical total.
type GuestStats struct {
	GuestID         uint64 `json:"guest_id"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	TotalBookings   uint32 `json:"total_bookings"`
	TotalSpentCents uint64 `json:"total_spent_cents"`
	ReviewsCount    uint32 `json:"reviews_count"`
}

// GuestStatistics returns one row per guest, biggest spenders first.
func (r *StatsRepo) GuestStatistics(ctx context.Context) ([]GuestStats, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT g.id, g.first_name, g.last_name,
		        (SELECT COUNT(*) FROM bookings b WHERE b.guest_id = g.id) AS total_bookings,
		        (SELECT COALESCE(SUM(b.total_cents), 0) FROM bookings b WHERE b.guest_id = g.id) AS total_spent_cents,
		        (SELECT COUNT(*) FROM ratings rt WHERE rt.guest_id = g.id) AS reviews_count
		 FROM guests g
		 ORDER BY total_spent_cents DESC, g.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]GuestStats, 0)
	for rows.Next() {
		var s GuestStats
		if err := rows.Scan(&s.GuestID, &s.FirstName, &s.LastName,
			&s.TotalBookings, &s.TotalSpentCents, &s.ReviewsCount); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// RoomStats is the per-room rollup. Revenue sums price × nights over
// the room's booking items; AverageRating is 0 for unrated rooms.
type RoomStats struct {
	RoomID        uint64  `json:"room_id"`
	RoomNumber    string  `json:"room_number"`
	TimesBooked   uint32  `json:"times_booked"`
	TotalNights   uint32  `json:"total_nights"`
	RevenueCents  uint64  `json:"revenue_cents"`
	AverageRating float64 `json:"average_rating"`
	RatingsCount  uint32  `json:"ratings_count"`
}

// RoomStatistics returns one row per room, highest revenue first.
func (r *StatsRepo) RoomStatistics(ctx context.Context) ([]RoomStats, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT rm.id, rm.room_number,
		        (SELECT COUNT(DISTINCT bi.booking_id) FROM booking_items bi WHERE bi.room_id = rm.id) AS times_booked,
		        (SELECT COALESCE(SUM(bi.nights), 0) FROM booking_items bi WHERE bi.room_id = rm.id) AS total_nights,
		        (SELECT COALESCE(SUM(bi.price_cents * bi.nights), 0) FROM booking_items bi WHERE bi.room_id = rm.id) AS revenue_cents,
		        (SELECT COALESCE(AVG(rt.rating), 0) FROM ratings rt WHERE rt.room_id = rm.id) AS average_rating,
		        (SELECT COUNT(*) FROM ratings rt WHERE rt.room_id = rm.id) AS ratings_count
		 FROM rooms rm
		 ORDER BY revenue_cents DESC, rm.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]RoomStats, 0)
	for rows.Next() {
		var s RoomStats
		if err := rows.Scan(&s.RoomID, &s.RoomNumber, &s.TimesBooked,
			&s.TotalNights, &s.RevenueCents, &s.AverageRating, &s.RatingsCount); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
