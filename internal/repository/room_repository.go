package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/harmyko/database-management-systems/internal/model"
)

// RoomRepo provides read access to the rooms table plus the search
// queries that join rating aggregates. It never writes
// rooms.availability; that column belongs to InventoryRepo.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo returns a RoomRepo bound to the given database.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

// DB exposes the underlying handle so that callers can open a
// transaction spanning multiple repositories.
func (r *RoomRepo) DB() *sql.DB { return r.db }

// Create inserts a new room and returns the generated id. The room
// number is protected by a unique index; a duplicate surfaces as the
// raw driver error since room creation is an administrative path.
func (r *RoomRepo) Create(ctx context.Context, number string, priceCents, availability uint32, description string) (uint64, error) {
	var desc interface{}
	if strings.TrimSpace(description) != "" {
		desc = description
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO rooms (room_number, price_per_night_cents, availability, description) VALUES (?, ?, ?, ?)`,
		number, priceCents, availability, desc)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

const roomColumns = `id, room_number, price_per_night_cents, availability, COALESCE(description, '')`

// GetByID fetches a room by id. Returns ErrRoomNotFound when no such
// row exists.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (model.Room, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE id = ?`, id)
	return scanRoom(row)
}

// GetForUpdateTx fetches a room inside tx with a row lock (SELECT ...
// FOR UPDATE). The booking engine uses it to snapshot the current price
// and serialize concurrent reservations on the same room. Returns
// ErrRoomNotFound when the id does not exist.
func (r *RoomRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Room, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE id = ? FOR UPDATE`, id)
	return scanRoom(row)
}

func scanRoom(row *sql.Row) (model.Room, error) {
	var m model.Room
	err := row.Scan(&m.ID, &m.RoomNumber, &m.PriceCents, &m.Availability, &m.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Room{}, ErrRoomNotFound
	}
	return m, err
}

// List returns all rooms ordered by id.
func (r *RoomRepo) List(ctx context.Context) ([]model.Room, error) {
	return r.listWhere(ctx, ``)
}

// ListAvailable returns rooms that still have bookable nights.
func (r *RoomRepo) ListAvailable(ctx context.Context) ([]model.Room, error) {
	return r.listWhere(ctx, `WHERE availability > 0`)
}

func (r *RoomRepo) listWhere(ctx context.Context, cond string) ([]model.Room, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+roomColumns+` FROM rooms `+cond+` ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Room, 0)
	for rows.Next() {
		var m model.Room
		if err := rows.Scan(&m.ID, &m.RoomNumber, &m.PriceCents, &m.Availability, &m.Description); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// RoomSearchRow is a room joined with its rating aggregates. Rooms
// without ratings report RatingsCount 0 and AvgRating 0 thanks to the
// left join and COALESCE.
type RoomSearchRow struct {
	ID           uint64  `json:"id"`
	RoomNumber   string  `json:"room_number"`
	PriceCents   uint32  `json:"price_cents"`
	Price        float64 `json:"price"`
	Availability uint32  `json:"availability"`
	Description  string  `json:"description"`
	RatingsCount uint32  `json:"ratings_count"`
	AvgRating    float64 `json:"avg_rating"`
}

const roomSearchSelect = `SELECT r.id, r.room_number, r.price_per_night_cents,
	       r.availability, COALESCE(r.description, ''),
	       COUNT(rt.rating) AS ratings_count,
	       COALESCE(AVG(rt.rating), 0) AS avg_rating
	FROM rooms r
	LEFT JOIN ratings rt ON rt.room_id = r.id `

const roomSearchGroup = ` GROUP BY r.id, r.room_number, r.price_per_night_cents, r.availability, r.description`

// SearchByNumber returns rooms whose number contains the given pattern,
// matched case-insensitively, together with rating aggregates. Results
// are ordered by room number.
func (r *RoomRepo) SearchByNumber(ctx context.Context, pattern string) ([]RoomSearchRow, error) {
	q := roomSearchSelect + `WHERE LOWER(r.room_number) LIKE LOWER(?)` +
		roomSearchGroup + ` ORDER BY r.room_number`
	return r.search(ctx, q, "%"+pattern+"%")
}

// SearchByPriceRange returns rooms whose nightly price lies in the
// inclusive [minCents, maxCents] range, together with rating
// aggregates. Results are ordered by price.
func (r *RoomRepo) SearchByPriceRange(ctx context.Context, minCents, maxCents uint32) ([]RoomSearchRow, error) {
	q := roomSearchSelect + `WHERE r.price_per_night_cents BETWEEN ? AND ?` +
		roomSearchGroup + ` ORDER BY r.price_per_night_cents`
	return r.search(ctx, q, minCents, maxCents)
}

func (r *RoomRepo) search(ctx context.Context, query string, args ...interface{}) ([]RoomSearchRow, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]RoomSearchRow, 0)
	for rows.Next() {
		var d RoomSearchRow
		if err := rows.Scan(&d.ID, &d.RoomNumber, &d.PriceCents, &d.Availability,
			&d.Description, &d.RatingsCount, &d.AvgRating); err != nil {
			return nil, err
		}
		d.Price = float64(d.PriceCents) / 100.0
		out = append(out, d)
	}
	return out, rows.Err()
}
