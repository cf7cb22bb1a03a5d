package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/harmyko/database-management-systems/internal/model"
)

// GuestRepo provides CRUD access to the guests table. Uniqueness of the
// email address is enforced by the database and surfaced as
// ErrEmailExists; deleting a guest relies on ON DELETE CASCADE to
// remove the guest's bookings, booking items and ratings in the same
// statement.
type GuestRepo struct {
	db *sql.DB
}

// NewGuestRepo returns a GuestRepo bound to the given database.
func NewGuestRepo(db *sql.DB) *GuestRepo { return &GuestRepo{db: db} }

// Create inserts a new guest and returns the generated id. The email is
// normalized (trimmed, lower-cased) before insertion.
func (r *GuestRepo) Create(ctx context.Context, firstName, lastName, email string) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO guests (first_name, last_name, email) VALUES (?, ?, ?)`,
		firstName, lastName, email)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a guest by id. Returns ErrGuestNotFound when no such
// row exists.
func (r *GuestRepo) GetByID(ctx context.Context, id uint64) (model.Guest, error) {
	var g model.Guest
	err := r.db.QueryRowContext(ctx,
		`SELECT id, first_name, last_name, email, created_at FROM guests WHERE id = ?`,
		id).Scan(&g.ID, &g.FirstName, &g.LastName, &g.Email, &g.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Guest{}, ErrGuestNotFound
	}
	return g, err
}

// List returns all guests ordered by id.
func (r *GuestRepo) List(ctx context.Context) ([]model.Guest, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, first_name, last_name, email, created_at FROM guests ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Guest, 0)
	for rows.Next() {
		var g model.Guest
		if err := rows.Scan(&g.ID, &g.FirstName, &g.LastName, &g.Email, &g.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Delete removes a guest by id. The guest's bookings and ratings are
// removed by the cascading foreign keys. Returns ErrGuestNotFound when
// the id does not exist, leaving everything unchanged.
func (r *GuestRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM guests WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrGuestNotFound
	}
	return nil
}
