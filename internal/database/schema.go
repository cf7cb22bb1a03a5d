package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema holds the DDL for the five tables of the booking system.
// Booking totals and room availability are maintained by the booking
// service inside its transaction, not by triggers, so the schema
// carries only the structural constraints the core relies on:
// the unique guest email, the one-rating-per-guest-room primary key,
// and the cascading foreign keys from guests to bookings and ratings.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS guests (
		id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		first_name  VARCHAR(100) NOT NULL,
		last_name   VARCHAR(100) NOT NULL,
		email       VARCHAR(255) NOT NULL,
		created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_guests_email (email)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS rooms (
		id                    BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		room_number           VARCHAR(20) NOT NULL,
		price_per_night_cents INT UNSIGNED NOT NULL,
		availability          INT UNSIGNED NOT NULL DEFAULT 0,
		description           TEXT NULL,
		UNIQUE KEY uq_rooms_number (room_number)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id           BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		guest_id     BIGINT UNSIGNED NOT NULL,
		status       ENUM('New','CheckedOut','Cancelled') NOT NULL DEFAULT 'New',
		total_cents  BIGINT UNSIGNED NOT NULL DEFAULT 0,
		country      VARCHAR(100) NOT NULL,
		city         VARCHAR(100) NOT NULL,
		postal_code  VARCHAR(20) NOT NULL,
		address_line VARCHAR(255) NOT NULL,
		created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_bookings_guest (guest_id),
		CONSTRAINT fk_bookings_guest FOREIGN KEY (guest_id)
			REFERENCES guests (id) ON DELETE CASCADE
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS booking_items (
		booking_id  BIGINT UNSIGNED NOT NULL,
		item_number INT UNSIGNED NOT NULL,
		room_id     BIGINT UNSIGNED NOT NULL,
		nights      INT UNSIGNED NOT NULL,
		price_cents INT UNSIGNED NOT NULL,
		PRIMARY KEY (booking_id, item_number),
		KEY idx_items_room (room_id),
		CONSTRAINT fk_items_booking FOREIGN KEY (booking_id)
			REFERENCES bookings (id) ON DELETE CASCADE,
		CONSTRAINT fk_items_room FOREIGN KEY (room_id)
			REFERENCES rooms (id)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS ratings (
		guest_id BIGINT UNSIGNED NOT NULL,
		room_id  BIGINT UNSIGNED NOT NULL,
		rating   TINYINT UNSIGNED NOT NULL,
		review   TEXT NULL,
		PRIMARY KEY (guest_id, room_id),
		CONSTRAINT fk_ratings_guest FOREIGN KEY (guest_id)
			REFERENCES guests (id) ON DELETE CASCADE,
		CONSTRAINT fk_ratings_room FOREIGN KEY (room_id)
			REFERENCES rooms (id) ON DELETE CASCADE
	) ENGINE=InnoDB`,
}

// EnsureSchema creates any missing tables. Statements are idempotent
// (IF NOT EXISTS) so running it on every startup is safe.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
