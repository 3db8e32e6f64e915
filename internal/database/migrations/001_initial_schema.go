package migrations

import (
	"database/sql"
)

func init() {
	Register(Migration{
		Version: 1,
		Name:    "initial_schema",
		Up:      initialSchema,
	})
}

func initialSchema(db *sql.DB) error {
	statements := []string{
		// Message audit trail, both directions
		`CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			identity TEXT NOT NULL,
			direction TEXT NOT NULL CHECK(direction IN ('inbound', 'outbound')),
			body TEXT NOT NULL,
			language TEXT NOT NULL DEFAULT 'en',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_identity ON messages(identity, created_at DESC)`,

		// Completed and failed booking attempts
		`CREATE TABLE IF NOT EXISTS bookings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			identity TEXT NOT NULL,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			booked_start DATETIME,
			booking_uid TEXT,
			meeting_url TEXT,
			language TEXT NOT NULL DEFAULT 'en',
			status TEXT NOT NULL DEFAULT 'confirmed' CHECK(status IN ('confirmed', 'failed')),
			notes TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_identity ON bookings(identity)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_start ON bookings(booked_start)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
