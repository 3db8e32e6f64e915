package database

import (
	"database/sql"
	"fmt"
	"time"
)

// Booking statuses.
const (
	BookingConfirmed = "confirmed"
	BookingFailed    = "failed"
)

// BookingRecord is one booking attempt outcome.
type BookingRecord struct {
	ID          int64      `json:"id"`
	Identity    string     `json:"identity"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	BookedStart *time.Time `json:"booked_start,omitempty"`
	BookingUID  string     `json:"booking_uid,omitempty"`
	MeetingURL  string     `json:"meeting_url,omitempty"`
	Language    string     `json:"language"`
	Status      string     `json:"status"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// SaveBooking records a booking outcome and returns its row id.
func (d *DB) SaveBooking(b *BookingRecord) (int64, error) {
	var start any
	if b.BookedStart != nil {
		start = b.BookedStart.UTC()
	}

	result, err := d.Exec(`
		INSERT INTO bookings (identity, name, email, booked_start, booking_uid, meeting_url, language, status, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, b.Identity, b.Name, b.Email, start, b.BookingUID, b.MeetingURL, b.Language, b.Status, b.Notes)
	if err != nil {
		return 0, fmt.Errorf("failed to save booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get booking id: %w", err)
	}
	return id, nil
}

// GetBookingsByIdentity returns an identity's bookings, most recent first.
func (d *DB) GetBookingsByIdentity(identity string) ([]BookingRecord, error) {
	rows, err := d.Query(`
		SELECT id, identity, name, email, booked_start, booking_uid, meeting_url, language, status, notes, created_at
		FROM bookings
		WHERE identity = ?
		ORDER BY created_at DESC, id DESC
	`, identity)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []BookingRecord
	for rows.Next() {
		var b BookingRecord
		var start sql.NullTime
		var uid, url, notes sql.NullString
		if err := rows.Scan(&b.ID, &b.Identity, &b.Name, &b.Email, &start, &uid, &url, &b.Language, &b.Status, &notes, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		if start.Valid {
			t := start.Time
			b.BookedStart = &t
		}
		b.BookingUID = uid.String
		b.MeetingURL = url.String
		b.Notes = notes.String
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookings: %w", err)
	}
	return bookings, nil
}

// CountBookings returns how many bookings carry the given status.
func (d *DB) CountBookings(status string) (int, error) {
	var count int
	err := d.QueryRow(`SELECT COUNT(*) FROM bookings WHERE status = ?`, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}
