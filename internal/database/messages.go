package database

import (
	"fmt"
	"time"
)

// Direction of a logged message relative to the service.
const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

// MessageRecord is one logged WhatsApp message.
type MessageRecord struct {
	ID        int64     `json:"id"`
	Identity  string    `json:"identity"`
	Direction string    `json:"direction"`
	Body      string    `json:"body"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
}

// LogMessage appends one message to the audit trail.
func (d *DB) LogMessage(identity, direction, body, language string) error {
	_, err := d.Exec(`
		INSERT INTO messages (identity, direction, body, language)
		VALUES (?, ?, ?, ?)
	`, identity, direction, body, language)
	if err != nil {
		return fmt.Errorf("failed to log message: %w", err)
	}
	return nil
}

// GetMessageHistory retrieves the last N messages for an identity in
// chronological order.
func (d *DB) GetMessageHistory(identity string, limit int) ([]MessageRecord, error) {
	rows, err := d.Query(`
		SELECT id, identity, direction, body, language, created_at
		FROM messages
		WHERE identity = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, identity, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query message history: %w", err)
	}
	defer rows.Close()

	var messages []MessageRecord
	for rows.Next() {
		var m MessageRecord
		if err := rows.Scan(&m.ID, &m.Identity, &m.Direction, &m.Body, &m.Language, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}

	// Reverse to get chronological order (oldest first)
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
