package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrUserNotFound = errors.New("user not found")
var ErrEventNotFound = errors.New("event not found")

// Reminder flag columns selectable by EventsDueBetween. Kept as a closed set
// so callers can never interpolate arbitrary SQL.
const (
	FlagRemind12h = "remind_12h"
	FlagRemind4h  = "remind_4h"
	FlagRemind1h  = "remind_1h"
)

// GetUserName returns the display name registered for a chat.
func (m *Manager) GetUserName(ctx context.Context, chatID int64) (string, error) {
	query := `
		SELECT name
		FROM users
		WHERE chat_id = $1
	`
	var name string
	err := m.db.QueryRowContext(ctx, query, chatID).Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("failed to get user name: %w", err)
	}
	return name, nil
}

// SaveUserName registers or re-registers a chat's display name.
// Last write wins on re-registration.
func (m *Manager) SaveUserName(ctx context.Context, chatID int64, name string) error {
	query := `
		INSERT INTO users (chat_id, name)
		VALUES ($1, $2)
		ON CONFLICT (chat_id) DO UPDATE
		SET name = $2
	`
	_, err := m.db.ExecContext(ctx, query, chatID, name)
	if err != nil {
		return fmt.Errorf("failed to save user name: %w", err)
	}
	return nil
}

// CreateEvent inserts a new event row and returns its generated id.
func (m *Manager) CreateEvent(ctx context.Context, event Event) (int, error) {
	query := `
		INSERT INTO events (name, due_at, chat_id, remind_12h, remind_4h, remind_1h)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var id int
	err := m.db.QueryRowContext(
		ctx,
		query,
		event.Name,
		event.DueAt,
		event.ChatID,
		event.Remind12h,
		event.Remind4h,
		event.Remind1h,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create event: %w", err)
	}
	return id, nil
}

// ListUpcomingEvents returns a chat's active events with a due time still in
// the future, ordered by due time ascending.
func (m *Manager) ListUpcomingEvents(ctx context.Context, chatID int64) ([]Event, error) {
	query := `
		SELECT id, name, due_at, chat_id, remind_12h, remind_4h, remind_1h, active, created_at
		FROM events
		WHERE chat_id = $1 AND due_at > now() AND active = TRUE
		ORDER BY due_at ASC
	`
	rows, err := m.db.QueryContext(ctx, query, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// DeactivateEvent flips an event's active flag to false. The statement is
// scoped to the owning chat, so a foreign id reports ErrEventNotFound.
func (m *Manager) DeactivateEvent(ctx context.Context, eventID int, chatID int64) (Event, error) {
	query := `
		UPDATE events
		SET active = FALSE
		WHERE id = $1 AND chat_id = $2
		RETURNING id, name, due_at, chat_id, remind_12h, remind_4h, remind_1h, active, created_at
	`
	var e Event
	err := m.db.QueryRowContext(ctx, query, eventID, chatID).Scan(
		&e.ID,
		&e.Name,
		&e.DueAt,
		&e.ChatID,
		&e.Remind12h,
		&e.Remind4h,
		&e.Remind1h,
		&e.Active,
		&e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Event{}, ErrEventNotFound
		}
		return Event{}, fmt.Errorf("failed to deactivate event: %w", err)
	}
	return e, nil
}

// EventsDueBetween returns active, future events with the given reminder flag
// set and a due time inside [from, to].
func (m *Manager) EventsDueBetween(ctx context.Context, flagColumn string, from, to time.Time) ([]Event, error) {
	switch flagColumn {
	case FlagRemind12h, FlagRemind4h, FlagRemind1h:
	default:
		return nil, fmt.Errorf("unknown reminder flag column: %s", flagColumn)
	}

	query := fmt.Sprintf(`
		SELECT id, name, due_at, chat_id, remind_12h, remind_4h, remind_1h, active, created_at
		FROM events
		WHERE %s = TRUE AND active = TRUE
		  AND due_at > now()
		  AND due_at BETWEEN $1 AND $2
	`, flagColumn)

	rows, err := m.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query due events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]Event, error) {
	var events []Event
	for rows.Next() {
		var e Event
		err := rows.Scan(
			&e.ID,
			&e.Name,
			&e.DueAt,
			&e.ChatID,
			&e.Remind12h,
			&e.Remind4h,
			&e.Remind1h,
			&e.Active,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}

	return events, nil
}
