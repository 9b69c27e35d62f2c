package db

import (
	"strings"
	"time"
)

type User struct {
	ID        int       `db:"id"`
	ChatID    int64     `db:"chat_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

type Event struct {
	ID        int       `db:"id"`
	Name      string    `db:"name"`
	DueAt     time.Time `db:"due_at"`
	ChatID    int64     `db:"chat_id"`
	Remind12h bool      `db:"remind_12h"`
	Remind4h  bool      `db:"remind_4h"`
	Remind1h  bool      `db:"remind_1h"`
	Active    bool      `db:"active"`
	CreatedAt time.Time `db:"created_at"`
}

// ReminderSummary renders the enabled reminder flags as a human-readable
// list, e.g. "12h, 1h before". Returns "none" when no flag is set.
func (e Event) ReminderSummary() string {
	var parts []string
	if e.Remind12h {
		parts = append(parts, "12h")
	}
	if e.Remind4h {
		parts = append(parts, "4h")
	}
	if e.Remind1h {
		parts = append(parts, "1h")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ") + " before"
}
