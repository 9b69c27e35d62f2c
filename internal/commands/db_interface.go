package commands

import (
	"context"

	"github.com/user/reminder-bot/internal/db"
)

// Store is the slice of the persistence layer the command handlers need.
type Store interface {
	// Registration
	GetUserName(ctx context.Context, chatID int64) (string, error)
	SaveUserName(ctx context.Context, chatID int64, name string) error

	// Events
	CreateEvent(ctx context.Context, event db.Event) (int, error)
	ListUpcomingEvents(ctx context.Context, chatID int64) ([]db.Event, error)
	DeactivateEvent(ctx context.Context, eventID int, chatID int64) (db.Event, error)
}
