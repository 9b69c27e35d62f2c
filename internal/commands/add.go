package commands

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/user/reminder-bot/internal/db"
)

// AddCommand handles /add: the event creation flow entry point.
type AddCommand struct {
	store    Store
	sessions *Sessions
	log      *zap.Logger
}

func NewAddCommand(store Store, sessions *Sessions, log *zap.Logger) *AddCommand {
	return &AddCommand{
		store:    store,
		sessions: sessions,
		log:      log,
	}
}

func (c *AddCommand) Name() string {
	return "add"
}

func (c *AddCommand) Description() string {
	return "Create a new event with reminders"
}

func (c *AddCommand) Execute(message *tgbotapi.Message) *tgbotapi.MessageConfig {
	ctx := context.Background()
	chatID := message.Chat.ID

	name, err := c.store.GetUserName(ctx, chatID)
	if err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			msg := tgbotapi.NewMessage(chatID, "You are not registered yet. Please type /start first.")
			return &msg
		}
		c.log.Error("failed to look up user", zap.Int64("chat_id", chatID), zap.Error(err))
		msg := tgbotapi.NewMessage(chatID, "❌ Something went wrong. Please try again later.")
		return &msg
	}

	// Re-entering /add mid-flow replaces any existing draft.
	c.sessions.Begin(chatID, StepEventName)

	text := fmt.Sprintf("Hello %s! 📝\n\nPlease send the name of the event you want to add:", name)
	msg := tgbotapi.NewMessage(chatID, text)
	return &msg
}
