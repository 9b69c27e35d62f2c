package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/user/reminder-bot/internal/db"
)

// ListCommand handles /list: all active, future events for the caller.
type ListCommand struct {
	store Store
	log   *zap.Logger
}

func NewListCommand(store Store, log *zap.Logger) *ListCommand {
	return &ListCommand{
		store: store,
		log:   log,
	}
}

func (c *ListCommand) Name() string {
	return "list"
}

func (c *ListCommand) Description() string {
	return "Show your upcoming events"
}

func (c *ListCommand) Execute(message *tgbotapi.Message) *tgbotapi.MessageConfig {
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

	events, err := c.store.ListUpcomingEvents(ctx, chatID)
	if err != nil {
		c.log.Error("failed to list events", zap.Int64("chat_id", chatID), zap.Error(err))
		msg := tgbotapi.NewMessage(chatID, "❌ Failed to fetch your events. Please try again.")
		return &msg
	}

	if len(events) == 0 {
		text := fmt.Sprintf("Hello %s! 📋\n\nYou have no active events, or they have all passed.\n\nUse /add to create a new one.", name)
		msg := tgbotapi.NewMessage(chatID, text)
		return &msg
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 *Events for %s:*\n\n", name))
	for i, event := range events {
		status := "🟢 Active"
		if !event.Active {
			status = "🔴 Inactive"
		}
		sb.WriteString(fmt.Sprintf("%d. 📅 *%s*\n", i+1, event.Name))
		sb.WriteString(fmt.Sprintf("   📆 %s\n", event.DueAt.Format(dateLayout)))
		sb.WriteString(fmt.Sprintf("   ⏰ %s\n", event.DueAt.Format(timeLayout)))
		sb.WriteString(fmt.Sprintf("   🔔 Reminders: %s\n", event.ReminderSummary()))
		sb.WriteString(fmt.Sprintf("   %s\n\n", status))
	}
	sb.WriteString("Use /stop to stop reminders for an event.")

	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.ParseMode = "Markdown"
	return &msg
}
