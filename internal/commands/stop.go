package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/user/reminder-bot/internal/db"
)

// StopCommand handles /stop: it presents the caller's active events as
// selectable options; the actual deactivation happens in the callback
// handler.
type StopCommand struct {
	store Store
	log   *zap.Logger
}

func NewStopCommand(store Store, log *zap.Logger) *StopCommand {
	return &StopCommand{
		store: store,
		log:   log,
	}
}

func (c *StopCommand) Name() string {
	return "stop"
}

func (c *StopCommand) Description() string {
	return "Stop reminders for an event"
}

func (c *StopCommand) Execute(message *tgbotapi.Message) *tgbotapi.MessageConfig {
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
		text := fmt.Sprintf("Hello %s! 🔴\n\nThere are no active events to stop.", name)
		msg := tgbotapi.NewMessage(chatID, text)
		return &msg
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, event := range events {
		label := fmt.Sprintf("%s - %s", event.Name, event.DueAt.Format("02/01 15:04"))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, callbackData(CallbackStop, strconv.Itoa(event.ID))),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", callbackData(CallbackStop, StopCancelPayload)),
	))

	msg := tgbotapi.NewMessage(chatID, "🔴 *Stop event reminders*\n\nPick the event whose reminders you want to stop:")
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &msg
}
