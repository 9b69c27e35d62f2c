package commands

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/user/reminder-bot/internal/db"
)

const menuText = `📋 Available commands:
• /add - Create a new event
• /list - Show your upcoming events
• /stop - Stop reminders for an event
• /help - Full help`

// StartCommand handles /start: the registration flow entry point.
type StartCommand struct {
	store    Store
	sessions *Sessions
	log      *zap.Logger
}

func NewStartCommand(store Store, sessions *Sessions, log *zap.Logger) *StartCommand {
	return &StartCommand{
		store:    store,
		sessions: sessions,
		log:      log,
	}
}

func (c *StartCommand) Name() string {
	return "start"
}

func (c *StartCommand) Description() string {
	return "Start the bot and register your name"
}

func (c *StartCommand) Execute(message *tgbotapi.Message) *tgbotapi.MessageConfig {
	ctx := context.Background()
	chatID := message.Chat.ID

	name, err := c.store.GetUserName(ctx, chatID)
	if err != nil && !errors.Is(err, db.ErrUserNotFound) {
		c.log.Error("failed to look up user", zap.Int64("chat_id", chatID), zap.Error(err))
		msg := tgbotapi.NewMessage(chatID, "❌ Something went wrong. Please try again later.")
		return &msg
	}

	// Already registered: short-circuit to the menu, no state entered.
	if err == nil {
		c.sessions.End(chatID)
		text := fmt.Sprintf("Hello %s! Welcome back! 👋\n\n%s\n\nWhat would you like to do today?", name, menuText)
		msg := tgbotapi.NewMessage(chatID, text)
		return &msg
	}

	c.sessions.Begin(chatID, StepName)

	greeting := "Hello"
	if message.From != nil && message.From.FirstName != "" {
		greeting = "Hello " + message.From.FirstName
	}
	text := fmt.Sprintf("%s! 👋\n\nWelcome to the reminder bot! 🤖\n\nTo get started, please enter your name:", greeting)
	msg := tgbotapi.NewMessage(chatID, text)
	return &msg
}
