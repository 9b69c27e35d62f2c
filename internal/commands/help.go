package commands

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// HelpCommand handles the /help command
type HelpCommand struct {
	store Store
	log   *zap.Logger
}

func NewHelpCommand(store Store, log *zap.Logger) *HelpCommand {
	return &HelpCommand{
		store: store,
		log:   log,
	}
}

func (c *HelpCommand) Name() string {
	return "help"
}

func (c *HelpCommand) Description() string {
	return "Show this help"
}

func (c *HelpCommand) Execute(message *tgbotapi.Message) *tgbotapi.MessageConfig {
	chatID := message.Chat.ID

	greeting := "Hello! "
	if name, err := c.store.GetUserName(context.Background(), chatID); err == nil {
		greeting = fmt.Sprintf("Hello %s! ", name)
	}

	helpText := greeting + `📚 *Reminder Bot Help*

🤖 *Available commands:*
• /start - Start the bot and register your name
• /add - Create a new event
• /list - Show your upcoming events
• /stop - Stop reminders for an event
• /cancel - Cancel the current operation
• /help - Show this help

⏰ *Reminder options:*
• 12h before - reminder 12 hours before the event
• 4h before - reminder 4 hours before the event
• 1h before - reminder 1 hour before the event

📝 *Input formats:*
• Date: DD-MM-YYYY (example: 25-12-2026)
• Time: HH:MM (example: 14:30)

❓ *Tips:*
• You can pick any combination of reminders
• Past events disappear from /list automatically
• Use /stop to disable reminders for an event
• The bot sends notifications at the times you picked`

	msg := tgbotapi.NewMessage(chatID, helpText)
	msg.ParseMode = "Markdown"
	return &msg
}
