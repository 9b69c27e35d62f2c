package commands

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// CancelCommand handles /cancel: it ends the chat's active flow, if any,
// without persisting anything.
type CancelCommand struct {
	sessions *Sessions
}

func NewCancelCommand(sessions *Sessions) *CancelCommand {
	return &CancelCommand{
		sessions: sessions,
	}
}

func (c *CancelCommand) Name() string {
	return "cancel"
}

func (c *CancelCommand) Description() string {
	return "Cancel the current operation"
}

func (c *CancelCommand) Execute(message *tgbotapi.Message) *tgbotapi.MessageConfig {
	chatID := message.Chat.ID

	if !c.sessions.Active(chatID) {
		msg := tgbotapi.NewMessage(chatID, "Nothing to cancel.")
		return &msg
	}

	c.sessions.End(chatID)
	msg := tgbotapi.NewMessage(chatID, "❌ Operation cancelled.")
	return &msg
}
