package commands

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	dateLayout = "02-01-2006"
	timeLayout = "15:04"
)

// FlowHandler advances a chat's active conversation flow on free-form text.
// Commands never reach it; the bot routes them through the registry first.
type FlowHandler struct {
	store    Store
	sessions *Sessions
	log      *zap.Logger
	now      func() time.Time
}

func NewFlowHandler(store Store, sessions *Sessions, log *zap.Logger) *FlowHandler {
	return &FlowHandler{
		store:    store,
		sessions: sessions,
		log:      log,
		now:      time.Now,
	}
}

// HandleText processes one text input for the chat's current step. Returns
// nil when the chat has no flow in progress.
func (h *FlowHandler) HandleText(message *tgbotapi.Message) *tgbotapi.MessageConfig {
	chatID := message.Chat.ID

	draft, ok := h.sessions.Get(chatID)
	if !ok {
		return nil
	}

	text := strings.TrimSpace(message.Text)

	switch draft.Step {
	case StepName:
		return h.handleName(chatID, text)
	case StepEventName:
		return h.handleEventName(chatID, draft, text)
	case StepEventDate:
		return h.handleEventDate(chatID, draft, text)
	case StepEventTime:
		return h.handleEventTime(chatID, draft, text)
	case StepReminderChoice:
		// The reminder choice is a closed set of buttons; free text is
		// answered with a nudge back to the keyboard.
		msg := tgbotapi.NewMessage(chatID, "🔔 Please pick a reminder option using the buttons above.")
		return &msg
	default:
		h.log.Warn("draft in unknown step", zap.Int64("chat_id", chatID), zap.Int("step", int(draft.Step)))
		h.sessions.End(chatID)
		return nil
	}
}

func (h *FlowHandler) handleName(chatID int64, name string) *tgbotapi.MessageConfig {
	if utf8.RuneCountInString(name) < 2 {
		msg := tgbotapi.NewMessage(chatID, "Name is too short. Please enter a valid name (at least 2 characters):")
		return &msg
	}

	if err := h.store.SaveUserName(context.Background(), chatID, name); err != nil {
		h.log.Error("failed to save user name", zap.Int64("chat_id", chatID), zap.Error(err))
		h.sessions.End(chatID)
		msg := tgbotapi.NewMessage(chatID, "❌ Failed to save your name. Please try again later.")
		return &msg
	}

	h.sessions.End(chatID)

	text := fmt.Sprintf("Thank you %s! 😊\n\nYou are now registered.\n\n%s\n\nType /add to create your first event!", name, menuText)
	msg := tgbotapi.NewMessage(chatID, text)
	return &msg
}

func (h *FlowHandler) handleEventName(chatID int64, draft Draft, text string) *tgbotapi.MessageConfig {
	if text == "" {
		msg := tgbotapi.NewMessage(chatID, "Please send a name for the event:")
		return &msg
	}

	draft.EventName = text
	draft.Step = StepEventDate
	h.sessions.Put(chatID, draft)

	msg := tgbotapi.NewMessage(chatID, "📅 Please send the event date (format: DD-MM-YYYY):\nExample: 25-12-2026")
	return &msg
}

func (h *FlowHandler) handleEventDate(chatID int64, draft Draft, text string) *tgbotapi.MessageConfig {
	date, err := time.ParseInLocation(dateLayout, text, time.Local)
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, "❌ Invalid date format. Please send it as DD-MM-YYYY\nExample: 25-12-2026")
		return &msg
	}

	now := h.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	if date.Before(today) {
		msg := tgbotapi.NewMessage(chatID, "📅 The event date must be today or in the future. Please enter a valid date.\nFormat: DD-MM-YYYY (example: 25-12-2026)")
		return &msg
	}

	draft.Date = date
	draft.Step = StepEventTime
	h.sessions.Put(chatID, draft)

	msg := tgbotapi.NewMessage(chatID, "⏰ Please send the event time (format: HH:MM):\nExample: 14:30 or 09:15")
	return &msg
}

func (h *FlowHandler) handleEventTime(chatID int64, draft Draft, text string) *tgbotapi.MessageConfig {
	t, err := time.Parse(timeLayout, text)
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, "❌ Invalid time format. Please send it as HH:MM\nExample: 14:30 or 09:15")
		return &msg
	}

	dueAt := time.Date(
		draft.Date.Year(), draft.Date.Month(), draft.Date.Day(),
		t.Hour(), t.Minute(), 0, 0, time.Local,
	)
	if !dueAt.After(h.now()) {
		msg := tgbotapi.NewMessage(chatID, "⏰ The event time must be in the future. Please enter a valid time.\nFormat: HH:MM (example: 14:30)")
		return &msg
	}

	draft.DueAt = dueAt
	draft.Step = StepReminderChoice
	h.sessions.Put(chatID, draft)

	text = fmt.Sprintf("📋 *Event summary:*\n"+
		"📅 Event: %s\n"+
		"📆 Date: %s\n"+
		"⏰ Time: %s\n\n"+
		"🔔 Choose the reminders you want:",
		draft.EventName,
		dueAt.Format(dateLayout),
		dueAt.Format(timeLayout),
	)

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = reminderChoiceKeyboard()
	return &msg
}

// reminderChoiceKeyboard presents every combination of the three reminder
// flags as a discrete choice.
func reminderChoiceKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("12h before", callbackData(CallbackRemind, "h12")),
			tgbotapi.NewInlineKeyboardButtonData("4h before", callbackData(CallbackRemind, "h4")),
			tgbotapi.NewInlineKeyboardButtonData("1h before", callbackData(CallbackRemind, "h1")),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("12h & 4h", callbackData(CallbackRemind, "h12_h4")),
			tgbotapi.NewInlineKeyboardButtonData("12h & 1h", callbackData(CallbackRemind, "h12_h1")),
			tgbotapi.NewInlineKeyboardButtonData("4h & 1h", callbackData(CallbackRemind, "h4_h1")),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("All (12h, 4h, 1h)", callbackData(CallbackRemind, "all")),
			tgbotapi.NewInlineKeyboardButtonData("No reminders", callbackData(CallbackRemind, "none")),
		),
	)
}
