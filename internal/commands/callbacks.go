package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/user/reminder-bot/internal/db"
)

// Callback actions used in inline keyboard data
const (
	// CallbackRemind carries the reminder combination chosen for a new event
	CallbackRemind = "remind"

	// CallbackStop carries the event id selected for deactivation
	CallbackStop = "stop"

	// StopCancelPayload aborts the stop selection without mutation
	StopCancelPayload = "cancel"
)

// Separator used in callback data
const CallbackDataSeparator = ":"

func callbackData(action, payload string) string {
	return action + CallbackDataSeparator + payload
}

// CallbackResponse contains the response data for a callback query
type CallbackResponse struct {
	CallbackConfig  *tgbotapi.CallbackConfig
	EditText        string // replaces the origin message text, retiring its keyboard
	ResponseMessage *tgbotapi.MessageConfig
}

// CallbackHandler processes callback queries from inline buttons
type CallbackHandler struct {
	store    Store
	sessions *Sessions
	log      *zap.Logger
}

// NewCallbackHandler creates a new callback handler
func NewCallbackHandler(store Store, sessions *Sessions, log *zap.Logger) *CallbackHandler {
	return &CallbackHandler{
		store:    store,
		sessions: sessions,
		log:      log,
	}
}

// HandleCallback processes callback queries in the "{action}:{payload}" format
func (h *CallbackHandler) HandleCallback(callback *tgbotapi.CallbackQuery) *CallbackResponse {
	parts := strings.SplitN(callback.Data, CallbackDataSeparator, 2)
	if len(parts) != 2 {
		h.log.Warn("invalid callback data format", zap.String("data", callback.Data))
		callbackCfg := tgbotapi.NewCallback(callback.ID, "Invalid callback data")
		return &CallbackResponse{CallbackConfig: &callbackCfg}
	}

	action, payload := parts[0], parts[1]

	switch action {
	case CallbackRemind:
		return h.handleReminderChoice(callback, payload)
	case CallbackStop:
		return h.handleStopSelection(callback, payload)
	default:
		callbackCfg := tgbotapi.NewCallback(callback.ID, "Unknown callback type")
		return &CallbackResponse{CallbackConfig: &callbackCfg}
	}
}

// handleReminderChoice completes the event creation flow: it maps the chosen
// combination to the three reminder flags and persists the draft.
func (h *CallbackHandler) handleReminderChoice(callback *tgbotapi.CallbackQuery, combo string) *CallbackResponse {
	chatID := callback.Message.Chat.ID

	h12, h4, h1, ok := comboFlags(combo)
	if !ok {
		h.log.Warn("unknown reminder combination", zap.String("combo", combo), zap.Int64("chat_id", chatID))
		callbackCfg := tgbotapi.NewCallback(callback.ID, "Unknown reminder option")
		return &CallbackResponse{CallbackConfig: &callbackCfg}
	}

	draft, active := h.sessions.Get(chatID)
	if !active || draft.Step != StepReminderChoice {
		callbackCfg := tgbotapi.NewCallback(callback.ID, "No event creation in progress")
		return &CallbackResponse{CallbackConfig: &callbackCfg}
	}

	event := db.Event{
		Name:      draft.EventName,
		DueAt:     draft.DueAt,
		ChatID:    chatID,
		Remind12h: h12,
		Remind4h:  h4,
		Remind1h:  h1,
	}

	if _, err := h.store.CreateEvent(context.Background(), event); err != nil {
		h.log.Error("failed to create event", zap.Int64("chat_id", chatID), zap.Error(err))
		h.sessions.End(chatID)
		callbackCfg := tgbotapi.NewCallback(callback.ID, "")
		return &CallbackResponse{
			CallbackConfig: &callbackCfg,
			EditText:       "❌ Failed to save the event. Please try again.",
		}
	}

	h.sessions.End(chatID)

	event.Active = true
	callbackCfg := tgbotapi.NewCallback(callback.ID, "✅ Saved!")
	editText := fmt.Sprintf("✅ Event saved!\n\n"+
		"📅 Event: %s\n"+
		"📆 Date: %s\n"+
		"⏰ Time: %s\n"+
		"🔔 Reminders: %s\n\n"+
		"Use /list to see all your events.",
		event.Name,
		event.DueAt.Format(dateLayout),
		event.DueAt.Format(timeLayout),
		event.ReminderSummary(),
	)
	return &CallbackResponse{
		CallbackConfig: &callbackCfg,
		EditText:       editText,
	}
}

// handleStopSelection deactivates the selected event, or aborts on cancel.
// The selection is closed-choice, so there is no re-prompt path.
func (h *CallbackHandler) handleStopSelection(callback *tgbotapi.CallbackQuery, payload string) *CallbackResponse {
	chatID := callback.Message.Chat.ID

	if payload == StopCancelPayload {
		callbackCfg := tgbotapi.NewCallback(callback.ID, "")
		return &CallbackResponse{
			CallbackConfig: &callbackCfg,
			EditText:       "❌ Operation cancelled.",
		}
	}

	eventID, err := strconv.Atoi(payload)
	if err != nil {
		h.log.Warn("invalid stop payload", zap.String("payload", payload), zap.Int64("chat_id", chatID))
		callbackCfg := tgbotapi.NewCallback(callback.ID, "Invalid event id")
		return &CallbackResponse{CallbackConfig: &callbackCfg}
	}

	event, err := h.store.DeactivateEvent(context.Background(), eventID, chatID)
	if err != nil {
		if errors.Is(err, db.ErrEventNotFound) {
			callbackCfg := tgbotapi.NewCallback(callback.ID, "")
			return &CallbackResponse{
				CallbackConfig: &callbackCfg,
				EditText:       "❌ Event not found.",
			}
		}
		h.log.Error("failed to deactivate event", zap.Int("event_id", eventID), zap.Int64("chat_id", chatID), zap.Error(err))
		callbackCfg := tgbotapi.NewCallback(callback.ID, "")
		return &CallbackResponse{
			CallbackConfig: &callbackCfg,
			EditText:       "❌ Failed to stop the reminder. Please try again.",
		}
	}

	callbackCfg := tgbotapi.NewCallback(callback.ID, "✅ Stopped")
	editText := fmt.Sprintf("✅ Reminder stopped!\n\n"+
		"📅 Event: %s\n"+
		"📆 Date: %s\n\n"+
		"Reminders for this event have been disabled.",
		event.Name,
		event.DueAt.Format(dateLayout+" "+timeLayout),
	)
	return &CallbackResponse{
		CallbackConfig: &callbackCfg,
		EditText:       editText,
	}
}

// comboFlags maps a reminder combination payload to the flag triple. All
// eight combinations of the three flags are selectable.
func comboFlags(combo string) (h12, h4, h1, ok bool) {
	switch combo {
	case "h12":
		return true, false, false, true
	case "h4":
		return false, true, false, true
	case "h1":
		return false, false, true, true
	case "h12_h4":
		return true, true, false, true
	case "h12_h1":
		return true, false, true, true
	case "h4_h1":
		return false, true, true, true
	case "all":
		return true, true, true, true
	case "none":
		return false, false, false, true
	}
	return false, false, false, false
}
