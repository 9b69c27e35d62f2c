package commands

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/mock"

	"github.com/user/reminder-bot/internal/db"
)

// CreateCommandMessage is a helper function to create a Telegram message with
// a command for testing purposes. It properly sets up the message entities
// required for commands.
func CreateCommandMessage(chatID int64, commandText string) *tgbotapi.Message {
	return &tgbotapi.Message{
		Chat: &tgbotapi.Chat{
			ID: chatID,
		},
		From: &tgbotapi.User{
			ID:        chatID,
			FirstName: "Tester",
		},
		Text: commandText,
		Entities: []tgbotapi.MessageEntity{
			{
				Type:   "bot_command",
				Offset: 0,
				Length: len(commandText),
			},
		},
	}
}

// CreateTextMessage creates a plain text message for conversation flow tests.
func CreateTextMessage(chatID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		Chat: &tgbotapi.Chat{
			ID: chatID,
		},
		From: &tgbotapi.User{
			ID: chatID,
		},
		Text: text,
	}
}

// CreateCallback creates a callback query as produced by an inline button
// press.
func CreateCallback(chatID int64, data string) *tgbotapi.CallbackQuery {
	return &tgbotapi.CallbackQuery{
		ID: "test_callback_id",
		From: &tgbotapi.User{
			ID: chatID,
		},
		Message: &tgbotapi.Message{
			Chat: &tgbotapi.Chat{
				ID: chatID,
			},
			MessageID: 101,
		},
		Data: data,
	}
}

// MockStore is a testify mock implementing the Store interface.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) GetUserName(ctx context.Context, chatID int64) (string, error) {
	args := m.Called(ctx, chatID)
	return args.String(0), args.Error(1)
}

func (m *MockStore) SaveUserName(ctx context.Context, chatID int64, name string) error {
	args := m.Called(ctx, chatID, name)
	return args.Error(0)
}

func (m *MockStore) CreateEvent(ctx context.Context, event db.Event) (int, error) {
	args := m.Called(ctx, event)
	return args.Int(0), args.Error(1)
}

func (m *MockStore) ListUpcomingEvents(ctx context.Context, chatID int64) ([]db.Event, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]db.Event), args.Error(1)
}

func (m *MockStore) DeactivateEvent(ctx context.Context, eventID int, chatID int64) (db.Event, error) {
	args := m.Called(ctx, eventID, chatID)
	return args.Get(0).(db.Event), args.Error(1)
}

// ConfigureMockStore returns a fluent helper for configuring mock
// expectations.
func ConfigureMockStore(m *MockStore) *MockStoreHelper {
	return &MockStoreHelper{mock: m}
}

// MockStoreHelper provides a fluent interface for configuring mock
// expectations
type MockStoreHelper struct {
	mock *MockStore
}

// WithUserName sets up the mock to respond to GetUserName calls
func (h *MockStoreHelper) WithUserName(chatID int64, name string, err error) *MockStoreHelper {
	h.mock.On("GetUserName", mock.Anything, chatID).Return(name, err)
	return h
}

// WithSaveUserName sets up the mock to respond to SaveUserName calls
func (h *MockStoreHelper) WithSaveUserName(chatID int64, name string, err error) *MockStoreHelper {
	h.mock.On("SaveUserName", mock.Anything, chatID, name).Return(err)
	return h
}

// WithCreateEvent sets up the mock to respond to any CreateEvent call
func (h *MockStoreHelper) WithCreateEvent(id int, err error) *MockStoreHelper {
	h.mock.On("CreateEvent", mock.Anything, mock.AnythingOfType("db.Event")).Return(id, err)
	return h
}

// WithUpcomingEvents sets up the mock to respond to ListUpcomingEvents calls
func (h *MockStoreHelper) WithUpcomingEvents(chatID int64, events []db.Event, err error) *MockStoreHelper {
	h.mock.On("ListUpcomingEvents", mock.Anything, chatID).Return(events, err)
	return h
}

// WithDeactivateEvent sets up the mock to respond to DeactivateEvent calls
func (h *MockStoreHelper) WithDeactivateEvent(eventID int, chatID int64, event db.Event, err error) *MockStoreHelper {
	h.mock.On("DeactivateEvent", mock.Anything, eventID, chatID).Return(event, err)
	return h
}
