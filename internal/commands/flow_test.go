package commands

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/user/reminder-bot/internal/db"
)

// testNow is the fixed instant the flow validation tests run at.
var testNow = time.Date(2026, time.September, 15, 10, 0, 0, 0, time.Local)

func newTestFlowHandler(store Store) (*FlowHandler, *Sessions) {
	sessions := NewSessions()
	h := NewFlowHandler(store, sessions, zap.NewNop())
	h.now = func() time.Time { return testNow }
	return h, sessions
}

func TestFlowHandler_HandleText_NoActiveFlow(t *testing.T) {
	mockStore := new(MockStore)
	h, _ := newTestFlowHandler(mockStore)

	response := h.HandleText(CreateTextMessage(555, "hello"))

	assert.Nil(t, response)
	mockStore.AssertNotCalled(t, "SaveUserName")
}

func TestFlowHandler_Registration_NameTooShort(t *testing.T) {
	mockStore := new(MockStore)
	h, sessions := newTestFlowHandler(mockStore)

	chatID := int64(555)
	sessions.Begin(chatID, StepName)

	for _, name := range []string{"", "R", " R "} {
		response := h.HandleText(CreateTextMessage(chatID, name))

		assert.NotNil(t, response)
		assert.Contains(t, response.Text, "too short")
	}

	// Still awaiting a name, nothing persisted
	draft, active := sessions.Get(chatID)
	assert.True(t, active)
	assert.Equal(t, StepName, draft.Step)
	mockStore.AssertNotCalled(t, "SaveUserName")
}

func TestFlowHandler_Registration_ValidNamePersists(t *testing.T) {
	mockStore := new(MockStore)
	h, sessions := newTestFlowHandler(mockStore)

	chatID := int64(555)
	sessions.Begin(chatID, StepName)

	ConfigureMockStore(mockStore).WithSaveUserName(chatID, "Rina", nil)

	response := h.HandleText(CreateTextMessage(chatID, "Rina"))

	assert.NotNil(t, response)
	assert.Contains(t, response.Text, "Rina")
	assert.False(t, sessions.Active(chatID))
	mockStore.AssertExpectations(t)
}

func TestFlowHandler_EventDate_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"wrong layout", "2026-12-25"},
		{"not a date", "tomorrow"},
		{"impossible day", "32-13-2026"},
		{"yesterday", "14-09-2026"},
		{"long past", "01-01-2020"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStore := new(MockStore)
			h, sessions := newTestFlowHandler(mockStore)

			chatID := int64(555)
			sessions.Begin(chatID, StepEventName)
			h.HandleText(CreateTextMessage(chatID, "Ujian"))

			response := h.HandleText(CreateTextMessage(chatID, tt.input))

			assert.NotNil(t, response)
			draft, _ := sessions.Get(chatID)
			assert.Equal(t, StepEventDate, draft.Step, "state must not advance")
		})
	}
}

func TestFlowHandler_EventDate_TodayAccepted(t *testing.T) {
	mockStore := new(MockStore)
	h, sessions := newTestFlowHandler(mockStore)

	chatID := int64(555)
	sessions.Begin(chatID, StepEventName)
	h.HandleText(CreateTextMessage(chatID, "Ujian"))

	response := h.HandleText(CreateTextMessage(chatID, "15-09-2026"))

	assert.NotNil(t, response)
	assert.Contains(t, response.Text, "HH:MM")
	draft, _ := sessions.Get(chatID)
	assert.Equal(t, StepEventTime, draft.Step)
}

func TestFlowHandler_EventTime_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"wrong layout", "14.30"},
		{"not a time", "noon"},
		{"impossible hour", "25:00"},
		{"earlier today", "09:00"},
		{"exactly now", "10:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStore := new(MockStore)
			h, sessions := newTestFlowHandler(mockStore)

			chatID := int64(555)
			sessions.Begin(chatID, StepEventName)
			h.HandleText(CreateTextMessage(chatID, "Ujian"))
			h.HandleText(CreateTextMessage(chatID, "15-09-2026"))

			response := h.HandleText(CreateTextMessage(chatID, tt.input))

			assert.NotNil(t, response)
			draft, _ := sessions.Get(chatID)
			assert.Equal(t, StepEventTime, draft.Step, "state must not advance")
		})
	}
}

func TestFlowHandler_EventTime_ValidShowsReminderChoice(t *testing.T) {
	mockStore := new(MockStore)
	h, sessions := newTestFlowHandler(mockStore)

	chatID := int64(555)
	sessions.Begin(chatID, StepEventName)
	h.HandleText(CreateTextMessage(chatID, "Ujian"))
	h.HandleText(CreateTextMessage(chatID, "15-09-2026"))

	response := h.HandleText(CreateTextMessage(chatID, "14:30"))

	assert.NotNil(t, response)
	assert.Contains(t, response.Text, "Ujian")
	assert.NotNil(t, response.ReplyMarkup)

	draft, _ := sessions.Get(chatID)
	assert.Equal(t, StepReminderChoice, draft.Step)
	assert.Equal(t, time.Date(2026, time.September, 15, 14, 30, 0, 0, time.Local), draft.DueAt)
}

func TestFlowHandler_ReminderStep_FreeTextNudges(t *testing.T) {
	mockStore := new(MockStore)
	h, sessions := newTestFlowHandler(mockStore)

	chatID := int64(555)
	sessions.Begin(chatID, StepEventName)
	h.HandleText(CreateTextMessage(chatID, "Ujian"))
	h.HandleText(CreateTextMessage(chatID, "15-09-2026"))
	h.HandleText(CreateTextMessage(chatID, "14:30"))

	response := h.HandleText(CreateTextMessage(chatID, "all of them"))

	assert.NotNil(t, response)
	assert.Contains(t, response.Text, "buttons")
	draft, _ := sessions.Get(chatID)
	assert.Equal(t, StepReminderChoice, draft.Step)
	mockStore.AssertNotCalled(t, "CreateEvent")
}

// The §2 registration short-circuit: a registered chat re-running /start gets
// the menu and enters no state.
func TestStartCommand_AlreadyRegistered(t *testing.T) {
	mockStore := new(MockStore)
	sessions := NewSessions()
	cmd := NewStartCommand(mockStore, sessions, zap.NewNop())

	chatID := int64(555)
	ConfigureMockStore(mockStore).WithUserName(chatID, "Rina", nil)

	response := cmd.Execute(CreateCommandMessage(chatID, "/start"))

	assert.Contains(t, response.Text, "Rina")
	assert.Contains(t, response.Text, "Welcome back")
	assert.False(t, sessions.Active(chatID))
}

func TestStartCommand_NewUserEntersRegistration(t *testing.T) {
	mockStore := new(MockStore)
	sessions := NewSessions()
	cmd := NewStartCommand(mockStore, sessions, zap.NewNop())

	chatID := int64(555)
	ConfigureMockStore(mockStore).WithUserName(chatID, "", db.ErrUserNotFound)

	response := cmd.Execute(CreateCommandMessage(chatID, "/start"))

	assert.Contains(t, response.Text, "enter your name")
	draft, active := sessions.Get(chatID)
	assert.True(t, active)
	assert.Equal(t, StepName, draft.Step)
}

func TestAddCommand_RequiresRegistration(t *testing.T) {
	mockStore := new(MockStore)
	sessions := NewSessions()
	cmd := NewAddCommand(mockStore, sessions, zap.NewNop())

	chatID := int64(555)
	ConfigureMockStore(mockStore).WithUserName(chatID, "", db.ErrUserNotFound)

	response := cmd.Execute(CreateCommandMessage(chatID, "/add"))

	assert.Contains(t, response.Text, "/start")
	assert.False(t, sessions.Active(chatID))
}

func TestAddCommand_RestartsFlowMidway(t *testing.T) {
	mockStore := new(MockStore)
	sessions := NewSessions()
	cmd := NewAddCommand(mockStore, sessions, zap.NewNop())

	chatID := int64(555)
	ConfigureMockStore(mockStore).WithUserName(chatID, "Rina", nil)

	// Mid-flow draft with data already collected
	sessions.Put(chatID, Draft{Step: StepEventTime, EventName: "Old event"})

	cmd.Execute(CreateCommandMessage(chatID, "/add"))

	draft, active := sessions.Get(chatID)
	assert.True(t, active)
	assert.Equal(t, StepEventName, draft.Step)
	assert.Empty(t, draft.EventName, "restart must replace the draft")
}

func TestCancelCommand(t *testing.T) {
	sessions := NewSessions()
	cmd := NewCancelCommand(sessions)

	chatID := int64(555)

	response := cmd.Execute(CreateCommandMessage(chatID, "/cancel"))
	assert.Contains(t, response.Text, "Nothing to cancel")

	sessions.Begin(chatID, StepEventDate)
	response = cmd.Execute(CreateCommandMessage(chatID, "/cancel"))
	assert.Contains(t, response.Text, "cancelled")
	assert.False(t, sessions.Active(chatID))
}
