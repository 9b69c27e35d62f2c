package scheduler

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/user/reminder-bot/internal/db"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockStore) GetUserName(ctx context.Context, chatID int64) (string, error) {
	args := m.Called(ctx, chatID)
	return args.String(0), args.Error(1)
}

func (m *MockStore) EventsDueBetween(ctx context.Context, flagColumn string, from, to time.Time) ([]db.Event, error) {
	args := m.Called(ctx, flagColumn, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]db.Event), args.Error(1)
}

type MockSender struct {
	mock.Mock
}

func (m *MockSender) SendMarkdown(chatID int64, text string) error {
	args := m.Called(chatID, text)
	return args.Error(0)
}

func thresholdByFlag(t *testing.T, flag string) Threshold {
	t.Helper()
	for _, th := range Thresholds() {
		if th.FlagColumn == flag {
			return th
		}
	}
	t.Fatalf("no threshold for flag %s", flag)
	return Threshold{}
}

// Boundary checks for the three reminder windows.
func TestThreshold_WindowBoundaries(t *testing.T) {
	now := time.Date(2026, time.September, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		flag     string
		offset   time.Duration
		included bool
	}{
		{"12h exact", db.FlagRemind12h, 12 * time.Hour, true},
		{"12h lower bound", db.FlagRemind12h, 11 * time.Hour, true},
		{"12h upper bound", db.FlagRemind12h, 13 * time.Hour, true},
		{"12h just below", db.FlagRemind12h, 10*time.Hour + 59*time.Minute, false},
		{"12h just above", db.FlagRemind12h, 13*time.Hour + 1*time.Minute, false},

		{"4h exact", db.FlagRemind4h, 4 * time.Hour, true},
		{"4h lower bound", db.FlagRemind4h, 3 * time.Hour, true},
		{"4h upper bound", db.FlagRemind4h, 5 * time.Hour, true},
		{"4h just below", db.FlagRemind4h, 2*time.Hour + 59*time.Minute, false},
		{"4h just above", db.FlagRemind4h, 5*time.Hour + 1*time.Minute, false},

		{"1h exact", db.FlagRemind1h, time.Hour, true},
		{"1h lower bound", db.FlagRemind1h, 45 * time.Minute, true},
		{"1h upper bound", db.FlagRemind1h, 75 * time.Minute, true},
		{"1h just below", db.FlagRemind1h, 44 * time.Minute, false},
		{"1h just above", db.FlagRemind1h, 76 * time.Minute, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			threshold := thresholdByFlag(t, tt.flag)
			assert.Equal(t, tt.included, threshold.Contains(now, now.Add(tt.offset)))
		})
	}
}

func TestScheduler_Cycle_SkippedWhenStoreUnreachable(t *testing.T) {
	mockStore := new(MockStore)
	mockSender := new(MockSender)
	s := New(mockStore, mockSender, zap.NewNop(), 30*time.Minute)

	mockStore.On("Ping", mock.Anything).Return(errors.New("connection refused"))

	s.runCycle(context.Background())

	mockStore.AssertNotCalled(t, "EventsDueBetween")
	mockSender.AssertNotCalled(t, "SendMarkdown")
}

func TestScheduler_Cycle_DispatchesPerThreshold(t *testing.T) {
	mockStore := new(MockStore)
	mockSender := new(MockSender)
	s := New(mockStore, mockSender, zap.NewNop(), 30*time.Minute)

	now := time.Date(2026, time.September, 15, 10, 0, 0, 0, time.Local)
	s.now = func() time.Time { return now }

	event12 := db.Event{ID: 1, Name: "Ujian", DueAt: now.Add(12 * time.Hour), ChatID: 555, Remind12h: true, Active: true}
	event1 := db.Event{ID: 2, Name: "Dentist", DueAt: now.Add(time.Hour), ChatID: 777, Remind1h: true, Active: true}

	mockStore.On("Ping", mock.Anything).Return(nil)
	mockStore.On("EventsDueBetween", mock.Anything, db.FlagRemind12h, now.Add(11*time.Hour), now.Add(13*time.Hour)).
		Return([]db.Event{event12}, nil)
	mockStore.On("EventsDueBetween", mock.Anything, db.FlagRemind4h, now.Add(3*time.Hour), now.Add(5*time.Hour)).
		Return([]db.Event(nil), nil)
	mockStore.On("EventsDueBetween", mock.Anything, db.FlagRemind1h, now.Add(45*time.Minute), now.Add(75*time.Minute)).
		Return([]db.Event{event1}, nil)

	mockStore.On("GetUserName", mock.Anything, int64(555)).Return("Rina", nil)
	mockStore.On("GetUserName", mock.Anything, int64(777)).Return("", db.ErrUserNotFound)

	mockSender.On("SendMarkdown", int64(555), mock.MatchedBy(func(text string) bool {
		return strings.Contains(text, "Rina") && strings.Contains(text, "Ujian")
	})).Return(nil)
	mockSender.On("SendMarkdown", int64(777), mock.MatchedBy(func(text string) bool {
		// Absence of a registered name falls back to a plain greeting
		return strings.Contains(text, "Hello! ") && strings.Contains(text, "Dentist")
	})).Return(nil)

	s.runCycle(context.Background())

	mockStore.AssertExpectations(t)
	mockSender.AssertExpectations(t)
}

// A single failed send is logged and skipped; the cycle continues with the
// remaining rows.
func TestScheduler_Cycle_SendFailureDoesNotAbort(t *testing.T) {
	mockStore := new(MockStore)
	mockSender := new(MockSender)
	s := New(mockStore, mockSender, zap.NewNop(), 30*time.Minute)

	now := time.Date(2026, time.September, 15, 10, 0, 0, 0, time.Local)
	s.now = func() time.Time { return now }

	first := db.Event{ID: 1, Name: "First", DueAt: now.Add(12 * time.Hour), ChatID: 1, Remind12h: true, Active: true}
	second := db.Event{ID: 2, Name: "Second", DueAt: now.Add(12 * time.Hour), ChatID: 2, Remind12h: true, Active: true}

	mockStore.On("Ping", mock.Anything).Return(nil)
	mockStore.On("EventsDueBetween", mock.Anything, db.FlagRemind12h, mock.Anything, mock.Anything).
		Return([]db.Event{first, second}, nil)
	mockStore.On("EventsDueBetween", mock.Anything, db.FlagRemind4h, mock.Anything, mock.Anything).
		Return([]db.Event(nil), nil)
	mockStore.On("EventsDueBetween", mock.Anything, db.FlagRemind1h, mock.Anything, mock.Anything).
		Return([]db.Event(nil), nil)
	mockStore.On("GetUserName", mock.Anything, mock.Anything).Return("Rina", nil)

	mockSender.On("SendMarkdown", int64(1), mock.Anything).Return(errors.New("blocked by user"))
	mockSender.On("SendMarkdown", int64(2), mock.Anything).Return(nil)

	s.runCycle(context.Background())

	mockSender.AssertCalled(t, "SendMarkdown", int64(2), mock.Anything)
}
