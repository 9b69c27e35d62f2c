package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvent_ReminderSummary(t *testing.T) {
	tests := []struct {
		name     string
		event    Event
		expected string
	}{
		{"none", Event{}, "none"},
		{"single", Event{Remind4h: true}, "4h before"},
		{"pair", Event{Remind12h: true, Remind1h: true}, "12h, 1h before"},
		{"all", Event{Remind12h: true, Remind4h: true, Remind1h: true}, "12h, 4h, 1h before"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.event.ReminderSummary())
		})
	}
}
