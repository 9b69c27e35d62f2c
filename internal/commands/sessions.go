package commands

import (
	"sync"
	"time"
)

// Step identifies the current prompt of a chat's active conversation flow.
type Step int

const (
	// Registration flow
	StepName Step = iota + 1

	// Event creation flow
	StepEventName
	StepEventDate
	StepEventTime
	StepReminderChoice
)

// Draft holds the transient per-chat fields accumulated across the steps of
// one flow. It lives only between the flow's entry point and its completion
// or cancellation.
type Draft struct {
	Step      Step
	EventName string
	Date      time.Time // parsed date, midnight local
	DueAt     time.Time // date combined with time
	Touched   time.Time // last activity, used for idle eviction
}

// Sessions maps a chat id to its active conversation draft. Each chat's flow
// is independent; drafts are never shared across chats.
type Sessions struct {
	mu     sync.RWMutex
	drafts map[int64]*Draft
}

func NewSessions() *Sessions {
	return &Sessions{
		drafts: make(map[int64]*Draft),
	}
}

// Begin starts (or restarts) a flow for a chat at the given step. Any
// existing draft for the chat is replaced.
func (s *Sessions) Begin(chatID int64, step Step) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[chatID] = &Draft{Step: step, Touched: time.Now()}
}

// Get returns a copy of the chat's draft, if a flow is active.
func (s *Sessions) Get(chatID int64) (Draft, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drafts[chatID]
	if !ok {
		return Draft{}, false
	}
	return *d, true
}

// Put replaces the chat's draft and stamps its last activity.
func (s *Sessions) Put(chatID int64, d Draft) {
	d.Touched = time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[chatID] = &d
}

// End discards the chat's draft.
func (s *Sessions) End(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, chatID)
}

// Active reports whether the chat has a flow in progress.
func (s *Sessions) Active(chatID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.drafts[chatID]
	return ok
}

// SweepIdle evicts drafts whose last activity is older than ttl and returns
// how many were removed. An abandoned flow must not leak its draft until the
// process restarts.
func (s *Sessions) SweepIdle(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	var evicted int
	for chatID, d := range s.drafts {
		if d.Touched.Before(cutoff) {
			delete(s.drafts, chatID)
			evicted++
		}
	}
	return evicted
}
