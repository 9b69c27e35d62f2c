package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/user/reminder-bot/internal/db"
)

// Sender is the minimal interface the dispatcher needs to deliver a
// notification. bot.Bot implements it.
type Sender interface {
	SendMarkdown(chatID int64, text string) error
}

// Store is the slice of the persistence layer the dispatcher needs.
type Store interface {
	Ping(ctx context.Context) error
	GetUserName(ctx context.Context, chatID int64) (string, error)
	EventsDueBetween(ctx context.Context, flagColumn string, from, to time.Time) ([]db.Event, error)
}

// Threshold describes one reminder offset and the tolerance window around
// it. The loop runs only every poll interval, so each window is at least 30
// minutes wide on each side of the nominal offset; that guarantees at least
// one cycle observes the event despite loop jitter.
type Threshold struct {
	FlagColumn string
	Label      string
	WindowFrom time.Duration
	WindowTo   time.Duration
	Urgency    string
}

// Thresholds returns the three reminder thresholds in dispatch order.
func Thresholds() []Threshold {
	return []Threshold{
		{
			FlagColumn: db.FlagRemind12h,
			Label:      "12 hours",
			WindowFrom: 11 * time.Hour,
			WindowTo:   13 * time.Hour,
			Urgency:    "⏰ Don't forget to prepare! 🚀",
		},
		{
			FlagColumn: db.FlagRemind4h,
			Label:      "4 hours",
			WindowFrom: 3 * time.Hour,
			WindowTo:   5 * time.Hour,
			Urgency:    "🔔 The event is coming up soon! ⏰",
		},
		{
			FlagColumn: db.FlagRemind1h,
			Label:      "1 hour",
			WindowFrom: 45 * time.Minute,
			WindowTo:   75 * time.Minute,
			Urgency:    "🚨 The event starts in about an hour! 🔥",
		},
	}
}

// Window returns the absolute due-time bounds of the threshold at the given
// instant.
func (t Threshold) Window(now time.Time) (from, to time.Time) {
	return now.Add(t.WindowFrom), now.Add(t.WindowTo)
}

// Contains reports whether an event due at dueAt falls inside the threshold
// window at the given instant.
func (t Threshold) Contains(now, dueAt time.Time) bool {
	from, to := t.Window(now)
	return !dueAt.Before(from) && !dueAt.After(to)
}

// Scheduler is the reminder dispatcher loop. Exactly one instance is
// constructed and started by the process's startup sequence.
type Scheduler struct {
	store    Store
	sender   Sender
	log      *zap.Logger
	interval time.Duration
	now      func() time.Time
}

func New(store Store, sender Sender, log *zap.Logger, interval time.Duration) *Scheduler {
	return &Scheduler{
		store:    store,
		sender:   sender,
		log:      log,
		interval: interval,
		now:      time.Now,
	}
}

// Run executes dispatch cycles on the fixed interval until ctx is canceled.
func (s *Scheduler) Run(ctx context.Context) {
	s.log.Info("reminder dispatcher started", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("reminder dispatcher stopping")
			return
		case <-ticker.C:
			s.runCycle(ctx)
		}
	}
}

// runCycle performs one dispatch cycle. A store failure aborts the whole
// cycle; a per-row send failure only skips that row.
func (s *Scheduler) runCycle(ctx context.Context) {
	if err := s.store.Ping(ctx); err != nil {
		s.log.Error("store unreachable, skipping cycle", zap.Error(err))
		return
	}

	now := s.now()
	for _, threshold := range Thresholds() {
		from, to := threshold.Window(now)

		events, err := s.store.EventsDueBetween(ctx, threshold.FlagColumn, from, to)
		if err != nil {
			s.log.Error("due events query failed",
				zap.String("threshold", threshold.Label),
				zap.Error(err),
			)
			continue
		}

		for _, event := range events {
			if err := s.sender.SendMarkdown(event.ChatID, s.reminderText(ctx, threshold, event)); err != nil {
				s.log.Error("failed to send reminder",
					zap.String("threshold", threshold.Label),
					zap.Int("event_id", event.ID),
					zap.Int64("chat_id", event.ChatID),
					zap.Error(err),
				)
				continue
			}
			s.log.Info("reminder sent",
				zap.String("threshold", threshold.Label),
				zap.Int("event_id", event.ID),
				zap.Int64("chat_id", event.ChatID),
			)
		}
	}
}

// reminderText renders one notification. The owner's name is resolved
// best-effort; its absence never blocks sending.
func (s *Scheduler) reminderText(ctx context.Context, threshold Threshold, event db.Event) string {
	greeting := "Hello! "
	if name, err := s.store.GetUserName(ctx, event.ChatID); err == nil {
		greeting = fmt.Sprintf("Hello %s! ", name)
	}

	return fmt.Sprintf("%s*Reminder: %s to go!*\n\n"+
		"📅 Event: %s\n"+
		"🕐 Time: %s\n\n"+
		"%s",
		greeting,
		threshold.Label,
		event.Name,
		event.DueAt.Format("02-01-2006 15:04"),
		threshold.Urgency,
	)
}
