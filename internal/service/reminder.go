package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"taskhub/internal/domain"
	"taskhub/internal/logger"
	"taskhub/internal/repository"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	remindersSent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reminders_sent_total",
		Help: "Reminder notifications delivered",
	})
	remindersFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reminders_failed_total",
		Help: "Reminder notifications that failed to deliver",
	})
)

func init() {
	prometheus.MustRegister(remindersSent)
	prometheus.MustRegister(remindersFailed)
}

// NotificationPusher delivers a reminder payload to a user's open
// connections. Implemented by the websocket hub.
type NotificationPusher interface {
	Push(userID int64, payload []byte) error
}

// ReminderDispatcher periodically scans notification rules and fires the
// ones whose send window is open. Each firing claims the rule atomically, so
// overlapping dispatcher runs never double-send.
type ReminderDispatcher struct {
	notifications *repository.NotificationRepository
	sessions      *repository.SessionRepository
	pusher        NotificationPusher

	interval time.Duration
	window   time.Duration
}

func NewReminderDispatcher(
	notifications *repository.NotificationRepository,
	sessions *repository.SessionRepository,
	pusher NotificationPusher,
	interval, window time.Duration,
) *ReminderDispatcher {
	return &ReminderDispatcher{
		notifications: notifications,
		sessions:      sessions,
		pusher:        pusher,
		interval:      interval,
		window:        window,
	}
}

// Start runs the dispatch loop until ctx is cancelled.
func (d *ReminderDispatcher) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				d.DispatchDue(ctx, now)

				// piggyback session cleanup on the same loop
				if n, err := d.sessions.DeleteExpired(ctx, now.Add(-24*time.Hour)); err != nil {
					logger.Warn("session cleanup failed", "error", err)
				} else if n > 0 {
					logger.Debug("expired sessions removed", "count", n)
				}
			}
		}
	}()
}

// DispatchDue fires every due reminder once and returns counts of sent and
// failed deliveries.
func (d *ReminderDispatcher) DispatchDue(ctx context.Context, now time.Time) (sent, failed int) {
	due, err := d.notifications.DueRules(ctx, now, d.window)
	if err != nil {
		logger.Error("reminder scan failed", "error", err)
		return 0, 0
	}

	for _, rem := range due {
		claimed, err := d.notifications.ClaimRule(ctx, rem.Rule.ID, rem.ReminderTime, now)
		if err != nil {
			logger.Error("reminder claim failed", "error", err, "rule_id", rem.Rule.ID)
			continue
		}
		if !claimed {
			// another run already sent this reminder
			continue
		}

		// the log row exists as pending while delivery is in flight
		log := &domain.NotificationLog{
			RuleID:  rem.Rule.ID,
			UserID:  rem.Rule.UserID,
			TaskID:  rem.Rule.TaskID,
			Status:  domain.NotificationPending,
			Message: ReminderMessage(rem.TaskTitle, rem.DueDate),
		}
		if err := d.notifications.CreateLog(ctx, log); err != nil {
			logger.Error("failed to write notification log", "error", err, "rule_id", rem.Rule.ID)
			continue
		}

		if err := d.deliver(rem, log.Message); err != nil {
			log.Status = domain.NotificationFailed
			log.Error = err.Error()
			remindersFailed.Inc()
			failed++
			logger.Warn("reminder delivery failed", "rule_id", rem.Rule.ID, "error", err)
		} else {
			log.Status = domain.NotificationSent
			sentAt := now
			log.SentAt = &sentAt
			remindersSent.Inc()
			sent++
		}

		if err := d.notifications.UpdateLogOutcome(ctx, log); err != nil {
			logger.Error("failed to record notification outcome", "error", err, "rule_id", rem.Rule.ID)
		}
	}
	return sent, failed
}

func (d *ReminderDispatcher) deliver(rem *repository.DueReminder, message string) error {
	payload, err := json.Marshal(map[string]any{
		"type":     "reminder",
		"task_id":  rem.Rule.TaskID,
		"rule_id":  rem.Rule.ID,
		"message":  message,
		"due_date": rem.DueDate,
	})
	if err != nil {
		return err
	}
	return d.pusher.Push(rem.Rule.UserID, payload)
}

// ReminderTime computes when a rule should fire for a given due date.
func ReminderTime(due time.Time, offsetValue int, unit domain.OffsetUnit) time.Time {
	r := domain.NotificationRule{OffsetValue: offsetValue, OffsetUnit: unit}
	return due.Add(-r.Offset())
}

// InSendWindow reports whether now falls inside [reminderTime,
// reminderTime+window). Reminders outside the window are skipped, not
// delivered late.
func InSendWindow(now, reminderTime time.Time, window time.Duration) bool {
	return !now.Before(reminderTime) && now.Before(reminderTime.Add(window))
}

// ReminderMessage builds the human-readable notification text.
func ReminderMessage(taskTitle string, due time.Time) string {
	return fmt.Sprintf("%q is due at %s", taskTitle, due.UTC().Format(time.RFC3339))
}
