package domain

import "time"

type OffsetUnit string

const (
	UnitMinutes OffsetUnit = "minutes"
	UnitHours   OffsetUnit = "hours"
	UnitDays    OffsetUnit = "days"
)

func (u OffsetUnit) Valid() bool {
	switch u {
	case UnitMinutes, UnitHours, UnitDays:
		return true
	}
	return false
}

// NotificationRule schedules a reminder a fixed lead time before the linked
// task's due date.
type NotificationRule struct {
	ID          int64      `db:"id" json:"id"`
	UserID      int64      `db:"user_id" json:"user_id"`
	TaskID      int64      `db:"task_id" json:"task_id"`
	OffsetValue int        `db:"offset_value" json:"offset_value"`
	OffsetUnit  OffsetUnit `db:"offset_unit" json:"offset_unit"`
	Enabled     bool       `db:"enabled" json:"enabled"`
	LastSentAt  *time.Time `db:"last_sent_at" json:"last_sent_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// Offset returns the rule's lead time as a duration.
func (r *NotificationRule) Offset() time.Duration {
	switch r.OffsetUnit {
	case UnitHours:
		return time.Duration(r.OffsetValue) * time.Hour
	case UnitDays:
		return time.Duration(r.OffsetValue) * 24 * time.Hour
	default:
		return time.Duration(r.OffsetValue) * time.Minute
	}
}

const (
	NotificationPending = "pending"
	NotificationSent    = "sent"
	NotificationFailed  = "failed"
)

// NotificationLog records one delivery attempt for a rule.
type NotificationLog struct {
	ID        int64      `db:"id" json:"id"`
	RuleID    int64      `db:"rule_id" json:"rule_id"`
	UserID    int64      `db:"user_id" json:"user_id"`
	TaskID    int64      `db:"task_id" json:"task_id"`
	Status    string     `db:"status" json:"status"`
	Message   string     `db:"message" json:"message"`
	Error     string     `db:"error" json:"error,omitempty"`
	SentAt    *time.Time `db:"sent_at" json:"sent_at,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}
