package repository

import (
	"context"
	"time"

	"taskhub/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type NotificationRepository struct {
	db *pgxpool.Pool
}

func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) CreateRule(ctx context.Context, rule *domain.NotificationRule) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO notification_rules (user_id, task_id, offset_value, offset_unit, enabled)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		rule.UserID, rule.TaskID, rule.OffsetValue, rule.OffsetUnit, rule.Enabled,
	).Scan(&rule.ID, &rule.CreatedAt)
}

func (r *NotificationRepository) GetRule(ctx context.Context, id int64) (*domain.NotificationRule, error) {
	var rule domain.NotificationRule
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, task_id, offset_value, offset_unit, enabled, last_sent_at, created_at
		 FROM notification_rules
		 WHERE id = $1`,
		id,
	).Scan(&rule.ID, &rule.UserID, &rule.TaskID, &rule.OffsetValue, &rule.OffsetUnit,
		&rule.Enabled, &rule.LastSentAt, &rule.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *NotificationRepository) ListRulesByUser(ctx context.Context, userID int64) ([]*domain.NotificationRule, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, task_id, offset_value, offset_unit, enabled, last_sent_at, created_at
		 FROM notification_rules
		 WHERE user_id = $1
		 ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.NotificationRule
	for rows.Next() {
		var rule domain.NotificationRule
		if err := rows.Scan(&rule.ID, &rule.UserID, &rule.TaskID, &rule.OffsetValue,
			&rule.OffsetUnit, &rule.Enabled, &rule.LastSentAt, &rule.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, &rule)
	}
	return res, rows.Err()
}

func (r *NotificationRepository) UpdateRule(ctx context.Context, rule *domain.NotificationRule) error {
	_, err := r.db.Exec(ctx,
		`UPDATE notification_rules SET offset_value = $1, offset_unit = $2, enabled = $3 WHERE id = $4`,
		rule.OffsetValue, rule.OffsetUnit, rule.Enabled, rule.ID,
	)
	return err
}

func (r *NotificationRepository) DeleteRule(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM notification_rules WHERE id = $1`, id)
	return err
}

// DueReminder is a rule whose send window is open, joined with the task data
// needed to build the notification message.
type DueReminder struct {
	Rule         domain.NotificationRule
	TaskTitle    string
	DueDate      time.Time
	ReminderTime time.Time
}

// DueRules returns enabled rules on uncompleted tasks whose reminder time
// has arrived and whose send window has not yet closed, i.e.
// reminder_time <= now < reminder_time + window. The last_sent_at claim
// happens separately in ClaimRule.
func (r *NotificationRepository) DueRules(ctx context.Context, now time.Time, window time.Duration) ([]*DueReminder, error) {
	rows, err := r.db.Query(ctx,
		`SELECT r.id, r.user_id, r.task_id, r.offset_value, r.offset_unit, r.enabled, r.last_sent_at, r.created_at,
		        t.title, t.due_date,
		        t.due_date - (r.offset_value * CASE r.offset_unit
		            WHEN 'hours' THEN interval '1 hour'
		            WHEN 'days'  THEN interval '1 day'
		            ELSE interval '1 minute' END) AS reminder_time
		 FROM notification_rules r
		 JOIN tasks t ON t.id = r.task_id
		 WHERE r.enabled
		   AND NOT t.is_completed
		   AND t.due_date IS NOT NULL
		   AND $1::timestamptz >= t.due_date - (r.offset_value * CASE r.offset_unit
		            WHEN 'hours' THEN interval '1 hour'
		            WHEN 'days'  THEN interval '1 day'
		            ELSE interval '1 minute' END)
		   AND $1::timestamptz < t.due_date - (r.offset_value * CASE r.offset_unit
		            WHEN 'hours' THEN interval '1 hour'
		            WHEN 'days'  THEN interval '1 day'
		            ELSE interval '1 minute' END) + ($2 * interval '1 second')`,
		now, window.Seconds(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*DueReminder
	for rows.Next() {
		var d DueReminder
		if err := rows.Scan(&d.Rule.ID, &d.Rule.UserID, &d.Rule.TaskID, &d.Rule.OffsetValue,
			&d.Rule.OffsetUnit, &d.Rule.Enabled, &d.Rule.LastSentAt, &d.Rule.CreatedAt,
			&d.TaskTitle, &d.DueDate, &d.ReminderTime); err != nil {
			return nil, err
		}
		res = append(res, &d)
	}
	return res, rows.Err()
}

// ClaimRule atomically marks the rule as sent for this reminder time. Only
// one concurrent dispatcher run wins the claim; the rest see zero rows.
func (r *NotificationRepository) ClaimRule(ctx context.Context, ruleID int64, reminderTime, now time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE notification_rules
		 SET last_sent_at = $3
		 WHERE id = $1 AND (last_sent_at IS NULL OR last_sent_at < $2)`,
		ruleID, reminderTime, now,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *NotificationRepository) CreateLog(ctx context.Context, l *domain.NotificationLog) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO notification_logs (rule_id, user_id, task_id, status, message, error, sent_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		l.RuleID, l.UserID, l.TaskID, l.Status, l.Message, l.Error, l.SentAt,
	).Scan(&l.ID, &l.CreatedAt)
}

// UpdateLogOutcome records the delivery result on a pending log row.
func (r *NotificationRepository) UpdateLogOutcome(ctx context.Context, l *domain.NotificationLog) error {
	_, err := r.db.Exec(ctx,
		`UPDATE notification_logs SET status = $1, error = $2, sent_at = $3 WHERE id = $4`,
		l.Status, l.Error, l.SentAt, l.ID,
	)
	return err
}

func (r *NotificationRepository) ListLogs(ctx context.Context, userID int64, limit, offset int) ([]*domain.NotificationLog, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, rule_id, user_id, task_id, status, message, error, sent_at, created_at
		 FROM notification_logs
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.NotificationLog
	for rows.Next() {
		var l domain.NotificationLog
		if err := rows.Scan(&l.ID, &l.RuleID, &l.UserID, &l.TaskID, &l.Status,
			&l.Message, &l.Error, &l.SentAt, &l.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, &l)
	}
	return res, rows.Err()
}
