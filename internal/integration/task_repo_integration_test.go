package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"taskhub/internal/domain"
	"taskhub/internal/repository"
	"taskhub/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

func applyMigrations(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "..", "internal", "migrations")
	files, err := os.ReadDir(migDir)
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	for _, f := range files {
		b, err := os.ReadFile(filepath.Join(migDir, f.Name()))
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if _, err := db.Exec(context.Background(), string(b)); err != nil {
			t.Fatalf("apply migration %s: %v", f.Name(), err)
		}
	}
}

func connect(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)
	applyMigrations(t, db)
	return db
}

func createUser(t *testing.T, db *pgxpool.Pool) *domain.User {
	t.Helper()
	u := &domain.User{
		Email:        fmt.Sprintf("it-%d@example.com", time.Now().UnixNano()),
		Name:         "Integration",
		PasswordHash: "x",
	}
	if err := repository.NewUserRepository(db).Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func TestTaskRepository_CreateListComplete(t *testing.T) {
	db := connect(t)
	ctx := context.Background()
	user := createUser(t, db)

	repo := repository.NewTaskRepository(db)

	due := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	task := &domain.Task{
		UserID:   user.ID,
		Title:    "Write quarterly report",
		Priority: domain.PriorityHigh,
		DueDate:  &due,
	}
	if err := repo.Create(ctx, task); err != nil {
		t.Fatalf("create task: %v", err)
	}
	if task.ID == 0 {
		t.Fatalf("expected task id to be assigned")
	}

	tasks, total, err := repo.List(ctx, user.ID, repository.TaskQuery{Limit: 10})
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if total != 1 || len(tasks) != 1 {
		t.Fatalf("expected 1 task, got total=%d len=%d", total, len(tasks))
	}

	done, err := repo.SetCompleted(ctx, task.ID, true)
	if err != nil {
		t.Fatalf("complete task: %v", err)
	}
	if !done.IsCompleted || done.CompletedAt == nil {
		t.Fatalf("expected completed task, got %+v", done)
	}

	reopened, err := repo.SetCompleted(ctx, task.ID, false)
	if err != nil {
		t.Fatalf("reopen task: %v", err)
	}
	if reopened.IsCompleted || reopened.CompletedAt != nil {
		t.Fatalf("expected reopened task, got %+v", reopened)
	}
}

func TestTaskRepository_SearchAndTagFilter(t *testing.T) {
	db := connect(t)
	ctx := context.Background()
	user := createUser(t, db)

	tasks := repository.NewTaskRepository(db)
	tags := repository.NewTagRepository(db)

	tag := &domain.Tag{UserID: user.ID, Name: "urgent-work", Color: "#f00"}
	if err := tags.Create(ctx, tag); err != nil {
		t.Fatalf("create tag: %v", err)
	}

	a := &domain.Task{UserID: user.ID, Title: "Buy groceries", Priority: domain.PriorityLow}
	b := &domain.Task{UserID: user.ID, Title: "Prepare demo", Priority: domain.PriorityUrgent}
	for _, task := range []*domain.Task{a, b} {
		if err := tasks.Create(ctx, task); err != nil {
			t.Fatalf("create task: %v", err)
		}
	}
	if err := tasks.SetTags(ctx, b.ID, []int64{tag.ID}); err != nil {
		t.Fatalf("set tags: %v", err)
	}

	got, _, err := tasks.List(ctx, user.ID, repository.TaskQuery{
		Filters: domain.ViewFilters{Search: "demo"},
		Limit:   10,
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].ID != b.ID {
		t.Fatalf("expected only the demo task, got %d results", len(got))
	}

	got, _, err = tasks.List(ctx, user.ID, repository.TaskQuery{
		Filters: domain.ViewFilters{TagIDs: []int64{tag.ID}},
		Limit:   10,
	})
	if err != nil {
		t.Fatalf("tag filter: %v", err)
	}
	if len(got) != 1 || got[0].ID != b.ID {
		t.Fatalf("expected only the tagged task, got %d results", len(got))
	}
}

func TestProjectRepository_Children(t *testing.T) {
	db := connect(t)
	ctx := context.Background()
	user := createUser(t, db)

	projects := repository.NewProjectRepository(db)

	parent := &domain.Project{UserID: user.ID, Name: "Work"}
	if err := projects.Create(ctx, parent); err != nil {
		t.Fatalf("create parent: %v", err)
	}
	childA := &domain.Project{UserID: user.ID, ParentID: &parent.ID, Name: "Reports"}
	childB := &domain.Project{UserID: user.ID, ParentID: &parent.ID, Name: "Meetings"}
	for _, p := range []*domain.Project{childA, childB} {
		if err := projects.Create(ctx, p); err != nil {
			t.Fatalf("create child: %v", err)
		}
	}

	children, err := projects.ListChildren(ctx, parent.ID)
	if err != nil {
		t.Fatalf("list children: %v", err)
	}
	if len(children) != 2 {
		t.Fatalf("expected 2 children got %d", len(children))
	}
	// sorted by name
	if children[0].ID != childB.ID || children[1].ID != childA.ID {
		t.Fatalf("unexpected children order: %v, %v", children[0].Name, children[1].Name)
	}

	if children, err = projects.ListChildren(ctx, childA.ID); err != nil || len(children) != 0 {
		t.Fatalf("expected leaf to have no children, got %d (err %v)", len(children), err)
	}

	cycle, err := projects.WouldCycle(ctx, parent.ID, childA.ID)
	if err != nil {
		t.Fatalf("cycle check: %v", err)
	}
	if !cycle {
		t.Fatalf("expected re-parenting under own child to be a cycle")
	}
}

func TestNotificationRepository_DueAndClaim(t *testing.T) {
	db := connect(t)
	ctx := context.Background()
	user := createUser(t, db)

	tasks := repository.NewTaskRepository(db)
	notifications := repository.NewNotificationRepository(db)

	now := time.Now().UTC().Truncate(time.Second)
	due := now.Add(30 * time.Minute)
	task := &domain.Task{UserID: user.ID, Title: "Standup", Priority: domain.PriorityMedium, DueDate: &due}
	if err := tasks.Create(ctx, task); err != nil {
		t.Fatalf("create task: %v", err)
	}

	rule := &domain.NotificationRule{
		UserID:      user.ID,
		TaskID:      task.ID,
		OffsetValue: 30,
		OffsetUnit:  domain.UnitMinutes,
		Enabled:     true,
	}
	if err := notifications.CreateRule(ctx, rule); err != nil {
		t.Fatalf("create rule: %v", err)
	}

	window := 5 * time.Minute
	dueRules, err := notifications.DueRules(ctx, now, window)
	if err != nil {
		t.Fatalf("due rules: %v", err)
	}

	var found *repository.DueReminder
	for _, d := range dueRules {
		if d.Rule.ID == rule.ID {
			found = d
		}
	}
	if found == nil {
		t.Fatalf("expected rule %d to be due at %v", rule.ID, now)
	}
	if !service.InSendWindow(now, found.ReminderTime, window) {
		t.Fatalf("reminder time %v not in window at %v", found.ReminderTime, now)
	}

	claimed, err := notifications.ClaimRule(ctx, rule.ID, found.ReminderTime, now)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if !claimed {
		t.Fatalf("expected first claim to win")
	}

	again, err := notifications.ClaimRule(ctx, rule.ID, found.ReminderTime, now)
	if err != nil {
		t.Fatalf("second claim: %v", err)
	}
	if again {
		t.Fatalf("expected second claim to lose")
	}

	// log lifecycle: pending while in flight, then outcome recorded
	entry := &domain.NotificationLog{
		RuleID:  rule.ID,
		UserID:  user.ID,
		TaskID:  task.ID,
		Status:  domain.NotificationPending,
		Message: service.ReminderMessage(task.Title, due),
	}
	if err := notifications.CreateLog(ctx, entry); err != nil {
		t.Fatalf("create log: %v", err)
	}

	logs, err := notifications.ListLogs(ctx, user.ID, 10, 0)
	if err != nil {
		t.Fatalf("list logs: %v", err)
	}
	if len(logs) != 1 || logs[0].Status != domain.NotificationPending {
		t.Fatalf("expected one pending log, got %+v", logs)
	}

	entry.Status = domain.NotificationSent
	sentAt := now
	entry.SentAt = &sentAt
	if err := notifications.UpdateLogOutcome(ctx, entry); err != nil {
		t.Fatalf("update outcome: %v", err)
	}

	logs, err = notifications.ListLogs(ctx, user.ID, 10, 0)
	if err != nil {
		t.Fatalf("list logs: %v", err)
	}
	if len(logs) != 1 || logs[0].Status != domain.NotificationSent || logs[0].SentAt == nil {
		t.Fatalf("expected sent log with sent_at, got %+v", logs[0])
	}
}
