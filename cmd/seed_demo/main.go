// Seeds a demo account with a few projects, tags and tasks. Intended for
// local development only.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"taskhub/internal/domain"
	"taskhub/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	projects := repository.NewProjectRepository(db)
	tags := repository.NewTagRepository(db)
	tasks := repository.NewTaskRepository(db)

	hash, err := bcrypt.GenerateFromPassword([]byte("demo-password"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}

	user := &domain.User{Email: "demo@example.com", Name: "Demo User", PasswordHash: string(hash)}
	if err := users.Create(ctx, user); err != nil {
		log.Fatalf("create user: %v", err)
	}

	work := &domain.Project{UserID: user.ID, Name: "Work", Color: "#4f46e5", Icon: "briefcase"}
	if err := projects.Create(ctx, work); err != nil {
		log.Fatalf("create project: %v", err)
	}

	urgentTag := &domain.Tag{UserID: user.ID, Name: "urgent", Color: "#dc2626"}
	if err := tags.Create(ctx, urgentTag); err != nil {
		log.Fatalf("create tag: %v", err)
	}

	due := time.Now().Add(48 * time.Hour)
	task := &domain.Task{
		UserID:      user.ID,
		ProjectID:   &work.ID,
		Title:       "Prepare quarterly report",
		Description: "Slides plus one-pager.",
		Priority:    domain.PriorityHigh,
		DueDate:     &due,
	}
	if err := tasks.Create(ctx, task); err != nil {
		log.Fatalf("create task: %v", err)
	}
	if err := tasks.SetTags(ctx, task.ID, []int64{urgentTag.ID}); err != nil {
		log.Fatalf("tag task: %v", err)
	}

	log.Printf("seeded demo user id=%d (demo@example.com / demo-password)", user.ID)
}
