// Manual end-to-end check of the reminder pipeline: seeds a user with a task
// due soon plus a notification rule, opens a websocket with a fresh token and
// waits for the reminder frame. Run against a locally running server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"taskhub/internal/db"
	"taskhub/internal/domain"
	"taskhub/internal/repository"
	"taskhub/internal/service"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	ctx := context.Background()
	users := repository.NewUserRepository(pool)
	tasks := repository.NewTaskRepository(pool)
	notifications := repository.NewNotificationRepository(pool)
	sessions := repository.NewSessionRepository(pool)

	user, err := users.GetByEmail(ctx, "ws-smoke@example.com")
	if err != nil {
		user = &domain.User{Email: "ws-smoke@example.com", Name: "Smoke", PasswordHash: "unused"}
		if err := users.Create(ctx, user); err != nil {
			log.Fatalf("create user: %v", err)
		}
	}

	// due in one minute with a one-minute offset puts the reminder inside
	// the send window right away
	due := time.Now().Add(time.Minute)
	task := &domain.Task{
		UserID:   user.ID,
		Title:    "Smoke reminder",
		Priority: domain.PriorityMedium,
		DueDate:  &due,
	}
	if err := tasks.Create(ctx, task); err != nil {
		log.Fatalf("create task: %v", err)
	}

	rule := &domain.NotificationRule{
		UserID:      user.ID,
		TaskID:      task.ID,
		OffsetValue: 1,
		OffsetUnit:  domain.UnitMinutes,
		Enabled:     true,
	}
	if err := notifications.CreateRule(ctx, rule); err != nil {
		log.Fatalf("create rule: %v", err)
	}

	service.InitJWT(jwtSecret, time.Hour)
	sess := &domain.Session{
		ID:        service.NewSessionID(),
		UserID:    user.ID,
		UserAgent: "ws_smoke",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := sessions.Create(ctx, sess); err != nil {
		log.Fatalf("create session: %v", err)
	}
	token, err := service.GenerateJWT(user.ID, sess.ID)
	if err != nil {
		log.Fatalf("gen token: %v", err)
	}

	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	wsURL := fmt.Sprintf("ws://127.0.0.1:%s/ws?token=%s", port, token)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		log.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	log.Printf("connected, waiting for reminder on rule %d (task %d)", rule.ID, task.ID)

	deadline := time.Now().Add(2 * time.Minute)
	for time.Now().Before(deadline) {
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			continue
		}
		var obj map[string]any
		_ = json.Unmarshal(msg, &obj)
		if t, ok := obj["type"].(string); ok && t == "reminder" {
			log.Printf("got reminder: %s", string(msg))
			log.Println("smoke test finished")
			return
		}
		log.Printf("got frame: %s", string(msg))
	}
	log.Fatal("no reminder received before deadline")
}
