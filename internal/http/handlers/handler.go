package handlers

import (
	"taskhub/internal/repository"
	"taskhub/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// HandlerConfig holds per-deployment knobs the handlers need.
type HandlerConfig struct {
	MaxPerPage int
}

type Handler struct {
	DB            *pgxpool.Pool
	Users         *repository.UserRepository
	Tasks         *repository.TaskRepository
	Projects      *repository.ProjectRepository
	Tags          *repository.TagRepository
	Views         *repository.SavedViewRepository
	Notifications *repository.NotificationRepository
	Sessions      *repository.SessionRepository
	Prefs         *repository.PreferencesRepository
	Hub           *ws.Hub

	maxPerPage int
}

func NewHandler(db *pgxpool.Pool, hub *ws.Hub, cfg HandlerConfig) *Handler {
	maxPerPage := cfg.MaxPerPage
	if maxPerPage <= 0 {
		maxPerPage = 100
	}
	return &Handler{
		DB:            db,
		Users:         repository.NewUserRepository(db),
		Tasks:         repository.NewTaskRepository(db),
		Projects:      repository.NewProjectRepository(db),
		Tags:          repository.NewTagRepository(db),
		Views:         repository.NewSavedViewRepository(db),
		Notifications: repository.NewNotificationRepository(db),
		Sessions:      repository.NewSessionRepository(db),
		Prefs:         repository.NewPreferencesRepository(db),
		Hub:           hub,
		maxPerPage:    maxPerPage,
	}
}

// getUserID extracts the authenticated user id set by the JWT middleware.
func getUserID(c *gin.Context) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	uid, ok := uidVal.(int64)
	return uid, ok
}
