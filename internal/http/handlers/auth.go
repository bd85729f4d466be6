package handlers

import (
	"errors"
	"net/http"
	"time"

	"taskhub/internal/domain"
	"taskhub/internal/logger"
	"taskhub/internal/repository"
	"taskhub/internal/service"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Name     string `json:"name" validate:"required,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		serverError(c, "failed to hash password")
		return
	}

	ctx := c.Request.Context()
	user := &domain.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
	}
	if err := h.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			fieldErrors(c, "email", "is already registered")
			return
		}
		logger.Error("failed to create user", "error", err)
		serverError(c, "failed to create user")
		return
	}

	token, err := h.openSession(c, user.ID)
	if err != nil {
		serverError(c, "token generation failed")
		return
	}

	logger.Info("user registered", "user_id", user.ID)
	c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	ctx := c.Request.Context()
	user, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		// same response as a wrong password, don't leak which emails exist
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		logger.Warn("failed login attempt", "user_id", user.ID, "ip", c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := h.openSession(c, user.ID)
	if err != nil {
		serverError(c, "token generation failed")
		return
	}

	logger.Info("user logged in", "user_id", user.ID)
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

func (h *Handler) Logout(c *gin.Context) {
	sessionID, ok := c.Get("session_id")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.Sessions.Revoke(c.Request.Context(), sessionID.(string)); err != nil {
		serverError(c, "failed to revoke session")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

// openSession records a session row and issues the JWT that references it.
func (h *Handler) openSession(c *gin.Context, userID int64) (string, error) {
	sess := &domain.Session{
		ID:        service.NewSessionID(),
		UserID:    userID,
		UserAgent: c.Request.UserAgent(),
		IP:        c.ClientIP(),
		ExpiresAt: time.Now().Add(service.TokenTTL()),
	}
	if err := h.Sessions.Create(c.Request.Context(), sess); err != nil {
		return "", err
	}
	return service.GenerateJWT(userID, sess.ID)
}
