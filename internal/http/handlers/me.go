package handlers

import (
	"net/http"
	"time"

	"taskhub/internal/domain"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Me(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, err := h.Users.GetByID(c.Request.Context(), userID)
	if err != nil {
		notFound(c, "user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *Handler) GetPreferences(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	prefs, err := h.Prefs.Get(c.Request.Context(), userID)
	if err != nil {
		serverError(c, "failed to load preferences")
		return
	}
	c.JSON(http.StatusOK, gin.H{"preferences": prefs})
}

type PreferencesRequest struct {
	Theme     string `json:"theme" validate:"required,oneof=system light dark"`
	Calendar  string `json:"calendar" validate:"required,oneof=gregorian jalali"`
	WeekStart int    `json:"week_start" validate:"gte=0,lte=6"`
	Timezone  string `json:"timezone" validate:"required,max=64"`
}

func (h *Handler) UpdatePreferences(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req PreferencesRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if _, err := time.LoadLocation(req.Timezone); err != nil {
		fieldErrors(c, "timezone", "is not a known timezone")
		return
	}

	prefs := &domain.Preferences{
		UserID:    userID,
		Theme:     req.Theme,
		Calendar:  req.Calendar,
		WeekStart: req.WeekStart,
		Timezone:  req.Timezone,
	}
	if err := h.Prefs.Upsert(c.Request.Context(), prefs); err != nil {
		serverError(c, "failed to save preferences")
		return
	}
	c.JSON(http.StatusOK, gin.H{"preferences": prefs})
}
