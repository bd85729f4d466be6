package handlers

import (
	"net/http"
	"strconv"

	"taskhub/internal/domain"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListNotificationRules(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	rules, err := h.Notifications.ListRulesByUser(c.Request.Context(), userID)
	if err != nil {
		serverError(c, "failed to list notification rules")
		return
	}
	c.JSON(http.StatusOK, gin.H{"rules": rules})
}

type NotificationRuleRequest struct {
	TaskID      int64  `json:"task_id" validate:"required"`
	OffsetValue int    `json:"offset_value" validate:"required,gte=1,lte=10080"`
	OffsetUnit  string `json:"offset_unit" validate:"required,oneof=minutes hours days"`
	Enabled     *bool  `json:"enabled"`
}

func (h *Handler) CreateNotificationRule(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req NotificationRuleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	ctx := c.Request.Context()

	task, err := h.Tasks.GetByID(ctx, req.TaskID)
	if err != nil || task.UserID != userID {
		fieldErrors(c, "task_id", "is not one of your tasks")
		return
	}
	if task.DueDate == nil {
		fieldErrors(c, "task_id", "has no due date to remind about")
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}
	rule := &domain.NotificationRule{
		UserID:      userID,
		TaskID:      req.TaskID,
		OffsetValue: req.OffsetValue,
		OffsetUnit:  domain.OffsetUnit(req.OffsetUnit),
		Enabled:     enabled,
	}
	if err := h.Notifications.CreateRule(ctx, rule); err != nil {
		serverError(c, "failed to create notification rule")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"rule": rule})
}

func (h *Handler) UpdateNotificationRule(c *gin.Context) {
	_, rule, ok := h.ownedRule(c)
	if !ok {
		return
	}

	var req NotificationRuleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if req.TaskID != rule.TaskID {
		fieldErrors(c, "task_id", "cannot be changed")
		return
	}

	rule.OffsetValue = req.OffsetValue
	rule.OffsetUnit = domain.OffsetUnit(req.OffsetUnit)
	if req.Enabled != nil {
		rule.Enabled = *req.Enabled
	}

	if err := h.Notifications.UpdateRule(c.Request.Context(), rule); err != nil {
		serverError(c, "failed to update notification rule")
		return
	}
	c.JSON(http.StatusOK, gin.H{"rule": rule})
}

func (h *Handler) DeleteNotificationRule(c *gin.Context) {
	_, rule, ok := h.ownedRule(c)
	if !ok {
		return
	}

	if err := h.Notifications.DeleteRule(c.Request.Context(), rule.ID); err != nil {
		serverError(c, "failed to delete notification rule")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListNotificationLogs(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	page := 1
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		page = v
	}
	perPage := 25
	if v, err := strconv.Atoi(c.Query("per_page")); err == nil && v > 0 {
		perPage = v
	}
	if perPage > h.maxPerPage {
		perPage = h.maxPerPage
	}
	offset := (page - 1) * perPage
	if offset < 0 {
		offset = 0
	}

	logs, err := h.Notifications.ListLogs(c.Request.Context(), userID, perPage, offset)
	if err != nil {
		serverError(c, "failed to list notification logs")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"logs": logs,
		"meta": gin.H{"page": page, "per_page": perPage},
	})
}

func (h *Handler) ownedRule(c *gin.Context) (int64, *domain.NotificationRule, bool) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return 0, nil, false
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		notFound(c, "notification rule")
		return 0, nil, false
	}

	rule, err := h.Notifications.GetRule(c.Request.Context(), id)
	if err != nil {
		if isNoRows(err) {
			notFound(c, "notification rule")
		} else {
			serverError(c, "failed to load notification rule")
		}
		return 0, nil, false
	}
	if rule.UserID != userID {
		forbidden(c)
		return 0, nil, false
	}
	return userID, rule, true
}
