package handlers

import (
	"net/http"
	"strconv"

	"taskhub/internal/domain"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListSavedViews(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	views, err := h.Views.ListByUser(c.Request.Context(), userID)
	if err != nil {
		serverError(c, "failed to list saved views")
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved_views": views})
}

type SavedViewRequest struct {
	Name    string             `json:"name" validate:"required,max=255"`
	Filters domain.ViewFilters `json:"filters"`
	SortBy  string             `json:"sort_by" validate:"omitempty,oneof=due_date priority created_at title"`
	SortDir string             `json:"sort_dir" validate:"omitempty,oneof=asc desc"`
}

func (h *Handler) CreateSavedView(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req SavedViewRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if req.Filters.Priority != nil && !req.Filters.Priority.Valid() {
		fieldErrors(c, "filters.priority", "is invalid")
		return
	}

	view := &domain.SavedView{
		UserID:  userID,
		Name:    req.Name,
		Filters: req.Filters,
		SortBy:  req.SortBy,
		SortDir: req.SortDir,
	}
	if err := h.Views.Create(c.Request.Context(), view); err != nil {
		serverError(c, "failed to create saved view")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"saved_view": view})
}

func (h *Handler) GetSavedView(c *gin.Context) {
	_, view, ok := h.ownedView(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved_view": view})
}

func (h *Handler) UpdateSavedView(c *gin.Context) {
	_, view, ok := h.ownedView(c)
	if !ok {
		return
	}

	var req SavedViewRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if req.Filters.Priority != nil && !req.Filters.Priority.Valid() {
		fieldErrors(c, "filters.priority", "is invalid")
		return
	}

	view.Name = req.Name
	view.Filters = req.Filters
	view.SortBy = req.SortBy
	view.SortDir = req.SortDir

	if err := h.Views.Update(c.Request.Context(), view); err != nil {
		serverError(c, "failed to update saved view")
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved_view": view})
}

func (h *Handler) DeleteSavedView(c *gin.Context) {
	_, view, ok := h.ownedView(c)
	if !ok {
		return
	}

	if err := h.Views.Delete(c.Request.Context(), view.ID); err != nil {
		serverError(c, "failed to delete saved view")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ownedView(c *gin.Context) (int64, *domain.SavedView, bool) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return 0, nil, false
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		notFound(c, "saved view")
		return 0, nil, false
	}

	view, err := h.Views.GetByID(c.Request.Context(), id)
	if err != nil {
		if isNoRows(err) {
			notFound(c, "saved view")
		} else {
			serverError(c, "failed to load saved view")
		}
		return 0, nil, false
	}
	if view.UserID != userID {
		forbidden(c)
		return 0, nil, false
	}
	return userID, view, true
}
