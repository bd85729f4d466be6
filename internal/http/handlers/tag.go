package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"taskhub/internal/domain"
	"taskhub/internal/repository"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListTags(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	tags, err := h.Tags.ListByUser(c.Request.Context(), userID)
	if err != nil {
		serverError(c, "failed to list tags")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

type TagRequest struct {
	Name  string `json:"name" validate:"required,max=64"`
	Color string `json:"color" validate:"max=32"`
}

func (h *Handler) CreateTag(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req TagRequest
	if !bindAndValidate(c, &req) {
		return
	}

	tag := &domain.Tag{UserID: userID, Name: req.Name, Color: req.Color}
	if err := h.Tags.Create(c.Request.Context(), tag); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			fieldErrors(c, "name", "is already taken")
			return
		}
		serverError(c, "failed to create tag")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"tag": tag})
}

func (h *Handler) UpdateTag(c *gin.Context) {
	_, tag, ok := h.ownedTag(c)
	if !ok {
		return
	}

	var req TagRequest
	if !bindAndValidate(c, &req) {
		return
	}

	tag.Name = req.Name
	tag.Color = req.Color
	if err := h.Tags.Update(c.Request.Context(), tag); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			fieldErrors(c, "name", "is already taken")
			return
		}
		serverError(c, "failed to update tag")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tag": tag})
}

func (h *Handler) DeleteTag(c *gin.Context) {
	_, tag, ok := h.ownedTag(c)
	if !ok {
		return
	}

	if err := h.Tags.Delete(c.Request.Context(), tag.ID); err != nil {
		serverError(c, "failed to delete tag")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ownedTag(c *gin.Context) (int64, *domain.Tag, bool) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return 0, nil, false
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		notFound(c, "tag")
		return 0, nil, false
	}

	tag, err := h.Tags.GetByID(c.Request.Context(), id)
	if err != nil {
		if isNoRows(err) {
			notFound(c, "tag")
		} else {
			serverError(c, "failed to load tag")
		}
		return 0, nil, false
	}
	if tag.UserID != userID {
		forbidden(c)
		return 0, nil, false
	}
	return userID, tag, true
}
