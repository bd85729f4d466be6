package handlers

import (
	"net/http"
	"strconv"

	"taskhub/internal/domain"
	"taskhub/internal/logger"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListProjects(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	projects, err := h.Projects.ListByUser(c.Request.Context(), userID)
	if err != nil {
		logger.Error("project list failed", "error", err, "user_id", userID)
		serverError(c, "failed to list projects")
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

type ProjectRequest struct {
	Name       string `json:"name" validate:"required,max=255"`
	Color      string `json:"color" validate:"max=32"`
	Icon       string `json:"icon" validate:"max=64"`
	IsFavorite bool   `json:"is_favorite"`
	ParentID   *int64 `json:"parent_id"`
}

func (h *Handler) CreateProject(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req ProjectRequest
	if !bindAndValidate(c, &req) {
		return
	}
	ctx := c.Request.Context()

	if req.ParentID != nil {
		parent, err := h.Projects.GetByID(ctx, *req.ParentID)
		if err != nil || parent.UserID != userID {
			fieldErrors(c, "parent_id", "is not one of your projects")
			return
		}
	}

	project := &domain.Project{
		UserID:     userID,
		ParentID:   req.ParentID,
		Name:       req.Name,
		Color:      req.Color,
		Icon:       req.Icon,
		IsFavorite: req.IsFavorite,
	}
	if err := h.Projects.Create(ctx, project); err != nil {
		serverError(c, "failed to create project")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"project": project})
}

// GetProject returns the project plus its direct children, so the client can
// render one level of the tree without a second round trip.
func (h *Handler) GetProject(c *gin.Context) {
	_, project, ok := h.ownedProject(c)
	if !ok {
		return
	}

	children, err := h.Projects.ListChildren(c.Request.Context(), project.ID)
	if err != nil {
		serverError(c, "failed to load child projects")
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project, "children": children})
}

func (h *Handler) UpdateProject(c *gin.Context) {
	userID, project, ok := h.ownedProject(c)
	if !ok {
		return
	}

	var req ProjectRequest
	if !bindAndValidate(c, &req) {
		return
	}
	ctx := c.Request.Context()

	if req.ParentID != nil {
		parent, err := h.Projects.GetByID(ctx, *req.ParentID)
		if err != nil || parent.UserID != userID {
			fieldErrors(c, "parent_id", "is not one of your projects")
			return
		}
		cycle, err := h.Projects.WouldCycle(ctx, project.ID, *req.ParentID)
		if err != nil {
			serverError(c, "failed to check project tree")
			return
		}
		if cycle {
			fieldErrors(c, "parent_id", "would create a cycle")
			return
		}
	}

	project.ParentID = req.ParentID
	project.Name = req.Name
	project.Color = req.Color
	project.Icon = req.Icon
	project.IsFavorite = req.IsFavorite

	if err := h.Projects.Update(ctx, project); err != nil {
		serverError(c, "failed to update project")
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project})
}

// DeleteProject removes the project, detaching its tasks and re-parenting
// its children.
func (h *Handler) DeleteProject(c *gin.Context) {
	_, project, ok := h.ownedProject(c)
	if !ok {
		return
	}

	if err := h.Projects.Delete(c.Request.Context(), project); err != nil {
		serverError(c, "failed to delete project")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ownedProject(c *gin.Context) (int64, *domain.Project, bool) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return 0, nil, false
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		notFound(c, "project")
		return 0, nil, false
	}

	project, err := h.Projects.GetByID(c.Request.Context(), id)
	if err != nil {
		if isNoRows(err) {
			notFound(c, "project")
		} else {
			serverError(c, "failed to load project")
		}
		return 0, nil, false
	}
	if project.UserID != userID {
		forbidden(c)
		return 0, nil, false
	}
	return userID, project, true
}
