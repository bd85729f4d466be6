package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"taskhub/internal/calendar"
	"taskhub/internal/domain"
	"taskhub/internal/logger"
	"taskhub/internal/repository"

	"github.com/gin-gonic/gin"
)

// taskJSON decorates a task with the due date rendered in the user's
// preferred calendar.
type taskJSON struct {
	*domain.Task
	DueDateDisplay string `json:"due_date_display,omitempty"`
}

func renderTasks(tasks []*domain.Task, cal string) []taskJSON {
	res := make([]taskJSON, 0, len(tasks))
	for _, t := range tasks {
		tj := taskJSON{Task: t}
		if t.DueDate != nil {
			tj.DueDateDisplay = calendar.Format(*t.DueDate, cal)
		}
		res = append(res, tj)
	}
	return res
}

// parseListQuery builds a TaskQuery from query parameters. Unknown or
// malformed values fall back to defaults rather than erroring.
func parseListQuery(c *gin.Context, maxPerPage int) (repository.TaskQuery, int, int) {
	var f domain.ViewFilters

	if v := c.Query("completed"); v != "" {
		b := v == "true" || v == "1"
		f.Completed = &b
	}
	if v := domain.Priority(c.Query("priority")); v.Valid() {
		f.Priority = &v
	}
	if v := c.Query("project_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.ProjectID = &id
		}
	}
	for _, v := range c.QueryArray("tag_id") {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.TagIDs = append(f.TagIDs, id)
		}
	}
	f.Search = c.Query("search")
	if v := c.Query("due_before"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			f.DueBefore = &t
		}
	}
	if v := c.Query("due_after"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			f.DueAfter = &t
		}
	}

	page := 1
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		page = v
	}
	perPage := 25
	if v, err := strconv.Atoi(c.Query("per_page")); err == nil && v > 0 {
		perPage = v
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	// (page-1)*perPage can wrap negative for absurd page values; Postgres
	// rejects a negative OFFSET
	offset := (page - 1) * perPage
	if offset < 0 {
		offset = 0
	}

	return repository.TaskQuery{
		Filters: f,
		SortBy:  c.Query("sort"),
		SortDir: c.Query("dir"),
		Limit:   perPage,
		Offset:  offset,
	}, page, perPage
}

func (h *Handler) ListTasks(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	ctx := c.Request.Context()

	q, page, perPage := parseListQuery(c, h.maxPerPage)

	// a saved view replaces filters and sort, pagination still applies
	if v := c.Query("view"); v != "" {
		viewID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			fieldErrors(c, "view", "is invalid")
			return
		}
		view, err := h.Views.GetByID(ctx, viewID)
		if err != nil {
			notFound(c, "saved view")
			return
		}
		if view.UserID != userID {
			forbidden(c)
			return
		}
		q.Filters = view.Filters
		q.SortBy = view.SortBy
		q.SortDir = view.SortDir
	}

	tasks, total, err := h.Tasks.List(ctx, userID, q)
	if err != nil {
		logger.Error("task list failed", "error", err, "user_id", userID)
		serverError(c, "failed to list tasks")
		return
	}

	if err := h.attachTags(ctx, tasks); err != nil {
		serverError(c, "failed to load tags")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": renderTasks(tasks, h.displayCalendar(c, userID)),
		"meta": gin.H{
			"page":     page,
			"per_page": perPage,
			"total":    total,
		},
	})
}

type TaskRequest struct {
	Title       string     `json:"title" validate:"required,max=255"`
	Description string     `json:"description" validate:"max=10000"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	ProjectID   *int64     `json:"project_id"`
	DueDate     *time.Time `json:"due_date"`
	TagIDs      []int64    `json:"tag_ids" validate:"max=50"`
}

func (h *Handler) CreateTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req TaskRequest
	if !bindAndValidate(c, &req) {
		return
	}
	ctx := c.Request.Context()

	if !h.checkTaskRefs(c, userID, &req) {
		return
	}

	priority := domain.Priority(req.Priority)
	if priority == "" {
		priority = domain.PriorityMedium
	}

	task := &domain.Task{
		UserID:      userID,
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		DueDate:     req.DueDate,
	}
	if err := h.Tasks.Create(ctx, task); err != nil {
		logger.Error("task create failed", "error", err, "user_id", userID)
		serverError(c, "failed to create task")
		return
	}

	if len(req.TagIDs) > 0 {
		if err := h.Tasks.SetTags(ctx, task.ID, req.TagIDs); err != nil {
			serverError(c, "failed to assign tags")
			return
		}
	}
	if err := h.attachTags(ctx, []*domain.Task{task}); err != nil {
		serverError(c, "failed to load tags")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"task": renderTasks([]*domain.Task{task}, h.displayCalendar(c, userID))[0]})
}

func (h *Handler) GetTask(c *gin.Context) {
	userID, task, ok := h.ownedTask(c)
	if !ok {
		return
	}

	if err := h.attachTags(c.Request.Context(), []*domain.Task{task}); err != nil {
		serverError(c, "failed to load tags")
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": renderTasks([]*domain.Task{task}, h.displayCalendar(c, userID))[0]})
}

func (h *Handler) UpdateTask(c *gin.Context) {
	userID, task, ok := h.ownedTask(c)
	if !ok {
		return
	}

	var req TaskRequest
	if !bindAndValidate(c, &req) {
		return
	}
	ctx := c.Request.Context()

	if !h.checkTaskRefs(c, userID, &req) {
		return
	}

	task.ProjectID = req.ProjectID
	task.Title = req.Title
	task.Description = req.Description
	if req.Priority != "" {
		task.Priority = domain.Priority(req.Priority)
	}
	task.DueDate = req.DueDate

	if err := h.Tasks.Update(ctx, task); err != nil {
		serverError(c, "failed to update task")
		return
	}
	if err := h.Tasks.SetTags(ctx, task.ID, req.TagIDs); err != nil {
		serverError(c, "failed to assign tags")
		return
	}
	if err := h.attachTags(ctx, []*domain.Task{task}); err != nil {
		serverError(c, "failed to load tags")
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": renderTasks([]*domain.Task{task}, h.displayCalendar(c, userID))[0]})
}

func (h *Handler) DeleteTask(c *gin.Context) {
	_, task, ok := h.ownedTask(c)
	if !ok {
		return
	}

	if err := h.Tasks.Delete(c.Request.Context(), task.ID); err != nil {
		serverError(c, "failed to delete task")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) CompleteTask(c *gin.Context) {
	h.setTaskCompleted(c, true)
}

func (h *Handler) ReopenTask(c *gin.Context) {
	h.setTaskCompleted(c, false)
}

func (h *Handler) setTaskCompleted(c *gin.Context, completed bool) {
	userID, task, ok := h.ownedTask(c)
	if !ok {
		return
	}

	updated, err := h.Tasks.SetCompleted(c.Request.Context(), task.ID, completed)
	if err != nil {
		serverError(c, "failed to update task")
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": renderTasks([]*domain.Task{updated}, h.displayCalendar(c, userID))[0]})
}

// ownedTask loads the task from the :id param and enforces ownership:
// missing rows get 404, another user's task gets 403.
func (h *Handler) ownedTask(c *gin.Context) (int64, *domain.Task, bool) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return 0, nil, false
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		notFound(c, "task")
		return 0, nil, false
	}

	task, err := h.Tasks.GetByID(c.Request.Context(), id)
	if err != nil {
		if isNoRows(err) {
			notFound(c, "task")
		} else {
			serverError(c, "failed to load task")
		}
		return 0, nil, false
	}
	if task.UserID != userID {
		forbidden(c)
		return 0, nil, false
	}
	return userID, task, true
}

// checkTaskRefs validates that a referenced project and tags belong to the
// user. Violations surface as field-level 422s.
func (h *Handler) checkTaskRefs(c *gin.Context, userID int64, req *TaskRequest) bool {
	ctx := c.Request.Context()

	if req.ProjectID != nil {
		project, err := h.Projects.GetByID(ctx, *req.ProjectID)
		if err != nil || project.UserID != userID {
			fieldErrors(c, "project_id", "is not one of your projects")
			return false
		}
	}
	if len(req.TagIDs) > 0 {
		owned, err := h.Tags.OwnedByUser(ctx, userID, req.TagIDs)
		if err != nil {
			serverError(c, "failed to check tags")
			return false
		}
		if !owned {
			fieldErrors(c, "tag_ids", "contains a tag that is not yours")
			return false
		}
	}
	return true
}

func (h *Handler) attachTags(ctx context.Context, tasks []*domain.Task) error {
	ids := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	tags, err := h.Tasks.TagsForTasks(ctx, ids)
	if err != nil {
		return err
	}
	for _, t := range tasks {
		t.Tags = tags[t.ID]
	}
	return nil
}

// displayCalendar resolves which calendar to render dates in: the query
// param wins, then the stored preference, then gregorian.
func (h *Handler) displayCalendar(c *gin.Context, userID int64) string {
	switch c.Query("calendar") {
	case domain.CalendarJalali:
		return domain.CalendarJalali
	case domain.CalendarGregorian:
		return domain.CalendarGregorian
	}
	prefs, err := h.Prefs.Get(c.Request.Context(), userID)
	if err != nil {
		return domain.CalendarGregorian
	}
	return prefs.Calendar
}
