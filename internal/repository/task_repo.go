package repository

import (
	"context"
	"fmt"
	"strings"

	"taskhub/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

// TaskQuery describes one task list read: filters (possibly from a saved
// view), sort and pagination.
type TaskQuery struct {
	Filters domain.ViewFilters
	SortBy  string // due_date | priority | created_at | title
	SortDir string // asc | desc
	Limit   int
	Offset  int
}

const taskColumns = `t.id, t.user_id, t.project_id, t.title, t.description, t.priority,
	t.due_date, t.is_completed, t.completed_at, t.created_at, t.updated_at`

// buildListQuery renders a TaskQuery into SQL and its positional args. Kept
// separate from List so the composition logic is testable without a database.
func buildListQuery(userID int64, q TaskQuery) (string, []any) {
	var b strings.Builder
	args := []any{userID}

	b.WriteString(`SELECT ` + taskColumns + `, COUNT(*) OVER() AS total FROM tasks t WHERE t.user_id = $1`)

	add := func(clause string, val any) {
		args = append(args, val)
		fmt.Fprintf(&b, clause, len(args))
	}

	f := q.Filters
	if f.Completed != nil {
		add(" AND t.is_completed = $%d", *f.Completed)
	}
	if f.Priority != nil {
		add(" AND t.priority = $%d", string(*f.Priority))
	}
	if f.ProjectID != nil {
		add(" AND t.project_id = $%d", *f.ProjectID)
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		fmt.Fprintf(&b, " AND (t.title ILIKE $%d OR t.description ILIKE $%d)", len(args), len(args))
	}
	if f.DueAfter != nil {
		add(" AND t.due_date >= $%d", *f.DueAfter)
	}
	if f.DueBefore != nil {
		add(" AND t.due_date <= $%d", *f.DueBefore)
	}
	if len(f.TagIDs) > 0 {
		add(" AND t.id IN (SELECT task_id FROM task_tags WHERE tag_id = ANY($%d))", f.TagIDs)
	}

	b.WriteString(" ORDER BY " + orderClause(q.SortBy, q.SortDir))

	args = append(args, q.Limit)
	fmt.Fprintf(&b, " LIMIT $%d", len(args))
	args = append(args, q.Offset)
	fmt.Fprintf(&b, " OFFSET $%d", len(args))

	return b.String(), args
}

func orderClause(sortBy, sortDir string) string {
	dir := "ASC"
	if sortDir == "desc" {
		dir = "DESC"
	}
	switch sortBy {
	case "due_date":
		return "t.due_date " + dir + " NULLS LAST, t.id"
	case "priority":
		return "CASE t.priority WHEN 'urgent' THEN 4 WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END " + dir + ", t.id"
	case "title":
		return "lower(t.title) " + dir + ", t.id"
	default:
		return "t.created_at " + dir + ", t.id"
	}
}

// List returns one page of the user's tasks plus the total match count.
func (r *TaskRepository) List(ctx context.Context, userID int64, q TaskQuery) ([]*domain.Task, int64, error) {
	sql, args := buildListQuery(userID, q)

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var res []*domain.Task
	var total int64
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.ProjectID, &t.Title, &t.Description, &t.Priority,
			&t.DueDate, &t.IsCompleted, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt, &total); err != nil {
			return nil, 0, err
		}
		res = append(res, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return res, total, nil
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO tasks (user_id, project_id, title, description, priority, due_date)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, is_completed, created_at, updated_at`,
		t.UserID, t.ProjectID, t.Title, t.Description, t.Priority, t.DueDate,
	).Scan(&t.ID, &t.IsCompleted, &t.CreatedAt, &t.UpdatedAt)
}

func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	var t domain.Task
	err := r.db.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks t WHERE t.id = $1`,
		id,
	).Scan(&t.ID, &t.UserID, &t.ProjectID, &t.Title, &t.Description, &t.Priority,
		&t.DueDate, &t.IsCompleted, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) Update(ctx context.Context, t *domain.Task) error {
	return r.db.QueryRow(ctx,
		`UPDATE tasks
		 SET project_id = $1, title = $2, description = $3, priority = $4, due_date = $5, updated_at = now()
		 WHERE id = $6
		 RETURNING updated_at`,
		t.ProjectID, t.Title, t.Description, t.Priority, t.DueDate, t.ID,
	).Scan(&t.UpdatedAt)
}

func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	return err
}

// SetCompleted flips completion state; completed_at tracks the flip.
func (r *TaskRepository) SetCompleted(ctx context.Context, id int64, completed bool) (*domain.Task, error) {
	var t domain.Task
	err := r.db.QueryRow(ctx,
		`UPDATE tasks
		 SET is_completed = $1,
		     completed_at = CASE WHEN $1 THEN now() ELSE NULL END,
		     updated_at = now()
		 WHERE id = $2
		 RETURNING id, user_id, project_id, title, description, priority,
		           due_date, is_completed, completed_at, created_at, updated_at`,
		completed, id,
	).Scan(&t.ID, &t.UserID, &t.ProjectID, &t.Title, &t.Description, &t.Priority,
		&t.DueDate, &t.IsCompleted, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// SetTags replaces the task's tag assignments in one transaction.
func (r *TaskRepository) SetTags(ctx context.Context, taskID int64, tagIDs []int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM task_tags WHERE task_id = $1`, taskID); err != nil {
		return err
	}
	for _, tagID := range tagIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO task_tags (task_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			taskID, tagID); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// TagsForTasks loads tags for a batch of tasks in a single query.
func (r *TaskRepository) TagsForTasks(ctx context.Context, taskIDs []int64) (map[int64][]*domain.Tag, error) {
	if len(taskIDs) == 0 {
		return map[int64][]*domain.Tag{}, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT tt.task_id, g.id, g.user_id, g.name, g.color
		 FROM task_tags tt
		 JOIN tags g ON g.id = tt.tag_id
		 WHERE tt.task_id = ANY($1)
		 ORDER BY g.name`,
		taskIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make(map[int64][]*domain.Tag)
	for rows.Next() {
		var taskID int64
		var g domain.Tag
		if err := rows.Scan(&taskID, &g.ID, &g.UserID, &g.Name, &g.Color); err != nil {
			return nil, err
		}
		res[taskID] = append(res[taskID], &g)
	}
	return res, rows.Err()
}
