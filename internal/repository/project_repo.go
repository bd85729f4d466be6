package repository

import (
	"context"

	"taskhub/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ProjectRepository struct {
	db *pgxpool.Pool
}

func NewProjectRepository(db *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO projects (user_id, parent_id, name, color, icon, is_favorite)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		p.UserID, p.ParentID, p.Name, p.Color, p.Icon, p.IsFavorite,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	var p domain.Project
	err := r.db.QueryRow(ctx,
		`SELECT p.id, p.user_id, p.parent_id, p.name, p.color, p.icon, p.is_favorite,
		        p.created_at, p.updated_at,
		        (SELECT COUNT(*) FROM tasks t WHERE t.project_id = p.id) AS task_count
		 FROM projects p
		 WHERE p.id = $1`,
		id,
	).Scan(&p.ID, &p.UserID, &p.ParentID, &p.Name, &p.Color, &p.Icon, &p.IsFavorite,
		&p.CreatedAt, &p.UpdatedAt, &p.TaskCount)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Project, error) {
	rows, err := r.db.Query(ctx,
		`SELECT p.id, p.user_id, p.parent_id, p.name, p.color, p.icon, p.is_favorite,
		        p.created_at, p.updated_at,
		        (SELECT COUNT(*) FROM tasks t WHERE t.project_id = p.id) AS task_count
		 FROM projects p
		 WHERE p.user_id = $1
		 ORDER BY p.is_favorite DESC, p.name`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Project
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.UserID, &p.ParentID, &p.Name, &p.Color, &p.Icon,
			&p.IsFavorite, &p.CreatedAt, &p.UpdatedAt, &p.TaskCount); err != nil {
			return nil, err
		}
		res = append(res, &p)
	}
	return res, rows.Err()
}

// ListChildren returns the direct child projects of a parent.
func (r *ProjectRepository) ListChildren(ctx context.Context, parentID int64) ([]*domain.Project, error) {
	rows, err := r.db.Query(ctx,
		`SELECT p.id, p.user_id, p.parent_id, p.name, p.color, p.icon, p.is_favorite,
		        p.created_at, p.updated_at,
		        (SELECT COUNT(*) FROM tasks t WHERE t.project_id = p.id) AS task_count
		 FROM projects p
		 WHERE p.parent_id = $1
		 ORDER BY p.name`,
		parentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Project
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.UserID, &p.ParentID, &p.Name, &p.Color, &p.Icon,
			&p.IsFavorite, &p.CreatedAt, &p.UpdatedAt, &p.TaskCount); err != nil {
			return nil, err
		}
		res = append(res, &p)
	}
	return res, rows.Err()
}

// Update persists name/color/icon/favorite/parent changes. The caller is
// expected to have run the cycle check when the parent changes.
func (r *ProjectRepository) Update(ctx context.Context, p *domain.Project) error {
	return r.db.QueryRow(ctx,
		`UPDATE projects
		 SET parent_id = $1, name = $2, color = $3, icon = $4, is_favorite = $5, updated_at = now()
		 WHERE id = $6
		 RETURNING updated_at`,
		p.ParentID, p.Name, p.Color, p.Icon, p.IsFavorite, p.ID,
	).Scan(&p.UpdatedAt)
}

// WouldCycle reports whether setting newParent as the parent of projectID
// would create a cycle, by walking the ancestor chain of newParent.
func (r *ProjectRepository) WouldCycle(ctx context.Context, projectID, newParent int64) (bool, error) {
	if projectID == newParent {
		return true, nil
	}
	var cycle bool
	err := r.db.QueryRow(ctx,
		`WITH RECURSIVE ancestors AS (
			SELECT id, parent_id FROM projects WHERE id = $1
			UNION ALL
			SELECT p.id, p.parent_id
			FROM projects p
			JOIN ancestors a ON p.id = a.parent_id
		 )
		 SELECT EXISTS (SELECT 1 FROM ancestors WHERE id = $2)`,
		newParent, projectID,
	).Scan(&cycle)
	return cycle, err
}

// Delete removes the project: its tasks are detached, its children are
// re-parented to the deleted project's own parent.
func (r *ProjectRepository) Delete(ctx context.Context, p *domain.Project) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE tasks SET project_id = NULL WHERE project_id = $1`, p.ID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`UPDATE projects SET parent_id = $1 WHERE parent_id = $2`, p.ParentID, p.ID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM projects WHERE id = $1`, p.ID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
