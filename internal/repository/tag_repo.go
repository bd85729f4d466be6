package repository

import (
	"context"

	"taskhub/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type TagRepository struct {
	db *pgxpool.Pool
}

func NewTagRepository(db *pgxpool.Pool) *TagRepository {
	return &TagRepository{db: db}
}

func (r *TagRepository) Create(ctx context.Context, t *domain.Tag) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO tags (user_id, name, color) VALUES ($1, $2, $3) RETURNING id`,
		t.UserID, t.Name, t.Color,
	).Scan(&t.ID)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *TagRepository) GetByID(ctx context.Context, id int64) (*domain.Tag, error) {
	var t domain.Tag
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, name, color FROM tags WHERE id = $1`,
		id,
	).Scan(&t.ID, &t.UserID, &t.Name, &t.Color)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TagRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Tag, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, name, color FROM tags WHERE user_id = $1 ORDER BY name`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Tag
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.Color); err != nil {
			return nil, err
		}
		res = append(res, &t)
	}
	return res, rows.Err()
}

func (r *TagRepository) Update(ctx context.Context, t *domain.Tag) error {
	_, err := r.db.Exec(ctx,
		`UPDATE tags SET name = $1, color = $2 WHERE id = $3`,
		t.Name, t.Color, t.ID,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *TagRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM tags WHERE id = $1`, id)
	return err
}

// OwnedByUser reports whether every id belongs to the user. Used before
// assigning tags to a task.
func (r *TagRepository) OwnedByUser(ctx context.Context, userID int64, ids []int64) (bool, error) {
	if len(ids) == 0 {
		return true, nil
	}
	var owned int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM tags WHERE user_id = $1 AND id = ANY($2)`,
		userID, ids,
	).Scan(&owned)
	if err != nil {
		return false, err
	}
	return owned == int64(len(uniqueIDs(ids))), nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	var res []int64
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		res = append(res, id)
	}
	return res
}
