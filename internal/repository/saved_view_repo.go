package repository

import (
	"context"
	"encoding/json"

	"taskhub/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type SavedViewRepository struct {
	db *pgxpool.Pool
}

func NewSavedViewRepository(db *pgxpool.Pool) *SavedViewRepository {
	return &SavedViewRepository{db: db}
}

func (r *SavedViewRepository) Create(ctx context.Context, v *domain.SavedView) error {
	filters, err := json.Marshal(v.Filters)
	if err != nil {
		return err
	}
	err = r.db.QueryRow(ctx,
		`INSERT INTO saved_views (user_id, name, filters, sort_by, sort_dir)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		v.UserID, v.Name, filters, v.SortBy, v.SortDir,
	).Scan(&v.ID, &v.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *SavedViewRepository) GetByID(ctx context.Context, id int64) (*domain.SavedView, error) {
	var v domain.SavedView
	var filters []byte
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, name, filters, sort_by, sort_dir, created_at
		 FROM saved_views
		 WHERE id = $1`,
		id,
	).Scan(&v.ID, &v.UserID, &v.Name, &filters, &v.SortBy, &v.SortDir, &v.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(filters, &v.Filters); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *SavedViewRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.SavedView, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, name, filters, sort_by, sort_dir, created_at
		 FROM saved_views
		 WHERE user_id = $1
		 ORDER BY name`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.SavedView
	for rows.Next() {
		var v domain.SavedView
		var filters []byte
		if err := rows.Scan(&v.ID, &v.UserID, &v.Name, &filters, &v.SortBy, &v.SortDir, &v.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(filters, &v.Filters); err != nil {
			return nil, err
		}
		res = append(res, &v)
	}
	return res, rows.Err()
}

func (r *SavedViewRepository) Update(ctx context.Context, v *domain.SavedView) error {
	filters, err := json.Marshal(v.Filters)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx,
		`UPDATE saved_views SET name = $1, filters = $2, sort_by = $3, sort_dir = $4 WHERE id = $5`,
		v.Name, filters, v.SortBy, v.SortDir, v.ID,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *SavedViewRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM saved_views WHERE id = $1`, id)
	return err
}
