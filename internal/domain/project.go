package domain

import "time"

// Project is a grouping container for related tasks. Projects form a simple
// tree via ParentID; cycles are rejected at write time.
type Project struct {
	ID         int64     `db:"id" json:"id"`
	UserID     int64     `db:"user_id" json:"user_id"`
	ParentID   *int64    `db:"parent_id" json:"parent_id,omitempty"`
	Name       string    `db:"name" json:"name"`
	Color      string    `db:"color" json:"color"`
	Icon       string    `db:"icon" json:"icon"`
	IsFavorite bool      `db:"is_favorite" json:"is_favorite"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`

	TaskCount int64 `json:"task_count"`
}
