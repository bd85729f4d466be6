package domain

import "time"

// ViewFilters is the stored filter blob of a saved view. A nil pointer means
// "don't filter on this field". The same struct is used for ad-hoc task list
// queries parsed from query parameters.
type ViewFilters struct {
	Completed *bool      `json:"completed,omitempty"`
	Priority  *Priority  `json:"priority,omitempty"`
	ProjectID *int64     `json:"project_id,omitempty"`
	TagIDs    []int64    `json:"tag_ids,omitempty"`
	Search    string     `json:"search,omitempty"`
	DueBefore *time.Time `json:"due_before,omitempty"`
	DueAfter  *time.Time `json:"due_after,omitempty"`
}

// SavedView is a named, persisted combination of filter and sort parameters
// applied to the task list at read time.
type SavedView struct {
	ID        int64       `db:"id" json:"id"`
	UserID    int64       `db:"user_id" json:"user_id"`
	Name      string      `db:"name" json:"name"`
	Filters   ViewFilters `db:"filters" json:"filters"`
	SortBy    string      `db:"sort_by" json:"sort_by"`
	SortDir   string      `db:"sort_dir" json:"sort_dir"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
}
