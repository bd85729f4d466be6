package repository

import (
	"strings"
	"testing"
	"time"

	"taskhub/internal/domain"
)

func TestBuildListQuery_NoFilters(t *testing.T) {
	sql, args := buildListQuery(7, TaskQuery{Limit: 25, Offset: 0})

	if !strings.Contains(sql, "WHERE t.user_id = $1") {
		t.Fatalf("query not scoped to user: %s", sql)
	}
	if !strings.Contains(sql, "ORDER BY t.created_at ASC") {
		t.Fatalf("expected default sort, got: %s", sql)
	}
	if !strings.Contains(sql, "LIMIT $2 OFFSET $3") {
		t.Fatalf("expected pagination placeholders, got: %s", sql)
	}
	if len(args) != 3 {
		t.Fatalf("expected 3 args got %d: %v", len(args), args)
	}
	if args[0] != int64(7) || args[1] != 25 || args[2] != 0 {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestBuildListQuery_AllFilters(t *testing.T) {
	completed := false
	prio := domain.PriorityHigh
	projectID := int64(3)
	after := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	before := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	q := TaskQuery{
		Filters: domain.ViewFilters{
			Completed: &completed,
			Priority:  &prio,
			ProjectID: &projectID,
			Search:    "report",
			DueAfter:  &after,
			DueBefore: &before,
			TagIDs:    []int64{1, 2},
		},
		SortBy:  "due_date",
		SortDir: "desc",
		Limit:   10,
		Offset:  20,
	}

	sql, args := buildListQuery(7, q)

	for _, want := range []string{
		"t.is_completed = $2",
		"t.priority = $3",
		"t.project_id = $4",
		"t.title ILIKE $5 OR t.description ILIKE $5",
		"t.due_date >= $6",
		"t.due_date <= $7",
		"tag_id = ANY($8)",
		"ORDER BY t.due_date DESC NULLS LAST",
		"LIMIT $9 OFFSET $10",
	} {
		if !strings.Contains(sql, want) {
			t.Fatalf("expected %q in query: %s", want, sql)
		}
	}

	if len(args) != 10 {
		t.Fatalf("expected 10 args got %d: %v", len(args), args)
	}
	if args[4] != "%report%" {
		t.Fatalf("expected wrapped search pattern, got %v", args[4])
	}
}

func TestOrderClause(t *testing.T) {
	cases := []struct {
		sortBy, sortDir, want string
	}{
		{"due_date", "asc", "t.due_date ASC NULLS LAST, t.id"},
		{"priority", "desc", "CASE t.priority WHEN 'urgent' THEN 4 WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END DESC, t.id"},
		{"title", "asc", "lower(t.title) ASC, t.id"},
		{"created_at", "desc", "t.created_at DESC, t.id"},
		{"", "", "t.created_at ASC, t.id"},
		{"bogus", "sideways", "t.created_at ASC, t.id"},
	}

	for _, c := range cases {
		if got := orderClause(c.sortBy, c.sortDir); got != c.want {
			t.Fatalf("orderClause(%q, %q): expected %q got %q", c.sortBy, c.sortDir, c.want, got)
		}
	}
}
