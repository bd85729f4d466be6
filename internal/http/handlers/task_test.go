package handlers

import (
	"net/http/httptest"
	"testing"

	"taskhub/internal/domain"

	"github.com/gin-gonic/gin"
)

func listContext(rawQuery string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/tasks?"+rawQuery, nil)
	return c
}

func TestParseListQuery_Defaults(t *testing.T) {
	q, page, perPage := parseListQuery(listContext(""), 100)

	if page != 1 || perPage != 25 {
		t.Fatalf("expected page 1 / per_page 25, got %d / %d", page, perPage)
	}
	if q.Limit != 25 || q.Offset != 0 {
		t.Fatalf("unexpected limit/offset: %d / %d", q.Limit, q.Offset)
	}
	if q.Filters.Completed != nil || q.Filters.Priority != nil {
		t.Fatalf("expected empty filters, got %+v", q.Filters)
	}
}

func TestParseListQuery_Filters(t *testing.T) {
	q, page, perPage := parseListQuery(
		listContext("completed=true&priority=urgent&project_id=7&tag_id=1&tag_id=2&search=report&page=3&per_page=10"),
		100,
	)

	if q.Filters.Completed == nil || !*q.Filters.Completed {
		t.Fatalf("completed filter not parsed: %+v", q.Filters)
	}
	if q.Filters.Priority == nil || *q.Filters.Priority != domain.PriorityUrgent {
		t.Fatalf("priority filter not parsed: %+v", q.Filters)
	}
	if q.Filters.ProjectID == nil || *q.Filters.ProjectID != 7 {
		t.Fatalf("project filter not parsed: %+v", q.Filters)
	}
	if len(q.Filters.TagIDs) != 2 {
		t.Fatalf("tag filter not parsed: %+v", q.Filters.TagIDs)
	}
	if q.Filters.Search != "report" {
		t.Fatalf("search not parsed: %q", q.Filters.Search)
	}
	if page != 3 || perPage != 10 || q.Offset != 20 {
		t.Fatalf("pagination wrong: page %d per_page %d offset %d", page, perPage, q.Offset)
	}
}

func TestParseListQuery_PerPageCapped(t *testing.T) {
	q, _, perPage := parseListQuery(listContext("per_page=5000"), 100)
	if perPage != 100 || q.Limit != 100 {
		t.Fatalf("expected per_page capped at 100, got %d / %d", perPage, q.Limit)
	}
}

func TestParseListQuery_HugePageDoesNotUnderflow(t *testing.T) {
	// (page-1)*perPage wraps negative for a page near MaxInt
	q, _, _ := parseListQuery(listContext("page=9223372036854775807&per_page=25"), 100)
	if q.Offset < 0 {
		t.Fatalf("expected non-negative offset, got %d", q.Offset)
	}
}

func TestParseListQuery_BadValuesFallBack(t *testing.T) {
	q, page, perPage := parseListQuery(listContext("priority=asap&project_id=abc&page=-2&per_page=zero"), 100)
	if q.Filters.Priority != nil || q.Filters.ProjectID != nil {
		t.Fatalf("expected malformed filters dropped, got %+v", q.Filters)
	}
	if page != 1 || perPage != 25 || q.Offset != 0 {
		t.Fatalf("expected default pagination, got page %d per_page %d offset %d", page, perPage, q.Offset)
	}
}
