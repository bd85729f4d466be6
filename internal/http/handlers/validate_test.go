package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

type sampleRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Priority string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
}

func postJSON(body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/test", func(c *gin.Context) {
		var req sampleRequest
		if !bindAndValidate(c, &req) {
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestBindAndValidate_MalformedJSON(t *testing.T) {
	w := postJSON(`{"email": `)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
}

func TestBindAndValidate_FieldErrors(t *testing.T) {
	w := postJSON(`{"email": "not-an-email", "password": "short", "priority": "asap"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", w.Code)
	}

	var body struct {
		Errors map[string][]string `json:"errors"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}

	// errors keyed by json field name, each with at least one message
	for _, field := range []string{"email", "password", "priority"} {
		msgs, ok := body.Errors[field]
		if !ok || len(msgs) == 0 {
			t.Fatalf("expected error messages for %q, got %v", field, body.Errors)
		}
	}
	if got := body.Errors["password"][0]; got != "must be at least 8 characters" {
		t.Fatalf("unexpected password message %q", got)
	}
	if got := body.Errors["priority"][0]; got != "must be one of: low, medium, high, urgent" {
		t.Fatalf("unexpected priority message %q", got)
	}
}

func TestBindAndValidate_MissingRequired(t *testing.T) {
	w := postJSON(`{}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", w.Code)
	}

	var body struct {
		Errors map[string][]string `json:"errors"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if got := body.Errors["email"]; len(got) != 1 || got[0] != "is required" {
		t.Fatalf("unexpected email errors %v", got)
	}
}

func TestBindAndValidate_Valid(t *testing.T) {
	w := postJSON(`{"email": "a@example.com", "password": "long-enough", "priority": "high"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", w.Code, w.Body.String())
	}
}
