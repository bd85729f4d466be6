package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskhub/internal/domain"
	"taskhub/internal/service"

	"github.com/gin-gonic/gin"
)

type fakeSessionStore struct {
	sessions map[string]*domain.Session
}

func (f *fakeSessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, errors.New("no rows")
	}
	return s, nil
}

func authRouter(store SessionStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", JWT(store), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetInt64("user_id")})
	})
	return r
}

func doGet(r *gin.Engine, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestJWTMiddleware(t *testing.T) {
	service.InitJWT("middleware-test-secret", time.Hour)

	sid := service.NewSessionID()
	store := &fakeSessionStore{sessions: map[string]*domain.Session{
		sid: {
			ID:        sid,
			UserID:    42,
			CreatedAt: time.Now(),
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}}
	r := authRouter(store)

	token, err := service.GenerateJWT(42, sid)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	t.Run("missing header", func(t *testing.T) {
		if w := doGet(r, ""); w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 got %d", w.Code)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		if w := doGet(r, "nope"); w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 got %d", w.Code)
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		other, _ := service.GenerateJWT(42, service.NewSessionID())
		if w := doGet(r, other); w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 got %d", w.Code)
		}
	})

	t.Run("valid token", func(t *testing.T) {
		w := doGet(r, token)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("revoked session", func(t *testing.T) {
		now := time.Now()
		store.sessions[sid].RevokedAt = &now
		defer func() { store.sessions[sid].RevokedAt = nil }()

		if w := doGet(r, token); w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 got %d", w.Code)
		}
	})

	t.Run("expired session", func(t *testing.T) {
		store.sessions[sid].ExpiresAt = time.Now().Add(-time.Minute)
		defer func() { store.sessions[sid].ExpiresAt = time.Now().Add(time.Hour) }()

		if w := doGet(r, token); w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 got %d", w.Code)
		}
	})
}
