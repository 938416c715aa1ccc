package controllers

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stateflowhq/stateflow/internal/domain"
	"github.com/stateflowhq/stateflow/pkg/stateflow/core"
)

// MockUserRepo implements engine.UserRepo for testing
type MockUserRepo struct {
	SaveFunc           func(ctx context.Context, u *domain.User) (int64, error)
	FindByApiKeyFunc   func(ctx context.Context, apiKey string) (*domain.User, error)
	FindByUsernameFunc func(ctx context.Context, username string) (*domain.User, error)
	FindAllFunc        func(ctx context.Context) ([]domain.User, error)
}

func (m *MockUserRepo) Save(ctx context.Context, u *domain.User) (int64, error) {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, u)
	}
	return 0, nil
}
func (m *MockUserRepo) FindByApiKey(ctx context.Context, apiKey string) (*domain.User, error) {
	if m.FindByApiKeyFunc != nil {
		return m.FindByApiKeyFunc(ctx, apiKey)
	}
	return nil, nil
}
func (m *MockUserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.FindByUsernameFunc != nil {
		return m.FindByUsernameFunc(ctx, username)
	}
	return nil, nil
}
func (m *MockUserRepo) FindAll(ctx context.Context) ([]domain.User, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx)
	}
	return nil, nil
}

// validApiKeyRepo accepts one key and resolves it to a fixed user.
func validApiKeyRepo(key, username string) *MockUserRepo {
	return &MockUserRepo{
		FindByApiKeyFunc: func(ctx context.Context, apiKey string) (*domain.User, error) {
			if apiKey == key {
				return &domain.User{ID: 1, Username: username, Enabled: sql.NullBool{Bool: true, Valid: true}}, nil
			}
			return nil, nil
		},
	}
}

func TestRequireAuth_ValidApiKey(t *testing.T) {
	ac := NewAuthController(validApiKeyRepo("secret-key", "alice"))

	var gotUsername string
	handler := ac.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		gotUsername, _ = r.Context().Value(core.CtxKeyUsername).(string)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/api/instances", nil)
	req.Header.Set("X-API-Key", "secret-key")
	w := httptest.NewRecorder()
	handler(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Result().StatusCode)
	}
	if gotUsername != "alice" {
		t.Errorf("Expected username alice in context, got %q", gotUsername)
	}
}

func TestRequireAuth_MissingApiKey(t *testing.T) {
	ac := NewAuthController(validApiKeyRepo("secret-key", "alice"))
	handler := ac.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("Handler must not run without an api key")
	})

	req := httptest.NewRequest("GET", "/api/instances", nil)
	w := httptest.NewRecorder()
	handler(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Result().StatusCode)
	}
}

func TestRequireAuth_UnknownApiKey(t *testing.T) {
	ac := NewAuthController(validApiKeyRepo("secret-key", "alice"))
	handler := ac.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("Handler must not run with an unknown api key")
	})

	req := httptest.NewRequest("GET", "/api/instances", nil)
	req.Header.Set("X-API-Key", "wrong")
	w := httptest.NewRecorder()
	handler(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Result().StatusCode)
	}
}
