package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/stateflowhq/stateflow/internal/domain"
	"github.com/stateflowhq/stateflow/internal/models"
)

func TestUsersController_CreateUser_Success(t *testing.T) {
	var saved *domain.User
	repo := &MockUserRepo{
		SaveFunc: func(ctx context.Context, u *domain.User) (int64, error) {
			saved = u
			return 7, nil
		},
	}
	c := NewUsersController(repo)

	req := httptest.NewRequest("POST", "/api/users",
		strings.NewReader(`{"username":"bob","password":"hunter2hunter2"}`))
	w := httptest.NewRecorder()
	c.handleCreateUser(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", resp.StatusCode)
	}
	var out models.CreateUserResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if out.ID != 7 {
		t.Errorf("Expected id 7, got %d", out.ID)
	}
	if out.ApiKey == "" {
		t.Errorf("Expected a generated api key in the response")
	}
	if saved == nil {
		t.Fatalf("User was not persisted")
	}
	if saved.Password == "hunter2hunter2" {
		t.Errorf("Password must be stored hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(saved.Password), []byte("hunter2hunter2")); err != nil {
		t.Errorf("Stored hash does not verify: %v", err)
	}
	if !saved.ApiKey.Valid || saved.ApiKey.String != out.ApiKey {
		t.Errorf("Stored api key %+v does not match response %q", saved.ApiKey, out.ApiKey)
	}
}

func TestUsersController_CreateUser_ShortPassword(t *testing.T) {
	c := NewUsersController(&MockUserRepo{})

	req := httptest.NewRequest("POST", "/api/users",
		strings.NewReader(`{"username":"bob","password":"short"}`))
	w := httptest.NewRecorder()
	c.handleCreateUser(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400 for short password, got %d", w.Result().StatusCode)
	}
}

func TestUsersController_CreateUser_DuplicateUsername(t *testing.T) {
	repo := &MockUserRepo{
		FindByUsernameFunc: func(ctx context.Context, username string) (*domain.User, error) {
			return &domain.User{ID: 1, Username: username}, nil
		},
	}
	c := NewUsersController(repo)

	req := httptest.NewRequest("POST", "/api/users",
		strings.NewReader(`{"username":"bob","password":"hunter2hunter2"}`))
	w := httptest.NewRecorder()
	c.handleCreateUser(w, req)

	if w.Result().StatusCode != http.StatusConflict {
		t.Errorf("Expected status 409 for duplicate username, got %d", w.Result().StatusCode)
	}
}

func TestUsersController_GetUsers(t *testing.T) {
	repo := &MockUserRepo{
		FindAllFunc: func(ctx context.Context) ([]domain.User, error) {
			return []domain.User{{ID: 1, Username: "admin"}, {ID: 2, Username: "bob"}}, nil
		},
	}
	c := NewUsersController(repo)

	req := httptest.NewRequest("GET", "/api/users", nil)
	w := httptest.NewRecorder()
	c.handleGetUsers(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	var users []domain.User
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("Expected 2 users, got %d", len(users))
	}
}
