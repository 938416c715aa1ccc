package controllers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/stateflowhq/stateflow/internal/domain"
	"github.com/stateflowhq/stateflow/internal/engine"
	"github.com/stateflowhq/stateflow/internal/models"
	"github.com/stateflowhq/stateflow/internal/util"
)

type UsersController struct {
	AuthController
	UserRepo engine.UserRepo
}

func NewUsersController(userRepo engine.UserRepo) *UsersController {
	return &UsersController{
		UserRepo: userRepo,
		AuthController: AuthController{
			UserRepo: userRepo,
		},
	}
}

// handleGetUsers returns all users
func (c *UsersController) handleGetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := c.UserRepo.FindAll(r.Context())
	if err != nil {
		slog.Error("Failed to get users", "error", err)
		http.Error(w, "failed to get users", http.StatusInternalServerError)
		return
	}
	util.WriteJSONResponse(w, http.StatusOK, users)
}

// handleCreateUser creates a new user with a hashed password and a
// generated API key. The key is only returned once, in the response.
func (c *UsersController) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	req, err := util.DecodeJSONBody[models.CreateUserRequest](r)
	if err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	existing, err := c.UserRepo.FindByUsername(r.Context(), req.Username)
	if err != nil {
		slog.Error("Failed to look up user", "error", err)
		http.Error(w, "failed to create user", http.StatusInternalServerError)
		return
	}
	if existing != nil {
		http.Error(w, "username already exists", http.StatusConflict)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("Failed to hash password", "error", err)
		http.Error(w, "failed to create user", http.StatusInternalServerError)
		return
	}

	apiKey := uuid.NewString()
	user := &domain.User{
		Username: req.Username,
		Password: string(hash),
		ApiKey:   sql.NullString{String: apiKey, Valid: true},
		Enabled:  sql.NullBool{Bool: true, Valid: true},
	}
	id, err := c.UserRepo.Save(r.Context(), user)
	if err != nil {
		slog.Error("Failed to save user", "error", err)
		http.Error(w, "failed to create user", http.StatusInternalServerError)
		return
	}

	slog.InfoContext(r.Context(), "Created user", "user_id", id, "username", req.Username)
	util.WriteJSONResponse(w, http.StatusCreated, models.CreateUserResponse{ID: id, ApiKey: apiKey})
}
