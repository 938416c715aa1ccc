package controllers

import (
	"context"
	"net/http"

	"github.com/stateflowhq/stateflow/internal/engine"
	"github.com/stateflowhq/stateflow/pkg/stateflow/core"
)

type AuthController struct {
	UserRepo engine.UserRepo
}

func NewAuthController(userRepo engine.UserRepo) *AuthController {
	return &AuthController{UserRepo: userRepo}
}

// RequireAuth authenticates requests by API key.
// Supported headers: X-API-Key: <key>
func (ac *AuthController) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		apiKey := r.Header.Get("X-API-Key")
		if apiKey == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		u, err := ac.UserRepo.FindByApiKey(r.Context(), apiKey)
		if err != nil || u == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		// Add the username to the request context
		ctx := context.WithValue(r.Context(), core.CtxKeyUsername, u.Username)
		next(w, r.WithContext(ctx))
	}
}
