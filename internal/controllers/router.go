package controllers

import "net/http"

// RegisterRoutes wires the HTTP routes for this controller.
func (c *DefinitionsController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/definitions", c.RequireAuth(c.handleCreateDefinition))
	mux.HandleFunc("GET /api/definitions", c.RequireAuth(c.handleListDefinitions))
	mux.HandleFunc("GET /api/definitions/{id}", c.RequireAuth(c.handleGetDefinition))
	mux.HandleFunc("POST /api/definitions/{id}/active", c.RequireAuth(c.handleSetDefinitionActive))
}

func (c *InstancesController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/instances", c.RequireAuth(c.handleCreateInstance))
	mux.HandleFunc("GET /api/instances", c.RequireAuth(c.handleSearchInstances))
	mux.HandleFunc("POST /api/instances/{id}/advance", c.RequireAuth(c.handleAdvanceInstance))
	mux.HandleFunc("GET /api/instances/{id}/status", c.RequireAuth(c.handleGetInstanceStatus))
	mux.HandleFunc("GET /api/instances/{id}/history", c.RequireAuth(c.handleGetInstanceHistory))
}

func (c *UsersController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/users", c.RequireAuth(c.handleGetUsers))
	mux.HandleFunc("POST /api/users", c.RequireAuth(c.handleCreateUser))
}
