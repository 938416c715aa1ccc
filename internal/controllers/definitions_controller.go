package controllers

import (
	"log/slog"
	"net/http"

	"github.com/stateflowhq/stateflow/internal/domain"
	"github.com/stateflowhq/stateflow/internal/engine"
	"github.com/stateflowhq/stateflow/internal/models"
	"github.com/stateflowhq/stateflow/internal/util"
)

// DefinitionsController holds dependencies for definition HTTP endpoints.
type DefinitionsController struct {
	AuthController
	Engine *engine.WorkflowEngine
}

func NewDefinitionsController(eng *engine.WorkflowEngine, userRepo engine.UserRepo) *DefinitionsController {
	return &DefinitionsController{Engine: eng, AuthController: AuthController{UserRepo: userRepo}}
}

func (c *DefinitionsController) handleCreateDefinition(w http.ResponseWriter, r *http.Request) {
	req, err := util.DecodeJSONBody[models.CreateDefinitionRequest](r)
	if err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	def, err := c.Engine.CreateDefinition(r.Context(), req)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Definition created via API", "definition_id", def.ID, "name", def.Name)
	util.WriteJSONResponse(w, http.StatusCreated, models.CreateDefinitionResponse{ID: def.ID})
}

func (c *DefinitionsController) handleGetDefinition(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}
	def, err := c.Engine.GetDefinition(r.Context(), id)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	util.WriteJSONResponse(w, http.StatusOK, mapDefinitionToApiResponse(def))
}

func (c *DefinitionsController) handleListDefinitions(w http.ResponseWriter, r *http.Request) {
	organizationID := r.URL.Query().Get("organizationId")
	onlyActive := r.URL.Query().Get("active") == "true"
	defs, err := c.Engine.ListDefinitions(r.Context(), organizationID, onlyActive)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	out := make([]models.DefinitionApiResponse, 0, len(defs))
	for i := range defs {
		out = append(out, mapDefinitionToApiResponse(&defs[i]))
	}
	util.WriteJSONResponse(w, http.StatusOK, out)
}

func (c *DefinitionsController) handleSetDefinitionActive(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	req, err := util.DecodeJSONBody[models.SetDefinitionActiveRequest](r)
	if err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	if err := c.Engine.SetDefinitionActive(r.Context(), id, req.Active); err != nil {
		writeEngineError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func mapDefinitionToApiResponse(def *domain.WorkflowDefinition) models.DefinitionApiResponse {
	return models.DefinitionApiResponse{
		ID:             def.ID,
		Name:           def.Name,
		Category:       def.Category,
		InitialState:   def.InitialState,
		States:         def.States,
		Transitions:    def.Transitions,
		BusinessRules:  def.BusinessRules,
		OrganizationID: def.OrganizationID,
		IsActive:       def.IsActive,
		UsageCount:     def.UsageCount,
		Created:        def.Created,
		Updated:        def.Updated,
	}
}
