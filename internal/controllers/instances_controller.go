package controllers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/stateflowhq/stateflow/internal/engine"
	"github.com/stateflowhq/stateflow/internal/models"
	"github.com/stateflowhq/stateflow/internal/util"
	"github.com/stateflowhq/stateflow/pkg/stateflow/core"
)

// InstancesController holds dependencies for instance HTTP endpoints.
type InstancesController struct {
	AuthController
	Engine *engine.WorkflowEngine
}

func NewInstancesController(eng *engine.WorkflowEngine, userRepo engine.UserRepo) *InstancesController {
	return &InstancesController{Engine: eng, AuthController: AuthController{UserRepo: userRepo}}
}

func (c *InstancesController) handleCreateInstance(w http.ResponseWriter, r *http.Request) {
	req, err := util.DecodeJSONBody[models.CreateInstanceRequest](r)
	if err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// default the creator to the authenticated user
	if req.CreatedBy == "" {
		if username, ok := r.Context().Value(core.CtxKeyUsername).(string); ok {
			req.CreatedBy = username
		}
	}

	slog.InfoContext(r.Context(), "Creating workflow instance",
		"definition_id", req.DefinitionID, "entity_id", req.EntityID)

	wf, err := c.Engine.CreateInstance(r.Context(), req)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}

	util.WriteJSONResponse(w, http.StatusCreated, models.CreateInstanceResponse{
		ID:           wf.ID,
		CurrentState: wf.CurrentState,
		Status:       wf.Status,
	})
}

func (c *InstancesController) handleAdvanceInstance(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	req, err := util.DecodeJSONBody[models.AdvanceRequest](r)
	if err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		if username, ok := r.Context().Value(core.CtxKeyUsername).(string); ok {
			req.UserID = username
		}
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	wf, err := c.Engine.Advance(r.Context(), id, req)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}

	util.WriteJSONResponse(w, http.StatusOK, models.AdvanceResponse{
		ID:                 wf.ID,
		CurrentState:       wf.CurrentState,
		Status:             wf.Status,
		ProgressPercentage: wf.ProgressPercentage,
	})
}

func (c *InstancesController) handleGetInstanceStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	status, err := c.Engine.Status(r.Context(), id)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	util.WriteJSONResponse(w, http.StatusOK, status)
}

func (c *InstancesController) handleGetInstanceHistory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "limit is an integer", http.StatusBadRequest)
			return
		}
		limit = n
	}
	entries, err := c.Engine.History(r.Context(), id, limit)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	util.WriteJSONResponse(w, http.StatusOK, entries)
}

func (c *InstancesController) handleSearchInstances(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID := q.Get("userId")
	if userID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}
	req := models.SearchInstancesRequest{
		OrganizationID: q.Get("organizationId"),
		Status:         q.Get("status"),
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			http.Error(w, "limit is an integer", http.StatusBadRequest)
			return
		}
		req.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			http.Error(w, "offset is an integer", http.StatusBadRequest)
			return
		}
		req.Offset = n
	}

	summaries, err := c.Engine.UserWorkflows(r.Context(), userID, req)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	util.WriteJSONResponse(w, http.StatusOK, models.SearchInstancesResponse{
		Results:   len(summaries),
		Workflows: summaries,
		Offset:    req.Offset,
	})
}
