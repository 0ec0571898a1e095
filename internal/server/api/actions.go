package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ayusman/mudra/internal/logger"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/store"
)

// PluginResolver checks that a plugin provides an action.
type PluginResolver interface {
	Resolve(name, action string) (*plugin.Plugin, error)
}

// ActionHandler handles HTTP requests for action bindings.
type ActionHandler struct {
	store   *store.Store
	plugins PluginResolver
	log     *zap.Logger
}

// NewActionHandler creates an ActionHandler. When plugins is non-nil, new
// and updated bindings must name a discovered plugin action.
func NewActionHandler(s *store.Store, plugins PluginResolver, log *zap.Logger) *ActionHandler {
	log = logger.OrNop(log)
	return &ActionHandler{store: s, plugins: plugins, log: log}
}

// ServeHTTP routes /api/actions and /api/actions/{id}.
func (h *ActionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := resourceID(r.URL.Path, "/api/actions")

	if id == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type createActionRequest struct {
	PoseID     string          `json:"pose_id"`
	PluginName string          `json:"plugin_name"`
	ActionName string          `json:"action_name"`
	Config     json.RawMessage `json:"config"`
}

type updateActionRequest struct {
	PoseID     string          `json:"pose_id"`
	PluginName string          `json:"plugin_name"`
	ActionName string          `json:"action_name"`
	Config     json.RawMessage `json:"config"`
	Enabled    *bool           `json:"enabled"`
}

type actionResponse struct {
	ID         string          `json:"id"`
	PoseID     string          `json:"pose_id"`
	PluginName string          `json:"plugin_name"`
	ActionName string          `json:"action_name"`
	Config     json.RawMessage `json:"config"`
	Enabled    bool            `json:"enabled"`
	CreatedAt  string          `json:"created_at"`
}

type listActionsResponse struct {
	Actions []actionResponse `json:"actions"`
}

func toActionResponse(a *store.Action) actionResponse {
	config := a.Config
	if len(config) == 0 {
		config = json.RawMessage("{}")
	}
	return actionResponse{
		ID:         a.ID,
		PoseID:     a.PoseID,
		PluginName: a.PluginName,
		ActionName: a.ActionName,
		Config:     config,
		Enabled:    a.Enabled,
		CreatedAt:  formatTime(a.CreatedAt),
	}
}

func (h *ActionHandler) internalError(w http.ResponseWriter, msg string, err error) {
	h.log.Error(msg, zap.Error(err))
	writeError(w, http.StatusInternalServerError, msg)
}

// checkPose writes a 400 and returns false when poseID does not exist.
func (h *ActionHandler) checkPose(w http.ResponseWriter, poseID string) bool {
	_, err := h.store.Poses().GetByID(poseID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusBadRequest, "Pose not found")
		return false
	case err != nil:
		h.internalError(w, "Failed to verify pose", err)
		return false
	}
	return true
}

// checkPlugin writes a 400 and returns false when the plugin action is
// unknown.
func (h *ActionHandler) checkPlugin(w http.ResponseWriter, pluginName, actionName string) bool {
	if h.plugins == nil {
		return true
	}
	if _, err := h.plugins.Resolve(pluginName, actionName); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func (h *ActionHandler) list(w http.ResponseWriter, r *http.Request) {
	actions, err := h.store.Actions().List()
	if err != nil {
		h.internalError(w, "Failed to list actions", err)
		return
	}

	response := listActionsResponse{Actions: make([]actionResponse, 0, len(actions))}
	for _, a := range actions {
		response.Actions = append(response.Actions, toActionResponse(a))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *ActionHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	action, err := h.store.Actions().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Action not found")
			return
		}
		h.internalError(w, "Failed to get action", err)
		return
	}
	writeJSON(w, http.StatusOK, toActionResponse(action))
}

// create handles POST /api/actions. A pose can have at most one binding.
func (h *ActionHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createActionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	switch {
	case req.PoseID == "":
		writeError(w, http.StatusBadRequest, "pose_id is required")
		return
	case req.PluginName == "":
		writeError(w, http.StatusBadRequest, "plugin_name is required")
		return
	case req.ActionName == "":
		writeError(w, http.StatusBadRequest, "action_name is required")
		return
	}

	if !h.checkPose(w, req.PoseID) || !h.checkPlugin(w, req.PluginName, req.ActionName) {
		return
	}

	existing, err := h.store.Actions().GetByPoseID(req.PoseID)
	if err != nil {
		h.internalError(w, "Failed to check existing action", err)
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "Action already bound to this pose")
		return
	}

	action := &store.Action{
		ID:         uuid.New().String(),
		PoseID:     req.PoseID,
		PluginName: req.PluginName,
		ActionName: req.ActionName,
		Config:     req.Config,
		Enabled:    true,
	}
	if err := h.store.Actions().Create(action); err != nil {
		h.internalError(w, "Failed to create action", err)
		return
	}

	writeJSON(w, http.StatusCreated, toActionResponse(action))
}

func (h *ActionHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	action, err := h.store.Actions().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Action not found")
			return
		}
		h.internalError(w, "Failed to get action", err)
		return
	}

	var req updateActionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.PoseID != "" && req.PoseID != action.PoseID {
		if !h.checkPose(w, req.PoseID) {
			return
		}
		action.PoseID = req.PoseID
	}
	if req.PluginName != "" {
		action.PluginName = req.PluginName
	}
	if req.ActionName != "" {
		action.ActionName = req.ActionName
	}
	if req.PluginName != "" || req.ActionName != "" {
		if !h.checkPlugin(w, action.PluginName, action.ActionName) {
			return
		}
	}
	if req.Config != nil {
		action.Config = req.Config
	}
	if req.Enabled != nil {
		action.Enabled = *req.Enabled
	}

	if err := h.store.Actions().Update(action); err != nil {
		h.internalError(w, "Failed to update action", err)
		return
	}

	writeJSON(w, http.StatusOK, toActionResponse(action))
}

func (h *ActionHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Actions().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Action not found")
			return
		}
		h.internalError(w, "Failed to delete action", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
