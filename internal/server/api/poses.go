package api

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ayusman/mudra/internal/logger"
	"github.com/ayusman/mudra/internal/pose"
	"github.com/ayusman/mudra/internal/store"
)

// PoseHandler handles HTTP requests for pose resources.
type PoseHandler struct {
	store  *store.Store
	reload Reloader
	log    *zap.Logger
}

// NewPoseHandler creates a PoseHandler. reload, if non-nil, is called after
// every successful change.
func NewPoseHandler(s *store.Store, reload Reloader, log *zap.Logger) *PoseHandler {
	log = logger.OrNop(log)
	return &PoseHandler{store: s, reload: reload, log: log}
}

// ServeHTTP routes /api/poses and /api/poses/{id}.
func (h *PoseHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := resourceID(r.URL.Path, "/api/poses")

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

type createPoseRequest struct {
	Name       string          `json:"name"`
	Ordinal    int             `json:"ordinal"`
	Enabled    *bool           `json:"enabled"`
	Definition pose.Definition `json:"definition"`
}

type updatePoseRequest struct {
	Name       string           `json:"name"`
	Ordinal    int              `json:"ordinal"`
	Enabled    *bool            `json:"enabled"`
	Definition *pose.Definition `json:"definition"`
}

type poseResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Ordinal    int             `json:"ordinal"`
	Enabled    bool            `json:"enabled"`
	Definition pose.Definition `json:"definition"`
	CreatedAt  string          `json:"created_at"`
	UpdatedAt  string          `json:"updated_at"`
}

type listPosesResponse struct {
	Poses []poseResponse `json:"poses"`
}

func toPoseResponse(p *store.Pose) poseResponse {
	return poseResponse{
		ID:         p.ID,
		Name:       p.Name,
		Ordinal:    p.Ordinal,
		Enabled:    p.Enabled,
		Definition: p.Definition,
		CreatedAt:  formatTime(p.CreatedAt),
		UpdatedAt:  formatTime(p.UpdatedAt),
	}
}

// writeStoreError maps store and validation errors to HTTP statuses.
func (h *PoseHandler) writeStoreError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "Pose not found")
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusConflict, "A pose with this name already exists")
	case errors.Is(err, pose.ErrInvalidDefinition):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error("pose store failure", zap.String("action", action), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to "+action+" pose")
	}
}

// nameTaken writes a 409 and returns true when another pose than id already
// uses name. An empty id checks against every pose.
func (h *PoseHandler) nameTaken(w http.ResponseWriter, name, id string) bool {
	existing, err := h.store.Poses().GetByName(name)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return false
	case err != nil:
		h.writeStoreError(w, err, "check")
		return true
	case existing.ID != id:
		h.writeStoreError(w, store.ErrConflict, "check")
		return true
	}
	return false
}

func (h *PoseHandler) reloadLibrary() {
	if h.reload == nil {
		return
	}
	if err := h.reload.LoadPoses(); err != nil {
		h.log.Error("failed to reload poses", zap.Error(err))
	}
}

// list handles GET /api/poses and returns all poses in evaluation order.
func (h *PoseHandler) list(w http.ResponseWriter, r *http.Request) {
	poses, err := h.store.Poses().List()
	if err != nil {
		h.writeStoreError(w, err, "list")
		return
	}

	response := listPosesResponse{Poses: make([]poseResponse, 0, len(poses))}
	for _, p := range poses {
		response.Poses = append(response.Poses, toPoseResponse(p))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *PoseHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	p, err := h.store.Poses().GetByID(id)
	if err != nil {
		h.writeStoreError(w, err, "get")
		return
	}
	writeJSON(w, http.StatusOK, toPoseResponse(p))
}

// create handles POST /api/poses. The pose name doubles as the definition
// name; a definition name in the body is ignored when a top-level name is
// given.
func (h *PoseHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createPoseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	name := req.Name
	if name == "" {
		name = req.Definition.Name
	}
	if name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}
	if h.nameTaken(w, name, "") {
		return
	}

	p := &store.Pose{
		ID:         uuid.New().String(),
		Name:       name,
		Ordinal:    req.Ordinal,
		Enabled:    req.Enabled == nil || *req.Enabled,
		Definition: req.Definition,
	}
	if err := h.store.Poses().Create(p); err != nil {
		h.writeStoreError(w, err, "create")
		return
	}

	h.reloadLibrary()
	writeJSON(w, http.StatusCreated, toPoseResponse(p))
}

func (h *PoseHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	p, err := h.store.Poses().GetByID(id)
	if err != nil {
		h.writeStoreError(w, err, "get")
		return
	}

	var req updatePoseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	if req.Definition != nil {
		p.Definition = *req.Definition
	}
	if req.Name != "" && req.Name != p.Name {
		if h.nameTaken(w, req.Name, p.ID) {
			return
		}
		p.Name = req.Name
	}
	if req.Ordinal != 0 {
		p.Ordinal = req.Ordinal
	}
	if req.Enabled != nil {
		p.Enabled = *req.Enabled
	}

	if err := h.store.Poses().Update(p); err != nil {
		h.writeStoreError(w, err, "update")
		return
	}

	h.reloadLibrary()
	writeJSON(w, http.StatusOK, toPoseResponse(p))
}

func (h *PoseHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Poses().Delete(id); err != nil {
		h.writeStoreError(w, err, "delete")
		return
	}

	h.reloadLibrary()
	w.WriteHeader(http.StatusNoContent)
}
