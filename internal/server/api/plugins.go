package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ayusman/mudra/internal/logger"
	"github.com/ayusman/mudra/internal/plugin"
)

// PluginHandler lists discovered plugins and triggers rescans.
type PluginHandler struct {
	manager *plugin.Manager
	log     *zap.Logger
}

// NewPluginHandler creates a PluginHandler for manager.
func NewPluginHandler(manager *plugin.Manager, log *zap.Logger) *PluginHandler {
	log = logger.OrNop(log)
	return &PluginHandler{manager: manager, log: log}
}

type listPluginsResponse struct {
	Dir     string            `json:"dir"`
	Plugins []plugin.Manifest `json:"plugins"`
}

// ServeHTTP handles GET /api/plugins and POST /api/plugins/rescan.
func (h *PluginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch sub := resourceID(r.URL.Path, "/api/plugins"); {
	case sub == "" && r.Method == http.MethodGet:
		h.list(w)
	case sub == "rescan" && r.Method == http.MethodPost:
		if err := h.manager.Discover(); err != nil {
			h.log.Error("plugin rescan failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Failed to scan plugins")
			return
		}
		h.list(w)
	case sub == "" || sub == "rescan":
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

func (h *PluginHandler) list(w http.ResponseWriter) {
	plugins := h.manager.List()
	response := listPluginsResponse{
		Dir:     h.manager.PluginDir(),
		Plugins: make([]plugin.Manifest, 0, len(plugins)),
	}
	for _, p := range plugins {
		response.Plugins = append(response.Plugins, p.Manifest)
	}
	writeJSON(w, http.StatusOK, response)
}
