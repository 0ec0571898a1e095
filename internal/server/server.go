// Package server provides the HTTP server for the Mudra pose recognition
// system.
package server

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/logger"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/server/api"
	"github.com/ayusman/mudra/internal/store"
)

// Config holds the server configuration. Every collaborator is optional;
// routes that need a missing one are not registered.
type Config struct {
	StaticDir string
	Store     *store.Store
	App       *app.App
	Plugins   *plugin.Manager
	Logger    *zap.Logger
}

// Server represents the HTTP server for the Mudra application.
type Server struct {
	config  Config
	log     *zap.Logger
	mux     *http.ServeMux
	handler http.Handler
	events  *EventHub
	start   time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	log := logger.OrNop(config.Logger)

	s := &Server{
		config: config,
		log:    log.Named("http"),
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	s.handler = s.logRequests(s.mux)
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	var reload api.Reloader
	if s.config.App != nil {
		reload = s.config.App
	}
	var resolver api.PluginResolver
	if s.config.Plugins != nil {
		resolver = s.config.Plugins
	}

	if s.config.Store != nil {
		poses := api.NewPoseHandler(s.config.Store, reload, s.log)
		s.mux.Handle("/api/poses", poses)
		s.mux.Handle("/api/poses/", poses)

		actions := api.NewActionHandler(s.config.Store, resolver, s.log)
		s.mux.Handle("/api/actions", actions)
		s.mux.Handle("/api/actions/", actions)
	}

	if s.config.Plugins != nil {
		plugins := api.NewPluginHandler(s.config.Plugins, s.log)
		s.mux.Handle("/api/plugins", plugins)
		s.mux.Handle("/api/plugins/", plugins)
	}

	if s.config.App != nil {
		s.mux.Handle("/api/detect", api.NewDetectHandler(s.config.App.Library()))
		s.mux.Handle("/api/detection", api.NewDetectionHandler(s.config.App))
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.App, s.log))

		s.events = NewEventHub(s.log)
		s.config.App.OnPose(s.events.Publish)
		s.mux.Handle("/api/events", s.events)
	}

	if s.config.StaticDir != "" {
		s.mux.Handle("/", http.FileServer(http.Dir(s.config.StaticDir)))
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status": "ok",
		"uptime": time.Since(s.start).Round(time.Second).String(),
	}
	if s.config.App != nil {
		response["detection"] = s.config.App.IsEnabled()
		response["poses"] = s.config.App.Library().Len()
	}
	if s.config.Plugins != nil {
		response["plugins"] = len(s.config.Plugins.List())
	}

	writeJSON(w, http.StatusOK, response)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if s.events != nil {
		s.events.Close()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// statusRecorder captures the status code for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack lets WebSocket upgrades pass through the logging wrapper.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// logRequests logs method, path, status and duration of every request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		level := zap.DebugLevel
		if rec.status >= http.StatusInternalServerError {
			level = zap.WarnLevel
		}
		s.log.Log(level, "request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}
