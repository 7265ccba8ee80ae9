// Package rest exposes the task lifecycle and statistics operations over
// HTTP with JSON bodies.
package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/runoshun/taskdeck/internal/app"
)

// Server timeouts.
const (
	readTimeout     = 15 * time.Second
	writeTimeout    = 15 * time.Second
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Server serves the task API backed by a container.
type Server struct {
	container *app.Container
	handler   http.Handler
}

// NewServer creates a Server using the container's [server] configuration.
// It returns ErrNoSecret when no JWT secret is configured.
func NewServer(c *app.Container) (*Server, error) {
	cfg := c.AppConfig.Server
	if cfg.JWTSecret == "" {
		return nil, ErrNoSecret
	}

	router := NewRouter(c, []byte(cfg.JWTSecret))
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	return &Server{
		container: c,
		handler:   corsHandler.Handler(router),
	}, nil
}

// Handler returns the HTTP handler including CORS handling.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:         addr,
		Handler:      s.handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	s.container.Logger.Info("", "http", fmt.Sprintf("listening on %s", addr))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	s.container.Logger.Info("", "http", "server stopped")
	return nil
}

// NewRouter builds the API routes. Everything under /api requires a bearer
// token signed with secret.
func NewRouter(c *app.Container, secret []byte) *mux.Router {
	h := &handlers{container: c}
	auth := &authMiddleware{secret: secret, logger: c.Logger}

	r := mux.NewRouter()
	r.Use(requestLogger(c.Logger))
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(auth.Auth)

	api.HandleFunc("/tasks", h.ListTasks).Methods(http.MethodGet)
	api.HandleFunc("/tasks", h.CreateTask).Methods(http.MethodPost)
	api.HandleFunc("/tasks/dashboard-data", h.DashboardData).Methods(http.MethodGet)
	api.HandleFunc("/tasks/user-dashboard-data", h.UserDashboardData).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{id}", h.GetTask).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{id}", h.UpdateTask).Methods(http.MethodPut)
	api.HandleFunc("/tasks/{id}", h.DeleteTask).Methods(http.MethodDelete)
	api.HandleFunc("/tasks/{id}/status", h.SetStatus).Methods(http.MethodPut)
	api.HandleFunc("/tasks/{id}/todo", h.SetChecklist).Methods(http.MethodPut)
	api.HandleFunc("/users/workload", h.Workload).Methods(http.MethodGet)

	return r
}
