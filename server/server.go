package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rishi-s8/agentbuilder/agent"
)

// Options configure a Server.
type Options struct {
	// Name and Description identify the served agent on /info; remote
	// delegation uses them as the tool name and description.
	Name        string
	Description string

	// Addr is the listen address for Start.
	Addr string

	// Logger receives request logs. Defaults to a no-op logger.
	Logger zerolog.Logger
}

// Server exposes an agent factory over HTTP with per-session isolation.
// Every created session gets its own agent; runs within one session are
// serialized, sessions run concurrently.
type Server struct {
	factory  agent.Factory
	sessions *SessionStore
	opts     Options
	httpSrv  *http.Server
}

// New creates a server for the given agent factory.
func New(factory agent.Factory, optFns ...func(o *Options)) *Server {
	opts := Options{
		Name:   "agent",
		Addr:   ":8000",
		Logger: zerolog.Nop(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Server{
		factory:  factory,
		sessions: NewSessionStore(),
		opts:     opts,
	}
}

// Handler returns the server's HTTP handler, for embedding or tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /info", s.handleInfo)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /sessions", s.handleCreateSession)
	mux.HandleFunc("POST /sessions/{id}/run", s.handleRun)
	mux.HandleFunc("POST /sessions/{id}/reset", s.handleReset)
	mux.HandleFunc("DELETE /sessions/{id}", s.handleDeleteSession)
	return mux
}

// Start serves until the context is canceled, then drains in-flight
// requests.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpSrv.ListenAndServe()
	}()

	s.opts.Logger.Info().Str("addr", s.opts.Addr).Str("agent", s.opts.Name).Msg("Agent server listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"name":        s.opts.Name,
		"description": s.opts.Description,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	id := s.sessions.Create(s.factory)
	s.opts.Logger.Info().Str("session_id", id).Msg("Session created")
	writeJSON(w, http.StatusCreated, map[string]string{"session_id": id})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	var body struct {
		Message *string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.Message == nil {
		writeError(w, http.StatusBadRequest, "missing field: message")
		return
	}

	sess.mu.Lock()
	result, err := sess.agent.Run(r.Context(), *body.Message)
	sess.mu.Unlock()
	if err != nil {
		s.opts.Logger.Error().Str("session_id", r.PathValue("id")).Err(err).Msg("Run failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"response": result})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	sess.mu.Lock()
	sess.agent.Reset()
	sess.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.sessions.Delete(id); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.opts.Logger.Info().Str("session_id", id).Msg("Session deleted")
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": strings.TrimSpace(msg)})
}
