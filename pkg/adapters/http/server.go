// Package http hosts conversation sessions over a JSON API. Each session
// owns one engine; interactive messages surface as a pending prompt the
// client answers with a follow-up request.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/patterflow/patter"
	"github.com/patterflow/patter/internal/logging"
	"github.com/patterflow/patter/pkg/domain"
)

// SessionFactory builds a fresh engine for each session. Hosts decide the
// store, library and options; instant delivery is the sensible default for a
// request/response transport.
type SessionFactory func(ctx context.Context) (*patter.Engine, error)

// Server manages live sessions keyed by id.
type Server struct {
	factory SessionFactory
	logger  *slog.Logger

	mu       sync.Mutex
	sessions map[string]*patter.Engine
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewServer creates a session server over the given factory.
func NewServer(factory SessionFactory, opts ...Option) *Server {
	s := &Server{
		factory:  factory,
		logger:   logging.NewNop(),
		sessions: make(map[string]*patter.Engine),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.createSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Get("/log", s.getLog)
			r.Get("/pending", s.getPending)
			r.Post("/choice", s.postChoice)
			r.Post("/text", s.postText)
			r.Delete("/", s.deleteSession)
		})
	})
	return r
}

type createRequest struct {
	SequenceID string `json:"sequenceId"`
}

type choiceRequest struct {
	Index int `json:"index"`
}

type textRequest struct {
	Text string `json:"text"`
}

type sessionResponse struct {
	ID               string           `json:"id"`
	State            string           `json:"state"`
	ActiveSequenceID string           `json:"activeSequenceId,omitempty"`
	Log              []domain.Message `json:"log"`
	Pending          *domain.Message  `json:"pending,omitempty"`
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var body createRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.SequenceID == "" {
		writeError(w, http.StatusBadRequest, "sequenceId is required")
		return
	}

	engine, err := s.factory(r.Context())
	if err != nil {
		s.logger.Error("failed to build session engine", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	if err := engine.StartSession(r.Context(), body.SequenceID); err != nil {
		engine.Dispose()
		if errors.Is(err, domain.ErrSequenceNotFound) {
			writeError(w, http.StatusNotFound, "unknown sequence: "+body.SequenceID)
			return
		}
		s.logger.Error("failed to start session", "sequence_id", body.SequenceID, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to start session")
		return
	}
	engine.Settle()

	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = engine
	s.mu.Unlock()

	s.logger.Info("session created", "session_id", id, "sequence_id", body.SequenceID)
	writeJSON(w, http.StatusCreated, s.snapshot(id, engine))
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	id, engine, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.snapshot(id, engine))
}

func (s *Server) getLog(w http.ResponseWriter, r *http.Request) {
	_, engine, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, engine.Log())
}

func (s *Server) getPending(w http.ResponseWriter, r *http.Request) {
	_, engine, ok := s.lookup(w, r)
	if !ok {
		return
	}
	pending, has := engine.Pending()
	if !has {
		writeError(w, http.StatusNotFound, "no pending interaction")
		return
	}
	writeJSON(w, http.StatusOK, pending)
}

func (s *Server) postChoice(w http.ResponseWriter, r *http.Request) {
	id, engine, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var body choiceRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := engine.ResolveChoice(r.Context(), body.Index); err != nil {
		writeResolveError(w, err)
		return
	}
	engine.Settle()
	writeJSON(w, http.StatusOK, s.snapshot(id, engine))
}

func (s *Server) postText(w http.ResponseWriter, r *http.Request) {
	id, engine, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var body textRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := engine.ResolveText(r.Context(), body.Text); err != nil {
		writeResolveError(w, err)
		return
	}
	engine.Settle()
	writeJSON(w, http.StatusOK, s.snapshot(id, engine))
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	engine, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}
	engine.Dispose()
	s.logger.Info("session disposed", "session_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// Close disposes every live session. Used on shutdown.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, engine := range s.sessions {
		engine.Dispose()
		delete(s.sessions, id)
	}
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (string, *patter.Engine, bool) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	engine, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "unknown session")
		return "", nil, false
	}
	return id, engine, true
}

func (s *Server) snapshot(id string, engine *patter.Engine) sessionResponse {
	resp := sessionResponse{
		ID:               id,
		State:            engine.State(),
		ActiveSequenceID: engine.ActiveSequenceID(),
		Log:              engine.Log(),
	}
	if pending, ok := engine.Pending(); ok {
		resp.Pending = pending
	}
	return resp
}

func writeResolveError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNoPendingInteraction):
		writeError(w, http.StatusConflict, "no pending interaction")
	case errors.Is(err, domain.ErrChoiceOutOfRange):
		writeError(w, http.StatusUnprocessableEntity, "choice index out of range")
	case errors.Is(err, domain.ErrQueueDisposed):
		writeError(w, http.StatusGone, "session is disposed")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
