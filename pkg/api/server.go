package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/devconsole/liststate/internal/errors"
	"github.com/devconsole/liststate/pkg/liststate"
	"github.com/devconsole/liststate/pkg/listsync"
	"github.com/devconsole/liststate/pkg/middleware"
	"github.com/devconsole/liststate/pkg/navsocket"
	"github.com/devconsole/liststate/pkg/router"
)

// LocationParam is the query parameter carrying the location to inspect.
const LocationParam = "location"

// maxBodySize limits POST payloads.
const maxBodySize = 1 << 20

// Server is the inspector HTTP server.
type Server struct {
	defaults  liststate.Defaults
	logger    *slog.Logger
	upgrader  *navsocket.Upgrader
	cacheSize int
	metrics   *middleware.Metrics
	gatherer  prometheus.Gatherer
	tracing   *middleware.Tracing
}

// Option configures a Server.
type Option func(*Server)

// WithDefaults sets the per-resource defaults.
func WithDefaults(d liststate.Defaults) Option {
	return func(s *Server) {
		s.defaults = d
	}
}

// WithLogger sets the logger. If nil, slog.Default() is used.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithUpgrader sets the websocket upgrader.
func WithUpgrader(u *navsocket.Upgrader) Option {
	return func(s *Server) {
		s.upgrader = u
	}
}

// WithCacheSize sets the read cache size of websocket facades.
func WithCacheSize(n int) Option {
	return func(s *Server) {
		s.cacheSize = n
	}
}

// WithMetrics records facade and HTTP metrics with m and serves g on
// /metrics.
func WithMetrics(m *middleware.Metrics, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = g
	}
}

// WithTracing traces writes and HTTP requests with t.
func WithTracing(t *middleware.Tracing) Option {
	return func(s *Server) {
		s.tracing = t
	}
}

// New creates a Server.
func New(opts ...Option) *Server {
	s := &Server{}
	for _, opt := range opts {
		opt(s)
	}
	if s.defaults == nil {
		s.defaults = liststate.BuiltinDefaults()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.upgrader == nil {
		s.upgrader = navsocket.NewUpgrader(navsocket.DefaultConfig())
	}
	return s
}

// Handler returns the HTTP handler with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	if s.metrics != nil {
		r.Use(s.metrics.Handler)
	}
	if s.tracing != nil {
		r.Use(s.tracing.Handler)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, "ok")
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/liststate/{resource}", s.handleRead)
	r.Post("/liststate/{resource}", s.handleWrite)
	r.Get("/ws", s.handleSocket)

	return r
}

// facadeOptions are the options shared by every facade the server builds.
func (s *Server) facadeOptions() []listsync.Option {
	opts := []listsync.Option{
		listsync.WithDefaults(s.defaults),
		listsync.WithLogger(s.logger),
	}
	if s.cacheSize > 0 {
		opts = append(opts, listsync.WithCacheSize(s.cacheSize))
	}
	if s.metrics != nil {
		opts = append(opts, listsync.WithObserver(s.metrics))
	}
	if s.tracing != nil {
		opts = append(opts, listsync.WithObserver(s.tracing))
	}
	return opts
}

// StateResponse is the body of inspector responses.
type StateResponse struct {
	Resource liststate.Kind      `json:"resource"`
	Location string              `json:"location"`
	State    liststate.ListState `json:"state"`
}

// ErrorResponse is the body of failed requests.
type ErrorResponse struct {
	Code       string `json:"code,omitempty"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// resource resolves the {resource} URL parameter.
func resource(r *http.Request) (liststate.Kind, error) {
	return liststate.ParseKind(chi.URLParam(r, "resource"))
}

// location resolves ?location=, defaulting to the resource's base path.
func (s *Server) location(r *http.Request, k liststate.Kind) (string, error) {
	raw := r.URL.Query().Get(LocationParam)
	if raw == "" {
		return s.defaults.Extras(k, router.Location{}).BasePath, nil
	}
	loc, err := router.ParseLocation(raw)
	if err != nil {
		return "", errors.New("E021").WithDetail(raw).Wrap(err)
	}
	return loc.String(), nil
}

// handleRead parses a location into a list state and reports its
// canonical location.
func (s *Server) handleRead(w http.ResponseWriter, r *http.Request) {
	k, err := resource(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	current, err := s.location(r, k)
	if err != nil {
		s.writeError(w, err)
		return
	}

	f := listsync.New(router.NewMemoryHistory(current), s.facadeOptions()...)
	state, err := f.Read(k)
	if err != nil {
		s.writeError(w, err)
		return
	}
	target, err := f.Target(k, state, liststate.Extras{})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, StateResponse{Resource: k, Location: target, State: state})
}

// handleWrite decodes a list state and writes it against ?location=.
func (s *Server) handleWrite(w http.ResponseWriter, r *http.Request) {
	k, err := resource(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	current, err := s.location(r, k)
	if err != nil {
		s.writeError(w, err)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		s.writeError(w, errors.New("E020").Wrap(err))
		return
	}

	nav := router.NewMemoryHistory(current)
	extras := s.defaults.Extras(k, nav.Location())
	state, err := liststate.DecodeState(k, body, extras)
	if err != nil {
		s.writeError(w, err)
		return
	}

	f := listsync.New(nav, s.facadeOptions()...)
	if err := f.Write(k, state); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, StateResponse{
		Resource: k,
		Location: nav.Location().String(),
		State:    state,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("api: encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	resp := ErrorResponse{Message: err.Error()}
	status := http.StatusInternalServerError

	e := errors.FromError(err, "")
	if e.Code != "" {
		resp = ErrorResponse{
			Code:       e.Code,
			Message:    e.Message,
			Detail:     e.Detail,
			Suggestion: e.Suggestion,
		}
		switch e.Category {
		case errors.CategoryResource:
			status = http.StatusNotFound
		case errors.CategoryPayload:
			status = http.StatusBadRequest
		}
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("api: request failed", "error", err)
	}
	s.writeJSON(w, status, resp)
}
