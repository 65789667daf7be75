// Package http exposes the computation cores and the parameter store
// over a JSON REST surface.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/towerlab/platekit/internal/config"
	"github.com/towerlab/platekit/internal/logging"
	"github.com/towerlab/platekit/internal/systems"
	"github.com/towerlab/platekit/pkg/domain"
	"github.com/towerlab/platekit/pkg/hydraulics"
	"github.com/towerlab/platekit/pkg/mccabe"
	"github.com/towerlab/platekit/pkg/ports"
	"github.com/towerlab/platekit/pkg/tower"
	"github.com/towerlab/platekit/pkg/tray"
	"github.com/towerlab/platekit/pkg/vle"
)

// DefaultSystem is the equilibrium data set used when a stages request
// names neither a system nor explicit points.
const DefaultSystem = "ethanol-water"

// Server wires the compute handlers to their dependencies.
type Server struct {
	catalog *systems.Catalog
	store   ports.ParamStore
	log     *slog.Logger
	metrics *Metrics
}

// Option configures the server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		s.log = log
	}
}

// WithMetrics installs a shared metrics registry.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// NewHandler builds the HTTP handler.
func NewHandler(catalog *systems.Catalog, store ports.ParamStore, opts ...Option) http.Handler {
	s := &Server{
		catalog: catalog,
		store:   store,
		log:     logging.NewNop(),
		metrics: NewMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(s.metrics.Middleware)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/stages", s.handleStages)
		r.Post("/envelope", s.handleEnvelope)
		r.Post("/holes", s.handleHoles)
		r.Post("/schematic", s.handleSchematic)

		r.Get("/params", s.handleParamsList)
		r.Get("/params/{app}", s.handleParamsGet)
		r.Put("/params/{app}", s.handleParamsPut)
		r.Delete("/params/{app}", s.handleParamsDelete)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// StagesRequest is the body of POST /v1/stages. Explicit points win over
// the named system; with neither the default system is used.
type StagesRequest struct {
	System     string               `json:"system,omitempty"`
	Points     []domain.Point       `json:"points,omitempty"`
	Rectifying domain.OperatingLine `json:"rectifying"`
	Stripping  domain.OperatingLine `json:"stripping"`
	Targets    domain.Targets       `json:"targets"`
	MaxStages  int                  `json:"max_stages,omitempty"`
}

func (s *Server) handleStages(w http.ResponseWriter, r *http.Request) {
	var req StagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	points := req.Points
	if len(points) == 0 {
		name := req.System
		if name == "" {
			name = DefaultSystem
		}
		var err error
		points, err = s.catalog.Get(name)
		if err != nil {
			s.writeError(w, http.StatusNotFound, err)
			return
		}
	}

	curve, err := vle.New(points)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	var opts []mccabe.Option
	if req.MaxStages > 0 {
		opts = append(opts, mccabe.WithMaxStages(req.MaxStages))
	}
	result, err := mccabe.Count(mccabe.Input{
		Curve:      curve,
		Rectifying: req.Rectifying,
		Stripping:  req.Stripping,
		Targets:    req.Targets,
	}, opts...)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

// EnvelopeRequest is the body of POST /v1/envelope; the document shape
// matches the stored envelope parameters. Samples > 0 adds rendered
// boundary curves to the response.
type EnvelopeRequest struct {
	config.EnvelopeConfig
	Samples int `json:"samples,omitempty"`
}

// EnvelopeResponse carries the solved envelope and, on request, the
// sampled boundary profile.
type EnvelopeResponse struct {
	Envelope *hydraulics.Envelope `json:"envelope"`
	Profile  *hydraulics.Profile  `json:"profile,omitempty"`
}

func (s *Server) handleEnvelope(w http.ResponseWriter, r *http.Request) {
	req := EnvelopeRequest{EnvelopeConfig: config.DefaultEnvelope()}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	problem := req.Problem()
	env, err := problem.Solve()
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	resp := EnvelopeResponse{Envelope: env}
	if req.Samples > 0 {
		profile := problem.Sample(req.Samples)
		resp.Profile = &profile
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// HolesRequest is the body of POST /v1/holes, again in the stored
// document shape.
type HolesRequest struct {
	config.HolesConfig
}

// HolesResponse carries either the exact valve layout or the sieve
// estimate with its detail inset.
type HolesResponse struct {
	Type   config.TrayKind `json:"type"`
	Count  int             `json:"count"`
	Layout *tray.Layout    `json:"layout,omitempty"`
	Inset  *tray.Inset     `json:"inset,omitempty"`
}

func (s *Server) handleHoles(w http.ResponseWriter, r *http.Request) {
	req := HolesRequest{HolesConfig: config.DefaultHoles()}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	design := req.Active()
	resp := HolesResponse{Type: req.CurrentType}

	if req.CurrentType == config.TraySieve {
		count, err := design.SieveCount()
		if err != nil {
			s.writeError(w, statusFor(err), err)
			return
		}
		inset, err := design.MagnifierInset()
		if err != nil {
			s.writeError(w, statusFor(err), err)
			return
		}
		resp.Count = count
		resp.Inset = inset
	} else {
		layout, err := design.ValveLayout()
		if err != nil {
			s.writeError(w, statusFor(err), err)
			return
		}
		resp.Count = layout.Count()
		resp.Layout = layout
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSchematic(w http.ResponseWriter, r *http.Request) {
	params := tower.DefaultParams()
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	schematic, err := params.Build()
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, schematic)
}

func (s *Server) handleParamsList(w http.ResponseWriter, r *http.Request) {
	saved, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"apps":  config.Apps,
		"saved": saved,
	})
}

func (s *Server) handleParamsGet(w http.ResponseWriter, r *http.Request) {
	app := chi.URLParam(r, "app")

	doc, err := s.store.Load(r.Context(), app)
	if errors.Is(err, domain.ErrParamsNotFound) {
		// Known apps answer with their defaults instead of a 404.
		doc, err = config.DefaultDoc(app)
		if err != nil {
			s.writeError(w, http.StatusNotFound, fmt.Errorf("no parameters for app %q", app))
			return
		}
	} else if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

func (s *Server) handleParamsPut(w http.ResponseWriter, r *http.Request) {
	app := chi.URLParam(r, "app")

	var doc json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if err := s.store.Save(r.Context(), app, doc); err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleParamsDelete(w http.ResponseWriter, r *http.Request) {
	app := chi.URLParam(r, "app")
	if err := s.store.Delete(r.Context(), app); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encoding response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "err", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// statusFor maps domain errors onto HTTP statuses.
func statusFor(err error) int {
	var vErr *domain.ValidationError
	var aErr *domain.AggregateError
	switch {
	case errors.As(err, &vErr), errors.As(err, &aErr),
		errors.Is(err, domain.ErrInsufficientData):
		return http.StatusBadRequest
	case errors.Is(err, systems.ErrSystemNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
