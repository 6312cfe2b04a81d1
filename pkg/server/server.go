// Package server exposes the document store over HTTP: config load and save,
// live page rendering and the API description.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gorilla/mux"

	"github.com/goliatone/go-sections/pkg/client"
	"github.com/goliatone/go-sections/pkg/render"
	"github.com/goliatone/go-sections/pkg/section"
	"github.com/goliatone/go-sections/pkg/session"
	"github.com/goliatone/go-sections/pkg/store"
)

// DefaultMaxBodyBytes caps PUT /config request bodies.
const DefaultMaxBodyBytes int64 = 4 << 20

// SaveHook observes documents after they were stored.
type SaveHook func(siteID string, variant client.Variant, cfg section.SiteConfig)

// Option configures a Server.
type Option func(*Server)

// WithRenderer sets the dispatcher used by GET /sites/{siteId}.
func WithRenderer(d *render.Dispatcher) Option {
	return func(s *Server) {
		if d != nil {
			s.renderer = d
		}
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMaxBodyBytes overrides DefaultMaxBodyBytes.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// WithSaveHook registers a callback invoked after every successful PUT.
func WithSaveHook(hook SaveHook) Option {
	return func(s *Server) {
		if hook != nil {
			s.hooks = append(s.hooks, hook)
		}
	}
}

// WithCanonical binds the live document of one site to c. Successful PUTs
// of that site and variant replace it, and GET /sites/{siteId} renders from
// it once it holds a document. Other sites render from the store.
func WithCanonical(siteID string, variant client.Variant, c *session.Canonical) Option {
	return func(s *Server) {
		if c != nil {
			s.live = &liveDocument{siteID: siteID, variant: variant, canonical: c}
		}
	}
}

type liveDocument struct {
	siteID    string
	variant   client.Variant
	canonical *session.Canonical
}

// WithRequestValidation toggles validation of incoming requests against the
// API description. Enabled by default.
func WithRequestValidation(enabled bool) Option {
	return func(s *Server) {
		s.validate = enabled
	}
}

// Server serves the persistence API.
type Server struct {
	store    store.Store
	renderer *render.Dispatcher
	logger   *slog.Logger
	maxBody  int64
	hooks    []SaveHook
	validate bool
	live     *liveDocument

	doc     *openapi3.T
	docJSON []byte
	router  *mux.Router
}

// New builds a Server over st. The API description is loaded and validated
// eagerly so a broken build fails at startup.
func New(ctx context.Context, st store.Store, options ...Option) (*Server, error) {
	if st == nil {
		return nil, errors.New("server: store is required")
	}
	s := &Server{
		store:    st,
		logger:   slog.Default(),
		maxBody:  DefaultMaxBodyBytes,
		validate: true,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.renderer == nil {
		d, err := render.New(render.WithLogger(s.logger))
		if err != nil {
			return nil, fmt.Errorf("server: renderer: %w", err)
		}
		s.renderer = d
	}

	doc, err := LoadOpenAPI(ctx)
	if err != nil {
		return nil, err
	}
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("server: encode openapi: %w", err)
	}
	s.doc = doc
	s.docJSON = docJSON

	if err := s.routes(); err != nil {
		return nil, err
	}
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// OpenAPI returns the parsed API description.
func (s *Server) OpenAPI() *openapi3.T {
	return s.doc
}

func (s *Server) routes() error {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	})

	router.Use(s.limitBody)
	if s.validate {
		validator, err := newRequestValidator(s.doc)
		if err != nil {
			return err
		}
		router.Use(validator.middleware)
	}

	router.HandleFunc("/config/{siteId}", s.getConfig).Methods(http.MethodGet)
	router.HandleFunc("/config/{siteId}", s.putConfig).Methods(http.MethodPut)
	router.HandleFunc("/sites/{siteId}", s.renderSite).Methods(http.MethodGet)
	router.HandleFunc("/openapi.json", s.openAPI).Methods(http.MethodGet)
	s.router = router
	return nil
}

func (s *Server) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
		}
		next.ServeHTTP(w, r)
	})
}

// target extracts and checks the site id and variant of a config request.
func target(r *http.Request) (string, client.Variant, error) {
	siteID := mux.Vars(r)["siteId"]
	if !store.ValidSiteID(siteID) {
		return "", "", fmt.Errorf("invalid site id %q", siteID)
	}
	variant, err := client.ParseVariant(r.URL.Query().Get("variant"))
	if err != nil {
		return "", "", err
	}
	return siteID, variant, nil
}

func (s *Server) getConfig(w http.ResponseWriter, r *http.Request) {
	siteID, variant, err := target(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	cfg, err := s.store.Get(r.Context(), siteID, string(variant))
	if err != nil {
		s.storeError(w, err, "get config", siteID, variant)
		return
	}
	s.writeJSON(w, cfg)
}

func (s *Server) putConfig(w http.ResponseWriter, r *http.Request) {
	siteID, variant, err := target(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "document too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "read body: "+err.Error(), http.StatusBadRequest)
		return
	}
	cfg, err := section.Decode(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := section.Validate(section.Normalize(cfg)); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	stored, err := s.store.Put(r.Context(), siteID, string(variant), cfg)
	if err != nil {
		s.storeError(w, err, "put config", siteID, variant)
		return
	}
	s.logger.Info("document saved", "site", siteID, "variant", variant, "sections", len(stored.Sections))
	if s.live != nil && s.live.siteID == siteID && s.live.variant == variant {
		version := s.live.canonical.Replace(stored)
		s.logger.Debug("canonical document replaced", "site", siteID, "version", version)
	}
	for _, hook := range s.hooks {
		hook(siteID, variant, stored.Clone())
	}
	s.writeJSON(w, stored)
}

func (s *Server) renderSite(w http.ResponseWriter, r *http.Request) {
	siteID := mux.Vars(r)["siteId"]
	if !store.ValidSiteID(siteID) {
		http.Error(w, fmt.Sprintf("invalid site id %q", siteID), http.StatusBadRequest)
		return
	}
	cfg, err := s.pageDocument(r.Context(), siteID)
	if err != nil {
		s.storeError(w, err, "render site", siteID, client.VariantPublished)
		return
	}
	page, err := s.renderer.RenderPage(r.Context(), cfg)
	if err != nil {
		s.logger.Error("render failed", "site", siteID, "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

// pageDocument returns the canonical document for the live site, otherwise
// the published document with the draft as fallback.
func (s *Server) pageDocument(ctx context.Context, siteID string) (section.SiteConfig, error) {
	if s.live != nil && s.live.siteID == siteID {
		if cfg, version := s.live.canonical.Get(); version > 0 {
			return cfg, nil
		}
	}
	cfg, err := s.store.Get(ctx, siteID, string(client.VariantPublished))
	if errors.Is(err, store.ErrNotFound) {
		cfg, err = s.store.Get(ctx, siteID, string(client.VariantDraft))
	}
	return cfg, err
}

func (s *Server) openAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(s.docJSON)
}

func (s *Server) storeError(w http.ResponseWriter, err error, op, siteID string, variant client.Variant) {
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, fmt.Sprintf("no %s document for site %q", variant, siteID), http.StatusNotFound)
		return
	}
	s.logger.Error(op+" failed", "site", siteID, "variant", variant, "error", err)
	http.Error(w, "storage error", http.StatusInternalServerError)
}

func (s *Server) writeJSON(w http.ResponseWriter, cfg section.SiteConfig) {
	data, err := json.Marshal(cfg)
	if err != nil {
		s.logger.Error("encode document", "error", err)
		http.Error(w, "encode document", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}
