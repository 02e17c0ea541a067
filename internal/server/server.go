// Package server exposes the form builder over HTTP: a JSON API for the
// builder surface and public share routes for visitors.
package server

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-formbuilder/internal/storage"
	openapiexport "github.com/goliatone/go-formbuilder/pkg/export/openapi"
	"github.com/goliatone/go-formbuilder/pkg/field"
	"github.com/goliatone/go-formbuilder/pkg/render"
)

// Server wires storage, the field registry, and renderers into an HTTP
// handler tree.
type Server struct {
	store     storage.Store
	fields    *field.Registry
	renderers *render.Registry
	exporter  *openapiexport.Exporter
	// renderer used for the public share routes
	publicRenderer string
	basePath       string
	theme          *render.ThemeConfig
}

// Option configures the server.
type Option func(*Server)

// WithBasePath sets the public share route prefix, default "/f".
func WithBasePath(basePath string) Option {
	return func(s *Server) {
		if basePath != "" {
			s.basePath = basePath
		}
	}
}

// WithPublicRenderer selects which registered renderer serves share routes.
func WithPublicRenderer(name string) Option {
	return func(s *Server) {
		if name != "" {
			s.publicRenderer = name
		}
	}
}

// WithTheme applies a resolved theme to every public form render; nil renders
// unthemed.
func WithTheme(theme *render.ThemeConfig) Option {
	return func(s *Server) {
		s.theme = theme
	}
}

// New constructs a Server. The renderer registry must contain the renderer
// named by WithPublicRenderer ("html" by default).
func New(store storage.Store, fields *field.Registry, renderers *render.Registry, exporter *openapiexport.Exporter, options ...Option) *Server {
	s := &Server{
		store:          store,
		fields:         fields,
		renderers:      renderers,
		exporter:       exporter,
		publicRenderer: "html",
		basePath:       "/f",
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// Router builds the route tree.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api/forms", func(r chi.Router) {
		r.Post("/", s.handleCreateForm)
		r.Get("/", s.handleListForms)
		r.Route("/{formID}", func(r chi.Router) {
			r.Get("/", s.handleGetForm)
			r.Put("/content", s.handleUpdateContent)
			r.Post("/publish", s.handlePublish)
			r.Put("/published-content", s.handleReplacePublishedContent)
			r.Get("/stats", s.handleStats)
			r.Get("/submissions", s.handleListSubmissions)
			r.Get("/openapi.json", s.handleExportOpenAPI)
		})
	})

	r.Route(s.basePath+"/{shareID}", func(r chi.Router) {
		r.Get("/", s.handleServeForm)
		r.Post("/submit", s.handleSubmit)
	})

	return r
}
