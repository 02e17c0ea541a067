package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"

	"github.com/goliatone/go-formbuilder/internal/config"
	"github.com/goliatone/go-formbuilder/internal/server"
	"github.com/goliatone/go-formbuilder/internal/storage"
	openapiexport "github.com/goliatone/go-formbuilder/pkg/export/openapi"
	"github.com/goliatone/go-formbuilder/pkg/field"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/html"
)

func main() {
	configPath := flag.String("config", "config.yml", "configuration file path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	fields := field.NewRegistry()

	// served at {basePath}/{shareId}/, so a relative action resolves to the
	// sibling submit route
	htmlOptions := []html.Option{
		html.WithAction("submit"),
	}
	if cfg.Render.TemplatesDir != "" {
		htmlOptions = append(htmlOptions, html.WithTemplatesDir(cfg.Render.TemplatesDir))
	}
	htmlRenderer, err := html.New(fields, htmlOptions...)
	if err != nil {
		log.Fatalf("Failed to build renderer: %v", err)
	}

	renderers := render.NewRegistry()
	renderers.MustRegister(htmlRenderer)

	exporter, err := openapiexport.New(fields, openapiexport.WithBasePath(cfg.Server.BasePath))
	if err != nil {
		log.Fatalf("Failed to build exporter: %v", err)
	}

	themeConfig, err := resolveTheme(cfg.Render.Theme, cfg.Render.ThemeVariant)
	if err != nil {
		log.Fatalf("Failed to resolve theme: %v", err)
	}

	srv := server.New(store, fields, renderers, exporter,
		server.WithBasePath(cfg.Server.BasePath),
		server.WithTheme(themeConfig),
	)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Listening on %s", addr)
	if err := http.ListenAndServe(addr, srv.Router()); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

func openStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Database.Type {
	case "memory":
		return storage.NewMemoryStore(), nil
	case "sqlite", "":
		return storage.NewSQLiteStore(cfg.Database.Path)
	default:
		return nil, fmt.Errorf("unknown database type %q", cfg.Database.Type)
	}
}
