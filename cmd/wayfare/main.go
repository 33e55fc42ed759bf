// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/olegiv/wayfare-go/internal/cache"
	"github.com/olegiv/wayfare-go/internal/cms"
	"github.com/olegiv/wayfare-go/internal/config"
	"github.com/olegiv/wayfare-go/internal/handler"
	"github.com/olegiv/wayfare-go/internal/render"
	"github.com/olegiv/wayfare-go/internal/site"
	"github.com/olegiv/wayfare-go/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		_, _ = fmt.Printf("wayfare %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if cfg.CMSURL == "" || cfg.WebsiteAPIName == "" {
		slog.Warn("CMS not configured, the site will serve its fallback pages",
			"cms_url_set", cfg.CMSURL != "",
			"website_api_name_set", cfg.WebsiteAPIName != "")
	}

	// CMS client and page loader
	client := cms.New(cfg, logger)
	loader := site.New(client, logger)

	// Output cache for generated robots.txt and sitemaps
	backend, err := cache.New(cache.Config{
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      time.Duration(cfg.CacheTTL) * time.Second,
		CleanupInterval: time.Minute,
	})
	if err != nil {
		slog.Warn("redis cache unavailable, falling back to memory", "error", err)
		backend = cache.NewSimpleMemoryCache(time.Duration(cfg.CacheTTL) * time.Second)
	}
	defer func() { _ = backend.Close() }()
	output := cache.NewOutputCache(backend, time.Duration(cfg.CacheTTL)*time.Second)
	if cfg.UseRedisCache() {
		slog.Info("output cache initialized", "backend", "redis", "ttl_seconds", cfg.CacheTTL)
	} else {
		slog.Info("output cache initialized", "backend", "memory", "ttl_seconds", cfg.CacheTTL)
	}

	// Template renderer over the embedded templates
	templates, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS: templates,
		MediaURL:    client.ResolveMediaURL,
		IsDev:       cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}
	slog.Info("template renderer initialized")

	frontend := handler.NewFrontendHandler(loader, renderer, logger)
	seoHandler := handler.NewSEOHandler(loader, output, cfg.SiteURL, cfg.Env == "staging", logger)
	debug := handler.NewDebugHandler(client, renderer, cfg.IsDevelopment(), logger)

	// Router and middleware stack
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)

	// Embedded static assets
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("static fs: %w", err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	r.Get("/", frontend.Root)
	r.Get("/robots.txt", seoHandler.Robots)
	r.Get("/sitemap-index.xml", seoHandler.SitemapIndex)
	r.Get("/sitemap-{locale:[a-z]{2}}.xml", seoHandler.SitemapLocale)
	r.Get("/debug/requests", debug.Requests)
	r.Get("/debug/requests.json", debug.RequestsJSON)
	r.Route("/{lang:[a-z]{2}}", func(r chi.Router) {
		r.Get("/", frontend.Home)
		r.Get("/{segment}/{slug}", frontend.Page)
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// newLogger builds the application logger: text output in development,
// JSON in other environments, level from configuration.
func newLogger(cfg *config.Config) *slog.Logger {
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	if cfg.IsDevelopment() {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
