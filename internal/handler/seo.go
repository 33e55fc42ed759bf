// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/wayfare-go/internal/cache"
	"github.com/olegiv/wayfare-go/internal/i18n"
	"github.com/olegiv/wayfare-go/internal/seo"
	"github.com/olegiv/wayfare-go/internal/site"
	"github.com/olegiv/wayfare-go/internal/util"
)

// SEOHandler serves robots.txt and the per-locale sitemaps, backed by
// the output cache so the CMS is not hit on every crawler request.
type SEOHandler struct {
	loader      *site.Loader
	output      *cache.OutputCache
	siteURL     string
	disallowAll bool
	logger      *slog.Logger
}

// NewSEOHandler creates an SEO handler.
func NewSEOHandler(loader *site.Loader, output *cache.OutputCache, siteURL string, disallowAll bool, logger *slog.Logger) *SEOHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SEOHandler{
		loader:      loader,
		output:      output,
		siteURL:     siteURL,
		disallowAll: disallowAll,
		logger:      logger,
	}
}

// resolveBaseURL picks the absolute base for robots and sitemap URLs.
// Priority: the CMS-declared website base URL, then the configured site
// URL, then the requesting host. The result never has a trailing slash
// and is never empty.
func (h *SEOHandler) resolveBaseURL(r *http.Request) string {
	if base := h.loader.SiteBaseURL(r.Context()); base != "" {
		return strings.TrimSuffix(base, "/")
	}
	if h.siteURL != "" {
		return strings.TrimSuffix(h.siteURL, "/")
	}

	scheme := "http"
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	} else if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// Robots handles GET /robots.txt.
func (h *SEOHandler) Robots(w http.ResponseWriter, r *http.Request) {
	base := h.resolveBaseURL(r)

	body, err := h.output.GetOrBuild(r.Context(), cache.RobotsKey(base), func(context.Context) ([]byte, error) {
		return []byte(seo.GenerateRobots(base, h.disallowAll)), nil
	})
	if err != nil {
		h.logger.Error("building robots.txt", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(body)
}

// SitemapIndex handles GET /sitemap-index.xml.
func (h *SEOHandler) SitemapIndex(w http.ResponseWriter, r *http.Request) {
	base := h.resolveBaseURL(r)

	body, err := h.output.GetOrBuild(r.Context(), cache.SitemapIndexKey(base), func(ctx context.Context) ([]byte, error) {
		return seo.BuildSitemapIndex(base, h.loader.StaticLocales(ctx))
	})
	if err != nil {
		h.logger.Error("building sitemap index", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(body)
}

// SitemapLocale handles GET /sitemap-{locale}.xml. Locales outside the
// supported set are not found.
func (h *SEOHandler) SitemapLocale(w http.ResponseWriter, r *http.Request) {
	locale := chi.URLParam(r, "locale")
	if !util.IsValidLangCode(locale) {
		http.NotFound(w, r)
		return
	}

	if !i18n.IsValidLanguage(locale, h.loader.StaticLocales(r.Context())) {
		http.NotFound(w, r)
		return
	}

	base := h.resolveBaseURL(r)

	body, err := h.output.GetOrBuild(r.Context(), cache.SitemapKey(locale, base), func(ctx context.Context) ([]byte, error) {
		return h.buildLocaleSitemap(ctx, locale, base)
	})
	if err != nil {
		h.logger.Error("building sitemap", "locale", locale, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(body)
}

func (h *SEOHandler) buildLocaleSitemap(ctx context.Context, locale, base string) ([]byte, error) {
	articles, tags := h.loader.LoadSitemapContent(ctx, locale)

	builder := seo.NewLocaleSitemapBuilder(
		base,
		locale,
		i18n.LocalizedSegment(locale, "articles"),
		i18n.LocalizedSegment(locale, "tag"),
	)
	builder.AddHomepage()
	builder.AddArticlesIndex()
	for _, article := range articles {
		builder.AddArticle(seo.SitemapArticle{
			Slug:    article.Slug,
			LastMod: article.LastModified(),
		})
	}
	for _, tag := range tags {
		builder.AddTag(seo.SitemapTag{Slug: tag.Slug})
	}

	return builder.Build()
}
