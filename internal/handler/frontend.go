// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides HTTP handlers for the public site.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/wayfare-go/internal/i18n"
	"github.com/olegiv/wayfare-go/internal/render"
	"github.com/olegiv/wayfare-go/internal/site"
	"github.com/olegiv/wayfare-go/internal/util"
)

// FrontendHandler serves the localized public pages.
type FrontendHandler struct {
	loader   *site.Loader
	renderer *render.Renderer
	logger   *slog.Logger
}

// NewFrontendHandler creates a frontend handler.
func NewFrontendHandler(loader *site.Loader, renderer *render.Renderer, logger *slog.Logger) *FrontendHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &FrontendHandler{loader: loader, renderer: renderer, logger: logger}
}

// Root handles GET / by redirecting to the default language homepage.
// When the CMS is unreachable the fallback page renders in place.
func (h *FrontendHandler) Root(w http.ResponseWriter, r *http.Request) {
	data := h.loader.LoadHomepage(r.Context(), "")

	if data.Redirect != "" {
		http.Redirect(w, r, data.Redirect, http.StatusFound)
		return
	}

	h.renderHomepage(w, data)
}

// Home handles GET /{lang}.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	lang := chi.URLParam(r, "lang")
	if !util.IsValidLangCode(lang) {
		http.NotFound(w, r)
		return
	}

	data := h.loader.LoadHomepage(r.Context(), lang)

	if data.Redirect != "" {
		http.Redirect(w, r, data.Redirect, http.StatusFound)
		return
	}

	h.renderHomepage(w, data)
}

// Page handles GET /{lang}/{segment}/{slug}. The localized segment is
// reverse-mapped to its abstract key; only the articles section resolves
// to a page, everything else is not found.
func (h *FrontendHandler) Page(w http.ResponseWriter, r *http.Request) {
	lang := chi.URLParam(r, "lang")
	segment := chi.URLParam(r, "segment")
	slug := chi.URLParam(r, "slug")

	if !util.IsValidLangCode(lang) || !util.IsValidSlug(slug) {
		http.NotFound(w, r)
		return
	}

	if i18n.SegmentKey(lang, segment) != "articles" {
		http.NotFound(w, r)
		return
	}

	data := h.loader.LoadArticle(r.Context(), lang, slug)

	title := "Article not found"
	status := http.StatusNotFound
	if data.Article != nil {
		status = http.StatusOK
		title = data.Article.Title
		if data.Article.SEO != nil && data.Article.SEO.MetaTitle != "" {
			title = data.Article.SEO.MetaTitle
		}
	}

	if status != http.StatusOK {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
	}
	if err := h.renderer.Render(w, "article", render.TemplateData{
		Title: title,
		Lang:  lang,
		Data:  data,
	}); err != nil {
		h.logger.Error("rendering article page", "slug", slug, "error", err)
	}
}

func (h *FrontendHandler) renderHomepage(w http.ResponseWriter, data site.HomepageData) {
	title := siteTitle(data)

	if err := h.renderer.Render(w, "home", render.TemplateData{
		Title: title,
		Lang:  data.ActiveLocale,
		Data:  data,
	}); err != nil {
		h.logger.Error("rendering homepage", "locale", data.ActiveLocale, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func siteTitle(data site.HomepageData) string {
	if data.Website == nil {
		return "Unable to load website data"
	}
	if data.Website.SEODefaults != nil && data.Website.SEODefaults.MetaTitle != "" {
		return data.Website.SEODefaults.MetaTitle
	}
	return data.Website.Name
}
