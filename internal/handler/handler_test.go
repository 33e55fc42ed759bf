// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/wayfare-go/internal/cache"
	"github.com/olegiv/wayfare-go/internal/cms"
	"github.com/olegiv/wayfare-go/internal/config"
	"github.com/olegiv/wayfare-go/internal/render"
	"github.com/olegiv/wayfare-go/internal/site"
	"github.com/olegiv/wayfare-go/web"
)

// newTestSite wires handlers against a fake CMS and returns the public
// router the way cmd/wayfare assembles it.
func newTestSite(t *testing.T, env string) http.Handler {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/websites", func(w http.ResponseWriter, r *http.Request) {
		locale := r.URL.Query().Get("locale")
		switch locale {
		case "", "en":
			writeJSON(w, `{"data": [{
				"id": 1, "documentId": "site-1", "apiName": "travel-guide", "name": "Wayfare",
				"locale": "en", "defaultLocale": "en",
				"localizations": [{"id": 2, "locale": "it"}]
			}]}`)
		case "it":
			writeJSON(w, `{"data": [{
				"id": 2, "documentId": "site-1", "apiName": "travel-guide", "name": "Wayfare",
				"locale": "it", "defaultLocale": "en",
				"localizations": [{"id": 1, "locale": "en"}]
			}]}`)
		default:
			writeJSON(w, `{"data": []}`)
		}
	})
	mux.HandleFunc("/api/articles", func(w http.ResponseWriter, r *http.Request) {
		slug := r.URL.Query().Get("filters[slug][$eq]")
		if slug != "" && slug != "lisbon-in-a-day" {
			writeJSON(w, `{"data": []}`)
			return
		}
		writeJSON(w, `{"data": [{
			"id": 10, "documentId": "a-1", "title": "Lisbon in a Day",
			"slug": "lisbon-in-a-day", "body": "A **day** in Lisbon.",
			"updatedAt": "2026-02-10T09:00:00Z"
		}]}`)
	})
	mux.HandleFunc("/api/tags", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"data": [{"id": 20, "documentId": "t-1", "name": "City Breaks", "slug": "city-breaks"}]}`)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		CMSURL:         server.URL,
		WebsiteAPIName: "travel-guide",
		SiteURL:        "https://wayfare.example.com",
		Env:            env,
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := cms.New(cfg, logger)
	loader := site.New(client, logger)

	templates, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS: templates,
		MediaURL:    client.ResolveMediaURL,
		IsDev:       cfg.IsDevelopment(),
	})
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}

	backend := cache.NewSimpleMemoryCache(time.Minute)
	t.Cleanup(func() { _ = backend.Close() })
	output := cache.NewOutputCache(backend, time.Minute)

	frontend := NewFrontendHandler(loader, renderer, logger)
	seoHandler := NewSEOHandler(loader, output, cfg.SiteURL, false, logger)
	debug := NewDebugHandler(client, renderer, cfg.IsDevelopment(), logger)

	r := chi.NewRouter()
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
	return r
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRootRedirectsToDefaultLanguage(t *testing.T) {
	h := newTestSite(t, "production")

	w := get(t, h, "/")

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/en" {
		t.Errorf("Location = %q, want /en", loc)
	}
}

func TestHomeRendersArticles(t *testing.T) {
	h := newTestSite(t, "production")

	w := get(t, h, "/en")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Lisbon in a Day") {
		t.Error("homepage missing article title")
	}
	if !strings.Contains(body, `href="/en/articles/lisbon-in-a-day"`) {
		t.Error("homepage missing article link")
	}
}

func TestHomeUnsupportedLocaleRedirects(t *testing.T) {
	h := newTestSite(t, "production")

	w := get(t, h, "/zz")

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/en" {
		t.Errorf("Location = %q, want /en", loc)
	}
}

func TestHomeInvalidLangPattern(t *testing.T) {
	h := newTestSite(t, "production")

	if w := get(t, h, "/english"); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestArticlePage(t *testing.T) {
	h := newTestSite(t, "production")

	w := get(t, h, "/en/articles/lisbon-in-a-day")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Lisbon in a Day") {
		t.Error("article page missing title")
	}
	if !strings.Contains(body, "<strong>day</strong>") {
		t.Error("article body markdown not rendered")
	}
}

func TestArticlePageLocalizedSegment(t *testing.T) {
	h := newTestSite(t, "production")

	// The Italian spelling of the articles segment resolves.
	if w := get(t, h, "/it/articoli/lisbon-in-a-day"); w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 for localized segment", w.Code)
	}

	// The English spelling does not resolve under the Italian locale.
	if w := get(t, h, "/it/articles/lisbon-in-a-day"); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for wrong-locale segment", w.Code)
	}
}

func TestArticleNotFound(t *testing.T) {
	h := newTestSite(t, "production")

	w := get(t, h, "/en/articles/no-such-article")

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Article not found") {
		t.Error("not-found page missing message")
	}
}

func TestArticleRejectsBadSlug(t *testing.T) {
	h := newTestSite(t, "production")

	if w := get(t, h, "/en/articles/Bad_Slug!"); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for invalid slug", w.Code)
	}
}

func TestRobots(t *testing.T) {
	h := newTestSite(t, "production")

	w := get(t, h, "/robots.txt")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(w.Body.String(), "Sitemap: https://wayfare.example.com/sitemap-index.xml") {
		t.Error("robots missing sitemap reference")
	}
}

func TestSitemapIndex(t *testing.T) {
	h := newTestSite(t, "production")

	w := get(t, h, "/sitemap-index.xml")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	for _, locale := range []string{"en", "it"} {
		if !strings.Contains(body, "/sitemap-"+locale+".xml") {
			t.Errorf("index missing locale %s", locale)
		}
	}
}

func TestSitemapLocale(t *testing.T) {
	h := newTestSite(t, "production")

	w := get(t, h, "/sitemap-it.xml")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "https://wayfare.example.com/it/articoli/lisbon-in-a-day") {
		t.Error("sitemap missing localized article URL")
	}
	if !strings.Contains(body, "2026-02-10T09:00:00Z") {
		t.Error("sitemap missing article lastmod")
	}
}

func TestSitemapUnsupportedLocale(t *testing.T) {
	h := newTestSite(t, "production")

	if w := get(t, h, "/sitemap-zz.xml"); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for unsupported locale", w.Code)
	}
}

// newSEORig wires only the SEO routes against a CMS stub whose website
// entity optionally declares its own base URL.
func newSEORig(t *testing.T, cmsBaseURL, siteURL string) http.Handler {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/websites", func(w http.ResponseWriter, r *http.Request) {
		base := ""
		if cmsBaseURL != "" {
			base = `"baseUrl": "` + cmsBaseURL + `",`
		}
		writeJSON(w, `{"data": [{
			"id": 1, "documentId": "site-1", "apiName": "travel-guide", "name": "Wayfare",
			`+base+`
			"locale": "en", "defaultLocale": "en",
			"localizations": [{"id": 2, "locale": "it"}]
		}]}`)
	})
	mux.HandleFunc("/api/articles", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"data": [{"id": 10, "documentId": "a-1", "title": "Lisbon in a Day", "slug": "lisbon-in-a-day"}]}`)
	})
	mux.HandleFunc("/api/tags", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"data": []}`)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := cms.New(&config.Config{
		CMSURL:         server.URL,
		WebsiteAPIName: "travel-guide",
		SiteURL:        siteURL,
		Env:            "production",
	}, logger)
	loader := site.New(client, logger)

	backend := cache.NewSimpleMemoryCache(time.Minute)
	t.Cleanup(func() { _ = backend.Close() })
	seoHandler := NewSEOHandler(loader, cache.NewOutputCache(backend, time.Minute), siteURL, false, logger)

	r := chi.NewRouter()
	r.Get("/robots.txt", seoHandler.Robots)
	r.Get("/sitemap-index.xml", seoHandler.SitemapIndex)
	r.Get("/sitemap-{locale:[a-z]{2}}.xml", seoHandler.SitemapLocale)
	return r
}

func TestRobotsPrefersCMSBaseURL(t *testing.T) {
	h := newSEORig(t, "https://www.wayfare.example/", "https://configured.example.com")

	w := get(t, h, "/robots.txt")

	body := w.Body.String()
	if !strings.Contains(body, "Sitemap: https://www.wayfare.example/sitemap-index.xml") {
		t.Errorf("robots does not use the CMS base URL:\n%s", body)
	}
	if strings.Contains(body, "configured.example.com") {
		t.Error("configured site URL used despite CMS base URL being present")
	}
}

func TestRobotsFallsBackToConfiguredSiteURL(t *testing.T) {
	h := newSEORig(t, "", "https://configured.example.com")

	w := get(t, h, "/robots.txt")

	if !strings.Contains(w.Body.String(), "Sitemap: https://configured.example.com/sitemap-index.xml") {
		t.Errorf("robots does not use the configured site URL:\n%s", w.Body.String())
	}
}

func TestRobotsFallsBackToRequestHost(t *testing.T) {
	h := newSEORig(t, "", "")

	req := httptest.NewRequest(http.MethodGet, "/robots.txt", nil)
	req.Host = "wayfare.local:8080"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if !strings.Contains(w.Body.String(), "Sitemap: http://wayfare.local:8080/sitemap-index.xml") {
		t.Errorf("robots does not fall back to the request host:\n%s", w.Body.String())
	}
}

func TestRobotsHonorsForwardedProto(t *testing.T) {
	h := newSEORig(t, "", "")

	req := httptest.NewRequest(http.MethodGet, "/robots.txt", nil)
	req.Host = "wayfare.local"
	req.Header.Set("X-Forwarded-Proto", "https")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if !strings.Contains(w.Body.String(), "Sitemap: https://wayfare.local/sitemap-index.xml") {
		t.Errorf("robots ignores X-Forwarded-Proto:\n%s", w.Body.String())
	}
}

func TestSitemapLocsAreAbsoluteWithoutConfig(t *testing.T) {
	h := newSEORig(t, "", "")

	req := httptest.NewRequest(http.MethodGet, "/sitemap-en.xml", nil)
	req.Host = "wayfare.local"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "<loc>http://wayfare.local/en/</loc>") {
		t.Errorf("sitemap homepage loc not absolute:\n%s", body)
	}
	if !strings.Contains(body, "<loc>http://wayfare.local/en/articles/lisbon-in-a-day</loc>") {
		t.Errorf("sitemap article loc not absolute:\n%s", body)
	}
}

func TestSitemapCacheKeyedByRequestHost(t *testing.T) {
	h := newSEORig(t, "", "")

	for _, host := range []string{"first.example.com", "second.example.com"} {
		req := httptest.NewRequest(http.MethodGet, "/sitemap-index.xml", nil)
		req.Host = host
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		if !strings.Contains(w.Body.String(), "http://"+host+"/sitemap-en.xml") {
			t.Errorf("cached index served for the wrong host %s:\n%s", host, w.Body.String())
		}
	}
}

func TestDebugRoutesInProduction(t *testing.T) {
	h := newTestSite(t, "production")

	if w := get(t, h, "/debug/requests"); w.Code != http.StatusNotFound {
		t.Errorf("/debug/requests status = %d, want 404", w.Code)
	}
	if w := get(t, h, "/debug/requests.json"); w.Code != http.StatusNotFound {
		t.Errorf("/debug/requests.json status = %d, want 404", w.Code)
	}
}

func TestDebugRoutesInDevelopment(t *testing.T) {
	h := newTestSite(t, "development")

	// Generate some CMS traffic first.
	_ = get(t, h, "/en")

	w := get(t, h, "/debug/requests")
	if w.Code != http.StatusOK {
		t.Fatalf("/debug/requests status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "/api/websites") {
		t.Error("debug page missing recorded request")
	}

	w = get(t, h, "/debug/requests.json")
	if w.Code != http.StatusOK {
		t.Fatalf("/debug/requests.json status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(w.Body.String(), `"method":"GET"`) {
		t.Error("JSON output missing request entries")
	}
}
