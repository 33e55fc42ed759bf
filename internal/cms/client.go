// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/olegiv/wayfare-go/internal/config"
)

// Request configuration constants
const (
	requestTimeout = 30 * time.Second // HTTP request timeout
	maxResponseLen = 4 * 1024 * 1024  // Maximum response body to decode (4MB)
	userAgent      = "wayfare/1.0"    // User-Agent header value
)

// Failure classes. Public operations never surface these to callers; they
// exist so call sites inside the package (and tests) can tell "empty
// because no data" from "empty because of failure".
var (
	ErrNotConfigured = errors.New("cms not configured")
	ErrTransport     = errors.New("cms request failed")
	ErrStatus        = errors.New("cms returned non-2xx status")
	ErrDecode        = errors.New("cms response decode failed")
)

// Client talks to the headless CMS. All public operations swallow
// failures: singular lookups return nil, collections return an empty
// slice, and the cause is logged with operation context.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiToken       string
	websiteAPIName string
	logger         *slog.Logger
	tracker        *requestTracker
}

// New creates a CMS client. The request tracker only records when the
// application runs in development mode.
func New(cfg *config.Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL:        cfg.CMSBaseURL(),
		apiToken:       cfg.CMSAPIToken,
		websiteAPIName: cfg.WebsiteAPIName,
		logger:         logger,
		tracker:        newRequestTracker(cfg.IsDevelopment()),
	}
}

// BaseURL returns the configured CMS base URL ("" when unconfigured).
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HTTPRequests returns the development request tracker buffer, most
// recent first. Outside development mode it is always empty.
func (c *Client) HTTPRequests() []HTTPRequest {
	return c.tracker.snapshot()
}

// ResolveMediaURL turns a CMS-relative asset path into an absolute URL.
// Absolute paths pass through unchanged. When no CMS base URL is
// configured the relative path is returned as-is so templates still
// render something addressable.
func (c *Client) ResolveMediaURL(path string) string {
	if path == "" {
		return ""
	}
	if len(path) >= 4 && path[:4] == "http" {
		return path
	}
	if c.baseURL == "" {
		c.logger.Warn("cms base url not configured, returning relative media path", "path", path)
		return path
	}
	return c.baseURL + path
}

// configured reports whether the client has enough configuration to build
// website-scoped requests.
func (c *Client) configured() bool {
	return c.baseURL != "" && c.websiteAPIName != ""
}

// cmsDocument is the REST envelope every CMS endpoint responds with.
type cmsDocument struct {
	Data any `json:"data"`
	Meta struct {
		Pagination struct {
			Page      int `json:"page"`
			PageSize  int `json:"pageSize"`
			PageCount int `json:"pageCount"`
			Total     int `json:"total"`
		} `json:"pagination"`
	} `json:"meta"`
}

// fetch performs a tracked GET against the CMS and decodes the response
// envelope. Every call is recorded in the development tracker, including
// failed ones.
func (c *Client) fetch(ctx context.Context, url string) (*cmsDocument, error) {
	start := time.Now()
	entry := HTTPRequest{
		Method:    http.MethodGet,
		URL:       url,
		Timestamp: start,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		entry.Error = err.Error()
		c.tracker.record(entry)
		return nil, fmt.Errorf("%w: creating request: %w", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		entry.Duration = time.Since(start)
		entry.Error = err.Error()
		c.tracker.record(entry)
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	entry.Status = resp.StatusCode
	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseLen))
	entry.Duration = time.Since(start)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		entry.Error = fmt.Sprintf("HTTP %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		c.tracker.record(entry)
		return nil, fmt.Errorf("%w: HTTP %d", ErrStatus, resp.StatusCode)
	}
	if readErr != nil {
		entry.Error = readErr.Error()
		c.tracker.record(entry)
		return nil, fmt.Errorf("%w: reading body: %w", ErrTransport, readErr)
	}

	var doc cmsDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		entry.Error = err.Error()
		c.tracker.record(entry)
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	c.tracker.record(entry)
	return &doc, nil
}

// GetWebsiteData fetches and normalizes the website aggregate for the
// given locale ("" for the CMS default). Returns nil on any failure or
// when the result set is empty; it never raises to the caller.
func (c *Client) GetWebsiteData(ctx context.Context, locale string) *Website {
	site, err := c.websiteData(ctx, locale)
	if err != nil {
		c.logger.Error("failed to fetch website data", "error", err, "locale", locale)
		return nil
	}
	return site
}

func (c *Client) websiteData(ctx context.Context, locale string) (*Website, error) {
	if !c.configured() {
		return nil, ErrNotConfigured
	}

	doc, err := c.fetch(ctx, c.websiteRequestURL(locale))
	if err != nil {
		return nil, err
	}

	entries, ok := doc.Data.([]any)
	if !ok || len(entries) == 0 {
		return nil, nil
	}

	return normalizeWebsite(entries[0]), nil
}

// GetLocalizedWebsiteData fetches the website for the requested locale and
// falls back to the unlocalized default exactly once when that locale is
// not published. The fallback result may itself be nil.
func (c *Client) GetLocalizedWebsiteData(ctx context.Context, locale string) *Website {
	if site := c.GetWebsiteData(ctx, locale); site != nil {
		return site
	}

	c.logger.Info("locale not published, falling back to default website data", "locale", locale)
	return c.GetWebsiteData(ctx, "")
}

// GetArticles returns the website's articles for the given locale, most
// recently updated first. Returns an empty slice on any failure.
func (c *Client) GetArticles(ctx context.Context, locale string) []Article {
	if !c.configured() {
		c.logger.Error("failed to fetch articles", "error", ErrNotConfigured, "locale", locale)
		return []Article{}
	}

	doc, err := c.fetch(ctx, c.articlesRequestURL(locale))
	if err != nil {
		c.logger.Error("failed to fetch articles", "error", err, "locale", locale)
		return []Article{}
	}

	return normalizeArticles(doc.Data)
}

// GetArticleBySlug returns the article with the exact slug in the exact
// locale, or nil when there is no match.
func (c *Client) GetArticleBySlug(ctx context.Context, slug, locale string) *Article {
	if !c.configured() {
		c.logger.Error("failed to fetch article", "error", ErrNotConfigured, "slug", slug, "locale", locale)
		return nil
	}

	doc, err := c.fetch(ctx, c.articleBySlugRequestURL(slug, locale))
	if err != nil {
		c.logger.Error("failed to fetch article", "error", err, "slug", slug, "locale", locale)
		return nil
	}

	articles := normalizeArticles(doc.Data)
	if len(articles) == 0 {
		return nil
	}
	return &articles[0]
}

// GetTags returns the website's tags for the given locale in name order.
// The CMS sorts server-side, but its collation is not locale-aware, so the
// list is re-sorted here with a collator for the requested locale.
// Returns an empty slice on any failure.
func (c *Client) GetTags(ctx context.Context, locale string) []Tag {
	if !c.configured() {
		c.logger.Error("failed to fetch tags", "error", ErrNotConfigured, "locale", locale)
		return []Tag{}
	}

	doc, err := c.fetch(ctx, c.tagsRequestURL(locale))
	if err != nil {
		c.logger.Error("failed to fetch tags", "error", err, "locale", locale)
		return []Tag{}
	}

	tags := normalizeTags(doc.Data)
	coll := collatorFor(locale)
	sort.SliceStable(tags, func(i, j int) bool {
		return coll.CompareString(tags[i].Name, tags[j].Name) < 0
	})
	return tags
}

// GetAuthors returns all authors in name order. Returns an empty slice on
// any failure.
func (c *Client) GetAuthors(ctx context.Context) []Author {
	if c.baseURL == "" {
		c.logger.Error("failed to fetch authors", "error", ErrNotConfigured)
		return []Author{}
	}

	doc, err := c.fetch(ctx, c.authorsRequestURL())
	if err != nil {
		c.logger.Error("failed to fetch authors", "error", err)
		return []Author{}
	}

	raw := unwrapList(doc.Data)
	authors := make([]Author, 0, len(raw))
	for _, item := range raw {
		if author := normalizeAuthor(item); author != nil {
			authors = append(authors, *author)
		}
	}

	coll := collatorFor("")
	sort.SliceStable(authors, func(i, j int) bool {
		return coll.CompareString(authors[i].Name, authors[j].Name) < 0
	})
	return authors
}

// collatorFor returns a case-insensitive collator for the locale,
// degrading to English for unknown or empty codes.
func collatorFor(locale string) *collate.Collator {
	tag := language.English
	if locale != "" {
		if parsed, err := language.Parse(locale); err == nil {
			tag = parsed
		}
	}
	return collate.New(tag, collate.IgnoreCase)
}
