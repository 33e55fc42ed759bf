// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cms fetches website, article, tag, and author content from a
// headless CMS and normalizes its relation-wrapped response shapes into
// the flat domain model used by the rest of the application.
package cms

import (
	"encoding/json"
	"time"
)

// Link types for navigation menu items.
const (
	LinkTypeInternal = "internal_route"
	LinkTypeExternal = "external_url"
)

// MediaAsset is an image or file hosted by the CMS. URL is stored exactly
// as the CMS returns it (usually relative); absolute resolution happens at
// render time via ResolveMediaURL so the rule is applied in one place.
type MediaAsset struct {
	ID              int64          `json:"id"`
	URL             string         `json:"url"`
	AlternativeText string         `json:"alternative_text,omitempty"`
	Caption         string         `json:"caption,omitempty"`
	Width           int            `json:"width,omitempty"`
	Height          int            `json:"height,omitempty"`
	Formats         map[string]any `json:"formats,omitempty"`
}

// PaletteSet holds the named colors of a website theme.
type PaletteSet struct {
	Primary    string `json:"primary,omitempty"`
	Secondary  string `json:"secondary,omitempty"`
	Accent     string `json:"accent,omitempty"`
	Background string `json:"background,omitempty"`
	Surface    string `json:"surface,omitempty"`
	Muted      string `json:"muted,omitempty"`
	Neutral    string `json:"neutral,omitempty"`
}

// ThemePalette is the website theme. Every field is optional; consumers
// apply their own layered defaults.
type ThemePalette struct {
	BrandColor string      `json:"brand_color,omitempty"`
	Palette    *PaletteSet `json:"palette,omitempty"`
}

// NavMenuItem is one entry in a navigation menu. When LinkType is
// external_url the href is URL; when internal_route the Path is combined
// with the active locale.
type NavMenuItem struct {
	ID           int64  `json:"id"`
	Label        string `json:"label"`
	LinkType     string `json:"link_type"`
	Path         string `json:"path,omitempty"`
	URL          string `json:"url,omitempty"`
	OpenInNewTab bool   `json:"open_in_new_tab,omitempty"`
}

// NavLinkGroup is a titled group of footer links.
type NavLinkGroup struct {
	ID         int64         `json:"id"`
	GroupTitle string        `json:"group_title,omitempty"`
	Links      []NavMenuItem `json:"links"`
}

// Brand holds the website logo and favicon.
type Brand struct {
	Logo    *MediaAsset `json:"logo,omitempty"`
	Favicon *MediaAsset `json:"favicon,omitempty"`
}

// HomepageHero is the hero banner of the homepage.
type HomepageHero struct {
	Image *MediaAsset `json:"image,omitempty"`
	Alt   string      `json:"alt,omitempty"`
}

// Header is the website header: brand line plus primary navigation.
type Header struct {
	BrandDisplayName string        `json:"brand_display_name,omitempty"`
	Tagline          string        `json:"tagline,omitempty"`
	PrimaryNav       []NavMenuItem `json:"primary_nav"`
}

// Footer is the website footer.
type Footer struct {
	AboutText     string         `json:"about_text,omitempty"`
	LinkGroups    []NavLinkGroup `json:"link_groups"`
	CopyrightText string         `json:"copyright_text,omitempty"`
}

// SystemLabels are UI strings managed in the CMS.
type SystemLabels struct {
	SearchPlaceholder string `json:"search_placeholder,omitempty"`
	ReadMoreLabel     string `json:"read_more_label,omitempty"`
	BackToHomeLabel   string `json:"back_to_home_label,omitempty"`
}

// SEOFields holds per-entity meta overrides.
type SEOFields struct {
	MetaTitle       string `json:"meta_title,omitempty"`
	MetaDescription string `json:"meta_description,omitempty"`
}

// LocalizationSummary points at a sibling localization of an entity.
// DocumentID is shared across locales; ID is per-locale.
type LocalizationSummary struct {
	ID         int64  `json:"id"`
	DocumentID string `json:"document_id,omitempty"`
	Locale     string `json:"locale"`
	Name       string `json:"name,omitempty"`
}

// Tag is a content tag. Slug is unique within a locale+website scope.
type Tag struct {
	ID          int64  `json:"id"`
	DocumentID  string `json:"document_id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
	PublishedAt string `json:"published_at"`
}

// Author is an article author.
type Author struct {
	ID         int64       `json:"id"`
	DocumentID string      `json:"document_id"`
	Name       string      `json:"name"`
	Bio        string      `json:"bio,omitempty"`
	Avatar     *MediaAsset `json:"avatar,omitempty"`
}

// Article is a published travel-guide article. Body is raw markdown; it is
// converted to HTML only at render time.
type Article struct {
	ID          int64       `json:"id"`
	DocumentID  string      `json:"document_id"`
	Title       string      `json:"title"`
	Slug        string      `json:"slug"`
	Summary     string      `json:"summary,omitempty"`
	Body        string      `json:"body,omitempty"`
	ReadingTime int         `json:"reading_time,omitempty"` // whole minutes, 0 when unset
	CoverImage  *MediaAsset `json:"cover_image,omitempty"`
	Author      *Author     `json:"author,omitempty"`
	SEO         *SEOFields  `json:"seo,omitempty"`
	Tags        []Tag       `json:"tags"`
	Locale      string      `json:"locale"`
	CreatedAt   string      `json:"created_at"`
	UpdatedAt   string      `json:"updated_at"`
	PublishedAt string      `json:"published_at"`
}

// LastModified returns the best available modification timestamp for
// sitemap entries: updatedAt, falling back to publishedAt, then createdAt.
func (a Article) LastModified() string {
	if a.UpdatedAt != "" {
		return a.UpdatedAt
	}
	if a.PublishedAt != "" {
		return a.PublishedAt
	}
	return a.CreatedAt
}

// Website is the root aggregate for one CMS website entity in one locale.
// The same DocumentID recurs across locales with different Locale/ID.
type Website struct {
	ID               int64                 `json:"id"`
	DocumentID       string                `json:"document_id"`
	APIName          string                `json:"api_name"`
	Name             string                `json:"name"`
	BaseURL          string                `json:"base_url,omitempty"`
	Locale           string                `json:"locale"`
	DefaultLocale    string                `json:"default_locale"`
	SupportedLocales []string              `json:"supported_locales"`
	Brand            *Brand                `json:"brand,omitempty"`
	Theme            *ThemePalette         `json:"theme,omitempty"`
	HomepageHero     *HomepageHero         `json:"homepage_hero,omitempty"`
	SEODefaults      *SEOFields            `json:"seo_defaults,omitempty"`
	Header           *Header               `json:"header,omitempty"`
	Footer           *Footer               `json:"footer,omitempty"`
	SystemLabels     *SystemLabels         `json:"system_labels,omitempty"`
	Tags             []Tag                 `json:"tags"`
	Articles         []Article             `json:"articles"`
	Localizations    []LocalizationSummary `json:"localizations"`
	CreatedAt        string                `json:"created_at"`
	UpdatedAt        string                `json:"updated_at"`
	PublishedAt      string                `json:"published_at"`
}

// HTTPRequest is one recorded outbound CMS call, kept by the development
// request tracker for the debug panel.
type HTTPRequest struct {
	ID        string        `json:"id"`
	Method    string        `json:"method"`
	URL       string        `json:"url"`
	Status    int           `json:"status"`
	Duration  time.Duration `json:"duration"`
	Timestamp time.Time     `json:"timestamp"`
	Error     string        `json:"error,omitempty"`
}

// MarshalJSON renders Duration in human-readable form ("1.5ms") instead
// of raw nanoseconds for the debug endpoint consumers.
func (r HTTPRequest) MarshalJSON() ([]byte, error) {
	type plain HTTPRequest
	return json.Marshal(struct {
		plain
		Duration string `json:"duration"`
	}{plain: plain(r), Duration: r.Duration.String()})
}
