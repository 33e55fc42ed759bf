// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package site assembles the data a page render needs and decides
// page-level redirects. It orchestrates the cms client and the i18n
// helpers; it never fails — pages receive either full data, a redirect,
// or the documented fallback payload.
package site

import (
	"context"
	"log/slog"

	"github.com/olegiv/wayfare-go/internal/cms"
	"github.com/olegiv/wayfare-go/internal/i18n"
)

// DefaultStaticLocales is the locale list used when the CMS is
// unreachable and the supported locales cannot be resolved.
var DefaultStaticLocales = []string{"en", "pt", "es", "fr", "it"}

// Loader builds page payloads from CMS data.
type Loader struct {
	cms    *cms.Client
	logger *slog.Logger
}

// New creates a Loader.
func New(client *cms.Client, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{cms: client, logger: logger}
}

// HomepageData is everything the homepage template needs, plus the
// redirect decision. Redirect == "" means render in place.
type HomepageData struct {
	Website          *cms.Website
	Articles         []cms.Article
	Tags             []cms.Tag
	SupportedLocales []string
	ActiveLocale     string
	RequestedLocale  string
	Redirect         string
}

// LoadHomepage resolves the homepage payload for an optionally requested
// locale ("" when the visitor hit the bare root).
//
// The decision sequence:
//   - website unreachable: fallback payload, no redirect, never an error
//   - no locale requested: redirect to the default language
//   - requested locale unsupported, or the localized website disagrees
//     with the request: redirect to the resolved fallback locale
//   - otherwise: hydrate articles and tags and render in place
func (l *Loader) LoadHomepage(ctx context.Context, requestedLocale string) HomepageData {
	var website *cms.Website
	if requestedLocale != "" {
		website = l.cms.GetLocalizedWebsiteData(ctx, requestedLocale)
	} else {
		website = l.cms.GetWebsiteData(ctx, "")
	}

	if website == nil {
		l.logger.Warn("website data unavailable, rendering fallback state", "locale", requestedLocale)
		active := requestedLocale
		if active == "" {
			active = i18n.FallbackLocale
		}
		return HomepageData{
			Articles:         []cms.Article{},
			Tags:             []cms.Tag{},
			SupportedLocales: []string{},
			ActiveLocale:     active,
			RequestedLocale:  requestedLocale,
		}
	}

	supported := website.SupportedLocales
	if len(supported) == 0 {
		supported = []string{website.DefaultLocale}
	}

	if requestedLocale == "" {
		defaultLang := i18n.DefaultLanguage(supported, website.DefaultLocale)
		return HomepageData{
			Website:          website,
			Articles:         []cms.Article{},
			Tags:             []cms.Tag{},
			SupportedLocales: supported,
			ActiveLocale:     website.Locale,
			Redirect:         "/" + defaultLang,
		}
	}

	if !i18n.IsValidLanguage(requestedLocale, supported) || website.Locale != requestedLocale {
		fallback := i18n.DefaultLanguage(supported, website.DefaultLocale)
		l.logger.Info("requested locale not served, redirecting",
			"requested", requestedLocale, "fallback", fallback)
		return HomepageData{
			Website:          website,
			Articles:         []cms.Article{},
			Tags:             []cms.Tag{},
			SupportedLocales: supported,
			ActiveLocale:     website.Locale,
			RequestedLocale:  requestedLocale,
			Redirect:         "/" + fallback,
		}
	}

	return HomepageData{
		Website:          website,
		Articles:         l.cms.GetArticles(ctx, requestedLocale),
		Tags:             l.cms.GetTags(ctx, requestedLocale),
		SupportedLocales: supported,
		ActiveLocale:     website.Locale,
		RequestedLocale:  requestedLocale,
	}
}

// StaticLocales enumerates the locales worth generating pages for: the
// website's resolved supported locales, its default locale when that list
// is empty, or the fixed default set when the CMS is unreachable.
func (l *Loader) StaticLocales(ctx context.Context) []string {
	website := l.cms.GetWebsiteData(ctx, "")
	if website == nil {
		return DefaultStaticLocales
	}
	if len(website.SupportedLocales) == 0 {
		return []string{website.DefaultLocale}
	}
	return website.SupportedLocales
}

// SiteBaseURL returns the canonical base URL the CMS declares for the
// website, or "" when unset or the CMS is unreachable.
func (l *Loader) SiteBaseURL(ctx context.Context) string {
	if website := l.cms.GetWebsiteData(ctx, ""); website != nil {
		return website.BaseURL
	}
	return ""
}

// LoadSitemapContent fetches the articles and tags a locale's sitemap
// lists. Both slices are empty when the CMS is unreachable.
func (l *Loader) LoadSitemapContent(ctx context.Context, locale string) ([]cms.Article, []cms.Tag) {
	return l.cms.GetArticles(ctx, locale), l.cms.GetTags(ctx, locale)
}

// ArticleData is the payload of the article detail page. Article == nil
// with a non-nil Website means "not found"; both nil means the CMS is
// unreachable.
type ArticleData struct {
	Website      *cms.Website
	Article      *cms.Article
	ActiveLocale string
}

// LoadArticle fetches one article by slug in the given locale together
// with the website shell the layout needs.
func (l *Loader) LoadArticle(ctx context.Context, locale, slug string) ArticleData {
	website := l.cms.GetLocalizedWebsiteData(ctx, locale)
	if website == nil {
		return ArticleData{ActiveLocale: locale}
	}

	return ArticleData{
		Website:      website,
		Article:      l.cms.GetArticleBySlug(ctx, slug, locale),
		ActiveLocale: locale,
	}
}
