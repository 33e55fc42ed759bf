// Package seo provides robots.txt and sitemap generation for the
// public site: one urlset per locale plus a sitemap index tying the
// locales together.
package seo

import (
	"encoding/xml"
	"time"
)

// XMLNamespace is the sitemap XML namespace.
const XMLNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

// Valid change frequency values.
const (
	ChangeFreqAlways  ChangeFreq = "always"
	ChangeFreqHourly  ChangeFreq = "hourly"
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
	ChangeFreqYearly  ChangeFreq = "yearly"
	ChangeFreqNever   ChangeFreq = "never"
)

// SitemapURL represents a single URL entry in the sitemap.
type SitemapURL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
}

// Sitemap represents a complete urlset document.
type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapArticle contains data needed to add an article to the sitemap.
type SitemapArticle struct {
	Slug    string
	LastMod string // pre-resolved updatedAt/publishedAt/createdAt fallback
}

// SitemapTag contains data needed to add a tag page to the sitemap.
type SitemapTag struct {
	Slug string
}

// LocaleSitemapBuilder builds the urlset for one locale. Segment
// spellings (articles/tag) are passed in already localized so this
// package stays independent of the i18n tables.
type LocaleSitemapBuilder struct {
	siteURL         string
	locale          string
	articlesSegment string
	tagSegment      string
	now             string
	urls            []SitemapURL
}

// NewLocaleSitemapBuilder creates a builder for one locale's sitemap.
func NewLocaleSitemapBuilder(siteURL, locale, articlesSegment, tagSegment string) *LocaleSitemapBuilder {
	return &LocaleSitemapBuilder{
		siteURL:         siteURL,
		locale:          locale,
		articlesSegment: articlesSegment,
		tagSegment:      tagSegment,
		now:             time.Now().UTC().Format(time.RFC3339),
		urls:            make([]SitemapURL, 0),
	}
}

// AddHomepage adds the locale homepage.
func (b *LocaleSitemapBuilder) AddHomepage() {
	b.urls = append(b.urls, SitemapURL{
		Loc:        b.siteURL + "/" + b.locale + "/",
		LastMod:    b.now,
		ChangeFreq: ChangeFreqDaily,
		Priority:   "1.0",
	})
}

// AddArticlesIndex adds the localized articles listing page.
func (b *LocaleSitemapBuilder) AddArticlesIndex() {
	b.urls = append(b.urls, SitemapURL{
		Loc:        b.siteURL + "/" + b.locale + "/" + b.articlesSegment + "/",
		LastMod:    b.now,
		ChangeFreq: ChangeFreqDaily,
		Priority:   "0.8",
	})
}

// AddArticle adds one article entry.
func (b *LocaleSitemapBuilder) AddArticle(article SitemapArticle) {
	lastMod := article.LastMod
	if lastMod == "" {
		lastMod = b.now
	}
	b.urls = append(b.urls, SitemapURL{
		Loc:        b.siteURL + "/" + b.locale + "/" + b.articlesSegment + "/" + article.Slug,
		LastMod:    lastMod,
		ChangeFreq: ChangeFreqWeekly,
		Priority:   "0.7",
	})
}

// AddArticles adds multiple articles.
func (b *LocaleSitemapBuilder) AddArticles(articles []SitemapArticle) {
	for _, a := range articles {
		b.AddArticle(a)
	}
}

// AddTag adds one tag page entry.
func (b *LocaleSitemapBuilder) AddTag(tag SitemapTag) {
	b.urls = append(b.urls, SitemapURL{
		Loc:        b.siteURL + "/" + b.locale + "/" + b.tagSegment + "/" + tag.Slug,
		LastMod:    b.now,
		ChangeFreq: ChangeFreqWeekly,
		Priority:   "0.5",
	})
}

// AddTags adds multiple tag pages.
func (b *LocaleSitemapBuilder) AddTags(tags []SitemapTag) {
	for _, t := range tags {
		b.AddTag(t)
	}
}

// Build generates the urlset XML.
func (b *LocaleSitemapBuilder) Build() ([]byte, error) {
	sitemap := Sitemap{
		XMLNS: XMLNamespace,
		URLs:  b.urls,
	}

	output := []byte(xml.Header)
	xmlBytes, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}

	return append(output, xmlBytes...), nil
}

// SitemapIndexEntry is one <sitemap> entry in the index.
type SitemapIndexEntry struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// SitemapIndex represents the sitemap index document.
type SitemapIndex struct {
	XMLName  xml.Name            `xml:"sitemapindex"`
	XMLNS    string              `xml:"xmlns,attr"`
	Sitemaps []SitemapIndexEntry `xml:"sitemap"`
}

// BuildSitemapIndex emits one entry per supported locale, each pointing
// at that locale's sitemap-{locale}.xml.
func BuildSitemapIndex(siteURL string, locales []string) ([]byte, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	index := SitemapIndex{
		XMLNS:    XMLNamespace,
		Sitemaps: make([]SitemapIndexEntry, 0, len(locales)),
	}
	for _, locale := range locales {
		index.Sitemaps = append(index.Sitemaps, SitemapIndexEntry{
			Loc:     siteURL + "/sitemap-" + locale + ".xml",
			LastMod: now,
		})
	}

	output := []byte(xml.Header)
	xmlBytes, err := xml.MarshalIndent(index, "", "  ")
	if err != nil {
		return nil, err
	}

	return append(output, xmlBytes...), nil
}
