// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"encoding/xml"
	"strings"
	"testing"
)

func TestLocaleSitemapBuilder(t *testing.T) {
	builder := NewLocaleSitemapBuilder("https://wayfare.example.com", "it", "articoli", "argomento")
	builder.AddHomepage()
	builder.AddArticlesIndex()
	builder.AddArticles([]SitemapArticle{
		{Slug: "weekend-a-roma", LastMod: "2026-02-10T09:00:00Z"},
		{Slug: "cinque-terre"},
	})
	builder.AddTags([]SitemapTag{{Slug: "spiagge"}})

	out, err := builder.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	var sitemap Sitemap
	if err := xml.Unmarshal(out, &sitemap); err != nil {
		t.Fatalf("output is not valid XML: %v", err)
	}

	if len(sitemap.URLs) != 5 {
		t.Fatalf("url count = %d, want 5", len(sitemap.URLs))
	}

	if sitemap.URLs[0].Loc != "https://wayfare.example.com/it/" {
		t.Errorf("homepage loc = %q", sitemap.URLs[0].Loc)
	}
	if sitemap.URLs[0].Priority != "1.0" {
		t.Errorf("homepage priority = %q, want 1.0", sitemap.URLs[0].Priority)
	}
	if sitemap.URLs[1].Loc != "https://wayfare.example.com/it/articoli/" {
		t.Errorf("articles index loc = %q", sitemap.URLs[1].Loc)
	}
	if sitemap.URLs[2].Loc != "https://wayfare.example.com/it/articoli/weekend-a-roma" {
		t.Errorf("article loc = %q", sitemap.URLs[2].Loc)
	}
	if sitemap.URLs[2].LastMod != "2026-02-10T09:00:00Z" {
		t.Errorf("article lastmod = %q, want the provided timestamp", sitemap.URLs[2].LastMod)
	}
	if sitemap.URLs[3].LastMod == "" {
		t.Error("article without timestamp should fall back to now")
	}
	if sitemap.URLs[4].Loc != "https://wayfare.example.com/it/argomento/spiagge" {
		t.Errorf("tag loc = %q", sitemap.URLs[4].Loc)
	}
	if sitemap.URLs[4].Priority != "0.5" {
		t.Errorf("tag priority = %q, want 0.5", sitemap.URLs[4].Priority)
	}
}

func TestBuildSitemapIndex(t *testing.T) {
	out, err := BuildSitemapIndex("https://wayfare.example.com", []string{"en", "it", "pt"})
	if err != nil {
		t.Fatalf("BuildSitemapIndex() error = %v", err)
	}

	if !strings.HasPrefix(string(out), xml.Header) {
		t.Error("missing XML header")
	}

	var index SitemapIndex
	if err := xml.Unmarshal(out, &index); err != nil {
		t.Fatalf("output is not valid XML: %v", err)
	}

	if len(index.Sitemaps) != 3 {
		t.Fatalf("sitemap count = %d, want 3", len(index.Sitemaps))
	}
	for i, locale := range []string{"en", "it", "pt"} {
		want := "https://wayfare.example.com/sitemap-" + locale + ".xml"
		if index.Sitemaps[i].Loc != want {
			t.Errorf("entry %d loc = %q, want %q", i, index.Sitemaps[i].Loc, want)
		}
	}
}

func TestBuildSitemapIndexEmptyLocales(t *testing.T) {
	out, err := BuildSitemapIndex("https://wayfare.example.com", nil)
	if err != nil {
		t.Fatalf("BuildSitemapIndex() error = %v", err)
	}

	var index SitemapIndex
	if err := xml.Unmarshal(out, &index); err != nil {
		t.Fatalf("output is not valid XML: %v", err)
	}
	if len(index.Sitemaps) != 0 {
		t.Errorf("sitemap count = %d, want 0", len(index.Sitemaps))
	}
}
