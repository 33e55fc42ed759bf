// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cms

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/olegiv/wayfare-go/internal/util"
)

// The CMS has shipped the same logical entity in three wire shapes over
// time: flat objects, {id, attributes: {...}} envelopes, and {data: ...}
// relation wrappers (where data is an entity, an array, or null). The
// decoder below operates on the untyped JSON tree and collapses all of
// them into flat maps before any domain struct is built, so the rest of
// the package never sees a wrapper.

// unwrapEntity collapses relation wrappers and attribute envelopes.
// nil stays nil; non-objects pass through unchanged.
func unwrapEntity(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}

	if isRelationWrapper(m) {
		return unwrapEntity(m["data"])
	}

	if attrs, ok := m["attributes"].(map[string]any); ok {
		flat := make(map[string]any, len(attrs)+2)
		for k, val := range attrs {
			flat[k] = val
		}
		// id and documentId live outside the attributes envelope
		if id, ok := m["id"]; ok {
			flat["id"] = id
		}
		if docID, ok := m["documentId"]; ok {
			if _, exists := flat["documentId"]; !exists {
				flat["documentId"] = docID
			}
		}
		return flat
	}

	return m
}

// isRelationWrapper reports whether m is a {data: ...} envelope rather
// than an entity that happens to carry a data field. Wrappers only ever
// hold data plus an optional meta block.
func isRelationWrapper(m map[string]any) bool {
	if _, ok := m["data"]; !ok {
		return false
	}
	for k := range m {
		if k != "data" && k != "meta" {
			return false
		}
	}
	return true
}

// unwrapList collapses a collection relation into a slice of flat entity
// maps: nil becomes empty, {data: [...]} and bare arrays are unwrapped
// element-wise with nulls dropped, and a single bare object becomes a
// one-element slice.
func unwrapList(v any) []map[string]any {
	switch val := unwrapEntity(v).(type) {
	case []any:
		out := make([]map[string]any, 0, len(val))
		for _, elem := range val {
			if m, ok := unwrapEntity(elem).(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	case map[string]any:
		return []map[string]any{val}
	default:
		return []map[string]any{}
	}
}

// entityMap unwraps v and returns it as a flat map, or nil.
func entityMap(v any) map[string]any {
	m, _ := unwrapEntity(v).(map[string]any)
	return m
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt64(v any) int64 {
	f, ok := v.(float64)
	if !ok {
		return 0
	}
	return int64(f)
}

func asInt(v any) int {
	return int(asInt64(v))
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

// asWholeMinutes returns v as a whole number of minutes, or 0 when v is
// absent, non-numeric, or fractional.
func asWholeMinutes(v any) int {
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) || f < 0 {
		return 0
	}
	return int(f)
}

// normalizeMedia accepts a bare media object, an array of them, or any
// relation-wrapped form, and returns nil when no url survives unwrapping.
func normalizeMedia(v any) *MediaAsset {
	entry := unwrapEntity(v)
	if list, ok := entry.([]any); ok {
		if len(list) == 0 {
			return nil
		}
		entry = unwrapEntity(list[0])
	}

	m, ok := entry.(map[string]any)
	if !ok {
		return nil
	}

	url := asString(m["url"])
	if url == "" {
		return nil
	}

	alt := asString(m["alternativeText"])
	if alt == "" {
		alt = asString(m["alt"])
	}

	formats, _ := m["formats"].(map[string]any)

	return &MediaAsset{
		ID:              asInt64(m["id"]),
		URL:             url,
		AlternativeText: alt,
		Caption:         asString(m["caption"]),
		Width:           asInt(m["width"]),
		Height:          asInt(m["height"]),
		Formats:         formats,
	}
}

func normalizeNavMenuItem(v any) *NavMenuItem {
	m := entityMap(v)
	if m == nil {
		return nil
	}

	linkType := asString(m["linkType"])
	if linkType == "" {
		linkType = LinkTypeInternal
	}

	return &NavMenuItem{
		ID:           asInt64(m["id"]),
		Label:        asString(m["label"]),
		LinkType:     linkType,
		Path:         asString(m["path"]),
		URL:          asString(m["url"]),
		OpenInNewTab: asBool(m["openInNewTab"]),
	}
}

func normalizeNavMenuItems(v any) []NavMenuItem {
	items := unwrapList(v)
	out := make([]NavMenuItem, 0, len(items))
	for _, raw := range items {
		if item := normalizeNavMenuItem(raw); item != nil {
			out = append(out, *item)
		}
	}
	return out
}

func normalizeLinkGroup(v any) *NavLinkGroup {
	m := entityMap(v)
	if m == nil {
		return nil
	}

	return &NavLinkGroup{
		ID:         asInt64(m["id"]),
		GroupTitle: asString(m["groupTitle"]),
		Links:      normalizeNavMenuItems(m["links"]),
	}
}

// normalizeTag builds a Tag from any wrapped shape. Back-references to the
// website or its articles are dropped here, which keeps the aggregate
// acyclic. A tag that arrives without a slug gets one derived from its
// name so tag URLs stay buildable.
func normalizeTag(v any) *Tag {
	m := entityMap(v)
	if m == nil {
		return nil
	}

	slug := asString(m["slug"])
	if slug == "" {
		slug = util.Slugify(asString(m["name"]))
	}

	return &Tag{
		ID:          asInt64(m["id"]),
		DocumentID:  asString(m["documentId"]),
		Name:        asString(m["name"]),
		Slug:        slug,
		CreatedAt:   asString(m["createdAt"]),
		UpdatedAt:   asString(m["updatedAt"]),
		PublishedAt: asString(m["publishedAt"]),
	}
}

func normalizeTags(v any) []Tag {
	raw := unwrapList(v)
	out := make([]Tag, 0, len(raw))
	for _, item := range raw {
		if tag := normalizeTag(item); tag != nil {
			out = append(out, *tag)
		}
	}
	return out
}

func normalizeAuthor(v any) *Author {
	m := entityMap(v)
	if m == nil {
		return nil
	}

	return &Author{
		ID:         asInt64(m["id"]),
		DocumentID: asString(m["documentId"]),
		Name:       asString(m["name"]),
		Bio:        asString(m["bio"]),
		Avatar:     normalizeMedia(m["avatar"]),
	}
}

func normalizeSEO(v any) *SEOFields {
	m := entityMap(v)
	if m == nil {
		return nil
	}

	return &SEOFields{
		MetaTitle:       asString(m["metaTitle"]),
		MetaDescription: asString(m["metaDescription"]),
	}
}

func normalizeArticle(v any) *Article {
	m := entityMap(v)
	if m == nil {
		return nil
	}

	return &Article{
		ID:          asInt64(m["id"]),
		DocumentID:  asString(m["documentId"]),
		Title:       asString(m["title"]),
		Slug:        asString(m["slug"]),
		Summary:     asString(m["summary"]),
		Body:        asString(m["body"]),
		ReadingTime: asWholeMinutes(m["readingTime"]),
		CoverImage:  normalizeMedia(m["coverImage"]),
		Author:      normalizeAuthor(m["author"]),
		SEO:         normalizeSEO(m["seo"]),
		Tags:        normalizeTags(m["tags"]),
		Locale:      asString(m["locale"]),
		CreatedAt:   asString(m["createdAt"]),
		UpdatedAt:   asString(m["updatedAt"]),
		PublishedAt: asString(m["publishedAt"]),
	}
}

func normalizeArticles(v any) []Article {
	raw := unwrapList(v)
	out := make([]Article, 0, len(raw))
	for _, item := range raw {
		if article := normalizeArticle(item); article != nil {
			out = append(out, *article)
		}
	}
	return out
}

func normalizeLocalizations(v any) []LocalizationSummary {
	raw := unwrapList(v)
	out := make([]LocalizationSummary, 0, len(raw))
	for _, m := range raw {
		out = append(out, LocalizationSummary{
			ID:         asInt64(m["id"]),
			DocumentID: asString(m["documentId"]),
			Locale:     asString(m["locale"]),
			Name:       asString(m["name"]),
		})
	}
	return out
}

// parseLocaleList accepts an array of strings, a JSON-encoded string
// array, or a comma-separated string, and returns the trimmed non-empty
// entries. Unparseable input yields an empty list.
func parseLocaleList(v any) []string {
	switch val := v.(type) {
	case []any:
		out := make([]string, 0, len(val))
		for _, elem := range val {
			if s := strings.TrimSpace(asString(elem)); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return []string{}
		}
		if strings.HasPrefix(trimmed, "[") {
			var decoded []any
			if err := json.Unmarshal([]byte(trimmed), &decoded); err == nil {
				return parseLocaleList(decoded)
			}
			return []string{}
		}
		parts := strings.Split(trimmed, ",")
		out := make([]string, 0, len(parts))
		for _, part := range parts {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}

// resolveSupportedLocales builds the deduplicated union of the website's
// own locale, its default locale, the raw supportedLocales list, and the
// locales of its localizations, in that relative order. When every source
// is empty the site still needs one locale, so it falls back to ["en"].
func resolveSupportedLocales(locale, defaultLocale string, raw any, localizations []LocalizationSummary) []string {
	candidates := []string{locale, defaultLocale}
	candidates = append(candidates, parseLocaleList(raw)...)
	for _, loc := range localizations {
		candidates = append(candidates, loc.Locale)
	}

	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		if _, dup := seen[candidate]; dup {
			continue
		}
		seen[candidate] = struct{}{}
		out = append(out, candidate)
	}

	if len(out) == 0 {
		return []string{"en"}
	}
	return out
}

// normalizeWebsite builds the root aggregate. Sections are normalized in a
// fixed order (brand, theme, hero, header, footer, system labels,
// articles, tags, localizations) so partial CMS data degrades predictably.
func normalizeWebsite(v any) *Website {
	m := entityMap(v)
	if m == nil {
		return nil
	}

	locale := asString(m["locale"])
	defaultLocale := asString(m["defaultLocale"])
	if defaultLocale == "" {
		defaultLocale = "en"
	}
	if locale == "" {
		locale = defaultLocale
	}

	site := &Website{
		ID:            asInt64(m["id"]),
		DocumentID:    asString(m["documentId"]),
		APIName:       asString(m["apiName"]),
		Name:          asString(m["name"]),
		BaseURL:       asString(m["baseUrl"]),
		Locale:        locale,
		DefaultLocale: defaultLocale,
		CreatedAt:     asString(m["createdAt"]),
		UpdatedAt:     asString(m["updatedAt"]),
		PublishedAt:   asString(m["publishedAt"]),
	}

	if brand := entityMap(m["brand"]); brand != nil {
		site.Brand = &Brand{
			Logo:    normalizeMedia(brand["logo"]),
			Favicon: normalizeMedia(brand["favicon"]),
		}
	}

	if theme := entityMap(m["theme"]); theme != nil {
		palette := &ThemePalette{BrandColor: asString(theme["brandColor"])}
		if set := entityMap(theme["palette"]); set != nil {
			palette.Palette = &PaletteSet{
				Primary:    asString(set["primary"]),
				Secondary:  asString(set["secondary"]),
				Accent:     asString(set["accent"]),
				Background: asString(set["background"]),
				Surface:    asString(set["surface"]),
				Muted:      asString(set["muted"]),
				Neutral:    asString(set["neutral"]),
			}
		}
		site.Theme = palette
	}

	if hero := entityMap(m["homepageHero"]); hero != nil {
		site.HomepageHero = &HomepageHero{
			Image: normalizeMedia(hero["image"]),
			Alt:   asString(hero["alt"]),
		}
	}

	site.SEODefaults = normalizeSEO(m["seoDefaults"])

	if header := entityMap(m["header"]); header != nil {
		site.Header = &Header{
			BrandDisplayName: asString(header["brandDisplayName"]),
			Tagline:          asString(header["tagline"]),
			PrimaryNav:       normalizeNavMenuItems(header["primaryNav"]),
		}
	}

	if footer := entityMap(m["footer"]); footer != nil {
		groups := unwrapList(footer["linkGroups"])
		linkGroups := make([]NavLinkGroup, 0, len(groups))
		for _, raw := range groups {
			if group := normalizeLinkGroup(raw); group != nil {
				linkGroups = append(linkGroups, *group)
			}
		}
		site.Footer = &Footer{
			AboutText:     asString(footer["aboutText"]),
			LinkGroups:    linkGroups,
			CopyrightText: asString(footer["copyrightText"]),
		}
	}

	if labels := entityMap(m["systemLabels"]); labels != nil {
		site.SystemLabels = &SystemLabels{
			SearchPlaceholder: asString(labels["searchPlaceholder"]),
			ReadMoreLabel:     asString(labels["readMoreLabel"]),
			BackToHomeLabel:   asString(labels["backToHomeLabel"]),
		}
	}

	site.Articles = normalizeArticles(m["articles"])
	site.Tags = normalizeTags(m["tags"])
	site.Localizations = normalizeLocalizations(m["localizations"])
	site.SupportedLocales = resolveSupportedLocales(
		asString(m["locale"]), asString(m["defaultLocale"]), m["supportedLocales"], site.Localizations)

	return site
}
