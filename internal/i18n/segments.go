// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package i18n

import "strings"

// urlSegments maps locale -> abstract segment key -> public URL spelling.
var urlSegments = map[string]map[string]string{
	"en": {
		"articles": "articles",
		"tags":     "tags",
		"tag":      "tag",
		"search":   "search",
		"about":    "about",
		"contact":  "contact",
	},
	"it": {
		"articles": "articoli",
		"tags":     "argomenti",
		"tag":      "argomento",
		"search":   "cerca",
		"about":    "chi-siamo",
		"contact":  "contatti",
	},
	"es": {
		"articles": "articulos",
		"tags":     "etiquetas",
		"tag":      "etiqueta",
		"search":   "buscar",
		"about":    "acerca-de",
		"contact":  "contacto",
	},
	"fr": {
		"articles": "articles",
		"tags":     "etiquettes",
		"tag":      "etiquette",
		"search":   "recherche",
		"about":    "a-propos",
		"contact":  "contact",
	},
	"pt": {
		"articles": "artigos",
		"tags":     "tags",
		"tag":      "tag",
		"search":   "buscar",
		"about":    "sobre",
		"contact":  "contato",
	},
	"de": {
		"articles": "artikel",
		"tags":     "tags",
		"tag":      "tag",
		"search":   "suche",
		"about":    "uber-uns",
		"contact":  "kontakt",
	},
}

// LocalizedSegment returns the public spelling of a segment key for a
// locale. Lookup falls back to the English table, then to the key itself,
// so a URL segment is always produced.
func LocalizedSegment(lang, key string) string {
	if table, ok := urlSegments[lang]; ok {
		if value, ok := table[key]; ok {
			return value
		}
	}
	if value, ok := urlSegments["en"][key]; ok {
		return value
	}
	return key
}

// SegmentKey reverse-maps a localized segment value back to its abstract
// key. The comparison is case-sensitive and there is no English fallback
// on this path: an unknown locale or spelling yields "", which callers
// treat as "not a known segment" (usually a dynamic slug).
func SegmentKey(lang, localizedValue string) string {
	table, ok := urlSegments[lang]
	if !ok {
		return ""
	}
	for key, value := range table {
		if value == localizedValue {
			return key
		}
	}
	return ""
}

// BuildLocalizedURL assembles /{lang}/segment/... from abstract segment
// keys. Segments starting with ':' are parameter placeholders and are
// substituted verbatim from params when present; a missing parameter
// leaves the literal placeholder in place. An empty segment list yields
// "/{lang}/".
func BuildLocalizedURL(lang string, segments []string, params map[string]string) string {
	localized := make([]string, len(segments))
	for i, segment := range segments {
		if strings.HasPrefix(segment, ":") {
			if value, ok := params[segment[1:]]; ok {
				localized[i] = value
				continue
			}
		}
		localized[i] = LocalizedSegment(lang, segment)
	}
	return "/" + lang + "/" + strings.Join(localized, "/")
}

// ParseLocalizedURL strips the leading locale segment from path and maps
// each remaining segment back to its abstract key. Segments with no
// reverse mapping (dynamic slugs) are retained literally.
func ParseLocalizedURL(lang, path string) []string {
	segments := strings.Split(path, "/")

	// Drop empty segments and the leading locale marker.
	cleaned := make([]string, 0, len(segments))
	for _, segment := range segments {
		if segment != "" {
			cleaned = append(cleaned, segment)
		}
	}
	if len(cleaned) > 0 {
		cleaned = cleaned[1:]
	}

	keys := make([]string, 0, len(cleaned))
	for _, segment := range cleaned {
		if key := SegmentKey(lang, segment); key != "" {
			keys = append(keys, key)
			continue
		}
		keys = append(keys, segment)
	}
	return keys
}
