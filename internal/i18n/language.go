// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package i18n resolves the locale a request renders in and translates
// abstract URL path segments to their locale-specific public spellings.
package i18n

import "strings"

// FallbackLocale is the last-resort locale when neither the website nor
// its locale list provides one.
const FallbackLocale = "en"

// LanguageInfo describes a language for the locale switcher UI.
type LanguageInfo struct {
	Code string
	Name string
	Flag string
}

// languages is the fixed table of languages the site knows how to label.
// Content locales outside this table still work; they just render with a
// generic globe and their upper-cased code.
var languages = map[string]LanguageInfo{
	"en": {Code: "en", Name: "English", Flag: "🇬🇧"},
	"fr": {Code: "fr", Name: "Français", Flag: "🇫🇷"},
	"it": {Code: "it", Name: "Italiano", Flag: "🇮🇹"},
	"es": {Code: "es", Name: "Español", Flag: "🇪🇸"},
	"pt": {Code: "pt", Name: "Português", Flag: "🇵🇹"},
	"de": {Code: "de", Name: "Deutsch", Flag: "🇩🇪"},
}

// GetLanguageInfo returns display data for a language code. Unknown codes
// degrade gracefully; this never fails.
func GetLanguageInfo(code string) LanguageInfo {
	if info, ok := languages[code]; ok {
		return info
	}
	return LanguageInfo{Code: code, Name: strings.ToUpper(code), Flag: "🌐"}
}

// IsValidLanguage reports whether code is one of the available locales.
func IsValidLanguage(code string, availableLocales []string) bool {
	for _, locale := range availableLocales {
		if locale == code {
			return true
		}
	}
	return false
}

// DefaultLanguage picks the locale to fall back to. Precedence is strict:
// the website's default locale, then the first available locale, then
// FallbackLocale.
func DefaultLanguage(availableLocales []string, defaultLocale string) string {
	if defaultLocale != "" {
		return defaultLocale
	}
	if len(availableLocales) > 0 {
		return availableLocales[0]
	}
	return FallbackLocale
}

// CurrentLanguageFromPath returns the first non-empty path segment, which
// by routing convention is the locale marker, or "" for the root path.
func CurrentLanguageFromPath(path string) string {
	for _, segment := range strings.Split(path, "/") {
		if segment != "" {
			return segment
		}
	}
	return ""
}
