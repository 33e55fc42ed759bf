// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import "strings"

// defaultDisallowPaths are paths that never need indexing.
var defaultDisallowPaths = []string{
	"/api/",
	"/admin/",
	"/debug/",
}

// friendlyBots get an explicit Allow section for better SEO coverage.
var friendlyBots = []string{
	"Googlebot-Image",
	"Googlebot",
	"Bingbot",
	"facebookexternalhit",
	"Twitterbot",
}

// RobotsConfig holds configuration for robots.txt generation.
type RobotsConfig struct {
	SiteURL       string   // Base URL for the sitemap-index reference
	DisallowAll   bool     // Block all crawlers (for staging sites)
	DisallowPaths []string // Additional paths to disallow
}

// RobotsBuilder builds robots.txt content.
type RobotsBuilder struct {
	config RobotsConfig
}

// NewRobotsBuilder creates a new robots.txt builder.
func NewRobotsBuilder(config RobotsConfig) *RobotsBuilder {
	return &RobotsBuilder{config: config}
}

// Build generates the robots.txt content.
func (b *RobotsBuilder) Build() string {
	var sb strings.Builder

	sb.WriteString("User-agent: *\n")

	if b.config.DisallowAll {
		sb.WriteString("Disallow: /\n")
		return sb.String()
	}

	sb.WriteString("Allow: /\n")

	if b.config.SiteURL != "" {
		sb.WriteString("\n# Sitemaps\n")
		sb.WriteString("Sitemap: ")
		sb.WriteString(strings.TrimSuffix(b.config.SiteURL, "/"))
		sb.WriteString("/sitemap-index.xml\n")
	}

	sb.WriteString("\n# Block common paths that don't need indexing\n")
	allPaths := append([]string{}, defaultDisallowPaths...)
	allPaths = append(allPaths, b.config.DisallowPaths...)
	for _, path := range allPaths {
		sb.WriteString("Disallow: ")
		sb.WriteString(path)
		sb.WriteString("\n")
	}

	sb.WriteString("\n# Allow specific bots for better SEO\n")
	for _, bot := range friendlyBots {
		sb.WriteString("User-agent: ")
		sb.WriteString(bot)
		sb.WriteString("\nAllow: /\n\n")
	}

	sb.WriteString("# Crawl-delay for aggressive bots\n")
	sb.WriteString("User-agent: *\n")
	sb.WriteString("Crawl-delay: 1\n")

	return sb.String()
}

// GenerateRobots is a convenience function to generate robots.txt content.
func GenerateRobots(siteURL string, disallowAll bool) string {
	return NewRobotsBuilder(RobotsConfig{SiteURL: siteURL, DisallowAll: disallowAll}).Build()
}
