// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	CMSURL         string `env:"WAYFARE_CMS_URL"`
	CMSAPIToken    string `env:"WAYFARE_CMS_API_TOKEN"`
	WebsiteAPIName string `env:"WAYFARE_WEBSITE_API_NAME"`
	SiteURL        string `env:"WAYFARE_SITE_URL"` // Canonical public URL, used by robots.txt/sitemaps when the CMS has none
	ServerHost     string `env:"WAYFARE_SERVER_HOST" envDefault:"localhost"`
	ServerPort     int    `env:"WAYFARE_SERVER_PORT" envDefault:"8080"`
	Env            string `env:"WAYFARE_ENV" envDefault:"development"`
	LogLevel       string `env:"WAYFARE_LOG_LEVEL" envDefault:"info"`

	// Cache configuration (generated sitemap/robots output only)
	RedisURL    string `env:"WAYFARE_REDIS_URL"`                          // Optional Redis URL for distributed caching
	CachePrefix string `env:"WAYFARE_CACHE_PREFIX" envDefault:"wayfare:"` // Redis key prefix
	CacheTTL    int    `env:"WAYFARE_CACHE_TTL" envDefault:"3600"`        // Output cache TTL in seconds
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// CMSBaseURL returns the CMS base URL without a trailing slash,
// or "" when the CMS is not configured.
func (c Config) CMSBaseURL() string {
	return strings.TrimSuffix(c.CMSURL, "/")
}

// Load parses environment variables and returns a Config struct.
// A missing CMS URL or website API name is not an error here: the site
// degrades to its fallback pages, so operators see a running server with
// a "configuration required" state rather than a crash loop.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.ServerPort <= 0 || cfg.ServerPort > 65535 {
		return nil, fmt.Errorf("WAYFARE_SERVER_PORT must be in 1..65535, got %d", cfg.ServerPort)
	}

	return cfg, nil
}
