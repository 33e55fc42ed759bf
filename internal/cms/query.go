// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cms

import (
	"fmt"
	"net/url"
	"strconv"
)

// listPageSize is the fixed page size for collection requests. Only the
// first page is fetched; the CMS contract caps collections well below it.
const listPageSize = 100

// query accumulates Strapi-style query parameters in insertion order.
type query struct {
	keys   []string
	values url.Values
}

func newQuery() *query {
	return &query{values: url.Values{}}
}

func (q *query) set(key, value string) *query {
	if !q.values.Has(key) {
		q.keys = append(q.keys, key)
	}
	q.values.Set(key, value)
	return q
}

// filterEq adds a filters[field][$eq]=value constraint. Nested relation
// fields are dot-separated, e.g. "website.apiName".
func (q *query) filterEq(field, value string) *query {
	key := "filters"
	for _, part := range splitDots(field) {
		key += "[" + part + "]"
	}
	return q.set(key+"[$eq]", value)
}

func (q *query) populateAll() *query {
	return q.set("populate", "*")
}

// populateNested adds populate[path][populate]=* so relations of a
// relation are expanded too (brand media, article tags, and so on).
func (q *query) populateNested(path string) *query {
	return q.set(fmt.Sprintf("populate[%s][populate]", path), "*")
}

func (q *query) sort(field, direction string) *query {
	return q.set("sort", field+":"+direction)
}

func (q *query) paginate(page, pageSize int) *query {
	q.set("pagination[page]", strconv.Itoa(page))
	return q.set("pagination[pageSize]", strconv.Itoa(pageSize))
}

func (q *query) locale(locale string) *query {
	if locale != "" {
		q.set("locale", locale)
	}
	return q
}

// encode renders the query string with keys in insertion order, so request
// URLs are deterministic and friendly to logs and tests.
func (q *query) encode() string {
	var out string
	for i, key := range q.keys {
		if i > 0 {
			out += "&"
		}
		out += url.QueryEscape(key) + "=" + url.QueryEscape(q.values.Get(key))
	}
	return out
}

func splitDots(s string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

// websitePopulatePaths are the website relations expanded with nested
// population, so second-level relations (brand media, article tags and
// cover images) arrive in the same response.
var websitePopulatePaths = []string{
	"brand",
	"theme",
	"homepageHero",
	"header",
	"footer",
	"seoDefaults",
	"systemLabels",
	"articles",
	"tags",
	"localizations",
}

// websiteRequestURL selects the website by its configured API name with
// nested population of every section the renderer consumes.
func (c *Client) websiteRequestURL(locale string) string {
	q := newQuery().filterEq("apiName", c.websiteAPIName)
	for _, path := range websitePopulatePaths {
		q.populateNested(path)
	}
	q.locale(locale)
	return c.baseURL + "/api/websites?" + q.encode()
}

func (c *Client) articlesRequestURL(locale string) string {
	q := newQuery().
		filterEq("website.apiName", c.websiteAPIName).
		populateAll().
		sort("updatedAt", "desc").
		paginate(1, listPageSize).
		locale(locale)
	return c.baseURL + "/api/articles?" + q.encode()
}

func (c *Client) articleBySlugRequestURL(slug, locale string) string {
	q := newQuery().
		filterEq("website.apiName", c.websiteAPIName).
		filterEq("slug", slug).
		populateAll().
		locale(locale)
	return c.baseURL + "/api/articles?" + q.encode()
}

func (c *Client) tagsRequestURL(locale string) string {
	q := newQuery().
		filterEq("website.apiName", c.websiteAPIName).
		populateAll().
		sort("name", "asc").
		paginate(1, listPageSize).
		locale(locale)
	return c.baseURL + "/api/tags?" + q.encode()
}

func (c *Client) authorsRequestURL() string {
	q := newQuery().
		populateAll().
		sort("name", "asc").
		paginate(1, listPageSize)
	return c.baseURL + "/api/authors?" + q.encode()
}
