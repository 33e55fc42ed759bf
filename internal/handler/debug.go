// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/olegiv/wayfare-go/internal/cms"
	"github.com/olegiv/wayfare-go/internal/render"
)

// DebugHandler exposes the recorded CMS requests during development.
// Every route is not found in production.
type DebugHandler struct {
	cms      *cms.Client
	renderer *render.Renderer
	isDev    bool
	logger   *slog.Logger
}

// NewDebugHandler creates a debug handler.
func NewDebugHandler(client *cms.Client, renderer *render.Renderer, isDev bool, logger *slog.Logger) *DebugHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DebugHandler{cms: client, renderer: renderer, isDev: isDev, logger: logger}
}

// Requests handles GET /debug/requests.
func (h *DebugHandler) Requests(w http.ResponseWriter, r *http.Request) {
	if !h.isDev {
		http.NotFound(w, r)
		return
	}

	if err := h.renderer.Render(w, "debug", render.TemplateData{
		Title: "CMS requests",
		Data:  h.cms.HTTPRequests(),
	}); err != nil {
		h.logger.Error("rendering debug page", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// RequestsJSON handles GET /debug/requests.json.
func (h *DebugHandler) RequestsJSON(w http.ResponseWriter, r *http.Request) {
	if !h.isDev {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.cms.HTTPRequests()); err != nil {
		h.logger.Error("encoding debug requests", "error", err)
	}
}
