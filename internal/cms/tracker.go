// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cms

import (
	"sync"

	"github.com/google/uuid"
)

// trackerCapacity is the number of requests the development tracker keeps.
const trackerCapacity = 20

// requestTracker records outbound CMS calls most-recent-first for the
// debug panel. It only records when enabled (development mode); in every
// other mode it stays empty. Concurrent page renders share one tracker,
// so all access goes through the mutex.
type requestTracker struct {
	mu       sync.Mutex
	enabled  bool
	requests []HTTPRequest
}

func newRequestTracker(enabled bool) *requestTracker {
	return &requestTracker{enabled: enabled}
}

// record pushes a request to the front and trims the oldest entries
// beyond the capacity.
func (t *requestTracker) record(req HTTPRequest) {
	if !t.enabled {
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.requests = append([]HTTPRequest{req}, t.requests...)
	if len(t.requests) > trackerCapacity {
		t.requests = t.requests[:trackerCapacity]
	}
}

// snapshot returns a copy of the recorded requests, most recent first.
func (t *requestTracker) snapshot() []HTTPRequest {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]HTTPRequest, len(t.requests))
	copy(out, t.requests)
	return out
}
