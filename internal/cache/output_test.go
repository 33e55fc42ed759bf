// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newTestOutputCache(t *testing.T) *OutputCache {
	t.Helper()
	backend := NewSimpleMemoryCache(time.Minute)
	t.Cleanup(func() { _ = backend.Close() })
	return NewOutputCache(backend, time.Minute)
}

func TestOutputCacheBuildOnce(t *testing.T) {
	oc := newTestOutputCache(t)
	ctx := context.Background()

	var builds atomic.Int32
	build := func(context.Context) ([]byte, error) {
		builds.Add(1)
		return []byte("<urlset/>"), nil
	}

	for i := 0; i < 3; i++ {
		out, err := oc.GetOrBuild(ctx, SitemapKey("en", "https://wayfare.example.com"), build)
		if err != nil {
			t.Fatalf("GetOrBuild failed: %v", err)
		}
		if string(out) != "<urlset/>" {
			t.Errorf("GetOrBuild returned %q", out)
		}
	}

	if builds.Load() != 1 {
		t.Errorf("build ran %d times, want 1", builds.Load())
	}
}

func TestOutputCacheBuildError(t *testing.T) {
	oc := newTestOutputCache(t)
	ctx := context.Background()

	key := RobotsKey("https://wayfare.example.com")
	wantErr := errors.New("upstream unavailable")
	_, err := oc.GetOrBuild(ctx, key, func(context.Context) ([]byte, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("GetOrBuild error = %v, want %v", err, wantErr)
	}

	// A failed build caches nothing, so the next call builds again.
	out, err := oc.GetOrBuild(ctx, key, func(context.Context) ([]byte, error) {
		return []byte("ok"), nil
	})
	if err != nil || string(out) != "ok" {
		t.Errorf("GetOrBuild after failure = (%q, %v)", out, err)
	}
}

func TestOutputCacheInvalidate(t *testing.T) {
	oc := newTestOutputCache(t)
	ctx := context.Background()

	var builds atomic.Int32
	build := func(context.Context) ([]byte, error) {
		builds.Add(1)
		return []byte("doc"), nil
	}

	key := SitemapIndexKey("https://wayfare.example.com")
	_, _ = oc.GetOrBuild(ctx, key, build)
	if err := oc.Invalidate(ctx, key); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}
	_, _ = oc.GetOrBuild(ctx, key, build)

	if builds.Load() != 2 {
		t.Errorf("build ran %d times, want 2 after invalidation", builds.Load())
	}
}

func TestOutputCacheConcurrentColdKey(t *testing.T) {
	oc := newTestOutputCache(t)
	ctx := context.Background()

	var builds atomic.Int32
	build := func(context.Context) ([]byte, error) {
		builds.Add(1)
		time.Sleep(5 * time.Millisecond)
		return []byte("doc"), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := oc.GetOrBuild(ctx, SitemapKey("pt", "https://wayfare.example.com"), build)
			if err != nil || string(out) != "doc" {
				t.Errorf("GetOrBuild = (%q, %v)", out, err)
			}
		}()
	}
	wg.Wait()

	if builds.Load() != 1 {
		t.Errorf("build ran %d times for a cold key, want 1", builds.Load())
	}
}

func TestOutputKeysVaryByBaseURL(t *testing.T) {
	if got := SitemapKey("it", "https://a.example"); got != "output:sitemap:it:https://a.example" {
		t.Errorf("SitemapKey = %q", got)
	}
	if RobotsKey("https://a.example") == RobotsKey("https://b.example") {
		t.Error("robots keys collide across base URLs")
	}
	if SitemapIndexKey("https://a.example") == SitemapIndexKey("https://b.example") {
		t.Error("sitemap index keys collide across base URLs")
	}
}
