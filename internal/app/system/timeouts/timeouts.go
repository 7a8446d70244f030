// Package timeouts provides centralized timeout values for upstream API
// calls made from HTTP handlers.
//
// These are used with context.WithTimeout around the GitHub and
// Artifactory fan-out. The membership resolution itself imposes no
// deadline; the handler layer does, so a hung upstream does not hang
// the request forever.
//
// Guidelines:
//   - Short: a single upstream lookup (one user record, one team)
//   - Page: the full fan-out behind one rendered page, including the
//     recursive team expansion whose depth the upstream controls
package timeouts

import (
	"sync"
	"time"
)

// Default timeout values (used if Configure is not called).
const (
	DefaultShort = 5 * time.Second
	DefaultPage  = 30 * time.Second
)

var (
	mu    sync.RWMutex
	short = DefaultShort
	page  = DefaultPage
)

// Short returns the timeout for a single upstream call.
func Short() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return short
}

// Page returns the timeout for the full upstream fan-out behind one
// rendered page.
func Page() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return page
}

// Config holds timeout overrides. Zero values keep the defaults.
type Config struct {
	Short time.Duration
	Page  time.Duration
}

// Configure sets custom timeout values at startup, before handlers are
// registered. Zero values in the config are ignored.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Short > 0 {
		short = cfg.Short
	}
	if cfg.Page > 0 {
		page = cfg.Page
	}
}

// Reset restores the defaults. Useful for testing.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	short = DefaultShort
	page = DefaultPage
}
