// Package timeouts centralizes the context timeouts handlers apply to
// database work.
//
// Guidelines:
//   - Ping: health checks and connectivity probes
//   - Short: single-document reads (summary fetch, subject lookup)
//   - Medium: list queries and single-batch submissions
//   - Long: operations touching many documents (summary rebuild)
package timeouts

import (
	"sync"
	"time"
)

// Defaults used when Configure is not called.
const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultLong   = 60 * time.Second
)

var (
	mu      sync.RWMutex
	tPing   = DefaultPing
	tShort  = DefaultShort
	tMedium = DefaultMedium
	tLong   = DefaultLong
)

// Ping returns the timeout for health checks.
func Ping() time.Duration { mu.RLock(); defer mu.RUnlock(); return tPing }

// Short returns the timeout for single-document reads.
func Short() time.Duration { mu.RLock(); defer mu.RUnlock(); return tShort }

// Medium returns the timeout for list queries and submissions.
func Medium() time.Duration { mu.RLock(); defer mu.RUnlock(); return tMedium }

// Long returns the timeout for multi-document batch work.
func Long() time.Duration { mu.RLock(); defer mu.RUnlock(); return tLong }

// Config holds timeout overrides. Zero values keep the current setting.
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
}

// Configure applies overrides. Call during startup, before handlers run.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Ping > 0 {
		tPing = cfg.Ping
	}
	if cfg.Short > 0 {
		tShort = cfg.Short
	}
	if cfg.Medium > 0 {
		tMedium = cfg.Medium
	}
	if cfg.Long > 0 {
		tLong = cfg.Long
	}
}

// Reset restores defaults. Useful for testing.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	tPing = DefaultPing
	tShort = DefaultShort
	tMedium = DefaultMedium
	tLong = DefaultLong
}
