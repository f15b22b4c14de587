// Package ratelimit throttles login attempts and per-client request rates.
package ratelimit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/codr1/Courtly/internal/clock"
)

// Config holds login lockout configuration.
type Config struct {
	MaxAttempts int           // Failed logins per email+IP before lockout (default: 5)
	Lockout     time.Duration // Lockout duration after max attempts (default: 5m)

	// Clock for testing (nil uses real time)
	Clock clock.Clock
}

// DefaultConfig returns production-ready defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxAttempts: 5,
		Lockout:     5 * time.Minute,
	}
}

// LimitResult contains the result of a rate limit check.
type LimitResult struct {
	Allowed    bool
	RetryAfter time.Duration
	Reason     string // For logging
}

type entry struct {
	count    int
	lastAt   time.Time
	lockedAt time.Time // When lockout started (zero if not locked)
}

// Limiter locks out an email+IP pair after repeated failed logins.
type Limiter struct {
	config *Config
	clock  clock.Clock
	mu     sync.RWMutex
	// Keyed by hash of email and IP
	failures map[string]*entry

	// Cleanup goroutine management
	cleanupCtx    context.Context
	cleanupCancel context.CancelFunc
	cleanupOnce   sync.Once
	cleanupWg     sync.WaitGroup
}

// New creates a new login limiter with the given config.
func New(cfg *Config) *Limiter {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Limiter{
		config:        cfg,
		clock:         clock.OrReal(cfg.Clock),
		failures:      make(map[string]*entry),
		cleanupCtx:    ctx,
		cleanupCancel: cancel,
	}
}

// Close stops the cleanup goroutine and releases resources.
func (l *Limiter) Close() {
	l.cleanupCancel()
	l.cleanupWg.Wait()
}

// Check reports whether a login attempt is allowed.
// Does NOT record the attempt - call RecordFailure when the credentials are rejected.
func (l *Limiter) Check(email, ip string) LimitResult {
	if l.config.MaxAttempts <= 0 {
		return LimitResult{Allowed: true}
	}
	l.startCleanup()
	now := l.clock.Now()
	key := l.key(email, ip)

	l.mu.RLock()
	defer l.mu.RUnlock()

	e := l.failures[key]
	if e == nil {
		return LimitResult{Allowed: true}
	}
	if !e.lockedAt.IsZero() {
		elapsed := now.Sub(e.lockedAt)
		if elapsed < l.config.Lockout {
			return LimitResult{
				Allowed:    false,
				RetryAfter: l.config.Lockout - elapsed,
				Reason:     "lockout",
			}
		}
		// Lockout expired - next failure starts a fresh count
	}
	return LimitResult{Allowed: true}
}

// RecordFailure records a rejected login.
// Returns true if this failure triggered the lockout.
func (l *Limiter) RecordFailure(email, ip string) (lockedOut bool) {
	if l.config.MaxAttempts <= 0 {
		return false
	}
	now := l.clock.Now()
	key := l.key(email, ip)

	l.mu.Lock()
	defer l.mu.Unlock()

	e := l.failures[key]
	if e == nil || (!e.lockedAt.IsZero() && now.Sub(e.lockedAt) >= l.config.Lockout) {
		e = &entry{}
		l.failures[key] = e
	}
	e.count++
	e.lastAt = now
	if e.count >= l.config.MaxAttempts && e.lockedAt.IsZero() {
		e.lockedAt = now
		lockedOut = true
	}
	return lockedOut
}

// Reset clears the failure counter after a successful login.
func (l *Limiter) Reset(email, ip string) {
	key := l.key(email, ip)
	l.mu.Lock()
	delete(l.failures, key)
	l.mu.Unlock()
}

func (l *Limiter) key(email, ip string) string {
	hash := sha256.Sum256([]byte(normalizeIdentifier(email) + "|" + ip))
	return hex.EncodeToString(hash[:8])
}

// normalizeIdentifier lowercases the identifier to prevent case-based bypass.
func normalizeIdentifier(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}

func (l *Limiter) startCleanup() {
	l.cleanupOnce.Do(func() {
		l.cleanupWg.Add(1)
		go func() {
			defer l.cleanupWg.Done()
			ticker := time.NewTicker(5 * time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-l.cleanupCtx.Done():
					return
				case <-ticker.C:
					l.cleanup()
				}
			}
		}()
	})
}

func (l *Limiter) cleanup() {
	now := l.clock.Now()
	maxAge := l.config.Lockout + time.Hour

	l.mu.Lock()
	defer l.mu.Unlock()

	for k, e := range l.failures {
		if now.Sub(e.lastAt) > maxAge {
			delete(l.failures, k)
		}
	}
}
