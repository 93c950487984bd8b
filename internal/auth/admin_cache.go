package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	// ErrCheckBackoff is returned while the cache is waiting out a retry delay
	// after repeated lookup failures.
	ErrCheckBackoff = errors.New("admin check backing off after repeated failures")
)

const maxBackoff = 8 * time.Second

// RoleLookup fetches the current role for a user id from the backing store.
type RoleLookup func(ctx context.Context, userID int) (string, error)

// AdminCache memoizes "is this user an admin" determinations so that repeated
// authorization checks within the TTL do not hit the database. A determination
// expires after ttl; lookups race against checkTimeout; consecutive failures
// back off exponentially (1s, 2s, 4s, capped at 8s) before the next attempt.
//
// The cache is an injected dependency, not a package global, so invalidation
// and TTL behavior stay testable.
type AdminCache struct {
	lookup       RoleLookup
	ttl          time.Duration
	checkTimeout time.Duration

	mu      sync.Mutex
	entries map[int]*adminEntry

	now func() time.Time // overridable in tests
}

type adminEntry struct {
	inflight  chan struct{} // non-nil while a check is running
	resolved  bool
	isAdmin   bool
	checkedAt time.Time
	failures  int
	nextRetry time.Time
}

// NewAdminCache creates a cache with the given determination TTL and
// per-check timeout.
func NewAdminCache(lookup RoleLookup, ttl, checkTimeout time.Duration) *AdminCache {
	return &AdminCache{
		lookup:       lookup,
		ttl:          ttl,
		checkTimeout: checkTimeout,
		entries:      make(map[int]*adminEntry),
		now:          time.Now,
	}
}

// IsAdmin reports whether the user currently holds the admin role, consulting
// the cache first. Concurrent callers for the same user share one lookup.
func (c *AdminCache) IsAdmin(ctx context.Context, userID int) (bool, error) {
	for {
		c.mu.Lock()
		entry, ok := c.entries[userID]
		if !ok {
			entry = &adminEntry{}
			c.entries[userID] = entry
		}

		now := c.now()

		// Fresh determination: answer from cache, no lookup.
		if entry.resolved && now.Sub(entry.checkedAt) < c.ttl {
			isAdmin := entry.isAdmin
			c.mu.Unlock()
			return isAdmin, nil
		}

		// Still inside a failure backoff window.
		if entry.failures > 0 && now.Before(entry.nextRetry) {
			c.mu.Unlock()
			return false, ErrCheckBackoff
		}

		// Another caller is already checking; wait for it and re-read.
		if entry.inflight != nil {
			done := entry.inflight
			c.mu.Unlock()
			select {
			case <-done:
				continue
			case <-ctx.Done():
				return false, ctx.Err()
			}
		}

		done := make(chan struct{})
		entry.inflight = done
		c.mu.Unlock()

		isAdmin, err := c.check(ctx, userID)

		c.mu.Lock()
		entry.inflight = nil
		close(done)
		if err != nil {
			entry.failures++
			entry.nextRetry = c.now().Add(backoffDelay(entry.failures))
			c.mu.Unlock()
			return false, fmt.Errorf("admin check failed: %w", err)
		}
		entry.resolved = true
		entry.isAdmin = isAdmin
		entry.checkedAt = c.now()
		entry.failures = 0
		c.mu.Unlock()
		return isAdmin, nil
	}
}

func (c *AdminCache) check(ctx context.Context, userID int) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.checkTimeout)
	defer cancel()

	role, err := c.lookup(ctx, userID)
	if err != nil {
		return false, err
	}
	return role == "admin", nil
}

// Invalidate drops the cached determination for one user. Called on sign-out
// and on any auth-state change for that user.
func (c *AdminCache) Invalidate(userID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
}

// InvalidateAll drops every cached determination.
func (c *AdminCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[int]*adminEntry)
}

// backoffDelay returns 2^(failures-1) seconds capped at maxBackoff.
func backoffDelay(failures int) time.Duration {
	d := time.Second
	for i := 1; i < failures; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}
