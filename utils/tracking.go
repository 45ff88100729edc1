package utils

import (
	"sync"
	"time"
)

// NameSet is a thread-safe set for tracking restaurant names already
// accepted during a run. Dedup is name-based: two distinct restaurants
// sharing a display name collide, which is a documented tolerance of the
// source site.
type NameSet struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

// NewNameSet creates an empty NameSet.
func NewNameSet() *NameSet {
	return &NameSet{seen: make(map[string]struct{})}
}

// Add returns true if the name was newly added, false if already present.
func (s *NameSet) Add(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.seen[name]; exists {
		return false
	}
	s.seen[name] = struct{}{}
	return true
}

// Contains returns true if the name has already been accepted.
func (s *NameSet) Contains(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.seen[name]
	return exists
}

// Size returns the number of unique names tracked.
func (s *NameSet) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}

// Pacer enforces a minimum interval between navigations on the single
// browser session. A zero interval disables pacing.
type Pacer struct {
	mu          sync.Mutex
	minInterval time.Duration
	lastRequest time.Time
}

// NewPacer creates a Pacer with the given minimum interval in milliseconds.
func NewPacer(rateLimitMs int) *Pacer {
	return &Pacer{
		minInterval: time.Duration(rateLimitMs) * time.Millisecond,
	}
}

// Wait blocks until at least the configured interval has passed since the
// previous call.
func (p *Pacer) Wait() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.minInterval <= 0 {
		return
	}
	if !p.lastRequest.IsZero() {
		if elapsed := time.Since(p.lastRequest); elapsed < p.minInterval {
			time.Sleep(p.minInterval - elapsed)
		}
	}
	p.lastRequest = time.Now()
}
