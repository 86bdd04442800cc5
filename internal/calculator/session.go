package calculator

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"calcify/internal/history"
	"calcify/internal/observability"
	"calcify/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionKeyPrefix prefixes the storage key of every session's history.
const SessionKeyPrefix = history.DefaultKey + "/"

// Registry defaults.
const (
	DefaultIdleTTL     = 30 * time.Minute
	DefaultMaxSessions = 1000
)

// Session is one calculator owned by an HTTP client. Its mutex serialises
// events so the machine only ever sees one at a time.
type Session struct {
	ID        string
	CreatedAt time.Time

	lastUsed atomic.Int64 // unix nanoseconds

	mu      sync.Mutex
	machine *Machine
}

// Do runs fn with exclusive access to the session's machine.
func (s *Session) Do(fn func(m *Machine)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.machine)
}

// LastUsed returns when the session was last looked up.
func (s *Session) LastUsed() time.Time {
	return time.Unix(0, s.lastUsed.Load())
}

func (s *Session) touch(now time.Time) {
	s.lastUsed.Store(now.UnixNano())
}

// Registry holds live sessions. Sessions idle for longer than the TTL are
// dropped by Sweep, and creating a session past the cap evicts the least
// recently used one. Persisted history outlives eviction.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	store    storage.Store

	idleTTL     time.Duration
	maxSessions int
	now         func() time.Time
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithIdleTTL sets how long a session may go unused before Sweep drops it.
// Zero or less disables idle eviction.
func WithIdleTTL(ttl time.Duration) RegistryOption {
	return func(r *Registry) { r.idleTTL = ttl }
}

// WithMaxSessions caps the number of live sessions. Zero or less means no cap.
func WithMaxSessions(n int) RegistryOption {
	return func(r *Registry) { r.maxSessions = n }
}

// WithRegistryClock overrides the registry's clock.
func WithRegistryClock(now func() time.Time) RegistryOption {
	return func(r *Registry) { r.now = now }
}

// NewRegistry returns an empty registry persisting history to store.
func NewRegistry(store storage.Store, opts ...RegistryOption) *Registry {
	if store == nil {
		store = storage.NewMemory()
	}
	r := &Registry{
		sessions:    make(map[string]*Session),
		store:       store,
		idleTTL:     DefaultIdleTTL,
		maxSessions: DefaultMaxSessions,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create starts a new session with a fresh id.
func (r *Registry) Create(ctx context.Context) *Session {
	id := uuid.NewString()
	repo := history.NewRepository(r.store, SessionKeyPrefix+id)

	now := r.now()
	s := &Session{
		ID:        id,
		CreatedAt: now,
		machine:   NewMachine(ctx, WithRepository(repo)),
	}
	s.touch(now)

	r.mu.Lock()
	if r.maxSessions > 0 && len(r.sessions) >= r.maxSessions {
		r.evictLocked(r.leastRecentlyUsedLocked(), "capacity")
	}
	r.sessions[id] = s
	r.mu.Unlock()

	sessionsCreated.Inc()
	sessionsActive.Inc()
	return s
}

// Get returns the session with id and marks it used.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()

	if ok {
		s.touch(r.now())
	}
	return s, ok
}

// Delete drops the session with id. Its persisted history is kept.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return false
	}

	delete(r.sessions, id)
	sessionsActive.Dec()
	return true
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep drops every session idle for longer than the TTL and returns how
// many were dropped.
func (r *Registry) Sweep() int {
	if r.idleTTL <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.idleTTL)

	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, s := range r.sessions {
		if s.LastUsed().Before(cutoff) {
			r.evictLocked(s, "idle")
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				observability.Logger.Info("idle sessions evicted", zap.Int("count", n))
			}
		}
	}
}

func (r *Registry) leastRecentlyUsedLocked() *Session {
	var oldest *Session
	for _, s := range r.sessions {
		if oldest == nil || s.lastUsed.Load() < oldest.lastUsed.Load() {
			oldest = s
		}
	}
	return oldest
}

func (r *Registry) evictLocked(s *Session, reason string) {
	if s == nil {
		return
	}

	delete(r.sessions, s.ID)
	sessionsActive.Dec()
	sessionsEvicted.WithLabelValues(reason).Inc()

	observability.Logger.Debug("session evicted",
		zap.String("session_id", s.ID),
		zap.String("reason", reason),
		zap.Duration("age", r.now().Sub(s.CreatedAt)),
	)
}
