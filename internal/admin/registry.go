package admin

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mesh-intelligence/tenderlist/pkg/types"
)

// DefaultSessionTTL is how long an untouched session stays open.
const DefaultSessionTTL = 2 * time.Hour

// Registry holds the open edit sessions of a running server. A session not
// used for the TTL is dropped the next time the registry is accessed.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*openSession
	ttl      time.Duration
	now      func() time.Time
}

type openSession struct {
	session *Session
	used    time.Time
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithSessionTTL sets the idle lifetime of a session. Zero or less keeps
// sessions until they are saved or discarded.
func WithSessionTTL(ttl time.Duration) RegistryOption {
	return func(r *Registry) { r.ttl = ttl }
}

// WithRegistryClock replaces time.Now.
func WithRegistryClock(now func() time.Time) RegistryOption {
	return func(r *Registry) { r.now = now }
}

// NewRegistry returns an empty Registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		sessions: make(map[string]*openSession),
		ttl:      DefaultSessionTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Open starts a session over tables.
func (r *Registry) Open(tables types.Tables) *Session {
	s := NewSession(tables)
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	r.sweep(now)
	r.sessions[s.ID] = &openSession{session: s, used: now}
	return s
}

// Get returns session id and marks it as used.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	r.sweep(now)
	e, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrSessionNotFound, id)
	}
	e.used = now
	return e.session, nil
}

// Discard drops session id.
func (r *Registry) Discard(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweep(r.now())
	return len(r.sessions)
}

// Sweep drops idle sessions and returns how many were dropped.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sweep(r.now())
}

// sweep requires r.mu.
func (r *Registry) sweep(now time.Time) int {
	if r.ttl <= 0 {
		return 0
	}
	dropped := 0
	for id, e := range r.sessions {
		if now.Sub(e.used) >= r.ttl {
			delete(r.sessions, id)
			dropped++
		}
	}
	return dropped
}

// Commit saves session id with e. The session is discarded only when every
// table was written; otherwise it stays open so the save can be retried.
func (r *Registry) Commit(ctx context.Context, e *Editor, id string) (*SaveReport, error) {
	s, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	report, err := e.SaveSession(ctx, s)
	if err == nil {
		r.Discard(id)
	}
	return report, err
}
