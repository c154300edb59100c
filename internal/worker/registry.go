package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/vinylstore/internal/domain/model"
	"github.com/polkiloo/vinylstore/internal/domain/repository"
)

// ReflectorRegistry runs one Reflector per active user.
type ReflectorRegistry struct {
	source   repository.NotificationSource
	feed     PushFeed
	interval time.Duration
	logger   *slog.Logger

	mu         sync.Mutex
	reflectors map[int64]*Reflector
	closed     bool
}

// NewReflectorRegistry constructs ReflectorRegistry.
func NewReflectorRegistry(source repository.NotificationSource, feed PushFeed, interval time.Duration, logger *slog.Logger) *ReflectorRegistry {
	return &ReflectorRegistry{
		source:     source,
		feed:       feed,
		interval:   interval,
		logger:     logger,
		reflectors: make(map[int64]*Reflector),
	}
}

// Ensure returns the running reflector of session, starting one if needed.
// A session presenting a new token replaces the previous reflector.
func (r *ReflectorRegistry) Ensure(session model.Session) *Reflector {
	r.mu.Lock()
	current, ok := r.reflectors[session.UserID]
	if ok && current.Session().Token == session.Token {
		r.mu.Unlock()
		return current
	}
	next := NewReflector(r.source, r.feed, session, r.interval, r.logger)
	r.reflectors[session.UserID] = next
	closed := r.closed
	r.mu.Unlock()

	if ok {
		current.Stop()
	}
	if !closed {
		// Reflectors live until logout or shutdown, not for one request.
		next.Start(context.Background())
	}
	return next
}

// Get returns the reflector of userID if one is running.
func (r *ReflectorRegistry) Get(userID int64) (*Reflector, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ref, ok := r.reflectors[userID]
	return ref, ok
}

// Stop ends the reflector of userID.
func (r *ReflectorRegistry) Stop(userID int64) {
	r.mu.Lock()
	ref, ok := r.reflectors[userID]
	delete(r.reflectors, userID)
	r.mu.Unlock()

	if ok {
		ref.Stop()
	}
}

// StopAll ends every reflector. Reflectors created afterwards are never started.
func (r *ReflectorRegistry) StopAll() {
	r.mu.Lock()
	r.closed = true
	all := r.reflectors
	r.reflectors = make(map[int64]*Reflector)
	r.mu.Unlock()

	var wg sync.WaitGroup
	for _, ref := range all {
		wg.Add(1)
		go func(ref *Reflector) {
			defer wg.Done()
			ref.Stop()
		}(ref)
	}
	wg.Wait()
}

// Active returns number of running reflectors.
func (r *ReflectorRegistry) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reflectors)
}
