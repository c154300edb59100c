package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/polkiloo/vinylstore/internal/config"
	"github.com/polkiloo/vinylstore/internal/domain/repository"
)

// CartRegistry hands out one CartManager per user.
type CartRegistry struct {
	mu       sync.Mutex
	managers map[int64]*CartManager
	store    repository.CartSlotRepository
	prefix   string
	logger   *slog.Logger
}

// NewCartRegistry constructs CartRegistry.
func NewCartRegistry(store repository.CartSlotRepository, cfg *config.Config, logger *slog.Logger) *CartRegistry {
	return &CartRegistry{
		managers: make(map[int64]*CartManager),
		store:    store,
		prefix:   cfg.CartSlotPrefix,
		logger:   logger,
	}
}

// SlotName returns the persisted slot of userID.
func SlotName(prefix string, userID int64) string {
	return fmt.Sprintf("%s:%d", prefix, userID)
}

// Manager returns the cart manager of userID, hydrating it on first use.
// A failed load leaves it empty until a later call retries.
func (r *CartRegistry) Manager(ctx context.Context, userID int64) *CartManager {
	r.mu.Lock()
	m, ok := r.managers[userID]
	if !ok {
		m = NewCartManager(r.store, SlotName(r.prefix, userID), r.logger)
		r.managers[userID] = m
	}
	r.mu.Unlock()

	_ = m.Hydrate(ctx)
	return m
}

// Release forgets the in-memory manager of userID. The persisted slot is kept.
func (r *CartRegistry) Release(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.managers, userID)
}

// Active returns number of managers held in memory.
func (r *CartRegistry) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.managers)
}
