package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/polkiloo/vinylstore/internal/domain/errors"
	"github.com/polkiloo/vinylstore/internal/domain/repository"
)

// pgxPool is the subset of pgxpool.Pool used by storage.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage persists named cart slots in PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type cartSlotRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// CartSlots returns the cart slot repository.
func (s *Storage) CartSlots() repository.CartSlotRepository {
	return &cartSlotRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS cart_slots (
            name TEXT PRIMARY KEY,
            payload JSONB NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- CartSlotRepository implementation ---

func (r *cartSlotRepository) Load(ctx context.Context, slot string) ([]byte, error) {
	const query = `SELECT payload FROM cart_slots WHERE name=$1`
	var payload []byte
	err := r.storage.pool.QueryRow(ctx, query, slot).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return payload, nil
}

// Save overwrites the slot. Concurrent writers resolve as last write wins.
func (r *cartSlotRepository) Save(ctx context.Context, slot string, payload []byte) error {
	const query = `INSERT INTO cart_slots (name, payload, updated_at) VALUES ($1, $2, NOW())
                   ON CONFLICT (name) DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()`
	if _, err := r.storage.pool.Exec(ctx, query, slot, payload); err != nil {
		return fmt.Errorf("save cart slot: %w", err)
	}
	return nil
}

func (r *cartSlotRepository) Delete(ctx context.Context, slot string) error {
	const query = `DELETE FROM cart_slots WHERE name=$1`
	if _, err := r.storage.pool.Exec(ctx, query, slot); err != nil {
		return fmt.Errorf("delete cart slot: %w", err)
	}
	return nil
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}
