// Package event records which inbound cart commands were already applied.
package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"gofalre.io/storefront/driver"
)

const processedKeyPrefix = "cart:command:"

type Repository interface {
	// MarkProcessed records id and reports whether it had not been seen before.
	MarkProcessed(ctx context.Context, id string) (bool, error)
}

var (
	_ Repository = (*redisRepository)(nil)
	_ Repository = (*memoryRepository)(nil)
	_ Repository = (*postgresRepository)(nil)
)

type redisRepository struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisRepository(client *redis.Client, ttl time.Duration, logger *zap.Logger) Repository {
	return &redisRepository{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (r *redisRepository) MarkProcessed(ctx context.Context, id string) (bool, error) {
	fresh, err := r.client.SetNX(ctx, processedKeyPrefix+id, time.Now().Unix(), r.ttl).Result()
	if err != nil {
		r.logger.Error("Failed to record processed command", zap.String("command_id", id), zap.Error(err))
		return false, fmt.Errorf("failed to record command %s: %w", id, err)
	}
	return fresh, nil
}

type memoryRepository struct {
	mu        sync.Mutex
	seen      map[string]time.Time
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
}

// NewMemoryRepository keeps processed ids in memory for ttl; zero keeps them forever.
func NewMemoryRepository(ttl time.Duration) Repository {
	return &memoryRepository{
		seen: make(map[string]time.Time),
		ttl:  ttl,
		now:  time.Now,
	}
}

func (r *memoryRepository) MarkProcessed(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweep(now)

	if at, ok := r.seen[id]; ok && (r.ttl == 0 || now.Sub(at) < r.ttl) {
		return false, nil
	}
	r.seen[id] = now
	return true, nil
}

// sweep drops expired ids, at most once per ttl.
func (r *memoryRepository) sweep(now time.Time) {
	if r.ttl == 0 || now.Sub(r.lastSweep) < r.ttl {
		return
	}
	for id, at := range r.seen {
		if now.Sub(at) >= r.ttl {
			delete(r.seen, id)
		}
	}
	r.lastSweep = now
}

// 已處理指令
type postgresRepository struct {
	conn   driver.PostgresPool
	logger *zap.Logger
}

// NewPostgresRepository creates the cart_commands table when missing.
// Ids are kept until removed by hand.
func NewPostgresRepository(ctx context.Context, conn driver.PostgresPool, logger *zap.Logger) (Repository, error) {
	const ddl = `CREATE TABLE IF NOT EXISTS cart_commands (
		id           TEXT PRIMARY KEY,
		processed_at TIMESTAMPTZ NOT NULL
	)`
	if _, err := conn.Exec(ctx, ddl); err != nil {
		return nil, fmt.Errorf("failed to create cart_commands table: %w", err)
	}

	return &postgresRepository{
		conn:   conn,
		logger: logger,
	}, nil
}

func (r *postgresRepository) MarkProcessed(ctx context.Context, id string) (bool, error) {
	tag, err := r.conn.Exec(ctx,
		`INSERT INTO cart_commands (id, processed_at) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
		id, pgtype.Timestamptz{Time: time.Now(), Valid: true})
	if err != nil {
		r.logger.Error("Failed to record processed command", zap.String("command_id", id), zap.Error(err))
		return false, fmt.Errorf("failed to record command %s: %w", id, err)
	}
	return tag.RowsAffected() == 1, nil
}
