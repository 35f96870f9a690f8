package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"gofalre.io/storefront/models"
)

var _ Repository = (*SQLiteRepository)(nil)

const createStorageTable = `
CREATE TABLE IF NOT EXISTS cart_storage (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

// SQLiteRepository is the local, single-user backend: one encoded cart per
// key in a small key-value table.
type SQLiteRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewSQLiteRepository(ctx context.Context, db *sql.DB, logger *zap.Logger) (*SQLiteRepository, error) {
	if _, err := db.ExecContext(ctx, createStorageTable); err != nil {
		return nil, fmt.Errorf("failed to create cart storage table: %w", err)
	}
	return &SQLiteRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *SQLiteRepository) Load(ctx context.Context, key string) (*models.Cart, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM cart_storage WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NewCart(""), nil
	}
	if err != nil {
		r.logger.Error("Failed to load cart", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	items, err := decodeItems([]byte(value))
	if err != nil {
		return nil, err
	}
	return &models.Cart{Items: items}, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, key string, cart *models.Cart) error {
	data, err := encodeItems(cart.Items)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO cart_storage (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(data), time.Now().Unix())
	if err != nil {
		r.logger.Error("Failed to save cart", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}
