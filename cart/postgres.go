package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"gofalre.io/storefront/driver"
	"gofalre.io/storefront/models"
)

var _ Repository = (*PostgresRepository)(nil)

const createCartItemsTable = `
CREATE TABLE IF NOT EXISTS cart_items (
	cart_key   TEXT        NOT NULL,
	position   INT         NOT NULL,
	name       TEXT        NOT NULL,
	unit_price NUMERIC     NOT NULL CHECK (unit_price >= 0),
	image_ref  TEXT        NOT NULL DEFAULT '',
	quantity   INT         NOT NULL CHECK (quantity >= 1),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (cart_key, name)
)`

// PostgresRepository keeps one row per line item. Save replaces the rows of
// a cart inside a single transaction.
type PostgresRepository struct {
	conn   driver.PostgresPool
	tm     *driver.TransactionManager
	logger *zap.Logger
}

func NewPostgresRepository(conn driver.PostgresPool, tm *driver.TransactionManager, logger *zap.Logger) *PostgresRepository {
	return &PostgresRepository{
		conn:   conn,
		tm:     tm,
		logger: logger,
	}
}

func (r *PostgresRepository) Migrate(ctx context.Context) error {
	if _, err := r.conn.Exec(ctx, createCartItemsTable); err != nil {
		return fmt.Errorf("failed to create cart_items table: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Load(ctx context.Context, key string) (*models.Cart, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT name, unit_price::text, image_ref, quantity
		FROM cart_items
		WHERE cart_key = $1
		ORDER BY position`, key)
	if err != nil {
		r.logger.Error("Failed to list cart items", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	cart := models.NewCart("")
	for rows.Next() {
		var (
			item  models.LineItem
			price string
		)
		if err = rows.Scan(&item.Name, &price, &item.ImageRef, &item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		if item.UnitPrice, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("invalid unit price %q for %s: %w", price, item.Name, err)
		}
		cart.Items = append(cart.Items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return cart, nil
}

func (r *PostgresRepository) Save(ctx context.Context, key string, cart *models.Cart) error {
	return r.tm.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_key = $1`, key); err != nil {
			return fmt.Errorf("failed to clear cart items: %w", err)
		}
		if len(cart.Items) == 0 {
			return nil
		}

		updatedAt := pgtype.Timestamptz{Time: time.Now(), Valid: true}
		batch := &pgx.Batch{}
		for i, item := range cart.Items {
			var price pgtype.Numeric
			if err := price.Scan(item.UnitPrice.String()); err != nil {
				return fmt.Errorf("failed to encode unit price for %s: %w", item.Name, err)
			}
			batch.Queue(`
				INSERT INTO cart_items (cart_key, position, name, unit_price, image_ref, quantity, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				key, i, item.Name, price, item.ImageRef, item.Quantity, updatedAt)
		}

		results := tx.SendBatch(ctx, batch)
		for _, item := range cart.Items {
			if _, err := results.Exec(); err != nil {
				_ = results.Close()
				return fmt.Errorf("failed to insert cart item %s: %w", item.Name, err)
			}
		}
		return results.Close()
	})
}
