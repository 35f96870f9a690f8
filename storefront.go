// Package storefront wires a cart session together: the storage backend
// chosen by config, the cart store, its views, and the NATS command feed.
package storefront

import (
	"context"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/stripe/stripe-go/v79"
	"go.uber.org/zap"

	"gofalre.io/storefront/cart"
	"gofalre.io/storefront/config"
	"gofalre.io/storefront/driver"
	"gofalre.io/storefront/event"
	"gofalre.io/storefront/view"
)

// App owns one cart session and the connections behind it.
type App struct {
	cfg *config.Config

	store     *cart.Store
	commands  *CommandManager
	processed event.Repository

	natsConn    *nats.Conn
	redisClient *redis.Client
	pgPool      driver.PostgresPool
	closers     []func()

	logger *zap.Logger
}

// New opens the configured backend, hydrates the cart and attaches views.
// When NATS is configured every change is also published as a CartEvent.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, views ...cart.View) (*App, error) {
	a := &App{
		cfg:    cfg,
		logger: logger,
	}

	repo, err := a.openRepository(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	key := cfg.Storage.Key
	if cfg.Storage.Shared() {
		key = cart.SessionKey(key, cfg.Storage.Session)
	}
	currency := stripe.Currency(strings.ToLower(cfg.Cart.Currency))
	a.store = cart.NewStore(repo, key, currency, logger, views...)

	if cfg.NATS.URL != "" {
		nc, err := driver.ConnectNATS(cfg.NATS.URL, cfg.NATS.ConnectTimeout, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.natsConn = nc
		a.closers = append(a.closers, nc.Close)
		a.store.AddView(view.NewPublisher(nc, cfg.NATS.EventSubject, cfg.Storage.Session, logger))
	}

	if err = a.openProcessedLog(ctx); err != nil {
		a.Close()
		return nil, err
	}

	var subscriber Subscriber
	if a.natsConn != nil {
		subscriber = a.natsConn
	}
	a.commands = NewCommandManager(subscriber, cfg.NATS.CommandSubject, logger)
	a.registerCommandHandlers()

	if err = a.store.Hydrate(ctx); err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

func (a *App) Store() *cart.Store {
	return a.store
}

// Serve renders the current cart, then applies cart commands from NATS until
// ctx is cancelled. Once subscribed, only the single worker touches the
// store.
func (a *App) Serve(ctx context.Context) error {
	a.store.Refresh(ctx)

	workerPool := NewWorkerPool(1, a, a.logger)
	defer workerPool.Shutdown()

	sub, err := a.commands.SubscribeToCommands(workerPool)
	if err != nil {
		return fmt.Errorf("failed to subscribe to cart commands: %w", err)
	}
	a.logger.Info("Listening for cart commands",
		zap.String("subject", a.cfg.NATS.CommandSubject+".>"),
		zap.String("key", a.store.Key()))

	<-ctx.Done()

	if err = sub.Unsubscribe(); err != nil {
		a.logger.Warn("Failed to unsubscribe from cart commands", zap.Error(err))
	}
	return nil
}

// Close releases every connection New opened, newest first.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *App) openRepository(ctx context.Context) (cart.Repository, error) {
	cfg := a.cfg
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return cart.NewMemoryRepository(), nil

	case config.BackendLocal:
		db, err := driver.OpenSQLite(ctx, cfg.Storage.LocalPath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() {
			if err := db.Close(); err != nil {
				a.logger.Warn("Failed to close sqlite database", zap.Error(err))
			}
		})
		return cart.NewSQLiteRepository(ctx, db, a.logger)

	case config.BackendRedis:
		client, err := a.connectRedis(ctx)
		if err != nil {
			return nil, err
		}
		return cart.NewRedisRepository(client, cfg.Storage.TTL, a.logger), nil

	case config.BackendPostgres:
		pool, err := driver.ConnectSQL(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pool.Close)
		a.pgPool = pool

		repo := cart.NewPostgresRepository(pool, driver.NewTransactionManager(pool, a.logger), a.logger)
		if err = repo.Migrate(ctx); err != nil {
			return nil, err
		}
		return repo, nil
	}

	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}

// openProcessedLog keeps processed command ids in redis when one is
// configured, then in postgres when that is the cart backend, so replays are
// caught across restarts; in memory otherwise.
func (a *App) openProcessedLog(ctx context.Context) error {
	switch {
	case a.cfg.Redis.Addr != "":
		client, err := a.connectRedis(ctx)
		if err != nil {
			return err
		}
		a.processed = event.NewRedisRepository(client, a.cfg.NATS.DedupeTTL, a.logger)

	case a.pgPool != nil:
		repo, err := event.NewPostgresRepository(ctx, a.pgPool, a.logger)
		if err != nil {
			return err
		}
		a.processed = repo

	default:
		a.processed = event.NewMemoryRepository(a.cfg.NATS.DedupeTTL)
	}
	return nil
}

func (a *App) connectRedis(ctx context.Context) (*redis.Client, error) {
	if a.redisClient != nil {
		return a.redisClient, nil
	}

	client, err := driver.ConnectRedis(ctx, a.cfg.Redis.Addr, a.cfg.Redis.Password, a.cfg.Redis.DB, a.logger)
	if err != nil {
		return nil, err
	}
	a.redisClient = client
	a.closers = append(a.closers, func() {
		if err := client.Close(); err != nil {
			a.logger.Warn("Failed to close redis client", zap.Error(err))
		}
	})
	return client, nil
}
