package cart

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gofalre.io/storefront/driver"
	"gofalre.io/storefront/driver/drivertest"
	"gofalre.io/storefront/models"
)

var _ driver.PostgresPool = (*drivertest.MockPool)(nil)

func sqlPrefix(prefix string) any {
	return mock.MatchedBy(func(sql string) bool {
		return strings.HasPrefix(strings.TrimSpace(sql), prefix)
	})
}

func newPostgresTestRepository(tx *drivertest.MockTx) (*PostgresRepository, *drivertest.MockPool) {
	pool := &drivertest.MockPool{}
	if tx != nil {
		pool.On("BeginTx", mock.Anything, mock.Anything).Return(tx, nil)
	}
	tm := driver.NewTransactionManager(pool, zap.NewNop())
	return NewPostgresRepository(pool, tm, zap.NewNop()), pool
}

func TestPostgresLoadKeepsPositionOrderAndPrices(t *testing.T) {
	ctx := context.Background()
	repo, pool := newPostgresTestRepository(nil)
	rows := drivertest.NewRows(
		[]any{"Shirt", "20.00", "shirt.jpg", 2},
		[]any{"Hat", "15.5", "", 1},
	)
	orderedQuery := mock.MatchedBy(func(sql string) bool { return strings.Contains(sql, "ORDER BY position") })
	pool.On("Query", ctx, orderedQuery).Return(rows, nil).Once()

	cart, err := repo.Load(ctx, "azmCart:abc")
	require.NoError(t, err)

	require.Len(t, cart.Items, 2)
	assert.Equal(t, "Shirt", cart.Items[0].Name)
	assert.True(t, cart.Items[0].UnitPrice.Equal(decimal.RequireFromString("20")))
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, "Hat", cart.Items[1].Name)
	assert.Equal(t, "15.50", cart.Items[1].UnitPrice.StringFixed(2))
	assert.True(t, rows.Closed())
	pool.AssertExpectations(t)
}

func TestPostgresLoadEmpty(t *testing.T) {
	ctx := context.Background()
	repo, pool := newPostgresTestRepository(nil)
	pool.On("Query", ctx, mock.Anything).Return(drivertest.NewRows(), nil)

	cart, err := repo.Load(ctx, "azmCart:abc")
	require.NoError(t, err)
	assert.NotNil(t, cart.Items)
	assert.Empty(t, cart.Items)
}

func TestPostgresLoadErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("query", func(t *testing.T) {
		repo, pool := newPostgresTestRepository(nil)
		pool.On("Query", ctx, mock.Anything).Return(nil, errors.New("no connection"))

		_, err := repo.Load(ctx, "k")
		assert.Error(t, err)
	})

	t.Run("bad price", func(t *testing.T) {
		repo, pool := newPostgresTestRepository(nil)
		pool.On("Query", ctx, mock.Anything).Return(drivertest.NewRows([]any{"Shirt", "NaN?", "", 1}), nil)

		_, err := repo.Load(ctx, "k")
		assert.ErrorContains(t, err, "invalid unit price")
	})

	t.Run("rows error", func(t *testing.T) {
		repo, pool := newPostgresTestRepository(nil)
		pool.On("Query", ctx, mock.Anything).Return(drivertest.NewRows().WithErr(errors.New("stream reset")), nil)

		_, err := repo.Load(ctx, "k")
		assert.Error(t, err)
	})
}

func TestPostgresSaveReplacesRowsInOneTransaction(t *testing.T) {
	ctx := context.Background()
	tx := &drivertest.MockTx{}
	results := &drivertest.MockBatchResults{}
	repo, pool := newPostgresTestRepository(tx)

	cart := models.NewCart("usd")
	cart.Items = []models.LineItem{
		{Name: "Shirt", UnitPrice: decimal.RequireFromString("20.00"), ImageRef: "shirt.jpg", Quantity: 5},
		{Name: "Hat", UnitPrice: decimal.RequireFromString("15"), Quantity: 1},
	}

	var sent *pgx.Batch
	tx.On("Exec", ctx, sqlPrefix("DELETE FROM cart_items")).Return(pgconn.NewCommandTag("DELETE 3"), nil).Once()
	tx.On("SendBatch", ctx, mock.Anything).Run(func(args mock.Arguments) {
		sent = args.Get(1).(*pgx.Batch)
	}).Return(results).Once()
	results.On("Exec").Return(pgconn.NewCommandTag("INSERT 0 1"), nil).Twice()
	results.On("Close").Return(nil).Once()
	tx.On("Commit", mock.Anything).Return(nil).Once()

	require.NoError(t, repo.Save(ctx, "azmCart:abc", cart))

	require.NotNil(t, sent)
	require.Equal(t, 2, sent.Len())
	for i, item := range cart.Items {
		args := sent.QueuedQueries[i].Arguments
		assert.Equal(t, "azmCart:abc", args[0])
		assert.Equal(t, i, args[1])
		assert.Equal(t, item.Name, args[2])
		assert.Equal(t, item.Quantity, args[5])
	}
	tx.AssertExpectations(t)
	results.AssertExpectations(t)
	pool.AssertNumberOfCalls(t, "BeginTx", 1)
}

func TestPostgresSaveEmptyCartOnlyDeletes(t *testing.T) {
	ctx := context.Background()
	tx := &drivertest.MockTx{}
	repo, _ := newPostgresTestRepository(tx)

	tx.On("Exec", ctx, sqlPrefix("DELETE FROM cart_items")).Return(pgconn.NewCommandTag("DELETE 1"), nil).Once()
	tx.On("Commit", mock.Anything).Return(nil).Once()

	require.NoError(t, repo.Save(ctx, "k", models.NewCart("usd")))

	tx.AssertExpectations(t)
	tx.AssertNotCalled(t, "SendBatch", mock.Anything, mock.Anything)
}

func TestPostgresSaveRollsBackFailedInsert(t *testing.T) {
	ctx := context.Background()
	tx := &drivertest.MockTx{}
	results := &drivertest.MockBatchResults{}
	repo, _ := newPostgresTestRepository(tx)

	cart := models.NewCart("usd")
	cart.Items = []models.LineItem{{Name: "Shirt", UnitPrice: decimal.RequireFromString("20"), Quantity: 1}}

	tx.On("Exec", ctx, sqlPrefix("DELETE FROM cart_items")).Return(pgconn.NewCommandTag("DELETE 0"), nil).Once()
	tx.On("SendBatch", ctx, mock.Anything).Return(results).Once()
	results.On("Exec").Return(pgconn.CommandTag{}, &pgconn.PgError{Code: "23514"}).Once()
	results.On("Close").Return(nil).Once()
	tx.On("Rollback", mock.Anything).Return(nil).Once()

	err := repo.Save(ctx, "k", cart)

	assert.ErrorContains(t, err, "failed to insert cart item Shirt")
	tx.AssertExpectations(t)
	tx.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestPostgresMigrate(t *testing.T) {
	ctx := context.Background()
	repo, pool := newPostgresTestRepository(nil)
	pool.On("Exec", ctx, sqlPrefix("CREATE TABLE IF NOT EXISTS cart_items")).Return(pgconn.NewCommandTag("CREATE TABLE"), nil).Once()

	require.NoError(t, repo.Migrate(ctx))
	pool.AssertExpectations(t)
}
