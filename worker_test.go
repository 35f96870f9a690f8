package storefront

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gofalre.io/storefront/models"
	"gofalre.io/storefront/models/enum"
)

type orderedProcessor struct {
	mu  sync.Mutex
	ids []string
	err error
}

func (p *orderedProcessor) ProcessCommand(_ context.Context, cmd *models.CartCommand) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ids = append(p.ids, cmd.ID)
	return p.err
}

func TestWorkerPoolSingleWorkerKeepsOrder(t *testing.T) {
	processor := &orderedProcessor{}
	wp := NewWorkerPool(1, processor, zap.NewNop())

	var want []string
	for i := 0; i < 50; i++ {
		id := strconv.Itoa(i)
		want = append(want, id)
		require.NoError(t, wp.Submit(context.Background(), &models.CartCommand{ID: id, Action: enum.CartActionAdd}))
	}
	wp.Shutdown()

	assert.Equal(t, want, processor.ids)
}

func TestWorkerPoolRejectsAfterShutdown(t *testing.T) {
	wp := NewWorkerPool(0, &orderedProcessor{}, zap.NewNop())
	wp.Shutdown()
	wp.Shutdown()

	err := wp.Submit(context.Background(), &models.CartCommand{ID: "late"})
	assert.ErrorIs(t, err, ErrPoolClosed)
}

func TestWorkerPoolKeepsRunningAfterFailure(t *testing.T) {
	processor := &orderedProcessor{err: errors.New("boom")}
	wp := NewWorkerPool(1, processor, zap.NewNop())

	require.NoError(t, wp.Submit(context.Background(), &models.CartCommand{ID: "a"}))
	require.NoError(t, wp.Submit(context.Background(), &models.CartCommand{ID: "b"}))
	wp.Shutdown()

	assert.Equal(t, []string{"a", "b"}, processor.ids)
}
