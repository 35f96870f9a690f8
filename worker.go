package storefront

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"gofalre.io/storefront/models"
)

var ErrPoolClosed = errors.New("worker pool is shut down")

type CommandProcessor interface {
	ProcessCommand(ctx context.Context, cmd *models.CartCommand) error
}

// WorkerPool runs submitted commands on a fixed number of goroutines. With a
// size of one, commands are applied strictly one after another in the order
// they were submitted.
type WorkerPool struct {
	tasks     chan func()
	wg        sync.WaitGroup
	mu        sync.RWMutex
	closed    bool
	logger    *zap.Logger
	processor CommandProcessor
}

func NewWorkerPool(size int, processor CommandProcessor, logger *zap.Logger) *WorkerPool {
	if size < 1 {
		size = 1
	}
	wp := &WorkerPool{
		tasks:     make(chan func(), 1000),
		logger:    logger,
		processor: processor,
	}

	wp.wg.Add(size)
	for i := 0; i < size; i++ {
		go wp.worker()
	}

	return wp
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()
	for task := range wp.tasks {
		task()
	}
}

func (wp *WorkerPool) Submit(ctx context.Context, cmd *models.CartCommand) error {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.closed {
		return ErrPoolClosed
	}

	wp.tasks <- func() {
		if err := wp.processor.ProcessCommand(ctx, cmd); err != nil {
			wp.logger.Error("Failed to process command",
				zap.Error(err),
				zap.String("action", string(cmd.Action)),
				zap.String("command_id", cmd.ID))
		}
	}
	return nil
}

// Shutdown stops accepting commands and waits for the queued ones to finish.
func (wp *WorkerPool) Shutdown() {
	wp.mu.Lock()
	if wp.closed {
		wp.mu.Unlock()
		return
	}
	wp.closed = true
	close(wp.tasks)
	wp.mu.Unlock()

	wp.wg.Wait()
}
