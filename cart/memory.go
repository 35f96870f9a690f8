package cart

import (
	"context"
	"sync"

	"gofalre.io/storefront/models"
)

var _ Repository = (*MemoryRepository)(nil)

// MemoryRepository keeps encoded carts in process memory.
type MemoryRepository struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{data: make(map[string][]byte)}
}

func (r *MemoryRepository) Load(_ context.Context, key string) (*models.Cart, error) {
	r.mu.Lock()
	data := r.data[key]
	r.mu.Unlock()

	items, err := decodeItems(data)
	if err != nil {
		return nil, err
	}
	return &models.Cart{Items: items}, nil
}

func (r *MemoryRepository) Save(_ context.Context, key string, cart *models.Cart) error {
	data, err := encodeItems(cart.Items)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.data[key] = data
	r.mu.Unlock()
	return nil
}
