package cart

import (
	"context"

	"gofalre.io/storefront/models"
)

// DefaultKey is the storage key the cart lives under.
const DefaultKey = "azmCart"

// Repository persists a whole cart under a key. Load returns an empty cart
// when nothing has been saved yet.
type Repository interface {
	Load(ctx context.Context, key string) (*models.Cart, error)
	Save(ctx context.Context, key string, cart *models.Cart) error
}

// SessionKey scopes key to a session on backends shared between users.
func SessionKey(key, session string) string {
	if key == "" {
		key = DefaultKey
	}
	if session == "" {
		return key
	}
	return key + ":" + session
}
