// Package cart holds the cart state, its persistence backends and the view hook.
package cart

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v79"
	"go.uber.org/zap"

	"gofalre.io/storefront/models"
	"gofalre.io/storefront/models/enum"
)

// Store owns the cart for one session. Every mutation saves the whole cart
// and then renders every view before returning.
//
// A Store is not safe for concurrent use; callers running on several
// goroutines must serialize through a single worker.
type Store struct {
	repo   Repository
	key    string
	cart   *models.Cart
	views  []View
	logger *zap.Logger
}

func NewStore(repo Repository, key string, currency stripe.Currency, logger *zap.Logger, views ...View) *Store {
	return &Store{
		repo:   repo,
		key:    key,
		cart:   models.NewCart(currency),
		views:  views,
		logger: logger,
	}
}

func (s *Store) AddView(v View) {
	s.views = append(s.views, v)
}

func (s *Store) Key() string {
	return s.key
}

// Hydrate replaces the in-memory cart with the persisted one. Entries that
// break the cart invariants are repaired: quantities below one are dropped
// and repeated names are folded into their first occurrence.
func (s *Store) Hydrate(ctx context.Context) error {
	loaded, err := s.repo.Load(ctx, s.key)
	if err != nil {
		return fmt.Errorf("failed to load cart %s: %w", s.key, err)
	}

	cart := models.NewCart(s.cart.Currency)
	for _, item := range loaded.Items {
		if item.Quantity < 1 {
			s.logger.Warn("Dropping stored cart item with invalid quantity",
				zap.String("name", item.Name), zap.Int("quantity", item.Quantity))
			continue
		}
		if i := cart.IndexOf(item.Name); i >= 0 {
			cart.Items[i].Quantity += item.Quantity
			continue
		}
		cart.Items = append(cart.Items, item)
	}
	s.cart = cart

	s.logger.Debug("Cart hydrated", zap.String("key", s.key), zap.Int("items", len(cart.Items)))
	return nil
}

// Refresh renders every view with the current state without changing it.
func (s *Store) Refresh(ctx context.Context) {
	s.notify(ctx, enum.CartActionRefresh, "")
}

// AddItem increments the quantity of name, or appends it with quantity 1.
// Price and image of an existing item are kept as first added.
func (s *Store) AddItem(ctx context.Context, name string, unitPrice decimal.Decimal, imageRef string) error {
	if i := s.cart.IndexOf(name); i >= 0 {
		s.cart.Items[i].Quantity++
	} else {
		s.cart.Items = append(s.cart.Items, models.LineItem{
			Name:      name,
			UnitPrice: unitPrice,
			ImageRef:  imageRef,
			Quantity:  1,
		})
	}

	return s.commit(ctx, enum.CartActionAdd, name)
}

// RemoveItem deletes name from the cart. The cart is saved and rendered even
// when name is not present.
func (s *Store) RemoveItem(ctx context.Context, name string) error {
	if i := s.cart.IndexOf(name); i >= 0 {
		s.cart.Remove(i)
	}

	return s.commit(ctx, enum.CartActionRemove, name)
}

// SetQuantity sets the quantity of name; zero or less removes the item.
// Unknown names are ignored without saving or rendering.
func (s *Store) SetQuantity(ctx context.Context, name string, quantity int) error {
	i := s.cart.IndexOf(name)
	if i < 0 {
		return nil
	}

	if quantity > 0 {
		s.cart.Items[i].Quantity = quantity
	} else {
		s.cart.Remove(i)
	}

	return s.commit(ctx, enum.CartActionSetQuantity, name)
}

func (s *Store) Totals() models.Totals {
	return s.cart.Totals()
}

// Items returns a copy of the line items in insertion order.
func (s *Store) Items() []models.LineItem {
	return s.cart.Clone().Items
}

func (s *Store) Snapshot() models.Snapshot {
	return models.Snapshot{
		Action:   enum.CartActionRefresh,
		Currency: s.cart.Currency,
		Items:    s.Items(),
		Totals:   s.cart.Totals(),
	}
}

// commit persists then notifies. A failed save does not undo the change;
// the views still see it and the error is returned to the caller.
func (s *Store) commit(ctx context.Context, action enum.CartAction, name string) error {
	var saveErr error
	if err := s.repo.Save(ctx, s.key, s.cart); err != nil {
		s.logger.Warn("Failed to persist cart",
			zap.String("key", s.key),
			zap.String("action", string(action)),
			zap.Error(err))
		saveErr = fmt.Errorf("failed to save cart %s: %w", s.key, err)
	}

	s.notify(ctx, action, name)
	return saveErr
}

func (s *Store) notify(ctx context.Context, action enum.CartAction, name string) {
	snapshot := s.Snapshot()
	snapshot.Action = action
	snapshot.Name = name

	for i, v := range s.views {
		if i > 0 {
			snapshot.Items = s.Items()
		}
		v.Render(ctx, snapshot)
	}
}
