package cart

import (
	"context"

	"gofalre.io/storefront/models"
)

// View is notified synchronously with the cart state after each change.
type View interface {
	Render(ctx context.Context, snapshot models.Snapshot)
}

// ViewFunc adapts a plain function to View.
type ViewFunc func(ctx context.Context, snapshot models.Snapshot)

func (f ViewFunc) Render(ctx context.Context, snapshot models.Snapshot) {
	f(ctx, snapshot)
}
