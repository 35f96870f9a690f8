// Package view renders cart snapshots: the header badge, the slide-out
// drawer, the full cart page, and the NATS change feed.
package view

import (
	"context"
	"fmt"
	"io"

	"gofalre.io/storefront/cart"
	"gofalre.io/storefront/models"
)

var _ cart.View = (*Badge)(nil)

// Badge prints the header item count.
type Badge struct {
	w io.Writer
}

func NewBadge(w io.Writer) *Badge {
	return &Badge{w: w}
}

func (b *Badge) Render(_ context.Context, snapshot models.Snapshot) {
	fmt.Fprintf(b.w, "Cart (%d)\n", snapshot.Totals.ItemCount)
}
