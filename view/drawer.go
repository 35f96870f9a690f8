package view

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gofalre.io/storefront/cart"
	"gofalre.io/storefront/models"
	"gofalre.io/storefront/models/enum"
)

var _ cart.View = (*Drawer)(nil)

const drawerEmptyMessage = "Your cart is empty."

var drawerStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	Padding(0, 1)

// Drawer is the slide-out cart summary. It starts closed, opens whenever an
// item is added, and only draws while open.
type Drawer struct {
	w    io.Writer
	open bool
}

func NewDrawer(w io.Writer) *Drawer {
	return &Drawer{w: w}
}

func (d *Drawer) Open()        { d.open = true }
func (d *Drawer) IsOpen() bool { return d.open }

func (d *Drawer) Render(_ context.Context, snapshot models.Snapshot) {
	if snapshot.Action == enum.CartActionAdd {
		d.open = true
	}
	if !d.open {
		return
	}

	var b strings.Builder
	b.WriteString("Your Cart\n")
	if snapshot.Empty() {
		b.WriteString(drawerEmptyMessage + "\n")
	}
	for _, item := range snapshot.Items {
		fmt.Fprintf(&b, "%-24s %s × %d\n",
			item.Name, models.FormatAmount(item.UnitPrice, snapshot.Currency), item.Quantity)
	}
	fmt.Fprintf(&b, "Total: %s", models.FormatAmount(snapshot.Totals.Subtotal, snapshot.Currency))

	fmt.Fprintln(d.w, drawerStyle.Render(b.String()))
}
