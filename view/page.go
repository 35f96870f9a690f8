package view

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"gofalre.io/storefront/cart"
	"gofalre.io/storefront/models"
)

var _ cart.View = (*Page)(nil)

const pageEmptyMessage = "Your cart is empty. Go shopping!"

// Page is the dedicated cart page: one row per item with its line total,
// followed by the order summary.
type Page struct {
	w io.Writer
}

func NewPage(w io.Writer) *Page {
	return &Page{w: w}
}

func (p *Page) Render(_ context.Context, snapshot models.Snapshot) {
	if snapshot.Empty() {
		fmt.Fprintln(p.w, pageEmptyMessage)
	} else {
		rows := make([][]string, 0, len(snapshot.Items))
		for _, item := range snapshot.Items {
			rows = append(rows, []string{
				item.Name,
				models.FormatAmount(item.UnitPrice, snapshot.Currency),
				strconv.Itoa(item.Quantity),
				models.FormatAmount(item.Subtotal(), snapshot.Currency),
				item.ImageRef,
			})
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("ITEM", "PRICE", "QTY", "TOTAL", "IMAGE").
			Rows(rows...)
		fmt.Fprintln(p.w, t.String())
	}

	// no tax or shipping yet, so total equals subtotal
	subtotal := models.FormatAmount(snapshot.Totals.Subtotal, snapshot.Currency)
	fmt.Fprintf(p.w, "Subtotal: %s\n", subtotal)
	fmt.Fprintf(p.w, "Total:    %s\n", subtotal)
}
