package models

import (
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v79"
)

// Cart 代表購物車，Items 依加入順序排列且 Name 不重複
type Cart struct {
	Currency stripe.Currency `json:"currency,omitempty"`
	Items    []LineItem      `json:"items"`
}

// LineItem 代表購物車中的單個商品項目
type LineItem struct {
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	ImageRef  string          `json:"img"`
	Quantity  int             `json:"qty"`
}

func NewCart(currency stripe.Currency) *Cart {
	return &Cart{
		Currency: currency,
		Items:    make([]LineItem, 0),
	}
}

// IndexOf returns the position of the item called name, or -1.
func (c *Cart) IndexOf(name string) int {
	for i := range c.Items {
		if c.Items[i].Name == name {
			return i
		}
	}
	return -1
}

// Remove drops the item at position i, keeping the order of the rest.
func (c *Cart) Remove(i int) {
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
}

func (c *Cart) Clone() *Cart {
	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)
	return &Cart{
		Currency: c.Currency,
		Items:    items,
	}
}

func (c *Cart) Totals() Totals {
	totals := Totals{Subtotal: decimal.Zero}
	for _, item := range c.Items {
		totals.Subtotal = totals.Subtotal.Add(item.Subtotal())
		totals.ItemCount += item.Quantity
	}
	return totals
}

// Subtotal 單項小計 = 單價 × 數量
func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}
