package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v79"

	"gofalre.io/storefront/models/enum"
)

// CartEvent 發佈到 NATS 的購物車變更事件
type CartEvent struct {
	ID            string          `json:"id"`
	Session       string          `json:"session"`
	Action        enum.CartAction `json:"action"`
	Name          string          `json:"name,omitempty"`
	Currency      stripe.Currency `json:"currency"`
	Items         []LineItem      `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	SubtotalMinor int64           `json:"subtotal_minor"`
	ItemCount     int             `json:"item_count"`
	CreatedAt     time.Time       `json:"created_at"`
}

// CartCommand 從 NATS 收到的購物車操作
type CartCommand struct {
	ID        string          `json:"id"`
	Action    enum.CartAction `json:"action"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	ImageRef  string          `json:"img"`
	Quantity  *int            `json:"qty,omitempty"` // 僅 set_quantity 使用
}

var (
	ErrMissingCommandID   = errors.New("command id is required")
	ErrMissingItemName    = errors.New("item name is required")
	ErrNegativeUnitPrice  = errors.New("unit price must not be negative")
	ErrUnsupportedCommand = errors.New("unsupported command action")
	ErrMissingQuantity    = errors.New("quantity is required")
)

func (c *CartCommand) Validate() error {
	if c.ID == "" {
		return ErrMissingCommandID
	}
	switch c.Action {
	case enum.CartActionAdd:
		if c.UnitPrice.IsNegative() {
			return ErrNegativeUnitPrice
		}
	case enum.CartActionSetQuantity:
		if c.Quantity == nil {
			return ErrMissingQuantity
		}
	case enum.CartActionRemove:
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedCommand, c.Action)
	}
	if c.Name == "" {
		return ErrMissingItemName
	}
	return nil
}
