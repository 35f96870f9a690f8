package models

import (
	"github.com/stripe/stripe-go/v79"

	"gofalre.io/storefront/models/enum"
)

// Snapshot 每次變更後傳給 View 的購物車狀態
type Snapshot struct {
	Action   enum.CartAction
	Name     string
	Currency stripe.Currency
	Items    []LineItem
	Totals   Totals
}

func (s Snapshot) Empty() bool {
	return len(s.Items) == 0
}
