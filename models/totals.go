package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v79"
)

// Totals 購物車的彙總資料
type Totals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	ItemCount int             `json:"item_count"`
}

// zeroDecimalCurrencies are charged in whole units by Stripe.
var zeroDecimalCurrencies = map[stripe.Currency]bool{
	stripe.CurrencyJPY: true,
	stripe.CurrencyKRW: true,
	stripe.CurrencyVND: true,
	stripe.CurrencyCLP: true,
	stripe.CurrencyISK: true,
}

var currencySymbols = map[stripe.Currency]string{
	stripe.CurrencyUSD: "$",
	stripe.CurrencyEUR: "€",
	stripe.CurrencyGBP: "£",
	stripe.CurrencyJPY: "¥",
}

func currencyExponent(currency stripe.Currency) int32 {
	if zeroDecimalCurrencies[currency] {
		return 0
	}
	return 2
}

// SubtotalMinor converts the subtotal to the smallest currency unit, the way Stripe amounts are expressed.
func (t Totals) SubtotalMinor(currency stripe.Currency) int64 {
	return t.Subtotal.Shift(currencyExponent(currency)).Round(0).IntPart()
}

// FormatAmount renders an amount for display, e.g. "$55.00" or "55.00 CHF".
func FormatAmount(amount decimal.Decimal, currency stripe.Currency) string {
	if currency == "" {
		currency = stripe.CurrencyUSD
	}
	value := amount.StringFixed(currencyExponent(currency))
	if symbol, ok := currencySymbols[currency]; ok {
		return symbol + value
	}
	return fmt.Sprintf("%s %s", value, strings.ToUpper(string(currency)))
}
