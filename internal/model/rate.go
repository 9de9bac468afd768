package model

import "github.com/shopspring/decimal"

// Rate is a currency value quoted against the implicit reference currency.
type Rate struct {
	Country string          `db:"country"`
	Value   decimal.Decimal `db:"rate"`
}
