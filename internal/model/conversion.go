package model

import "github.com/shopspring/decimal"

type ConversionRequest struct {
	Amount decimal.Decimal
	From   string
	To     string
}

func (r ConversionRequest) SameCurrency() bool {
	return r.From == r.To
}

type ConversionResult struct {
	Amount decimal.Decimal
}
