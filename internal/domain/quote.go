package domain

import "github.com/shopspring/decimal"

// Quote is the latest traded snapshot for a symbol.
type Quote struct {
	Symbol        string
	Name          string
	Price         decimal.Decimal
	Change        decimal.Decimal
	ChangePercent decimal.Decimal
}
