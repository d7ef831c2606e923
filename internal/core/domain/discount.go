package domain

import "github.com/shopspring/decimal"

type Discount struct {
	ID     int64
	Code   string
	Amount decimal.Decimal
}
