package projector

import "github.com/shopspring/decimal"

var (
	decimalOne  = decimal.NewFromInt(1)
	decimalHalf = decimal.NewFromFloat(0.5)
)
