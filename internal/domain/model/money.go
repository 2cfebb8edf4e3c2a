package model

import "github.com/shopspring/decimal"

// "$12.30" の形（小数2桁）
func FormatMoney(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
