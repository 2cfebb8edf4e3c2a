package model

import "github.com/shopspring/decimal"

// 評価（平均スコア0〜5とレビュー件数）
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int64   `json:"count"`
}

// 商品APIから取得した1件の商品。
// 取得後は変更しない（再取得時は丸ごと差し替える）。
type Product struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Rating      Rating          `json:"rating"`
}
