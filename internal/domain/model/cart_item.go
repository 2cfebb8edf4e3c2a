package model

import "github.com/shopspring/decimal"

// カートの明細（数量は常に1）
// 追加時点の価格を保存。
type CartItem struct {
	ID    int64           `json:"id"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
}

// 商品からスナップショットを作る
func NewCartItem(p Product) CartItem {
	return CartItem{
		ID:    p.ID,
		Title: p.Title,
		Price: p.Price,
		Image: p.Image,
	}
}
