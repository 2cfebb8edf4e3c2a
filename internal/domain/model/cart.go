package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// セッション中のカート。
// 明細は追加順に並び、同じIDの明細は1つだけ。
type Cart struct {
	Items []CartItem `json:"items"`
}

// 未追加なら末尾に追加する。
// 追加済みならカートは変えずに ErrDuplicateItem を返す。
func (c *Cart) Add(p Product) error {
	if c.Contains(p.ID) {
		return ErrDuplicateItem
	}
	c.Items = append(c.Items, NewCartItem(p))
	return nil
}

// index番目の明細を削除
func (c *Cart) RemoveAt(index int) error {
	if index < 0 || index >= len(c.Items) {
		return fmt.Errorf("remove %d of %d: %w", index, len(c.Items), ErrIndexOutOfRange)
	}
	c.Items = append(c.Items[:index:index], c.Items[index+1:]...)
	return nil
}

// 合計は毎回明細から計算する（キャッシュしない）
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.Price)
	}
	return total
}

func (c *Cart) Clear() {
	c.Items = nil
}

func (c Cart) Len() int {
	return len(c.Items)
}

func (c Cart) Contains(productID int64) bool {
	for _, it := range c.Items {
		if it.ID == productID {
			return true
		}
	}
	return false
}

// 別のスライスにコピー（ストア間で共有しない）
func (c Cart) Clone() Cart {
	if c.Items == nil {
		return Cart{}
	}
	items := make([]CartItem, len(c.Items))
	copy(items, c.Items)
	return Cart{Items: items}
}
