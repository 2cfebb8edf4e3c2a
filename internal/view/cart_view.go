package view

import "eshop/internal/domain/model"

const EmptyCartMessage = "Your cart is empty"

type CartLineView struct {
	Index int    `json:"index"`
	ID    int64  `json:"id"`
	Image string `json:"image"`
	Title string `json:"title"`
	Price string `json:"price"`
}

// カートパネルの表示内容。空なら Lines の代わりに EmptyMessage。
type CartView struct {
	Empty        bool           `json:"empty"`
	EmptyMessage string         `json:"empty_message,omitempty"`
	Lines        []CartLineView `json:"lines"`
	Total        string         `json:"total,omitempty"`
	Badge        int            `json:"badge"`
}

func RenderCart(c model.Cart) CartView {
	if c.Len() == 0 {
		return CartView{
			Empty:        true,
			EmptyMessage: EmptyCartMessage,
			Lines:        []CartLineView{},
			Badge:        0,
		}
	}

	lines := make([]CartLineView, 0, c.Len())
	for i, it := range c.Items {
		lines = append(lines, CartLineView{
			Index: i,
			ID:    it.ID,
			Image: it.Image,
			Title: it.Title,
			Price: model.FormatMoney(it.Price),
		})
	}

	return CartView{
		Lines: lines,
		Total: model.FormatMoney(c.Total()),
		Badge: c.Len(),
	}
}
