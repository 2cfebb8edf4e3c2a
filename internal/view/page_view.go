package view

import "eshop/internal/domain/model"

const LoadingMessage = "Loading..."

type NoticeView struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// 1画面分の表示内容（どのパネルを見せるか）
type PageView struct {
	SessionID   string       `json:"session_id"`
	Page        string       `json:"page"`
	ShowLoading bool         `json:"show_loading"`
	LoadingText string       `json:"loading_text,omitempty"`
	ShowProduct bool         `json:"show_product"`
	Product     *ProductView `json:"product,omitempty"`
	ShowCart    bool         `json:"show_cart"`
	Cart        CartView     `json:"cart"`
	Badge       int          `json:"badge"`
	Notices     []NoticeView `json:"notices"`
}

// セッションから画面を組み立てる（副作用なし）
func RenderPage(s model.Session, notices []model.Notice) PageView {
	pv := PageView{
		SessionID: s.ID,
		Page:      string(s.Page),
		Cart:      RenderCart(s.Cart),
		Badge:     s.Cart.Len(),
		Notices:   make([]NoticeView, 0, len(notices)),
	}
	if s.Product != nil {
		p := RenderProduct(*s.Product)
		pv.Product = &p
	}

	switch s.Page {
	case model.PageLoading:
		pv.ShowLoading = true
		pv.LoadingText = LoadingMessage
		if s.LoadError != "" {
			pv.LoadingText = s.LoadError
		}
	case model.PageProducts:
		// 商品がまだ無ければ商品パネルの代わりにローディング表示
		if pv.Product != nil {
			pv.ShowProduct = true
		} else {
			pv.ShowLoading = true
			pv.LoadingText = LoadingMessage
			if s.LoadError != "" {
				pv.LoadingText = s.LoadError
			}
		}
	case model.PageCart:
		pv.ShowCart = true
	}
	// home / about はどのパネルも出さない

	for _, n := range notices {
		pv.Notices = append(pv.Notices, NoticeView{Kind: string(n.Kind), Message: n.Message})
	}
	return pv
}
