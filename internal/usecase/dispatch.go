package usecase

import (
	"fmt"

	"eshop/internal/domain/model"
)

// ユーザー操作の種類
type ActionType string

const (
	ActionNavigate       ActionType = "navigate"
	ActionAddToCart      ActionType = "add-to-cart"
	ActionRemoveFromCart ActionType = "remove-from-cart"
	ActionCheckout       ActionType = "checkout"
)

// 操作1回分
type Action struct {
	Type  ActionType
	Page  model.Page // navigate
	Index int        // remove-from-cart
}

const (
	MsgWelcome      = "Welcome to E-Shop! Browse our amazing products."
	MsgAbout        = "E-Shop - Your one-stop destination for quality products!"
	MsgAdded        = "✓ Added to Cart!"
	MsgDuplicate    = "This item is already in your cart!"
	MsgLoadError    = "Error loading product"
	checkoutMsgTmpl = "Checkout successful! Total: %s\n\nThank you for your purchase!"
)

type actionFunc func(s *model.Session, a Action) error

// 操作の種類 → 処理
var dispatchTable = map[ActionType]actionFunc{
	ActionNavigate:       navigate,
	ActionAddToCart:      addToCart,
	ActionRemoveFromCart: removeFromCart,
	ActionCheckout:       checkout,
}

// セッションに操作を適用する。
// ErrDuplicateItem は通知済みの情報エラーで、セッションは壊れない。
func Apply(s *model.Session, a Action) error {
	fn, ok := dispatchTable[a.Type]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAction, a.Type)
	}
	return fn(s, a)
}

func CheckoutMessage(total string) string {
	return fmt.Sprintf(checkoutMsgTmpl, total)
}

// ページ切り替え。home/about はメッセージだけ出して各パネルを隠す。
func navigate(s *model.Session, a Action) error {
	if !a.Page.Navigable() {
		return fmt.Errorf("%w: %q", ErrInvalidPage, a.Page)
	}

	s.Page = a.Page
	switch a.Page {
	case model.PageHome:
		s.Notify(model.NoticeInfo, MsgWelcome)
	case model.PageAbout:
		s.Notify(model.NoticeInfo, MsgAbout)
	}
	return nil
}

// 表示中の商品を追加。商品が無ければ何もしない。
func addToCart(s *model.Session, _ Action) error {
	if s.Product == nil {
		return nil
	}

	if err := s.Cart.Add(*s.Product); err != nil {
		s.Notify(model.NoticeDuplicate, MsgDuplicate)
		return err
	}
	s.Notify(model.NoticeSuccess, MsgAdded)
	return nil
}

func removeFromCart(s *model.Session, a Action) error {
	return s.Cart.RemoveAt(a.Index)
}

// 合計を通知してカートを空にする（取り消し不可）。空なら何もしない。
func checkout(s *model.Session, _ Action) error {
	if s.Cart.Len() == 0 {
		return nil
	}

	total := s.Cart.Total()
	s.Notify(model.NoticeCheckout, CheckoutMessage(model.FormatMoney(total)))
	s.Cart.Clear()
	s.Page = model.PageCart
	return nil
}
