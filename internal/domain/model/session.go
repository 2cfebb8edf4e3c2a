package model

import "time"

// 表示中のページ（同時に1つだけ）
type Page string

const (
	PageLoading  Page = "loading"
	PageProducts Page = "products"
	PageCart     Page = "cart"
	PageHome     Page = "home"
	PageAbout    Page = "about"
)

// ナビゲーションで選べるページか
func (p Page) Navigable() bool {
	switch p {
	case PageProducts, PageCart, PageHome, PageAbout:
		return true
	}
	return false
}

type NoticeKind string

const (
	NoticeInfo      NoticeKind = "info"
	NoticeSuccess   NoticeKind = "success"
	NoticeDuplicate NoticeKind = "duplicate"
	NoticeCheckout  NoticeKind = "checkout"
)

// ユーザーへのお知らせ。次の描画で1回だけ表示する。
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// 1回の訪問（ページロード）分の状態。
// リロードすると新しいセッションになる。
type Session struct {
	ID        string    `json:"id"`
	Page      Page      `json:"page"`
	Product   *Product  `json:"product,omitempty"`
	LoadError string    `json:"load_error,omitempty"`
	Cart      Cart      `json:"cart"`
	Notices   []Notice  `json:"notices,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Session) Notify(kind NoticeKind, msg string) {
	s.Notices = append(s.Notices, Notice{Kind: kind, Message: msg})
}

// 溜まったお知らせを取り出して空にする
func (s *Session) DrainNotices() []Notice {
	out := s.Notices
	s.Notices = nil
	return out
}

// ストアの外に渡すときはコピーする
func (s Session) Clone() Session {
	out := s
	if s.Product != nil {
		p := *s.Product
		out.Product = &p
	}
	out.Cart = s.Cart.Clone()
	if s.Notices != nil {
		out.Notices = make([]Notice, len(s.Notices))
		copy(out.Notices, s.Notices)
	}
	return out
}
