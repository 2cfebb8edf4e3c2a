package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"eshop/internal/domain/model"
	repo "eshop/internal/repository"
)

// UUID 等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// 商品取得の約束（ProductUsecase が実装）
type ProductFetcher interface {
	FetchProduct(ctx context.Context) (model.Product, error)
}

// ページ遷移と操作の振り分け。
// 状態はセッションに置き、更新はストア側で直列化される。
type PageUsecase struct {
	sessionRepo repo.SessionRepository
	fetcher     ProductFetcher
	idGen       IDGenerator
	clock       Clock
}

// DI
func NewPageUsecase(
	sessionRepo repo.SessionRepository,
	fetcher ProductFetcher,
	idGen IDGenerator,
	clock Clock,
) *PageUsecase {
	return &PageUsecase{
		sessionRepo: sessionRepo,
		fetcher:     fetcher,
		idGen:       idGen,
		clock:       clock,
	}
}

type StartOutput struct {
	Session model.Session
	// 商品取得の失敗（セッション自体は使える）
	FetchErr error
}

// 新しいセッションを Loading で作り、商品を取得して Products へ進める。
// 取得に失敗したら Loading のままエラーメッセージを出す。
func (u *PageUsecase) Start(ctx context.Context) (StartOutput, error) {
	now := u.clock.Now()
	s := model.Session{
		ID:        u.idGen.NewID(),
		Page:      model.PageLoading,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.sessionRepo.Create(ctx, s); err != nil {
		return StartOutput{}, toHTTPError(err)
	}

	p, fetchErr := u.fetcher.FetchProduct(ctx)

	s, err := u.sessionRepo.Update(ctx, s.ID, func(cur *model.Session) {
		if fetchErr != nil {
			cur.LoadError = MsgLoadError
			return
		}
		cur.Product = &p
		cur.LoadError = ""
		// 取得中にページを移っていたらそのまま
		if cur.Page == model.PageLoading {
			cur.Page = model.PageProducts
		}
	})
	if err != nil {
		return StartOutput{}, toHTTPError(err)
	}

	return StartOutput{Session: s, FetchErr: fetchErr}, nil
}

type DispatchOutput struct {
	Session model.Session
	// ErrDuplicateItem など、通知済みの情報エラー
	Informational error
	// DispatchAndDrain のときだけ入る
	Notices []model.Notice
}

// 操作を振り分けて適用する。お知らせは次の View まで残す。
func (u *PageUsecase) Dispatch(ctx context.Context, sessionID string, a Action) (DispatchOutput, error) {
	return u.dispatch(ctx, sessionID, a, false)
}

// 操作の適用とお知らせの取り出しを1回の更新で行う（APIの応答用）
func (u *PageUsecase) DispatchAndDrain(ctx context.Context, sessionID string, a Action) (DispatchOutput, error) {
	return u.dispatch(ctx, sessionID, a, true)
}

func (u *PageUsecase) dispatch(ctx context.Context, sessionID string, a Action, drain bool) (DispatchOutput, error) {
	if sessionID == "" {
		return DispatchOutput{}, NewHTTPError(http.StatusUnauthorized, "session not found")
	}

	var (
		applyErr error
		notices  []model.Notice
	)
	s, err := u.sessionRepo.Update(ctx, sessionID, func(cur *model.Session) {
		applyErr = Apply(cur, a)
		// 失敗した操作では溜まっているお知らせを消さない
		if drain && (applyErr == nil || errors.Is(applyErr, model.ErrDuplicateItem)) {
			notices = cur.DrainNotices()
		}
	})
	if err != nil {
		return DispatchOutput{}, toHTTPError(err)
	}

	if errors.Is(applyErr, model.ErrDuplicateItem) {
		return DispatchOutput{Session: s, Informational: applyErr, Notices: notices}, nil
	}
	if applyErr != nil {
		return DispatchOutput{}, toHTTPError(applyErr)
	}
	return DispatchOutput{Session: s, Notices: notices}, nil
}

func (u *PageUsecase) Navigate(ctx context.Context, sessionID string, page model.Page) (DispatchOutput, error) {
	return u.Dispatch(ctx, sessionID, Action{Type: ActionNavigate, Page: page})
}

func (u *PageUsecase) AddToCart(ctx context.Context, sessionID string) (DispatchOutput, error) {
	return u.Dispatch(ctx, sessionID, Action{Type: ActionAddToCart})
}

func (u *PageUsecase) RemoveFromCart(ctx context.Context, sessionID string, index int) (DispatchOutput, error) {
	return u.Dispatch(ctx, sessionID, Action{Type: ActionRemoveFromCart, Index: index})
}

func (u *PageUsecase) Checkout(ctx context.Context, sessionID string) (DispatchOutput, error) {
	return u.Dispatch(ctx, sessionID, Action{Type: ActionCheckout})
}

type ViewOutput struct {
	Session model.Session
	Notices []model.Notice
}

// 描画用に状態を返し、溜まったお知らせを取り出す。
func (u *PageUsecase) View(ctx context.Context, sessionID string) (ViewOutput, error) {
	var notices []model.Notice
	s, err := u.sessionRepo.Update(ctx, sessionID, func(cur *model.Session) {
		notices = cur.DrainNotices()
	})
	if err != nil {
		return ViewOutput{}, toHTTPError(err)
	}
	return ViewOutput{Session: s, Notices: notices}, nil
}

// セッションを終える（Cookieは呼び出し側で消す）
func (u *PageUsecase) End(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return NewHTTPError(http.StatusUnauthorized, "session not found")
	}
	if err := u.sessionRepo.Delete(ctx, sessionID); err != nil {
		return toHTTPError(err)
	}
	return nil
}
