package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"eshop/internal/domain/model"
	infraRepo "eshop/internal/infra/repository"
	repo "eshop/internal/repository"
	"eshop/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =====================
// Mocks
// =====================

type FetcherMock struct{ mock.Mock }

func (m *FetcherMock) FetchProduct(ctx context.Context) (model.Product, error) {
	args := m.Called(ctx)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

type SessionRepoMock struct{ mock.Mock }

func (m *SessionRepoMock) Create(ctx context.Context, s model.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *SessionRepoMock) FindByID(ctx context.Context, id string) (model.Session, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(model.Session)
	return s, args.Error(1)
}

func (m *SessionRepoMock) Update(ctx context.Context, id string, fn func(s *model.Session)) (model.Session, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(model.Session)
	return s, args.Error(1)
}

func (m *SessionRepoMock) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ repo.SessionRepository = (*SessionRepoMock)(nil)

type seqIDs struct{ n int }

func (g *seqIDs) NewID() string {
	g.n++
	return fmt.Sprintf("session-%d", g.n)
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newPageUsecase(t *testing.T, fetcher usecase.ProductFetcher) (*usecase.PageUsecase, *infraRepo.SessionMemoryRepository) {
	t.Helper()
	sessions := infraRepo.NewSessionMemoryRepository(time.Hour)
	clock := fixedClock{t: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)}
	return usecase.NewPageUsecase(sessions, fetcher, &seqIDs{}, clock), sessions
}

func assertErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), wantSubstr), "err=%q want contains %q", err.Error(), wantSubstr)
	}
}

func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	he, ok := usecase.AsHTTPError(err)
	if assert.True(t, ok, "want HTTPError, got %v", err) {
		assert.Equal(t, status, he.Status)
	}
}

// =====================
// Start
// =====================

func TestPageUsecase_Start_Success(t *testing.T) {
	fetcher := new(FetcherMock)
	fetcher.On("FetchProduct", mock.Anything).Return(ring(), nil)
	uc, sessions := newPageUsecase(t, fetcher)

	out, err := uc.Start(context.Background())

	require.NoError(t, err)
	assert.NoError(t, out.FetchErr)
	assert.Equal(t, "session-1", out.Session.ID)
	assert.Equal(t, model.PageProducts, out.Session.Page)
	require.NotNil(t, out.Session.Product)
	assert.Equal(t, int64(6), out.Session.Product.ID)
	assert.Equal(t, 0, out.Session.Cart.Len())

	stored, err := sessions.FindByID(context.Background(), "session-1")
	require.NoError(t, err)
	assert.Equal(t, model.PageProducts, stored.Page)

	fetcher.AssertExpectations(t)
}

func TestPageUsecase_Start_FetchFailure(t *testing.T) {
	fetcher := new(FetcherMock)
	fetchErr := fmt.Errorf("fetch product 6: %w", model.ErrNetworkFailure)
	fetcher.On("FetchProduct", mock.Anything).Return(model.Product{}, fetchErr)
	uc, _ := newPageUsecase(t, fetcher)

	out, err := uc.Start(context.Background())

	require.NoError(t, err)
	assert.ErrorIs(t, out.FetchErr, model.ErrNetworkFailure)
	assert.Equal(t, model.PageLoading, out.Session.Page)
	assert.Equal(t, usecase.MsgLoadError, out.Session.LoadError)
	assert.Nil(t, out.Session.Product)
}

func TestPageUsecase_Start_EachLoadIsANewSession(t *testing.T) {
	fetcher := new(FetcherMock)
	fetcher.On("FetchProduct", mock.Anything).Return(ring(), nil)
	uc, _ := newPageUsecase(t, fetcher)
	ctx := context.Background()

	first, err := uc.Start(ctx)
	require.NoError(t, err)
	_, err = uc.AddToCart(ctx, first.Session.ID)
	require.NoError(t, err)

	second, err := uc.Start(ctx)
	require.NoError(t, err)

	assert.NotEqual(t, first.Session.ID, second.Session.ID)
	assert.Equal(t, 0, second.Session.Cart.Len())
	fetcher.AssertNumberOfCalls(t, "FetchProduct", 2)
}

func TestPageUsecase_Start_StoreError(t *testing.T) {
	sessions := new(SessionRepoMock)
	sessions.On("Create", mock.Anything, mock.Anything).Return(errors.New("redis down"))
	uc := usecase.NewPageUsecase(sessions, new(FetcherMock), &seqIDs{}, fixedClock{})

	_, err := uc.Start(context.Background())

	assertStatus(t, err, http.StatusInternalServerError)
	sessions.AssertExpectations(t)
}

// =====================
// Dispatch
// =====================

func TestPageUsecase_Dispatch_UnknownSession(t *testing.T) {
	uc, _ := newPageUsecase(t, new(FetcherMock))

	_, err := uc.AddToCart(context.Background(), "nope")

	assertStatus(t, err, http.StatusUnauthorized)
	assertErrContains(t, err, "session not found")
}

func TestPageUsecase_Dispatch_EmptySessionID(t *testing.T) {
	uc, _ := newPageUsecase(t, new(FetcherMock))

	_, err := uc.Checkout(context.Background(), "")

	assertStatus(t, err, http.StatusUnauthorized)
}

func TestPageUsecase_Navigate_InvalidPage(t *testing.T) {
	fetcher := new(FetcherMock)
	fetcher.On("FetchProduct", mock.Anything).Return(ring(), nil)
	uc, _ := newPageUsecase(t, fetcher)
	ctx := context.Background()
	start, err := uc.Start(ctx)
	require.NoError(t, err)

	_, err = uc.Navigate(ctx, start.Session.ID, "settings")

	assertStatus(t, err, http.StatusBadRequest)
	assertErrContains(t, err, "invalid page")
}

func TestPageUsecase_RemoveFromCart_StaleIndex(t *testing.T) {
	fetcher := new(FetcherMock)
	fetcher.On("FetchProduct", mock.Anything).Return(ring(), nil)
	uc, _ := newPageUsecase(t, fetcher)
	ctx := context.Background()
	start, err := uc.Start(ctx)
	require.NoError(t, err)

	_, err = uc.RemoveFromCart(ctx, start.Session.ID, 0)

	assertStatus(t, err, http.StatusBadRequest)
	assert.ErrorIs(t, err, model.ErrIndexOutOfRange)
}

// add {id:6, price:10.50} → 重複 → 削除 → 追加 → checkout
func TestPageUsecase_Scenario(t *testing.T) {
	fetcher := new(FetcherMock)
	fetcher.On("FetchProduct", mock.Anything).Return(ring(), nil)
	uc, _ := newPageUsecase(t, fetcher)
	ctx := context.Background()

	start, err := uc.Start(ctx)
	require.NoError(t, err)
	sid := start.Session.ID

	// 追加
	out, err := uc.AddToCart(ctx, sid)
	require.NoError(t, err)
	assert.NoError(t, out.Informational)
	assert.Equal(t, 1, out.Session.Cart.Len())
	assert.Equal(t, "10.50", out.Session.Cart.Total().StringFixed(2))

	// 同じ商品をもう一度
	out, err = uc.AddToCart(ctx, sid)
	require.NoError(t, err)
	assert.ErrorIs(t, out.Informational, model.ErrDuplicateItem)
	assert.Equal(t, 1, out.Session.Cart.Len())

	view, err := uc.View(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, []model.Notice{
		{Kind: model.NoticeSuccess, Message: usecase.MsgAdded},
		{Kind: model.NoticeDuplicate, Message: usecase.MsgDuplicate},
	}, view.Notices)

	// 削除
	out, err = uc.RemoveFromCart(ctx, sid, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Session.Cart.Len())

	// 追加してcheckout
	_, err = uc.AddToCart(ctx, sid)
	require.NoError(t, err)
	_, err = uc.View(ctx, sid)
	require.NoError(t, err)

	out, err = uc.Checkout(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Session.Cart.Len())
	assert.Equal(t, model.PageCart, out.Session.Page)

	view, err = uc.View(ctx, sid)
	require.NoError(t, err)
	require.Len(t, view.Notices, 1)
	assert.Equal(t, model.NoticeCheckout, view.Notices[0].Kind)
	assert.Contains(t, view.Notices[0].Message, "Total: $10.50")
}

// =====================
// View / Session
// =====================

func TestPageUsecase_View_DrainsNotices(t *testing.T) {
	fetcher := new(FetcherMock)
	fetcher.On("FetchProduct", mock.Anything).Return(ring(), nil)
	uc, sessions := newPageUsecase(t, fetcher)
	ctx := context.Background()
	start, err := uc.Start(ctx)
	require.NoError(t, err)

	_, err = uc.Navigate(ctx, start.Session.ID, model.PageHome)
	require.NoError(t, err)

	// Dispatch だけではお知らせは残る
	s, err := sessions.FindByID(ctx, start.Session.ID)
	require.NoError(t, err)
	assert.Len(t, s.Notices, 1)

	first, err := uc.View(ctx, start.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, []model.Notice{{Kind: model.NoticeInfo, Message: usecase.MsgWelcome}}, first.Notices)
	assert.Empty(t, first.Session.Notices)

	second, err := uc.View(ctx, start.Session.ID)
	require.NoError(t, err)
	assert.Empty(t, second.Notices)
}

// =====================
// DispatchAndDrain
// =====================

func TestPageUsecase_DispatchAndDrain_ReturnsOwnNotices(t *testing.T) {
	fetcher := new(FetcherMock)
	fetcher.On("FetchProduct", mock.Anything).Return(ring(), nil)
	uc, sessions := newPageUsecase(t, fetcher)
	ctx := context.Background()
	start, err := uc.Start(ctx)
	require.NoError(t, err)
	sid := start.Session.ID

	out, err := uc.DispatchAndDrain(ctx, sid, usecase.Action{Type: usecase.ActionAddToCart})
	require.NoError(t, err)
	assert.Equal(t, []model.Notice{{Kind: model.NoticeSuccess, Message: usecase.MsgAdded}}, out.Notices)
	assert.Empty(t, out.Session.Notices)

	// 同じ更新で取り出しているので、後から読んでも残っていない
	stored, err := sessions.FindByID(ctx, sid)
	require.NoError(t, err)
	assert.Empty(t, stored.Notices)

	out, err = uc.DispatchAndDrain(ctx, sid, usecase.Action{Type: usecase.ActionAddToCart})
	require.NoError(t, err)
	assert.ErrorIs(t, out.Informational, model.ErrDuplicateItem)
	assert.Equal(t, []model.Notice{{Kind: model.NoticeDuplicate, Message: usecase.MsgDuplicate}}, out.Notices)
}

// 失敗した操作は溜まっているお知らせを消さない
func TestPageUsecase_DispatchAndDrain_FailureKeepsNotices(t *testing.T) {
	fetcher := new(FetcherMock)
	fetcher.On("FetchProduct", mock.Anything).Return(ring(), nil)
	uc, sessions := newPageUsecase(t, fetcher)
	ctx := context.Background()
	start, err := uc.Start(ctx)
	require.NoError(t, err)
	sid := start.Session.ID

	_, err = uc.AddToCart(ctx, sid)
	require.NoError(t, err)

	_, err = uc.DispatchAndDrain(ctx, sid, usecase.Action{Type: usecase.ActionRemoveFromCart, Index: 5})
	assertStatus(t, err, http.StatusBadRequest)

	stored, err := sessions.FindByID(ctx, sid)
	require.NoError(t, err)
	assert.Len(t, stored.Notices, 1)
}

// =====================
// End
// =====================

func TestPageUsecase_End(t *testing.T) {
	fetcher := new(FetcherMock)
	fetcher.On("FetchProduct", mock.Anything).Return(ring(), nil)
	uc, sessions := newPageUsecase(t, fetcher)
	ctx := context.Background()
	start, err := uc.Start(ctx)
	require.NoError(t, err)

	require.NoError(t, uc.End(ctx, start.Session.ID))

	_, err = sessions.FindByID(ctx, start.Session.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	// 終えたセッションは使えない
	_, err = uc.AddToCart(ctx, start.Session.ID)
	assertStatus(t, err, http.StatusUnauthorized)
}

func TestPageUsecase_End_NotFound(t *testing.T) {
	uc, _ := newPageUsecase(t, new(FetcherMock))

	err := uc.End(context.Background(), "missing")

	assertStatus(t, err, http.StatusUnauthorized)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestPageUsecase_End_StoreError(t *testing.T) {
	sessions := new(SessionRepoMock)
	sessions.On("Delete", mock.Anything, "s1").Return(errors.New("redis down"))
	uc := usecase.NewPageUsecase(sessions, new(FetcherMock), &seqIDs{}, fixedClock{})

	err := uc.End(context.Background(), "s1")

	assertStatus(t, err, http.StatusInternalServerError)
	sessions.AssertExpectations(t)
}
