package handler

import (
	"errors"
	"net/http"
	"time"

	"eshop/internal/domain/model"
	"eshop/internal/middleware"
	"eshop/internal/usecase"
	"eshop/internal/validator"
	"eshop/internal/view"

	"github.com/labstack/echo/v4"
)

const shopPath = "/shop"

// ストアの画面（HTML）
type PageHandler struct {
	uc     *usecase.PageUsecase
	issuer SessionIssuer
	parser middleware.SessionTokenParser
	secure bool
}

// DI
func NewPageHandler(uc *usecase.PageUsecase, issuer SessionIssuer, parser middleware.SessionTokenParser, secureCookie bool) *PageHandler {
	return &PageHandler{uc: uc, issuer: issuer, parser: parser, secure: secureCookie}
}

// /, /shop, 操作用のPOSTを登録
func (h *PageHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.start)

	g := e.Group("")
	g.Use(middleware.SessionCookie(h.parser, middleware.RedirectToStart))

	g.GET(shopPath, h.show)
	g.POST("/nav/:page", h.navigate)
	g.POST("/cart/add", h.addToCart)
	g.POST("/cart/remove/:index", h.removeFromCart)
	g.POST("/cart/checkout", h.checkout)
}

// ページロード＝新しいセッション
func (h *PageHandler) start(c echo.Context) error {
	out, err := h.uc.Start(c.Request().Context())
	if err != nil {
		return h.writePageError(c, err)
	}
	if out.FetchErr != nil {
		c.Logger().Errorf("Error fetching product: %v", out.FetchErr)
	}

	token, expiresAt, err := h.issuer.Issue(out.Session.ID, time.Now())
	if err != nil {
		return h.writePageError(c, err)
	}
	middleware.SetSessionCookie(c, token, expiresAt, h.secure)

	return c.Render(http.StatusOK, "page", view.RenderPage(out.Session, nil))
}

func (h *PageHandler) show(c echo.Context) error {
	sessionID, _ := middleware.SessionIDFromContext(c)

	out, err := h.uc.View(c.Request().Context(), sessionID)
	if err != nil {
		return h.writePageError(c, err)
	}
	refreshSessionCookie(c, h.issuer, sessionID, h.secure)
	return c.Render(http.StatusOK, "page", view.RenderPage(out.Session, out.Notices))
}

func (h *PageHandler) navigate(c echo.Context) error {
	sessionID, _ := middleware.SessionIDFromContext(c)

	page, err := validator.ParsePage(c.Param("page"))
	if err != nil {
		return c.String(http.StatusBadRequest, "invalid page")
	}

	if _, err := h.uc.Navigate(c.Request().Context(), sessionID, page); err != nil {
		return h.writePageError(c, err)
	}
	refreshSessionCookie(c, h.issuer, sessionID, h.secure)
	return c.Redirect(http.StatusSeeOther, shopPath)
}

func (h *PageHandler) addToCart(c echo.Context) error {
	sessionID, _ := middleware.SessionIDFromContext(c)

	// 重複はお知らせとして次の描画に出る
	if _, err := h.uc.AddToCart(c.Request().Context(), sessionID); err != nil {
		return h.writePageError(c, err)
	}
	refreshSessionCookie(c, h.issuer, sessionID, h.secure)
	return c.Redirect(http.StatusSeeOther, shopPath)
}

func (h *PageHandler) removeFromCart(c echo.Context) error {
	sessionID, _ := middleware.SessionIDFromContext(c)

	index, err := validator.ParseIndex(c.Param("index"))
	if err != nil {
		return c.String(http.StatusBadRequest, "invalid index")
	}

	if _, err := h.uc.RemoveFromCart(c.Request().Context(), sessionID, index); err != nil {
		// 古い画面からの削除。カートは変わっていないので描画し直す
		if errors.Is(err, model.ErrIndexOutOfRange) {
			c.Logger().Warnf("stale cart index %d for session %s: %v", index, sessionID, err)
			return c.Redirect(http.StatusSeeOther, shopPath)
		}
		return h.writePageError(c, err)
	}
	refreshSessionCookie(c, h.issuer, sessionID, h.secure)
	return c.Redirect(http.StatusSeeOther, shopPath)
}

func (h *PageHandler) checkout(c echo.Context) error {
	sessionID, _ := middleware.SessionIDFromContext(c)

	if _, err := h.uc.Checkout(c.Request().Context(), sessionID); err != nil {
		return h.writePageError(c, err)
	}
	refreshSessionCookie(c, h.issuer, sessionID, h.secure)
	return c.Redirect(http.StatusSeeOther, shopPath)
}

// 画面用のエラー。セッション切れはトップへ戻す
func (h *PageHandler) writePageError(c echo.Context, err error) error {
	if he, ok := usecase.AsHTTPError(err); ok {
		if he.Status == http.StatusUnauthorized {
			return middleware.RedirectToStart(c)
		}
		if he.Status >= http.StatusInternalServerError {
			c.Logger().Errorf("%s: %v", he.Message, he.Err)
		}
		return c.String(he.Status, he.Message)
	}
	c.Logger().Errorf("internal error: %v", err)
	return c.String(http.StatusInternalServerError, "internal error")
}
