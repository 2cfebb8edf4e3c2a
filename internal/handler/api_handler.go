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

// /api のJSON版
type APIHandler struct {
	uc     *usecase.PageUsecase
	issuer SessionIssuer
	parser middleware.SessionTokenParser
	secure bool
}

// DI
func NewAPIHandler(uc *usecase.PageUsecase, issuer SessionIssuer, parser middleware.SessionTokenParser, secureCookie bool) *APIHandler {
	return &APIHandler{uc: uc, issuer: issuer, parser: parser, secure: secureCookie}
}

type NavigateRequest struct {
	Page string `json:"page"`
}

// 画面と同じ内容＋エラー種別
type StateResponse struct {
	view.PageView
	// "duplicate_item" など情報だけのエラー
	Informational string `json:"informational,omitempty"`
}

func (h *APIHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/sessions", h.start)

	g := e.Group("/api")
	g.Use(middleware.SessionCookie(h.parser, middleware.UnauthorizedJSON))

	g.GET("/session", h.state)
	g.DELETE("/session", h.end)
	g.POST("/session/navigate", h.navigate)
	g.POST("/cart/items", h.addToCart)
	g.DELETE("/cart/items/:index", h.removeFromCart)
	g.POST("/cart/checkout", h.checkout)
}

func (h *APIHandler) start(c echo.Context) error {
	out, err := h.uc.Start(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	if out.FetchErr != nil {
		c.Logger().Errorf("Error fetching product: %v", out.FetchErr)
	}

	token, expiresAt, err := h.issuer.Issue(out.Session.ID, time.Now())
	if err != nil {
		return writeError(c, err)
	}
	middleware.SetSessionCookie(c, token, expiresAt, h.secure)

	return c.JSON(http.StatusCreated, StateResponse{PageView: view.RenderPage(out.Session, nil)})
}

func (h *APIHandler) state(c echo.Context) error {
	sessionID, _ := middleware.SessionIDFromContext(c)

	out, err := h.uc.View(c.Request().Context(), sessionID)
	if err != nil {
		return writeError(c, err)
	}
	refreshSessionCookie(c, h.issuer, sessionID, h.secure)
	return c.JSON(http.StatusOK, StateResponse{PageView: view.RenderPage(out.Session, out.Notices)})
}

// セッションを捨ててCookieも消す
func (h *APIHandler) end(c echo.Context) error {
	sessionID, _ := middleware.SessionIDFromContext(c)

	if err := h.uc.End(c.Request().Context(), sessionID); err != nil {
		return writeError(c, err)
	}
	middleware.ClearSessionCookie(c, h.secure)
	return c.NoContent(http.StatusNoContent)
}

func (h *APIHandler) navigate(c echo.Context) error {
	var req NavigateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	page, err := validator.ParsePage(req.Page)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
	}

	return h.dispatch(c, usecase.Action{Type: usecase.ActionNavigate, Page: page})
}

func (h *APIHandler) addToCart(c echo.Context) error {
	return h.dispatch(c, usecase.Action{Type: usecase.ActionAddToCart})
}

func (h *APIHandler) removeFromCart(c echo.Context) error {
	index, err := validator.ParseIndex(c.Param("index"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid index"})
	}

	return h.dispatch(c, usecase.Action{Type: usecase.ActionRemoveFromCart, Index: index})
}

func (h *APIHandler) checkout(c echo.Context) error {
	return h.dispatch(c, usecase.Action{Type: usecase.ActionCheckout})
}

// 操作を適用し、その操作のお知らせを同じ更新で取り出して返す
func (h *APIHandler) dispatch(c echo.Context, a usecase.Action) error {
	sessionID, _ := middleware.SessionIDFromContext(c)

	out, err := h.uc.DispatchAndDrain(c.Request().Context(), sessionID, a)
	if err != nil {
		if errors.Is(err, model.ErrIndexOutOfRange) {
			c.Logger().Warnf("stale cart index %d for session %s", a.Index, sessionID)
		}
		return writeError(c, err)
	}
	refreshSessionCookie(c, h.issuer, sessionID, h.secure)

	resp := StateResponse{PageView: view.RenderPage(out.Session, out.Notices)}
	if errors.Is(out.Informational, model.ErrDuplicateItem) {
		resp.Informational = "duplicate_item"
	}
	return c.JSON(http.StatusOK, resp)
}
