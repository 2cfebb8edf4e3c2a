package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	SessionCookieName = "eshop_session"
	CtxSessionIDKey   = "session_id" // string
)

// Cookieのトークンを検証する約束
type SessionTokenParser interface {
	Parse(raw string) (sessionID string, err error)
}

// Cookieのセッショントークンを検証し、session_idをcontextへ入れる。
// 無効なら onInvalid に任せる。
func SessionCookie(parser SessionTokenParser, onInvalid echo.HandlerFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//Cookieを取得
			ck, err := c.Cookie(SessionCookieName)
			if err != nil || strings.TrimSpace(ck.Value) == "" {
				return onInvalid(c)
			}

			//署名と期限を確認
			sessionID, err := parser.Parse(ck.Value)
			if err != nil || sessionID == "" {
				c.Logger().Debugf("session token rejected: %v", err)
				return onInvalid(c)
			}

			//contextへ保存
			c.Set(CtxSessionIDKey, sessionID)
			return next(c)
		}
	}
}

// APIは401
func UnauthorizedJSON(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
}

// 画面はトップ（新しいセッション）へ
func RedirectToStart(c echo.Context) error {
	return c.Redirect(http.StatusSeeOther, "/")
}

// セッションCookieを書く
func SetSessionCookie(c echo.Context, token string, expiresAt time.Time, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func SessionIDFromContext(c echo.Context) (string, bool) {
	id, ok := c.Get(CtxSessionIDKey).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}

// セッションCookieを消す
func ClearSessionCookie(c echo.Context, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
