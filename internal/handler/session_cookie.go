package handler

import (
	"time"

	"eshop/internal/middleware"

	"github.com/labstack/echo/v4"
)

// 操作が通るたびにトークンを作り直し、期限をストアのTTLと一緒に延ばす
func refreshSessionCookie(c echo.Context, issuer SessionIssuer, sessionID string, secure bool) {
	token, expiresAt, err := issuer.Issue(sessionID, time.Now())
	if err != nil {
		// 古いCookieは期限までは使える
		c.Logger().Errorf("reissue session token: %v", err)
		return
	}
	middleware.SetSessionCookie(c, token, expiresAt, secure)
}
