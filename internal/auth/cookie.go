package auth

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// CookieName is the name of the session cookie.
const CookieName = "auth"

// SessionCookie builds the session cookie carrying token for maxAge.
func SessionCookie(token string, maxAge time.Duration, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(maxAge / time.Second),
	}
}

// ExpiredSessionCookie builds a cookie that makes the browser drop the
// session. It is rendered with Max-Age=0.
func ExpiredSessionCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	}
}

// SetSessionCookie writes the session cookie on the response.
func SetSessionCookie(c echo.Context, token string, maxAge time.Duration, secure bool) {
	c.SetCookie(SessionCookie(token, maxAge, secure))
}

// ClearSessionCookie writes the expired session cookie on the response.
func ClearSessionCookie(c echo.Context, secure bool) {
	c.SetCookie(ExpiredSessionCookie(secure))
}
