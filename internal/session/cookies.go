package session

import (
	"net/http"
	"time"
)

const (
	TokenCookie  = "authToken"
	UserIDCookie = "userId"
)

// CookieWriter receives the cookies mirroring the session
type CookieWriter interface {
	SetCookie(cookie *http.Cookie)
}

type responseCookies struct {
	w http.ResponseWriter
}

// ResponseCookies adapts an http.ResponseWriter into a CookieWriter
func ResponseCookies(w http.ResponseWriter) CookieWriter {
	return responseCookies{w: w}
}

func (r responseCookies) SetCookie(cookie *http.Cookie) {
	http.SetCookie(r.w, cookie)
}

type discardCookies struct{}

// DiscardCookies drops every cookie; used where no HTTP response exists
var DiscardCookies CookieWriter = discardCookies{}

func (discardCookies) SetCookie(*http.Cookie) {}

func mirrorCookie(name, value string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(TTL / time.Second),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}

func expiredCookie(name string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}
