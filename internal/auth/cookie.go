package auth

import (
	"net/http"
	"time"

	"bloghub/internal/config"
)

const (
	CookieName  = "jwt"
	logoutValue = "logout"
)

// CookieManager carries session tokens in an HttpOnly cookie whose lifetime is
// configured independently from the token's own expiry.
type CookieManager struct {
	ttl    time.Duration
	secure bool
}

func NewCookieManager(cfg *config.Config) *CookieManager {
	return &CookieManager{
		ttl:    cfg.CookieTTL,
		secure: cfg.CookieSecure,
	}
}

func (c *CookieManager) Attach(w http.ResponseWriter, token string, now time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  now.Add(c.ttl),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c *CookieManager) Clear(w http.ResponseWriter, now time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    logoutValue,
		Path:     "/",
		Expires:  now.Add(-time.Second),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c *CookieManager) Read(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" || cookie.Value == logoutValue {
		return "", false
	}
	return cookie.Value, true
}
