package httputil

import (
	"errors"
	"net/http"
	"strings"

	"github.com/iamasit07/qubic/backend/internal/config"
)

const AuthCookieName = "auth_token"

// SetAuthCookie stores the access token for browser clients. The cookie lives as
// long as the token itself.
func SetAuthCookie(w http.ResponseWriter, token string) {
	maxAge := int(config.AppConfig.AccessTokenTTL.Seconds())
	secure := strings.HasPrefix(config.AppConfig.FrontendURL, "https://")

	cookie := &http.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
	}

	// SameSite=None requires Secure=true, so use Lax for development
	if secure {
		cookie.SameSite = http.SameSiteNoneMode
	} else {
		cookie.SameSite = http.SameSiteLaxMode
	}

	http.SetCookie(w, cookie)
}

func ClearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

func GetTokenFromCookie(r *http.Request) (string, error) {
	cookie, err := r.Cookie(AuthCookieName)
	if err != nil {
		return "", errors.New("auth cookie not found")
	}
	if cookie.Value == "" {
		return "", errors.New("auth cookie is empty")
	}
	return cookie.Value, nil
}

// GetTokenFromRequest prefers the Authorization header and falls back to the cookie.
func GetTokenFromRequest(r *http.Request) (string, error) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok && token != "" {
			return token, nil
		}
		return "", errors.New("malformed authorization header")
	}

	token, err := GetTokenFromCookie(r)
	if err == nil {
		return token, nil
	}
	return "", errors.New("no auth token found in header or cookie")
}
