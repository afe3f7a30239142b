package httpapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	gateCookie    = "admin_auth"
	sessionCookie = "admin_session"
	loginPath     = "/admin/login"
)

// routeAdmission marks a request that carried the admin gate cookie. It only admits the
// request to admin routes; it says nothing about who sent it.
type routeAdmission struct{}

// AuthenticatedIdentity is attached once the HMAC session cookie verified.
type AuthenticatedIdentity struct {
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type identityKey struct{}

// RouteAdmission lets requests with the gate cookie through and sends everything else to
// the login page, remembering where it was headed.
func RouteAdmission(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(gateCookie)
		if err != nil || cookie.Value != "1" {
			target := loginPath + "?next=" + url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, target, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), routeAdmission{}, true)))
	})
}

// RequireSession runs behind RouteAdmission and verifies the HMAC session cookie.
func (s *Server) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if admitted, _ := r.Context().Value(routeAdmission{}).(bool); !admitted {
			WriteError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		cookie, err := r.Cookie(sessionCookie)
		if err != nil || !s.Auth.Verify(cookie.Value) {
			WriteError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		identity := AuthenticatedIdentity{}
		if ts, _, ok := strings.Cut(cookie.Value, ":"); ok {
			if millis, err := strconv.ParseInt(ts, 10, 64); err == nil {
				identity.IssuedAt = time.UnixMilli(millis).UTC()
				identity.ExpiresAt = identity.IssuedAt.Add(s.sessionTTL())
			}
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey{}, identity)))
	})
}

func CurrentIdentity(r *http.Request) (AuthenticatedIdentity, bool) {
	identity, ok := r.Context().Value(identityKey{}).(AuthenticatedIdentity)
	return identity, ok
}

func (s *Server) sessionTTL() time.Duration {
	if s.Config.SessionTTL > 0 {
		return s.Config.SessionTTL
	}
	return 24 * time.Hour
}

func (s *Server) setSessionCookies(w http.ResponseWriter, token string) {
	maxAge := int(s.sessionTTL().Seconds())
	for _, c := range []*http.Cookie{
		{Name: gateCookie, Value: "1"},
		{Name: sessionCookie, Value: token},
	} {
		c.Path = "/"
		c.MaxAge = maxAge
		c.HttpOnly = true
		c.Secure = s.Config.IsProduction()
		c.SameSite = http.SameSiteLaxMode
		http.SetCookie(w, c)
	}
}

func (s *Server) clearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{gateCookie, sessionCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   s.Config.IsProduction(),
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// safeNext keeps post-login redirects inside the admin area.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/admin") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return "/admin/api/me"
	}
	if strings.HasPrefix(next, loginPath) {
		return "/admin/api/me"
	}
	return next
}
