package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/foro/internal/foro/domain"
	"github.com/aussiebroadwan/foro/pkg/httpx"
	"github.com/aussiebroadwan/foro/pkg/slogx"
)

const SessionCookieName = "foro_session"

const msgLoginRequired = "Por favor, inicia sesión para acceder a esta página."

type ctxKey int

const ctxKeyUser ctxKey = iota

// currentUser returns the authenticated user for the request, or nil.
func currentUser(ctx context.Context) *domain.User {
	u, _ := ctx.Value(ctxKeyUser).(*domain.User)
	return u
}

// withSession resolves the session cookie and stores the user in the request
// context. Invalid or revoked cookies are cleared and the request continues
// anonymously. A store failure renders the error page.
func (rt *Router) withSession(next http.Handler) http.Handler {
	return rt.resolveSession(next, func(w http.ResponseWriter, r *http.Request) {
		renderError(w, r, http.StatusInternalServerError)
	})
}

// withAPISession is withSession for JSON endpoints.
func (rt *Router) withAPISession(next http.Handler) http.Handler {
	return rt.resolveSession(next, func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteError(w, http.StatusInternalServerError, msgServerError)
	})
}

func (rt *Router) resolveSession(next http.Handler, fail http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(SessionCookieName)
		if err != nil || c.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		u, err := rt.SessionService.Resolve(ctx, c.Value)
		if err != nil {
			slogx.FromContext(ctx).Error("failed to resolve session", "err", err)
			fail(w, r)
			return
		}
		if u == nil {
			clearSessionCookie(w, rt.CookieSecure)
			next.ServeHTTP(w, r)
			return
		}

		ctx = context.WithValue(ctx, ctxKeyUser, u)
		ctx = slogx.With(ctx, "user_id", u.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireLogin redirects anonymous visitors to the login page.
func requireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if currentUser(r.Context()) == nil {
			addFlash(w, r, FlashInfo, msgLoginRequired)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// redirectIfAuthenticated sends logged in users home.
func redirectIfAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if currentUser(r.Context()) != nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func setSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
