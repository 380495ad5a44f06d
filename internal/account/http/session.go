package http

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/tenantry/internal/account/domain"
	"github.com/aussiebroadwan/tenantry/pkg/httpx"
	"github.com/aussiebroadwan/tenantry/pkg/slogx"
)

type sessionKey struct{}

func withSession(ctx context.Context, sess *domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, sess)
}

// sessionFrom returns the caller's session, nil when unauthenticated.
func sessionFrom(ctx context.Context) *domain.Session {
	sess, _ := ctx.Value(sessionKey{}).(*domain.Session)
	return sess
}

// authenticate resolves the session cookie or Bearer token. An invalid or
// expired token leaves the request unauthenticated; only a failing lookup
// is an error.
func (r *Router) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		token := httpx.TokenFromRequest(req, r.Cookie.Name)
		if token == "" || r.Workflow == nil {
			next.ServeHTTP(w, req)
			return
		}

		sess, err := r.Workflow.Session(req.Context(), token)
		if err != nil {
			writeError(w, req, err)
			return
		}
		if sess == nil {
			next.ServeHTTP(w, req)
			return
		}

		ctx := withSession(req.Context(), sess)
		ctx = httpx.WithUserID(ctx, sess.UserID)
		ctx = slogx.With(ctx, "user_id", sess.UserID)
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

// requireSession rejects unauthenticated callers with 401.
func requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sessionFrom(r.Context()) == nil {
			writeError(w, r, domain.ErrNotAuthenticated)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// setSession hands the token to the browser as well as in the body.
func setSession(w http.ResponseWriter, c SessionCookie, issued domain.IssuedSession) {
	if c.Name == "" {
		return
	}
	httpx.SetSessionCookie(w, c.Name, issued.Token, issued.Session.ExpiresAt, c.Secure)
}
