package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/atinyakov/GreenFacade/internal/models"
	"go.uber.org/zap"
)

type ctxKey string

const sessionKey ctxKey = "session"

// SessionCookie is the name of the cookie carrying the session id.
const SessionCookie = "greenfacade_session"

// SessionStore is the subset of the session repository the middleware needs.
type SessionStore interface {
	Create(ctx context.Context) (*models.Session, error)
	Get(ctx context.Context, id string) (*models.Session, error)
}

// WithSession resolves the session cookie to a session and stores it in the
// request context. A request without a known session gets a new anonymous
// session and a cookie for it.
func WithSession(store SessionStore, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			var sess *models.Session
			if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
				sess, _ = store.Get(ctx, c.Value)
			}
			if sess == nil {
				created, err := store.Create(ctx)
				if err != nil {
					logger.Error("failed to create session", zap.Error(err))
					http.Error(w, "internal error", http.StatusInternalServerError)
					return
				}
				sess = created
				SetSessionCookie(w, r, sess.ID)
			}
			next.ServeHTTP(w, r.WithContext(WithSessionContext(ctx, sess)))
		})
	}
}

// SetSessionCookie points the client at the session with the given id.
func SetSessionCookie(w http.ResponseWriter, r *http.Request, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
}

// WithSessionContext returns a copy of ctx carrying sess.
func WithSessionContext(ctx context.Context, sess *models.Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// GetSessionFromContext extracts the session from the request context.
// Returns nil if not found.
func GetSessionFromContext(ctx context.Context) *models.Session {
	if s, ok := ctx.Value(sessionKey).(*models.Session); ok {
		return s
	}
	return nil
}

// RequireLogin rejects anonymous sessions: API requests get 401, page
// requests are redirected to the login form.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := GetSessionFromContext(r.Context())
		if sess == nil || !sess.LoggedIn {
			if strings.HasPrefix(r.URL.Path, "/api/") {
				http.Error(w, "login required", http.StatusUnauthorized)
				return
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireExport rejects sessions whose role may not export.
func RequireExport(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !GetSessionFromContext(r.Context()).CanExport() {
			http.Error(w, "export not available for this account", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
