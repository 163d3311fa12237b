// Package http provides HTTP handlers for the login form, the catalog
// page, its JSON API and the export downloads.
package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/atinyakov/GreenFacade/internal/middleware"
	"github.com/atinyakov/GreenFacade/internal/models"
	"github.com/atinyakov/GreenFacade/internal/render"
	"github.com/atinyakov/GreenFacade/internal/service"
	"go.uber.org/zap"
)

// LoginFailed is shown on the login form after a rejected attempt.
const LoginFailed = "Falscher Benutzername oder Passwort"

// AuthService defines the authentication operations required by the
// HTTP handlers.
type AuthService interface {
	// Login moves sess to the authenticated state when the credentials match.
	Login(ctx context.Context, sess *models.Session, login, password string) error
	// Logout returns sess to the anonymous state.
	Logout(sess *models.Session)
}

// SessionStore persists session changes made by a handler.
type SessionStore interface {
	Create(ctx context.Context) (*models.Session, error)
	Save(ctx context.Context, s *models.Session) error
	Delete(ctx context.Context, id string) error
}

// AuthHandler handles the login form and logout.
type AuthHandler struct {
	AuthService AuthService
	Sessions    SessionStore
	Logger      *zap.Logger
}

// LoginForm handles GET /login. An authenticated session is sent on to the
// catalog.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSessionFromContext(r.Context())
	if sess != nil && sess.LoggedIn {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.renderLogin(w, http.StatusOK, "")
}

// Login handles POST /login with the form fields "username" and "password".
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.GetSessionFromContext(ctx)
	if err := r.ParseForm(); err != nil || sess == nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	username := r.PostFormValue("username")
	err := h.AuthService.Login(ctx, sess, username, r.PostFormValue("password"))
	if errors.Is(err, service.ErrInvalidCredentials) {
		h.Logger.Info("login rejected", zap.String("user", username))
		h.renderLogin(w, http.StatusUnauthorized, LoginFailed)
		return
	}
	if err != nil {
		h.Logger.Error("login failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	// The anonymous session id is never reused after authentication.
	fresh, err := h.Sessions.Create(ctx)
	if err != nil {
		h.Logger.Error("failed to create session", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	fresh.Login(sess.Username, sess.Role)
	fresh.Filters = sess.Filters
	if err := h.Sessions.Save(ctx, fresh); err != nil {
		h.Logger.Error("failed to save session", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if err := h.Sessions.Delete(ctx, sess.ID); err != nil {
		h.Logger.Warn("failed to delete anonymous session", zap.Error(err))
	}
	middleware.SetSessionCookie(w, r, fresh.ID)

	h.Logger.Info("user logged in", zap.String("user", fresh.Username), zap.String("role", string(fresh.Role)))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout handles POST /logout. The session is dropped and its cookie
// expired.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if sess := middleware.GetSessionFromContext(ctx); sess != nil {
		h.AuthService.Logout(sess)
		if err := h.Sessions.Delete(ctx, sess.ID); err != nil {
			h.Logger.Warn("failed to delete session", zap.Error(err))
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, status int, msg string) {
	html, err := render.Login(render.LoginPage{Error: msg})
	if err != nil {
		h.Logger.Error("failed to render login", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, status, html)
}

func writeHTML(w http.ResponseWriter, status int, html string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(html))
}
