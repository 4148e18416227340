package web

import (
	"errors"
	"log/slog"
	"net/http"

	"watchlist/internal/adapters/http/middleware"
	"watchlist/internal/application/orchestrators"
)

const (
	flashLoginSuccess    = "Login success."
	flashBadCredentials  = "Invalid username or password."
	flashGoodbye         = "Goodbye."
	flashSettingsUpdated = "Settings updated."
)

type settingsPage struct {
	layoutData
	Name string
}

// handleLoginForm renders GET /login. Logged-in clients go home.
func (a *App) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	if middleware.IsLoggedIn(r.Context()) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	l, err := a.layout(w, r, "Login")
	if err != nil {
		internalError(w, err)
		return
	}
	a.render(w, http.StatusOK, "login", l)
}

// handleLogin handles POST /login.
func (a *App) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	input := orchestrators.LoginInput{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}
	result, err := orchestrators.ExecuteLogin(r.Context(), input, orchestrators.LoginDeps{AccountStore: a.stores.AccountStore})
	switch {
	case errors.Is(err, orchestrators.ErrInvalidInput):
		a.flasher.Add(w, r, flashInvalidInput)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	case errors.Is(err, orchestrators.ErrInvalidCredentials):
		a.flasher.Add(w, r, flashBadCredentials)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	case err != nil:
		internalError(w, err)
		return
	}

	token, err := a.sessions.Create(result.AccountID, result.Username)
	if err != nil {
		internalError(w, err)
		return
	}
	a.sessions.SetCookie(w, token)
	a.flasher.Add(w, r, flashLoginSuccess)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleLogout handles GET /logout.
func (a *App) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		a.sessions.Delete(cookie.Value)
	}
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		slog.Info("auth_event", "event", "logout", "username", sess.Username)
	}
	a.sessions.ClearCookie(w)
	a.flasher.Add(w, r, flashGoodbye)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleSettingsForm renders GET /settings.
func (a *App) handleSettingsForm(w http.ResponseWriter, r *http.Request) {
	l, err := a.layout(w, r, "Settings")
	if err != nil {
		internalError(w, err)
		return
	}
	a.render(w, http.StatusOK, "settings", settingsPage{layoutData: l, Name: l.AdminName})
}

// handleSettings handles POST /settings.
func (a *App) handleSettings(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	input := orchestrators.UpdateSettingsInput{Name: r.PostFormValue("name")}
	err := orchestrators.ExecuteUpdateSettings(r.Context(), input, orchestrators.UpdateSettingsDeps{AccountStore: a.stores.AccountStore})
	switch {
	case errors.Is(err, orchestrators.ErrInvalidInput):
		a.flasher.Add(w, r, flashInvalidInput)
		http.Redirect(w, r, "/settings", http.StatusSeeOther)
	case err != nil:
		internalError(w, err)
	default:
		a.flasher.Add(w, r, flashSettingsUpdated)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}
