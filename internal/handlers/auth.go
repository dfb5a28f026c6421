// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"thumbstudio/internal/middleware"
	"thumbstudio/internal/models"
	"thumbstudio/internal/session"
	"thumbstudio/internal/store"
	"thumbstudio/internal/studio"
)

// Auth groups the authentication and account HTTP handlers.
type Auth struct {
	sessions *session.Store
	users    *store.UserStore
	studio   *studio.Service
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions *session.Store, users *store.UserStore, studioSvc *studio.Service) *Auth {
	return &Auth{
		sessions: sessions,
		users:    users,
		studio:   studioSvc,
	}
}

type credentialsRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name,omitempty"`
}

type accountResponse struct {
	User *models.User `json:"user"`
}

// Signup registers a new account and signs it in. New accounts start with
// the free monthly token allotment.
func (a *Auth) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if msg := validateSignup(req.Email, req.Password, req.DisplayName); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	existing, err := a.users.FindByEmail(req.Email)
	if err != nil {
		slog.Error("signup lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "an unexpected error occurred")
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "an account with that email already exists")
		return
	}

	if req.DisplayName == "" {
		req.DisplayName = req.Email[:strings.IndexByte(req.Email, '@')]
	}

	user, err := a.users.Create(req.Email, req.Password, req.DisplayName)
	if err != nil {
		slog.Error("signup create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not create account")
		return
	}

	if _, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		CreatedAt:   time.Now(),
	}); err != nil {
		slog.Error("signup session failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not start session")
		return
	}

	slog.Info("account created", "user_id", user.ID, "email", user.Email)
	writeJSON(w, http.StatusCreated, accountResponse{User: user})
}

// Signin validates credentials and opens a session. The free monthly
// allotment is restored here if the calendar month changed since the
// tokens were last reset.
func (a *Auth) Signin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	user, err := a.users.FindByEmail(req.Email)
	if err != nil {
		slog.Error("signin lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "an unexpected error occurred")
		return
	}
	if user == nil || !a.users.CheckPassword(user, req.Password) {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	now := time.Now()
	if user.NeedsMonthlyReset(now) {
		month := int(now.Month())
		if err := a.users.ResetMonthlyTokens(user.ID, month); err != nil {
			slog.Error("monthly token reset failed", "user_id", user.ID, "error", err)
		} else {
			user.Tokens = models.FreeMonthlyTokens
			user.LastResetMonth = month
			slog.Info("monthly tokens restored", "user_id", user.ID, "month", month)
		}
	}

	if _, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		CreatedAt:   now,
	}); err != nil {
		slog.Error("signin session failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not start session")
		return
	}

	writeJSON(w, http.StatusOK, accountResponse{User: user})
}

// Logout destroys the session and drops the session's studio state.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if id := a.sessions.Destroy(r.Context(), w, r); id != "" {
		a.studio.EndSession(id)
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Me returns the signed-in user's account, including the live token
// balance.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	user, err := a.users.FindByID(sess.UserID)
	if err != nil {
		slog.Error("account lookup failed", "user_id", sess.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, "an unexpected error occurred")
		return
	}
	if user == nil {
		// Account deleted while the session was still alive.
		a.sessions.Destroy(r.Context(), w, r)
		writeError(w, http.StatusUnauthorized, "account no longer exists")
		return
	}

	// Sessions can outlive a month boundary; restore the allotment here
	// too so a user who never signs out still gets it.
	now := time.Now()
	if user.NeedsMonthlyReset(now) {
		month := int(now.Month())
		if err := a.users.ResetMonthlyTokens(user.ID, month); err != nil {
			slog.Error("monthly token reset failed", "user_id", user.ID, "error", err)
		} else {
			user.Tokens = models.FreeMonthlyTokens
			user.LastResetMonth = month
			slog.Info("monthly tokens restored", "user_id", user.ID, "month", month)
		}
	}

	writeJSON(w, http.StatusOK, accountResponse{User: user})
}

// DeleteAccount removes the user record, its session, and any studio
// state. Purchases and generation logs cascade with the row.
func (a *Auth) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	if err := a.users.Delete(sess.UserID); err != nil {
		slog.Error("account delete failed", "user_id", sess.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, "could not delete account")
		return
	}

	if id := a.sessions.Destroy(r.Context(), w, r); id != "" {
		a.studio.EndSession(id)
	}

	slog.Info("account deleted", "user_id", sess.UserID)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
