// Package account implements registration, login and logout.
//
// Routes:
//
//	POST /login     → verify credentials, open a session
//	POST /register  → create a user
//	GET  /logout    → destroy the session
//
// Passwords are stored as bcrypt digests; plaintext never leaves the
// request scope.
package account

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"jobrec/search-service/internal/apperr"
	"jobrec/search-service/internal/model"
	"jobrec/search-service/internal/session"
	"jobrec/search-service/internal/store"
	"jobrec/search-service/internal/validate"
	"jobrec/search-service/internal/web"
)

// UserStore is the slice of persistence the account handlers need.
type UserStore interface {
	AddUser(ctx context.Context, userID, passwordHash, firstName, lastName string) error
	GetCredentials(ctx context.Context, userID string) (string, error)
	GetFullName(ctx context.Context, userID string) (string, error)
}

// SessionManager opens and closes login sessions.
type SessionManager interface {
	Create(ctx context.Context, userID string) (string, error)
	Destroy(ctx context.Context, token string)
	SetCookie(w http.ResponseWriter, token string)
	ClearCookie(w http.ResponseWriter)
}

// Handler holds the account dependencies.
type Handler struct {
	store    UserStore
	sessions SessionManager
}

// NewHandler returns a configured Handler.
func NewHandler(store UserStore, sessions SessionManager) *Handler {
	return &Handler{store: store, sessions: sessions}
}

// RegisterRoutes mounts the account routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/login", h.handleLogin)
	mux.HandleFunc("/register", h.handleRegister)
	mux.HandleFunc("/logout", h.handleLogout)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		web.Error(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		web.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID := validate.SanitizeUsername(body.UserID)
	if userID == "" || !validate.NotEmpty(body.Password) {
		web.Error(w, http.StatusBadRequest, "User ID and password are required")
		return
	}

	hash, err := h.store.GetCredentials(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			web.Error(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		web.AppError(w, "account", apperr.Wrap(apperr.KindDatabase, "Internal server error occurred", err))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(body.Password)); err != nil {
		web.Error(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token, err := h.sessions.Create(r.Context(), userID)
	if err != nil {
		web.AppError(w, "account", apperr.Wrap(apperr.KindCache, "Internal server error occurred", err))
		return
	}
	h.sessions.SetCookie(w, token)

	name, err := h.store.GetFullName(r.Context(), userID)
	if err != nil {
		log.Printf("[account] full name lookup for %s: %v", userID, err)
		name = ""
	}

	web.OK(w, model.LoginResponse{Status: "OK", UserID: userID, Name: name})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		web.Error(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		web.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if res := validate.Registration(body.UserID, body.Password, body.FirstName, body.LastName); !res.Valid() {
		web.Error(w, http.StatusBadRequest, res.Errors())
		return
	}

	userID := validate.Sanitize(body.UserID)
	firstName := validate.Sanitize(body.FirstName)
	lastName := validate.Sanitize(body.LastName)

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[account] hash password: %v", err)
		web.Error(w, http.StatusInternalServerError, "Internal server error occurred")
		return
	}

	if err := h.store.AddUser(r.Context(), userID, string(hash), firstName, lastName); err != nil {
		if errors.Is(err, store.ErrExists) {
			web.Error(w, http.StatusConflict, "User already exists")
			return
		}
		web.AppError(w, "account", apperr.Wrap(apperr.KindDatabase, "Internal server error occurred", err))
		return
	}

	web.OK(w, model.Result{Result: "OK"})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		web.Error(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if token := session.TokenFrom(r); token != "" {
		h.sessions.Destroy(r.Context(), token)
	}
	h.sessions.ClearCookie(w)

	web.OK(w, model.Result{Result: "OK"})
}
