package gateway

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tasknest/tasknest/internal/auth"
	"github.com/tasknest/tasknest/internal/store"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	UserID      string `json:"user_id"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "email and a password of at least 8 characters are required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not create account")
		return
	}
	user, err := s.st.CreateUser(r.Context(), req.Email, hash)
	if errors.Is(err, store.ErrEmailTaken) {
		writeError(w, http.StatusConflict, "email already registered")
		return
	}
	if err != nil {
		slog.Error("signup failed", "err", err)
		writeError(w, http.StatusInternalServerError, "could not create account")
		return
	}

	token, err := s.auth.IssueToken(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	slog.Info("user registered", "user", user.ID)
	writeJSON(w, http.StatusCreated, tokenResponse{UserID: user.ID, AccessToken: token, TokenType: "bearer"})
}

func (s *Server) handleSignin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.st.UserByEmail(r.Context(), req.Email)
	if errors.Is(err, store.ErrUserNotFound) {
		writeError(w, http.StatusUnauthorized, auth.ErrBadCredentials.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not sign in")
		return
	}
	if auth.CheckPassword(req.Password, user.PasswordHash) != nil {
		writeError(w, http.StatusUnauthorized, auth.ErrBadCredentials.Error())
		return
	}

	token, err := s.auth.IssueToken(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{UserID: user.ID, AccessToken: token, TokenType: "bearer"})
}
