package api

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/gatherly/internal/server/services"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// TokenResponse mirrors what the client decodes after sign-in.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int64     `json:"expires_in"`
	User        tokenUser `json:"user"`
}

func newTokenResponse(t *services.Token) TokenResponse {
	return TokenResponse{
		AccessToken: t.AccessToken,
		TokenType:   "bearer",
		ExpiresIn:   int64(t.ExpiresIn.Seconds()),
		User:        tokenUser{ID: t.UserID, Email: t.Email},
	}
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (credentials, bool) {
	var c credentials
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPayloadBytes)).Decode(&c); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return c, false
	}
	if c.Email == "" || c.Password == "" {
		respondError(w, "email and password are required", http.StatusBadRequest)
		return c, false
	}
	return c, true
}

// signUp handles POST /auth/v1/signup.
func (h *Handler) signUp(w http.ResponseWriter, r *http.Request) {
	c, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	t, err := h.accounts.Register(r.Context(), c.Email, c.Password)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}

	h.logger.Info(r.Context(), "account created", "user_id", t.UserID)
	writeJSON(w, http.StatusOK, newTokenResponse(t))
}

// token handles POST /auth/v1/token.
func (h *Handler) token(w http.ResponseWriter, r *http.Request) {
	c, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	t, err := h.accounts.Login(r.Context(), c.Email, c.Password)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newTokenResponse(t))
}
