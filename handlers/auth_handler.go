package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/fairwayfive/golf-pool/services"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login exchanges the admin password for a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Password string `json:"password"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	token, expiresAt, err := h.auth.Login(input.Password)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{
		"token":      token,
		"expires_at": expiresAt.UTC().Format(time.RFC3339),
	}, nil)
}

// Verify reports whether the presented bearer token is still valid.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		unauthorizedResponse(w, r, "missing bearer token")
		return
	}

	claims, err := h.auth.Verify(token)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{
		"valid":      true,
		"expires_at": claims.ExpiresAt.UTC().Format(time.RFC3339),
	}, nil)
}
