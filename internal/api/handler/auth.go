package handler

import (
	"net/http"

	"github.com/aidlink/aidlink/internal/api/response"
	"github.com/aidlink/aidlink/internal/auth"
)

// AuthHandler issues role tokens.
type AuthHandler struct {
	auth *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{auth: svc}
}

// Login handles POST /v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, err := h.auth.Login(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, token)
}
