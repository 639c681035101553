// Package handler contains the HTTP layer: request parsing, id validation,
// and the translation of service results into status codes and JSON bodies.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sroche/yogabook/internal/dto"
	"github.com/sroche/yogabook/internal/model"
)

// AuthService is the slice of the auth service the handler needs. Declaring
// the interface on the consumer side keeps the handler testable with a mock
// and free of a dependency on the concrete service type.
type AuthService interface {
	Register(ctx context.Context, email, firstName, lastName, password string) error
	Login(ctx context.Context, email, password string) (*model.User, string, error)
}

// AuthHandler serves the register and login endpoints — the only routes
// reachable without a bearer token.
type AuthHandler struct {
	auth   AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// HandleRegister creates a new account.
//
// HTTP: POST /api/auth/register
// Body: {"email": ..., "firstName": ..., "lastName": ..., "password": ...}
// 200 on success, 400 on bad JSON, validation failure, or duplicate email.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid register JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	if err := h.auth.Register(r.Context(), req.Email, req.FirstName, req.LastName, req.Password); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "User registered successfully!"})
}

// HandleLogin authenticates and returns a bearer token.
//
// HTTP: POST /api/auth/login
// Body: {"email": ..., "password": ...}
// 200 with the token envelope, 401 on bad credentials.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid login JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		Token:     token,
		Type:      "Bearer",
		ID:        user.ID,
		Username:  user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Admin:     user.Admin,
	})
}
