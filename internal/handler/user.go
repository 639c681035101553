package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sroche/yogabook/internal/auth"
	"github.com/sroche/yogabook/internal/dto"
	"github.com/sroche/yogabook/internal/model"
)

// UserService is the slice of the user service the handler needs.
type UserService interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	Delete(ctx context.Context, id int64) error
}

// UserHandler serves user lookup and self-service account deletion.
type UserHandler struct {
	users  UserService
	logger *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// HandleGet returns a user by id.
//
// HTTP: GET /api/user/{id}
// 200 with the user DTO, 400 on a non-numeric id, 404 when absent.
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeBadID(w, "user id")
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromUser(user))
}

// HandleDelete removes an account. Only the owner may delete it.
//
// HTTP: DELETE /api/user/{id}
//
// Order matters and is part of the contract: the lookup runs first, so a
// non-existent id is 404 before any ownership comparison. Then the
// authenticated principal's username must equal the record's email —
// mismatch is 401 and the delete never runs.
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeBadID(w, "user id")
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok || principal.Username != user.Email {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "you can only delete your own account",
		})
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("account deleted by owner", slog.Int64("id", id))
	writeJSON(w, http.StatusOK, struct{}{})
}
