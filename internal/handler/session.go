package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/sroche/yogabook/internal/dto"
	"github.com/sroche/yogabook/internal/model"
)

// SessionService is the slice of the session service the handler needs.
type SessionService interface {
	Create(ctx context.Context, name string, date time.Time, description string, teacherID *int64) (*model.Session, error)
	GetByID(ctx context.Context, id int64) (*model.Session, error)
	List(ctx context.Context) ([]model.Session, error)
	Update(ctx context.Context, id int64, name string, date time.Time, description string, teacherID *int64) (*model.Session, error)
	Delete(ctx context.Context, id int64) error
	Participate(ctx context.Context, sessionID, userID int64) error
	Unparticipate(ctx context.Context, sessionID, userID int64) error
}

// SessionHandler serves session CRUD and the participation toggle.
//
// Every {id} and {userId} path segment is parsed as a number before any
// service call — "/api/session/abc" is a 400 that never touches storage.
type SessionHandler struct {
	sessions SessionService
	logger   *slog.Logger
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(sessions SessionService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, logger: logger}
}

// HandleList returns all sessions.
//
// HTTP: GET /api/session
func (h *SessionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.sessions.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list sessions", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromSessions(sessions))
}

// HandleGet returns a session by id.
//
// HTTP: GET /api/session/{id}
func (h *SessionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeBadID(w, "session id")
		return
	}

	session, err := h.sessions.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromSession(session))
}

// HandleCreate saves a new session.
//
// HTTP: POST /api/session
// Body: {"name": ..., "date": ..., "teacher_id": ..., "description": ...}
func (h *SessionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.SessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid session JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	session, err := h.sessions.Create(r.Context(), req.Name, req.Date, req.Description, req.TeacherID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromSession(session))
}

// HandleUpdate replaces a session's fields.
//
// HTTP: PUT /api/session/{id}
func (h *SessionHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeBadID(w, "session id")
		return
	}

	var req dto.SessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid session JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	session, err := h.sessions.Update(r.Context(), id, req.Name, req.Date, req.Description, req.TeacherID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromSession(session))
}

// HandleDelete removes a session.
//
// HTTP: DELETE /api/session/{id}
func (h *SessionHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeBadID(w, "session id")
		return
	}

	if err := h.sessions.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct{}{})
}

// HandleParticipate adds a user to a session's participant set.
//
// HTTP: POST /api/session/{id}/participate/{userId}
// 404 when session or user is absent, 400 when already participating.
func (h *SessionHandler) HandleParticipate(w http.ResponseWriter, r *http.Request) {
	sessionID, userID, ok := h.parseParticipationIDs(w, r)
	if !ok {
		return
	}

	if err := h.sessions.Participate(r.Context(), sessionID, userID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct{}{})
}

// HandleUnparticipate removes a user from a session's participant set.
//
// HTTP: DELETE /api/session/{id}/participate/{userId}
// 404 when the session is absent, 400 when not participating.
func (h *SessionHandler) HandleUnparticipate(w http.ResponseWriter, r *http.Request) {
	sessionID, userID, ok := h.parseParticipationIDs(w, r)
	if !ok {
		return
	}

	if err := h.sessions.Unparticipate(r.Context(), sessionID, userID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct{}{})
}

func (h *SessionHandler) parseParticipationIDs(w http.ResponseWriter, r *http.Request) (sessionID, userID int64, ok bool) {
	sessionID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeBadID(w, "session id")
		return 0, 0, false
	}

	userID, err = strconv.ParseInt(r.PathValue("userId"), 10, 64)
	if err != nil {
		writeBadID(w, "user id")
		return 0, 0, false
	}

	return sessionID, userID, true
}
