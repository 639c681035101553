package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sroche/yogabook/internal/dto"
	"github.com/sroche/yogabook/internal/model"
)

// TeacherService is the slice of the teacher service the handler needs.
type TeacherService interface {
	List(ctx context.Context) ([]model.Teacher, error)
	GetByID(ctx context.Context, id int64) (*model.Teacher, error)
}

// TeacherHandler serves the read-only teacher roster.
type TeacherHandler struct {
	teachers TeacherService
	logger   *slog.Logger
}

// NewTeacherHandler creates a TeacherHandler.
func NewTeacherHandler(teachers TeacherService, logger *slog.Logger) *TeacherHandler {
	return &TeacherHandler{teachers: teachers, logger: logger}
}

// HandleList returns all teachers.
//
// HTTP: GET /api/teacher
func (h *TeacherHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	teachers, err := h.teachers.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list teachers", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromTeachers(teachers))
}

// HandleGet returns a teacher by id.
//
// HTTP: GET /api/teacher/{id}
// 200, 400 on a non-numeric id, 404 when absent.
func (h *TeacherHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeBadID(w, "teacher id")
		return
	}

	teacher, err := h.teachers.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FromTeacher(teacher))
}
