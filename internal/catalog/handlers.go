package catalog

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/arjyapattanayak/coursepay/internal/common"
)

// Handler exposes read-only HTTP endpoints for the course catalog.
type Handler struct {
	Svc *Service
}

// Courses lists all purchasable courses.
func (h *Handler) Courses(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Svc == nil {
		common.Fail(w, http.StatusInternalServerError, "catalog unavailable")
		return
	}
	courses, err := h.Svc.List(r.Context())
	if err != nil {
		common.Fail(w, http.StatusInternalServerError, "catalog unavailable")
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"success": true, "courses": courses})
}

// Course returns a single course by id.
func (h *Handler) Course(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Svc == nil {
		common.Fail(w, http.StatusInternalServerError, "catalog unavailable")
		return
	}
	id := strings.TrimSpace(chi.URLParam(r, "courseId"))
	if id == "" {
		common.Fail(w, http.StatusBadRequest, "courseId is required")
		return
	}
	course, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			common.Fail(w, http.StatusNotFound, "course not found")
			return
		}
		common.Fail(w, http.StatusInternalServerError, "catalog unavailable")
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"success": true, "course": course})
}
