package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/ShadyM97/LearnHub-Backend/middleware"
	"github.com/ShadyM97/LearnHub-Backend/models"
	"github.com/ShadyM97/LearnHub-Backend/utils"
	"go.uber.org/zap"
)

// CourseService defines the course operations used by the handler
type CourseService interface {
	List(ctx context.Context, filter models.CourseFilter) ([]*models.Course, error)
	ListForTeacher(ctx context.Context, teacherID string) ([]*models.Course, error)
	ListForStudent(ctx context.Context, studentID string) ([]*models.Course, error)
	Get(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, teacherID string, in *models.CourseCreate) (*models.Course, error)
	Update(ctx context.Context, teacherID, id string, update *models.CourseUpdate) (*models.Course, error)
}

// CourseHandler handles catalogue and course management requests
type CourseHandler struct {
	courses CourseService
	logger  *zap.Logger
}

// NewCourseHandler creates a new CourseHandler
func NewCourseHandler(courses CourseService, logger *zap.Logger) *CourseHandler {
	return &CourseHandler{
		courses: courses,
		logger:  logger,
	}
}

// HandleList handles GET /courses
func (h *CourseHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	filter, err := parseCourseFilter(r)
	if err != nil {
		_ = utils.WriteBadRequest(w, err.Error(), nil)
		return
	}

	courses, err := h.courses.List(r.Context(), filter)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Debug("listed courses",
		zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())),
		zap.Int("count", len(courses)))
	_ = utils.WriteJSON(w, http.StatusOK, courses)
}

// HandleListMine handles GET /courses/my/teacher
func (h *CourseHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	teacherID, ok := callerID(w, r)
	if !ok {
		return
	}

	courses, err := h.courses.ListForTeacher(r.Context(), teacherID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteJSON(w, http.StatusOK, courses)
}

// HandleListEnrolled handles GET /courses/my/student
func (h *CourseHandler) HandleListEnrolled(w http.ResponseWriter, r *http.Request) {
	studentID, ok := callerID(w, r)
	if !ok {
		return
	}

	courses, err := h.courses.ListForStudent(r.Context(), studentID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteJSON(w, http.StatusOK, courses)
}

// HandleGet handles GET /courses/{courseID}
func (h *CourseHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "courseID")
	if !ok {
		return
	}

	course, err := h.courses.Get(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteJSON(w, http.StatusOK, course)
}

// HandleCreate handles POST /courses
func (h *CourseHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	teacherID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req models.CourseCreate
	if !decodeBody(w, r, &req, h.logger) {
		return
	}

	course, err := h.courses.Create(r.Context(), teacherID, &req)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteJSON(w, http.StatusCreated, course)
}

// HandleUpdate handles PUT /courses/{courseID}
func (h *CourseHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	teacherID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "courseID")
	if !ok {
		return
	}

	var req models.CourseUpdate
	if !decodeBody(w, r, &req, h.logger) {
		return
	}

	course, err := h.courses.Update(r.Context(), teacherID, id, &req)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("course updated",
		zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())),
		zap.String("course_id", id))
	_ = utils.WriteJSON(w, http.StatusOK, course)
}

// parseCourseFilter reads the catalogue query parameters over the defaults
func parseCourseFilter(r *http.Request) (models.CourseFilter, error) {
	q := r.URL.Query()
	filter := models.DefaultCourseFilter()

	filter.Search = strings.TrimSpace(q.Get("search"))
	if v := q.Get("category"); v != "" {
		filter.Category = v
	}
	if v := q.Get("level"); v != "" {
		filter.Level = v
	}

	numbers := []struct {
		name string
		dst  *float64
	}{
		{"min_price", &filter.MinPrice},
		{"max_price", &filter.MaxPrice},
		{"min_rating", &filter.MinRating},
	}
	for _, n := range numbers {
		raw := q.Get(n.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filter, &utils.ValidationError{Message: "Invalid " + n.name}
		}
		*n.dst = v
	}
	return filter, nil
}
