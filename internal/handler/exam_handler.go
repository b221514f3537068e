package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-adp-api/internal/service"
	"github.com/noah-isme/college-adp-api/pkg/response"
)

// ExamHandler exposes exam hall and exam timetable endpoints.
type ExamHandler struct {
	service *service.ExamService
}

// NewExamHandler constructs the handler.
func NewExamHandler(svc *service.ExamService) *ExamHandler {
	return &ExamHandler{service: svc}
}

// ListHalls godoc
// @Summary List exam halls
// @Tags Exams
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /exam-halls [get]
func (h *ExamHandler) ListHalls(c *gin.Context) {
	halls, err := h.service.ListHalls(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, halls, nil)
}

// CreateHall godoc
// @Summary Create exam hall
// @Tags Exams
// @Accept json
// @Produce json
// @Param payload body service.ExamHallRequest true "Hall payload"
// @Success 201 {object} response.Envelope
// @Router /exam-halls [post]
func (h *ExamHandler) CreateHall(c *gin.Context) {
	var req service.ExamHallRequest
	if !bindJSON(c, &req) {
		return
	}
	hall, err := h.service.CreateHall(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, hall)
}

// List godoc
// @Summary List exams
// @Tags Exams
// @Produce json
// @Param courseId query string false "Filter by course"
// @Success 200 {object} response.Envelope
// @Router /exams [get]
func (h *ExamHandler) List(c *gin.Context) {
	exams, err := h.service.List(c.Request.Context(), c.Query("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, exams, nil)
}

// Get godoc
// @Summary Get exam with timetable
// @Tags Exams
// @Produce json
// @Param id path string true "Exam ID"
// @Success 200 {object} response.Envelope
// @Router /exams/{id} [get]
func (h *ExamHandler) Get(c *gin.Context) {
	exam, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, exam, nil)
}

// Create godoc
// @Summary Create exam with its subjects
// @Tags Exams
// @Accept json
// @Produce json
// @Param payload body service.CreateExamRequest true "Exam payload"
// @Success 201 {object} response.Envelope
// @Router /exams [post]
func (h *ExamHandler) Create(c *gin.Context) {
	var req service.CreateExamRequest
	if !bindJSON(c, &req) {
		return
	}
	exam, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, exam)
}

// Delete godoc
// @Summary Delete exam, its subjects and hall tickets
// @Tags Exams
// @Param id path string true "Exam ID"
// @Success 204
// @Router /exams/{id} [delete]
func (h *ExamHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
