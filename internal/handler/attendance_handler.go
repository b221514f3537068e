package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-adp-api/internal/models"
	"github.com/noah-isme/college-adp-api/internal/service"
	"github.com/noah-isme/college-adp-api/pkg/response"
)

type attendanceService interface {
	Take(ctx context.Context, req service.TakeAttendanceRequest, claims *models.JWTClaims) (*models.Attendance, error)
	Dates(ctx context.Context, subjectID, sessionID string) ([]models.Attendance, error)
	Statuses(ctx context.Context, attendanceID string) ([]models.AttendanceStudentStatus, error)
	Update(ctx context.Context, attendanceID string, req service.UpdateAttendanceRequest, claims *models.JWTClaims) (int, error)
}

// AttendanceHandler exposes subject attendance endpoints.
type AttendanceHandler struct {
	service attendanceService
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(svc attendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

// Take godoc
// @Summary Take attendance for a subject
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.TakeAttendanceRequest true "Attendance payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /attendance [post]
func (h *AttendanceHandler) Take(c *gin.Context) {
	var req service.TakeAttendanceRequest
	if !bindJSON(c, &req) {
		return
	}
	attendance, err := h.service.Take(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, attendance)
}

// Dates godoc
// @Summary List attendance dates for a subject
// @Tags Attendance
// @Produce json
// @Param subjectId query string true "Subject ID"
// @Param sessionId query string false "Session ID"
// @Success 200 {object} response.Envelope
// @Router /attendance [get]
func (h *AttendanceHandler) Dates(c *gin.Context) {
	dates, err := h.service.Dates(c.Request.Context(), c.Query("subjectId"), c.Query("sessionId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dates, nil)
}

// Statuses godoc
// @Summary Per-student statuses of one attendance record
// @Tags Attendance
// @Produce json
// @Param id path string true "Attendance ID"
// @Success 200 {object} response.Envelope
// @Router /attendance/{id}/students [get]
func (h *AttendanceHandler) Statuses(c *gin.Context) {
	statuses, err := h.service.Statuses(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, statuses, nil)
}

// Update godoc
// @Summary Update attendance statuses
// @Tags Attendance
// @Accept json
// @Produce json
// @Param id path string true "Attendance ID"
// @Param payload body service.UpdateAttendanceRequest true "Statuses"
// @Success 200 {object} response.Envelope
// @Router /attendance/{id} [put]
func (h *AttendanceHandler) Update(c *gin.Context) {
	var req service.UpdateAttendanceRequest
	if !bindJSON(c, &req) {
		return
	}
	updated, err := h.service.Update(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"attendance_id": c.Param("id"), "updated": updated}, nil)
}
