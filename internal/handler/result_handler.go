package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-adp-api/internal/models"
	"github.com/noah-isme/college-adp-api/internal/service"
	appErrors "github.com/noah-isme/college-adp-api/pkg/errors"
	"github.com/noah-isme/college-adp-api/pkg/response"
)

type resultService interface {
	Add(ctx context.Context, req service.ResultRequest, claims *models.JWTClaims) (*models.StudentResult, error)
	Edit(ctx context.Context, req service.ResultRequest, claims *models.JWTClaims) (*models.StudentResult, error)
	Lookup(ctx context.Context, studentID, subjectID string, claims *models.JWTClaims) (*models.StudentResult, error)
	Sheet(ctx context.Context, filter models.ResultSheetFilter, claims *models.JWTClaims) (*models.SubjectDetail, []models.ResultSheetRow, error)
	SheetFile(ctx context.Context, filter models.ResultSheetFilter, format service.ResultFormat, claims *models.JWTClaims) ([]byte, string, error)
	ForStudent(ctx context.Context, userID string, filter service.StudentResultFilter) (*models.StudentDetail, []models.ResultSheetRow, error)
	StudentCard(ctx context.Context, userID string, filter service.StudentResultFilter) ([]byte, string, error)
}

var resultContentTypes = map[service.ResultFormat]string{
	service.ResultFormatPDF: "application/pdf",
	service.ResultFormatCSV: "text/csv",
}

// ResultHandler exposes marks entry and result sheet endpoints.
type ResultHandler struct {
	service resultService
}

// NewResultHandler constructs the handler.
func NewResultHandler(svc resultService) *ResultHandler {
	return &ResultHandler{service: svc}
}

// Add godoc
// @Summary Add a student result
// @Tags Results
// @Accept json
// @Produce json
// @Param payload body service.ResultRequest true "Marks"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /results [post]
func (h *ResultHandler) Add(c *gin.Context) {
	var req service.ResultRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.service.Add(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Edit godoc
// @Summary Create or replace a student result
// @Tags Results
// @Accept json
// @Produce json
// @Param payload body service.ResultRequest true "Marks"
// @Success 200 {object} response.Envelope
// @Router /results [put]
func (h *ResultHandler) Edit(c *gin.Context) {
	var req service.ResultRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.service.Edit(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Lookup godoc
// @Summary Latest result of a student in a subject
// @Tags Results
// @Produce json
// @Param studentId query string true "Student ID"
// @Param subjectId query string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Router /results/lookup [get]
func (h *ResultHandler) Lookup(c *gin.Context) {
	studentID, subjectID := c.Query("studentId"), c.Query("subjectId")
	if studentID == "" || subjectID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "studentId and subjectId required"))
		return
	}
	result, err := h.service.Lookup(c.Request.Context(), studentID, subjectID, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Sheet godoc
// @Summary Result sheet of a subject
// @Tags Results
// @Produce json
// @Param subjectId query string true "Subject ID"
// @Param semester query string true "Semester"
// @Param academicYear query string true "Academic year"
// @Success 200 {object} response.Envelope
// @Router /results/sheet [get]
func (h *ResultHandler) Sheet(c *gin.Context) {
	var filter models.ResultSheetFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	subject, rows, err := h.service.Sheet(c.Request.Context(), filter, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"subject": subject, "results": rows}, nil)
}

// SheetFile godoc
// @Summary Download a result sheet
// @Tags Results
// @Produce application/pdf
// @Produce text/csv
// @Param subjectId query string true "Subject ID"
// @Param semester query string true "Semester"
// @Param academicYear query string true "Academic year"
// @Param format query string false "pdf (default) or csv"
// @Success 200 {file} binary
// @Router /results/sheet/pdf [get]
func (h *ResultHandler) SheetFile(c *gin.Context) {
	var filter models.ResultSheetFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	format := service.ResultFormat(c.DefaultQuery("format", string(service.ResultFormatPDF)))
	body, filename, err := h.service.SheetFile(c.Request.Context(), filter, format, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, filename, resultContentTypes[format], body)
}

// Mine godoc
// @Summary Current student's results
// @Tags Results
// @Produce json
// @Param semester query string false "Semester"
// @Param academicYear query string false "Academic year"
// @Success 200 {object} response.Envelope
// @Router /results/me [get]
func (h *ResultHandler) Mine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	filter := service.StudentResultFilter{Semester: c.Query("semester"), AcademicYear: c.Query("academicYear")}
	student, rows, err := h.service.ForStudent(c.Request.Context(), userID, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"student": student, "results": rows}, nil)
}

// MyCard godoc
// @Summary Download the current student's result card
// @Tags Results
// @Produce application/pdf
// @Param semester query string false "Semester"
// @Param academicYear query string false "Academic year"
// @Success 200 {file} binary
// @Router /results/me/pdf [get]
func (h *ResultHandler) MyCard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	filter := service.StudentResultFilter{Semester: c.Query("semester"), AcademicYear: c.Query("academicYear")}
	body, filename, err := h.service.StudentCard(c.Request.Context(), userID, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, filename, "application/pdf", body)
}
