package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-adp-api/internal/models"
	"github.com/noah-isme/college-adp-api/pkg/response"
)

type hallTicketService interface {
	Generate(ctx context.Context, examID string) ([]models.HallTicket, error)
	ListByExam(ctx context.Context, examID string) ([]models.HallTicketDetail, error)
	ListForStudent(ctx context.Context, userID string) ([]models.HallTicketDetail, error)
	Get(ctx context.Context, id string, claims *models.JWTClaims) (*models.HallTicketDetail, error)
	RenderPDF(ctx context.Context, id string, claims *models.JWTClaims) ([]byte, string, error)
	Delete(ctx context.Context, id string) error
}

// HallTicketHandler exposes seat allocation and hall ticket endpoints.
type HallTicketHandler struct {
	service hallTicketService
}

// NewHallTicketHandler constructs the handler.
func NewHallTicketHandler(svc hallTicketService) *HallTicketHandler {
	return &HallTicketHandler{service: svc}
}

// Generate godoc
// @Summary Allocate seats and issue hall tickets for an exam
// @Description Tickets are issued once per exam. A second call returns 409.
// @Tags Hall Tickets
// @Produce json
// @Param id path string true "Exam ID"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /exams/{id}/hall-tickets [post]
func (h *HallTicketHandler) Generate(c *gin.Context) {
	tickets, err := h.service.Generate(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, tickets, nil, map[string]interface{}{"count": len(tickets)})
}

// ListByExam godoc
// @Summary List hall tickets of an exam
// @Tags Hall Tickets
// @Produce json
// @Param id path string true "Exam ID"
// @Success 200 {object} response.Envelope
// @Router /exams/{id}/hall-tickets [get]
func (h *HallTicketHandler) ListByExam(c *gin.Context) {
	tickets, err := h.service.ListByExam(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tickets, nil)
}

// Mine godoc
// @Summary Current student's hall tickets
// @Tags Hall Tickets
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /hall-tickets/me [get]
func (h *HallTicketHandler) Mine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	tickets, err := h.service.ListForStudent(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tickets, nil)
}

// Get godoc
// @Summary Get hall ticket
// @Tags Hall Tickets
// @Produce json
// @Param id path string true "Hall ticket ID"
// @Success 200 {object} response.Envelope
// @Router /hall-tickets/{id} [get]
func (h *HallTicketHandler) Get(c *gin.Context) {
	ticket, err := h.service.Get(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ticket, nil)
}

// PDF godoc
// @Summary Download hall ticket PDF
// @Tags Hall Tickets
// @Produce application/pdf
// @Param id path string true "Hall ticket ID"
// @Success 200 {file} binary
// @Router /hall-tickets/{id}/pdf [get]
func (h *HallTicketHandler) PDF(c *gin.Context) {
	body, filename, err := h.service.RenderPDF(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, filename, "application/pdf", body)
}

// Delete godoc
// @Summary Delete hall ticket
// @Tags Hall Tickets
// @Param id path string true "Hall ticket ID"
// @Success 204
// @Router /hall-tickets/{id} [delete]
func (h *HallTicketHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
