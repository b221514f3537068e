package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-adp-api/internal/models"
	"github.com/noah-isme/college-adp-api/internal/service"
	"github.com/noah-isme/college-adp-api/pkg/response"
)

// LeaveHandler exposes leave and feedback endpoints.
type LeaveHandler struct {
	service *service.LeaveService
}

// NewLeaveHandler constructs the handler.
func NewLeaveHandler(svc *service.LeaveService) *LeaveHandler {
	return &LeaveHandler{service: svc}
}

// Apply godoc
// @Summary Apply for leave
// @Tags Leave
// @Accept json
// @Produce json
// @Param payload body service.LeaveRequest true "Leave request"
// @Success 201 {object} response.Envelope
// @Router /leave [post]
func (h *LeaveHandler) Apply(c *gin.Context) {
	var req service.LeaveRequest
	if !bindJSON(c, &req) {
		return
	}
	leave, err := h.service.ApplyLeave(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, leave)
}

// Mine godoc
// @Summary Current user's leave requests
// @Tags Leave
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /leave/me [get]
func (h *LeaveHandler) Mine(c *gin.Context) {
	leaves, err := h.service.MyLeaves(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, leaves, nil)
}

// List godoc
// @Summary All leave requests of one requester type
// @Tags Leave
// @Produce json
// @Param type query string false "student (default) or staff"
// @Success 200 {object} response.Envelope
// @Router /leave [get]
func (h *LeaveHandler) List(c *gin.Context) {
	kind := models.RequesterType(c.DefaultQuery("type", string(models.RequesterStudent)))
	leaves, err := h.service.ListLeaves(c.Request.Context(), kind, "")
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, leaves, nil)
}

// Decide godoc
// @Summary Approve or reject leave
// @Tags Leave
// @Accept json
// @Produce json
// @Param id path string true "Leave ID"
// @Param payload body service.LeaveDecision true "Decision"
// @Success 200 {object} response.Envelope
// @Router /leave/{id}/status [patch]
func (h *LeaveHandler) Decide(c *gin.Context) {
	var req service.LeaveDecision
	if !bindJSON(c, &req) {
		return
	}
	leave, err := h.service.DecideLeave(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, leave, nil)
}

// SendFeedback godoc
// @Summary Send feedback to the HOD
// @Tags Feedback
// @Accept json
// @Produce json
// @Param payload body service.FeedbackRequest true "Feedback"
// @Success 201 {object} response.Envelope
// @Router /feedback [post]
func (h *LeaveHandler) SendFeedback(c *gin.Context) {
	var req service.FeedbackRequest
	if !bindJSON(c, &req) {
		return
	}
	feedback, err := h.service.SendFeedback(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, feedback)
}

// MyFeedback godoc
// @Summary Current user's feedback and replies
// @Tags Feedback
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /feedback/me [get]
func (h *LeaveHandler) MyFeedback(c *gin.Context) {
	items, err := h.service.MyFeedback(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// ListFeedback godoc
// @Summary All feedback of one requester type
// @Tags Feedback
// @Produce json
// @Param type query string false "student (default) or staff"
// @Success 200 {object} response.Envelope
// @Router /feedback [get]
func (h *LeaveHandler) ListFeedback(c *gin.Context) {
	kind := models.RequesterType(c.DefaultQuery("type", string(models.RequesterStudent)))
	items, err := h.service.ListFeedback(c.Request.Context(), kind, "")
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Reply godoc
// @Summary Reply to feedback
// @Tags Feedback
// @Accept json
// @Produce json
// @Param id path string true "Feedback ID"
// @Param payload body service.ReplyRequest true "Reply"
// @Success 200 {object} response.Envelope
// @Router /feedback/{id}/reply [post]
func (h *LeaveHandler) Reply(c *gin.Context) {
	var req service.ReplyRequest
	if !bindJSON(c, &req) {
		return
	}
	feedback, err := h.service.Reply(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, feedback, nil)
}
