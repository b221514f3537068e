package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-adp-api/internal/service"
	"github.com/noah-isme/college-adp-api/pkg/response"
)

// StaffHandler exposes staff endpoints.
type StaffHandler struct {
	staff *service.StaffService
}

// NewStaffHandler constructs StaffHandler.
func NewStaffHandler(staff *service.StaffService) *StaffHandler {
	return &StaffHandler{staff: staff}
}

// List godoc
// @Summary List staff
// @Tags Staff
// @Produce json
// @Param courseId query string false "Filter by course"
// @Success 200 {object} response.Envelope
// @Router /staff [get]
func (h *StaffHandler) List(c *gin.Context) {
	staff, err := h.staff.List(c.Request.Context(), c.Query("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, staff, nil)
}

// Get godoc
// @Summary Get staff member detail
// @Tags Staff
// @Produce json
// @Param id path string true "Staff ID"
// @Success 200 {object} response.Envelope
// @Router /staff/{id} [get]
func (h *StaffHandler) Get(c *gin.Context) {
	member, err := h.staff.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, member, nil)
}

// Me godoc
// @Summary Current staff member's profile
// @Tags Staff
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /staff/me [get]
func (h *StaffHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	member, err := h.staff.GetByUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, member, nil)
}

// Create godoc
// @Summary Register a staff member with a login account
// @Tags Staff
// @Accept json
// @Produce json
// @Param payload body service.StaffRequest true "Staff payload"
// @Success 201 {object} response.Envelope
// @Router /staff [post]
func (h *StaffHandler) Create(c *gin.Context) {
	var req service.StaffRequest
	if !bindJSON(c, &req) {
		return
	}
	member, err := h.staff.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, member)
}

// Update godoc
// @Summary Update staff member
// @Tags Staff
// @Accept json
// @Produce json
// @Param id path string true "Staff ID"
// @Param payload body service.StaffRequest true "Staff payload"
// @Success 200 {object} response.Envelope
// @Router /staff/{id} [put]
func (h *StaffHandler) Update(c *gin.Context) {
	var req service.StaffRequest
	if !bindJSON(c, &req) {
		return
	}
	member, err := h.staff.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, member, nil)
}

// Delete godoc
// @Summary Delete staff member and login account
// @Tags Staff
// @Param id path string true "Staff ID"
// @Success 204
// @Router /staff/{id} [delete]
func (h *StaffHandler) Delete(c *gin.Context) {
	if err := h.staff.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
