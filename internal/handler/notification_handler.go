package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-adp-api/internal/service"
	"github.com/noah-isme/college-adp-api/pkg/response"
)

// NotificationHandler exposes the in-app inbox.
type NotificationHandler struct {
	service *service.NotificationService
}

// NewNotificationHandler constructs the handler.
func NewNotificationHandler(svc *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: svc}
}

// Inbox godoc
// @Summary Current user's notifications
// @Description Returns every notification and marks them read.
// @Tags Notifications
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /notifications/me [get]
func (h *NotificationHandler) Inbox(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	items, err := h.service.Inbox(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	unread := 0
	for _, item := range items {
		if !item.IsRead {
			unread++
		}
	}
	response.JSON(c, http.StatusOK, items, nil, map[string]interface{}{"unread": unread})
}

// Send godoc
// @Summary Send a general notification
// @Tags Notifications
// @Accept json
// @Produce json
// @Param payload body service.NotificationRequest true "Notification"
// @Success 201 {object} response.Envelope
// @Router /notifications [post]
func (h *NotificationHandler) Send(c *gin.Context) {
	var req service.NotificationRequest
	if !bindJSON(c, &req) {
		return
	}
	sent, err := h.service.Send(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, sent)
}
