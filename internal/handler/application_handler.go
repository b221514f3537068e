package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-adp-api/internal/models"
	"github.com/noah-isme/college-adp-api/internal/service"
	"github.com/noah-isme/college-adp-api/pkg/response"
)

type applicationService interface {
	ApplyKT(ctx context.Context, userID string, req service.ApplyRequest) (*models.KTApplication, error)
	ApplyRevaluation(ctx context.Context, userID string, req service.ApplyRequest) (*models.RevaluationApplication, error)
	Mine(ctx context.Context, kind models.ApplicationKind, userID string) ([]models.ApplicationView, error)
	List(ctx context.Context, kind models.ApplicationKind, status models.ApplicationStatus, claims *models.JWTClaims) ([]models.ApplicationView, error)
	Review(ctx context.Context, kind models.ApplicationKind, id string, req service.ReviewRequest, claims *models.JWTClaims) (*models.ApplicationView, error)
}

// ApplicationHandler exposes KT and revaluation endpoints. One instance
// serves one application kind.
type ApplicationHandler struct {
	service applicationService
	kind    models.ApplicationKind
}

// NewApplicationHandler constructs a handler bound to kind.
func NewApplicationHandler(svc applicationService, kind models.ApplicationKind) *ApplicationHandler {
	return &ApplicationHandler{service: svc, kind: kind}
}

// Apply godoc
// @Summary Apply for KT or revaluation
// @Tags Applications
// @Accept json
// @Produce json
// @Param kind path string true "kt or revaluation"
// @Param payload body service.ApplyRequest true "Application payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /applications/{kind} [post]
func (h *ApplicationHandler) Apply(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req service.ApplyRequest
	if !bindJSON(c, &req) {
		return
	}
	var (
		app interface{}
		err error
	)
	if h.kind == models.ApplicationKindKT {
		app, err = h.service.ApplyKT(c.Request.Context(), userID, req)
	} else {
		app, err = h.service.ApplyRevaluation(c.Request.Context(), userID, req)
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, app)
}

// Mine godoc
// @Summary Current student's applications
// @Tags Applications
// @Produce json
// @Param kind path string true "kt or revaluation"
// @Success 200 {object} response.Envelope
// @Router /applications/{kind}/me [get]
func (h *ApplicationHandler) Mine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	apps, err := h.service.Mine(c.Request.Context(), h.kind, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, apps, nil)
}

// List godoc
// @Summary Applications awaiting review
// @Tags Applications
// @Produce json
// @Param kind path string true "kt or revaluation"
// @Param status query string false "pending, approved or rejected"
// @Success 200 {object} response.Envelope
// @Router /applications/{kind} [get]
func (h *ApplicationHandler) List(c *gin.Context) {
	apps, err := h.service.List(c.Request.Context(), h.kind, models.ApplicationStatus(c.Query("status")), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, apps, nil)
}

// Review godoc
// @Summary Approve or reject an application
// @Tags Applications
// @Accept json
// @Produce json
// @Param kind path string true "kt or revaluation"
// @Param id path string true "Application ID"
// @Param payload body service.ReviewRequest true "Decision"
// @Success 200 {object} response.Envelope
// @Router /applications/{kind}/{id}/status [patch]
func (h *ApplicationHandler) Review(c *gin.Context) {
	var req service.ReviewRequest
	if !bindJSON(c, &req) {
		return
	}
	app, err := h.service.Review(c.Request.Context(), h.kind, c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, app, nil)
}
