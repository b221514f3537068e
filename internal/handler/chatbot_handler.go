package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-adp-api/internal/middleware"
	"github.com/noah-isme/college-adp-api/internal/models"
	"github.com/noah-isme/college-adp-api/internal/service"
	"github.com/noah-isme/college-adp-api/pkg/response"
)

type chatbotService interface {
	Ask(ctx context.Context, req models.ChatbotQuery) (*models.ChatbotReply, bool, error)
	ListEntries(ctx context.Context, category string) ([]models.FAQEntry, error)
	CreateEntry(ctx context.Context, req service.CreateFAQEntryRequest) (*models.FAQEntry, error)
	DeleteEntry(ctx context.Context, id string) error
}

// ChatbotHandler exposes the FAQ chatbot.
type ChatbotHandler struct {
	service chatbotService
}

// NewChatbotHandler constructs the handler.
func NewChatbotHandler(svc chatbotService) *ChatbotHandler {
	return &ChatbotHandler{service: svc}
}

// Query godoc
// @Summary Ask the FAQ chatbot
// @Tags Chatbot
// @Accept json
// @Produce json
// @Param payload body models.ChatbotQuery true "Question"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /chatbot/query [post]
func (h *ChatbotHandler) Query(c *gin.Context) {
	var req models.ChatbotQuery
	if !bindJSON(c, &req) {
		return
	}
	reply, cacheHit, err := h.service.Ask(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, reply, nil, middleware.ExtractMeta(c))
}

// ListEntries godoc
// @Summary List FAQ entries
// @Tags Chatbot
// @Produce json
// @Param category query string false "Filter by category"
// @Success 200 {object} response.Envelope
// @Router /chatbot/entries [get]
func (h *ChatbotHandler) ListEntries(c *gin.Context) {
	entries, err := h.service.ListEntries(c.Request.Context(), c.Query("category"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// CreateEntry godoc
// @Summary Add an FAQ entry
// @Tags Chatbot
// @Accept json
// @Produce json
// @Param payload body service.CreateFAQEntryRequest true "Entry"
// @Success 201 {object} response.Envelope
// @Router /chatbot/entries [post]
func (h *ChatbotHandler) CreateEntry(c *gin.Context) {
	var req service.CreateFAQEntryRequest
	if !bindJSON(c, &req) {
		return
	}
	entry, err := h.service.CreateEntry(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// DeleteEntry godoc
// @Summary Delete an FAQ entry
// @Tags Chatbot
// @Param id path string true "Entry ID"
// @Success 204
// @Router /chatbot/entries/{id} [delete]
func (h *ChatbotHandler) DeleteEntry(c *gin.Context) {
	if err := h.service.DeleteEntry(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
