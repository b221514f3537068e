package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-adp-api/internal/models"
	"github.com/noah-isme/college-adp-api/internal/service"
	"github.com/noah-isme/college-adp-api/pkg/response"
)

type libraryService interface {
	AddBook(ctx context.Context, req service.BookRequest) (*models.Book, error)
	ListBooks(ctx context.Context) ([]models.Book, error)
	Issue(ctx context.Context, req service.IssueRequest) (*models.IssuedBook, error)
	ListIssues(ctx context.Context) ([]models.IssuedBookDetail, error)
	MyIssues(ctx context.Context, userID string) ([]models.IssuedBookDetail, error)
}

// LibraryHandler exposes the book catalogue and loans.
type LibraryHandler struct {
	service libraryService
}

// NewLibraryHandler constructs the handler.
func NewLibraryHandler(svc libraryService) *LibraryHandler {
	return &LibraryHandler{service: svc}
}

// AddBook godoc
// @Summary Add a book to the library
// @Tags Library
// @Accept json
// @Produce json
// @Param payload body service.BookRequest true "Book"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /library/books [post]
func (h *LibraryHandler) AddBook(c *gin.Context) {
	var req service.BookRequest
	if !bindJSON(c, &req) {
		return
	}
	book, err := h.service.AddBook(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, book)
}

// ListBooks godoc
// @Summary List library books
// @Tags Library
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /library/books [get]
func (h *LibraryHandler) ListBooks(c *gin.Context) {
	books, err := h.service.ListBooks(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, books, nil)
}

// Issue godoc
// @Summary Issue a book to a student
// @Description The loan runs for 14 days. Each later day adds a fine of 5.
// @Tags Library
// @Accept json
// @Produce json
// @Param payload body service.IssueRequest true "Loan"
// @Success 201 {object} response.Envelope
// @Router /library/issues [post]
func (h *LibraryHandler) Issue(c *gin.Context) {
	var req service.IssueRequest
	if !bindJSON(c, &req) {
		return
	}
	issue, err := h.service.Issue(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, issue)
}

// ListIssues godoc
// @Summary List issued books with fines
// @Tags Library
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /library/issues [get]
func (h *LibraryHandler) ListIssues(c *gin.Context) {
	issues, err := h.service.ListIssues(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, issues, nil)
}

// MyIssues godoc
// @Summary Current student's issued books
// @Tags Library
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /library/issues/me [get]
func (h *LibraryHandler) MyIssues(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	issues, err := h.service.MyIssues(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, issues, nil)
}
