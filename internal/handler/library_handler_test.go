package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/college-adp-api/internal/models"
	"github.com/noah-isme/college-adp-api/internal/service"
	appErrors "github.com/noah-isme/college-adp-api/pkg/errors"
)

type fakeLibrarySrv struct {
	lastIssue service.IssueRequest
	lastUser  string
}

func (f *fakeLibrarySrv) AddBook(_ context.Context, req service.BookRequest) (*models.Book, error) {
	if req.ISBN == "9780321486813" {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a book with this isbn already exists")
	}
	return &models.Book{ID: "book-1", Name: req.Name, ISBN: req.ISBN}, nil
}

func (f *fakeLibrarySrv) ListBooks(context.Context) ([]models.Book, error) {
	return []models.Book{{ID: "book-1"}}, nil
}

func (f *fakeLibrarySrv) Issue(_ context.Context, req service.IssueRequest) (*models.IssuedBook, error) {
	f.lastIssue = req
	return &models.IssuedBook{ID: "ib1", StudentID: req.StudentID, ISBN: req.ISBN}, nil
}

func (f *fakeLibrarySrv) ListIssues(context.Context) ([]models.IssuedBookDetail, error) {
	return []models.IssuedBookDetail{{IssuedBook: models.IssuedBook{ID: "ib1"}, DaysOut: 15, Fine: 5}}, nil
}

func (f *fakeLibrarySrv) MyIssues(_ context.Context, userID string) ([]models.IssuedBookDetail, error) {
	f.lastUser = userID
	return []models.IssuedBookDetail{}, nil
}

func TestLibraryAddBookConflict(t *testing.T) {
	c, rec := newTestContext(http.MethodPost, "/library/books", map[string]string{"name": "Compilers", "isbn": "9780321486813"}, staffUser())

	NewLibraryHandler(&fakeLibrarySrv{}).AddBook(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, appErrors.ErrConflict.Code, env.Error.Code)
}

func TestLibraryIssueBindsPayload(t *testing.T) {
	srv := &fakeLibrarySrv{}
	c, rec := newTestContext(http.MethodPost, "/library/issues", map[string]string{"student_id": "s1", "isbn": "9781118063330"}, staffUser())

	NewLibraryHandler(srv).Issue(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, service.IssueRequest{StudentID: "s1", ISBN: "9781118063330"}, srv.lastIssue)
}

func TestLibraryListIssuesIncludesFine(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/library/issues", nil, staffUser())

	NewLibraryHandler(&fakeLibrarySrv{}).ListIssues(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &rows))
	require.Len(t, rows, 1)
	assert.EqualValues(t, 5, rows[0]["fine"])
	assert.EqualValues(t, 15, rows[0]["days_out"])
}

func TestLibraryMyIssuesRequiresClaims(t *testing.T) {
	srv := &fakeLibrarySrv{}
	c, rec := newTestContext(http.MethodGet, "/library/issues/me", nil, nil)
	NewLibraryHandler(srv).MyIssues(c)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	c, rec = newTestContext(http.MethodGet, "/library/issues/me", nil, &models.JWTClaims{UserID: "user-s1", Role: models.RoleStudent})
	NewLibraryHandler(srv).MyIssues(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-s1", srv.lastUser)
}
