package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/college-adp-api/internal/models"
	appErrors "github.com/noah-isme/college-adp-api/pkg/errors"
)

type fakeHallTicketSrv struct {
	tickets     []models.HallTicket
	generateErr error
	pdf         []byte
	pdfErr      error
	lastClaims  *models.JWTClaims
	lastExamID  string
}

func (f *fakeHallTicketSrv) Generate(_ context.Context, examID string) ([]models.HallTicket, error) {
	f.lastExamID = examID
	return f.tickets, f.generateErr
}

func (f *fakeHallTicketSrv) ListByExam(context.Context, string) ([]models.HallTicketDetail, error) {
	return nil, nil
}

func (f *fakeHallTicketSrv) ListForStudent(context.Context, string) ([]models.HallTicketDetail, error) {
	return []models.HallTicketDetail{}, nil
}

func (f *fakeHallTicketSrv) Get(context.Context, string, *models.JWTClaims) (*models.HallTicketDetail, error) {
	return nil, appErrors.ErrNotFound
}

func (f *fakeHallTicketSrv) RenderPDF(_ context.Context, _ string, claims *models.JWTClaims) ([]byte, string, error) {
	f.lastClaims = claims
	return f.pdf, "hall-ticket-HT-2024-0001.pdf", f.pdfErr
}

func (f *fakeHallTicketSrv) Delete(context.Context, string) error { return nil }

func TestHallTicketGenerateCreated(t *testing.T) {
	srv := &fakeHallTicketSrv{tickets: []models.HallTicket{
		{ID: "t1", HallTicketNumber: "HT-2024-0001", SeatNumber: "A1"},
		{ID: "t2", HallTicketNumber: "HT-2024-0002", SeatNumber: "A2"},
	}}
	c, rec := newTestContext(http.MethodPost, "/exams/exam-1/hall-tickets", nil, nil)
	c.Params = gin.Params{{Key: "id", Value: "exam-1"}}

	NewHallTicketHandler(srv).Generate(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "exam-1", srv.lastExamID)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, float64(2), env.Meta["count"])
	assert.Contains(t, string(env.Data), "HT-2024-0002")
}

func TestHallTicketGenerateConflict(t *testing.T) {
	srv := &fakeHallTicketSrv{generateErr: appErrors.Clone(appErrors.ErrConflict, "hall tickets already generated")}
	c, rec := newTestContext(http.MethodPost, "/exams/exam-1/hall-tickets", nil, nil)
	c.Params = gin.Params{{Key: "id", Value: "exam-1"}}

	NewHallTicketHandler(srv).Generate(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, appErrors.ErrConflict.Code, env.Error.Code)
}

func TestHallTicketPDFAttachment(t *testing.T) {
	claims := &models.JWTClaims{UserID: "user-s1", Role: models.RoleStudent}
	srv := &fakeHallTicketSrv{pdf: []byte("%PDF-1.3")}
	c, rec := newTestContext(http.MethodGet, "/hall-tickets/t1/pdf", nil, claims)
	c.Params = gin.Params{{Key: "id", Value: "t1"}}

	NewHallTicketHandler(srv).PDF(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="hall-ticket-HT-2024-0001.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.3", rec.Body.String())
	assert.Same(t, claims, srv.lastClaims)
}

func TestHallTicketMineRequiresUser(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/hall-tickets/me", nil, nil)

	NewHallTicketHandler(&fakeHallTicketSrv{}).Mine(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHallTicketGetNotFound(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/hall-tickets/missing", nil, nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	NewHallTicketHandler(&fakeHallTicketSrv{}).Get(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
