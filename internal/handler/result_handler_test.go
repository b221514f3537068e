package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/college-adp-api/internal/models"
	"github.com/noah-isme/college-adp-api/internal/service"
	appErrors "github.com/noah-isme/college-adp-api/pkg/errors"
)

type fakeResultSrv struct {
	addErr     error
	lastFilter models.ResultSheetFilter
	lastFormat service.ResultFormat
}

func (f *fakeResultSrv) Add(_ context.Context, req service.ResultRequest, _ *models.JWTClaims) (*models.StudentResult, error) {
	if f.addErr != nil {
		return nil, f.addErr
	}
	return &models.StudentResult{ID: "r1"}, nil
}

func (f *fakeResultSrv) Edit(context.Context, service.ResultRequest, *models.JWTClaims) (*models.StudentResult, error) {
	return &models.StudentResult{ID: "r1"}, nil
}

func (f *fakeResultSrv) Lookup(context.Context, string, string, *models.JWTClaims) (*models.StudentResult, error) {
	return nil, appErrors.ErrNotFound
}

func (f *fakeResultSrv) Sheet(context.Context, models.ResultSheetFilter, *models.JWTClaims) (*models.SubjectDetail, []models.ResultSheetRow, error) {
	return nil, nil, nil
}

func (f *fakeResultSrv) SheetFile(_ context.Context, filter models.ResultSheetFilter, format service.ResultFormat, _ *models.JWTClaims) ([]byte, string, error) {
	f.lastFilter, f.lastFormat = filter, format
	return []byte("body"), "results." + string(format), nil
}

func (f *fakeResultSrv) ForStudent(context.Context, string, service.StudentResultFilter) (*models.StudentDetail, []models.ResultSheetRow, error) {
	return &models.StudentDetail{}, []models.ResultSheetRow{}, nil
}

func (f *fakeResultSrv) StudentCard(context.Context, string, service.StudentResultFilter) ([]byte, string, error) {
	return []byte("%PDF"), "result-card.pdf", nil
}

func TestResultSheetFileFormats(t *testing.T) {
	cases := []struct {
		query       string
		format      service.ResultFormat
		contentType string
	}{
		{"", service.ResultFormatPDF, "application/pdf"},
		{"&format=csv", service.ResultFormatCSV, "text/csv"},
	}
	for _, tc := range cases {
		t.Run(string(tc.format), func(t *testing.T) {
			srv := &fakeResultSrv{}
			c, rec := newTestContext(http.MethodGet, "/results/sheet/pdf?subjectId=sub-1&semester=3&academicYear=2024-25"+tc.query, nil, staffUser())

			NewResultHandler(srv).SheetFile(c)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tc.format, srv.lastFormat)
			assert.Equal(t, "sub-1", srv.lastFilter.SubjectID)
			assert.Equal(t, "2024-25", srv.lastFilter.AcademicYear)
			assert.Equal(t, tc.contentType, rec.Header().Get("Content-Type"))
		})
	}
}

func TestResultAddDuplicateConflict(t *testing.T) {
	srv := &fakeResultSrv{addErr: appErrors.Clone(appErrors.ErrConflict, "result already exists")}
	c, rec := newTestContext(http.MethodPost, "/results", map[string]interface{}{
		"student_id": "s1", "subject_id": "sub-1", "semester": "3", "academic_year": "2024-25",
		"internal_marks": 20, "external_marks": 40, "practical_marks": 10,
	}, staffUser())

	NewResultHandler(srv).Add(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestResultMineNeedsUser(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/results/me", nil, nil)

	NewResultHandler(&fakeResultSrv{}).Mine(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func staffUser() *models.JWTClaims {
	return &models.JWTClaims{UserID: "user-staff-1", Role: models.RoleStaff}
}
