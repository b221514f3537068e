package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/college-adp-api/internal/models"
	appErrors "github.com/noah-isme/college-adp-api/pkg/errors"
)

type attendanceRepoFake struct {
	attendances map[string]models.Attendance
	reports     map[string]bool
	createErr   error
}

func newAttendanceRepoFake() *attendanceRepoFake {
	return &attendanceRepoFake{attendances: map[string]models.Attendance{}, reports: map[string]bool{}}
}

func (f *attendanceRepoFake) Create(ctx context.Context, exec sqlx.ExtContext, attendance *models.Attendance) error {
	if f.createErr != nil {
		return f.createErr
	}
	attendance.ID = "att-new"
	f.attendances[attendance.ID] = *attendance
	return nil
}

func (f *attendanceRepoFake) FindByID(ctx context.Context, id string) (*models.Attendance, error) {
	if a, ok := f.attendances[id]; ok {
		return &a, nil
	}
	return nil, sql.ErrNoRows
}

func (f *attendanceRepoFake) ListBySubject(ctx context.Context, subjectID, sessionID string) ([]models.Attendance, error) {
	var out []models.Attendance
	for _, a := range f.attendances {
		if a.SubjectID == subjectID && (sessionID == "" || a.SessionID == sessionID) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *attendanceRepoFake) ListStatuses(ctx context.Context, attendanceID string) ([]models.AttendanceStudentStatus, error) {
	var out []models.AttendanceStudentStatus
	for key, status := range f.reports {
		if len(key) > len(attendanceID) && key[:len(attendanceID)] == attendanceID {
			out = append(out, models.AttendanceStudentStatus{StudentID: key[len(attendanceID)+1:], Status: status})
		}
	}
	return out, nil
}

func (f *attendanceRepoFake) UpsertReport(ctx context.Context, exec sqlx.ExtContext, report *models.AttendanceReport) error {
	if report.StudentID == "ghost" {
		return &pq.Error{Code: "23503"}
	}
	f.reports[report.AttendanceID+"/"+report.StudentID] = report.Status
	return nil
}

type attendanceHarness struct {
	svc  *AttendanceService
	repo *attendanceRepoFake
	mock sqlmock.Sqlmock
}

func newAttendanceHarness(t *testing.T) *attendanceHarness {
	tx, mock := newTxProviderMock(t)
	repo := newAttendanceRepoFake()
	subjects := &subjectRepoFake{subjects: map[string]models.SubjectDetail{
		"sb1": {Subject: models.Subject{ID: "sb1", StaffID: "staff-1", CourseID: "course-1"}},
	}}
	students := &mockStudentRepo{students: map[string]models.StudentDetail{
		"s1": {Student: models.Student{ID: "s1", SessionID: ptrString("sess-1")}},
		"s2": {Student: models.Student{ID: "s2"}},
	}}
	staff := &mockStaffRepo{staff: map[string]models.StaffDetail{
		"staff-1": {Staff: models.Staff{ID: "staff-1", UserID: "user-staff-1"}},
		"staff-2": {Staff: models.Staff{ID: "staff-2", UserID: "user-staff-2"}},
	}}
	svc := NewAttendanceService(repo, subjects, students, staff, tx, nil, nil)
	return &attendanceHarness{svc: svc, repo: repo, mock: mock}
}

var staffClaims = &models.JWTClaims{UserID: "user-staff-1", Role: models.RoleStaff}

func TestAttendanceTakeUsesFirstStudentSession(t *testing.T) {
	h := newAttendanceHarness(t)
	h.mock.ExpectBegin()
	h.mock.ExpectCommit()

	attendance, err := h.svc.Take(context.Background(), TakeAttendanceRequest{
		SubjectID: "sb1",
		Date:      "2024-03-15",
		Students:  []AttendanceMark{{StudentID: "s1", Status: true}, {StudentID: "s2", Status: false}},
	}, staffClaims)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", attendance.SessionID)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), attendance.Date)
	assert.True(t, h.repo.reports["att-new/s1"])
	assert.False(t, h.repo.reports["att-new/s2"])
	assert.NoError(t, h.mock.ExpectationsWereMet())
}

func TestAttendanceTakeRejectsMissingSession(t *testing.T) {
	h := newAttendanceHarness(t)

	_, err := h.svc.Take(context.Background(), TakeAttendanceRequest{
		SubjectID: "sb1",
		Date:      "2024-03-15",
		Students:  []AttendanceMark{{StudentID: "s2", Status: true}, {StudentID: "s1", Status: true}},
	}, staffClaims)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, h.repo.attendances)
	assert.NoError(t, h.mock.ExpectationsWereMet())
}

func TestAttendanceTakeValidatesInput(t *testing.T) {
	h := newAttendanceHarness(t)

	_, err := h.svc.Take(context.Background(), TakeAttendanceRequest{SubjectID: "sb1", Date: "2024-03-15"}, staffClaims)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = h.svc.Take(context.Background(), TakeAttendanceRequest{
		SubjectID: "sb1", Date: "15/03/2024", Students: []AttendanceMark{{StudentID: "s1"}},
	}, staffClaims)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = h.svc.Take(context.Background(), TakeAttendanceRequest{
		SubjectID: "missing", Date: "2024-03-15", Students: []AttendanceMark{{StudentID: "s1"}},
	}, staffClaims)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAttendanceTakeForbiddenForOtherStaff(t *testing.T) {
	h := newAttendanceHarness(t)

	_, err := h.svc.Take(context.Background(), TakeAttendanceRequest{
		SubjectID: "sb1", Date: "2024-03-15", Students: []AttendanceMark{{StudentID: "s1"}},
	}, &models.JWTClaims{UserID: "user-staff-2", Role: models.RoleStaff})
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	_, err = h.svc.Take(context.Background(), TakeAttendanceRequest{
		SubjectID: "sb1", Date: "2024-03-15", Students: []AttendanceMark{{StudentID: "s1"}},
	}, &models.JWTClaims{UserID: "student-user", Role: models.RoleStudent})
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestAttendanceTakeDuplicateDateRollsBack(t *testing.T) {
	h := newAttendanceHarness(t)
	h.repo.createErr = &pq.Error{Code: "23505"}
	h.mock.ExpectBegin()
	h.mock.ExpectRollback()

	_, err := h.svc.Take(context.Background(), TakeAttendanceRequest{
		SubjectID: "sb1", Date: "2024-03-15", Students: []AttendanceMark{{StudentID: "s1"}},
	}, &models.JWTClaims{UserID: "hod", Role: models.RoleHOD})
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.NoError(t, h.mock.ExpectationsWereMet())
}

func TestAttendanceUpdateCreatesMissingReports(t *testing.T) {
	h := newAttendanceHarness(t)
	h.repo.attendances["att-1"] = models.Attendance{ID: "att-1", SubjectID: "sb1", SessionID: "sess-1"}
	h.repo.reports["att-1/s1"] = true
	h.mock.ExpectBegin()
	h.mock.ExpectCommit()

	count, err := h.svc.Update(context.Background(), "att-1", UpdateAttendanceRequest{
		Students: []AttendanceMark{{StudentID: "s1", Status: false}, {StudentID: "s2", Status: true}},
	}, staffClaims)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	statuses, err := h.svc.Statuses(context.Background(), "att-1")
	require.NoError(t, err)
	assert.Len(t, statuses, 2)
	assert.False(t, h.repo.reports["att-1/s1"])
	assert.True(t, h.repo.reports["att-1/s2"])
	assert.NoError(t, h.mock.ExpectationsWereMet())
}

func TestAttendanceUpdateUnknownStudentRollsBack(t *testing.T) {
	h := newAttendanceHarness(t)
	h.repo.attendances["att-1"] = models.Attendance{ID: "att-1", SubjectID: "sb1"}
	h.mock.ExpectBegin()
	h.mock.ExpectRollback()

	_, err := h.svc.Update(context.Background(), "att-1", UpdateAttendanceRequest{
		Students: []AttendanceMark{{StudentID: "ghost", Status: true}},
	}, staffClaims)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.NoError(t, h.mock.ExpectationsWereMet())
}

func TestAttendanceDatesFiltersBySession(t *testing.T) {
	h := newAttendanceHarness(t)
	h.repo.attendances["a1"] = models.Attendance{ID: "a1", SubjectID: "sb1", SessionID: "sess-1"}
	h.repo.attendances["a2"] = models.Attendance{ID: "a2", SubjectID: "sb1", SessionID: "sess-2"}

	all, err := h.svc.Dates(context.Background(), "sb1", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	one, err := h.svc.Dates(context.Background(), "sb1", "sess-2")
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "a2", one[0].ID)

	_, err = h.svc.Dates(context.Background(), "", "")
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = h.svc.Statuses(context.Background(), "missing")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
