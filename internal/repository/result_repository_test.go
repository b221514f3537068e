package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/college-adp-api/internal/models"
	"github.com/noah-isme/college-adp-api/pkg/database"
)

var resultSheetColumns = []string{"id", "student_id", "subject_id", "semester", "academic_year", "internal_marks", "external_marks", "practical_marks", "total_marks", "grade", "created_at", "updated_at", "student_name", "student_email", "subject_name"}

func TestResultCreateDuplicateIsUniqueViolation(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	mock.ExpectExec("INSERT INTO student_results").WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.StudentResult{StudentID: "s1", SubjectID: "sub1", Semester: "1", AcademicYear: "2023-2024"})
	require.Error(t, err)
	assert.True(t, database.IsUniqueViolation(err))
}

func TestResultUpsertReturnsStoredID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (student_id, subject_id, semester, academic_year) DO UPDATE")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("existing"))

	result := &models.StudentResult{StudentID: "s1", SubjectID: "sub1", Semester: "1", AcademicYear: "2023-2024", TotalMarks: 70, Grade: "B+"}
	require.NoError(t, repo.Upsert(context.Background(), result))
	assert.Equal(t, "existing", result.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultListSheetOrdersByEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE r.subject_id = $1 AND r.semester = $2 AND r.academic_year = $3 ORDER BY u.email ASC")).
		WithArgs("sub1", "1", "2023-2024").
		WillReturnRows(sqlmock.NewRows(resultSheetColumns).
			AddRow("r1", "s1", "sub1", "1", "2023-2024", 20.0, 55.0, 6.0, 81.0, "A", now, now, "Asha", "a@college.edu", "Maths"))

	rows, err := repo.ListSheet(context.Background(), models.ResultSheetFilter{SubjectID: "sub1", Semester: "1", AcademicYear: "2023-2024"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 81.0, rows[0].TotalMarks)
	assert.Equal(t, "Maths", rows[0].SubjectName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultFindLatestNoRows(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE r.student_id = $1 AND r.subject_id = $2")).
		WithArgs("s1", "sub1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindLatest(context.Background(), "s1", "sub1")
	assert.Equal(t, sql.ErrNoRows, err)
}

func TestAttendanceUpsertReport(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (student_id, attendance_id) DO UPDATE SET status = EXCLUDED.status")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	report := &models.AttendanceReport{StudentID: "s1", AttendanceID: "a1", Status: true}
	require.NoError(t, repo.UpsertReport(context.Background(), db, report))
	assert.NotEmpty(t, report.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceListBySubjectWithSession(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE subject_id = $1 AND session_id = $2 ORDER BY date DESC")).
		WithArgs("sub1", "sess1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "session_id", "subject_id", "date", "created_at", "updated_at"}).
			AddRow("a1", "sess1", "sub1", now, now, now))

	rows, err := repo.ListBySubject(context.Background(), "sub1", "sess1")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
