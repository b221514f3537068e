package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/college-adp-api/internal/models"
)

var studentDetailColumns = []string{"id", "user_id", "course_id", "session_id", "created_at", "updated_at", "full_name", "email", "gender", "course_name"}

func TestStudentListIDsByCourseOrdersByEnrolment(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM students WHERE course_id = $1 ORDER BY created_at ASC, id ASC")).
		WithArgs("course-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("s1").AddRow("s2"))

	ids, err := repo.ListIDsByCourse(context.Background(), "course-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentListAppliesFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE 1=1 AND s.course_id = $1 AND (LOWER(u.full_name) LIKE $2 OR LOWER(u.email) LIKE $2) ORDER BY u.full_name ASC, s.id ASC LIMIT 20 OFFSET 0")).
		WithArgs("course-1", "%asha%").
		WillReturnRows(sqlmock.NewRows(studentDetailColumns).
			AddRow("s1", "u1", "course-1", nil, now, now, "Asha", "asha@college.edu", "F", "BSc"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM students s JOIN users u ON u.id = s.user_id WHERE")).
		WithArgs("course-1", "%asha%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	students, total, err := repo.List(context.Background(), models.ListFilter{CourseID: "course-1", Search: "Asha"})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Asha", students[0].FullName)
	require.NotNil(t, students[0].CourseName)
	assert.Equal(t, "BSc", *students[0].CourseName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentFindByUserID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE s.user_id = $1")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(studentDetailColumns).
			AddRow("s1", "u1", "course-1", "sess-1", now, now, "Asha", "asha@college.edu", "F", "BSc"))

	detail, err := repo.FindByUserID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "s1", detail.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStaffCreateUsesExecutor(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStaffRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO staff").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := db.Beginx()
	require.NoError(t, err)
	course := "course-1"
	staff := &models.Staff{UserID: "u2", CourseID: &course}
	require.NoError(t, repo.Create(context.Background(), tx, staff))
	require.NoError(t, tx.Commit())
	assert.NotEmpty(t, staff.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
