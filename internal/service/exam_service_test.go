package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/college-adp-api/internal/models"
	appErrors "github.com/noah-isme/college-adp-api/pkg/errors"
)

type examHallRepoFake struct {
	halls map[string]models.ExamHall
}

func (f *examHallRepoFake) List(ctx context.Context) ([]models.ExamHall, error) {
	var out []models.ExamHall
	for _, h := range f.halls {
		out = append(out, h)
	}
	return out, nil
}

func (f *examHallRepoFake) FindByID(ctx context.Context, id string) (*models.ExamHall, error) {
	if h, ok := f.halls[id]; ok {
		return &h, nil
	}
	return nil, sql.ErrNoRows
}

func (f *examHallRepoFake) Create(ctx context.Context, hall *models.ExamHall) error {
	hall.ID = "hall-new"
	f.halls[hall.ID] = *hall
	return nil
}

type examRepoFake struct {
	exams      map[string]models.Exam
	subjects   []models.ExamSubject
	subjectErr error
	deleted    []string
	deleteErr  error
}

func (f *examRepoFake) List(ctx context.Context, courseID string) ([]models.Exam, error) {
	var out []models.Exam
	for _, e := range f.exams {
		if courseID == "" || e.CourseID == courseID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *examRepoFake) FindByID(ctx context.Context, id string) (*models.Exam, error) {
	if e, ok := f.exams[id]; ok {
		return &e, nil
	}
	return nil, sql.ErrNoRows
}

func (f *examRepoFake) ListSubjects(ctx context.Context, examID string) ([]models.ExamSubject, error) {
	var out []models.ExamSubject
	for _, s := range f.subjects {
		if s.ExamID == examID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *examRepoFake) Create(ctx context.Context, exec sqlx.ExtContext, exam *models.Exam) error {
	exam.ID = "exam-new"
	f.exams[exam.ID] = *exam
	return nil
}

func (f *examRepoFake) CreateSubject(ctx context.Context, exec sqlx.ExtContext, subject *models.ExamSubject) error {
	if f.subjectErr != nil {
		return f.subjectErr
	}
	subject.ID = "paper-" + subject.SubjectID
	f.subjects = append(f.subjects, *subject)
	return nil
}

func (f *examRepoFake) Delete(ctx context.Context, exec sqlx.ExtContext, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	delete(f.exams, id)
	return nil
}

type examHarness struct {
	svc   *ExamService
	halls *examHallRepoFake
	exams *examRepoFake
}

func newExamHarness(t *testing.T) (*examHarness, func() error) {
	tx, mock := newTxProviderMock(t)
	halls := &examHallRepoFake{halls: map[string]models.ExamHall{
		"hall-1": {ID: "hall-1", Name: "Main Hall", Rows: 5, Columns: 4, Capacity: 20},
	}}
	exams := &examRepoFake{exams: map[string]models.Exam{}}
	courses := &courseRepoFake{courses: map[string]models.Course{"course-1": {ID: "course-1", Name: "BSc"}}}
	svc := NewExamService(halls, exams, courses, tx, nil, nil)
	return &examHarness{svc: svc, halls: halls, exams: exams}, mock.ExpectationsWereMet
}

func TestExamServiceCreateHallDefaultsCapacity(t *testing.T) {
	h, _ := newExamHarness(t)

	hall, err := h.svc.CreateHall(context.Background(), ExamHallRequest{Name: "Annex", Rows: 3, Columns: 6})
	require.NoError(t, err)
	assert.Equal(t, 18, hall.Capacity)

	_, err = h.svc.CreateHall(context.Background(), ExamHallRequest{Name: "Bad", Rows: 0, Columns: 6})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = h.svc.CreateHall(context.Background(), ExamHallRequest{Name: "Too wide", Rows: 2, Columns: 27})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExamServiceCreateWithSubjects(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	halls := &examHallRepoFake{halls: map[string]models.ExamHall{"hall-1": {ID: "hall-1", Rows: 5, Columns: 4}}}
	exams := &examRepoFake{exams: map[string]models.Exam{}}
	courses := &courseRepoFake{courses: map[string]models.Course{"course-1": {ID: "course-1"}}}
	svc := NewExamService(halls, exams, courses, tx, nil, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()
	exam, err := svc.Create(context.Background(), CreateExamRequest{
		Name: " Midterm ", CourseID: "course-1", HallID: "hall-1",
		Subjects: []ExamSubjectRequest{
			{SubjectID: "sb1", Date: "2024-04-10", StartTime: "09:00", EndTime: "12:00"},
			{SubjectID: "sb2", Date: "2024-04-11", StartTime: "14:00", EndTime: "17:00"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Midterm", exam.Name)
	require.Len(t, exam.Subjects, 2)
	assert.Equal(t, "exam-new", exam.Subjects[1].ExamID)
	assert.Equal(t, "09:00", *exam.Subjects[0].StartTime)
	assert.Equal(t, "14:00", *exam.Subjects[1].StartTime)

	got, err := svc.Get(context.Background(), "exam-new")
	require.NoError(t, err)
	assert.Len(t, got.Subjects, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExamServiceCreateRejectsBadTimetable(t *testing.T) {
	h, met := newExamHarness(t)
	base := CreateExamRequest{Name: "Final", CourseID: "course-1", HallID: "hall-1"}

	cases := [][]ExamSubjectRequest{
		{{SubjectID: "sb1"}, {SubjectID: "sb1"}},
		{{SubjectID: "sb1", Date: "10/04/2024"}},
		{{SubjectID: "sb1", StartTime: "9am"}},
		{{SubjectID: "sb1", StartTime: "12:00", EndTime: "09:00"}},
	}
	for _, subjects := range cases {
		req := base
		req.Subjects = subjects
		_, err := h.svc.Create(context.Background(), req)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	}

	req := base
	req.HallID = "missing"
	_, err := h.svc.Create(context.Background(), req)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.NoError(t, met())
}

func TestExamServiceCreateRollsBackOnUnknownSubject(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	exams := &examRepoFake{exams: map[string]models.Exam{}, subjectErr: &pq.Error{Code: "23503"}}
	svc := NewExamService(
		&examHallRepoFake{halls: map[string]models.ExamHall{"hall-1": {ID: "hall-1"}}},
		exams,
		&courseRepoFake{courses: map[string]models.Course{"course-1": {ID: "course-1"}}},
		tx, nil, nil,
	)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Create(context.Background(), CreateExamRequest{
		Name: "Final", CourseID: "course-1", HallID: "hall-1",
		Subjects: []ExamSubjectRequest{{SubjectID: "ghost"}},
	})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExamServiceDelete(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	exams := &examRepoFake{exams: map[string]models.Exam{"exam-1": {ID: "exam-1"}}}
	svc := NewExamService(&examHallRepoFake{halls: map[string]models.ExamHall{}}, exams, &courseRepoFake{courses: map[string]models.Course{}}, tx, nil, nil)

	err := svc.Delete(context.Background(), "missing")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	mock.ExpectBegin()
	mock.ExpectCommit()
	require.NoError(t, svc.Delete(context.Background(), "exam-1"))
	assert.Equal(t, []string{"exam-1"}, exams.deleted)

	exams.exams["exam-2"] = models.Exam{ID: "exam-2"}
	exams.deleteErr = errors.New("tickets locked")
	mock.ExpectBegin()
	mock.ExpectRollback()
	err = svc.Delete(context.Background(), "exam-2")
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
