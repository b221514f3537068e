package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/college-adp-api/internal/models"
	"github.com/noah-isme/college-adp-api/pkg/database"
	appErrors "github.com/noah-isme/college-adp-api/pkg/errors"
)

const examTimeLayout = "15:04"

type examHallRepository interface {
	List(ctx context.Context) ([]models.ExamHall, error)
	FindByID(ctx context.Context, id string) (*models.ExamHall, error)
	Create(ctx context.Context, hall *models.ExamHall) error
}

type examRepository interface {
	List(ctx context.Context, courseID string) ([]models.Exam, error)
	FindByID(ctx context.Context, id string) (*models.Exam, error)
	ListSubjects(ctx context.Context, examID string) ([]models.ExamSubject, error)
	Create(ctx context.Context, exec sqlx.ExtContext, exam *models.Exam) error
	CreateSubject(ctx context.Context, exec sqlx.ExtContext, subject *models.ExamSubject) error
	Delete(ctx context.Context, exec sqlx.ExtContext, id string) error
}

// ExamHallRequest describes a hall laid out as rows of benches.
type ExamHallRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Capacity int    `json:"capacity" validate:"gte=0"`
	Rows     int    `json:"rows" validate:"required,gte=1,lte=100"`
	Columns  int    `json:"columns" validate:"required,gte=1,lte=26"`
}

// ExamSubjectRequest schedules one paper. Date is YYYY-MM-DD, times are HH:MM.
type ExamSubjectRequest struct {
	SubjectID string `json:"subject_id" validate:"required"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// CreateExamRequest creates an exam together with its papers.
type CreateExamRequest struct {
	Name     string               `json:"name" validate:"required,max=150"`
	CourseID string               `json:"course_id" validate:"required"`
	HallID   string               `json:"hall_id" validate:"required"`
	Subjects []ExamSubjectRequest `json:"subjects" validate:"dive"`
}

// ExamService manages exam halls, exams and their timetables.
type ExamService struct {
	halls     examHallRepository
	exams     examRepository
	courses   allocationCourseReader
	tx        txProvider
	validator *validator.Validate
	logger    *zap.Logger
}

// NewExamService constructs the exam service.
func NewExamService(halls examHallRepository, exams examRepository, courses allocationCourseReader, tx txProvider, validate *validator.Validate, logger *zap.Logger) *ExamService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExamService{halls: halls, exams: exams, courses: courses, tx: tx, validator: validate, logger: logger}
}

// ListHalls returns every exam hall.
func (s *ExamService) ListHalls(ctx context.Context) ([]models.ExamHall, error) {
	halls, err := s.halls.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list exam halls")
	}
	return halls, nil
}

// CreateHall adds an exam hall. A zero capacity defaults to the grid size.
func (s *ExamService) CreateHall(ctx context.Context, req ExamHallRequest) (*models.ExamHall, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid exam hall payload")
	}
	hall := &models.ExamHall{Name: strings.TrimSpace(req.Name), Capacity: req.Capacity, Rows: req.Rows, Columns: req.Columns}
	if hall.Capacity == 0 {
		hall.Capacity = hall.Seats()
	}
	if err := s.halls.Create(ctx, hall); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "exam hall already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create exam hall")
	}
	return hall, nil
}

// List returns exams, optionally for one course.
func (s *ExamService) List(ctx context.Context, courseID string) ([]models.Exam, error) {
	exams, err := s.exams.List(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list exams")
	}
	return exams, nil
}

// Get returns an exam with its timetable.
func (s *ExamService) Get(ctx context.Context, id string) (*models.Exam, error) {
	exam, err := s.exams.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "exam not found", "failed to load exam")
	}
	subjects, err := s.exams.ListSubjects(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exam subjects")
	}
	exam.Subjects = subjects
	return exam, nil
}

// Create stores an exam and its papers in one transaction.
func (s *ExamService) Create(ctx context.Context, req CreateExamRequest) (*models.Exam, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid exam payload")
	}
	papers, err := parseExamSubjects(req.Subjects)
	if err != nil {
		return nil, err
	}
	if _, err := s.courses.FindByID(ctx, req.CourseID); err != nil {
		return nil, notFoundOr(err, "course not found", "failed to load course")
	}
	if _, err := s.halls.FindByID(ctx, req.HallID); err != nil {
		return nil, notFoundOr(err, "exam hall not found", "failed to load exam hall")
	}

	exam := &models.Exam{Name: strings.TrimSpace(req.Name), CourseID: req.CourseID, HallID: req.HallID}
	err = runInTx(ctx, s.tx, func(tx *sqlx.Tx) error {
		if err := s.exams.Create(ctx, tx, exam); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create exam")
		}
		for i := range papers {
			papers[i].ExamID = exam.ID
			if err := s.exams.CreateSubject(ctx, tx, &papers[i]); err != nil {
				if database.IsUniqueViolation(err) {
					return appErrors.Clone(appErrors.ErrConflict, "subject listed twice in exam")
				}
				if database.IsForeignKeyViolation(err) {
					return appErrors.Clone(appErrors.ErrValidation, "unknown subject "+papers[i].SubjectID)
				}
				return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create exam subject")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	exam.Subjects = papers
	s.logger.Info("exam created", zap.String("exam_id", exam.ID), zap.Int("subjects", len(papers)))
	return exam, nil
}

// Delete removes an exam with its papers and hall tickets.
func (s *ExamService) Delete(ctx context.Context, id string) error {
	if _, err := s.exams.FindByID(ctx, id); err != nil {
		return notFoundOr(err, "exam not found", "failed to load exam")
	}
	err := runInTx(ctx, s.tx, func(tx *sqlx.Tx) error {
		if err := s.exams.Delete(ctx, tx, id); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete exam")
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("exam deleted", zap.String("exam_id", id))
	return nil
}

func parseExamSubjects(reqs []ExamSubjectRequest) ([]models.ExamSubject, error) {
	papers := make([]models.ExamSubject, 0, len(reqs))
	seen := make(map[string]struct{}, len(reqs))
	for _, req := range reqs {
		if _, dup := seen[req.SubjectID]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, "subject listed twice in exam")
		}
		seen[req.SubjectID] = struct{}{}

		paper := models.ExamSubject{SubjectID: req.SubjectID}
		if req.Date != "" {
			date, err := time.Parse(attendanceDateLayout, req.Date)
			if err != nil {
				return nil, appErrors.Clone(appErrors.ErrValidation, "exam date must be YYYY-MM-DD")
			}
			paper.Date = &date
		}
		var start, end time.Time
		if req.StartTime != "" {
			t, err := time.Parse(examTimeLayout, req.StartTime)
			if err != nil {
				return nil, appErrors.Clone(appErrors.ErrValidation, "start_time must be HH:MM")
			}
			start = t
			startTime := req.StartTime
			paper.StartTime = &startTime
		}
		if req.EndTime != "" {
			t, err := time.Parse(examTimeLayout, req.EndTime)
			if err != nil {
				return nil, appErrors.Clone(appErrors.ErrValidation, "end_time must be HH:MM")
			}
			end = t
			endTime := req.EndTime
			paper.EndTime = &endTime
		}
		if paper.StartTime != nil && paper.EndTime != nil && !end.After(start) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "end_time must be after start_time")
		}
		papers = append(papers, paper)
	}
	return papers, nil
}
