package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/college-adp-api/internal/models"
	"github.com/noah-isme/college-adp-api/pkg/database"
	appErrors "github.com/noah-isme/college-adp-api/pkg/errors"
)

type subjectRepository interface {
	List(ctx context.Context, filter models.SubjectFilter) ([]models.SubjectDetail, error)
	FindByID(ctx context.Context, id string) (*models.SubjectDetail, error)
	Create(ctx context.Context, subject *models.Subject) error
	Update(ctx context.Context, subject *models.Subject) error
	Delete(ctx context.Context, id string) error
}

type subjectStudentLister interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.StudentDetail, error)
}

// SubjectRequest captures fields for creating or updating subjects.
type SubjectRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	StaffID  string `json:"staff_id" validate:"required"`
	CourseID string `json:"course_id" validate:"required"`
}

// SubjectService handles subject workflows.
type SubjectService struct {
	repo      subjectRepository
	students  subjectStudentLister
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService creates a new subject service.
func NewSubjectService(repo subjectRepository, students subjectStudentLister, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{repo: repo, students: students, validator: validate, logger: logger}
}

// List returns subjects matching the filter.
func (s *SubjectService) List(ctx context.Context, filter models.SubjectFilter) ([]models.SubjectDetail, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	subjects, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	return subjects, nil
}

// Get returns a subject by id.
func (s *SubjectService) Get(ctx context.Context, id string) (*models.SubjectDetail, error) {
	subject, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "subject not found", "failed to load subject")
	}
	return subject, nil
}

// Students returns the students taking a subject, which are the students of
// the subject's course.
func (s *SubjectService) Students(ctx context.Context, id string) ([]models.StudentDetail, error) {
	subject, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	students, err := s.students.ListByCourse(ctx, subject.CourseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subject students")
	}
	return students, nil
}

// Create adds a new subject.
func (s *SubjectService) Create(ctx context.Context, req SubjectRequest) (*models.SubjectDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}
	subject := &models.Subject{Name: strings.TrimSpace(req.Name), StaffID: req.StaffID, CourseID: req.CourseID}
	if err := s.repo.Create(ctx, subject); err != nil {
		return nil, subjectWriteError(err, "failed to create subject")
	}
	s.logger.Info("subject created", zap.String("subject_id", subject.ID))
	return s.Get(ctx, subject.ID)
}

// Update modifies an existing subject.
func (s *SubjectService) Update(ctx context.Context, id string, req SubjectRequest) (*models.SubjectDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	subject := existing.Subject
	subject.Name = strings.TrimSpace(req.Name)
	subject.StaffID = req.StaffID
	subject.CourseID = req.CourseID
	if err := s.repo.Update(ctx, &subject); err != nil {
		return nil, subjectWriteError(err, "failed to update subject")
	}
	return s.Get(ctx, id)
}

// Delete removes a subject.
func (s *SubjectService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if database.IsForeignKeyViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "subject is still in use")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete subject")
	}
	return nil
}

func subjectWriteError(err error, message string) error {
	if database.IsForeignKeyViolation(err) {
		return appErrors.Clone(appErrors.ErrValidation, "staff or course does not exist")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}
