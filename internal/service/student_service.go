package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/college-adp-api/internal/models"
	"github.com/noah-isme/college-adp-api/pkg/database"
	appErrors "github.com/noah-isme/college-adp-api/pkg/errors"
)

// accountRepository writes the user rows behind student and staff profiles.
type accountRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, exec sqlx.ExtContext, user *models.User) error
	Update(ctx context.Context, exec sqlx.ExtContext, user *models.User) error
	UpdatePassword(ctx context.Context, exec sqlx.ExtContext, id, passwordHash string) error
	Delete(ctx context.Context, exec sqlx.ExtContext, id string) error
}

type studentRepository interface {
	List(ctx context.Context, filter models.ListFilter) ([]models.StudentDetail, int, error)
	ListByCourse(ctx context.Context, courseID string) ([]models.StudentDetail, error)
	FindByID(ctx context.Context, id string) (*models.StudentDetail, error)
	FindByUserID(ctx context.Context, userID string) (*models.StudentDetail, error)
	Create(ctx context.Context, exec sqlx.ExtContext, student *models.Student) error
	Update(ctx context.Context, exec sqlx.ExtContext, student *models.Student) error
}

// AccountRequest carries the user fields shared by students and staff.
type AccountRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"omitempty,min=8"`
	FullName string `json:"full_name" validate:"required,max=150"`
	Gender   string `json:"gender" validate:"required,oneof=M F"`
	Address  string `json:"address"`
}

// StudentRequest holds payload for creating or updating students.
type StudentRequest struct {
	AccountRequest
	CourseID  *string `json:"course_id"`
	SessionID *string `json:"session_id"`
}

// StudentService handles student use-cases.
type StudentService struct {
	users     accountRepository
	repo      studentRepository
	tx        txProvider
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(users accountRepository, repo studentRepository, tx txProvider, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{users: users, repo: repo, tx: tx, validator: validate, logger: logger}
}

// List returns students and pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.ListFilter) ([]models.StudentDetail, *models.Pagination, error) {
	filter.Normalize()
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// ListByCourse returns every student enrolled in a course.
func (s *StudentService) ListByCourse(ctx context.Context, courseID string) ([]models.StudentDetail, error) {
	students, err := s.repo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list course students")
	}
	return students, nil
}

// Get returns detailed student information.
func (s *StudentService) Get(ctx context.Context, id string) (*models.StudentDetail, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "student not found", "failed to load student")
	}
	return student, nil
}

// GetByUser returns the student profile of a logged in user.
func (s *StudentService) GetByUser(ctx context.Context, userID string) (*models.StudentDetail, error) {
	student, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "student profile not found", "failed to load student")
	}
	return student, nil
}

// Create registers a student account and profile together.
func (s *StudentService) Create(ctx context.Context, req StudentRequest) (*models.StudentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	if req.Password == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "password is required")
	}
	user, err := newAccount(ctx, s.users, req.AccountRequest, models.RoleStudent)
	if err != nil {
		return nil, err
	}
	student := &models.Student{CourseID: blankToNil(req.CourseID), SessionID: blankToNil(req.SessionID)}

	err = runInTx(ctx, s.tx, func(tx *sqlx.Tx) error {
		if err := s.users.Create(ctx, tx, user); err != nil {
			return accountWriteError(err, "failed to create student account")
		}
		student.UserID = user.ID
		if err := s.repo.Create(ctx, tx, student); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("student created", zap.String("student_id", student.ID), zap.String("user_id", user.ID))
	return &models.StudentDetail{Student: *student, FullName: user.FullName, Email: user.Email, Gender: user.Gender}, nil
}

// Update modifies a student account and profile.
func (s *StudentService) Update(ctx context.Context, id string, req StudentRequest) (*models.StudentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "student not found", "failed to load student")
	}
	user, err := loadAccount(ctx, s.users, detail.UserID)
	if err != nil {
		return nil, err
	}
	applyAccount(user, req.AccountRequest)
	student := detail.Student
	student.CourseID = blankToNil(req.CourseID)
	student.SessionID = blankToNil(req.SessionID)

	err = runInTx(ctx, s.tx, func(tx *sqlx.Tx) error {
		if err := saveAccount(ctx, s.users, tx, user, req.Password); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, tx, &student); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes a student together with the login account.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "student not found", "failed to load student")
	}
	return runInTx(ctx, s.tx, func(tx *sqlx.Tx) error {
		if err := s.users.Delete(ctx, tx, detail.UserID); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
		}
		return nil
	})
}

func newAccount(ctx context.Context, users accountRepository, req AccountRequest, role models.UserRole) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := users.FindByEmail(ctx, email); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}
	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}
	user := &models.User{Email: email, PasswordHash: hash, Role: role, Active: true}
	applyAccount(user, req)
	return user, nil
}

func loadAccount(ctx context.Context, users accountRepository, userID string) (*models.User, error) {
	user, err := users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "user account not found", "failed to load user account")
	}
	return user, nil
}

func applyAccount(user *models.User, req AccountRequest) {
	user.Email = strings.ToLower(strings.TrimSpace(req.Email))
	user.FullName = strings.TrimSpace(req.FullName)
	user.Gender = req.Gender
	user.Address = strings.TrimSpace(req.Address)
}

func saveAccount(ctx context.Context, users accountRepository, exec sqlx.ExtContext, user *models.User, password string) error {
	if err := users.Update(ctx, exec, user); err != nil {
		return accountWriteError(err, "failed to update account")
	}
	if password == "" {
		return nil
	}
	hash, err := HashPassword(password)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}
	if err := users.UpdatePassword(ctx, exec, user.ID, hash); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update password")
	}
	return nil
}

func accountWriteError(err error, message string) error {
	if database.IsUniqueViolation(err) {
		return appErrors.Clone(appErrors.ErrConflict, "email already registered")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
