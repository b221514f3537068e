package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/college-adp-api/internal/models"
	appErrors "github.com/noah-isme/college-adp-api/pkg/errors"
)

type staffRepository interface {
	List(ctx context.Context, courseID string) ([]models.StaffDetail, error)
	FindByID(ctx context.Context, id string) (*models.StaffDetail, error)
	FindByUserID(ctx context.Context, userID string) (*models.StaffDetail, error)
	Create(ctx context.Context, exec sqlx.ExtContext, staff *models.Staff) error
	Update(ctx context.Context, exec sqlx.ExtContext, staff *models.Staff) error
}

// StaffRequest holds payload for creating or updating staff.
type StaffRequest struct {
	AccountRequest
	CourseID *string `json:"course_id"`
}

// StaffService manages staff accounts.
type StaffService struct {
	users     accountRepository
	repo      staffRepository
	tx        txProvider
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStaffService constructs the staff service.
func NewStaffService(users accountRepository, repo staffRepository, tx txProvider, validate *validator.Validate, logger *zap.Logger) *StaffService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StaffService{users: users, repo: repo, tx: tx, validator: validate, logger: logger}
}

// List returns staff, optionally for one course.
func (s *StaffService) List(ctx context.Context, courseID string) ([]models.StaffDetail, error) {
	staff, err := s.repo.List(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list staff")
	}
	return staff, nil
}

// Get returns one staff member.
func (s *StaffService) Get(ctx context.Context, id string) (*models.StaffDetail, error) {
	staff, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "staff not found", "failed to load staff")
	}
	return staff, nil
}

// GetByUser returns the staff profile of a logged in user.
func (s *StaffService) GetByUser(ctx context.Context, userID string) (*models.StaffDetail, error) {
	staff, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "staff profile not found", "failed to load staff")
	}
	return staff, nil
}

// Create registers a staff account and profile together.
func (s *StaffService) Create(ctx context.Context, req StaffRequest) (*models.StaffDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid staff payload")
	}
	if req.Password == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "password is required")
	}
	user, err := newAccount(ctx, s.users, req.AccountRequest, models.RoleStaff)
	if err != nil {
		return nil, err
	}
	staff := &models.Staff{CourseID: blankToNil(req.CourseID)}

	err = runInTx(ctx, s.tx, func(tx *sqlx.Tx) error {
		if err := s.users.Create(ctx, tx, user); err != nil {
			return accountWriteError(err, "failed to create staff account")
		}
		staff.UserID = user.ID
		if err := s.repo.Create(ctx, tx, staff); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create staff")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("staff created", zap.String("staff_id", staff.ID), zap.String("user_id", user.ID))
	return &models.StaffDetail{Staff: *staff, FullName: user.FullName, Email: user.Email}, nil
}

// Update modifies a staff account and profile.
func (s *StaffService) Update(ctx context.Context, id string, req StaffRequest) (*models.StaffDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid staff payload")
	}
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "staff not found", "failed to load staff")
	}
	user, err := loadAccount(ctx, s.users, detail.UserID)
	if err != nil {
		return nil, err
	}
	applyAccount(user, req.AccountRequest)
	staff := detail.Staff
	staff.CourseID = blankToNil(req.CourseID)

	err = runInTx(ctx, s.tx, func(tx *sqlx.Tx) error {
		if err := saveAccount(ctx, s.users, tx, user, req.Password); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, tx, &staff); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update staff")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes a staff member together with the login account.
func (s *StaffService) Delete(ctx context.Context, id string) error {
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "staff not found", "failed to load staff")
	}
	return runInTx(ctx, s.tx, func(tx *sqlx.Tx) error {
		if err := s.users.Delete(ctx, tx, detail.UserID); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete staff")
		}
		return nil
	})
}
