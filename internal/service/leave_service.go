package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/college-adp-api/internal/models"
	appErrors "github.com/noah-isme/college-adp-api/pkg/errors"
)

type leaveRepository interface {
	CreateLeave(ctx context.Context, leave *models.LeaveReport) error
	FindLeave(ctx context.Context, id string) (*models.LeaveReport, error)
	ListLeaves(ctx context.Context, requesterType models.RequesterType, requesterID string) ([]models.LeaveReport, error)
	UpdateLeaveStatus(ctx context.Context, id string, status int) error
	CreateFeedback(ctx context.Context, feedback *models.Feedback) error
	FindFeedback(ctx context.Context, id string) (*models.Feedback, error)
	ListFeedback(ctx context.Context, requesterType models.RequesterType, requesterID string) ([]models.Feedback, error)
	ReplyFeedback(ctx context.Context, id, reply string) error
}

type studentLookup interface {
	FindByUserID(ctx context.Context, userID string) (*models.StudentDetail, error)
}

// LeaveRequest applies for leave on one day.
type LeaveRequest struct {
	Date    string `json:"date" validate:"required"`
	Message string `json:"message" validate:"required,max=2000"`
}

// FeedbackRequest sends feedback to the HOD.
type FeedbackRequest struct {
	Feedback string `json:"feedback" validate:"required,max=2000"`
}

// LeaveDecision approves or rejects a leave request.
type LeaveDecision struct {
	Approve bool `json:"approve"`
}

// ReplyRequest answers a feedback message.
type ReplyRequest struct {
	Reply string `json:"reply" validate:"required,max=2000"`
}

// LeaveService handles leave requests and feedback from students and staff.
type LeaveService struct {
	repo      leaveRepository
	students  studentLookup
	staff     staffLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLeaveService constructs the leave and feedback service.
func NewLeaveService(repo leaveRepository, students studentLookup, staff staffLookup, validate *validator.Validate, logger *zap.Logger) *LeaveService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeaveService{repo: repo, students: students, staff: staff, validator: validate, logger: logger}
}

// ApplyLeave records a pending leave request for the caller.
func (s *LeaveService) ApplyLeave(ctx context.Context, req LeaveRequest, claims *models.JWTClaims) (*models.LeaveReport, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid leave payload")
	}
	if _, err := time.Parse(attendanceDateLayout, req.Date); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}
	kind, requesterID, err := s.requester(ctx, claims)
	if err != nil {
		return nil, err
	}
	leave := &models.LeaveReport{
		RequesterType: kind,
		RequesterID:   requesterID,
		Date:          req.Date,
		Message:       strings.TrimSpace(req.Message),
		Status:        models.LeavePending,
	}
	if err := s.repo.CreateLeave(ctx, leave); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create leave request")
	}
	s.logger.Info("leave requested", zap.String("leave_id", leave.ID), zap.String("requester_type", string(kind)))
	return leave, nil
}

// MyLeaves lists the caller's leave requests.
func (s *LeaveService) MyLeaves(ctx context.Context, claims *models.JWTClaims) ([]models.LeaveReport, error) {
	kind, requesterID, err := s.requester(ctx, claims)
	if err != nil {
		return nil, err
	}
	return s.ListLeaves(ctx, kind, requesterID)
}

// ListLeaves lists leave requests of one requester type. An empty
// requesterID returns every request of that type.
func (s *LeaveService) ListLeaves(ctx context.Context, kind models.RequesterType, requesterID string) ([]models.LeaveReport, error) {
	if err := validRequesterType(kind); err != nil {
		return nil, err
	}
	leaves, err := s.repo.ListLeaves(ctx, kind, requesterID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list leave requests")
	}
	return leaves, nil
}

// DecideLeave sets a leave request to approved or rejected.
func (s *LeaveService) DecideLeave(ctx context.Context, id string, decision LeaveDecision) (*models.LeaveReport, error) {
	leave, err := s.repo.FindLeave(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "leave request not found", "failed to load leave request")
	}
	status := models.LeaveRejected
	if decision.Approve {
		status = models.LeaveApproved
	}
	if err := s.repo.UpdateLeaveStatus(ctx, id, status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update leave request")
	}
	leave.Status = status
	s.logger.Info("leave decided", zap.String("leave_id", id), zap.Int("status", status))
	return leave, nil
}

// SendFeedback records feedback from the caller.
func (s *LeaveService) SendFeedback(ctx context.Context, req FeedbackRequest, claims *models.JWTClaims) (*models.Feedback, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid feedback payload")
	}
	kind, requesterID, err := s.requester(ctx, claims)
	if err != nil {
		return nil, err
	}
	feedback := &models.Feedback{RequesterType: kind, RequesterID: requesterID, Feedback: strings.TrimSpace(req.Feedback)}
	if err := s.repo.CreateFeedback(ctx, feedback); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create feedback")
	}
	return feedback, nil
}

// MyFeedback lists the caller's feedback with any replies.
func (s *LeaveService) MyFeedback(ctx context.Context, claims *models.JWTClaims) ([]models.Feedback, error) {
	kind, requesterID, err := s.requester(ctx, claims)
	if err != nil {
		return nil, err
	}
	return s.ListFeedback(ctx, kind, requesterID)
}

// ListFeedback lists feedback of one requester type.
func (s *LeaveService) ListFeedback(ctx context.Context, kind models.RequesterType, requesterID string) ([]models.Feedback, error) {
	if err := validRequesterType(kind); err != nil {
		return nil, err
	}
	items, err := s.repo.ListFeedback(ctx, kind, requesterID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list feedback")
	}
	return items, nil
}

// Reply stores the HOD's answer to a feedback message.
func (s *LeaveService) Reply(ctx context.Context, id string, req ReplyRequest) (*models.Feedback, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reply payload")
	}
	feedback, err := s.repo.FindFeedback(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "feedback not found", "failed to load feedback")
	}
	reply := strings.TrimSpace(req.Reply)
	if err := s.repo.ReplyFeedback(ctx, id, reply); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reply to feedback")
	}
	feedback.Reply = reply
	return feedback, nil
}

func (s *LeaveService) requester(ctx context.Context, claims *models.JWTClaims) (models.RequesterType, string, error) {
	if claims == nil {
		return "", "", appErrors.ErrUnauthorized
	}
	switch claims.Role {
	case models.RoleStudent:
		student, err := s.students.FindByUserID(ctx, claims.UserID)
		if err != nil {
			return "", "", notFoundOr(err, "student profile not found", "failed to load student")
		}
		return models.RequesterStudent, student.ID, nil
	case models.RoleStaff:
		member, err := s.staff.FindByUserID(ctx, claims.UserID)
		if err != nil {
			return "", "", notFoundOr(err, "staff profile not found", "failed to load staff")
		}
		return models.RequesterStaff, member.ID, nil
	}
	return "", "", appErrors.Clone(appErrors.ErrForbidden, "only students and staff can submit requests")
}

func validRequesterType(kind models.RequesterType) error {
	switch kind {
	case models.RequesterStudent, models.RequesterStaff:
		return nil
	}
	return appErrors.Clone(appErrors.ErrValidation, "requester type must be student or staff")
}
