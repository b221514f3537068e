package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/college-adp-api/internal/models"
	appErrors "github.com/noah-isme/college-adp-api/pkg/errors"
)

type leaveRepoFake struct {
	leaves    map[string]models.LeaveReport
	feedback  map[string]models.Feedback
	lastType  models.RequesterType
	lastOwner string
}

func newLeaveRepoFake() *leaveRepoFake {
	return &leaveRepoFake{leaves: map[string]models.LeaveReport{}, feedback: map[string]models.Feedback{}}
}

func (f *leaveRepoFake) CreateLeave(ctx context.Context, leave *models.LeaveReport) error {
	leave.ID = "leave-new"
	f.leaves[leave.ID] = *leave
	return nil
}

func (f *leaveRepoFake) FindLeave(ctx context.Context, id string) (*models.LeaveReport, error) {
	if l, ok := f.leaves[id]; ok {
		return &l, nil
	}
	return nil, sql.ErrNoRows
}

func (f *leaveRepoFake) ListLeaves(ctx context.Context, requesterType models.RequesterType, requesterID string) ([]models.LeaveReport, error) {
	f.lastType, f.lastOwner = requesterType, requesterID
	var out []models.LeaveReport
	for _, l := range f.leaves {
		if l.RequesterType == requesterType && (requesterID == "" || l.RequesterID == requesterID) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *leaveRepoFake) UpdateLeaveStatus(ctx context.Context, id string, status int) error {
	l := f.leaves[id]
	l.Status = status
	f.leaves[id] = l
	return nil
}

func (f *leaveRepoFake) CreateFeedback(ctx context.Context, feedback *models.Feedback) error {
	feedback.ID = "fb-new"
	f.feedback[feedback.ID] = *feedback
	return nil
}

func (f *leaveRepoFake) FindFeedback(ctx context.Context, id string) (*models.Feedback, error) {
	if fb, ok := f.feedback[id]; ok {
		return &fb, nil
	}
	return nil, sql.ErrNoRows
}

func (f *leaveRepoFake) ListFeedback(ctx context.Context, requesterType models.RequesterType, requesterID string) ([]models.Feedback, error) {
	f.lastType, f.lastOwner = requesterType, requesterID
	var out []models.Feedback
	for _, fb := range f.feedback {
		if fb.RequesterType == requesterType && (requesterID == "" || fb.RequesterID == requesterID) {
			out = append(out, fb)
		}
	}
	return out, nil
}

func (f *leaveRepoFake) ReplyFeedback(ctx context.Context, id, reply string) error {
	fb := f.feedback[id]
	fb.Reply = reply
	f.feedback[id] = fb
	return nil
}

func newLeaveService() (*LeaveService, *leaveRepoFake) {
	repo := newLeaveRepoFake()
	students := &mockStudentRepo{students: map[string]models.StudentDetail{
		"s1": {Student: models.Student{ID: "s1", UserID: "user-s1"}},
	}}
	staff := &mockStaffRepo{staff: map[string]models.StaffDetail{
		"staff-1": {Staff: models.Staff{ID: "staff-1", UserID: "user-staff-1"}},
	}}
	return NewLeaveService(repo, students, staff, nil, nil), repo
}

var studentClaims = &models.JWTClaims{UserID: "user-s1", Role: models.RoleStudent}

func TestLeaveApplyAndDecide(t *testing.T) {
	svc, repo := newLeaveService()

	leave, err := svc.ApplyLeave(context.Background(), LeaveRequest{Date: "2024-05-02", Message: " family function "}, studentClaims)
	require.NoError(t, err)
	assert.Equal(t, models.RequesterStudent, leave.RequesterType)
	assert.Equal(t, "s1", leave.RequesterID)
	assert.Equal(t, "family function", leave.Message)
	assert.Equal(t, models.LeavePending, leave.Status)

	decided, err := svc.DecideLeave(context.Background(), leave.ID, LeaveDecision{Approve: false})
	require.NoError(t, err)
	assert.Equal(t, models.LeaveRejected, decided.Status)
	assert.Equal(t, models.LeaveRejected, repo.leaves[leave.ID].Status)

	_, err = svc.DecideLeave(context.Background(), "missing", LeaveDecision{Approve: true})
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestLeaveApplyValidation(t *testing.T) {
	svc, _ := newLeaveService()

	_, err := svc.ApplyLeave(context.Background(), LeaveRequest{Date: "02-05-2024", Message: "x"}, studentClaims)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.ApplyLeave(context.Background(), LeaveRequest{Date: "2024-05-02", Message: "x"}, &models.JWTClaims{Role: models.RoleHOD})
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	_, err = svc.ApplyLeave(context.Background(), LeaveRequest{Date: "2024-05-02", Message: "x"}, nil)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestLeaveListsScopeToRequester(t *testing.T) {
	svc, repo := newLeaveService()
	_, err := svc.ApplyLeave(context.Background(), LeaveRequest{Date: "2024-05-02", Message: "conference"}, staffClaims)
	require.NoError(t, err)

	mine, err := svc.MyLeaves(context.Background(), staffClaims)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	assert.Equal(t, "staff-1", repo.lastOwner)

	all, err := svc.ListLeaves(context.Background(), models.RequesterStudent, "")
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = svc.ListLeaves(context.Background(), "parent", "")
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestFeedbackReply(t *testing.T) {
	svc, _ := newLeaveService()

	fb, err := svc.SendFeedback(context.Background(), FeedbackRequest{Feedback: "Library hours are too short"}, studentClaims)
	require.NoError(t, err)

	replied, err := svc.Reply(context.Background(), fb.ID, ReplyRequest{Reply: " Extended from next week "})
	require.NoError(t, err)
	assert.Equal(t, "Extended from next week", replied.Reply)

	mine, err := svc.MyFeedback(context.Background(), studentClaims)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Extended from next week", mine[0].Reply)

	_, err = svc.Reply(context.Background(), "missing", ReplyRequest{Reply: "ok"})
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	_, err = svc.Reply(context.Background(), fb.ID, ReplyRequest{})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
