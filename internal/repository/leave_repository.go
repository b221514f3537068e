package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/college-adp-api/internal/models"
)

// LeaveRepository persists leave requests and feedback from students and staff.
type LeaveRepository struct {
	db *sqlx.DB
}

// NewLeaveRepository constructs the repository.
func NewLeaveRepository(db *sqlx.DB) *LeaveRepository {
	return &LeaveRepository{db: db}
}

// CreateLeave stores a leave request.
func (r *LeaveRepository) CreateLeave(ctx context.Context, leave *models.LeaveReport) error {
	if leave.ID == "" {
		leave.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	leave.CreatedAt = now
	leave.UpdatedAt = now
	const query = `INSERT INTO leave_reports (id, requester_type, requester_id, date, message, status, created_at, updated_at)
        VALUES (:id, :requester_type, :requester_id, :date, :message, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, leave); err != nil {
		return fmt.Errorf("create leave report: %w", err)
	}
	return nil
}

// FindLeave returns one leave request.
func (r *LeaveRepository) FindLeave(ctx context.Context, id string) (*models.LeaveReport, error) {
	const query = `SELECT id, requester_type, requester_id, date, message, status, created_at, updated_at FROM leave_reports WHERE id = $1`
	var leave models.LeaveReport
	if err := r.db.GetContext(ctx, &leave, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find leave report: %w", err)
	}
	return &leave, nil
}

// ListLeaves returns leave requests of one requester type, newest first. An
// empty requesterID lists all of that type.
func (r *LeaveRepository) ListLeaves(ctx context.Context, requesterType models.RequesterType, requesterID string) ([]models.LeaveReport, error) {
	query := `SELECT id, requester_type, requester_id, date, message, status, created_at, updated_at FROM leave_reports WHERE requester_type = $1`
	args := []interface{}{requesterType}
	if requesterID != "" {
		query += ` AND requester_id = $2`
		args = append(args, requesterID)
	}
	query += ` ORDER BY created_at DESC, id ASC`
	var rows []models.LeaveReport
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list leave reports: %w", err)
	}
	return rows, nil
}

// UpdateLeaveStatus records the HOD's decision.
func (r *LeaveRepository) UpdateLeaveStatus(ctx context.Context, id string, status int) error {
	const query = `UPDATE leave_reports SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update leave status: %w", err)
	}
	return nil
}

// CreateFeedback stores a feedback message.
func (r *LeaveRepository) CreateFeedback(ctx context.Context, feedback *models.Feedback) error {
	if feedback.ID == "" {
		feedback.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	feedback.CreatedAt = now
	feedback.UpdatedAt = now
	const query = `INSERT INTO feedbacks (id, requester_type, requester_id, feedback, reply, created_at, updated_at)
        VALUES (:id, :requester_type, :requester_id, :feedback, :reply, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, feedback); err != nil {
		return fmt.Errorf("create feedback: %w", err)
	}
	return nil
}

// FindFeedback returns one feedback message.
func (r *LeaveRepository) FindFeedback(ctx context.Context, id string) (*models.Feedback, error) {
	const query = `SELECT id, requester_type, requester_id, feedback, reply, created_at, updated_at FROM feedbacks WHERE id = $1`
	var feedback models.Feedback
	if err := r.db.GetContext(ctx, &feedback, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find feedback: %w", err)
	}
	return &feedback, nil
}

// ListFeedback returns feedback of one requester type, newest first.
func (r *LeaveRepository) ListFeedback(ctx context.Context, requesterType models.RequesterType, requesterID string) ([]models.Feedback, error) {
	query := `SELECT id, requester_type, requester_id, feedback, reply, created_at, updated_at FROM feedbacks WHERE requester_type = $1`
	args := []interface{}{requesterType}
	if requesterID != "" {
		query += ` AND requester_id = $2`
		args = append(args, requesterID)
	}
	query += ` ORDER BY created_at DESC, id ASC`
	var rows []models.Feedback
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return rows, nil
}

// ReplyFeedback stores the HOD's reply.
func (r *LeaveRepository) ReplyFeedback(ctx context.Context, id, reply string) error {
	const query = `UPDATE feedbacks SET reply = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, reply, time.Now().UTC()); err != nil {
		return fmt.Errorf("reply feedback: %w", err)
	}
	return nil
}
