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

// AttendanceRepository persists roll calls and per-student reports.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Create inserts a roll call. (session_id, subject_id, date) is unique.
func (r *AttendanceRepository) Create(ctx context.Context, exec sqlx.ExtContext, attendance *models.Attendance) error {
	if attendance.ID == "" {
		attendance.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	attendance.CreatedAt = now
	attendance.UpdatedAt = now
	const query = `INSERT INTO attendances (id, session_id, subject_id, date, created_at, updated_at) VALUES (:id, :session_id, :subject_id, :date, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, exec, query, attendance); err != nil {
		return fmt.Errorf("create attendance: %w", err)
	}
	return nil
}

// FindByID returns a roll call.
func (r *AttendanceRepository) FindByID(ctx context.Context, id string) (*models.Attendance, error) {
	const query = `SELECT id, session_id, subject_id, date, created_at, updated_at FROM attendances WHERE id = $1`
	var attendance models.Attendance
	if err := r.db.GetContext(ctx, &attendance, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find attendance: %w", err)
	}
	return &attendance, nil
}

// ListBySubject returns roll calls of a subject, newest first. An empty
// sessionID lists every session.
func (r *AttendanceRepository) ListBySubject(ctx context.Context, subjectID, sessionID string) ([]models.Attendance, error) {
	query := `SELECT id, session_id, subject_id, date, created_at, updated_at FROM attendances WHERE subject_id = $1`
	args := []interface{}{subjectID}
	if sessionID != "" {
		query += ` AND session_id = $2`
		args = append(args, sessionID)
	}
	query += ` ORDER BY date DESC, id ASC`
	var rows []models.Attendance
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return rows, nil
}

// ListStatuses returns every student's status for one roll call.
func (r *AttendanceRepository) ListStatuses(ctx context.Context, attendanceID string) ([]models.AttendanceStudentStatus, error) {
	const query = `SELECT ar.student_id, u.full_name, ar.status
        FROM attendance_reports ar
        JOIN students s ON s.id = ar.student_id
        JOIN users u ON u.id = s.user_id
        WHERE ar.attendance_id = $1
        ORDER BY u.full_name ASC, ar.student_id ASC`
	var rows []models.AttendanceStudentStatus
	if err := r.db.SelectContext(ctx, &rows, query, attendanceID); err != nil {
		return nil, fmt.Errorf("list attendance statuses: %w", err)
	}
	return rows, nil
}

// UpsertReport records a student's status, creating the report when missing.
func (r *AttendanceRepository) UpsertReport(ctx context.Context, exec sqlx.ExtContext, report *models.AttendanceReport) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if report.CreatedAt.IsZero() {
		report.CreatedAt = now
	}
	report.UpdatedAt = now
	const query = `INSERT INTO attendance_reports (id, student_id, attendance_id, status, created_at, updated_at)
        VALUES (:id, :student_id, :attendance_id, :status, :created_at, :updated_at)
        ON CONFLICT (student_id, attendance_id) DO UPDATE SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at`
	if _, err := sqlx.NamedExecContext(ctx, exec, query, report); err != nil {
		return fmt.Errorf("upsert attendance report: %w", err)
	}
	return nil
}
