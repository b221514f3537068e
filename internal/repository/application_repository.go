package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/college-adp-api/internal/models"
)

// ApplicationRepository persists KT and revaluation applications. Both kinds
// share a listing shape and differ only in table and the marks column.
type ApplicationRepository struct {
	db *sqlx.DB
}

// NewApplicationRepository constructs the repository.
func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func applicationTable(kind models.ApplicationKind) (table, marks string, err error) {
	switch kind {
	case models.ApplicationKindKT:
		return "kt_applications", "NULL::numeric", nil
	case models.ApplicationKindRevaluation:
		return "revaluation_applications", "a.current_marks", nil
	}
	return "", "", fmt.Errorf("unknown application kind %q", kind)
}

func applicationSelect(table, marks string) string {
	return `SELECT a.id, a.student_id, s.user_id AS student_user_id, u.full_name AS student_name,
        a.subject_id, sb.name AS subject_name, a.semester, ` + marks + ` AS current_marks,
        a.application_date, a.status, a.remarks
        FROM ` + table + ` a
        JOIN students s ON s.id = a.student_id
        JOIN users u ON u.id = s.user_id
        JOIN subjects sb ON sb.id = a.subject_id`
}

// CreateKT inserts a KT application.
func (r *ApplicationRepository) CreateKT(ctx context.Context, app *models.KTApplication) error {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if app.ApplicationDate.IsZero() {
		app.ApplicationDate = now
	}
	app.CreatedAt = now
	app.UpdatedAt = now
	const query = `INSERT INTO kt_applications (id, student_id, subject_id, semester, application_date, status, remarks, created_at, updated_at)
        VALUES (:id, :student_id, :subject_id, :semester, :application_date, :status, :remarks, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, app); err != nil {
		return fmt.Errorf("create kt application: %w", err)
	}
	return nil
}

// CreateRevaluation inserts a revaluation application.
func (r *ApplicationRepository) CreateRevaluation(ctx context.Context, app *models.RevaluationApplication) error {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if app.ApplicationDate.IsZero() {
		app.ApplicationDate = now
	}
	app.CreatedAt = now
	app.UpdatedAt = now
	const query = `INSERT INTO revaluation_applications (id, student_id, subject_id, semester, current_marks, application_date, status, remarks, created_at, updated_at)
        VALUES (:id, :student_id, :subject_id, :semester, :current_marks, :application_date, :status, :remarks, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, app); err != nil {
		return fmt.Errorf("create revaluation application: %w", err)
	}
	return nil
}

// Exists reports whether the student already applied for the subject. An
// empty semester matches any semester.
func (r *ApplicationRepository) Exists(ctx context.Context, kind models.ApplicationKind, studentID, subjectID, semester string) (bool, error) {
	table, _, err := applicationTable(kind)
	if err != nil {
		return false, err
	}
	query := `SELECT 1 FROM ` + table + ` WHERE student_id = $1 AND subject_id = $2`
	args := []interface{}{studentID, subjectID}
	if semester != "" {
		query += ` AND semester = $3`
		args = append(args, semester)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+` LIMIT 1`, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check %s application: %w", kind, err)
	}
	return true, nil
}

// Find returns one application.
func (r *ApplicationRepository) Find(ctx context.Context, kind models.ApplicationKind, id string) (*models.ApplicationView, error) {
	table, marks, err := applicationTable(kind)
	if err != nil {
		return nil, err
	}
	var view models.ApplicationView
	if err := r.db.GetContext(ctx, &view, applicationSelect(table, marks)+` WHERE a.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find %s application: %w", kind, err)
	}
	return &view, nil
}

// List returns applications newest first.
func (r *ApplicationRepository) List(ctx context.Context, kind models.ApplicationKind, filter models.ApplicationFilter) ([]models.ApplicationView, error) {
	table, marks, err := applicationTable(kind)
	if err != nil {
		return nil, err
	}
	conditions := []string{"1=1"}
	var args []interface{}
	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("a.student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.StaffID != "" {
		conditions = append(conditions, fmt.Sprintf("sb.staff_id = $%d", len(args)+1))
		args = append(args, filter.StaffID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	query := applicationSelect(table, marks) + ` WHERE ` + strings.Join(conditions, " AND ") + ` ORDER BY a.application_date DESC, a.id ASC`

	var views []models.ApplicationView
	if err := r.db.SelectContext(ctx, &views, query, args...); err != nil {
		return nil, fmt.Errorf("list %s applications: %w", kind, err)
	}
	return views, nil
}

// UpdateStatus records the review outcome.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, exec sqlx.ExtContext, kind models.ApplicationKind, id string, status models.ApplicationStatus, remarks *string) error {
	table, _, err := applicationTable(kind)
	if err != nil {
		return err
	}
	query := `UPDATE ` + table + ` SET status = $2, remarks = $3, updated_at = $4 WHERE id = $1`
	if _, err := exec.ExecContext(ctx, query, id, status, remarks, time.Now().UTC()); err != nil {
		return fmt.Errorf("update %s application status: %w", kind, err)
	}
	return nil
}
