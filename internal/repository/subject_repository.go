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

const subjectDetailSelect = `SELECT sb.id, sb.name, sb.staff_id, sb.course_id, sb.created_at, sb.updated_at,
        c.name AS course_name, u.full_name AS staff_name
        FROM subjects sb
        JOIN courses c ON c.id = sb.course_id
        JOIN staff st ON st.id = sb.staff_id
        JOIN users u ON u.id = st.user_id`

// SubjectRepository handles persistence for subjects.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository creates a new repository instance.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// List returns subjects matching filters ordered by name.
func (r *SubjectRepository) List(ctx context.Context, filter models.SubjectFilter) ([]models.SubjectDetail, error) {
	var conditions []string
	var args []interface{}

	if filter.CourseID != "" {
		conditions = append(conditions, fmt.Sprintf("sb.course_id = $%d", len(args)+1))
		args = append(args, filter.CourseID)
	}
	if filter.StaffID != "" {
		conditions = append(conditions, fmt.Sprintf("sb.staff_id = $%d", len(args)+1))
		args = append(args, filter.StaffID)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(sb.name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	query := subjectDetailSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY sb.name ASC, sb.id ASC"

	var subjects []models.SubjectDetail
	if err := r.db.SelectContext(ctx, &subjects, query, args...); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

// FindByID retrieves a subject by id.
func (r *SubjectRepository) FindByID(ctx context.Context, id string) (*models.SubjectDetail, error) {
	query := subjectDetailSelect + ` WHERE sb.id = $1`
	var subject models.SubjectDetail
	if err := r.db.GetContext(ctx, &subject, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find subject: %w", err)
	}
	return &subject, nil
}

// Create inserts a subject.
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	subject.CreatedAt = now
	subject.UpdatedAt = now
	const query = `INSERT INTO subjects (id, name, staff_id, course_id, created_at, updated_at) VALUES (:id, :name, :staff_id, :course_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, subject); err != nil {
		return fmt.Errorf("create subject: %w", err)
	}
	return nil
}

// Update modifies a subject.
func (r *SubjectRepository) Update(ctx context.Context, subject *models.Subject) error {
	subject.UpdatedAt = time.Now().UTC()
	const query = `UPDATE subjects SET name = :name, staff_id = :staff_id, course_id = :course_id, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, subject); err != nil {
		return fmt.Errorf("update subject: %w", err)
	}
	return nil
}

// Delete removes a subject.
func (r *SubjectRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM subjects WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}
	return nil
}
