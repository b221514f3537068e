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

// StaffRepository manages persistence for staff records.
type StaffRepository struct {
	db *sqlx.DB
}

// NewStaffRepository constructs a StaffRepository.
func NewStaffRepository(db *sqlx.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

const staffDetailSelect = `SELECT st.id, st.user_id, st.course_id, st.created_at, st.updated_at,
        u.full_name, u.email, c.name AS course_name
        FROM staff st
        JOIN users u ON u.id = st.user_id
        LEFT JOIN courses c ON c.id = st.course_id`

// List returns staff ordered by name, optionally restricted to a course.
func (r *StaffRepository) List(ctx context.Context, courseID string) ([]models.StaffDetail, error) {
	query := staffDetailSelect
	var args []interface{}
	if courseID != "" {
		query += ` WHERE st.course_id = $1`
		args = append(args, courseID)
	}
	query += ` ORDER BY u.full_name ASC, st.id ASC`
	var staff []models.StaffDetail
	if err := r.db.SelectContext(ctx, &staff, query, args...); err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	return staff, nil
}

// FindByID fetches a staff detail by id.
func (r *StaffRepository) FindByID(ctx context.Context, id string) (*models.StaffDetail, error) {
	return r.findOne(ctx, "st.id", id)
}

// FindByUserID fetches the staff profile owned by a user account.
func (r *StaffRepository) FindByUserID(ctx context.Context, userID string) (*models.StaffDetail, error) {
	return r.findOne(ctx, "st.user_id", userID)
}

func (r *StaffRepository) findOne(ctx context.Context, column, value string) (*models.StaffDetail, error) {
	query := staffDetailSelect + ` WHERE ` + column + ` = $1`
	var detail models.StaffDetail
	if err := r.db.GetContext(ctx, &detail, query, value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find staff: %w", err)
	}
	return &detail, nil
}

// Create inserts a staff record.
func (r *StaffRepository) Create(ctx context.Context, exec sqlx.ExtContext, staff *models.Staff) error {
	if staff.ID == "" {
		staff.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	staff.CreatedAt = now
	staff.UpdatedAt = now
	const query = `INSERT INTO staff (id, user_id, course_id, created_at, updated_at) VALUES (:id, :user_id, :course_id, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, exec, query, staff); err != nil {
		return fmt.Errorf("create staff: %w", err)
	}
	return nil
}

// Update moves a staff member to another course.
func (r *StaffRepository) Update(ctx context.Context, exec sqlx.ExtContext, staff *models.Staff) error {
	staff.UpdatedAt = time.Now().UTC()
	const query = `UPDATE staff SET course_id = :course_id, updated_at = :updated_at WHERE id = :id`
	if _, err := sqlx.NamedExecContext(ctx, exec, query, staff); err != nil {
		return fmt.Errorf("update staff: %w", err)
	}
	return nil
}
