package models

import "time"

// Student links a user account to a course and session.
type Student struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	CourseID  *string   `db:"course_id" json:"course_id,omitempty"`
	SessionID *string   `db:"session_id" json:"session_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// StudentDetail joins the owning user and course for display.
type StudentDetail struct {
	Student
	FullName   string  `db:"full_name" json:"full_name"`
	Email      string  `db:"email" json:"email"`
	Gender     string  `db:"gender" json:"gender"`
	CourseName *string `db:"course_name" json:"course_name,omitempty"`
}

// Staff links a user account to the course they teach in.
type Staff struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	CourseID  *string   `db:"course_id" json:"course_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// StaffDetail joins the owning user and course for display.
type StaffDetail struct {
	Staff
	FullName   string  `db:"full_name" json:"full_name"`
	Email      string  `db:"email" json:"email"`
	CourseName *string `db:"course_name" json:"course_name,omitempty"`
}
