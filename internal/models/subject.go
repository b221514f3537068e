package models

import "time"

// Subject is taught by one staff member within a course.
type Subject struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	StaffID   string    `db:"staff_id" json:"staff_id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// SubjectDetail joins the course and staff names for listings.
type SubjectDetail struct {
	Subject
	CourseName string `db:"course_name" json:"course_name"`
	StaffName  string `db:"staff_name" json:"staff_name"`
}

// SubjectFilter narrows subject listings.
type SubjectFilter struct {
	CourseID string
	StaffID  string
	Search   string
}
