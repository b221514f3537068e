package models

import "time"

// Attendance is one roll call of a subject on a date.
type Attendance struct {
	ID        string    `db:"id" json:"id"`
	SessionID string    `db:"session_id" json:"session_id"`
	SubjectID string    `db:"subject_id" json:"subject_id"`
	Date      time.Time `db:"date" json:"date"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// AttendanceReport stores whether a student was present.
type AttendanceReport struct {
	ID           string    `db:"id" json:"id"`
	StudentID    string    `db:"student_id" json:"student_id"`
	AttendanceID string    `db:"attendance_id" json:"attendance_id"`
	Status       bool      `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// AttendanceStudentStatus is a report row joined with the student's name.
type AttendanceStudentStatus struct {
	StudentID string `db:"student_id" json:"student_id"`
	FullName  string `db:"full_name" json:"full_name"`
	Status    bool   `db:"status" json:"status"`
}
