package models

import "time"

// StudentResult holds marks for one subject in one semester.
type StudentResult struct {
	ID             string    `db:"id" json:"id"`
	StudentID      string    `db:"student_id" json:"student_id"`
	SubjectID      string    `db:"subject_id" json:"subject_id"`
	Semester       string    `db:"semester" json:"semester"`
	AcademicYear   string    `db:"academic_year" json:"academic_year"`
	InternalMarks  float64   `db:"internal_marks" json:"internal_marks"`
	ExternalMarks  float64   `db:"external_marks" json:"external_marks"`
	PracticalMarks float64   `db:"practical_marks" json:"practical_marks"`
	TotalMarks     float64   `db:"total_marks" json:"total_marks"`
	Grade          string    `db:"grade" json:"grade"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// ResultSheetRow is a result joined with student and subject names.
type ResultSheetRow struct {
	StudentResult
	StudentName  string `db:"student_name" json:"student_name"`
	StudentEmail string `db:"student_email" json:"student_email"`
	SubjectName  string `db:"subject_name" json:"subject_name"`
}

// ResultSheetFilter selects one sheet of results.
type ResultSheetFilter struct {
	SubjectID    string `form:"subjectId" validate:"required"`
	Semester     string `form:"semester" validate:"required"`
	AcademicYear string `form:"academicYear" validate:"required"`
}
