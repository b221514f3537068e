package models

import "time"

// Course is a degree programme students enrol in.
type Course struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Session is an academic session such as 2023-2024.
type Session struct {
	ID        string    `db:"id" json:"id"`
	StartYear time.Time `db:"start_year" json:"start_year"`
	EndYear   time.Time `db:"end_year" json:"end_year"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
