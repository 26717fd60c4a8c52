package models

import "time"

// Program is a degree program offered by the institution. Cohorts,
// subjects and instructors are all scoped to a program.
type Program struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
