package types

import "time"

type Employee struct {
	ID              string     `db:"id" json:"id"`
	Name            string     `db:"name" json:"name"`
	JobTitle        *string    `db:"job_title" json:"jobTitle,omitempty"`
	Phone           *string    `db:"phone" json:"phone,omitempty"`
	ProjectID       *string    `db:"project_id" json:"projectId,omitempty"`
	AccommodationID *string    `db:"accommodation_id" json:"accommodationId,omitempty"`
	HiredAt         *time.Time `db:"hired_at" json:"hiredAt,omitempty"`
	Active          bool       `db:"active" json:"active"`
	CreatedAt       time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updatedAt"`
}

type EmployeeInput struct {
	Name            string     `form:"name" json:"name" validate:"required,max=200"`
	JobTitle        string     `form:"job_title" json:"jobTitle" validate:"max=120"`
	Phone           string     `form:"phone" json:"phone" validate:"max=30"`
	ProjectID       string     `form:"project_id" json:"projectId"`
	AccommodationID string     `form:"accommodation_id" json:"accommodationId"`
	HiredAt         *time.Time `form:"hired_at" json:"hiredAt"`
}
