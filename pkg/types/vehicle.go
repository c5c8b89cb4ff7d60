package types

import "time"

type Vehicle struct {
	ID        string    `db:"id" json:"id"`
	Plate     string    `db:"plate" json:"plate"`
	Brand     *string   `db:"brand" json:"brand,omitempty"`
	Model     *string   `db:"model" json:"model,omitempty"`
	Year      *int      `db:"year" json:"year,omitempty"`
	ProjectID *string   `db:"project_id" json:"projectId,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

type VehicleInput struct {
	Plate     string `form:"plate" json:"plate" validate:"required,plate"`
	Brand     string `form:"brand" json:"brand" validate:"max=80"`
	Model     string `form:"model" json:"model" validate:"max=80"`
	Year      int    `form:"year" json:"year" validate:"omitempty,gte=1950,lte=2100"`
	ProjectID string `form:"project_id" json:"projectId"`
}
