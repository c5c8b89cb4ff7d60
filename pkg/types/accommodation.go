package types

import "time"

type Accommodation struct {
	ID               string     `db:"id" json:"id"`
	Name             string     `db:"name" json:"name"`
	Address          *string    `db:"address" json:"address,omitempty"`
	City             *string    `db:"city" json:"city,omitempty"`
	LandlordName     *string    `db:"landlord_name" json:"landlordName,omitempty"`
	LandlordCNPJ     *string    `db:"landlord_cnpj" json:"landlordCnpj,omitempty"`
	MonthlyRentCents int64      `db:"monthly_rent_cents" json:"monthlyRentCents"`
	Capacity         int        `db:"capacity" json:"capacity"`
	ProjectID        *string    `db:"project_id" json:"projectId,omitempty"`
	LeaseEndsAt      *time.Time `db:"lease_ends_at" json:"leaseEndsAt,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updatedAt"`
}

type AccommodationInput struct {
	Name             string     `form:"name" json:"name" validate:"required,max=200"`
	Address          string     `form:"address" json:"address"`
	City             string     `form:"city" json:"city"`
	LandlordName     string     `form:"landlord_name" json:"landlordName" validate:"max=200"`
	LandlordCNPJ     string     `form:"landlord_cnpj" json:"landlordCnpj" validate:"omitempty,cnpj"`
	MonthlyRentCents int64      `form:"monthly_rent_cents" json:"monthlyRentCents" validate:"gte=0"`
	Capacity         int        `form:"capacity" json:"capacity" validate:"gte=0"`
	ProjectID        string     `form:"project_id" json:"projectId"`
	LeaseEndsAt      *time.Time `form:"lease_ends_at" json:"leaseEndsAt"`
}
