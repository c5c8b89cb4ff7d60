package types

import "time"

const RoleAdmin = "admin"

type User struct {
	ID           string    `db:"id" json:"id"`
	Email        *string   `db:"email" json:"email,omitempty"`
	GivenName    *string   `db:"given_name" json:"givenName,omitempty"`
	FamilyName   *string   `db:"family_name" json:"familyName,omitempty"`
	RoleID       *string   `db:"role_id" json:"roleId,omitempty"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
	Capabilities []string  `db:"-" json:"capabilities"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.RoleID != nil && *u.RoleID == RoleAdmin
}

// Role maps a named role to the capability keys it grants.
type Role struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Capabilities []string  `db:"capabilities"` // text[]
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
