package types

import "errors"

var (
	ErrProjectNotFound       = errors.New("project not found")
	ErrEmployeeNotFound      = errors.New("employee not found")
	ErrVehicleNotFound       = errors.New("vehicle not found")
	ErrAccommodationNotFound = errors.New("accommodation not found")
	ErrDocumentNotFound      = errors.New("document not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrRoleNotFound          = errors.New("role not found")
)
