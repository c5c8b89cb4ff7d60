// Package auth decides what an authenticated user may do. The user is always
// passed in explicitly; there is no package level session state.
package auth

import (
	"slices"

	"construtora/pkg/types"
)

// Capability keys. Kinds carry their own read/write keys on
// types.DocumentKind.
const (
	CapProjectsRead        = "projects.read"
	CapProjectsWrite       = "projects.write"
	CapEmployeesRead       = "employees.read"
	CapEmployeesWrite      = "employees.write"
	CapVehiclesRead        = "vehicles.read"
	CapVehiclesWrite       = "vehicles.write"
	CapAccommodationsRead  = "accommodations.read"
	CapAccommodationsWrite = "accommodations.write"
	CapDocumentsWrite      = "documents.write"
	CapDocumentsDelete     = "documents.delete"
	CapAlertsRead          = "alerts.read"
)

// AllCapabilities is every key the service checks.
var AllCapabilities = []string{
	CapProjectsRead, CapProjectsWrite,
	CapEmployeesRead, CapEmployeesWrite,
	CapVehiclesRead, CapVehiclesWrite,
	CapAccommodationsRead, CapAccommodationsWrite,
	CapDocumentsWrite, CapDocumentsDelete,
	CapAlertsRead,
}

// CanAccess reports whether user holds capability. Inactive users hold
// nothing; admins hold everything.
func CanAccess(user *types.User, capability string) bool {
	if user == nil || !user.Active {
		return false
	}

	if user.IsAdmin() {
		return true
	}

	return slices.Contains(user.Capabilities, capability)
}

// CanAccessAll reports whether user holds every listed capability.
func CanAccessAll(user *types.User, capabilities ...string) bool {
	for _, c := range capabilities {
		if !CanAccess(user, c) {
			return false
		}
	}
	return true
}
