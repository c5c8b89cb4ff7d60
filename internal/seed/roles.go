package seed

import (
	"context"
	"fmt"
	"io"

	"construtora/internal/auth"
	"construtora/pkg/types"
)

type RoleStore interface {
	Roles(ctx context.Context) ([]*types.Role, error)
	UpsertRole(ctx context.Context, role *types.Role) error
	DeleteRole(ctx context.Context, id string) error
}

// Roles is the role catalog. Role ids are stable slugs; users.role_id points
// at them and "admin" is recognised by the authorization checks.
//
// To add or change a role: edit the list and run `construtora seed`.
// Roles removed from the list are deleted from the database.
var Roles = []types.Role{
	{
		ID:           types.RoleAdmin,
		Name:         "Administrador",
		Capabilities: auth.AllCapabilities,
	},
	{
		ID:   "engenharia",
		Name: "Engenharia",
		Capabilities: []string{
			auth.CapProjectsRead, auth.CapProjectsWrite,
			auth.CapEmployeesRead,
			auth.CapVehiclesRead,
			auth.CapAccommodationsRead,
			auth.CapDocumentsWrite,
			auth.CapAlertsRead,
		},
	},
	{
		ID:   "rh",
		Name: "Recursos Humanos",
		Capabilities: []string{
			auth.CapEmployeesRead, auth.CapEmployeesWrite,
			auth.CapAccommodationsRead, auth.CapAccommodationsWrite,
			auth.CapProjectsRead,
			auth.CapDocumentsWrite, auth.CapDocumentsDelete,
			auth.CapAlertsRead,
		},
	},
	{
		ID:   "frota",
		Name: "Frota",
		Capabilities: []string{
			auth.CapVehiclesRead, auth.CapVehiclesWrite,
			auth.CapProjectsRead,
			auth.CapDocumentsWrite, auth.CapDocumentsDelete,
			auth.CapAlertsRead,
		},
	},
	{
		ID:   "financeiro",
		Name: "Financeiro",
		Capabilities: []string{
			auth.CapProjectsRead,
			auth.CapAccommodationsRead,
			auth.CapVehiclesRead,
		},
	},
	{
		ID:   "leitura",
		Name: "Somente leitura",
		Capabilities: []string{
			auth.CapProjectsRead,
			auth.CapEmployeesRead,
			auth.CapVehiclesRead,
			auth.CapAccommodationsRead,
			auth.CapAlertsRead,
		},
	},
}

// SeedRoles syncs the roles table with Roles: missing roles are inserted,
// changed ones updated and unknown ones deleted.
func SeedRoles(ctx context.Context, repo RoleStore, out io.Writer) error {
	fmt.Fprintln(out, "Starting role sync...")
	fmt.Fprintf(out, "  Seed contains %d roles\n", len(Roles))

	seedIDs := make(map[string]bool, len(Roles))
	for _, role := range Roles {
		seedIDs[role.ID] = true
	}

	existing, err := repo.Roles(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch existing roles: %w", err)
	}
	fmt.Fprintf(out, "  Database contains %d roles\n", len(existing))

	deleted := 0
	for _, role := range existing {
		if seedIDs[role.ID] {
			continue
		}
		fmt.Fprintf(out, "  Deleting role: %s (id: %s)\n", role.Name, role.ID)
		if err := repo.DeleteRole(ctx, role.ID); err != nil {
			return fmt.Errorf("failed to delete role %s: %w", role.ID, err)
		}
		deleted++
	}

	upserted := 0
	for _, role := range Roles {
		fmt.Fprintf(out, "  Upserting role: %s (id: %s)\n", role.Name, role.ID)
		if err := repo.UpsertRole(ctx, &role); err != nil {
			return fmt.Errorf("failed to upsert role %s: %w", role.ID, err)
		}
		upserted++
	}

	fmt.Fprintf(out, "\nSync complete: %d upserted, %d deleted\n", upserted, deleted)
	return nil
}
