package seed

import (
	"context"
	"errors"
	"io"
	"testing"

	"construtora/internal/auth"
	"construtora/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRoles struct {
	roles   map[string]*types.Role
	deleted []string
	err     error
}

func (s *stubRoles) Roles(context.Context) ([]*types.Role, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]*types.Role, 0, len(s.roles))
	for _, r := range s.roles {
		out = append(out, r)
	}
	return out, nil
}

func (s *stubRoles) UpsertRole(_ context.Context, role *types.Role) error {
	cp := *role
	s.roles[role.ID] = &cp
	return nil
}

func (s *stubRoles) DeleteRole(_ context.Context, id string) error {
	delete(s.roles, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func TestSeedRoles(t *testing.T) {
	repo := &stubRoles{roles: map[string]*types.Role{
		"estagiario": {ID: "estagiario", Name: "Estagiário"},
		"rh":         {ID: "rh", Name: "RH antigo"},
	}}

	require.NoError(t, SeedRoles(context.Background(), repo, io.Discard))

	assert.Equal(t, []string{"estagiario"}, repo.deleted)
	assert.Len(t, repo.roles, len(Roles))
	assert.Equal(t, "Recursos Humanos", repo.roles["rh"].Name)
	assert.ElementsMatch(t, auth.AllCapabilities, repo.roles[types.RoleAdmin].Capabilities)
}

func TestSeedRolesFetchError(t *testing.T) {
	repo := &stubRoles{roles: map[string]*types.Role{}, err: errors.New("relation roles does not exist")}

	err := SeedRoles(context.Background(), repo, io.Discard)
	require.Error(t, err)
	assert.Empty(t, repo.roles)
}

func TestRoleCapabilitiesAreKnown(t *testing.T) {
	for _, role := range Roles {
		for _, c := range role.Capabilities {
			assert.Contains(t, auth.AllCapabilities, c, "role %s", role.ID)
		}
	}
}
