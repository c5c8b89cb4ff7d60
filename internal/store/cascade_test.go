package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"construtora/pkg/types"
)

func TestCascadeStatementsOrder(t *testing.T) {
	stmts, err := cascadeStatements("projects", "p1", projectDependents)
	require.NoError(t, err)
	require.Len(t, stmts, len(projectDependents)+1)

	assert.Equal(t, "DELETE FROM project_documents WHERE project_id = $1", stmts[0].query)
	assert.Equal(t, "DELETE FROM project_history WHERE project_id = $1", stmts[1].query)
	assert.Equal(t, "UPDATE invoices SET project_id = $1 WHERE project_id = $2", stmts[2].query)
	assert.Equal(t, []any{nil, "p1"}, stmts[2].args)

	last := stmts[len(stmts)-1]
	assert.Equal(t, "DELETE FROM projects WHERE id = $1", last.query)
	assert.Equal(t, []any{"p1"}, last.args)
}

func TestEveryKindCascadesItsDocuments(t *testing.T) {
	deps := map[string][]dependent{
		types.ProjectDocuments.Table:       projectDependents,
		types.EmployeeDocuments.Table:      employeeDependents,
		types.VehicleDocuments.Table:       vehicleDependents,
		types.AccommodationDocuments.Table: accommodationDependents,
	}

	for _, kind := range types.DocumentKinds {
		list := deps[kind.Table]
		require.NotEmpty(t, list, kind.Name)

		var docs, history bool
		for _, d := range list {
			if d.table == kind.Table && !d.nullify {
				docs = true
			}
			if d.table == kind.HistoryTable && !d.nullify {
				history = true
			}
		}
		assert.True(t, docs, "%s documents not cascaded", kind.Name)
		assert.True(t, history, "%s history not cascaded", kind.Name)
	}
}

func TestBuildUpdateClauseSorted(t *testing.T) {
	clause := buildUpdateClause(map[string]any{"updated_at": 1, "capabilities": 2, "name": 3})
	assert.Equal(t, "capabilities = EXCLUDED.capabilities, name = EXCLUDED.name, updated_at = EXCLUDED.updated_at", clause)
	assert.False(t, strings.HasSuffix(clause, ", "))
}
