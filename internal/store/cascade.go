package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"construtora/pkg/types"
)

// dependent is a table referencing a parent row. The schema has no ON DELETE
// CASCADE, so these are cleared by hand before the parent goes.
type dependent struct {
	table   string
	column  string
	nullify bool
}

type statement struct {
	query string
	args  []any
}

// ownedBy lists the document and history tables of a kind; both die with the
// parent.
func ownedBy(kind types.DocumentKind) []dependent {
	return []dependent{
		{table: kind.Table, column: kind.ParentColumn},
		{table: kind.HistoryTable, column: kind.ParentColumn},
	}
}

func cascadeStatements(parentTable, id string, deps []dependent) ([]statement, error) {
	stmts := make([]statement, 0, len(deps)+1)

	for _, d := range deps {
		var (
			query string
			args  []any
			err   error
		)
		if d.nullify {
			query, args, err = psql().Update(d.table).Set(d.column, nil).Where(sq.Eq{d.column: id}).ToSql()
		} else {
			query, args, err = psql().Delete(d.table).Where(sq.Eq{d.column: id}).ToSql()
		}
		if err != nil {
			return nil, fmt.Errorf("failed to generate cascade query for %s: %w", d.table, err)
		}
		stmts = append(stmts, statement{query: query, args: args})
	}

	query, args, err := psql().Delete(parentTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate delete query for %s: %w", parentTable, err)
	}

	return append(stmts, statement{query: query, args: args}), nil
}

// deleteCascade clears dependents and deletes the parent in one transaction.
// It returns notFound when the parent row did not exist.
func deleteCascade(ctx context.Context, pool *pgxpool.Pool, parentTable, id string, deps []dependent, notFound error) error {
	stmts, err := cascadeStatements(parentTable, id, deps)
	if err != nil {
		return err
	}

	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var affected int64
	for _, s := range stmts {
		tag, err := tx.Exec(ctx, s.query, s.args...)
		if err != nil {
			return fmt.Errorf("failed to execute %q: %w", s.query, err)
		}
		affected = tag.RowsAffected()
	}

	// the last statement deletes the parent
	if affected == 0 {
		return notFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit delete of %s %s: %w", parentTable, id, err)
	}

	return nil
}
