package store

import (
	"construtora/internal/utils"
	"construtora/pkg/types"
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

type HistoryRepository struct {
	pool *pgxpool.Pool
	kind types.DocumentKind
}

func NewHistoryRepository(pool *pgxpool.Pool, kind types.DocumentKind) *HistoryRepository {
	return &HistoryRepository{pool: pool, kind: kind}
}

// RecordEvent appends to the parent's history (allows duplicates)
func (r *HistoryRepository) RecordEvent(ctx context.Context, entry *types.HistoryEntry) error {
	entry.ID = utils.NanoID()
	entry.CreatedAt = time.Now()

	query, args, err := psql().
		Insert(r.kind.HistoryTable).
		Columns("id", r.kind.ParentColumn, "event", "document_id", "detail", "user_id", "created_at").
		Values(entry.ID, entry.ParentID, entry.Event, entry.DocumentID, entry.Detail, entry.UserID, entry.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert history event query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to record history event")
}

// EventsByParent returns a parent's history, oldest first
func (r *HistoryRepository) EventsByParent(ctx context.Context, parentID string) ([]*types.HistoryEntry, error) {
	query, args, err := psql().
		Select("id", r.kind.ParentColumn+" AS parent_id", "event", "document_id", "detail", "user_id", "created_at").
		From(r.kind.HistoryTable).
		Where(sq.Eq{r.kind.ParentColumn: parentID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate history query: %w", err)
	}

	var events []*types.HistoryEntry
	err = pgxscan.Select(ctx, r.pool, &events, query, args...)
	if err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to get history events")
	}

	return events, nil
}
