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

var documentTableColumns = utils.StructTagValues(types.Document{})

// DocumentRepository reads and writes one kind's document table. The four
// tables share a shape and differ only in name and parent column.
type DocumentRepository struct {
	pool *pgxpool.Pool
	kind types.DocumentKind
}

func NewDocumentRepository(pool *pgxpool.Pool, kind types.DocumentKind) *DocumentRepository {
	return &DocumentRepository{pool: pool, kind: kind}
}

func (r *DocumentRepository) Kind() types.DocumentKind {
	return r.kind
}

// selectColumns aliases the kind's parent column to parent_id for scanning.
func documentSelectColumns(kind types.DocumentKind) []string {
	out := make([]string, len(documentTableColumns))
	for i, c := range documentTableColumns {
		if c == "parent_id" {
			c = fmt.Sprintf("%s AS parent_id", kind.ParentColumn)
		}
		out[i] = c
	}
	return out
}

func documentInsertMap(kind types.DocumentKind, doc *types.Document) map[string]any {
	m := utils.StructToMap(doc)
	m[kind.ParentColumn] = m["parent_id"]
	delete(m, "parent_id")
	return m
}

func documentPatchMap(patch types.DocumentPatch) map[string]any {
	m := make(map[string]any)
	if patch.Description.Set {
		m["description"] = patch.Description.Value
	}
	if patch.ExpiresAt.Set {
		m["expires_at"] = patch.ExpiresAt.Value
	}
	if patch.FileName != nil {
		m["file_name"] = *patch.FileName
	}
	if patch.FileURL != nil {
		m["file_url"] = *patch.FileURL
	}
	if patch.UploadedAt != nil {
		m["uploaded_at"] = *patch.UploadedAt
	}
	return m
}

// Document retrieves a single document by ID
func (r *DocumentRepository) Document(ctx context.Context, id string) (*types.Document, error) {
	query, args, err := psql().
		Select(documentSelectColumns(r.kind)...).
		From(r.kind.Table).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate document query: %w", err)
	}

	var doc = new(types.Document)
	err = pgxscan.Get(ctx, r.pool, doc, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to fetch %s document: %w", r.kind.Name, err)
	}

	return doc, nil
}

// DocumentsByParentID retrieves all documents of a parent record, newest first
func (r *DocumentRepository) DocumentsByParentID(ctx context.Context, parentID string) ([]*types.Document, error) {
	query, args, err := psql().
		Select(documentSelectColumns(r.kind)...).
		From(r.kind.Table).
		Where(sq.Eq{r.kind.ParentColumn: parentID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate documents query: %w", err)
	}

	docs := make([]*types.Document, 0)
	err = pgxscan.Select(ctx, r.pool, &docs, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s documents: %w", r.kind.Name, err)
	}

	return docs, nil
}

// ExpiringDocuments returns documents with an expiry on or before the given
// time, soonest first.
func (r *DocumentRepository) ExpiringDocuments(ctx context.Context, before time.Time) ([]*types.Document, error) {
	query, args, err := psql().
		Select(documentSelectColumns(r.kind)...).
		From(r.kind.Table).
		Where(sq.NotEq{"expires_at": nil}).
		Where(sq.LtOrEq{"expires_at": before}).
		OrderBy("expires_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate expiring documents query: %w", err)
	}

	docs := make([]*types.Document, 0)
	err = pgxscan.Select(ctx, r.pool, &docs, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch expiring %s documents: %w", r.kind.Name, err)
	}

	return docs, nil
}

// CreateDocument inserts a new document record, assigning its ID
func (r *DocumentRepository) CreateDocument(ctx context.Context, doc *types.Document) error {
	doc.ID = utils.NanoID()
	doc.CreatedAt = time.Now()

	query, args, err := psql().
		Insert(r.kind.Table).
		SetMap(documentInsertMap(r.kind, doc)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert document query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create document")
}

// UpdateDocument writes only the fields set on patch. An empty patch does not
// touch the database.
func (r *DocumentRepository) UpdateDocument(ctx context.Context, id string, patch types.DocumentPatch) error {
	if patch.IsEmpty() {
		return nil
	}

	query, args, err := psql().
		Update(r.kind.Table).
		SetMap(documentPatchMap(patch)).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update document query for document %s: %w", id, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrDocumentNotFound
	}

	return nil
}

// DeleteDocument removes a document record
func (r *DocumentRepository) DeleteDocument(ctx context.Context, id string) error {
	query, args, err := psql().
		Delete(r.kind.Table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete document query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrDocumentNotFound
	}

	return nil
}
