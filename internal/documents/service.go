// Package documents implements the attach/replace/delete lifecycle shared by
// every record kind that owns files. One Service serves one DocumentKind.
package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"construtora/internal/metrics"
	"construtora/internal/storage"
	"construtora/internal/utils"
	"construtora/pkg/types"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var (
	ErrMissingParent        = errors.New("parent id is required")
	ErrContractsUnsupported = errors.New("record kind does not hold contracts")
)

// Store is the row side of a document kind.
type Store interface {
	Document(ctx context.Context, id string) (*types.Document, error)
	DocumentsByParentID(ctx context.Context, parentID string) ([]*types.Document, error)
	ExpiringDocuments(ctx context.Context, before time.Time) ([]*types.Document, error)
	CreateDocument(ctx context.Context, doc *types.Document) error
	UpdateDocument(ctx context.Context, id string, patch types.DocumentPatch) error
	DeleteDocument(ctx context.Context, id string) error
}

// History is the audit trail of a document kind's parents.
type History interface {
	RecordEvent(ctx context.Context, entry *types.HistoryEntry) error
	EventsByParent(ctx context.Context, parentID string) ([]*types.HistoryEntry, error)
}

// File is an uploaded payload. ContentType may be empty; it is then guessed
// from the extension.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UpsertInput describes one document slot submission. ExpiresAt and
// Description are tri-state: unset leaves the stored value alone.
type UpsertInput struct {
	ParentID    string
	Type        string
	File        *File
	ExpiresAt   types.Optional[time.Time]
	Description types.Optional[string]
	ExistingID  string
}

type ContractInput struct {
	ParentID    string
	ValueCents  int64
	ExpiresAt   *time.Time
	Description *string
	File        *File
}

type Service struct {
	logger  *logrus.Logger
	kind    types.DocumentKind
	store   Store
	history History
	blobs   storage.BlobStore

	now    func() time.Time
	newKey func() string
}

func NewService(logger *logrus.Logger, kind types.DocumentKind, store Store, history History, blobs storage.BlobStore) *Service {
	return &Service{
		logger:  logger,
		kind:    kind,
		store:   store,
		history: history,
		blobs:   blobs,
		now:     time.Now,
		newKey:  uuid.NewString,
	}
}

func (s *Service) Kind() types.DocumentKind {
	return s.kind
}

type uploaded struct {
	name string
	url  string
	at   time.Time
}

// upload stores f at {parentID}/{docType}/{random}{ext} and resolves its
// public URL. The random component keeps parents and types apart and the
// extension keeps content type inference working downstream.
func (s *Service) upload(ctx context.Context, parentID, docType string, f *File) (*uploaded, error) {
	ext := strings.ToLower(filepath.Ext(f.Name))
	path := fmt.Sprintf("%s/%s/%s%s", parentID, docType, s.newKey(), ext)

	contentType := f.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(ext)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := s.blobs.Upload(ctx, s.kind.Bucket, path, f.Body, f.Size, contentType); err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", f.Name, err)
	}

	return &uploaded{
		name: f.Name,
		url:  s.blobs.PublicURL(s.kind.Bucket, path),
		at:   s.now(),
	}, nil
}

// Upsert saves one document slot and returns the affected document id.
//
// With ExistingID the row is patched in place with only the supplied fields
// (a replacement file is uploaded first). Without it a file is required and a
// new row is inserted; with neither there is nothing to do and "" is returned.
// Contracts never replace: a new file for an existing contract becomes a new
// row so earlier versions stay on record.
func (s *Service) Upsert(ctx context.Context, in UpsertInput) (id string, err error) {
	defer func() {
		metrics.DocumentOperations.WithLabelValues(s.kind.Name, "upsert", metrics.Result(err)).Inc()
	}()

	if strings.TrimSpace(in.ParentID) == "" {
		return "", ErrMissingParent
	}

	docType, known := s.kind.NormalizeType(in.Type)

	if in.ExistingID != "" && !(in.File != nil && docType == types.DocTypeContract) {
		if err := s.update(ctx, in, docType); err != nil {
			return "", err
		}
		return in.ExistingID, nil
	}

	if in.File == nil {
		return "", nil
	}

	description := in.Description
	if !known && !description.Set && strings.TrimSpace(in.Type) != "" {
		// keep what the user called it
		description = types.Some(strings.TrimSpace(in.Type))
	}

	up, err := s.upload(ctx, in.ParentID, docType, in.File)
	if err != nil {
		return "", err
	}

	doc := &types.Document{
		ParentID:    in.ParentID,
		Type:        docType,
		Description: description.Value,
		FileName:    &up.name,
		FileURL:     &up.url,
		UploadedAt:  &up.at,
		ExpiresAt:   in.ExpiresAt.Value,
	}

	if err := s.store.CreateDocument(ctx, doc); err != nil {
		return "", fmt.Errorf("failed to save %s document: %w", s.kind.Name, err)
	}

	s.record(ctx, in.ParentID, types.HistoryDocumentCreated, doc.ID, docType)

	return doc.ID, nil
}

func (s *Service) update(ctx context.Context, in UpsertInput, docType string) error {
	// checked before any upload so a rejected call leaves no blob behind
	current, err := s.store.Document(ctx, in.ExistingID)
	if err != nil {
		return fmt.Errorf("failed to fetch %s document %s: %w", s.kind.Name, in.ExistingID, err)
	}
	if current.ParentID != in.ParentID {
		return fmt.Errorf("%s document %s does not belong to %s: %w", s.kind.Name, in.ExistingID, in.ParentID, types.ErrDocumentNotFound)
	}

	patch := types.DocumentPatch{
		ExpiresAt:   in.ExpiresAt,
		Description: in.Description,
	}

	if in.File != nil {
		up, err := s.upload(ctx, in.ParentID, docType, in.File)
		if err != nil {
			return err
		}
		patch.FileName = &up.name
		patch.FileURL = &up.url
		patch.UploadedAt = &up.at
	}

	if patch.IsEmpty() {
		return nil
	}

	if err := s.store.UpdateDocument(ctx, in.ExistingID, patch); err != nil {
		return fmt.Errorf("failed to update %s document %s: %w", s.kind.Name, in.ExistingID, err)
	}

	s.record(ctx, in.ParentID, types.HistoryDocumentUpdated, in.ExistingID, docType)

	return nil
}

// SaveAll saves independent slots of one submission concurrently. Each slot
// still uploads before it writes its row. All slots run to completion; the
// first error is returned and ids of failed slots are left empty.
func (s *Service) SaveAll(ctx context.Context, inputs []UpsertInput) ([]string, error) {
	ids := make([]string, len(inputs))

	var g errgroup.Group
	for i, in := range inputs {
		g.Go(func() error {
			id, err := s.Upsert(ctx, in)
			if err != nil {
				return err
			}
			ids[i] = id
			return nil
		})
	}

	return ids, g.Wait()
}

// AddContract appends a contract to a parent. The file is optional; without
// one the row is a placeholder carrying value and dates only.
func (s *Service) AddContract(ctx context.Context, in ContractInput) (id string, err error) {
	defer func() {
		metrics.DocumentOperations.WithLabelValues(s.kind.Name, "contract", metrics.Result(err)).Inc()
	}()

	if !s.kind.AcceptsContracts() {
		return "", ErrContractsUnsupported
	}
	if strings.TrimSpace(in.ParentID) == "" {
		return "", ErrMissingParent
	}

	value := in.ValueCents
	doc := &types.Document{
		ParentID:    in.ParentID,
		Type:        types.DocTypeContract,
		Description: in.Description,
		ExpiresAt:   in.ExpiresAt,
		ValueCents:  &value,
	}

	if in.File != nil {
		up, err := s.upload(ctx, in.ParentID, types.DocTypeContract, in.File)
		if err != nil {
			return "", err
		}
		doc.FileName = &up.name
		doc.FileURL = &up.url
		doc.UploadedAt = &up.at
	}

	if err := s.store.CreateDocument(ctx, doc); err != nil {
		return "", fmt.Errorf("failed to save contract: %w", err)
	}

	s.record(ctx, in.ParentID, types.HistoryDocumentCreated, doc.ID, types.DocTypeContract)

	return doc.ID, nil
}

// Delete removes a document row and, best effort, its blob.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.delete(ctx, "", id)
}

// DeleteOwned is Delete restricted to documents of parentID.
func (s *Service) DeleteOwned(ctx context.Context, parentID, id string) error {
	return s.delete(ctx, parentID, id)
}

func (s *Service) delete(ctx context.Context, parentID, id string) (err error) {
	defer func() {
		metrics.DocumentOperations.WithLabelValues(s.kind.Name, "delete", metrics.Result(err)).Inc()
	}()

	doc, err := s.store.Document(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load %s document %s: %w", s.kind.Name, id, err)
	}

	if parentID != "" && doc.ParentID != parentID {
		return types.ErrDocumentNotFound
	}

	// The row decides whether a document exists. A blob left behind is
	// tolerable, a row pointing at a missing blob is not, so blob trouble
	// never stops the row delete.
	s.removeBlob(ctx, doc)

	if err := s.store.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("failed to delete %s document %s: %w", s.kind.Name, id, err)
	}

	s.record(ctx, doc.ParentID, types.HistoryDocumentDeleted, id, doc.Type)

	return nil
}

func (s *Service) removeBlob(ctx context.Context, doc *types.Document) {
	fileURL := utils.PtrString(doc.FileURL)
	if fileURL == "" {
		return
	}

	entry := s.logger.WithFields(logrus.Fields{
		"kind":        s.kind.Name,
		"document_id": doc.ID,
		"file_url":    fileURL,
	})

	path, err := storage.ObjectPath(fileURL, s.kind.Bucket)
	if err != nil {
		entry.WithError(err).Warn("could not derive storage path, leaving blob in place")
		metrics.OrphanedBlobs.WithLabelValues(s.kind.Name).Inc()
		return
	}

	if err := s.blobs.Remove(ctx, s.kind.Bucket, path); err != nil {
		entry.WithError(err).WithField("storage_path", path).Warn("failed to remove blob")
		metrics.OrphanedBlobs.WithLabelValues(s.kind.Name).Inc()
	}
}

// DeleteParent runs deleteRows, which must remove the parent and its
// dependent rows, then removes the parent's blobs best effort. Documents are
// listed before the rows go so their URLs are still known.
func (s *Service) DeleteParent(ctx context.Context, parentID string, deleteRows func(ctx context.Context) error) error {
	docs, err := s.store.DocumentsByParentID(ctx, parentID)
	if err != nil {
		return fmt.Errorf("failed to list %s documents before delete: %w", s.kind.Name, err)
	}

	if err := deleteRows(ctx); err != nil {
		return err
	}

	for _, doc := range docs {
		s.removeBlob(ctx, doc)
	}

	return nil
}

// History returns the audit trail of parentID, oldest first.
func (s *Service) History(ctx context.Context, parentID string) ([]*types.HistoryEntry, error) {
	if s.history == nil {
		return []*types.HistoryEntry{}, nil
	}

	entries, err := s.history.EventsByParent(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s history: %w", s.kind.Name, err)
	}

	return entries, nil
}

func (s *Service) record(ctx context.Context, parentID string, event types.HistoryEvent, documentID, detail string) {
	if s.history == nil {
		return
	}

	entry := &types.HistoryEntry{
		ParentID:   parentID,
		Event:      event,
		DocumentID: &documentID,
		Detail:     &detail,
	}
	if actor := ActorFromContext(ctx); actor != "" {
		entry.UserID = &actor
	}

	if err := s.history.RecordEvent(ctx, entry); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"kind":        s.kind.Name,
			"parent_id":   parentID,
			"document_id": documentID,
			"event":       event,
		}).Warn("failed to record document history")
	}
}
