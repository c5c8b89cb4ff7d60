package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"construtora/internal/storage"
	"construtora/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

var testNow = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

type memStore struct {
	mu      sync.Mutex
	seq     int
	docs    map[string]*types.Document
	creates int
	updates int

	createErr error
	deleteErr error
	listErr   error
}

func newMemStore() *memStore {
	return &memStore{docs: make(map[string]*types.Document)}
}

func (m *memStore) put(doc *types.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[doc.ID] = doc
}

func (m *memStore) get(id string) (*types.Document, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	return doc, ok
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.docs)
}

func (m *memStore) Document(_ context.Context, id string) (*types.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok {
		return nil, types.ErrDocumentNotFound
	}
	cp := *doc
	return &cp, nil
}

func (m *memStore) DocumentsByParentID(_ context.Context, parentID string) ([]*types.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*types.Document
	for _, doc := range m.docs {
		if doc.ParentID == parentID {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (m *memStore) ExpiringDocuments(_ context.Context, before time.Time) ([]*types.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*types.Document
	for _, doc := range m.docs {
		if doc.ExpiresAt != nil && !doc.ExpiresAt.After(before) {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (m *memStore) CreateDocument(_ context.Context, doc *types.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.seq++
	m.creates++
	doc.ID = fmt.Sprintf("doc-%d", m.seq)
	doc.CreatedAt = testNow.Add(time.Duration(m.seq) * time.Second)
	m.docs[doc.ID] = doc
	return nil
}

func (m *memStore) UpdateDocument(_ context.Context, id string, patch types.DocumentPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates++
	doc, ok := m.docs[id]
	if !ok {
		return types.ErrDocumentNotFound
	}
	if patch.Description.Set {
		doc.Description = patch.Description.Value
	}
	if patch.ExpiresAt.Set {
		doc.ExpiresAt = patch.ExpiresAt.Value
	}
	if patch.FileName != nil {
		doc.FileName = patch.FileName
	}
	if patch.FileURL != nil {
		doc.FileURL = patch.FileURL
	}
	if patch.UploadedAt != nil {
		doc.UploadedAt = patch.UploadedAt
	}
	return nil
}

func (m *memStore) DeleteDocument(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.docs[id]; !ok {
		return types.ErrDocumentNotFound
	}
	delete(m.docs, id)
	return nil
}

const testPublicBase = "https://proj.supabase.co/storage/v1/object/public"

type memBlobs struct {
	mu      sync.Mutex
	objects map[string]string
	uploads []string
	removes []string

	failName  string
	removeErr error
}

func newMemBlobs() *memBlobs {
	return &memBlobs{objects: make(map[string]string)}
}

func (b *memBlobs) Upload(_ context.Context, bucket, path string, body io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failName != "" && strings.Contains(string(data), b.failName) {
		return errors.New("storage unavailable")
	}
	key := bucket + "/" + path
	if _, ok := b.objects[key]; ok {
		return storage.ErrObjectExists
	}
	b.objects[key] = string(data)
	b.uploads = append(b.uploads, path)
	return nil
}

func (b *memBlobs) PublicURL(bucket, path string) string {
	return testPublicBase + "/" + bucket + "/" + path
}

func (b *memBlobs) Remove(_ context.Context, bucket, path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.removeErr != nil {
		return b.removeErr
	}
	delete(b.objects, bucket+"/"+path)
	b.removes = append(b.removes, path)
	return nil
}

type memHistory struct {
	mu      sync.Mutex
	entries []*types.HistoryEntry
	err     error
}

func (h *memHistory) RecordEvent(_ context.Context, entry *types.HistoryEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return h.err
	}
	h.entries = append(h.entries, entry)
	return nil
}

func (h *memHistory) EventsByParent(_ context.Context, parentID string) ([]*types.HistoryEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []*types.HistoryEntry
	for _, e := range h.entries {
		if e.ParentID == parentID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fixture struct {
	svc     *Service
	store   *memStore
	blobs   *memBlobs
	history *memHistory
	hook    *test.Hook
}

func newFixture(t *testing.T, kind types.DocumentKind) *fixture {
	t.Helper()

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	f := &fixture{
		store:   newMemStore(),
		blobs:   newMemBlobs(),
		history: &memHistory{},
		hook:    hook,
	}
	f.svc = NewService(logger, kind, f.store, f.history, f.blobs)
	f.svc.now = func() time.Time { return testNow }

	var mu sync.Mutex
	n := 0
	f.svc.newKey = func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("key-%d", n)
	}

	return f
}

func file(name, content string) *File {
	return &File{Name: name, Size: int64(len(content)), Body: strings.NewReader(content)}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
