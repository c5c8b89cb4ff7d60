package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"construtora/internal/documents"
	"construtora/internal/storage"
	"construtora/pkg/types"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

type stubUsers struct {
	users map[string]*types.User
}

func (s *stubUsers) User(_ context.Context, userID string) (*types.User, error) {
	u, ok := s.users[userID]
	if !ok {
		return nil, types.ErrUserNotFound
	}
	return u, nil
}

func (s *stubUsers) UpsertIdentity(_ context.Context, userID, email, _, _ string) error {
	s.users[userID] = &types.User{ID: userID, Email: &email, Active: true}
	return nil
}

type stubProjects struct {
	mu       sync.Mutex
	projects map[string]*types.Project
	deleted  []string
}

func (s *stubProjects) Project(_ context.Context, id string) (*types.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, types.ErrProjectNotFound
	}
	return p, nil
}

func (s *stubProjects) Projects(_ context.Context, status types.ProjectStatus) ([]*types.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*types.Project, 0)
	for _, p := range s.projects {
		if status == "" || p.Status == status {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubProjects) CreateProject(_ context.Context, p *types.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = fmt.Sprintf("proj-%d", len(s.projects)+1)
	if p.Status == "" {
		p.Status = types.ProjectStatusPlanning
	}
	s.projects[p.ID] = p
	return nil
}

func (s *stubProjects) UpdateProject(_ context.Context, id string, p *types.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return types.ErrProjectNotFound
	}
	p.ID = id
	s.projects[id] = p
	return nil
}

func (s *stubProjects) DeleteProject(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return types.ErrProjectNotFound
	}
	delete(s.projects, id)
	s.deleted = append(s.deleted, id)
	return nil
}

type stubEmployees struct{}

func (stubEmployees) Employee(_ context.Context, id string) (*types.Employee, error) {
	if id == "E1" {
		return &types.Employee{ID: id, Name: "João", Active: true}, nil
	}
	return nil, types.ErrEmployeeNotFound
}
func (stubEmployees) Employees(context.Context, string) ([]*types.Employee, error) {
	return []*types.Employee{}, nil
}
func (stubEmployees) CreateEmployee(_ context.Context, e *types.Employee) error {
	e.ID = "E2"
	return nil
}
func (stubEmployees) UpdateEmployee(context.Context, string, *types.Employee) error { return nil }
func (stubEmployees) DeleteEmployee(context.Context, string) error                  { return nil }

type stubVehicles struct {
	created []*types.Vehicle
}

func (s *stubVehicles) Vehicle(_ context.Context, id string) (*types.Vehicle, error) {
	return nil, types.ErrVehicleNotFound
}
func (s *stubVehicles) Vehicles(context.Context, string) ([]*types.Vehicle, error) {
	return []*types.Vehicle{}, nil
}
func (s *stubVehicles) CreateVehicle(_ context.Context, v *types.Vehicle) error {
	v.ID = "V1"
	s.created = append(s.created, v)
	return nil
}
func (s *stubVehicles) UpdateVehicle(context.Context, string, *types.Vehicle) error { return nil }
func (s *stubVehicles) DeleteVehicle(context.Context, string) error                 { return types.ErrVehicleNotFound }

type stubAccommodations struct{}

func (stubAccommodations) Accommodation(context.Context, string) (*types.Accommodation, error) {
	return nil, types.ErrAccommodationNotFound
}
func (stubAccommodations) Accommodations(context.Context, string) ([]*types.Accommodation, error) {
	return []*types.Accommodation{}, nil
}
func (stubAccommodations) CreateAccommodation(_ context.Context, a *types.Accommodation) error {
	a.ID = "A1"
	return nil
}
func (stubAccommodations) UpdateAccommodation(context.Context, string, *types.Accommodation) error {
	return nil
}
func (stubAccommodations) DeleteAccommodation(context.Context, string) error { return nil }

type memDocStore struct {
	mu   sync.Mutex
	seq  int
	docs map[string]*types.Document
}

func (m *memDocStore) Document(_ context.Context, id string) (*types.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[id]
	if !ok {
		return nil, types.ErrDocumentNotFound
	}
	return d, nil
}

func (m *memDocStore) DocumentsByParentID(_ context.Context, parentID string) ([]*types.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*types.Document
	for _, d := range m.docs {
		if d.ParentID == parentID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memDocStore) ExpiringDocuments(_ context.Context, before time.Time) ([]*types.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*types.Document
	for _, d := range m.docs {
		if d.ExpiresAt != nil && !d.ExpiresAt.After(before) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memDocStore) CreateDocument(_ context.Context, d *types.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	d.ID = fmt.Sprintf("doc-%d", m.seq)
	d.CreatedAt = time.Now()
	m.docs[d.ID] = d
	return nil
}

func (m *memDocStore) UpdateDocument(_ context.Context, id string, p types.DocumentPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[id]
	if !ok {
		return types.ErrDocumentNotFound
	}
	if p.ExpiresAt.Set {
		d.ExpiresAt = p.ExpiresAt.Value
	}
	if p.Description.Set {
		d.Description = p.Description.Value
	}
	if p.FileURL != nil {
		d.FileName, d.FileURL, d.UploadedAt = p.FileName, p.FileURL, p.UploadedAt
	}
	return nil
}

func (m *memDocStore) DeleteDocument(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, id)
	return nil
}

type memBlobs struct {
	mu      sync.Mutex
	objects map[string]string
}

func (b *memBlobs) Upload(_ context.Context, bucket, path string, body io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.objects[bucket+"/"+path]; ok {
		return storage.ErrObjectExists
	}
	b.objects[bucket+"/"+path] = string(data)
	return nil
}

func (b *memBlobs) PublicURL(bucket, path string) string {
	return "https://proj.supabase.co/storage/v1/object/public/" + bucket + "/" + path
}

func (b *memBlobs) Remove(_ context.Context, bucket, path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, bucket+"/"+path)
	return nil
}

type testServer struct {
	svc       *Service
	handler   http.Handler
	projects  *stubProjects
	vehicles  *stubVehicles
	docStores map[string]*memDocStore
	blobs     *memBlobs
	user      *types.User
}

func newTestServer(t *testing.T, user *types.User) *testServer {
	t.Helper()

	logger, _ := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	ts := &testServer{
		projects:  &stubProjects{projects: map[string]*types.Project{"P1": {ID: "P1", Name: "Edifício Aurora", Status: types.ProjectStatusInProgress}}},
		vehicles:  &stubVehicles{},
		docStores: make(map[string]*memDocStore),
		blobs:     &memBlobs{objects: make(map[string]string)},
		user:      user,
	}

	users := &stubUsers{users: map[string]*types.User{}}
	if user != nil {
		users.users[user.ID] = user
	}

	services := make([]*documents.Service, 0, len(types.DocumentKinds))
	for _, kind := range types.DocumentKinds {
		store := &memDocStore{docs: make(map[string]*types.Document)}
		ts.docStores[kind.Name] = store
		services = append(services, documents.NewService(logger, kind, store, nil, ts.blobs))
	}

	svc, err := New(
		&types.Config{ServerPort: 0, MaxUploadMB: 1},
		logger,
		nil,
		users,
		ts.projects,
		stubEmployees{},
		ts.vehicles,
		stubAccommodations{},
		documents.NewRegistry(services...),
		nil,
		"",
		prometheus.NewRegistry(),
	)
	require.NoError(t, err)

	svc.authenticate = func(r *http.Request) (*identity, error) {
		if ts.user == nil {
			return nil, errUnauthenticated
		}
		return &identity{Subject: ts.user.ID}, nil
	}

	ts.svc = svc
	ts.handler = svc.Handler()
	return ts
}

func (ts *testServer) do(r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, r)
	return rec
}

func adminUser() *types.User {
	role := types.RoleAdmin
	return &types.User{ID: "admin-1", RoleID: &role, Active: true}
}
