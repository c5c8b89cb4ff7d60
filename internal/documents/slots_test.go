package documents

import (
	"context"
	"testing"
	"time"

	"construtora/internal/utils"
	"construtora/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupSlots(t *testing.T) {
	docs := []*types.Document{
		{ID: "pgr-new", Type: types.DocTypePGR, CreatedAt: testNow.Add(-time.Hour), ExpiresAt: utils.TimePtr(testNow.AddDate(0, 0, 10))},
		{ID: "pgr-old", Type: types.DocTypePGR, CreatedAt: testNow.Add(-48 * time.Hour)},
		{ID: "c2", Type: types.DocTypeContract, CreatedAt: testNow.Add(-time.Hour)},
		{ID: "c1", Type: types.DocTypeContract, CreatedAt: testNow.Add(-72 * time.Hour)},
		{ID: "o1", Type: types.DocTypeOther, CreatedAt: testNow},
	}

	slots := GroupSlots(types.ProjectDocuments, docs, testNow)

	require.Contains(t, slots.Fixed, types.DocTypePGR)
	assert.Equal(t, "pgr-new", slots.Fixed[types.DocTypePGR].ID)
	assert.Equal(t, types.SeverityWarning, slots.Fixed[types.DocTypePGR].Status.Severity)

	require.Len(t, slots.Listed[types.DocTypeContract], 2)
	assert.Equal(t, "c1", slots.Listed[types.DocTypeContract][0].ID)
	assert.Equal(t, "c2", slots.Listed[types.DocTypeContract][1].ID)
	assert.Len(t, slots.Listed[types.DocTypeOther], 1)
	assert.NotContains(t, slots.Fixed, types.DocTypeOther)
}

func TestDocumentsCarryStatus(t *testing.T) {
	f := newFixture(t, types.EmployeeDocuments)
	f.store.put(&types.Document{ID: "expired", ParentID: "E", Type: types.DocTypeASO, ExpiresAt: utils.TimePtr(date(2025, time.March, 9))})
	f.store.put(&types.Document{ID: "today", ParentID: "E", Type: types.DocTypeNR10, ExpiresAt: utils.TimePtr(date(2025, time.March, 10))})
	f.store.put(&types.Document{ID: "edge", ParentID: "E", Type: types.DocTypeNR18, ExpiresAt: utils.TimePtr(date(2025, time.April, 9))})
	f.store.put(&types.Document{ID: "fine", ParentID: "E", Type: types.DocTypeNR35, ExpiresAt: utils.TimePtr(date(2025, time.April, 10))})
	f.store.put(&types.Document{ID: "none", ParentID: "E", Type: types.DocTypeCTPS})

	views, err := f.svc.Documents(context.Background(), "E")
	require.NoError(t, err)

	got := make(map[string]types.Severity)
	for _, v := range views {
		got[v.ID] = v.Status.Severity
	}

	assert.Equal(t, map[string]types.Severity{
		"expired": types.SeverityExpired,
		"today":   types.SeverityWarning,
		"edge":    types.SeverityWarning,
		"fine":    types.SeverityOK,
		"none":    types.SeverityNeutral,
	}, got)
}

func TestExpiringWindow(t *testing.T) {
	f := newFixture(t, types.VehicleDocuments)
	f.store.put(&types.Document{ID: "past", ParentID: "V", Type: types.DocTypeIPVA, ExpiresAt: utils.TimePtr(date(2025, time.January, 1))})
	f.store.put(&types.Document{ID: "last-day", ParentID: "V", Type: types.DocTypeCRLV, ExpiresAt: utils.TimePtr(time.Date(2025, time.April, 9, 23, 0, 0, 0, time.UTC))})
	f.store.put(&types.Document{ID: "outside", ParentID: "V", Type: types.DocTypeInsurance, ExpiresAt: utils.TimePtr(date(2025, time.April, 10))})

	docs, err := f.svc.Expiring(context.Background(), 30)
	require.NoError(t, err)

	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		assert.Equal(t, "vehicle", d.Kind)
		ids = append(ids, d.ID)
	}
	assert.ElementsMatch(t, []string{"past", "last-day"}, ids)
}

func TestExpiringWindowWestOfUTC(t *testing.T) {
	f := newFixture(t, types.EmployeeDocuments)
	brt := time.FixedZone("BRT", -3*60*60)
	now := time.Date(2025, time.March, 10, 10, 0, 0, 0, brt)
	f.svc.now = func() time.Time { return now }

	f.store.put(&types.Document{ID: "edge", ParentID: "E", Type: types.DocTypeASO, ExpiresAt: utils.TimePtr(date(2025, time.April, 9))})
	f.store.put(&types.Document{ID: "next", ParentID: "E", Type: types.DocTypeNR35, ExpiresAt: utils.TimePtr(date(2025, time.April, 10))})

	docs, err := f.svc.Expiring(context.Background(), utils.AlertWarningDays)
	require.NoError(t, err)

	require.Len(t, docs, 1)
	assert.Equal(t, "edge", docs[0].ID)
	for _, d := range docs {
		assert.True(t, d.Status.IsAlerting(), "%s is listed with status %s", d.ID, d.Status.Severity)
	}
	assert.Equal(t, types.SeverityOK, utils.AlertStatusFor(utils.TimePtr(date(2025, time.April, 10)), now).Severity)
}

func TestRegistryExpiring(t *testing.T) {
	projects := newFixture(t, types.ProjectDocuments)
	vehicles := newFixture(t, types.VehicleDocuments)
	projects.store.put(&types.Document{ID: "p1", ParentID: "P", Type: types.DocTypeART, ExpiresAt: utils.TimePtr(date(2025, time.March, 20))})
	vehicles.store.put(&types.Document{ID: "v1", ParentID: "V", Type: types.DocTypeCRLV, ExpiresAt: utils.TimePtr(date(2025, time.March, 12))})
	vehicles.store.put(&types.Document{ID: "v2", ParentID: "V", Type: types.DocTypeIPVA, ExpiresAt: utils.TimePtr(date(2025, time.March, 30))})

	reg := NewRegistry(projects.svc, vehicles.svc)

	docs, err := reg.Expiring(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "v1", docs[0].ID)
	assert.Equal(t, "p1", docs[1].ID)
	assert.Equal(t, "project", docs[1].Kind)
	assert.Equal(t, "v2", docs[2].ID)

	svc, ok := reg.ForRoute("vehicles")
	require.True(t, ok)
	assert.Equal(t, types.VehicleDocuments.Name, svc.Kind().Name)

	_, ok = reg.ForRoute("tools")
	assert.False(t, ok)
}
