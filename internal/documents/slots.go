package documents

import (
	"context"
	"fmt"
	"slices"
	"time"

	"construtora/internal/utils"
	"construtora/pkg/types"
)

// newView attaches the computed alert status and, for contracts, the value
// formatted in reais.
func newView(doc *types.Document, now time.Time) types.DocumentView {
	view := types.DocumentView{Document: doc, Status: utils.AlertStatusFor(doc.ExpiresAt, now)}
	if doc.ValueCents != nil {
		view.ValueDisplay = utils.FormatBRL(*doc.ValueCents)
	}
	return view
}

// Documents lists every document of parentID with its alert status.
func (s *Service) Documents(ctx context.Context, parentID string) ([]types.DocumentView, error) {
	docs, err := s.store.DocumentsByParentID(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s documents: %w", s.kind.Name, err)
	}

	now := s.now()
	views := make([]types.DocumentView, 0, len(docs))
	for _, doc := range docs {
		views = append(views, newView(doc, now))
	}

	return views, nil
}

// Slots lists the documents of parentID grouped the way forms show them.
func (s *Service) Slots(ctx context.Context, parentID string) (types.DocumentSlots, error) {
	docs, err := s.store.DocumentsByParentID(ctx, parentID)
	if err != nil {
		return types.DocumentSlots{}, fmt.Errorf("failed to list %s documents: %w", s.kind.Name, err)
	}

	return GroupSlots(s.kind, docs, s.now()), nil
}

// GroupSlots keeps the newest document of each fixed type and lists
// accumulating types oldest first.
func GroupSlots(kind types.DocumentKind, docs []*types.Document, now time.Time) types.DocumentSlots {
	slots := types.DocumentSlots{
		Fixed:  make(map[string]types.DocumentView),
		Listed: make(map[string][]types.DocumentView),
	}

	for _, doc := range docs {
		view := newView(doc, now)

		if kind.IsAccumulating(doc.Type) {
			slots.Listed[doc.Type] = append(slots.Listed[doc.Type], view)
			continue
		}

		current, ok := slots.Fixed[doc.Type]
		if !ok || doc.CreatedAt.After(current.CreatedAt) {
			slots.Fixed[doc.Type] = view
		}
	}

	for t, views := range slots.Listed {
		slices.SortStableFunc(views, func(a, b types.DocumentView) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		})
		slots.Listed[t] = views
	}

	return slots
}

// Expiring lists documents of this kind expiring within days of today,
// already expired ones included.
func (s *Service) Expiring(ctx context.Context, days int) ([]types.ExpiringDocument, error) {
	now := s.now()
	// expiry dates are stored as UTC calendar dates, so the cutoff is the end
	// of the last day in UTC, counted from today's local date
	y, m, d := now.Date()
	before := time.Date(y, m, d+days+1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)

	docs, err := s.store.ExpiringDocuments(ctx, before)
	if err != nil {
		return nil, fmt.Errorf("failed to list expiring %s documents: %w", s.kind.Name, err)
	}

	out := make([]types.ExpiringDocument, 0, len(docs))
	for _, doc := range docs {
		out = append(out, types.ExpiringDocument{
			Kind:         s.kind.Name,
			DocumentView: newView(doc, now),
		})
	}

	return out, nil
}
