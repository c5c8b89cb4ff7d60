package documents

import (
	"context"
	"slices"

	"construtora/pkg/types"

	"golang.org/x/sync/errgroup"
)

// Registry holds one Service per document kind.
type Registry struct {
	services []*Service
}

func NewRegistry(services ...*Service) *Registry {
	return &Registry{services: services}
}

func (r *Registry) Services() []*Service {
	return r.services
}

// ForRoute returns the service whose kind is mounted under route.
func (r *Registry) ForRoute(route string) (*Service, bool) {
	for _, s := range r.services {
		if s.kind.Route == route {
			return s, true
		}
	}
	return nil, false
}

// Expiring collects expiring documents of every kind, soonest first.
func (r *Registry) Expiring(ctx context.Context, days int) ([]types.ExpiringDocument, error) {
	results := make([][]types.ExpiringDocument, len(r.services))

	g, ctx := errgroup.WithContext(ctx)
	for i, s := range r.services {
		g.Go(func() error {
			docs, err := s.Expiring(ctx, days)
			if err != nil {
				return err
			}
			results[i] = docs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := slices.Concat(results...)
	slices.SortStableFunc(out, func(a, b types.ExpiringDocument) int {
		return a.ExpiresAt.Compare(*b.ExpiresAt)
	})

	return out, nil
}
