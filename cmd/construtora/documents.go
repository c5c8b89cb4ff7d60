package main

import (
	"construtora/internal/documents"
	"construtora/internal/storage"
	"construtora/internal/store"
	"construtora/pkg/types"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// newRegistry wires one lifecycle service per document kind against the
// shared pool and blob store.
func newRegistry(logger *logrus.Logger, pool *pgxpool.Pool, blobs storage.BlobStore) *documents.Registry {
	services := make([]*documents.Service, 0, len(types.DocumentKinds))
	for _, kind := range types.DocumentKinds {
		services = append(services, documents.NewService(
			logger,
			kind,
			store.NewDocumentRepository(pool, kind),
			store.NewHistoryRepository(pool, kind),
			blobs,
		))
	}
	return documents.NewRegistry(services...)
}
