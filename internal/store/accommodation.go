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

const accommodationTableName = "accommodations"

var accommodationColumns = utils.StructTagValues(types.Accommodation{})

var accommodationDependents = append(ownedBy(types.AccommodationDocuments),
	dependent{table: "employees", column: "accommodation_id", nullify: true},
	dependent{table: "accounts_payable", column: "accommodation_id", nullify: true},
)

type AccommodationRepository struct {
	pool *pgxpool.Pool
}

func NewAccommodationRepository(pool *pgxpool.Pool) *AccommodationRepository {
	return &AccommodationRepository{pool: pool}
}

func (r *AccommodationRepository) Accommodation(ctx context.Context, accommodationID string) (*types.Accommodation, error) {
	query, args, err := psql().Select(accommodationColumns...).From(accommodationTableName).
		Where(sq.Eq{"id": accommodationID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate accommodation query: %w", err)
	}

	var accommodation = new(types.Accommodation)
	err = pgxscan.Get(ctx, r.pool, accommodation, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrAccommodationNotFound
		}
		return nil, fmt.Errorf("failed to fetch accommodation: %w", err)
	}

	return accommodation, nil
}

func (r *AccommodationRepository) Accommodations(ctx context.Context, projectID string) ([]*types.Accommodation, error) {
	builder := psql().Select(accommodationColumns...).From(accommodationTableName).OrderBy("name ASC")
	if projectID != "" {
		builder = builder.Where(sq.Eq{"project_id": projectID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate accommodations query: %w", err)
	}

	accommodations := make([]*types.Accommodation, 0)
	err = pgxscan.Select(ctx, r.pool, &accommodations, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accommodations: %w", err)
	}

	return accommodations, nil
}

func (r *AccommodationRepository) CreateAccommodation(ctx context.Context, accommodation *types.Accommodation) error {
	now := time.Now()
	accommodation.ID = utils.NanoID()
	accommodation.CreatedAt = now
	accommodation.UpdatedAt = now

	query, args, err := psql().Insert(accommodationTableName).SetMap(utils.StructToMap(accommodation)).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert accommodation query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create accommodation")
}

func (r *AccommodationRepository) UpdateAccommodation(ctx context.Context, accommodationID string, accommodation *types.Accommodation) error {
	accommodation.ID = accommodationID
	accommodation.UpdatedAt = time.Now()

	accommodationMap := utils.StructToMap(accommodation)
	delete(accommodationMap, "created_at")

	query, args, err := psql().Update(accommodationTableName).SetMap(accommodationMap).Where(sq.Eq{"id": accommodationID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update accommodation query for accommodation %s: %w", accommodationID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update accommodation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrAccommodationNotFound
	}

	return nil
}

func (r *AccommodationRepository) DeleteAccommodation(ctx context.Context, accommodationID string) error {
	return deleteCascade(ctx, r.pool, accommodationTableName, accommodationID, accommodationDependents, types.ErrAccommodationNotFound)
}
