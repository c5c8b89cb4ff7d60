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

const vehicleTableName = "vehicles"

var vehicleColumns = utils.StructTagValues(types.Vehicle{})

var vehicleDependents = append(ownedBy(types.VehicleDocuments),
	dependent{table: "accounts_payable", column: "vehicle_id", nullify: true},
)

type VehicleRepository struct {
	pool *pgxpool.Pool
}

func NewVehicleRepository(pool *pgxpool.Pool) *VehicleRepository {
	return &VehicleRepository{pool: pool}
}

func (r *VehicleRepository) Vehicle(ctx context.Context, vehicleID string) (*types.Vehicle, error) {
	query, args, err := psql().Select(vehicleColumns...).From(vehicleTableName).
		Where(sq.Eq{"id": vehicleID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate vehicle query: %w", err)
	}

	var vehicle = new(types.Vehicle)
	err = pgxscan.Get(ctx, r.pool, vehicle, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrVehicleNotFound
		}
		return nil, fmt.Errorf("failed to fetch vehicle: %w", err)
	}

	return vehicle, nil
}

func (r *VehicleRepository) Vehicles(ctx context.Context, projectID string) ([]*types.Vehicle, error) {
	builder := psql().Select(vehicleColumns...).From(vehicleTableName).OrderBy("plate ASC")
	if projectID != "" {
		builder = builder.Where(sq.Eq{"project_id": projectID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate vehicles query: %w", err)
	}

	vehicles := make([]*types.Vehicle, 0)
	err = pgxscan.Select(ctx, r.pool, &vehicles, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch vehicles: %w", err)
	}

	return vehicles, nil
}

func (r *VehicleRepository) CreateVehicle(ctx context.Context, vehicle *types.Vehicle) error {
	now := time.Now()
	vehicle.ID = utils.NanoID()
	vehicle.CreatedAt = now
	vehicle.UpdatedAt = now

	query, args, err := psql().Insert(vehicleTableName).SetMap(utils.StructToMap(vehicle)).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert vehicle query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create vehicle")
}

func (r *VehicleRepository) UpdateVehicle(ctx context.Context, vehicleID string, vehicle *types.Vehicle) error {
	vehicle.ID = vehicleID
	vehicle.UpdatedAt = time.Now()

	vehicleMap := utils.StructToMap(vehicle)
	delete(vehicleMap, "created_at")

	query, args, err := psql().Update(vehicleTableName).SetMap(vehicleMap).Where(sq.Eq{"id": vehicleID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update vehicle query for vehicle %s: %w", vehicleID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update vehicle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrVehicleNotFound
	}

	return nil
}

func (r *VehicleRepository) DeleteVehicle(ctx context.Context, vehicleID string) error {
	return deleteCascade(ctx, r.pool, vehicleTableName, vehicleID, vehicleDependents, types.ErrVehicleNotFound)
}
