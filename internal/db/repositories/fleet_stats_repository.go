package repositories

import (
	"context"

	"bharatrohan/hangar/internal/constants"
	"bharatrohan/hangar/internal/models/entities"

	"github.com/jmoiron/sqlx"
)

// FleetStatsRepo runs the read-only aggregates behind the fleet tables
type FleetStatsRepo struct {
	db *sqlx.DB
}

func NewFleetStatsRepo(db *sqlx.DB) *FleetStatsRepo {
	return &FleetStatsRepo{db}
}

// LogStatsByDrone returns per-drone log aggregates keyed by drone id.
// Drones without logs are absent from the map.
func (r *FleetStatsRepo) LogStatsByDrone(ctx context.Context) (map[string]entities.DroneLogStats, error) {
	var rows []entities.DroneLogStats

	if err := r.db.SelectContext(ctx, &rows, constants.GetLogStatsPerDrone); err != nil {
		return nil, err
	}

	out := make(map[string]entities.DroneLogStats, len(rows))
	for _, row := range rows {
		out[row.DroneID] = row
	}
	return out, nil
}

// LatestPositions returns the newest located fix per drone keyed by drone id
func (r *FleetStatsRepo) LatestPositions(ctx context.Context) (map[string]entities.DronePosition, error) {
	var rows []entities.DronePosition

	if err := r.db.SelectContext(ctx, &rows, constants.GetLatestPositionPerDrone); err != nil {
		return nil, err
	}

	out := make(map[string]entities.DronePosition, len(rows))
	for _, row := range rows {
		out[row.DroneID] = row
	}
	return out, nil
}
