package repositories

import (
	"context"

	"bharatrohan/hangar/internal/constants"
	"bharatrohan/hangar/internal/models/entities"

	"github.com/jmoiron/sqlx"
)

type MaintenanceNoteRepo struct {
	db *sqlx.DB
}

func NewMaintenanceNoteRepo(db *sqlx.DB) *MaintenanceNoteRepo {
	return &MaintenanceNoteRepo{db}
}

func (r *MaintenanceNoteRepo) Insert(ctx context.Context, note *entities.MaintenanceNote) error {
	_, err := r.db.ExecContext(ctx, constants.InsertMaintenanceNote,
		note.ID,
		note.DroneID,
		note.Note,
		note.CreatedAt,
	)
	return err
}

func (r *MaintenanceNoteRepo) ListByDrone(ctx context.Context, droneID string) ([]entities.MaintenanceNote, error) {
	notes := []entities.MaintenanceNote{}

	if err := r.db.SelectContext(ctx, &notes, constants.GetMaintenanceNotesByDrone, droneID); err != nil {
		return nil, err
	}

	return notes, nil
}

// Delete reports whether a note was removed
func (r *MaintenanceNoteRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, constants.DeleteMaintenanceNote, id)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
