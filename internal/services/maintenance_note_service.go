package services

import (
	"context"
	"strings"
	"time"

	"bharatrohan/hangar/internal/constants"
	"bharatrohan/hangar/internal/db/repositories"
	"bharatrohan/hangar/internal/logging"
	"bharatrohan/hangar/internal/models/entities"

	z "github.com/Oudwins/zog"
	"github.com/google/uuid"
)

var noteTextSchema = z.String().Min(1).Max(4000).Required()

type MaintenanceNoteService struct {
	drones *repositories.DroneRepo
	notes  *repositories.MaintenanceNoteRepo
}

func NewMaintenanceNoteService(drones *repositories.DroneRepo, notes *repositories.MaintenanceNoteRepo) *MaintenanceNoteService {
	return &MaintenanceNoteService{drones: drones, notes: notes}
}

// List returns the drone's notes, newest first
func (s *MaintenanceNoteService) List(ctx context.Context, droneID string) ([]entities.MaintenanceNote, error) {
	if err := s.requireDrone(ctx, droneID); err != nil {
		return nil, err
	}

	notes, err := s.notes.ListByDrone(ctx, droneID)
	if err != nil {
		return nil, dbError("failed to list maintenance notes", err)
	}
	return notes, nil
}

// Add stores a trimmed, non-empty note against the drone. Notes do not
// clear maintenance alerts.
func (s *MaintenanceNoteService) Add(ctx context.Context, droneID, text string) (*entities.MaintenanceNote, error) {
	text = strings.TrimSpace(text)
	if issues := noteTextSchema.Validate(&text); len(issues) > 0 {
		return nil, newFleetError(constants.ErrCodeValidation, constants.MsgInvalidNote, nil)
	}

	if err := s.requireDrone(ctx, droneID); err != nil {
		return nil, err
	}

	note := &entities.MaintenanceNote{
		ID:        uuid.NewString(),
		DroneID:   droneID,
		Note:      text,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.notes.Insert(ctx, note); err != nil {
		return nil, dbError("failed to save maintenance note", err)
	}

	logging.Info("Maintenance note added", "drone_id", droneID, "note_id", note.ID)
	return note, nil
}

func (s *MaintenanceNoteService) Delete(ctx context.Context, noteID string) error {
	found, err := s.notes.Delete(ctx, noteID)
	if err != nil {
		return dbError("failed to delete maintenance note", err)
	}
	if !found {
		return newFleetError(constants.ErrCodeNoteNotFound, constants.MsgNoteNotFound, nil)
	}
	return nil
}

func (s *MaintenanceNoteService) requireDrone(ctx context.Context, droneID string) error {
	drone, err := s.drones.FindByID(ctx, droneID)
	if err != nil {
		return dbError("failed to load drone", err)
	}
	if drone == nil {
		return newFleetError(constants.ErrCodeDroneNotFound, constants.MsgDroneNotFound, nil)
	}
	return nil
}
