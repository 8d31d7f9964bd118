package services

import (
	"context"

	"bharatrohan/hangar/internal/constants"
	"bharatrohan/hangar/internal/db/repositories"
	"bharatrohan/hangar/internal/logging"
	"bharatrohan/hangar/internal/models/dtos/responses"
)

// AlertQueryService is the dashboard side of drone_alerts
type AlertQueryService struct {
	alerts *repositories.DroneAlertRepo
}

func NewAlertQueryService(alerts *repositories.DroneAlertRepo) *AlertQueryService {
	return &AlertQueryService{alerts: alerts}
}

// ListGrouped collapses open alerts to one entry per drone. Hours come from
// the drone's newest alert; groups keep the order of their newest alert.
func (s *AlertQueryService) ListGrouped(ctx context.Context) ([]responses.DroneAlertGroup, error) {
	alerts, err := s.alerts.ListAll(ctx)
	if err != nil {
		return nil, dbError("failed to list alerts", err)
	}

	groups := []responses.DroneAlertGroup{}
	index := make(map[string]int)
	for _, a := range alerts {
		i, ok := index[a.DroneID]
		if !ok {
			modelName := a.ModelName
			if modelName == "" {
				modelName = "Unknown"
			}
			groups = append(groups, responses.DroneAlertGroup{
				DroneID:   a.DroneID,
				SerialNum: a.SerialNum,
				ModelName: modelName,
				Hours:     a.FlightHoursAtTrigger,
			})
			i = len(groups) - 1
			index[a.DroneID] = i
		}
		groups[i].AlertCount++
		if a.ThresholdMultiple > groups[i].Highest {
			groups[i].Highest = a.ThresholdMultiple
		}
	}
	return groups, nil
}

// Acknowledge deletes one alert. The next evaluation of the drone may record
// that multiple again.
func (s *AlertQueryService) Acknowledge(ctx context.Context, alertID string) error {
	found, err := s.alerts.Delete(ctx, alertID)
	if err != nil {
		return dbError("failed to delete alert", err)
	}
	if !found {
		return newFleetError(constants.ErrCodeAlertNotFound, constants.MsgAlertNotFound, nil)
	}

	logging.Info("Maintenance alert acknowledged", "alert_id", alertID)
	return nil
}
