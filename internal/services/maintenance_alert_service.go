package services

import (
	"context"
	"time"

	"bharatrohan/hangar/internal/common"
	"bharatrohan/hangar/internal/config"
	"bharatrohan/hangar/internal/logging"
	"bharatrohan/hangar/internal/metrics"
	"bharatrohan/hangar/internal/models/dtos"
	"bharatrohan/hangar/internal/models/dtos/requests"
	"bharatrohan/hangar/internal/models/dtos/responses"
	gormModels "bharatrohan/hangar/internal/models/gorm"

	z "github.com/Oudwins/zog"
)

const dronesTable = "drones"

// FlightTimeAggregator totals a drone's logged flight time from the log history
type FlightTimeAggregator interface {
	SumFlightTimeSeconds(ctx context.Context, droneID string) (float64, error)
}

// AlertStore reads and writes maintenance alerts
type AlertStore interface {
	HighestMultiple(ctx context.Context, droneID string) (int, error)
	InsertIgnoringDuplicates(ctx context.Context, alerts []gormModels.DroneAlert) (int64, error)
}

// NoticeDispatcher hands a notice to the best-effort notification path.
// Dispatch must not block on delivery.
type NoticeDispatcher interface {
	Dispatch(notice dtos.MaintenanceNotice)
}

var droneRecordSchema = z.Struct(z.Shape{
	"ID":        z.String().Min(1).Required(),
	"SerialNum": z.String().Min(1).Required(),
})

// MaintenanceAlertService decides, on each drone change, whether new
// maintenance intervals were crossed and records one alert per interval.
//
// There is no locking between concurrent calls for the same drone. Two calls
// may compute the same new multiples; the unique (drone_id,
// threshold_multiple) index turns the loser's insert into a no-op.
type MaintenanceAlertService struct {
	cfg        config.AlertConfig
	logs       FlightTimeAggregator
	alerts     AlertStore
	dispatcher NoticeDispatcher
	metrics    *metrics.MetricsRegistry
}

// NewMaintenanceAlertService creates the service. dispatcher and metricsReg may be nil.
func NewMaintenanceAlertService(
	cfg config.AlertConfig,
	logs FlightTimeAggregator,
	alerts AlertStore,
	dispatcher NoticeDispatcher,
	metricsReg *metrics.MetricsRegistry,
) *MaintenanceAlertService {
	return &MaintenanceAlertService{
		cfg:        cfg,
		logs:       logs,
		alerts:     alerts,
		dispatcher: dispatcher,
		metrics:    metricsReg,
	}
}

// HandleChange filters a row-change event and evaluates the drone it names.
// Only UPDATE events on drones are evaluated; a drone's creation is assumed
// to start below threshold.
func (s *MaintenanceAlertService) HandleChange(ctx context.Context, event *requests.ChangeEvent) (*responses.AlertCheckResult, error) {
	if event == nil {
		return nil, validationError("event body is required")
	}

	if event.Type != requests.ChangeEventUpdate || (event.Table != "" && event.Table != dronesTable) {
		s.countOutcome("skipped_event")
		return &responses.AlertCheckResult{Skipped: true}, nil
	}

	if event.Record == nil {
		return nil, validationError("record is required")
	}
	if issues := droneRecordSchema.Validate(event.Record); len(issues) > 0 {
		return nil, validationError("record.id and record.serial_num are required")
	}

	return s.Evaluate(ctx, event.Record.ID, event.Record.SerialNum)
}

// Evaluate recomputes the drone's flight hours and records any newly crossed
// maintenance intervals.
func (s *MaintenanceAlertService) Evaluate(ctx context.Context, droneID, serialNum string) (*responses.AlertCheckResult, error) {
	start := time.Now()
	totalSeconds, err := s.logs.SumFlightTimeSeconds(ctx, droneID)
	s.observeQuery("sum_flight_time", start)
	if err != nil {
		s.countOutcome("error")
		return nil, persistenceError("failed to aggregate flight time", err)
	}

	totalHours := SecondsToHours(totalSeconds)
	current := CurrentMultiple(totalHours, s.cfg.IntervalHours)

	if current < 1 {
		s.countOutcome("below_threshold")
		return &responses.AlertCheckResult{Skipped: SkipBelowThreshold}, nil
	}

	start = time.Now()
	highest, err := s.alerts.HighestMultiple(ctx, droneID)
	s.observeQuery("highest_multiple", start)
	if err != nil {
		s.countOutcome("error")
		return nil, persistenceError("failed to read recorded alerts", err)
	}

	decision := EvaluateThreshold(current, highest)
	if decision.SkipReason != "" {
		s.countOutcome("already_alerted")
		return &responses.AlertCheckResult{Skipped: decision.SkipReason}, nil
	}

	modelName := common.ModelFromSerial(serialNum)

	batch := make([]gormModels.DroneAlert, 0, len(decision.NewMultiples))
	for _, m := range decision.NewMultiples {
		batch = append(batch, gormModels.DroneAlert{
			DroneID:              droneID,
			SerialNum:            serialNum,
			ModelName:            modelName,
			ThresholdMultiple:    m,
			FlightHoursAtTrigger: totalHours,
		})
	}

	start = time.Now()
	inserted, err := s.alerts.InsertIgnoringDuplicates(ctx, batch)
	s.observeQuery("insert_alerts", start)
	if err != nil {
		s.countOutcome("error")
		logging.Error("Failed to insert drone alerts",
			"drone_id", droneID,
			"serial_num", serialNum,
			"multiples", decision.NewMultiples,
			"error", err.Error(),
		)
		return nil, persistenceError("failed to insert drone alerts", err)
	}

	if inserted > 0 {
		s.countOutcome("alerted")
	} else {
		// a concurrent or redelivered call already wrote every row
		s.countOutcome("duplicate")
	}
	if s.metrics != nil {
		s.metrics.AlertsRecordedTotal.Add(float64(inserted))
	}

	logging.Info("Maintenance interval crossed",
		"drone_id", droneID,
		"serial_num", serialNum,
		"model_name", modelName,
		"total_hours", totalHours,
		"multiple", current,
		"previous_multiple", highest,
		"inserted", inserted,
	)

	// A concurrent or redelivered call that lost every insert leaves the
	// notice to the call that won.
	if inserted > 0 && s.dispatcher != nil && s.cfg.NotificationsEnabled() {
		s.dispatcher.Dispatch(dtos.MaintenanceNotice{
			DroneID:       droneID,
			SerialNum:     serialNum,
			ModelName:     modelName,
			TotalHours:    totalHours,
			IntervalHours: s.cfg.IntervalHours,
			Multiple:      current,
			NewMultiples:  decision.NewMultiples,
		})
	}

	return &responses.AlertCheckResult{
		Alerted:   true,
		Multiple:  current,
		Hours:     totalHours,
		NewAlerts: inserted,
	}, nil
}

func (s *MaintenanceAlertService) countOutcome(outcome string) {
	if s.metrics != nil {
		s.metrics.AlertEvaluationsTotal.WithLabelValues(outcome).Inc()
	}
}

func (s *MaintenanceAlertService) observeQuery(queryType string, start time.Time) {
	if s.metrics != nil {
		s.metrics.DBQueryDuration.WithLabelValues(queryType).Observe(time.Since(start).Seconds())
	}
}
