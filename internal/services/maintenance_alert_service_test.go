package services

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"bharatrohan/hangar/internal/config"
	"bharatrohan/hangar/internal/db/repositories"
	"bharatrohan/hangar/internal/metrics"
	"bharatrohan/hangar/internal/models/dtos/requests"
	gormModels "bharatrohan/hangar/internal/models/gorm"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"gorm.io/gorm"
)

func alertConfig() config.AlertConfig {
	return config.AlertConfig{
		IntervalHours: 50,
		NotifyChannel: "fleet",
		NotifyAPIKey:  "key",
	}
}

func newAlertService(db *gorm.DB, dispatcher NoticeDispatcher, reg *metrics.MetricsRegistry) *MaintenanceAlertService {
	return NewMaintenanceAlertService(
		alertConfig(),
		repositories.NewFlightLogRepo(db),
		repositories.NewDroneAlertRepo(db),
		dispatcher,
		reg,
	)
}

func updateEvent(id, serial string) *requests.ChangeEvent {
	return &requests.ChangeEvent{
		Type:   requests.ChangeEventUpdate,
		Table:  "drones",
		Record: &requests.DroneRecord{ID: id, SerialNum: serial},
	}
}

func TestMaintenanceAlertService_RecordsEveryCrossedMultiple(t *testing.T) {
	db := setupTestDB(t)
	dispatcher := &recordingDispatcher{}
	reg := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	svc := newAlertService(db, dispatcher, reg)
	ctx := context.Background()

	drone := seedDrone(t, db, "1042")
	seedFlightSeconds(t, db, drone.ID, 160*3600)

	res, err := svc.HandleChange(ctx, updateEvent(drone.ID, drone.SerialNum))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !res.Alerted || res.Multiple != 3 || res.Hours != 160 {
		t.Errorf("Unexpected result %+v", res)
	}
	if res.NewAlerts != 3 {
		t.Errorf("Expected 3 inserted alerts, got %d", res.NewAlerts)
	}

	if got := alertMultiples(t, db, drone.ID); !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("Expected multiples [1 2 3], got %v", got)
	}

	var alert gormModels.DroneAlert
	if err := db.Where("drone_id = ? AND threshold_multiple = 1", drone.ID).First(&alert).Error; err != nil {
		t.Fatalf("Failed to load alert: %v", err)
	}
	if alert.ModelName != "PRAVIR-X4" || alert.SerialNum != "1042" || alert.FlightHoursAtTrigger != 160 {
		t.Errorf("Unexpected alert row %+v", alert)
	}

	if dispatcher.count() != 1 {
		t.Fatalf("Expected one notice, got %d", dispatcher.count())
	}
	notice := dispatcher.notices[0]
	if notice.Multiple != 3 || !reflect.DeepEqual(notice.NewMultiples, []int{1, 2, 3}) {
		t.Errorf("Unexpected notice %+v", notice)
	}

	if got := testutil.ToFloat64(reg.AlertsRecordedTotal); got != 3 {
		t.Errorf("Expected 3 recorded alerts metric, got %v", got)
	}
}

func TestMaintenanceAlertService_SecondCallIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	dispatcher := &recordingDispatcher{}
	svc := newAlertService(db, dispatcher, nil)
	ctx := context.Background()

	drone := seedDrone(t, db, "1042")
	seedFlightSeconds(t, db, drone.ID, 60*3600)

	if _, err := svc.HandleChange(ctx, updateEvent(drone.ID, drone.SerialNum)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	res, err := svc.HandleChange(ctx, updateEvent(drone.ID, drone.SerialNum))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if res.Skipped != SkipAlreadyAlerted {
		t.Errorf("Expected %q, got %+v", SkipAlreadyAlerted, res)
	}
	if got := alertMultiples(t, db, drone.ID); !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("Expected multiples [1], got %v", got)
	}
	if dispatcher.count() != 1 {
		t.Errorf("Expected one notice total, got %d", dispatcher.count())
	}
}

func TestMaintenanceAlertService_BelowThreshold(t *testing.T) {
	db := setupTestDB(t)
	dispatcher := &recordingDispatcher{}
	svc := newAlertService(db, dispatcher, nil)

	drone := seedDrone(t, db, "2001")
	seedFlightSeconds(t, db, drone.ID, 49.9*3600)

	res, err := svc.HandleChange(context.Background(), updateEvent(drone.ID, drone.SerialNum))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if res.Skipped != SkipBelowThreshold {
		t.Errorf("Expected %q, got %+v", SkipBelowThreshold, res)
	}
	if got := alertMultiples(t, db, drone.ID); len(got) != 0 {
		t.Errorf("Expected no alerts, got %v", got)
	}
	if dispatcher.count() != 0 {
		t.Errorf("Expected no notice, got %d", dispatcher.count())
	}
}

func TestMaintenanceAlertService_DroneWithoutLogs(t *testing.T) {
	db := setupTestDB(t)
	svc := newAlertService(db, nil, nil)

	drone := seedDrone(t, db, "2001")

	res, err := svc.HandleChange(context.Background(), updateEvent(drone.ID, drone.SerialNum))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if res.Skipped != SkipBelowThreshold {
		t.Errorf("Expected %q, got %+v", SkipBelowThreshold, res)
	}
}

func TestMaintenanceAlertService_AddsOnlyTheNextMultiple(t *testing.T) {
	db := setupTestDB(t)
	svc := newAlertService(db, &recordingDispatcher{}, nil)
	ctx := context.Background()

	drone := seedDrone(t, db, "1200")
	seedFlightSeconds(t, db, drone.ID, 451080)

	existing := []gormModels.DroneAlert{{
		DroneID:              drone.ID,
		SerialNum:            drone.SerialNum,
		ModelName:            "PRAVIR-X4",
		ThresholdMultiple:    1,
		FlightHoursAtTrigger: 51,
	}}
	if err := db.Create(&existing).Error; err != nil {
		t.Fatalf("Failed to seed alert: %v", err)
	}

	res, err := svc.HandleChange(ctx, updateEvent(drone.ID, drone.SerialNum))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !res.Alerted || res.Multiple != 2 || res.Hours != 125.3 {
		t.Errorf("Expected alerted at multiple 2 with 125.3h, got %+v", res)
	}
	if got := alertMultiples(t, db, drone.ID); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Errorf("Expected multiples [1 2], got %v", got)
	}
}

func TestMaintenanceAlertService_DownwardCorrectionDoesNotRealert(t *testing.T) {
	db := setupTestDB(t)
	svc := newAlertService(db, nil, nil)
	ctx := context.Background()

	drone := seedDrone(t, db, "1300")
	seedFlightSeconds(t, db, drone.ID, 140*3600)
	if _, err := svc.HandleChange(ctx, updateEvent(drone.ID, drone.SerialNum)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// drop to 110h, still within multiple 2
	if err := db.Where("drone_id = ?", drone.ID).Delete(&gormModels.FlightLog{}).Error; err != nil {
		t.Fatalf("Failed to clear logs: %v", err)
	}
	seedFlightSeconds(t, db, drone.ID, 110*3600)

	res, err := svc.HandleChange(ctx, updateEvent(drone.ID, drone.SerialNum))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if res.Skipped != SkipAlreadyAlerted {
		t.Errorf("Expected %q, got %+v", SkipAlreadyAlerted, res)
	}
	if got := alertMultiples(t, db, drone.ID); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Errorf("Expected multiples [1 2], got %v", got)
	}
}

func TestMaintenanceAlertService_ConcurrentEvaluationsWriteOnce(t *testing.T) {
	db := setupTestDB(t)
	dispatcher := &recordingDispatcher{}
	svc := newAlertService(db, dispatcher, nil)
	ctx := context.Background()

	drone := seedDrone(t, db, "1500")
	seedFlightSeconds(t, db, drone.ID, 210*3600)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.HandleChange(ctx, updateEvent(drone.ID, drone.SerialNum)); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error: %v", err)
	}

	if got := alertMultiples(t, db, drone.ID); !reflect.DeepEqual(got, []int{1, 2, 3, 4}) {
		t.Errorf("Expected exactly one row per multiple, got %v", got)
	}

	var notified []int
	for _, n := range dispatcher.notices {
		notified = append(notified, n.NewMultiples...)
	}
	if dispatcher.count() < 1 {
		t.Error("Expected at least one notice")
	}
	seen := map[int]bool{}
	for _, m := range notified {
		seen[m] = true
	}
	for m := 1; m <= 4; m++ {
		if !seen[m] {
			t.Errorf("Multiple %d was never part of a notice", m)
		}
	}
}

func TestMaintenanceAlertService_SkipsNonUpdateEvents(t *testing.T) {
	db := setupTestDB(t)
	svc := newAlertService(db, nil, nil)

	cases := map[string]*requests.ChangeEvent{
		"insert":      {Type: requests.ChangeEventInsert, Table: "drones", Record: &requests.DroneRecord{ID: "x", SerialNum: "1"}},
		"delete":      {Type: requests.ChangeEventDelete, Table: "drones"},
		"other table": {Type: requests.ChangeEventUpdate, Table: "flight_logs", Record: &requests.DroneRecord{ID: "x", SerialNum: "1"}},
	}

	for name, event := range cases {
		t.Run(name, func(t *testing.T) {
			res, err := svc.HandleChange(context.Background(), event)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if res.Skipped != true {
				t.Errorf("Expected skipped=true, got %+v", res)
			}
		})
	}
}

func TestMaintenanceAlertService_RejectsIncompleteRecord(t *testing.T) {
	db := setupTestDB(t)
	svc := newAlertService(db, nil, nil)

	cases := map[string]*requests.ChangeEvent{
		"nil event":      nil,
		"missing record": {Type: requests.ChangeEventUpdate},
		"missing id":     {Type: requests.ChangeEventUpdate, Record: &requests.DroneRecord{SerialNum: "1042"}},
		"missing serial": {Type: requests.ChangeEventUpdate, Record: &requests.DroneRecord{ID: "abc"}},
	}

	for name, event := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.HandleChange(context.Background(), event)

			var checkErr *AlertCheckError
			if !errors.As(err, &checkErr) {
				t.Fatalf("Expected AlertCheckError, got %v", err)
			}
			if checkErr.Kind != AlertErrValidation {
				t.Errorf("Expected validation error, got %s", checkErr.Kind)
			}
		})
	}
}

func TestMaintenanceAlertService_StorageFailure(t *testing.T) {
	db := setupTestDB(t)
	svc := newAlertService(db, nil, nil)

	drone := seedDrone(t, db, "1042")
	sqlDB, _ := db.DB()
	sqlDB.Close()

	_, err := svc.HandleChange(context.Background(), updateEvent(drone.ID, drone.SerialNum))

	var checkErr *AlertCheckError
	if !errors.As(err, &checkErr) {
		t.Fatalf("Expected AlertCheckError, got %v", err)
	}
	if checkErr.Kind != AlertErrPersistence {
		t.Errorf("Expected persistence error, got %s", checkErr.Kind)
	}
}

type failingAlertStore struct {
	highest int
	err     error
}

func (f *failingAlertStore) HighestMultiple(ctx context.Context, droneID string) (int, error) {
	return f.highest, nil
}

func (f *failingAlertStore) InsertIgnoringDuplicates(ctx context.Context, alerts []gormModels.DroneAlert) (int64, error) {
	return 0, f.err
}

func TestMaintenanceAlertService_InsertFailureIsNotNotified(t *testing.T) {
	db := setupTestDB(t)
	dispatcher := &recordingDispatcher{}
	svc := NewMaintenanceAlertService(
		alertConfig(),
		repositories.NewFlightLogRepo(db),
		&failingAlertStore{err: errors.New("unique index missing")},
		dispatcher,
		nil,
	)

	drone := seedDrone(t, db, "1042")
	seedFlightSeconds(t, db, drone.ID, 75*3600)

	_, err := svc.HandleChange(context.Background(), updateEvent(drone.ID, drone.SerialNum))

	var checkErr *AlertCheckError
	if !errors.As(err, &checkErr) || checkErr.Kind != AlertErrPersistence {
		t.Fatalf("Expected persistence error, got %v", err)
	}
	if dispatcher.count() != 0 {
		t.Errorf("Expected no notice after failed insert, got %d", dispatcher.count())
	}
}

func TestMaintenanceAlertService_NotificationsDisabled(t *testing.T) {
	db := setupTestDB(t)
	dispatcher := &recordingDispatcher{}
	cfg := alertConfig()
	cfg.NotifyAPIKey = ""
	svc := NewMaintenanceAlertService(cfg,
		repositories.NewFlightLogRepo(db),
		repositories.NewDroneAlertRepo(db),
		dispatcher,
		nil,
	)

	drone := seedDrone(t, db, "1042")
	seedFlightSeconds(t, db, drone.ID, 75*3600)

	res, err := svc.HandleChange(context.Background(), updateEvent(drone.ID, drone.SerialNum))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !res.Alerted {
		t.Errorf("Expected alert recorded without a channel, got %+v", res)
	}
	if dispatcher.count() != 0 {
		t.Errorf("Expected no notice when notifications are disabled, got %d", dispatcher.count())
	}
}

// lostRaceAlertStore reports no prior alerts but inserts nothing, as seen by
// the second of two concurrent evaluations
type lostRaceAlertStore struct{}

func (lostRaceAlertStore) HighestMultiple(ctx context.Context, droneID string) (int, error) {
	return 0, nil
}

func (lostRaceAlertStore) InsertIgnoringDuplicates(ctx context.Context, alerts []gormModels.DroneAlert) (int64, error) {
	return 0, nil
}

func TestMaintenanceAlertService_DuplicateOutcomeWhenNothingInserted(t *testing.T) {
	db := setupTestDB(t)
	reg := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	dispatcher := &recordingDispatcher{}
	svc := NewMaintenanceAlertService(
		alertConfig(),
		repositories.NewFlightLogRepo(db),
		lostRaceAlertStore{},
		dispatcher,
		reg,
	)

	drone := seedDrone(t, db, "1042")
	seedFlightSeconds(t, db, drone.ID, 60*3600)

	if _, err := svc.HandleChange(context.Background(), updateEvent(drone.ID, drone.SerialNum)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if got := testutil.ToFloat64(reg.AlertEvaluationsTotal.WithLabelValues("duplicate")); got != 1 {
		t.Errorf("Expected one duplicate outcome, got %v", got)
	}
	if got := testutil.ToFloat64(reg.AlertEvaluationsTotal.WithLabelValues("alerted")); got != 0 {
		t.Errorf("Expected no alerted outcome, got %v", got)
	}
	if dispatcher.count() != 0 {
		t.Errorf("Expected no notice when nothing was inserted, got %d", dispatcher.count())
	}

	// A real insert still counts as alerted
	live := newAlertService(db, dispatcher, reg)
	if _, err := live.HandleChange(context.Background(), updateEvent(drone.ID, drone.SerialNum)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got := testutil.ToFloat64(reg.AlertEvaluationsTotal.WithLabelValues("alerted")); got != 1 {
		t.Errorf("Expected one alerted outcome, got %v", got)
	}
}
