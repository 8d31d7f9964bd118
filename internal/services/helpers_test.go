package services

import (
	"sync"
	"testing"
	"time"

	appdb "bharatrohan/hangar/internal/db"
	"bharatrohan/hangar/internal/models/dtos"
	gormModels "bharatrohan/hangar/internal/models/gorm"

	"github.com/jmoiron/sqlx"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Setup test database
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := appdb.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func sqlxFrom(t *testing.T, db *gorm.DB) *sqlx.DB {
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	return sqlx.NewDb(sqlDB, "sqlite3")
}

func f64(v float64) *float64 { return &v }

func seedDrone(t *testing.T, db *gorm.DB, serial string) *gormModels.Drone {
	drone := &gormModels.Drone{SerialNum: serial, ModelName: "PRAVIR-X4"}
	if err := db.Create(drone).Error; err != nil {
		t.Fatalf("Failed to seed drone: %v", err)
	}
	return drone
}

func seedFlightSeconds(t *testing.T, db *gorm.DB, droneID string, seconds float64) {
	log := &gormModels.FlightLog{
		DroneID:           droneID,
		FileName:          "seed.bin",
		StoragePath:       droneID + "/seed.bin",
		UploadedAt:        time.Now(),
		FlightTimeSeconds: f64(seconds),
	}
	if err := db.Create(log).Error; err != nil {
		t.Fatalf("Failed to seed flight log: %v", err)
	}
}

func alertMultiples(t *testing.T, db *gorm.DB, droneID string) []int {
	var multiples []int
	err := db.Model(&gormModels.DroneAlert{}).
		Where("drone_id = ?", droneID).
		Order("threshold_multiple ASC").
		Pluck("threshold_multiple", &multiples).Error
	if err != nil {
		t.Fatalf("Failed to read alerts: %v", err)
	}
	return multiples
}

// recordingDispatcher captures notices instead of sending them
type recordingDispatcher struct {
	mu      sync.Mutex
	notices []dtos.MaintenanceNotice
}

func (r *recordingDispatcher) Dispatch(notice dtos.MaintenanceNotice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, notice)
}

func (r *recordingDispatcher) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notices)
}
