package api

import (
	"net/http/httptest"
	"testing"
	"time"

	"bharatrohan/hangar/internal/config"
	appdb "bharatrohan/hangar/internal/db"
	"bharatrohan/hangar/internal/metrics"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Setup test database
func setupTestDB(t *testing.T) (*gorm.DB, *sqlx.DB) {
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
	return db, sqlx.NewDb(sqlDB, "sqlite3")
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		AppEnv: "test",
		HTTP: config.HTTPConfig{
			Port:            "0",
			AllowedOrigins:  []string{"*"},
			UploadRateLimit: 100,
			UploadBurst:     100,
		},
		Storage: config.StorageConfig{
			LogDir:         t.TempDir(),
			URLSigningKey:  "test-signing-key",
			DownloadURLTTL: time.Hour,
		},
		Alerts: config.AlertConfig{
			IntervalHours: 50,
			SharedSecret:  "s3cret",
			NotifyTimeout: time.Second,
		},
	}
}

func newTestDeps(t *testing.T, cfg *config.Config) (*Dependencies, *gorm.DB) {
	gormDB, sqlxDB := setupTestDB(t)

	deps, err := InitDependencies(cfg, sqlxDB, gormDB, metrics.NewMetricsRegistry(prometheus.NewRegistry()))
	if err != nil {
		t.Fatalf("Failed to init dependencies: %v", err)
	}
	return deps, gormDB
}

// closedServerURL returns the base URL of a server that no longer listens
func closedServerURL() string {
	srv := httptest.NewServer(nil)
	url := srv.URL
	srv.Close()
	return url
}
