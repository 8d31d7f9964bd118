package api

import (
	"fmt"

	"bharatrohan/hangar/internal/common"
	"bharatrohan/hangar/internal/config"
	"bharatrohan/hangar/internal/db/repositories"
	"bharatrohan/hangar/internal/logging"
	"bharatrohan/hangar/internal/metrics"
	"bharatrohan/hangar/internal/providers"
	"bharatrohan/hangar/internal/services"
	"bharatrohan/hangar/internal/workers"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Repositories struct {
	Drones *repositories.DroneRepo
	Logs   *repositories.FlightLogRepo
	Alerts *repositories.DroneAlertRepo
	Notes  *repositories.MaintenanceNoteRepo
	Stats  *repositories.FleetStatsRepo
}

type Services struct {
	Cache       common.CacheInterface
	Maintenance *services.MaintenanceAlertService
	Fleet       *services.FleetService
	FlightLogs  *services.FlightLogService
	Notes       *services.MaintenanceNoteService
	AlertQuery  *services.AlertQueryService
}

type Dependencies struct {
	Config     *config.Config
	DB         *sqlx.DB
	Redis      *redis.Client
	Metrics    *metrics.MetricsRegistry
	Dispatcher *workers.NotificationDispatcher
	Repo       *Repositories
	Services   *Services
}

// InitDependencies builds repositories and services on top of open
// database handles. sqlxDB and gormDB may share one connection pool.
func InitDependencies(cfg *config.Config, sqlxDB *sqlx.DB, gormDB *gorm.DB, metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {
	repos := &Repositories{
		Drones: repositories.NewDroneRepo(gormDB),
		Logs:   repositories.NewFlightLogRepo(gormDB),
		Alerts: repositories.NewDroneAlertRepo(gormDB),
		Notes:  repositories.NewMaintenanceNoteRepo(sqlxDB),
		Stats:  repositories.NewFleetStatsRepo(sqlxDB),
	}

	var (
		cache       common.CacheInterface
		redisClient *redis.Client
	)
	if cfg.Redis.Enabled() {
		redisClient = common.NewRedisClient(cfg.Redis)
		cache = common.NewRedisCacheService(redisClient, "hangar:")
	} else {
		cache = common.NewCacheService(60, 600)
	}

	store, err := common.NewFileObjectStore(cfg.Storage.LogDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open log storage: %w", err)
	}

	var signer *common.URLSignerService
	if cfg.Storage.URLSigningKey != "" {
		signer = common.NewURLSignerService([]byte(cfg.Storage.URLSigningKey), cfg.Storage.DownloadURLTTL)
	} else {
		logging.Warn("URL_SIGNING_KEY not set, log downloads are disabled")
	}

	dispatcher := workers.NewNotificationDispatcher(
		providers.NewCliqProvider(cfg.Alerts),
		cfg.Alerts.NotifyTimeout,
		metricsReg,
	)
	if !cfg.Alerts.NotificationsEnabled() {
		logging.Warn("Zoho Cliq channel or API key not set, maintenance notifications are disabled")
	}

	maintenance := services.NewMaintenanceAlertService(cfg.Alerts, repos.Logs, repos.Alerts, dispatcher, metricsReg)
	fleet := services.NewFleetService(repos.Drones, repos.Logs, repos.Alerts, repos.Notes, repos.Stats, cache, metricsReg)

	svcs := &Services{
		Cache:       cache,
		Maintenance: maintenance,
		Fleet:       fleet,
		FlightLogs:  services.NewFlightLogService(repos.Drones, repos.Logs, store, signer, maintenance, fleet, metricsReg),
		Notes:       services.NewMaintenanceNoteService(repos.Drones, repos.Notes),
		AlertQuery:  services.NewAlertQueryService(repos.Alerts),
	}

	return &Dependencies{
		Config:     cfg,
		DB:         sqlxDB,
		Redis:      redisClient,
		Metrics:    metricsReg,
		Dispatcher: dispatcher,
		Repo:       repos,
		Services:   svcs,
	}, nil
}
