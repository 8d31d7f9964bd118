package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultIntervalHours   = 50.0
	DefaultNotifyTimeout   = 8 * time.Second
	DefaultCliqBaseURL     = "https://cliq.zoho.in/api/v2"
	DefaultDownloadURLTTL  = time.Hour
	DefaultLogStorageDir   = "./data/flight-logs"
	DefaultPort            = "8080"
	DefaultUploadRateLimit = 1.0
	DefaultUploadBurst     = 5
)

// AlertConfig is everything the maintenance alert core needs. It is built
// once at startup and handed to the service; nothing reads the environment
// after that.
type AlertConfig struct {
	IntervalHours float64
	SharedSecret  string
	NotifyChannel string
	NotifyAPIKey  string
	NotifyBaseURL string
	NotifyTimeout time.Duration
	DashboardURL  string
}

// NotificationsEnabled reports whether a chat channel is configured.
func (c AlertConfig) NotificationsEnabled() bool {
	return c.NotifyChannel != "" && c.NotifyAPIKey != ""
}

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	DB       string
	Password string
}

// DSN returns the connection string shared by sqlx and GORM.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", p.User, p.Password, p.Host, p.Port, p.DB)
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

// Enabled reports whether a Redis host was configured explicitly.
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

type StorageConfig struct {
	LogDir         string
	URLSigningKey  string
	DownloadURLTTL time.Duration
}

type HTTPConfig struct {
	Port            string
	AllowedOrigins  []string
	UploadRateLimit float64
	UploadBurst     int
}

type Config struct {
	AppEnv   string
	LogFile  string
	HTTP     HTTPConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Alerts   AlertConfig
}

// Load reads configuration from the environment, after loading an optional .env file.
func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from the given lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		AppEnv:  withDefault(getenv("APP_ENV"), "development"),
		LogFile: getenv("LOG_FILE"),
		HTTP: HTTPConfig{
			Port:           withDefault(getenv("PORT"), DefaultPort),
			AllowedOrigins: splitList(withDefault(getenv("CORS_ALLOWED_ORIGINS"), "https://*,http://localhost:3000")),
		},
		Postgres: PostgresConfig{
			Host:     getenv("PG_HOST"),
			Port:     withDefault(getenv("PG_PORT"), "5432"),
			User:     getenv("PG_USER"),
			DB:       getenv("PG_DB"),
			Password: getenv("PG_PASSWORD"),
		},
		Redis: RedisConfig{
			Host:     getenv("REDIS_HOST"),
			Port:     withDefault(getenv("REDIS_PORT"), "6379"),
			Password: getenv("REDIS_PASSWORD"),
		},
		Storage: StorageConfig{
			LogDir:        withDefault(getenv("LOG_STORAGE_DIR"), DefaultLogStorageDir),
			URLSigningKey: getenv("URL_SIGNING_KEY"),
		},
		Alerts: AlertConfig{
			SharedSecret:  getenv("ALERT_WEBHOOK_SECRET"),
			NotifyChannel: getenv("ZOHO_CLIQ_CHANNEL"),
			NotifyAPIKey:  getenv("ZOHO_CLIQ_API_KEY"),
			NotifyBaseURL: strings.TrimRight(withDefault(getenv("ZOHO_CLIQ_BASE_URL"), DefaultCliqBaseURL), "/"),
			DashboardURL:  strings.TrimRight(getenv("DASHBOARD_BASE_URL"), "/"),
		},
	}

	var err error
	if cfg.Alerts.IntervalHours, err = parseFloat(getenv, "ALERT_FLIGHT_HOURS_THRESHOLD", DefaultIntervalHours); err != nil {
		return nil, err
	}
	if !isPositiveFinite(cfg.Alerts.IntervalHours) {
		return nil, fmt.Errorf("ALERT_FLIGHT_HOURS_THRESHOLD must be a positive finite number, got %v", cfg.Alerts.IntervalHours)
	}
	if cfg.Alerts.NotifyTimeout, err = parseDuration(getenv, "ALERT_NOTIFY_TIMEOUT", DefaultNotifyTimeout); err != nil {
		return nil, err
	}
	if cfg.Storage.DownloadURLTTL, err = parseDuration(getenv, "DOWNLOAD_URL_TTL", DefaultDownloadURLTTL); err != nil {
		return nil, err
	}
	if cfg.HTTP.UploadRateLimit, err = parseFloat(getenv, "UPLOAD_RATE_LIMIT", DefaultUploadRateLimit); err != nil {
		return nil, err
	}
	burst, err := parseFloat(getenv, "UPLOAD_RATE_BURST", DefaultUploadBurst)
	if err != nil {
		return nil, err
	}
	cfg.HTTP.UploadBurst = int(burst)

	return cfg, nil
}

func isPositiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func withDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseFloat(getenv func(string) string, key string, def float64) (float64, error) {
	raw := strings.TrimSpace(getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

// parseDuration accepts Go durations ("8s") or a bare number of seconds.
func parseDuration(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(getenv(key))
	if raw == "" {
		return def, nil
	}
	if secs, err := strconv.ParseFloat(raw, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}
