package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const PROD_STRING = "prod"

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"

	EventsNone = "none"
	EventsNATS = "nats"
	EventsMQTT = "mqtt"
)

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	HTTPAddr     string
	LogLevel     string

	DBDriver string
	DBDSN    string
	MongoURI string
	MongoDB  string

	JWTSecret         string
	JWTAccessTokenTTL time.Duration
	BcryptCost        int

	UploadDir       string
	BookingLocation *time.Location

	RateLimitRPS   float64
	RateLimitBurst int

	EventsDriver string
	EventsPrefix string
	NATSURL      string
	MQTTBroker   string
	MQTTClientID string

	OTelEnabled bool

	SeedAdminEmail    string
	SeedAdminPassword string
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.WithError(err).Debug("no .env file loaded")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current process environment.
func FromEnv() (*Config, error) {
	var err error
	cfg := &Config{}

	cfg.ProdOrigins = getEnv("PROD_ORIGINS", "")
	cfg.IsProduction = getEnv("APP_ENV", "dev") == PROD_STRING
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")

	cfg.DBDriver = strings.ToLower(getEnv("DB_DRIVER", DriverPostgres))
	switch cfg.DBDriver {
	case DriverPostgres:
		cfg.DBDSN = os.Getenv("DB_DSN")
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("DB_DSN is required when DB_DRIVER=%s", DriverPostgres)
		}
	case DriverMongo:
		cfg.MongoURI = os.Getenv("MONGO_URI")
		if cfg.MongoURI == "" {
			return nil, fmt.Errorf("MONGO_URI is required when DB_DRIVER=%s", DriverMongo)
		}
		cfg.MongoDB = getEnv("MONGO_DB", "vehicle_service")
	default:
		return nil, fmt.Errorf("invalid DB_DRIVER %q: want %s or %s", cfg.DBDriver, DriverPostgres, DriverMongo)
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	cfg.JWTAccessTokenTTL, err = getEnvAsDuration("JWT_ACCESS_TOKEN_TTL", 15*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg.BcryptCost, err = getEnvAsInt("BCRYPT_COST", 12)
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}

	cfg.UploadDir = getEnv("UPLOAD_DIR", "./data")

	tz := getEnv("BOOKING_TIMEZONE", "Local")
	cfg.BookingLocation, err = time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid BOOKING_TIMEZONE %q: %w", tz, err)
	}

	cfg.RateLimitRPS, err = getEnvAsFloat("RATE_LIMIT_RPS", 5)
	if err != nil {
		return nil, err
	}
	cfg.RateLimitBurst, err = getEnvAsInt("RATE_LIMIT_BURST", 10)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}

	cfg.EventsDriver = strings.ToLower(getEnv("EVENTS_DRIVER", EventsNone))
	cfg.EventsPrefix = getEnv("EVENTS_PREFIX", "vehicle-service")
	switch cfg.EventsDriver {
	case EventsNone:
	case EventsNATS:
		cfg.NATSURL = getEnv("NATS_URL", "nats://127.0.0.1:4222")
	case EventsMQTT:
		cfg.MQTTBroker = getEnv("MQTT_BROKER", "tcp://127.0.0.1:1883")
		cfg.MQTTClientID = getEnv("MQTT_CLIENT_ID", "vehicle-service-backend")
	default:
		return nil, fmt.Errorf("invalid EVENTS_DRIVER %q", cfg.EventsDriver)
	}

	cfg.OTelEnabled, err = getEnvAsBool("OTEL_ENABLED", false)
	if err != nil {
		return nil, err
	}

	cfg.SeedAdminEmail = getEnv("SEED_ADMIN_EMAIL", "admin@vbd.com")
	cfg.SeedAdminPassword = os.Getenv("SEED_ADMIN_PASSWORD")

	return cfg, nil
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns the default value if the variable is not set.
// It returns an error if the variable is set but is not a valid integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}

func getEnvAsFloat(key string, defaultValue float64) (float64, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}
	val, err := strconv.ParseFloat(valStr, 64)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid number: %w", key, valStr, err)
	}
	return val, nil
}

func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		return false, fmt.Errorf("env %s value %q is not a valid boolean: %w", key, valStr, err)
	}
	return val, nil
}

// getEnvAsDuration parses values such as "15m" or "1h".
func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}
	val, err := time.ParseDuration(valStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return val, nil
}
