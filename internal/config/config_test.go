package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_DSN", "postgres://localhost/test")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("BOOKING_TIMEZONE", "UTC")
}

func TestFromEnv_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessTokenTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, EventsNone, cfg.EventsDriver)
	assert.Equal(t, time.UTC, cfg.BookingLocation)
	assert.Equal(t, 5.0, cfg.RateLimitRPS)
	assert.False(t, cfg.IsProduction)
	assert.False(t, cfg.OTelEnabled)
}

func TestFromEnv_Mongo(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DB_DRIVER", "mongo")
	t.Setenv("DB_DSN", "")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "vehicle_service", cfg.MongoDB)
}

func TestFromEnv_Errors(t *testing.T) {
	cases := map[string]map[string]string{
		"missing dsn":    {"DB_DSN": ""},
		"missing secret": {"JWT_SECRET": ""},
		"bad driver":     {"DB_DRIVER": "sqlite"},
		"mongo no uri":   {"DB_DRIVER": "mongo", "MONGO_URI": ""},
		"bad ttl":        {"JWT_ACCESS_TOKEN_TTL": "soon"},
		"bad cost":       {"BCRYPT_COST": "high"},
		"bad timezone":   {"BOOKING_TIMEZONE": "Mars/Olympus"},
		"bad events":     {"EVENTS_DRIVER": "kafka"},
		"bad otel":       {"OTEL_ENABLED": "maybe"},
		"bad rate":       {"RATE_LIMIT_RPS": "fast"},
		"bad rate burst": {"RATE_LIMIT_BURST": "1.5"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			setBaseEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestFromEnv_EventsDefaults(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("EVENTS_DRIVER", "NATS")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, EventsNATS, cfg.EventsDriver)
	assert.Equal(t, "nats://127.0.0.1:4222", cfg.NATSURL)
}
