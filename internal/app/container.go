package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nekogravitycat/vehicle-service-backend/internal/api"
	"github.com/nekogravitycat/vehicle-service-backend/internal/auth"
	"github.com/nekogravitycat/vehicle-service-backend/internal/booking"
	"github.com/nekogravitycat/vehicle-service-backend/internal/catalog"
	"github.com/nekogravitycat/vehicle-service-backend/internal/config"
	"github.com/nekogravitycat/vehicle-service-backend/internal/db"
	"github.com/nekogravitycat/vehicle-service-backend/internal/events"
	"github.com/nekogravitycat/vehicle-service-backend/internal/file"
	"github.com/nekogravitycat/vehicle-service-backend/internal/pkg/ratelimit"
	"github.com/nekogravitycat/vehicle-service-backend/internal/pkg/storage"
	"github.com/nekogravitycat/vehicle-service-backend/internal/pkg/validation"
	"github.com/nekogravitycat/vehicle-service-backend/internal/stats"
	"github.com/nekogravitycat/vehicle-service-backend/internal/user"
	"github.com/nekogravitycat/vehicle-service-backend/internal/vehicle"
)

// Repositories groups the per-module stores of one database driver.
type Repositories struct {
	Users    user.Repository
	Catalog  catalog.Repository
	Vehicles vehicle.Repository
	Bookings booking.Repository
	Files    file.Repository
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router      *gin.Engine
	AuthLimiter *ratelimit.IPLimiter
	closers     []func(context.Context) error
}

// Close releases the database connections and the event publisher.
func (c *Container) Close(ctx context.Context) {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](ctx); err != nil {
			log.WithError(err).Warn("failed to close resource")
		}
	}
}

// OpenRepositories connects to the configured database, prepares its schema
// and returns the repositories along with a health probe and a closer.
func OpenRepositories(ctx context.Context, cfg *config.Config, logger log.FieldLogger) (*Repositories, func(context.Context) error, func(context.Context) error, error) {
	switch cfg.DBDriver {
	case config.DriverMongo:
		client, err := db.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		database := client.Database(cfg.MongoDB)
		if err := db.EnsureIndexes(ctx, database,
			user.MongoIndexes, catalog.MongoIndexes, vehicle.MongoIndexes, booking.MongoIndexes, file.MongoIndexes,
		); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, nil, err
		}
		logger.WithField("database", cfg.MongoDB).Info("using mongo store")
		return mongoRepositories(database),
			func(ctx context.Context) error { return client.Ping(ctx, nil) },
			client.Disconnect,
			nil

	default:
		pool, err := db.NewPool(ctx, cfg.DBDSN)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := db.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		logger.Info("using postgres store")
		return pgxRepositories(pool),
			pool.Ping,
			func(context.Context) error { pool.Close(); return nil },
			nil
	}
}

func pgxRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Users:    user.NewPgxRepository(pool),
		Catalog:  catalog.NewPgxRepository(pool),
		Vehicles: vehicle.NewPgxRepository(pool),
		Bookings: booking.NewPgxRepository(pool),
		Files:    file.NewPgxRepository(pool),
	}
}

func mongoRepositories(database *mongo.Database) *Repositories {
	return &Repositories{
		Users:    user.NewMongoRepository(database),
		Catalog:  catalog.NewMongoRepository(database),
		Vehicles: vehicle.NewMongoRepository(database),
		Bookings: booking.NewMongoRepository(database),
		Files:    file.NewMongoRepository(database),
	}
}

// NewContainer initializes all modules and returns the container.
func NewContainer(ctx context.Context, cfg *config.Config, logger log.FieldLogger) (*Container, error) {
	if err := validation.Register(); err != nil {
		return nil, err
	}

	repos, ping, closeStore, err := OpenRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	c := &Container{closers: []func(context.Context) error{closeStore}}

	publisher, err := events.New(events.Options{
		Driver:       cfg.EventsDriver,
		Prefix:       cfg.EventsPrefix,
		NATSURL:      cfg.NATSURL,
		MQTTBroker:   cfg.MQTTBroker,
		MQTTClientID: cfg.MQTTClientID,
	}, logger)
	if err != nil {
		c.Close(ctx)
		return nil, fmt.Errorf("init events: %w", err)
	}
	c.closers = append(c.closers, func(context.Context) error { return publisher.Close() })

	blobs, err := storage.NewLocalStorage(cfg.UploadDir)
	if err != nil {
		c.Close(ctx)
		return nil, fmt.Errorf("init storage: %w", err)
	}

	// Components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessTokenTTL)
	c.AuthLimiter = ratelimit.NewIPLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, 10*time.Minute)

	// Modules
	userService := user.NewService(repos.Users, passwordHasher, logger.WithField("module", "user"))
	catalogService := catalog.NewService(repos.Catalog, logger.WithField("module", "catalog"))
	vehicleService := vehicle.NewService(repos.Vehicles, logger.WithField("module", "vehicle"))
	fileService := file.NewService(repos.Files, blobs, logger.WithField("module", "file"))
	bookingService := booking.NewService(
		repos.Bookings,
		catalogService,
		vehicleService,
		userService,
		publisher,
		cfg.BookingLocation,
		logger.WithField("module", "booking"),
	)
	statsService := stats.NewService(userService, bookingService, catalogService, cfg.BookingLocation)

	c.Router = api.NewRouter(api.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		Logger:         logger,
		UserService:    userService,
		CatalogService: catalogService,
		VehicleService: vehicleService,
		BookingService: bookingService,
		FileService:    fileService,
		StatsService:   statsService,
		JWTManager:     jwtManager,
		AuthLimiter:    c.AuthLimiter,
		Ping:           func(gc *gin.Context) error { return ping(gc.Request.Context()) },
	})

	return c, nil
}
