package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/nekogravitycat/vehicle-service-backend/internal/auth"
	"github.com/nekogravitycat/vehicle-service-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/vehicle-service-backend/internal/booking/http"
	"github.com/nekogravitycat/vehicle-service-backend/internal/catalog"
	catalogHttp "github.com/nekogravitycat/vehicle-service-backend/internal/catalog/http"
	"github.com/nekogravitycat/vehicle-service-backend/internal/file"
	fileHttp "github.com/nekogravitycat/vehicle-service-backend/internal/file/http"
	"github.com/nekogravitycat/vehicle-service-backend/internal/pkg/logger"
	"github.com/nekogravitycat/vehicle-service-backend/internal/pkg/ratelimit"
	"github.com/nekogravitycat/vehicle-service-backend/internal/stats"
	statsHttp "github.com/nekogravitycat/vehicle-service-backend/internal/stats/http"
	"github.com/nekogravitycat/vehicle-service-backend/internal/user"
	userHttp "github.com/nekogravitycat/vehicle-service-backend/internal/user/http"
	"github.com/nekogravitycat/vehicle-service-backend/internal/vehicle"
	vehicleHttp "github.com/nekogravitycat/vehicle-service-backend/internal/vehicle/http"
)

// Config holds everything the router needs.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	Logger       log.FieldLogger

	UserService    user.Service
	CatalogService catalog.Service
	VehicleService vehicle.Service
	BookingService booking.Service
	FileService    file.Service
	StatsService   stats.Service

	JWTManager  *auth.JWTManager
	AuthLimiter *ratelimit.IPLimiter
	Ping        func(c *gin.Context) error
}

// NewRouter initializes the HTTP router engine.
// It assembles the middleware (logging, recovery, CORS, auth) and registers the routes of every module.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(logger.Middleware(cfg.Logger), Recovery())

	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction {
		corsConfig.AllowOrigins = splitOrigins(cfg.ProdOrigins)
	} else {
		corsConfig.AllowOrigins = []string{
			"http://localhost:3000", // React dev server
			"http://localhost:8081", // Swagger
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", logger.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{logger.RequestIDHeader}
	corsConfig.MaxAge = 12 * time.Hour
	r.Use(cors.New(corsConfig))

	r.GET("/health", HealthCheck(cfg.Ping))

	// authMiddleware resolves the bearer token to an active principal.
	authMiddleware := auth.AuthRequired(cfg.JWTManager, cfg.UserService)
	adminMiddleware := auth.Require(auth.CapAdmin)

	fileHandler := fileHttp.NewHandler(cfg.FileService)
	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	catalogHandler := catalogHttp.NewHandler(cfg.CatalogService, fileHandler)
	vehicleHandler := vehicleHttp.NewHandler(cfg.VehicleService, fileHandler)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)
	statsHandler := statsHttp.NewHandler(cfg.StatsService)

	apiGroup := r.Group("/api")
	{
		userHttp.RegisterRoutes(apiGroup, userHandler, authMiddleware, adminMiddleware, cfg.AuthLimiter.Middleware())
		statsHttp.RegisterRoutes(apiGroup, statsHandler, authMiddleware, adminMiddleware)
		catalogHttp.RegisterRoutes(apiGroup, catalogHandler, authMiddleware, adminMiddleware)
		vehicleHttp.RegisterRoutes(apiGroup, vehicleHandler, authMiddleware, adminMiddleware)
		bookingHttp.RegisterRoutes(apiGroup, bookingHandler, authMiddleware, adminMiddleware)
		fileHttp.RegisterRoutes(apiGroup, fileHandler)
	}

	return r
}

func splitOrigins(s string) []string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
