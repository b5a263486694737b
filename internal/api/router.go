package api

import (
	"context"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/videotube/backend/docs"
	"github.com/videotube/backend/internal/api/handler"
	"github.com/videotube/backend/internal/api/metrics"
	"github.com/videotube/backend/internal/api/middleware"
	"github.com/videotube/backend/internal/core/service"
	mongorepo "github.com/videotube/backend/internal/infrastructure/db/mongo"
	"github.com/videotube/backend/internal/infrastructure/storage/s3"
	"github.com/videotube/backend/internal/pkg/config"
)

type handlers struct {
	users  *handler.UserHandler
	health *handler.HealthHandler
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, media *s3.Uploader, cfg config.HTTPConfig, log zerolog.Logger) *echo.Echo {
	// --- Dependencies ---
	userRepo := mongorepo.NewUserRepository(db)
	uploader := metrics.InstrumentUploader(media)
	userService := service.NewUserService(userRepo, uploader,
		log.With().Str("component", "user_service").Logger(),
		service.WithMaxUploadSize(cfg.MaxUploadSize),
	)

	h := handlers{
		users: handler.NewUserHandler(userService, handler.NewFileStager(cfg.UploadTempDir)),
		health: handler.NewHealthHandler(map[string]handler.Pinger{
			"mongodb": handler.PingFunc(func(ctx context.Context) error {
				return db.Client().Ping(ctx, nil)
			}),
			"media": media,
		}),
	}

	httpLog := log.With().Str("component", "http").Logger()
	return newEcho(cfg, httpLog, h, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
}

func newEcho(cfg config.HTTPConfig, log zerolog.Logger, h handlers, reg prometheus.Registerer, gatherer prometheus.Gatherer) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowCredentials: true,
	}))
	e.Use(middleware.BodyLimit(cfg.BodyLimit, cfg.MultipartBodyLimit()))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "videotube",
		Registerer: reg,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- User routes ---
	v1 := e.Group("/api/v1")
	v1.POST("/users", h.users.Register)
	v1.POST("/users/register", h.users.Register)

	// --- Health probes ---
	e.GET("/health", h.health.Liveness)         // liveness  – is the process alive?
	e.GET("/health/ready", h.health.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	if cfg.StaticDir != "" {
		e.Static("/", cfg.StaticDir)
	}

	return e
}
