package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-retail-admin/internal/config"
	"go-retail-admin/internal/events"
	"go-retail-admin/internal/handler"
	"go-retail-admin/internal/middleware"
	"go-retail-admin/internal/repository"
	"go-retail-admin/internal/service"
	"go-retail-admin/internal/session"
	"go-retail-admin/internal/ws"
	"go-retail-admin/pkg/database"
	"go-retail-admin/pkg/jwt"
	"go-retail-admin/pkg/logger"
	"go-retail-admin/pkg/mailer"
	"go-retail-admin/pkg/telemetry"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const version = "1.0.0"

func main() {
	// 1. Load Env
	cfg := config.Load()
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, ServiceName: cfg.ServiceName})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Init(ctx, telemetry.Config{
		Endpoint:       cfg.OTLPEndpoint,
		ServiceName:    cfg.ServiceName,
		ServiceVersion: version,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to init telemetry")
	}

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.DatabaseURL, cfg.LogLevel)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		log.WithError(err).Fatal("failed to migrate database")
	}

	redisClient, err := session.Connect(ctx, cfg.RedisURL)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to redis")
	}

	// 3. Setup WebSocket Hub
	hubCtx, stopHub := context.WithCancel(context.Background())
	wsHub := ws.NewHub(logger.Service(log, "ws"))
	go wsHub.Run(hubCtx)

	publishers := events.Multi{events.NewHubPublisher(wsHub)}
	var kafka *events.KafkaPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err = events.DialKafka(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.ServiceName)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to kafka")
		}
		publishers = append(publishers, kafka)
	}

	var mail mailer.Mailer = mailer.NewLogMailer(logger.Service(log, "mailer"))
	if cfg.MailAPIURL != "" {
		mail = mailer.NewHTTPMailer(cfg.MailAPIURL, cfg.MailAPIKey, cfg.MailFrom)
	}

	// 4. Dependency Injection (Wiring Layers)
	store := repository.NewStore(db)
	sessions := session.NewRedisStore(redisClient)
	tokens := jwt.NewManager(cfg.JWTSecret)

	productService := service.NewProductService(store, publishers, logger.Service(log, "product"))
	stockService := service.NewStockService(store, publishers, logger.Service(log, "stock"), tel.Tracer, tel.Meter)
	salesService := service.NewSalesService(store)
	logService := service.NewLogService(store)
	dashService := service.NewDashboardService(store)
	userService := service.NewUserService(store, sessions, logger.Service(log, "user"))
	authService := service.NewAuthService(store, sessions, tokens, mail, service.AuthConfig{
		DurableTTL:    cfg.SessionDurableTTL,
		EphemeralTTL:  cfg.SessionEphemeralTTL,
		ResetTokenTTL: cfg.ResetTokenTTL,
		ResetURLBase:  cfg.ResetURLBase,
	}, logger.Service(log, "auth"))

	// 5. Seed admin user
	if err := authService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.WithError(err).Warn("failed to seed admin user")
	}

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      "Retail Admin v" + version,
		ErrorHandler: middleware.ErrorHandler(log),
	})

	// Middleware
	app.Use(fiberlogger.New()) // Logging request
	app.Use(recover.New())     // Panic recovery
	app.Use(cors.New())        // CORS

	// 7. Routes
	handler.RegisterRoutes(app, handler.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Product: handler.NewProductHandler(productService),
		Stock:   handler.NewStockHandler(stockService),
		Report:  handler.NewReportHandler(salesService, logService, dashService),
		User:    handler.NewUserHandler(userService),
	}, authService, wsHub)

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.WithError(err).Error("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}
	stopHub()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var errs []error
	if kafka != nil {
		errs = append(errs, kafka.Close())
	}
	errs = append(errs, redisClient.Close(), tel.Shutdown(shutdownCtx))
	if sqlDB, err := db.DB(); err == nil {
		errs = append(errs, sqlDB.Close())
	}
	if err := errors.Join(errs...); err != nil {
		log.WithError(err).Error("shutdown finished with errors")
		os.Exit(1)
	}

	log.Info("Server exited")
}
