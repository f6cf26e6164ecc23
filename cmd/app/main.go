package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dispatch/cmd"
	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/postgres/assignmentrepo"
	"dispatch/internal/adapters/out/postgres/courierrepo"
	"dispatch/internal/adapters/out/postgres/orderrepo"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// A .env file is a local development convenience; in containers the
	// environment is already populated.
	if err := godotenv.Load(".env"); err != nil {
		logger.Info("no .env file loaded, using environment as-is")
	}

	config := cmd.LoadConfig()

	gormDB, err := gorm.Open(gormpostgres.Open(config.PostgresDSN()), &gorm.Config{})
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}

	if err = migrate(gormDB); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr,
		Password: config.RedisPassword,
	})
	defer redisClient.Close()

	redisOpt := asynq.RedisClientOpt{
		Addr:     config.RedisAddr,
		Password: config.RedisPassword,
	}
	asynqClient := asynq.NewClient(redisOpt)
	defer asynqClient.Close()

	root := cmd.NewCompositionRoot(config, gormDB, redisClient, asynqClient, logger)

	jobManager := root.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		logger.Error("failed to start background jobs", "error", err)
		os.Exit(1)
	}
	defer jobManager.StopAll()

	asynqServer := asynq.NewServer(redisOpt, asynq.Config{Concurrency: 10})
	mux := asynq.NewServeMux()
	root.CreateNotificationWorker().Register(mux)

	go func() {
		if runErr := asynqServer.Run(mux); runErr != nil {
			logger.Error("notification worker stopped", "error", runErr)
		}
	}()
	defer asynqServer.Shutdown()

	e := newEcho(root)

	go func() {
		if startErr := e.Start(":" + config.HTTPPort); startErr != nil &&
			!errors.Is(startErr, http.ErrServerClosed) {
			logger.Error("http server stopped", "error", startErr)
			os.Exit(1)
		}
	}()

	waitForShutdown(e, logger)
}

func newEcho(root *cmd.CompositionRoot) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	server := httpin.NewServer(
		root.CreateCreateOrderCommandHandler(),
		root.CreateAdvanceShopOrderStatusCommandHandler(),
		root.CreateCancelShopOrderCommandHandler(),
		root.CreateClaimAssignmentCommandHandler(),
		root.CreateIssueDeliveryCodeCommandHandler(),
		root.CreateVerifyDeliveryCodeCommandHandler(),
		root.CreateCreateCourierCommandHandler(),
		root.CreateUpdateCourierLocationCommandHandler(),
		root.CreateSetCourierAvailabilityCommandHandler(),
		root.CreateGetOpenBroadcastsQueryHandler(),
		root.CreateGetCourierActiveJobQueryHandler(),
		root.CreateGetUncompletedShopOrdersQueryHandler(),
	)
	server.RegisterRoutes(e)

	return e
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.ShopOrderDTO{},
		&orderrepo.ShopOrderItemDTO{},
		&courierrepo.CourierDTO{},
		&assignmentrepo.AssignmentDTO{},
	)
}

func waitForShutdown(e *echo.Echo, logger *slog.Logger) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", "error", err)
	}
}
