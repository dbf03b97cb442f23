package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orderentry/cmd"
	httpin "orderentry/internal/adapters/in/http"
	"orderentry/internal/adapters/out/postgres/obsrepo"
	"orderentry/internal/adapters/out/postgres/orderrepo"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs, err := cmd.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB, err := gorm.Open(gorm_postgres.Open(configs.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err = gormDB.AutoMigrate(&orderrepo.OrderDTO{}, &obsrepo.ObservationDTO{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	app, err := cmd.NewCompositionRoot(configs, gormDB, logger)
	if err != nil {
		log.Fatalf("Failed to wire application: %v", err)
	}
	if err = app.Migrate(context.Background()); err != nil {
		log.Fatalf("Failed to create order number sequence: %v", err)
	}

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(app, configs.HTTPPort)
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	discontinueHandler, err := app.CreateDiscontinueOrderCommandHandler()
	if err != nil {
		log.Fatalf("Failed to create discontinue handler: %v", err)
	}
	server := httpin.NewServer(
		discontinueHandler,
		app.CreatePurgeOrderCommandHandler(),
		app.CreateGetOrderQueryHandler(),
		app.CreateGetActiveOrdersQueryHandler(),
		app.CreateGetOrderHistoryQueryHandler(),
	)

	e := echo.New()
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(app.Metrics().Handler()))
	server.RegisterRoutes(e.Group("/api/v1"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if startErr := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); startErr != nil &&
			!errors.Is(startErr, http.ErrServerClosed) {
			e.Logger.Fatal(startErr)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = e.Shutdown(shutdownCtx); err != nil {
		e.Logger.Error(err)
	}
}
