package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"projects-api/internal/di"
	httpadapter "projects-api/internal/projects/adapter/http"
	"projects-api/internal/projects/config"
	"projects-api/internal/shared/logger"

	"github.com/joho/godotenv"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	appLogger := logger.NewLogger()

	serverCfg, err := config.LoadServerConfig()
	if err != nil {
		appLogger.Fatalf("Failed to load server configuration: %v", err)
	}
	projectsCfg, err := config.LoadConfig()
	if err != nil {
		appLogger.Fatalf("Failed to load projects configuration: %v", err)
	}
	appLogger.Info("Application configuration loaded successfully")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, serverCfg, projectsCfg, appLogger)
	stop()
	if err != nil {
		appLogger.Fatalf("%v", err)
	}
}

// run serves until ctx is cancelled or the listener fails. The container is
// closed before run returns in both cases.
func run(ctx context.Context, serverCfg *config.ServerConfig, projectsCfg *config.ProjectsConfig, appLogger logger.Logger) error {
	container := di.NewContainer(appLogger)
	defer func() {
		if err := container.Close(); err != nil {
			appLogger.Errorf("Failed to close container: %v", err)
		}
	}()

	if err := container.InitializeProjects(projectsCfg); err != nil {
		return fmt.Errorf("failed to initialize Projects module: %w", err)
	}

	app := httpadapter.NewFiberApp(*serverCfg, appLogger)

	module := container.GetProjectsModule()
	module.RegisterRoutes(app)
	module.StartRealtimeServices()

	serverAddr := serverCfg.Addr()
	appLogger.Infof("Back-end started! Listening on %s", serverAddr)

	serverShutdown := make(chan error, 1)
	go func() {
		serverShutdown <- app.Listen(serverAddr)
	}()

	select {
	case err := <-serverShutdown:
		if err != nil {
			return fmt.Errorf("server startup failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		appLogger.Info("Received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			appLogger.Errorf("Server forced to shutdown: %v", err)
		}
		appLogger.Info("HTTP server stopped")
		return nil
	}
}
