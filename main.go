package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"exodash/internal"
	"exodash/internal/config"
	"exodash/internal/container"
	"exodash/ui"
)

// startupTimeout bounds the catalog fetch, retries included
const startupTimeout = 2 * time.Minute

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load application configuration
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.Logging.Level))
	gin.SetMode(appConfig.Server.GinMode)

	appContainer, err := container.New(appConfig, logger)
	if err != nil {
		log.Fatalf("Failed to create container: %v", err)
	}
	defer appContainer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	err = appContainer.Init(ctx)
	cancel()
	if err != nil {
		logger.Error("Startup failed: %v", err)
		log.Fatalf("Failed to initialize dashboard: %v", err)
	}

	server, err := ui.NewServer(appContainer.Dashboard, appContainer.API.Routes(), logger)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	if err := server.Start(":" + appConfig.Server.Port); err != nil {
		logger.Error("Server stopped: %v", err)
	}
}
