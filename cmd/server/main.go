package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"streamvault/internal/api"
	"streamvault/internal/app/service"
	"streamvault/internal/app/worker"
	"streamvault/internal/common/security"
	"streamvault/internal/domain/repository"
	"streamvault/internal/media"
	"streamvault/internal/platform/config"
	"streamvault/internal/platform/database"
	"streamvault/internal/platform/logger"
	"streamvault/internal/platform/queue"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	appLogger := logger.New(logger.Options{
		Level:  os.Getenv("LOG_LEVEL"),
		Format: os.Getenv("LOG_FORMAT"),
	})

	// 2. Initialize JWT
	security.InitJWT()
	fmt.Println("JWT initialized.")

	// 3. Initialize Database (runs migrations)
	database.Connect()
	defer database.Close()
	fmt.Println("Database connected.")

	// 4. Initialize Redis
	queue.ConnectRedis()
	defer queue.CloseRedis()
	fmt.Println("Redis connected.")

	// 5. Initialize Media Store
	mediaClient, err := media.NewClient(context.Background(), config.AppConfig)
	if err != nil {
		log.Fatalf("Could not initialize media store: %v", err)
	}
	fmt.Println("Media store initialized.")

	// 6. Initialize Repositories & Services
	userRepo := repository.NewPgUserRepository(database.DB)
	sessionService := service.NewSessionService(userRepo, appLogger)
	mediaQueue := worker.NewMediaQueue(queue.RDB)
	authService := service.NewAuthService(userRepo, mediaClient, sessionService, mediaQueue, appLogger)

	// 7. Initialize Media Worker (as a goroutine)
	mediaWorker := worker.NewMediaWorker(queue.RDB, mediaClient, appLogger)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go mediaWorker.Start(workerCtx)
	fmt.Println("Media worker started.")

	// 8. Initialize Router & HTTP Server
	router := api.NewRouter(authService, sessionService)

	server := &http.Server{
		Addr:    ":" + config.AppConfig.APIPort,
		Handler: router,
	}

	go func() {
		fmt.Printf("Server starting on port %s\n", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	fmt.Println("Shutting down server...")

	workerCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	fmt.Println("Server exited.")
}
