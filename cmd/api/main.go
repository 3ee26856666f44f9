package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"io.winapps.pushrelay/internal/db"
	"io.winapps.pushrelay/internal/dispatch"
	firebaseutil "io.winapps.pushrelay/internal/firebase"
	"io.winapps.pushrelay/internal/handlers"
	"io.winapps.pushrelay/internal/jobs"
	"io.winapps.pushrelay/internal/middleware"
	"io.winapps.pushrelay/internal/push"
	"io.winapps.pushrelay/internal/registration"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()
	logger := zapLogger.Sugar()

	// Initialize Firebase; delivery over FCM needs the service account
	firebaseApp, err := firebaseutil.InitFirebase()
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	fcmClient, err := push.NewFCMClient(context.Background(), firebaseApp, logger)
	if err != nil {
		log.Fatalf("Failed to initialize FCM client: %v", err)
	}

	// Initialize PostgreSQL
	postgresDB, err := db.InitPostgres()
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL: %v", err)
	}
	defer postgresDB.Close()

	// Initialize Redis
	redisClient, err := db.InitRedis()
	if err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}
	defer redisClient.Close()

	// Wire components: store -> manager -> dispatcher behind the provider router
	store := registration.NewPostgresStore(postgresDB)
	manager := registration.NewManager(store, redisClient, logger)

	expoClient := push.NewExpoClient(os.Getenv("EXPO_PUSH_URL"), logger)
	provider := push.NewRouter(expoClient, fcmClient)
	dispatcher := dispatch.NewService(manager, provider, logger)

	usersHandler := handlers.NewUsersHandler(manager, logger)
	notificationsHandler := handlers.NewNotificationsHandler(dispatcher, logger)

	// Initialize Gin router
	gin.SetMode(db.GetEnvOrDefault("GIN_MODE", gin.ReleaseMode))
	router := gin.New()
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RequestLoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.CORSMiddleware())

	// Define routes
	router.GET("/", handlers.Health)

	api := router.Group("/api")
	{
		users := api.Group("/users")
		{
			users.POST("/register", usersHandler.Register)
			users.GET("/:userId", usersHandler.GetUser)
			users.GET("", usersHandler.ListUsers)
		}

		notifications := api.Group("/notifications")
		{
			notifications.POST("/send", notificationsHandler.Send)
		}
	}

	router.NoRoute(handlers.NotFoundRoute)

	// Start the daily registration stats job
	statsJob := jobs.NewStatsJob(manager, redisClient, logger)
	if err := statsJob.Start(); err != nil {
		log.Fatalf("Failed to start stats job: %v", err)
	}
	defer statsJob.Stop()

	port := db.GetEnvOrDefault("PORT", "3000")

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Push relay server running on port %s", port)
		logger.Infof("  GET    http://localhost:%s/", port)
		logger.Infof("  POST   http://localhost:%s/api/users/register", port)
		logger.Infof("  GET    http://localhost:%s/api/users/:userId", port)
		logger.Infof("  GET    http://localhost:%s/api/users", port)
		logger.Infof("  POST   http://localhost:%s/api/notifications/send", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Give a 5 second timeout for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}
