package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"

	"coursebook/config"
	"coursebook/database"
	bookingRepoPkg "coursebook/database/repository/booking"
	materialRepoPkg "coursebook/database/repository/material"
	profileRepoPkg "coursebook/database/repository/profile"
	programRepoPkg "coursebook/database/repository/program"
	sessionRepoPkg "coursebook/database/repository/session"
	userRepoPkg "coursebook/database/repository/user"
	"coursebook/handlers"
	"coursebook/middleware"
	"coursebook/routes"
	"coursebook/services/auth"
	"coursebook/services/booking"
	"coursebook/services/catalog"
	"coursebook/services/material"
	"coursebook/services/notification"
	"coursebook/services/payment"
	"coursebook/services/storage"
	"coursebook/services/tasks"
	"coursebook/services/user"
	"coursebook/utils"
	"coursebook/worker"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	mongoClient, err := database.Connect(config.AppConfig.DatabaseURL)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to connect to database: %v", err)
	}
	defer func() {
		if err := database.Disconnect(mongoClient); err != nil {
			logger.Sugar().Warnf("main: failed to disconnect from database: %v", err)
		}
	}()

	utils.InitCache()
	utils.InitAuthCache()
	utils.FirebaseInit()
	stripe.Key = config.AppConfig.StripeKey

	storageService, err := storage.NewGCSStorageService(
		config.AppConfig.GCSServiceAccountFile,
		config.AppConfig.GCSBucket,
	)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize storage service: %v", err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	dbName := config.AppConfig.DatabaseName
	userRepo := userRepoPkg.NewMongoUserRepo(mongoClient, dbName)
	profileRepo := profileRepoPkg.NewMongoProfileRepo(mongoClient, dbName)
	programRepo := programRepoPkg.NewMongoProgramRepo(mongoClient, dbName)
	sessionRepo := sessionRepoPkg.NewMongoSessionRepo(mongoClient, dbName)
	materialRepo := materialRepoPkg.NewMongoMaterialRepo(mongoClient, dbName)
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo(mongoClient, dbName)

	// background task queue.
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer asynqClient.Close()
	taskQueue := tasks.NewAsynqTaskQueue(asynqClient)

	// services.
	userService := &user.DefaultUserService{
		Repo:     userRepo,
		Profiles: profileRepo,
	}
	catalogService := &catalog.DefaultCatalogService{
		Programs: programRepo,
		Sessions: sessionRepo,
		Cache:    catalog.NewRedisListingCache(utils.GetCacheClient()),
	}
	materialService := &material.DefaultMaterialService{
		Repo:        materialRepo,
		BookingRepo: bookingRepo,
		Storage:     storageService,
	}
	bookingService := &booking.DefaultBookingService{
		Repo:        bookingRepo,
		SessionRepo: sessionRepo,
		ProgramRepo: programRepo,
		Payments:    payment.NewStripePaymentService(),
		Tasks:       taskQueue,
	}
	authService := &auth.DefaultAuthService{
		Users:    userRepo,
		Profiles: profileRepo,
	}
	notificationService := &notification.FCMNotificationService{
		Client: utils.FCMClient,
		Users:  userRepo,
	}

	worker.Start(notificationService)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		UserRepo: userRepo,
		Auth:     handlers.NewAuthHandler(authService, logger),
		Booking:  handlers.NewBookingHandler(bookingService, logger),
		Material: handlers.NewMaterialHandler(materialService, logger),
		Catalog:  handlers.NewCatalogHandler(catalogService, logger),
		Admin:    handlers.NewAdminHandler(catalogService, materialService, storageService, logger),
		User:     handlers.NewUserHandler(userService, logger),
		Webhook:  handlers.NewPaymentWebhookHandler(bookingService, logger),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
