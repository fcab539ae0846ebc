// File: kigalimove/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kigalimove/config"
	"kigalimove/cron"
	"kigalimove/database"
	applicationRepo "kigalimove/database/repository/application"
	assignmentRepo "kigalimove/database/repository/assignment"
	commissionRepo "kigalimove/database/repository/commission"
	locationRepo "kigalimove/database/repository/location"
	notificationRepo "kigalimove/database/repository/notification"
	orderRepo "kigalimove/database/repository/order"
	smslogRepo "kigalimove/database/repository/smslog"
	userRepoPkg "kigalimove/database/repository/user"
	workerRepo "kigalimove/database/repository/worker"
	"kigalimove/handlers"
	"kigalimove/routes"
	"kigalimove/services/account"
	"kigalimove/services/application"
	"kigalimove/services/assignment"
	"kigalimove/services/auth"
	"kigalimove/services/commission"
	"kigalimove/services/distance"
	"kigalimove/services/location"
	"kigalimove/services/notification"
	"kigalimove/services/order"
	"kigalimove/services/sms"
	"kigalimove/services/storage"
	"kigalimove/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	cacheClient := utils.GetCacheClient()
	authCacheClient := utils.GetAuthCacheClient()

	rootCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	// Optional integrations degrade instead of stopping the server.
	var generator distance.TextGenerator
	var gemini *distance.GeminiClient
	if config.AppConfig.GeminiAPIKey != "" {
		g, err := distance.NewGeminiClient(rootCtx, config.AppConfig.GeminiAPIKey, config.AppConfig.GeminiModel)
		if err != nil {
			logger.Warn("main: Gemini unavailable, distances fall back to the default", zap.Error(err))
		} else {
			gemini = g
			generator = g
		}
	}

	var push assignment.PushSender
	if fcm, err := utils.FirebaseInit(rootCtx); err != nil {
		logger.Warn("main: push notifications disabled", zap.Error(err))
	} else if svc, err := notification.NewDefaultNotificationService(fcm); err != nil {
		logger.Warn("main: push notifications disabled", zap.Error(err))
	} else {
		push = svc
	}

	var documents storage.DocumentStore
	if store, err := utils.Cloudinary(); err != nil {
		logger.Warn("main: application documents disabled", zap.Error(err))
	} else {
		documents = store
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	orders := orderRepo.NewMongoOrderRepo()
	assignments := assignmentRepo.NewMongoAssignmentRepo()
	applications := applicationRepo.NewMongoApplicationRepo()
	commissions := commissionRepo.NewMongoCommissionRepo()
	withdrawals := commissionRepo.NewMongoWithdrawalRepo()
	locations := locationRepo.NewMongoLocationRepo()
	notifications := notificationRepo.NewMongoNotificationRepo()
	smsLogs := smslogRepo.NewMongoSMSLogRepo()
	users := userRepoPkg.NewMongoUserRepo()
	workers := workerRepo.NewMongoWorkerRepo()

	// task queue.
	queueClient := asynq.NewClient(cron.QueueRedisOpt())
	smsService := sms.NewDefaultSMSService(
		sms.NewSimulatedGateway(config.AppConfig.SMSFailureRate, time.Now().UnixNano()),
		smsLogs,
		orders,
		logger,
	)
	smsWorker := cron.InitSMSWorker(smsService)

	// services.
	estimator := distance.NewEstimator(
		generator,
		distance.NewRedisDistanceCache(cacheClient, utils.DistanceCacheTTL),
		config.AppConfig.DefaultDistanceKm,
		logger,
	)

	assignmentService := &assignment.DefaultAssignmentService{
		Assignments:   assignments,
		Workers:       workers,
		Notifications: notifications,
		Orders:        orders,
		Push:          push,
		OfferTTL:      config.AppConfig.OfferTTL,
		Logger:        logger,
		Now:           time.Now,
	}
	commissionService := commission.NewDefaultCommissionService(commissions, withdrawals, config.AppConfig.CommissionRate, logger)

	orderService := order.NewDefaultOrderService(orders, estimator, logger)
	orderService.Assignments = assignmentService
	orderService.Commissions = commissionService
	orderService.SMS = sms.NewQueueNotifier(queueClient, config.AppConfig.PublicBaseURL)

	locationService := location.NewDefaultLocationService(
		locations,
		location.NewRedisLevelCache(cacheClient, utils.LocationCacheTTL),
		logger,
	)
	accountService := account.NewDefaultAccountService(users, workers, logger)
	applicationService := application.NewDefaultApplicationService(applications, accountService, documents, logger)
	authService := auth.NewDefaultAuthService(
		users,
		workers,
		utils.NewRedisSessionStore(authCacheClient),
		config.AppConfig.SessionTTL,
		logger,
	)

	go func() {
		if err := locationService.Seed(rootCtx); err != nil {
			logger.Warn("main: location seed skipped", zap.Error(err))
		}
	}()
	utils.StartHealthMonitor(rootCtx, []*redis.Client{cacheClient, authCacheClient}, database.MongoClient)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Sessions:       authService,
		RequestsPerMin: config.AppConfig.MaxRequestsPerMin,

		// Public endpoints.
		Orders:       handlers.NewOrderHandler(orderService, config.AppConfig.PublicBaseURL),
		Locations:    handlers.NewLocationHandler(locationService),
		Applications: handlers.NewApplicationHandler(applicationService),
		Auth:         handlers.NewAuthHandler(authService),

		// Dashboards.
		Admin: &handlers.AdminHandler{
			Orders:       orderService,
			Assignments:  assignmentService,
			Commissions:  commissionService,
			Applications: applicationService,
			Accounts:     accountService,
			Workers:      workers,
		},
		Agent: &handlers.AgentHandler{
			Orders:      orderService,
			Commissions: commissionService,
		},
		Worker: &handlers.WorkerHandler{
			Assignments: assignmentService,
			Orders:      orderService,
			Workers:     workers,
		},
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
	stopBackground()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}

	smsWorker.Shutdown()
	if err := queueClient.Close(); err != nil {
		logger.Warn("main: failed to close task queue client", zap.Error(err))
	}
	if gemini != nil {
		if err := gemini.Close(); err != nil {
			logger.Warn("main: failed to close Gemini client", zap.Error(err))
		}
	}
	if err := database.Disconnect(ctx); err != nil {
		logger.Warn("main: failed to disconnect MongoDB", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
