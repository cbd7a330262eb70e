// File: agrimandi/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agrimandi/config"
	"agrimandi/cron"
	"agrimandi/database"
	offerRepoPkg "agrimandi/database/repository/offer"
	userRepoPkg "agrimandi/database/repository/user"
	"agrimandi/handlers"
	"agrimandi/middleware"
	"agrimandi/routes"
	"agrimandi/services/kyc"
	"agrimandi/services/offer"
	"agrimandi/services/tasks"
	"agrimandi/services/user"
	"agrimandi/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	storageService, err := utils.Cloudinary()
	if err != nil {
		// Document storage only gates the OCR variant; run without it.
		logger.Sugar().Warnf("main: document storage unavailable, OCR verification disabled: %v", err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://app.agrimandi.in"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	offerRepo := offerRepoPkg.NewMongoOfferRepo()

	// services.
	userService := &user.DefaultUserService{
		Repo: userRepo,
	}

	sessionStore := kyc.NewRedisSessionStore()
	taskScheduler := tasks.NewAsynqScheduler()
	kycService := kyc.NewKYCService(userRepo, sessionStore, storageService, taskScheduler)

	offerService := &offer.DefaultOfferService{
		Repo:  offerRepo,
		Users: userRepo,
	}

	// background worker for session sweeps and nudges.
	cron.InitKYCWorker(sessionStore, userRepo)

	// Assemble the handler bundle.
	handlerBundle := &routes.HandlerBundle{
		UserRepo: userRepo,
		User:     handlers.NewUserHandler(userService),
		KYC:      handlers.NewKYCHandler(kycService),
		Offer:    handlers.NewOfferHandler(offerService),
	}

	routes.RegisterHealthRoute(router)
	routes.RegisterUserRoutes(router, handlerBundle)
	routes.RegisterKYCRoutes(router, handlerBundle)
	routes.RegisterOfferRoutes(router, handlerBundle)

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: router,
	}

	go func() {
		logger.Sugar().Infof("main: listening on port %s", config.AppConfig.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server error: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: forced shutdown: %v", err)
	}
}
