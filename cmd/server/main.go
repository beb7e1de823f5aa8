package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/mehrbod2002/horizon/docs"
	"github.com/mehrbod2002/horizon/internal/api"
	"github.com/mehrbod2002/horizon/internal/config"
	"github.com/mehrbod2002/horizon/internal/middleware"
	"github.com/mehrbod2002/horizon/internal/notify"
	"github.com/mehrbod2002/horizon/internal/service"
	"github.com/mehrbod2002/horizon/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// @title Horizon API
// @version 1.0
// @description Mock banking service: accounts, linked banks, transfers and history.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	b, err := openBackend(ctx, cfg, logger)
	cancel()
	if err != nil {
		logger.Fatalf("Failed to open storage: %v", err)
	}
	defer b.Close()

	admin, err := config.NewAdminAccount(cfg)
	if err != nil {
		logger.Fatalf("Failed to create admin account: %v", err)
	}

	hub := ws.NewHub(logger)
	go hub.Run()
	defer hub.Stop()

	wsHandler := ws.NewWebSocketHandler(hub)

	gen := service.NewGenerator()
	userService := service.NewUserService(b.userRepo)
	logService := service.NewLogService(b.logRepo, logger)
	authService := service.NewAuthService(userService, b.sessionRepo, gen, cfg.SessionTTL, cfg.PublicURLBase, logger)
	bankingService := service.NewBankingService(userService, logService, notify.New(cfg, logger), gen, logger)

	syncer := service.NewSessionSyncer(b.sessionRepo, userService, hub, gen, cfg.SyncInterval, logger)
	if err := syncer.Start(); err != nil {
		logger.Fatalf("Failed to start session sync: %v", err)
	}
	defer syncer.Stop()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(logger))

	api.SetupRoutes(r, cfg, admin, authService, userService, bankingService, logService, wsHandler, logger)

	srv := &http.Server{
		Addr:    cfg.ListenAddr(),
		Handler: r,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"addr":    srv.Addr,
			"storage": cfg.StorageDriver,
		}).Info("Starting server")
		logger.Infof("WebSocket endpoint available at %s/ws", cfg.BaseURL)
		logger.Infof("Swagger UI available at %s/swagger/index.html", cfg.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}
}
