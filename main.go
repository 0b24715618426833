package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"hotel-booking/config"
	"hotel-booking/routes"
	"hotel-booking/services"
	"hotel-booking/utils"
)

func main() {
	cfg, err := config.Load()
	logger := utils.InitLogger(err == nil && cfg.IsProduction())
	defer func() { _ = logger.Sync() }()
	if err != nil {
		logger.Fatal("config load failed", zap.Error(err))
	}

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		logger.Fatal("database connect failed", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	logger.Info("database ready", zap.String("driver", cfg.DBDriver))

	var roomCache services.RoomCache
	redisClient, err := config.ConnectCache(cfg)
	switch {
	case err != nil:
		logger.Warn("redis unavailable, room cache disabled", zap.Error(err))
	case redisClient != nil:
		defer redisClient.Close()
		roomCache = services.NewRedisRoomCache(redisClient, cfg.RoomCacheTTL)
		logger.Info("room cache enabled", zap.String("addr", cfg.RedisAddr))
	}

	tokens := utils.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	authSvc := services.NewAuthService(db, tokens, services.NewSessionHub())
	if _, err := authSvc.GrantAdmin(context.Background(), cfg.Admins()); err != nil {
		logger.Fatal("failed to apply admin accounts", zap.Error(err))
	}
	roomSvc := services.NewRoomService(db, roomCache)
	bookingSvc := services.NewBookingService(db)
	profileSvc := services.NewProfileService(db)
	wishlistSvc := services.NewWishlistService(db)

	ctl := routes.NewControllers(authSvc, roomSvc, bookingSvc, profileSvc, wishlistSvc)
	router := routes.SetupRouter(ctl, authSvc, routes.Options{
		Origins:        cfg.Origins(),
		AuthRatePerMin: cfg.AuthRatePerMin,
		Logger:         logger,
	})

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		// no WriteTimeout: /api/auth/events holds websocket connections open
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
		return
	}
	logger.Info("server stopped")
}
