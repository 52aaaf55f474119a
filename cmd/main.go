package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dmchat/backend/internal/api/handler"
	"dmchat/backend/internal/auth"
	"dmchat/backend/internal/chathub"
	"dmchat/backend/internal/config"
	"dmchat/backend/internal/localization"
	"dmchat/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func setupDependencies(cfg *config.Config) (*gorm.DB, *redis.Client) {
	// 1. PostgreSQL
	db, err := storage.OpenPostgres(cfg.PostgresDSN())
	if err != nil {
		glog.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	// 2. Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		glog.Fatalf("Failed to connect Redis: %v", err)
	}

	// 3. Migrations
	if err := storage.Migrate(db); err != nil {
		glog.Fatalf("Failed to run migrations: %v", err)
	}

	glog.Info("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	flag.Parse()
	defer glog.Flush()

	glog.Info("Starting dmchat backend...")

	cfg, err := config.Load()
	if err != nil {
		glog.Fatalf("Invalid configuration: %v", err)
	}

	// 1. Storage and auth
	db, rdb := setupDependencies(cfg)
	s := storage.NewStorageService(db, rdb)
	if err := s.ClearPresence(context.Background()); err != nil {
		glog.Warningf("Could not reset presence set: %v", err)
	}
	authSvc := auth.NewService(s, auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL))

	// 2. Realtime core
	metrics := chathub.NewMetrics(prometheus.DefaultRegisterer)
	directory := chathub.NewDirectory()
	router := chathub.NewRouter(s, directory, authSvc, metrics)
	hub := chathub.NewHub(directory, router, s, metrics)

	localizer, err := localization.NewDefault()
	if err != nil {
		glog.Fatalf("Failed to load translations: %v", err)
	}
	glog.Infof("Loaded translations: %v", localizer.Languages())

	// 3. Gin routes
	r := gin.Default()
	h := handler.NewHandler(hub, authSvc, s, localizer)
	h.HistoryLimit = cfg.HistoryLimit
	h.Routes(r)
	if cfg.EnableMetrics {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	server := &http.Server{
		Addr:           cfg.Addr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		glog.Infof("Listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			glog.Fatalf("HTTP server failed: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	glog.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	// Hijacked websocket connections are not tracked by the server.
	if err := server.Shutdown(shutdownCtx); err != nil {
		glog.Errorf("HTTP shutdown: %v", err)
	}
	if err := hub.Shutdown(shutdownCtx); err != nil {
		glog.Errorf("Realtime shutdown: %v", err)
	}
	if err := rdb.Close(); err != nil {
		glog.Errorf("Redis close: %v", err)
	}
	glog.Info("Stopped.")
}
