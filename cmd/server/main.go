package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"route-optimizer-service/internal/adapters/cache"
	"route-optimizer-service/internal/adapters/distance"
	"route-optimizer-service/internal/adapters/repositories"
	"route-optimizer-service/internal/api"
	"route-optimizer-service/internal/config"
	"route-optimizer-service/internal/platform/db"
	"route-optimizer-service/internal/platform/logging"
	"route-optimizer-service/internal/ports"
	"route-optimizer-service/internal/services"
	"route-optimizer-service/internal/store"
	"route-optimizer-service/internal/ws"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// main is the application composition root.
// It wires concrete adapters (SQL, Redis, ORS) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := logging.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sqlDB *sqlx.DB
	if cfg.DBDriver != "none" {
		sqlDB, err = openDB(cfg)
		if err != nil {
			log.Fatal(err)
		}
		defer sqlDB.Close()
	}

	provider, closeProvider, err := newProvider(cfg, sqlDB)
	if err != nil {
		log.Fatal(err)
	}
	defer closeProvider()

	optimizer, err := services.NewOptimizer(services.Config{
		Depot:            cfg.Depot,
		Fleet:            cfg.Fleet,
		DispatchStart:    cfg.DispatchStart,
		ServiceMinutes:   cfg.ServiceMinutes,
		ClusterRadiusKm:  cfg.ClusterRadiusKm,
		TwoOptIterations: cfg.TwoOptIterations,
	}, provider)
	if err != nil {
		log.Fatal(err)
	}

	var opts []store.Option
	if sqlDB != nil {
		opts = append(opts, store.WithRepository(repositories.NewSQLResultRepository(sqlDB)))
	}
	trips := store.New(opts...)
	if err := trips.Load(ctx); err != nil {
		log.WithError(err).Warn("restore last optimization result failed")
	}
	defer trips.Flush()

	hub := ws.NewHub()
	go hub.Run(ctx)

	router := api.NewRouter(api.Deps{
		Optimizer:       optimizer,
		Store:           trips,
		Hub:             hub,
		Depot:           cfg.Depot,
		OptimizeTimeout: cfg.OptimizeTimeout,
		CORSOrigins:     cfg.CORSOrigins,
	})

	// Timeouts are tuned for cold-cache route planning (external API latency).
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("server shutdown")
		}
	}()

	log.WithFields(log.Fields{
		"addr":   srv.Addr,
		"depot":  cfg.Depot.Key(),
		"db":     cfg.DBDriver,
		"cache":  cfg.CacheBackend,
		"routes": routingName(cfg),
	}).Info("Server listening")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func openDB(cfg *config.Config) (*sqlx.DB, error) {
	if cfg.DBDriver == "sqlite" && cfg.DBDSN != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBDSN), 0o755); err != nil {
			return nil, fmt.Errorf("openDB: create data dir: %w", err)
		}
	}

	sqlDB, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, err
	}
	if err := repositories.InitSchema(sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("openDB: %w", err)
	}
	return sqlDB, nil
}

func routingName(cfg *config.Config) string {
	if cfg.ORSAPIKey != "" {
		return "ors/" + cfg.ORSProfile
	}
	return "haversine"
}

// newProvider picks road distances when an ORS key is configured, great-circle
// otherwise, and puts the configured cache in front.
func newProvider(cfg *config.Config, sqlDB *sqlx.DB) (ports.DistanceProvider, func(), error) {
	var inner ports.DistanceProvider
	if cfg.ORSAPIKey != "" {
		ors, err := distance.NewORSDistanceProvider(cfg.ORSAPIKey, cfg.ORSProfile)
		if err != nil {
			return nil, nil, err
		}
		inner = ors
	} else {
		h, err := distance.NewHaversineProvider(cfg.SpeedKmh)
		if err != nil {
			return nil, nil, err
		}
		inner = h
	}

	switch cfg.CacheBackend {
	case "sql":
		if sqlDB == nil {
			return nil, nil, errors.New("CACHE_BACKEND=sql requires a database")
		}
		return distance.NewCachedProvider(inner, cache.NewSQLDistanceCache(sqlDB)), func() {}, nil

	case "redis":
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("redis cache: %w", err)
		}
		client := redis.NewClient(opt)
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("redis cache: ping: %w", err)
		}
		closeFn := func() { client.Close() }
		return distance.NewCachedProvider(inner, cache.NewRedisDistanceCache(client, cfg.CacheTTL)), closeFn, nil
	}

	return inner, func() {}, nil
}
