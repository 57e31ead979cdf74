package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"itinerary-route-service/internal/adapters/cache"
	"itinerary-route-service/internal/adapters/repositories"
	"itinerary-route-service/internal/adapters/routing"
	"itinerary-route-service/internal/api"
	"itinerary-route-service/internal/config"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/fares"
	"itinerary-route-service/internal/platform/db"
	"itinerary-route-service/internal/ports"
	"itinerary-route-service/internal/services"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// main is the application composition root.
// It wires concrete adapters (Postgres or memory, Google or straight-line,
// Redis or Postgres leg cache) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var database *sql.DB
	if cfg.DatabaseURL != "" {
		database, err = db.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer database.Close()

		if err := repositories.InitSchema(database); err != nil {
			log.Fatal(err)
		}
	}

	store, err := newPlaceStore(cfg, database)
	if err != nil {
		log.Fatal(err)
	}

	provider, closeCache, err := newRouteProvider(cfg, database)
	if err != nil {
		log.Fatal(err)
	}
	defer closeCache()

	lookup := services.NewPlaceLookup(store)
	gateway := services.NewGateway(provider, services.GatewayConfig{
		MaxAttempts: cfg.ProviderMaxAttempts,
		Backoff:     cfg.ProviderBackoff,
		CallTimeout: cfg.ProviderCallTimeout,
		Concurrency: cfg.ProviderConcurrency,
		Location:    cfg.Timezone,
	})

	dayRoutes := services.NewDayRouteComputer(lookup, gateway, cfg.Timezone,
		services.WithFares(fares.DefaultRegistry()),
	)

	var optOpts []services.OptimizerOption
	if cfg.OptimizerCost == config.OptimizerCostProvider {
		optOpts = append(optOpts, services.WithProviderCost(gateway, domain.TravelModeDriving))
	}
	optimizer := services.NewOptimizer(lookup, cfg.Timezone, optOpts...)

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(api.Deps{
		Places:         store,
		DayRoutes:      dayRoutes,
		Planner:        optimizer,
		Regions:        cfg.AllowedRegions,
		RequestTimeout: cfg.RequestTimeout,
	})

	// Write timeout leaves room for the request timeout plus encoding.
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server listening addr=:%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server forced to shut down: %v", err)
	}
	log.Println("server stopped")
}

func newPlaceStore(cfg *config.Config, database *sql.DB) (ports.PlaceStore, error) {
	if database != nil {
		return repositories.NewPostgresPlaceRepository(database), nil
	}
	store, err := repositories.LoadMemoryPlaceRepository(cfg.PlacesSeedPath)
	if err != nil {
		return nil, fmt.Errorf("new place store: %w", err)
	}
	log.Printf("place store: memory seed=%s", cfg.PlacesSeedPath)
	return store, nil
}

// newRouteProvider picks the routing backend and wraps it in the configured
// leg cache. The returned func releases cache connections.
func newRouteProvider(cfg *config.Config, database *sql.DB) (ports.RouteProvider, func(), error) {
	var provider ports.RouteProvider
	if cfg.GoogleAPIKey != "" {
		google, err := routing.NewGoogleRoutesProvider(cfg.GoogleAPIKey)
		if err != nil {
			return nil, nil, fmt.Errorf("new route provider: %w", err)
		}
		provider = google
	} else {
		log.Println("GOOGLE_API_KEY not set; using straight-line estimates")
		provider = routing.NewStraightLineProvider()
	}

	noop := func() {}
	switch cfg.CacheBackend {
	case config.CacheBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("redis ping failed addr=%s err=%v; cache errors will be ignored", cfg.RedisAddr, err)
		}
		cached := routing.NewCachedProvider(provider, cache.NewRedisLegCache(client), cfg.CacheTTL, routing.WithLogger(log.Printf))
		return cached, func() { client.Close() }, nil
	case config.CacheBackendPostgres:
		if database == nil {
			return nil, nil, errors.New("new route provider: postgres cache requires DATABASE_URL")
		}
		cached := routing.NewCachedProvider(provider, cache.NewSQLLegCache(database), cfg.CacheTTL, routing.WithLogger(log.Printf))
		return cached, noop, nil
	default:
		return provider, noop, nil
	}
}
