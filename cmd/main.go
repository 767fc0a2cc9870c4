package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"food-ordering-system/internal/auth"
	"food-ordering-system/internal/cache"
	"food-ordering-system/internal/config"
	"food-ordering-system/internal/database"
	"food-ordering-system/internal/httpapi"
	"food-ordering-system/internal/logger"
	"food-ordering-system/internal/messaging"
	"food-ordering-system/internal/models"
	"food-ordering-system/internal/server"
	"food-ordering-system/internal/services/audit"
	"food-ordering-system/internal/services/cart"
	"food-ordering-system/internal/services/catalog"
	"food-ordering-system/internal/services/order"
	"food-ordering-system/internal/store"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const serviceName = "food-api"

func main() {
	var (
		mode          = flag.String("mode", "api", "Service mode (api, migrate, audit-subscriber)")
		configPath    = flag.String("config", "config.yaml", "Path to the YAML config file")
		port          = flag.Int("port", 0, "HTTP port (overrides config)")
		maxConcurrent = flag.Int("max-concurrent", 0, "Maximum in-flight requests (overrides config)")
		prefetch      = flag.Int("prefetch", 10, "RabbitMQ prefetch count for audit-subscriber")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *maxConcurrent > 0 {
		cfg.Server.MaxConcurrent = *maxConcurrent
	}

	log := logger.NewWithWriter(*mode, os.Stdout, logger.ParseLevel(cfg.Log.Level))
	requestID := logger.GenerateRequestID()

	log.Info("service_started", fmt.Sprintf("Starting %s", *mode), requestID, map[string]interface{}{
		"mode":           *mode,
		"port":           cfg.Server.Port,
		"max_concurrent": cfg.Server.MaxConcurrent,
		"storage":        cfg.Storage.Driver,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch *mode {
	case "api":
		err = runAPI(ctx, cfg, log)
	case "migrate":
		err = runMigrate(ctx, cfg, log)
	case "audit-subscriber":
		err = runAuditSubscriber(ctx, cfg, log, *prefetch)
	default:
		err = fmt.Errorf("unknown mode: %s", *mode)
	}
	if err != nil {
		log.Error("service_failed", fmt.Sprintf("%s failed", *mode), requestID, err, nil)
		os.Exit(1)
	}

	log.Info("service_stopped", "Service stopped gracefully", requestID, nil)
}

// runAPI serves the HTTP API until ctx is cancelled
func runAPI(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	requestID := logger.GenerateRequestID()

	var (
		st    store.Store
		authn auth.Authenticator
	)
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		foods, principals, err := memorySeed(cfg.Memory)
		if err != nil {
			return fmt.Errorf("invalid memory seed: %w", err)
		}
		st = store.NewMemory(foods...)
		authn = auth.NewStatic(principals)
		log.Info("store_ready", "Using in-memory store", requestID, map[string]interface{}{
			"foods":  len(foods),
			"tokens": len(principals),
		})
	default:
		db, err := database.New(ctx, cfg, log)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer db.Close()
		log.Info("db_connected", "Connected to PostgreSQL database", requestID, nil)

		if err := db.RunMigrations(ctx, cfg.Database.Migrations); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		st = store.NewPostgres(db)
		authn = auth.NewPostgres(db)
	}

	var publisher order.EventPublisher = messaging.NopPublisher{}
	if cfg.RabbitMQ.Enabled {
		conn, err := messaging.Dial(ctx, cfg, log)
		if err != nil {
			return fmt.Errorf("failed to initialize messaging: %w", err)
		}
		defer conn.Close()
		log.Info("rabbitmq_connected", "Connected to RabbitMQ", requestID, nil)
		publisher = messaging.NewPublisher(conn, log)
	}

	var catalogCache cache.Cache = cache.Nop{}
	if cfg.Redis.Enabled {
		rc := cache.NewRedisCache(cfg.Redis, serviceName)
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			// the catalog falls back to the store on every cache error
			log.Warn("redis_unavailable", err.Error(), requestID, nil)
		} else {
			log.Info("redis_connected", "Connected to Redis", requestID, nil)
		}
		catalogCache = rc
	}

	media := httpapi.MediaURLs{BaseURL: cfg.Media.BaseURL, PathPrefix: cfg.Media.PathPrefix}
	handler := server.NewRouter(server.Deps{
		ServiceName:   serviceName,
		MaxConcurrent: cfg.Server.MaxConcurrent,
		Store:         st,
		Auth:          authn,
		Catalog:       catalog.NewHandler(catalog.NewService(st, catalogCache, cfg.Redis.CatalogTTL, log), media, log),
		Cart:          cart.NewHandler(cart.NewService(st, log), media, log),
		Orders:        order.NewHandler(order.NewService(st, publisher, log), log),
		Logger:        log,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: handler,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("service_started", fmt.Sprintf("API listening on port %d", cfg.Server.Port), requestID, map[string]interface{}{
			"port":           cfg.Server.Port,
			"max_concurrent": cfg.Server.MaxConcurrent,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("graceful_shutdown", "Shutting down HTTP server", requestID, nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// runMigrate applies pending migrations and exits
func runMigrate(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	db, err := database.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	return db.RunMigrations(ctx, cfg.Database.Migrations)
}

// runAuditSubscriber logs order events until ctx is cancelled
func runAuditSubscriber(ctx context.Context, cfg *config.Config, log *logger.Logger, prefetch int) error {
	conn, err := messaging.Dial(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}

	consumer := messaging.NewConsumer(conn, log, messaging.AuditQueue, "order-audit", prefetch)
	return audit.NewSubscriber(consumer, log).Start(ctx)
}

// memorySeed converts the memory section of the config into catalog entries and token principals
func memorySeed(cfg config.MemoryConfig) ([]models.FoodItem, map[string]models.Principal, error) {
	foods := make([]models.FoodItem, 0, len(cfg.Foods))
	for i, f := range cfg.Foods {
		price, err := decimal.NewFromString(f.Price)
		if err != nil {
			return nil, nil, fmt.Errorf("food %q: invalid price %q: %w", f.Name, f.Price, err)
		}
		if price.IsNegative() {
			return nil, nil, fmt.Errorf("food %q: price must not be negative", f.Name)
		}
		available := true
		if f.Available != nil {
			available = *f.Available
		}
		foods = append(foods, models.FoodItem{
			ID:          int64(i + 1),
			Name:        f.Name,
			Description: f.Description,
			Price:       price,
			ImagePath:   f.Image,
			Category:    models.Category(f.Category),
			Rating:      f.Rating,
			Available:   available,
		})
	}

	principals := make(map[string]models.Principal, len(cfg.Tokens))
	for _, t := range cfg.Tokens {
		if t.Token == "" {
			return nil, nil, fmt.Errorf("user %d: empty token", t.UserID)
		}
		role, err := models.ParseRole(t.Role)
		if err != nil {
			return nil, nil, fmt.Errorf("user %d: %w", t.UserID, err)
		}
		principals[t.Token] = models.Principal{UserID: t.UserID, Email: t.Email, Role: role}
	}
	return foods, principals, nil
}
