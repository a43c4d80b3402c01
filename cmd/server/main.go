package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/xinv4sionx/marketplace/server/internal/assistant"
	"github.com/xinv4sionx/marketplace/server/internal/auth"
	"github.com/xinv4sionx/marketplace/server/internal/config"
	"github.com/xinv4sionx/marketplace/server/internal/database"
	"github.com/xinv4sionx/marketplace/server/internal/handler"
	"github.com/xinv4sionx/marketplace/server/internal/logger"
	"github.com/xinv4sionx/marketplace/server/internal/middleware"
	"github.com/xinv4sionx/marketplace/server/internal/repository"
	"github.com/xinv4sionx/marketplace/server/internal/service"
	"github.com/xinv4sionx/marketplace/server/internal/uploads"
)

// marketStore is what the services need from whichever backend is selected.
type marketStore interface {
	service.UserRepository
	service.SellerRepository
	service.ProductRepository
	service.CatalogRepository
	handler.Pinger
}

// main is the single entry‑point for the REST API.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.NewStructured(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	log.Info("configuration loaded", map[string]interface{}{
		"port":    cfg.Port,
		"store":   cfg.StoreBackend,
		"redis":   cfg.RedisAddr != "",
		"uploads": cfg.UploadsDir,
	})

	ctx := context.Background()

	// Initialize the catalog store
	var store marketStore
	switch cfg.StoreBackend {
	case config.BackendMongo:
		client, err := database.NewMongo(ctx, cfg.MongoURI)
		if err != nil {
			return err
		}
		defer disconnect(client)

		mongoStore := repository.NewMarketMongo(client.Database(cfg.DBName), log)
		if err := mongoStore.EnsureIndexes(ctx); err != nil {
			return err
		}
		store = mongoStore
		log.Info("connected to MongoDB", map[string]interface{}{"db": cfg.DBName})
	default:
		store = repository.NewMarketFile(cfg.DataFile)
		log.Info("using JSON file store", map[string]interface{}{"path": cfg.DataFile})
	}

	// Session revocation lives in Redis when configured so logouts are
	// visible to every instance.
	var (
		revoker auth.Revoker = auth.NewMemoryRevoker()
		cache   handler.Pinger
	)
	if cfg.RedisAddr != "" {
		rdb, err := database.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return err
		}
		defer rdb.Close()
		redisRevoker := auth.NewRedisRevoker(rdb)
		revoker, cache = redisRevoker, redisRevoker
		log.Info("connected to Redis", map[string]interface{}{"addr": cfg.RedisAddr})
	}

	images := uploads.NewStore(cfg.UploadsDir, "/uploads")
	if err := os.MkdirAll(images.Root(), 0o755); err != nil {
		return fmt.Errorf("create uploads dir: %w", err)
	}

	engine := assistant.New(assistant.Options{
		Location: cfg.Location(),
		SignOff:  cfg.AssistantSignOff,
	})

	// Initialize services
	authSvc := service.NewAuthService(store, auth.NewTokenManager(cfg.TokenSecret, cfg.TokenTTL), revoker, log)
	sellerSvc := service.NewSellerService(store, images, log)
	hotlistSvc := service.NewHotlistService(store)
	chatSvc := service.NewChatService(store, engine, log)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		BodyLimit:             uploads.MaxFiles*uploads.MaxFileSize + 1<<20,
		ErrorHandler:          handler.ErrorHandler(log),
		DisableStartupMessage: true,
	})

	// Add middleware
	app.Use(recover.New())
	app.Use(middleware.Logging(log))

	// Register routes
	handler.RegisterRoutes(app, authSvc, sellerSvc, hotlistSvc, chatSvc)

	// Add health check
	handler.NewHealthHandler(store, cache).Register(app)
	handler.RegisterPages(app, cfg.FrontendDir, images.Root())

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info("shutting down", nil)
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	// Start server
	log.Info("server starting", map[string]interface{}{"port": cfg.Port})
	if err := app.Listen(":" + cfg.Port); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}

func disconnect(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = client.Disconnect(ctx)
}
