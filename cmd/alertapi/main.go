// Command alertapi runs the AlertAPI HTTP surface: alert rule CRUD
// plus the direct-write metrics endpoint partner services use to push
// samples straight into the hot cache, per spec.md §4.J.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/moniflow/backend/internal/alertapi"
	"github.com/moniflow/backend/internal/config"
	"github.com/moniflow/backend/internal/crypto"
	"github.com/moniflow/backend/internal/hotcache"
	"github.com/moniflow/backend/internal/httpmw"
	"github.com/moniflow/backend/internal/notifier"
	"github.com/moniflow/backend/internal/rulestore"
	"github.com/moniflow/backend/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := crypto.Init(cfg.Notifier.EncryptionKey); err != nil {
		log.Fatalf("failed to initialize encryption: %v", err)
	}

	if err := store.Connect(cfg.SQLite.Path); err != nil {
		log.Fatalf("failed to connect to sqlite: %v", err)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		log.Fatalf("failed to connect to mongo: %v", err)
	}
	defer mongoClient.Disconnect(context.Background())

	rules := rulestore.New(mongoClient.Database(cfg.Mongo.Database))
	if err := rules.SetupIndexes(ctx); err != nil {
		log.Fatalf("failed to set up rule store indexes: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	cache := hotcache.New(redisClient)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(httpmw.Recovery(os.Getenv("MONIFLOW_ENV")))
	app.Use(httpmw.RequestLogger())
	app.Use(httpmw.CORS())

	handler := alertapi.NewHandler(rules, cache)
	handler.RegisterRoutes(app)

	channelHandler := notifier.NewHandler()
	channelHandler.RegisterRoutes(app)

	addr := cfg.Server.Host + ":" + strconv.Itoa(cfg.Server.Port)
	go func() {
		if err := app.Listen(addr); err != nil {
			log.Printf("[AlertAPI] http server stopped: %v", err)
		}
	}()
	log.Printf("[AlertAPI] listening on %s", addr)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	log.Println("[AlertAPI] shutting down")
	_ = app.ShutdownWithTimeout(5 * time.Second)
}
