// Command evaluator runs the Evaluator's two cron jobs: a 30s
// process_metrics hook, which has nothing to drain and does no work,
// and a 60s pass that evaluates every alert rule against the hot cache,
// dispatching notifications through the notifier manager on every state
// transition, per spec.md §4.H.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/moniflow/backend/internal/alertstate"
	"github.com/moniflow/backend/internal/config"
	"github.com/moniflow/backend/internal/crypto"
	"github.com/moniflow/backend/internal/evaluator"
	"github.com/moniflow/backend/internal/hotcache"
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

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	cache := hotcache.New(redisClient)
	state := alertstate.New(redisClient)

	var directEmail *notifier.EmailProvider
	if cfg.Notifier.EmailHost != "" {
		directEmail = notifier.NewEmailProvider(
			cfg.Notifier.EmailHost, cfg.Notifier.EmailPort,
			cfg.Notifier.EmailUsername, cfg.Notifier.EmailPassword, cfg.Notifier.EmailFrom,
		)
	}
	dispatcher := notifier.NewManager(time.Duration(cfg.Notifier.DedupCooldownSec)*time.Second, directEmail)

	eval := evaluator.New(rules, cache, state, dispatcher)

	runCtx, runCancel := context.WithCancel(context.Background())
	if err := eval.Start(runCtx); err != nil {
		log.Fatalf("failed to start evaluator: %v", err)
	}
	log.Println("[Evaluator] started: evaluating rules every 60s")

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	log.Println("[Evaluator] shutting down")
	runCancel()
	eval.Stop()
}
