// Command collector runs the CollectorAPI HTTP surface plus the
// BatchFlushers that drain its ingest queues into the hot cache and
// time-series store, per spec.md §4.B/§4.F/§4.G.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/moniflow/backend/internal/collectorapi"
	"github.com/moniflow/backend/internal/config"
	"github.com/moniflow/backend/internal/flusher"
	"github.com/moniflow/backend/internal/hotcache"
	"github.com/moniflow/backend/internal/httpmw"
	"github.com/moniflow/backend/internal/ingestqueue"
	"github.com/moniflow/backend/internal/selfmetrics"
	"github.com/moniflow/backend/internal/tsdb"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	cache := hotcache.New(redisClient)
	writer := tsdb.NewHTTPWriter(cfg.TSDB.URL, cfg.TSDB.Org, cfg.TSDB.Bucket, cfg.TSDB.Token)
	queues := ingestqueue.NewQueues(cfg.Batching.IngestQueueCapacity)

	ctx, cancel := context.WithCancel(context.Background())

	metricFlusher := flusher.NewMetricFlusher(queues.Metrics, cache, writer, flusher.Config{
		BatchSize:     cfg.Batching.MetricBatchSize,
		FlushInterval: time.Duration(cfg.Batching.MetricFlushInterval) * time.Second,
	})
	logFlusher := flusher.NewLogFlusher(queues.Logs, writer, flusher.Config{
		BatchSize:     cfg.Batching.LogBatchSize,
		FlushInterval: time.Duration(cfg.Batching.LogFlushInterval) * time.Second,
	})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		metricFlusher.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		logFlusher.Run(ctx)
	}()

	selfProducer := selfmetrics.New(queues.Metrics, 30*time.Second, hostname())
	wg.Add(1)
	go func() {
		defer wg.Done()
		selfProducer.Run(ctx)
	}()

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(httpmw.Recovery(os.Getenv("MONIFLOW_ENV")))
	app.Use(httpmw.RequestLogger())
	app.Use(httpmw.CORS())

	handler := collectorapi.NewHandler(queues, writer)
	handler.RegisterRoutes(app)

	addr := cfg.Server.Host + ":" + strconv.Itoa(cfg.Server.Port)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.Listen(addr); err != nil {
			log.Printf("[Collector] http server stopped: %v", err)
		}
	}()
	log.Printf("[Collector] listening on %s", addr)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	log.Println("[Collector] shutting down")
	cancel()
	_ = app.ShutdownWithTimeout(5 * time.Second)
	wg.Wait()
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return name
}
