// Command gateway runs the authenticating reverse proxy in front of
// every other MoniFlow service, per spec.md §4.K.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/moniflow/backend/internal/config"
	"github.com/moniflow/backend/internal/gateway"
	"github.com/moniflow/backend/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := store.Connect(cfg.SQLite.Path); err != nil {
		log.Fatalf("failed to connect to sqlite: %v", err)
	}
	defer store.Close()

	registry := gateway.NewRegistry()
	if err := registry.Seed(); err != nil {
		log.Fatalf("failed to seed service registry: %v", err)
	}

	gw := gateway.New(gateway.Config{
		SecretKey:       cfg.Auth.SecretKey,
		Algorithm:       cfg.Auth.Algorithm,
		UpstreamTimeout: time.Duration(cfg.Gateway.UpstreamTimeoutSec) * time.Second,
		RateLimitPerMin: cfg.Gateway.RateLimitPerMinute,
		PublicPrefixes: []string{
			"user_management/token",
			"user_management/refresh",
			"health",
		},
	}, registry)
	defer gw.Close()

	addr := cfg.Server.Host + ":" + strconv.Itoa(cfg.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: gw.Router(),
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("[Gateway] http server stopped: %v", err)
		}
	}()
	log.Printf("[Gateway] listening on %s", addr)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	log.Println("[Gateway] shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(ctx)
}
