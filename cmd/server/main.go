package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sudhanshu-m/Admin-Pannel/internal/config"
	internalhttp "github.com/Sudhanshu-m/Admin-Pannel/internal/http"
	"github.com/Sudhanshu-m/Admin-Pannel/internal/kv"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store kv.Store
	switch cfg.KVBackend {
	case "postgres":
		pg, err := kv.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("postgres init failed: %v", err)
		}
		defer pg.Close()
		store = pg
	case "redis":
		rd, err := kv.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Fatalf("redis init failed: %v", err)
		}
		defer func() {
			if err := rd.Close(); err != nil {
				log.Printf("redis close error: %v", err)
			}
		}()
		store = rd
	case "memory":
		store = kv.NewMemoryStore()
	default:
		log.Fatalf("unknown KV_BACKEND %q", cfg.KVBackend)
	}

	server := internalhttp.NewServer(cfg, store)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("dental-college server listening on %s (backend %s)", cfg.HTTPAddr, cfg.KVBackend)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
