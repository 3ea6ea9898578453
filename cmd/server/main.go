// Command server runs the JobNest gateway: the job listing pipeline, the
// feature API and a websocket relay of live notifications, served over HTTP
// for a local UI.
package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"jobnest/internal/app"
	"jobnest/internal/config"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	addr, err := app.ListenAddr(cfg.App.HTTPPort)
	if err != nil {
		log.Fatalf("invalid HTTP port: %v", err)
	}

	gateway, cleanup, err := app.Bootstrap(cfg)
	if err != nil {
		log.Fatalf("failed to bootstrap app: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		gateway.Container.Logger.Printf("[Server] listening addr=%s api=%s ws=%s", addr, cfg.API.BaseURL, cfg.Realtime.URL)
		errCh <- gateway.Fiber.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Printf("server error: %v", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := gateway.Fiber.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			log.Printf("shutdown error: %v", err)
		}
		cancel()
	}

	if err := cleanup(); err != nil {
		log.Printf("cleanup error: %v", err)
	}
}
