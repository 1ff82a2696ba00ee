package main

import (
	"context"
	"net/http"
	"time"

	"curvesandbox/internal/config"
	"curvesandbox/internal/shared/logger"
	"curvesandbox/internal/telemetry"
)

func main() {
	log := logger.New("sandboxd")
	if err := config.Load(); err != nil {
		log.Fatalf("load env: %v", err)
	}
	cfg := config.LoadSandbox()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := newServer(ctx, cfg, log, telemetry.NewClient(cfg.TelemetryURL))
	go s.sessions.Run(ctx, time.Minute, cfg.SessionIdle)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("sandbox server listening on %s (fps=%d replication_hz=%d telemetry=%q)",
		cfg.Addr, cfg.FPS, cfg.ReplicationHz, cfg.TelemetryURL)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server failed: %v", err)
	}
}
