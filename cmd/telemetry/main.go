package main

import (
	"net/http"
	"time"

	"curvesandbox/internal/config"
	"curvesandbox/internal/shared/logger"
	"curvesandbox/internal/telemetry"
)

func main() {
	log := logger.New("telemetry")
	if err := config.Load(); err != nil {
		log.Fatalf("load env: %v", err)
	}
	addr := config.Getenv("TELEMETRY_ADDR", ":9012")
	store := telemetry.NewStore()

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           telemetry.Handler(store),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("telemetry listening on %s", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server failed: %v", err)
	}
}
