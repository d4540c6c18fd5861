/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the circle engine server. Handles configuration,
  dependency wiring, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and parse command-line flags
  2. Open the SQLite document store
  3. Start the state service (document subscription)
  4. Configure the HTTP router
  5. Start the server with graceful shutdown

COMMAND-LINE FLAGS / ENVIRONMENT:
  -port / PORT      HTTP server port (default: 8080)
  -db   / DB_PATH   SQLite database path (default: circle.db)
                    Use ":memory:" for an in-memory database
  -doc  / DOC_ID    Document identifier (default: default_group)
  LOG_LEVEL         debug, info, warn, error

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM: stop accepting connections, wait up to 30s for
  active requests, cancel the document subscription, close the store.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/warp/circle-engine/api"
	"github.com/warp/circle-engine/avatar"
	"github.com/warp/circle-engine/pkg/logging"
	"github.com/warp/circle-engine/state"
	"github.com/warp/circle-engine/store"
	"github.com/warp/circle-engine/store/sqlite"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func main() {
	_ = godotenv.Load()
	logging.Setup()

	port := flag.Int("port", getEnvInt("PORT", 8080), "HTTP server port")
	dbPath := flag.String("db", getEnv("DB_PATH", "circle.db"), "SQLite database path")
	docID := flag.String("doc", getEnv("DOC_ID", store.DefaultDocumentID), "Shared document identifier")
	flag.Parse()

	docs, err := sqlite.New(*dbPath)
	if err != nil {
		slog.Error("failed to open document store", "path", *dbPath, "error", err)
		os.Exit(1)
	}
	defer docs.Close()
	slog.Info("document store ready", "path", *dbPath, "doc", *docID)

	svc := state.NewService(state.NewAdapter(docs, *docID), slog.Default())
	if err := svc.Start(context.Background()); err != nil {
		slog.Error("failed to subscribe to document", "error", err)
		os.Exit(1)
	}
	defer svc.Stop()

	handler := api.NewHandler(svc, &avatar.Resizer{})
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}
	slog.Info("server stopped")
}
