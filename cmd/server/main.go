/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the Hinode Institute POS backend. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load config (.env / environment), then command-line flags on top
  2. Open the SQLite ledger store (lazy-initializes the file)
  3. Wire Recorder, query Engine, and Exporter onto the store
  4. Configure the HTTP router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (overrides POS_PORT, default 8080)
  -db      SQLite ledger path (overrides POS_DATABASE_PATH)
           Use ":memory:" for an in-memory database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close the ledger store
  4. Exit

EXAMPLES:
  # Run with the default file database
  ./server

  # Run against a specific ledger file
  ./server -db="./data/transactions.db"

  # Run with an in-memory database
  ./server -db=":memory:"

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Environment configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hinode/billing-engine/api"
	"github.com/hinode/billing-engine/config"
	"github.com/hinode/billing-engine/export"
	"github.com/hinode/billing-engine/ledger"
	"github.com/hinode/billing-engine/query"
	"github.com/hinode/billing-engine/store/sqlite"
)

func main() {
	cfg := config.Load()

	// Flags override file/env config
	port := flag.Int("port", cfg.Server.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.Database.Path, "SQLite ledger path")
	exportDir := flag.String("export-dir", cfg.Export.Dir, "Directory for exported spreadsheets")
	flag.Parse()

	// Initialize store
	store, err := sqlite.Open(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize ledger store: %v", err)
	}
	defer store.Close()
	log.Printf("Ledger store: %s", *dbPath)

	// Wire domain collaborators onto the one store instance
	recorder := ledger.NewRecorder(store)
	engine := query.NewEngine(store)
	exporter := export.New(engine, *exportDir)

	handler := api.NewHandler(recorder, engine, exporter)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
