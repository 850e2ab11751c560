/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the attendance engine server. Handles
  configuration, dependency wiring, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env / environment)
  2. Open the SQLite store
  3. Seed the deadline-day setting when DEADLINE_DAY is set
  4. Wire engine, recorder, ledger, mutation queue, handlers
  5. Start the HTTP server with graceful shutdown

ENVIRONMENT:
  PORT           HTTP server port (default: 8080)
  DATABASE_PATH  SQLite database path (default: attendance.db)
  TIMEZONE       Organization timezone (default: Local)
  QUEUE_DELAY    Inter-mutation delay (default: 300ms)
  DEADLINE_DAY   Submission deadline day, 1-28 (default: 25)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM: stop accepting connections, wait for in-flight
  requests (30s), flush the mutation queue, close the database.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tempo/attendance-engine/api"
	"github.com/tempo/attendance-engine/attendance"
	"github.com/tempo/attendance-engine/config"
	"github.com/tempo/attendance-engine/queue"
	"github.com/tempo/attendance-engine/status"
	"github.com/tempo/attendance-engine/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	store, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		logrus.Fatalf("failed to initialize database: %v", err)
	}
	defer store.Close()

	if cfg.DeadlineDaySet {
		if err := store.SaveSettings(context.Background(), attendance.Settings{DeadlineDay: cfg.DeadlineDay}); err != nil {
			logrus.Fatalf("failed to seed settings: %v", err)
		}
	}

	engine := attendance.NewEngine(cfg.Timezone)
	recorder := attendance.NewRecorder(engine, store, store)

	ledger := status.NewLedger(store)
	ledger.Today = func() attendance.Date { return attendance.Today(cfg.Timezone) }

	// One queue per write target; punches for this store serialize here.
	punchQueue := queue.New("punches", cfg.QueueDelay)

	handler := api.NewHandler(recorder, ledger, store, punchQueue)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logrus.Infof("server starting on http://localhost:%d", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.Fatalf("server forced to shutdown: %v", err)
	}

	// Let queued punches land before the database closes.
	punchQueue.Wait()

	logrus.Info("server stopped")
}
