package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"phoenix/api"
	"phoenix/internal"
	"phoenix/internal/config"
	"phoenix/internal/container"
	"phoenix/internal/errors"
)

// initDatabase opens the PostgreSQL connection
func initDatabase(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewDefaultLogger()

	c, err := container.New(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to build container: %v", err)
	}
	defer c.Close()

	db, err := initDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = c.InitWithDatabase(ctx, db)
	cancel()
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	opsServer := &http.Server{
		Addr:    ":" + cfg.Ops.Port,
		Handler: api.NewOpsRouter(c),
	}
	go func() {
		logger.Info("[Main] ops endpoints listening on :%s", cfg.Ops.Port)
		if err := opsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("[Main] ops server failed: %v", err)
		}
	}()

	apiServer := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: api.NewServer(c).Handler(),
	}
	go func() {
		logger.Info("[Main] api listening on :%s", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("API server failed: %v", err)
		}
	}()

	// Block until interrupted, then drain both servers
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("[Main] shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("[Main] api shutdown: %v", err)
	}
	if err := opsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("[Main] ops shutdown: %v", err)
	}
}
