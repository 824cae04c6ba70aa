package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rferraz/Wallet-Analytics-Backend/internal/api"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/config"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/database"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/engine"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/refresh"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/repository"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/security"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/service"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/yahoo"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection and bring the schema up to date
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Token encryption is optional; without a key the provider token
	// endpoints report an explicit error instead of storing plaintext.
	var cipher *security.TokenCipher
	if cfg.Security.FernetKey != "" {
		cipher, err = security.NewTokenCipher(cfg.Security.FernetKey)
		if err != nil {
			log.Fatalf("Failed to load fernet key: %v", err)
		}
	}

	// Create repositories
	seriesRepo := repository.NewSeriesRepository(db)
	settingsRepo := repository.NewSettingsRepository(db, cipher)

	// Create services
	providerToken, err := settingsRepo.GetProviderToken()
	if err != nil {
		log.Printf("Ignoring stored provider token: %v", err)
	}
	yahooClient := yahoo.NewFinanceClient(providerToken)

	systemService := service.NewSystemService(db)
	walletService := service.NewWalletService(engine.NewEngine(), seriesRepo, cfg.Wallet.HoldingsPath)
	importService := service.NewImportService(seriesRepo)
	refresher := refresh.NewRefresher(yahooClient, seriesRepo, cfg.Wallet.OutputDir)

	// Scheduled market-data refresh
	if cfg.Refresh.Enabled {
		if err := refresher.StartSchedule(cfg.Refresh.CronSpec, walletService.Holdings); err != nil {
			log.Fatalf("Failed to start refresh schedule: %v", err)
		}
		defer refresher.Stop()
	}

	// Create router
	router := api.NewRouter(systemService, walletService, importService, settingsRepo, refresher, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // refresh requests wait for the provider
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
