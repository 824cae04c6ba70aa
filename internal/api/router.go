package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rferraz/Wallet-Analytics-Backend/internal/api/handlers"
	custommiddleware "github.com/rferraz/Wallet-Analytics-Backend/internal/api/middleware"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/config"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/refresh"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/repository"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	systemService *service.SystemService,
	walletService *service.WalletService,
	importService *service.ImportService,
	settingsRepo *repository.SettingsRepository,
	refresher *refresh.Refresher,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/wallet", func(r chi.Router) {
			walletHandler := handlers.NewWalletHandler(walletService)
			r.Get("/", walletHandler.Wallet)
			r.Get("/summary", walletHandler.Summary)
			r.Get("/equity", walletHandler.Equity)
			r.Get("/drawdown", walletHandler.Drawdown)
			r.Get("/performance", walletHandler.Performance)
		})

		refreshHandler := handlers.NewRefreshHandler(refresher, walletService)
		r.Post("/refresh", refreshHandler.Refresh)

		r.Route("/developer", func(r chi.Router) {
			developerHandler := handlers.NewDeveloperHandler(importService, settingsRepo)
			r.Post("/import/prices", developerHandler.ImportPrices)
			r.Post("/import/dividends", developerHandler.ImportDividends)
			r.Put("/provider-token", developerHandler.SetProviderToken)
		})
	})

	return r
}
