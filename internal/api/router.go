package api

import (
	"loan-interest-engine/internal/api/handler"
	mw "loan-interest-engine/internal/api/middleware"
	"loan-interest-engine/internal/config"
	"loan-interest-engine/internal/domain/loan"
	"loan-interest-engine/internal/domain/rate"
	"log/slog"
	"net/http"
	"time"

	_ "loan-interest-engine/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/traceid"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func SetupRouter(loanService loan.LoanService, rateService rate.RateService, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(router, cfg, logger)
	setupMetricsEndpoint(router, cfg, logger)
	setupLoanRoutes(router, loanService, cfg, logger)
	setupRateRoutes(router, rateService, cfg, logger)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	setupSwaggerEndpoint(router, logger)

	return router
}

func setupMiddleware(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(mw.NewRateLimiterMiddleware(cfg.Server.RateLimit, logger).Middleware)
	router.Use(mw.MetricsMiddleware())
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupSwaggerEndpoint(router *chi.Mux, logger *slog.Logger) {
	logger.Info("Setting up Swagger UI endpoint", "path", "/swagger/")
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
}

func setupLoanRoutes(router *chi.Mux, loanService loan.LoanService, cfg *config.Config, logger *slog.Logger) {
	loanHandler := handler.NewLoanHandler(loanService, logger)
	authHandler := handler.NewAuthHandler(*cfg, logger)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/token", authHandler.GenerateBearerToken)
	})

	router.Route("/loans", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/", loanHandler.CreateLoan)
		r.Get("/{loanID}", loanHandler.GetLoan)
		r.Get("/{loanID}/schedule", loanHandler.GetSchedule)
		r.Get("/{loanID}/schedule/export", loanHandler.ExportSchedule)
		r.Get("/{loanID}/reset-dates", loanHandler.GetResetDates)
		r.Post("/{loanID}/payments", loanHandler.RecordPayment)
		r.Get("/{loanID}/payments", loanHandler.ListPayments)
		r.Put("/{loanID}/elections/{periodNumber}", loanHandler.SetPIKElection)
	})
}

func setupRateRoutes(router *chi.Mux, rateService rate.RateService, cfg *config.Config, logger *slog.Logger) {
	rateHandler := handler.NewRateHandler(rateService, logger)

	router.Route("/rates", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/", rateHandler.AddRate)
		r.Put("/", rateHandler.UpdateRate)
		r.Get("/", rateHandler.ListRates)
	})
}
