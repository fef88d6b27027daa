package api

import (
	"github.com/gorilla/mux"

	"github.com/garnizeh/gigpay/internal/config"
	"github.com/garnizeh/gigpay/internal/db"
	"github.com/garnizeh/gigpay/internal/payments"
	"github.com/garnizeh/gigpay/internal/reports"
	"github.com/garnizeh/gigpay/internal/repository/sqlite"
)

func SetupRoutes(cfg *config.Config, version, buildTime string, database *db.DB) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Repository
	repo := sqlite.New(database, logger)

	// Engines
	paymentEngine := payments.NewEngine(repo, logger)
	reportEngine := reports.NewEngine(repo, logger)

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(repo, cfg.JWTSecret, cfg.TokenDuration)
	contractsHandler := NewContractsHandler(repo)
	jobsHandler := NewJobsHandler(repo, repo, paymentEngine)
	balancesHandler := NewBalancesHandler(paymentEngine)
	adminHandler := NewAdminHandler(reportEngine)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/auth/signin", authHandler.Signin).Methods("POST")

	// Protected routes: every operation below acts on behalf of a resolved profile
	protected := r.PathPrefix("/").Subrouter()
	protected.Use(ProfileAuthMiddleware(repo, cfg.JWTSecret))

	protected.HandleFunc("/contracts/{id}", contractsHandler.GetByID).Methods("GET")
	protected.HandleFunc("/contracts", contractsHandler.ListActive).Methods("GET")
	protected.HandleFunc("/jobs/unpaid", jobsHandler.ListUnpaid).Methods("GET")
	protected.HandleFunc("/jobs/{job_id}/pay", jobsHandler.Pay).Methods("POST")
	protected.HandleFunc("/balances/deposit/{userId}", balancesHandler.Deposit).Methods("POST")
	protected.HandleFunc("/admin/best-profession", adminHandler.BestProfession).Methods("GET")
	protected.HandleFunc("/admin/best-clients", adminHandler.BestClients).Methods("GET")

	return r
}
