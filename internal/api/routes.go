package api

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes configures all API routes
func SetupRoutes(handler *Handler) *mux.Router {
	r := mux.NewRouter()

	// Health check and metrics
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Indicator routes
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/indicators/{symbol}", handler.GetLatestIndicators).Methods("GET")
	api.HandleFunc("/indicators/{symbol}/{date}", handler.GetIndicators).Methods("GET")
	api.HandleFunc("/hot-stocks", handler.GetHotStocks).Methods("GET")
	api.HandleFunc("/prices/{symbol}", handler.GetPriceHistory).Methods("GET")

	return r
}
