package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/trogers1052/stock-indicator-system/internal/cache"
	"github.com/trogers1052/stock-indicator-system/internal/database"
)

const defaultPriceHistoryLimit = 30

// Handler holds dependencies for HTTP handlers
type Handler struct {
	db    *database.DB
	cache *cache.Cache
}

// NewHandler creates a new Handler. The cache may be nil; hot-stock requests
// then always hit the database.
func NewHandler(db *database.DB, c *cache.Cache) *Handler {
	return &Handler{
		db:    db,
		cache: c,
	}
}

// GetLatestIndicators handles GET /indicators/{symbol}
func (h *Handler) GetLatestIndicators(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	symbol := vars["symbol"]

	record, err := h.db.GetLatestIndicatorRecord(symbol)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	respondJSON(w, http.StatusOK, record)
}

// GetIndicators handles GET /indicators/{symbol}/{date}
func (h *Handler) GetIndicators(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	symbol := vars["symbol"]

	date, err := time.Parse("2006-01-02", vars["date"])
	if err != nil {
		http.Error(w, "invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	record, err := h.db.GetIndicatorRecord(symbol, date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	respondJSON(w, http.StatusOK, record)
}

// GetHotStocks handles GET /hot-stocks
func (h *Handler) GetHotStocks(w http.ResponseWriter, r *http.Request) {
	date, err := h.db.GetLatestDate()
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	if h.cache != nil {
		if hot, ok := h.cache.GetHotStocks(r.Context(), date); ok {
			respondJSON(w, http.StatusOK, hot)
			return
		}
	}

	hot, err := h.db.GetHotStocks(date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if h.cache != nil {
		h.cache.SetHotStocks(r.Context(), date, hot)
	}

	respondJSON(w, http.StatusOK, hot)
}

// GetPriceHistory handles GET /prices/{symbol}
func (h *Handler) GetPriceHistory(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	symbol := vars["symbol"]

	limit := defaultPriceHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	bars, err := h.db.GetPriceHistory(symbol, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, bars)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
