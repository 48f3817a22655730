package handlers

import (
	"net/http"

	"github.com/coinrelay/coinrelay/internal/quota"
)

// StatusSource exposes the quota state without admitting a request.
type StatusSource interface {
	Status() quota.Snapshot
}

// HomeResponse is the service summary served at "/".
type HomeResponse struct {
	Message           string `json:"message"`
	Version           string `json:"version"`
	Documentation     string `json:"documentation"`
	RequestsThisMonth int64  `json:"requests_this_month"`
	MonthlyLimit      int64  `json:"monthly_limit"`
	RateLimit         string `json:"rate_limit"`
}

// QuotaResponse reports the quota counter.
type QuotaResponse struct {
	quota.Snapshot
	WindowSeconds int64 `json:"window_seconds"`
}

// HomeHandler serves the service summary with current quota usage.
func HomeHandler(src StatusSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := src.Status()
		writeJSON(w, http.StatusOK, HomeResponse{
			Message:           "CoinStats API is running",
			Version:           AppVersion,
			Documentation:     "/docs",
			RequestsThisMonth: snap.Count,
			MonthlyLimit:      snap.Limit,
			RateLimit:         "5 requests per second",
		})
	}
}

// QuotaHandler serves the quota snapshot.
func QuotaHandler(src StatusSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := src.Status()
		writeJSON(w, http.StatusOK, QuotaResponse{
			Snapshot:      snap,
			WindowSeconds: int64(snap.Window.Seconds()),
		})
	}
}
