package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"course-enrolment/internal/dialogs"
)

// JSON response helpers
func jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger().Error("ERROR: Failed to encode JSON response", zap.Error(err))
	}
}

func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

type HealthHandler struct {
	dialogs *dialogs.Registry
	ping    func(ctx context.Context) error
}

// NewHealthHandler reports liveness; ping, when set, checks the lead store.
func NewHealthHandler(reg *dialogs.Registry, ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{dialogs: reg, ping: ping}
}

// GET /healthz
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			logger().Warn("Health check failed", zap.Error(err))
			jsonResponse(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status": "unavailable",
				"error":  err.Error(),
			})
			return
		}
	}
	jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":       "ok",
		"open_dialogs": h.dialogs.Len(),
	})
}
