package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"tempo/internal/config"
	"tempo/internal/store"
)

// Health is unauthenticated. The database field distinguishes the fallback
// store (expected when development runs without a database) from a relational
// store that stopped answering. In on-premises mode anything but "ok" is a
// critical ongoing condition and reports 503.
func Health(cfg *config.Config, st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dbStatus := "ok"
		if err := st.HealthCheck(r.Context()); err != nil {
			if _, ok := st.(*store.Fallback); ok {
				dbStatus = "fallback"
			} else {
				dbStatus = "unavailable"
			}
		}
		body := map[string]string{
			"status":   "ok",
			"mode":     cfg.Mode,
			"database": dbStatus,
		}
		if cfg.OnPrem() && dbStatus != "ok" {
			body["status"] = "degraded"
			respondJSON(w, http.StatusServiceUnavailable, body)
			return
		}
		respondJSON(w, http.StatusOK, body)
	}
}
