package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"tempo/internal/authn"
	"tempo/internal/store"
)

func DashboardStats(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := authn.FromContext(r.Context())
		stats, err := st.DashboardStats(r.Context(), id.UserID)
		if err != nil {
			respondStoreErr(w, lg, err)
			return
		}
		respondJSON(w, http.StatusOK, stats)
	}
}

func DashboardActivity(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		items, err := st.RecentActivity(r.Context(), limit)
		if err != nil {
			respondStoreErr(w, lg, err)
			return
		}
		respondJSON(w, http.StatusOK, items)
	}
}

func DashboardDepartmentHours(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := st.DepartmentHours(r.Context())
		if err != nil {
			respondStoreErr(w, lg, err)
			return
		}
		respondJSON(w, http.StatusOK, rows)
	}
}
