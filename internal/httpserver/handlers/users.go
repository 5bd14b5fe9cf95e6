package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"tempo/internal/authz"
	"tempo/internal/store"
)

// Me returns the caller's own user row plus its permission set.
func Me(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := caller(st, r)
		if err != nil {
			respondStoreErr(w, lg, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{
			"user":        u,
			"permissions": authz.Permissions(u.Role),
		})
	}
}
