package authz

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"tempo/internal/authn"
	"tempo/internal/models"
	"tempo/internal/store"
)

// permissions maps each role to its fixed permission set. An unrecognized
// role gets the employee set.
var permissions = map[string][]string{
	models.RoleAdmin: {
		"users:manage", "organizations:write", "departments:write", "employees:write",
		"projects:write", "tasks:write", "timeentries:write", "timeentries:approve",
		"reports:view",
	},
	models.RoleManager: {
		"organizations:write", "departments:write", "employees:write",
		"projects:write", "tasks:write", "timeentries:write", "timeentries:approve",
		"reports:view",
	},
	models.RoleProjectManager: {
		"projects:write", "tasks:write", "timeentries:write", "reports:view",
	},
	models.RoleEmployee: {
		"timeentries:write",
	},
	models.RoleViewer: {},
}

// Permissions returns a copy of the role's permission set.
func Permissions(role string) []string {
	set, ok := permissions[role]
	if !ok {
		set = permissions[models.RoleEmployee]
	}
	out := make([]string, len(set))
	copy(out, set)
	return out
}

func HasPermission(role, perm string) bool {
	for _, p := range Permissions(role) {
		if p == perm {
			return true
		}
	}
	return false
}

func roleAllowed(role string, allowed []string) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

// Require gates a mutating route on an explicit allow-list. The caller's
// current role is loaded from storage on every call, so a role change takes
// effect immediately, and the check runs before any write can happen.
func Require(st store.Store, lg *zap.SugaredLogger, allowed ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := authn.FromContext(r.Context())
			if !ok {
				reject(w, http.StatusUnauthorized, "authentication required")
				return
			}
			user, err := st.GetUser(r.Context(), id.UserID)
			if err == store.ErrNotFound {
				reject(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if err != nil {
				lg.Errorw("role lookup failed", "user", id.UserID, "error", err)
				reject(w, http.StatusInternalServerError, "internal server error")
				return
			}
			if !user.IsActive || !roleAllowed(user.Role, allowed) {
				reject(w, http.StatusForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func reject(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
