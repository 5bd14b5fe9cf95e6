package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"tempo/internal/authn"
	"tempo/internal/models"
	"tempo/internal/store"
)

func AdminListUsers(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := st.ListUsers(r.Context())
		if err != nil {
			respondStoreErr(w, lg, err)
			return
		}
		respondJSON(w, http.StatusOK, users)
	}
}

type adminUserReq struct {
	Email          *string `json:"email"`
	FirstName      *string `json:"firstName"`
	LastName       *string `json:"lastName"`
	Role           *string `json:"role"`
	IsActive       *bool   `json:"isActive"`
	OrganizationID *string `json:"organizationId"`
}

func AdminCreateUser(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req adminUserReq
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "malformed JSON body")
			return
		}
		u := models.User{IsActive: true}
		if req.Email != nil {
			u.Email = *req.Email
		}
		if req.FirstName != nil {
			u.FirstName = *req.FirstName
		}
		if req.LastName != nil {
			u.LastName = *req.LastName
		}
		if req.Role != nil {
			u.Role = *req.Role
		}
		if req.IsActive != nil {
			u.IsActive = *req.IsActive
		}
		u.OrganizationID = req.OrganizationID
		created, err := st.CreateUser(r.Context(), &u)
		if err != nil {
			respondStoreErr(w, lg, err)
			return
		}
		respondJSON(w, http.StatusCreated, created)
	}
}

// AdminUpdateUser changes role and account fields. An admin may not demote
// their own account below admin.
func AdminUpdateUser(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := authn.FromContext(r.Context())
		targetID := chi.URLParam(r, "id")
		var req adminUserReq
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "malformed JSON body")
			return
		}
		if req.Role != nil && targetID == id.UserID && *req.Role != models.RoleAdmin {
			respondStoreErr(w, lg, store.Invalid("role", "cannot demote your own admin account"))
			return
		}
		patch := store.Patch{}
		if req.Email != nil {
			patch["email"] = *req.Email
		}
		if req.FirstName != nil {
			patch["firstName"] = *req.FirstName
		}
		if req.LastName != nil {
			patch["lastName"] = *req.LastName
		}
		if req.Role != nil {
			patch["role"] = *req.Role
		}
		if req.IsActive != nil {
			patch["isActive"] = *req.IsActive
		}
		if req.OrganizationID != nil {
			patch["organizationId"] = *req.OrganizationID
		}
		u, err := st.UpdateUser(r.Context(), targetID, patch)
		if err != nil {
			respondStoreErr(w, lg, err)
			return
		}
		respondJSON(w, http.StatusOK, u)
	}
}

func AdminDeleteUser(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := authn.FromContext(r.Context())
		targetID := chi.URLParam(r, "id")
		if targetID == id.UserID {
			respondStoreErr(w, lg, store.Invalid("id", "cannot delete your own account"))
			return
		}
		existed, err := st.DeleteUser(r.Context(), targetID)
		if err != nil {
			respondStoreErr(w, lg, err)
			return
		}
		if !existed {
			respondError(w, http.StatusNotFound, "not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
