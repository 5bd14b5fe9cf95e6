package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"tempo/internal/authn"
	"tempo/internal/models"
	"tempo/internal/store"
)

func ListDepartments(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deps, err := st.ListDepartments(r.Context())
		if err != nil {
			respondStoreErr(w, lg, err)
			return
		}
		respondJSON(w, http.StatusOK, deps)
	}
}

func GetDepartment(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := st.GetDepartment(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondStoreErr(w, lg, err)
			return
		}
		respondJSON(w, http.StatusOK, d)
	}
}

type departmentReq struct {
	Name           *string `json:"name"`
	OrganizationID *string `json:"organizationId"`
	ManagerID      *string `json:"managerId"`
}

func CreateDepartment(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := authn.FromContext(r.Context())
		var req departmentReq
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "malformed JSON body")
			return
		}
		d := models.Department{UserID: id.UserID}
		if req.Name != nil {
			d.Name = strings.TrimSpace(*req.Name)
		}
		if req.OrganizationID != nil {
			d.OrganizationID = *req.OrganizationID
		}
		d.ManagerID = req.ManagerID
		created, err := st.CreateDepartment(r.Context(), &d)
		if err != nil {
			respondStoreErr(w, lg, err)
			return
		}
		respondJSON(w, http.StatusCreated, created)
	}
}

func UpdateDepartment(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req departmentReq
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "malformed JSON body")
			return
		}
		patch := store.Patch{}
		if req.Name != nil {
			patch["name"] = strings.TrimSpace(*req.Name)
		}
		if req.OrganizationID != nil {
			patch["organizationId"] = *req.OrganizationID
		}
		if req.ManagerID != nil {
			patch["managerId"] = *req.ManagerID
		}
		d, err := st.UpdateDepartment(r.Context(), chi.URLParam(r, "id"), patch)
		if err != nil {
			respondStoreErr(w, lg, err)
			return
		}
		respondJSON(w, http.StatusOK, d)
	}
}

func DeleteDepartment(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		existed, err := st.DeleteDepartment(r.Context(), chi.URLParam(r, "id"))
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
