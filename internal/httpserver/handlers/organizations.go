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

func ListOrganizations(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgs, err := st.ListOrganizations(r.Context())
		if err != nil {
			respondStoreErr(w, lg, err)
			return
		}
		respondJSON(w, http.StatusOK, orgs)
	}
}

func GetOrganization(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		o, err := st.GetOrganization(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondStoreErr(w, lg, err)
			return
		}
		respondJSON(w, http.StatusOK, o)
	}
}

type organizationReq struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func CreateOrganization(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := authn.FromContext(r.Context())
		var req organizationReq
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "malformed JSON body")
			return
		}
		o := models.Organization{UserID: id.UserID}
		if req.Name != nil {
			o.Name = strings.TrimSpace(*req.Name)
		}
		if req.Description != nil {
			o.Description = *req.Description
		}
		created, err := st.CreateOrganization(r.Context(), &o)
		if err != nil {
			respondStoreErr(w, lg, err)
			return
		}
		respondJSON(w, http.StatusCreated, created)
	}
}

func UpdateOrganization(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req organizationReq
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "malformed JSON body")
			return
		}
		patch := store.Patch{}
		if req.Name != nil {
			patch["name"] = strings.TrimSpace(*req.Name)
		}
		if req.Description != nil {
			patch["description"] = *req.Description
		}
		o, err := st.UpdateOrganization(r.Context(), chi.URLParam(r, "id"), patch)
		if err != nil {
			respondStoreErr(w, lg, err)
			return
		}
		respondJSON(w, http.StatusOK, o)
	}
}

func DeleteOrganization(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		existed, err := st.DeleteOrganization(r.Context(), chi.URLParam(r, "id"))
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
