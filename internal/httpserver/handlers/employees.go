package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"tempo/internal/models"
	"tempo/internal/store"
)

func ListEmployees(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := store.EmployeeFilter{Department: r.URL.Query().Get("department")}
		emps, err := st.ListEmployees(r.Context(), f)
		if err != nil {
			respondStoreErr(w, lg, err)
			return
		}
		respondJSON(w, http.StatusOK, emps)
	}
}

func GetEmployee(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := st.GetEmployee(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondStoreErr(w, lg, err)
			return
		}
		respondJSON(w, http.StatusOK, e)
	}
}

type employeeReq struct {
	EmployeeID *string `json:"employeeId"`
	FirstName  *string `json:"firstName"`
	LastName   *string `json:"lastName"`
	Department *string `json:"department"`
	UserID     *string `json:"userId"`
}

func CreateEmployee(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req employeeReq
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "malformed JSON body")
			return
		}
		e := models.Employee{}
		if req.EmployeeID != nil {
			e.EmployeeID = strings.TrimSpace(*req.EmployeeID)
		}
		if req.FirstName != nil {
			e.FirstName = strings.TrimSpace(*req.FirstName)
		}
		if req.LastName != nil {
			e.LastName = *req.LastName
		}
		if req.Department != nil {
			e.Department = *req.Department
		}
		e.UserID = req.UserID
		created, err := st.CreateEmployee(r.Context(), &e)
		if err != nil {
			respondStoreErr(w, lg, err)
			return
		}
		respondJSON(w, http.StatusCreated, created)
	}
}

func UpdateEmployee(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req employeeReq
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "malformed JSON body")
			return
		}
		patch := store.Patch{}
		if req.EmployeeID != nil {
			patch["employeeId"] = strings.TrimSpace(*req.EmployeeID)
		}
		if req.FirstName != nil {
			patch["firstName"] = strings.TrimSpace(*req.FirstName)
		}
		if req.LastName != nil {
			patch["lastName"] = *req.LastName
		}
		if req.Department != nil {
			patch["department"] = *req.Department
		}
		if req.UserID != nil {
			patch["userId"] = *req.UserID
		}
		e, err := st.UpdateEmployee(r.Context(), chi.URLParam(r, "id"), patch)
		if err != nil {
			respondStoreErr(w, lg, err)
			return
		}
		respondJSON(w, http.StatusOK, e)
	}
}

func DeleteEmployee(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		existed, err := st.DeleteEmployee(r.Context(), chi.URLParam(r, "id"))
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
