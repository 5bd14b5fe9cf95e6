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

func ListProjects(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := store.ProjectFilter{
			Status:         r.URL.Query().Get("status"),
			OrganizationID: r.URL.Query().Get("organizationId"),
			DepartmentID:   r.URL.Query().Get("departmentId"),
			UserID:         r.URL.Query().Get("userId"),
		}
		projects, err := st.ListProjects(r.Context(), f)
		if err != nil {
			respondStoreErr(w, lg, err)
			return
		}
		respondJSON(w, http.StatusOK, projects)
	}
}

func GetProject(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := st.GetProject(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondStoreErr(w, lg, err)
			return
		}
		respondJSON(w, http.StatusOK, p)
	}
}

type projectReq struct {
	Name                 *string `json:"name"`
	Description          *string `json:"description"`
	Status               *string `json:"status"`
	OrganizationID       *string `json:"organizationId"`
	DepartmentID         *string `json:"departmentId"`
	ManagerID            *string `json:"managerId"`
	StartDate            *string `json:"startDate"`
	EndDate              *string `json:"endDate"`
	IsEnterpriseWide     *bool   `json:"isEnterpriseWide"`
	IsTemplate           *bool   `json:"isTemplate"`
	AllowTimeTracking    *bool   `json:"allowTimeTracking"`
	RequireTaskSelection *bool   `json:"requireTaskSelection"`
	EnableBudgetTracking *bool   `json:"enableBudgetTracking"`
	EnableBilling        *bool   `json:"enableBilling"`
}

func CreateProject(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := authn.FromContext(r.Context())
		var req projectReq
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "malformed JSON body")
			return
		}
		p := models.Project{
			UserID:            id.UserID,
			AllowTimeTracking: true,
		}
		if req.Name != nil {
			p.Name = strings.TrimSpace(*req.Name)
		}
		if req.Description != nil {
			p.Description = *req.Description
		}
		if req.Status != nil {
			p.Status = *req.Status
		}
		p.OrganizationID = req.OrganizationID
		p.DepartmentID = req.DepartmentID
		p.ManagerID = req.ManagerID
		if req.StartDate != nil {
			t, err := parseDate(*req.StartDate)
			if err != nil {
				respondStoreErr(w, lg, store.Invalid("startDate", "invalid date"))
				return
			}
			p.StartDate = &t
		}
		if req.EndDate != nil {
			t, err := parseDate(*req.EndDate)
			if err != nil {
				respondStoreErr(w, lg, store.Invalid("endDate", "invalid date"))
				return
			}
			p.EndDate = &t
		}
		if req.IsEnterpriseWide != nil {
			p.IsEnterpriseWide = *req.IsEnterpriseWide
		}
		if req.IsTemplate != nil {
			p.IsTemplate = *req.IsTemplate
		}
		if req.AllowTimeTracking != nil {
			p.AllowTimeTracking = *req.AllowTimeTracking
		}
		if req.RequireTaskSelection != nil {
			p.RequireTaskSelection = *req.RequireTaskSelection
		}
		if req.EnableBudgetTracking != nil {
			p.EnableBudgetTracking = *req.EnableBudgetTracking
		}
		if req.EnableBilling != nil {
			p.EnableBilling = *req.EnableBilling
		}
		created, err := st.CreateProject(r.Context(), &p)
		if err != nil {
			respondStoreErr(w, lg, err)
			return
		}
		respondJSON(w, http.StatusCreated, created)
	}
}

func UpdateProject(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req projectReq
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "malformed JSON body")
			return
		}
		patch, err := projectPatch(&req)
		if err != nil {
			respondStoreErr(w, lg, err)
			return
		}
		p, err := st.UpdateProject(r.Context(), chi.URLParam(r, "id"), patch)
		if err != nil {
			respondStoreErr(w, lg, err)
			return
		}
		respondJSON(w, http.StatusOK, p)
	}
}

// projectPatch includes only the fields present in the body.
func projectPatch(req *projectReq) (store.Patch, error) {
	patch := store.Patch{}
	if req.Name != nil {
		patch["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		patch["description"] = *req.Description
	}
	if req.Status != nil {
		patch["status"] = *req.Status
	}
	if req.OrganizationID != nil {
		patch["organizationId"] = *req.OrganizationID
	}
	if req.DepartmentID != nil {
		patch["departmentId"] = *req.DepartmentID
	}
	if req.ManagerID != nil {
		patch["managerId"] = *req.ManagerID
	}
	if req.StartDate != nil {
		t, err := parseDate(*req.StartDate)
		if err != nil {
			return nil, store.Invalid("startDate", "invalid date")
		}
		patch["startDate"] = t
	}
	if req.EndDate != nil {
		t, err := parseDate(*req.EndDate)
		if err != nil {
			return nil, store.Invalid("endDate", "invalid date")
		}
		patch["endDate"] = t
	}
	if req.IsEnterpriseWide != nil {
		patch["isEnterpriseWide"] = *req.IsEnterpriseWide
	}
	if req.IsTemplate != nil {
		patch["isTemplate"] = *req.IsTemplate
	}
	if req.AllowTimeTracking != nil {
		patch["allowTimeTracking"] = *req.AllowTimeTracking
	}
	if req.RequireTaskSelection != nil {
		patch["requireTaskSelection"] = *req.RequireTaskSelection
	}
	if req.EnableBudgetTracking != nil {
		patch["enableBudgetTracking"] = *req.EnableBudgetTracking
	}
	if req.EnableBilling != nil {
		patch["enableBilling"] = *req.EnableBilling
	}
	return patch, nil
}

func DeleteProject(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		existed, err := st.DeleteProject(r.Context(), chi.URLParam(r, "id"))
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

func ListProjectEmployees(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := st.ListProjectEmployees(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondStoreErr(w, lg, err)
			return
		}
		respondJSON(w, http.StatusOK, rows)
	}
}

func AssignProjectEmployee(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			EmployeeID string `json:"employeeId"`
		}
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "malformed JSON body")
			return
		}
		if req.EmployeeID == "" {
			respondStoreErr(w, lg, store.Invalid("employeeId", "required"))
			return
		}
		pe, err := st.AssignEmployee(r.Context(), chi.URLParam(r, "id"), req.EmployeeID)
		if err != nil {
			respondStoreErr(w, lg, err)
			return
		}
		respondJSON(w, http.StatusCreated, pe)
	}
}

func UnassignProjectEmployee(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		existed, err := st.UnassignEmployee(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "employeeId"))
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
