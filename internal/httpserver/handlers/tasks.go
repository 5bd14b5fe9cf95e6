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

func ListTasks(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := store.TaskFilter{
			ProjectID:  r.URL.Query().Get("projectId"),
			AssigneeID: r.URL.Query().Get("assigneeId"),
			Status:     r.URL.Query().Get("status"),
		}
		tasks, err := st.ListTasks(r.Context(), f)
		if err != nil {
			respondStoreErr(w, lg, err)
			return
		}
		respondJSON(w, http.StatusOK, tasks)
	}
}

func GetTask(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := st.GetTask(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondStoreErr(w, lg, err)
			return
		}
		respondJSON(w, http.StatusOK, t)
	}
}

type taskReq struct {
	ProjectID      *string  `json:"projectId"`
	Title          *string  `json:"title"`
	Description    *string  `json:"description"`
	Status         *string  `json:"status"`
	Priority       *string  `json:"priority"`
	AssigneeID     *string  `json:"assigneeId"`
	EstimatedHours *float64 `json:"estimatedHours"`
	ActualHours    *float64 `json:"actualHours"`
}

func CreateTask(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := authn.FromContext(r.Context())
		var req taskReq
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "malformed JSON body")
			return
		}
		creator := id.UserID
		t := models.Task{CreatedBy: &creator}
		if req.ProjectID != nil {
			t.ProjectID = *req.ProjectID
		}
		if req.Title != nil {
			t.Title = strings.TrimSpace(*req.Title)
		}
		if req.Description != nil {
			t.Description = *req.Description
		}
		if req.Status != nil {
			t.Status = *req.Status
		}
		if req.Priority != nil {
			t.Priority = *req.Priority
		}
		t.AssigneeID = req.AssigneeID
		if req.EstimatedHours != nil {
			t.EstimatedHours = *req.EstimatedHours
		}
		if req.ActualHours != nil {
			t.ActualHours = *req.ActualHours
		}
		created, err := st.CreateTask(r.Context(), &t)
		if err != nil {
			respondStoreErr(w, lg, err)
			return
		}
		respondJSON(w, http.StatusCreated, created)
	}
}

func UpdateTask(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req taskReq
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "malformed JSON body")
			return
		}
		patch := store.Patch{}
		if req.Title != nil {
			patch["title"] = strings.TrimSpace(*req.Title)
		}
		if req.Description != nil {
			patch["description"] = *req.Description
		}
		if req.Status != nil {
			patch["status"] = *req.Status
		}
		if req.Priority != nil {
			patch["priority"] = *req.Priority
		}
		if req.AssigneeID != nil {
			patch["assigneeId"] = *req.AssigneeID
		}
		if req.EstimatedHours != nil {
			patch["estimatedHours"] = *req.EstimatedHours
		}
		if req.ActualHours != nil {
			patch["actualHours"] = *req.ActualHours
		}
		t, err := st.UpdateTask(r.Context(), chi.URLParam(r, "id"), patch)
		if err != nil {
			respondStoreErr(w, lg, err)
			return
		}
		respondJSON(w, http.StatusOK, t)
	}
}

func DeleteTask(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		existed, err := st.DeleteTask(r.Context(), chi.URLParam(r, "id"))
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
