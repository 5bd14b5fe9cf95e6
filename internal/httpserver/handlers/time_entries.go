package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"tempo/internal/authn"
	"tempo/internal/models"
	"tempo/internal/store"
)

func canManageEntries(role string) bool {
	return role == models.RoleAdmin || role == models.RoleManager
}

func caller(st store.Store, r *http.Request) (*models.User, error) {
	id, ok := authn.FromContext(r.Context())
	if !ok {
		return nil, store.ErrNotFound
	}
	return st.GetUser(r.Context(), id.UserID)
}

// ListTimeEntries scopes results to the caller's own entries unless the
// caller is an admin or manager.
func ListTimeEntries(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := caller(st, r)
		if err != nil {
			respondStoreErr(w, lg, err)
			return
		}
		f := store.TimeEntryFilter{
			ProjectID: r.URL.Query().Get("projectId"),
			Status:    r.URL.Query().Get("status"),
		}
		if canManageEntries(u.Role) {
			f.UserID = r.URL.Query().Get("userId")
		} else {
			f.UserID = u.ID
		}
		if s := r.URL.Query().Get("from"); s != "" {
			if t, err := parseDate(s); err == nil {
				f.From = &t
			}
		}
		if s := r.URL.Query().Get("to"); s != "" {
			if t, err := parseDate(s); err == nil {
				f.To = &t
			}
		}
		entries, err := st.ListTimeEntries(r.Context(), f)
		if err != nil {
			respondStoreErr(w, lg, err)
			return
		}
		respondJSON(w, http.StatusOK, entries)
	}
}

func GetTimeEntry(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := caller(st, r)
		if err != nil {
			respondStoreErr(w, lg, err)
			return
		}
		e, err := st.GetTimeEntry(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondStoreErr(w, lg, err)
			return
		}
		if e.UserID != u.ID && !canManageEntries(u.Role) {
			respondError(w, http.StatusNotFound, "not found")
			return
		}
		respondJSON(w, http.StatusOK, e)
	}
}

type timeEntryReq struct {
	UserID        *string  `json:"userId"`
	ProjectID     *string  `json:"projectId"`
	TaskID        *string  `json:"taskId"`
	Date          *string  `json:"date"`
	Hours         *float64 `json:"hours"`
	Duration      *float64 `json:"duration"`
	StartTime     *string  `json:"startTime"`
	EndTime       *string  `json:"endTime"`
	Description   *string  `json:"description"`
	Status        *string  `json:"status"`
	IsBillable    *bool    `json:"isBillable"`
	IsApproved    *bool    `json:"isApproved"`
	IsManualEntry *bool    `json:"isManualEntry"`
	IsTimerEntry  *bool    `json:"isTimerEntry"`
	IsTemplate    *bool    `json:"isTemplate"`
}

func CreateTimeEntry(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := caller(st, r)
		if err != nil {
			respondStoreErr(w, lg, err)
			return
		}
		var req timeEntryReq
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "malformed JSON body")
			return
		}
		e := models.TimeEntry{UserID: u.ID, IsManualEntry: true}
		// only admins and managers can log hours on someone else's behalf
		if req.UserID != nil && *req.UserID != u.ID {
			if !canManageEntries(u.Role) {
				respondError(w, http.StatusForbidden, "cannot create entries for another user")
				return
			}
			e.UserID = *req.UserID
		}
		e.ProjectID = req.ProjectID
		e.TaskID = req.TaskID
		if req.Date != nil {
			t, err := parseDate(*req.Date)
			if err != nil {
				respondStoreErr(w, lg, store.Invalid("date", "invalid date"))
				return
			}
			e.Date = t
		}
		if req.Hours != nil {
			e.Hours = *req.Hours
		}
		if req.Duration != nil {
			e.Duration = *req.Duration
		}
		if req.StartTime != nil {
			t, err := time.Parse(time.RFC3339, *req.StartTime)
			if err != nil {
				respondStoreErr(w, lg, store.Invalid("startTime", "invalid timestamp"))
				return
			}
			e.StartTime = &t
		}
		if req.EndTime != nil {
			t, err := time.Parse(time.RFC3339, *req.EndTime)
			if err != nil {
				respondStoreErr(w, lg, store.Invalid("endTime", "invalid timestamp"))
				return
			}
			e.EndTime = &t
		}
		if req.Description != nil {
			e.Description = *req.Description
		}
		if req.Status != nil {
			e.Status = *req.Status
		}
		if req.IsBillable != nil {
			e.IsBillable = *req.IsBillable
		}
		if req.IsManualEntry != nil {
			e.IsManualEntry = *req.IsManualEntry
		}
		if req.IsTimerEntry != nil {
			e.IsTimerEntry = *req.IsTimerEntry
		}
		if req.IsTemplate != nil {
			e.IsTemplate = *req.IsTemplate
		}
		// approval flags are reserved for approvers
		if canManageEntries(u.Role) && req.IsApproved != nil {
			e.IsApproved = *req.IsApproved
		}
		created, err := st.CreateTimeEntry(r.Context(), &e)
		if err != nil {
			respondStoreErr(w, lg, err)
			return
		}
		respondJSON(w, http.StatusCreated, created)
	}
}

// loadOwnedEntry fetches the entry and enforces ownership and the
// approved-entry lock for callers below manager.
func loadOwnedEntry(st store.Store, r *http.Request, u *models.User) (*models.TimeEntry, int, string) {
	e, err := st.GetTimeEntry(r.Context(), chi.URLParam(r, "id"))
	if err == store.ErrNotFound {
		return nil, http.StatusNotFound, "not found"
	}
	if err != nil {
		return nil, http.StatusInternalServerError, "internal server error"
	}
	if e.UserID != u.ID && !canManageEntries(u.Role) {
		return nil, http.StatusNotFound, "not found"
	}
	if (e.Status == models.EntryApproved || e.IsApproved) && !canManageEntries(u.Role) {
		return nil, http.StatusBadRequest, "entry is approved and locked"
	}
	return e, 0, ""
}

func UpdateTimeEntry(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := caller(st, r)
		if err != nil {
			respondStoreErr(w, lg, err)
			return
		}
		if _, status, msg := loadOwnedEntry(st, r, u); status != 0 {
			respondError(w, status, msg)
			return
		}
		var req timeEntryReq
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "malformed JSON body")
			return
		}
		patch := store.Patch{}
		if req.ProjectID != nil {
			patch["projectId"] = *req.ProjectID
		}
		if req.TaskID != nil {
			patch["taskId"] = *req.TaskID
		}
		if req.Date != nil {
			t, err := parseDate(*req.Date)
			if err != nil {
				respondStoreErr(w, lg, store.Invalid("date", "invalid date"))
				return
			}
			patch["date"] = t
		}
		if req.Hours != nil {
			patch["hours"] = *req.Hours
		}
		if req.Duration != nil {
			patch["duration"] = *req.Duration
		}
		if req.StartTime != nil {
			t, err := time.Parse(time.RFC3339, *req.StartTime)
			if err != nil {
				respondStoreErr(w, lg, store.Invalid("startTime", "invalid timestamp"))
				return
			}
			patch["startTime"] = t
		}
		if req.EndTime != nil {
			t, err := time.Parse(time.RFC3339, *req.EndTime)
			if err != nil {
				respondStoreErr(w, lg, store.Invalid("endTime", "invalid timestamp"))
				return
			}
			patch["endTime"] = t
		}
		if req.Description != nil {
			patch["description"] = *req.Description
		}
		if req.Status != nil {
			if *req.Status == models.EntryApproved && !canManageEntries(u.Role) {
				respondError(w, http.StatusForbidden, "only managers can approve entries")
				return
			}
			patch["status"] = *req.Status
		}
		if req.IsBillable != nil {
			patch["isBillable"] = *req.IsBillable
		}
		if req.IsApproved != nil {
			if !canManageEntries(u.Role) {
				respondError(w, http.StatusForbidden, "only managers can approve entries")
				return
			}
			patch["isApproved"] = *req.IsApproved
		}
		if req.IsManualEntry != nil {
			patch["isManualEntry"] = *req.IsManualEntry
		}
		if req.IsTimerEntry != nil {
			patch["isTimerEntry"] = *req.IsTimerEntry
		}
		if req.IsTemplate != nil {
			patch["isTemplate"] = *req.IsTemplate
		}
		e, err := st.UpdateTimeEntry(r.Context(), chi.URLParam(r, "id"), patch)
		if err != nil {
			respondStoreErr(w, lg, err)
			return
		}
		respondJSON(w, http.StatusOK, e)
	}
}

func DeleteTimeEntry(st store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := caller(st, r)
		if err != nil {
			respondStoreErr(w, lg, err)
			return
		}
		if _, status, msg := loadOwnedEntry(st, r, u); status != 0 {
			respondError(w, status, msg)
			return
		}
		existed, err := st.DeleteTimeEntry(r.Context(), chi.URLParam(r, "id"))
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
