package store

import (
	"context"
	"time"

	"tempo/internal/models"
)

func (s *Relational) ListTimeEntries(ctx context.Context, f TimeEntryFilter) ([]models.TimeEntry, error) {
	q := s.db.WithContext(ctx).Order("date desc, created_at desc")
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.ProjectID != "" {
		q = q.Where("project_id = ?", f.ProjectID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.From != nil {
		q = q.Where("date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("date <= ?", *f.To)
	}
	var entries []models.TimeEntry
	if err := q.Find(&entries).Error; err != nil {
		return nil, wrap(err)
	}
	return entries, nil
}

func (s *Relational) GetTimeEntry(ctx context.Context, id string) (*models.TimeEntry, error) {
	var t models.TimeEntry
	if err := s.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, wrap(err)
	}
	return &t, nil
}

func (s *Relational) CreateTimeEntry(ctx context.Context, t *models.TimeEntry) (*models.TimeEntry, error) {
	if t.UserID == "" {
		return nil, Invalid("userId", "required")
	}
	if t.Date.IsZero() {
		return nil, Invalid("date", "required")
	}
	if t.Status == "" {
		t.Status = models.EntryDraft
	}
	if err := validateTimeEntry(t.Hours, t.Status, t.StartTime, t.EndTime); err != nil {
		return nil, err
	}
	if t.ProjectID != nil {
		if _, err := s.GetProject(ctx, *t.ProjectID); err != nil {
			if err == ErrNotFound {
				return nil, Invalid("projectId", "project does not exist")
			}
			return nil, err
		}
	}
	if t.TaskID != nil {
		if _, err := s.GetTask(ctx, *t.TaskID); err != nil {
			if err == ErrNotFound {
				return nil, Invalid("taskId", "task does not exist")
			}
			return nil, err
		}
	}
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, wrap(err)
	}
	return t, nil
}

func (s *Relational) UpdateTimeEntry(ctx context.Context, id string, patch Patch) (*models.TimeEntry, error) {
	cols, err := timeEntryColumns.translate(patch)
	if err != nil {
		return nil, err
	}
	var t models.TimeEntry
	if err := s.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, wrap(err)
	}
	if err := validateTimeEntry(
		patchFloat(cols, "hours", t.Hours),
		patchString(cols, "status", t.Status),
		patchTime(cols, "start_time", t.StartTime),
		patchTime(cols, "end_time", t.EndTime),
	); err != nil {
		return nil, err
	}
	if len(cols) > 0 {
		cols["updated_at"] = time.Now()
		if err := s.db.WithContext(ctx).Model(&t).Updates(cols).Error; err != nil {
			return nil, wrap(err)
		}
	}
	return s.GetTimeEntry(ctx, id)
}

func (s *Relational) DeleteTimeEntry(ctx context.Context, id string) (bool, error) {
	return s.deleteRows(ctx, &models.TimeEntry{}, "id = ?", id)
}
