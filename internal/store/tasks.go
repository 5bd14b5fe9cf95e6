package store

import (
	"context"
	"strings"
	"time"

	"tempo/internal/models"
)

func (s *Relational) ListTasks(ctx context.Context, f TaskFilter) ([]models.Task, error) {
	q := s.db.WithContext(ctx).Order("created_at desc")
	if f.ProjectID != "" {
		q = q.Where("project_id = ?", f.ProjectID)
	}
	if f.AssigneeID != "" {
		q = q.Where("assignee_id = ?", f.AssigneeID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var tasks []models.Task
	if err := q.Find(&tasks).Error; err != nil {
		return nil, wrap(err)
	}
	return tasks, nil
}

func (s *Relational) GetTask(ctx context.Context, id string) (*models.Task, error) {
	var t models.Task
	if err := s.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, wrap(err)
	}
	return &t, nil
}

func (s *Relational) CreateTask(ctx context.Context, t *models.Task) (*models.Task, error) {
	verr := &ValidationError{}
	if strings.TrimSpace(t.Title) == "" {
		verr.Add("title", "required")
	}
	if t.ProjectID == "" {
		verr.Add("projectId", "required")
	}
	if !verr.Empty() {
		return nil, verr
	}
	if _, err := s.GetProject(ctx, t.ProjectID); err != nil {
		if err == ErrNotFound {
			return nil, Invalid("projectId", "project does not exist")
		}
		return nil, err
	}
	if t.Status == "" {
		t.Status = models.TaskPending
	}
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	if err := validateTaskFields(t.Status, t.Priority, t.EstimatedHours, t.ActualHours); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, wrap(err)
	}
	return t, nil
}

func (s *Relational) UpdateTask(ctx context.Context, id string, patch Patch) (*models.Task, error) {
	cols, err := taskColumns.translate(patch)
	if err != nil {
		return nil, err
	}
	var t models.Task
	if err := s.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, wrap(err)
	}
	if title := patchString(cols, "title", t.Title); strings.TrimSpace(title) == "" {
		return nil, Invalid("title", "required")
	}
	if err := validateTaskFields(
		patchString(cols, "status", t.Status),
		patchString(cols, "priority", t.Priority),
		patchFloat(cols, "estimated_hours", t.EstimatedHours),
		patchFloat(cols, "actual_hours", t.ActualHours),
	); err != nil {
		return nil, err
	}
	if len(cols) > 0 {
		cols["updated_at"] = time.Now()
		if err := s.db.WithContext(ctx).Model(&t).Updates(cols).Error; err != nil {
			return nil, wrap(err)
		}
	}
	return s.GetTask(ctx, id)
}

func (s *Relational) DeleteTask(ctx context.Context, id string) (bool, error) {
	return s.deleteRows(ctx, &models.Task{}, "id = ?", id)
}
