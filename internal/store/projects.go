package store

import (
	"context"
	"strings"
	"time"

	"tempo/internal/models"
)

func (s *Relational) ListProjects(ctx context.Context, f ProjectFilter) ([]models.Project, error) {
	q := s.db.WithContext(ctx).Order("created_at desc")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.OrganizationID != "" {
		q = q.Where("organization_id = ?", f.OrganizationID)
	}
	if f.DepartmentID != "" {
		q = q.Where("department_id = ?", f.DepartmentID)
	}
	var projects []models.Project
	if err := q.Find(&projects).Error; err != nil {
		return nil, wrap(err)
	}
	return projects, nil
}

func (s *Relational) GetProject(ctx context.Context, id string) (*models.Project, error) {
	var p models.Project
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, wrap(err)
	}
	return &p, nil
}

func (s *Relational) CreateProject(ctx context.Context, p *models.Project) (*models.Project, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, Invalid("name", "required")
	}
	if p.UserID == "" {
		return nil, Invalid("userId", "required")
	}
	if p.Status == "" {
		p.Status = models.ProjectActive
	}
	if err := validateProjectStatus(p.Status); err != nil {
		return nil, err
	}
	if err := validateProjectDates(p.StartDate, p.EndDate); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, wrap(err)
	}
	return p, nil
}

func (s *Relational) UpdateProject(ctx context.Context, id string, patch Patch) (*models.Project, error) {
	cols, err := projectColumns.translate(patch)
	if err != nil {
		return nil, err
	}
	var p models.Project
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, wrap(err)
	}
	if name := patchString(cols, "name", p.Name); strings.TrimSpace(name) == "" {
		return nil, Invalid("name", "required")
	}
	if err := validateProjectStatus(patchString(cols, "status", p.Status)); err != nil {
		return nil, err
	}
	start := patchTime(cols, "start_date", p.StartDate)
	end := patchTime(cols, "end_date", p.EndDate)
	if err := validateProjectDates(start, end); err != nil {
		return nil, err
	}
	if len(cols) > 0 {
		cols["updated_at"] = time.Now()
		if err := s.db.WithContext(ctx).Model(&p).Updates(cols).Error; err != nil {
			return nil, wrap(err)
		}
	}
	return s.GetProject(ctx, id)
}

// DeleteProject cascades to tasks and project assignments through foreign
// keys; time entries keep their hours and lose only the project reference.
func (s *Relational) DeleteProject(ctx context.Context, id string) (bool, error) {
	return s.deleteRows(ctx, &models.Project{}, "id = ?", id)
}
