package store

import (
	"context"
	"strings"
	"time"

	"tempo/internal/models"
)

func (s *Relational) ListDepartments(ctx context.Context) ([]models.Department, error) {
	var deps []models.Department
	if err := s.db.WithContext(ctx).Order("name asc").Find(&deps).Error; err != nil {
		return nil, wrap(err)
	}
	return deps, nil
}

func (s *Relational) GetDepartment(ctx context.Context, id string) (*models.Department, error) {
	var d models.Department
	if err := s.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		return nil, wrap(err)
	}
	return &d, nil
}

func (s *Relational) CreateDepartment(ctx context.Context, d *models.Department) (*models.Department, error) {
	verr := &ValidationError{}
	if strings.TrimSpace(d.Name) == "" {
		verr.Add("name", "required")
	}
	if d.OrganizationID == "" {
		verr.Add("organizationId", "required")
	}
	if !verr.Empty() {
		return nil, verr
	}
	if _, err := s.GetOrganization(ctx, d.OrganizationID); err != nil {
		if err == ErrNotFound {
			return nil, Invalid("organizationId", "organization does not exist")
		}
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(d).Error; err != nil {
		return nil, wrap(err)
	}
	return d, nil
}

func (s *Relational) UpdateDepartment(ctx context.Context, id string, patch Patch) (*models.Department, error) {
	cols, err := departmentColumns.translate(patch)
	if err != nil {
		return nil, err
	}
	var d models.Department
	if err := s.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		return nil, wrap(err)
	}
	if name := patchString(cols, "name", d.Name); strings.TrimSpace(name) == "" {
		return nil, Invalid("name", "required")
	}
	if len(cols) > 0 {
		cols["updated_at"] = time.Now()
		if err := s.db.WithContext(ctx).Model(&d).Updates(cols).Error; err != nil {
			return nil, wrap(err)
		}
	}
	return s.GetDepartment(ctx, id)
}

func (s *Relational) DeleteDepartment(ctx context.Context, id string) (bool, error) {
	return s.deleteRows(ctx, &models.Department{}, "id = ?", id)
}
