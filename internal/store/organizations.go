package store

import (
	"context"
	"strings"
	"time"

	"tempo/internal/models"
)

func (s *Relational) ListOrganizations(ctx context.Context) ([]models.Organization, error) {
	var orgs []models.Organization
	if err := s.db.WithContext(ctx).Order("created_at desc").Find(&orgs).Error; err != nil {
		return nil, wrap(err)
	}
	return orgs, nil
}

func (s *Relational) GetOrganization(ctx context.Context, id string) (*models.Organization, error) {
	var o models.Organization
	if err := s.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		return nil, wrap(err)
	}
	return &o, nil
}

func (s *Relational) CreateOrganization(ctx context.Context, o *models.Organization) (*models.Organization, error) {
	if strings.TrimSpace(o.Name) == "" {
		return nil, Invalid("name", "required")
	}
	if o.UserID == "" {
		return nil, Invalid("userId", "required")
	}
	if err := s.db.WithContext(ctx).Create(o).Error; err != nil {
		return nil, wrap(err)
	}
	return o, nil
}

func (s *Relational) UpdateOrganization(ctx context.Context, id string, patch Patch) (*models.Organization, error) {
	cols, err := organizationColumns.translate(patch)
	if err != nil {
		return nil, err
	}
	var o models.Organization
	if err := s.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		return nil, wrap(err)
	}
	if name := patchString(cols, "name", o.Name); strings.TrimSpace(name) == "" {
		return nil, Invalid("name", "required")
	}
	if len(cols) > 0 {
		cols["updated_at"] = time.Now()
		if err := s.db.WithContext(ctx).Model(&o).Updates(cols).Error; err != nil {
			return nil, wrap(err)
		}
	}
	return s.GetOrganization(ctx, id)
}

func (s *Relational) DeleteOrganization(ctx context.Context, id string) (bool, error) {
	return s.deleteRows(ctx, &models.Organization{}, "id = ?", id)
}
