package store

import (
	"context"

	"tempo/internal/models"
)

func (s *Relational) ListProjectEmployees(ctx context.Context, projectID string) ([]models.ProjectEmployee, error) {
	var rows []models.ProjectEmployee
	err := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at asc").
		Find(&rows).Error
	if err != nil {
		return nil, wrap(err)
	}
	return rows, nil
}

// AssignEmployee links an employee to a project; the pair is unique.
func (s *Relational) AssignEmployee(ctx context.Context, projectID, employeeID string) (*models.ProjectEmployee, error) {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	if _, err := s.GetEmployee(ctx, employeeID); err != nil {
		if err == ErrNotFound {
			return nil, Invalid("employeeId", "employee does not exist")
		}
		return nil, err
	}
	pe := models.ProjectEmployee{ProjectID: projectID, EmployeeID: employeeID}
	if err := s.db.WithContext(ctx).Create(&pe).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, Invalid("employeeId", "already assigned to this project")
		}
		return nil, wrap(err)
	}
	return &pe, nil
}

func (s *Relational) UnassignEmployee(ctx context.Context, projectID, employeeID string) (bool, error) {
	return s.deleteRows(ctx, &models.ProjectEmployee{},
		"project_id = ? AND employee_id = ?", projectID, employeeID)
}
