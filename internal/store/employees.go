package store

import (
	"context"
	"strings"
	"time"

	"tempo/internal/models"
)

func (s *Relational) ListEmployees(ctx context.Context, f EmployeeFilter) ([]models.Employee, error) {
	q := s.db.WithContext(ctx).Order("last_name asc, first_name asc")
	if f.Department != "" {
		q = q.Where("department = ?", f.Department)
	}
	var emps []models.Employee
	if err := q.Find(&emps).Error; err != nil {
		return nil, wrap(err)
	}
	return emps, nil
}

func (s *Relational) GetEmployee(ctx context.Context, id string) (*models.Employee, error) {
	var e models.Employee
	if err := s.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, wrap(err)
	}
	return &e, nil
}

func (s *Relational) CreateEmployee(ctx context.Context, e *models.Employee) (*models.Employee, error) {
	verr := &ValidationError{}
	if strings.TrimSpace(e.EmployeeID) == "" {
		verr.Add("employeeId", "required")
	}
	if strings.TrimSpace(e.FirstName) == "" {
		verr.Add("firstName", "required")
	}
	if !verr.Empty() {
		return nil, verr
	}
	if err := s.db.WithContext(ctx).Create(e).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, Invalid("employeeId", "already in use")
		}
		return nil, wrap(err)
	}
	return e, nil
}

func (s *Relational) UpdateEmployee(ctx context.Context, id string, patch Patch) (*models.Employee, error) {
	cols, err := employeeColumns.translate(patch)
	if err != nil {
		return nil, err
	}
	var e models.Employee
	if err := s.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, wrap(err)
	}
	if eid := patchString(cols, "employee_id", e.EmployeeID); strings.TrimSpace(eid) == "" {
		return nil, Invalid("employeeId", "required")
	}
	if len(cols) > 0 {
		cols["updated_at"] = time.Now()
		if err := s.db.WithContext(ctx).Model(&e).Updates(cols).Error; err != nil {
			if isUniqueViolation(err) {
				return nil, Invalid("employeeId", "already in use")
			}
			return nil, wrap(err)
		}
	}
	return s.GetEmployee(ctx, id)
}

func (s *Relational) DeleteEmployee(ctx context.Context, id string) (bool, error) {
	return s.deleteRows(ctx, &models.Employee{}, "id = ?", id)
}
