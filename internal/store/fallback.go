package store

import (
	"context"

	"tempo/internal/models"
)

// Fallback is the no-database implementation: reads come back empty, writes
// fail with ErrUnavailable. It exists so the process can boot and answer
// health checks when no database is configured or reachable.
type Fallback struct{}

func NewFallback() *Fallback { return &Fallback{} }

func (f *Fallback) ListUsers(context.Context) ([]models.User, error) { return []models.User{}, nil }
func (f *Fallback) GetUser(context.Context, string) (*models.User, error) {
	return nil, ErrNotFound
}
func (f *Fallback) GetUserByEmail(context.Context, string) (*models.User, error) {
	return nil, ErrNotFound
}
func (f *Fallback) CreateUser(context.Context, *models.User) (*models.User, error) {
	return nil, ErrUnavailable
}
func (f *Fallback) UpdateUser(context.Context, string, Patch) (*models.User, error) {
	return nil, ErrUnavailable
}
func (f *Fallback) DeleteUser(context.Context, string) (bool, error) { return false, ErrUnavailable }
func (f *Fallback) UpsertUserByEmail(context.Context, string, string, string, string) (*models.User, error) {
	return nil, ErrUnavailable
}
func (f *Fallback) TouchLastLogin(context.Context, string) error { return ErrUnavailable }

func (f *Fallback) ListOrganizations(context.Context) ([]models.Organization, error) {
	return []models.Organization{}, nil
}
func (f *Fallback) GetOrganization(context.Context, string) (*models.Organization, error) {
	return nil, ErrNotFound
}
func (f *Fallback) CreateOrganization(context.Context, *models.Organization) (*models.Organization, error) {
	return nil, ErrUnavailable
}
func (f *Fallback) UpdateOrganization(context.Context, string, Patch) (*models.Organization, error) {
	return nil, ErrUnavailable
}
func (f *Fallback) DeleteOrganization(context.Context, string) (bool, error) {
	return false, ErrUnavailable
}

func (f *Fallback) ListDepartments(context.Context) ([]models.Department, error) {
	return []models.Department{}, nil
}
func (f *Fallback) GetDepartment(context.Context, string) (*models.Department, error) {
	return nil, ErrNotFound
}
func (f *Fallback) CreateDepartment(context.Context, *models.Department) (*models.Department, error) {
	return nil, ErrUnavailable
}
func (f *Fallback) UpdateDepartment(context.Context, string, Patch) (*models.Department, error) {
	return nil, ErrUnavailable
}
func (f *Fallback) DeleteDepartment(context.Context, string) (bool, error) {
	return false, ErrUnavailable
}

func (f *Fallback) ListEmployees(context.Context, EmployeeFilter) ([]models.Employee, error) {
	return []models.Employee{}, nil
}
func (f *Fallback) GetEmployee(context.Context, string) (*models.Employee, error) {
	return nil, ErrNotFound
}
func (f *Fallback) CreateEmployee(context.Context, *models.Employee) (*models.Employee, error) {
	return nil, ErrUnavailable
}
func (f *Fallback) UpdateEmployee(context.Context, string, Patch) (*models.Employee, error) {
	return nil, ErrUnavailable
}
func (f *Fallback) DeleteEmployee(context.Context, string) (bool, error) {
	return false, ErrUnavailable
}

func (f *Fallback) ListProjects(context.Context, ProjectFilter) ([]models.Project, error) {
	return []models.Project{}, nil
}
func (f *Fallback) GetProject(context.Context, string) (*models.Project, error) {
	return nil, ErrNotFound
}
func (f *Fallback) CreateProject(context.Context, *models.Project) (*models.Project, error) {
	return nil, ErrUnavailable
}
func (f *Fallback) UpdateProject(context.Context, string, Patch) (*models.Project, error) {
	return nil, ErrUnavailable
}
func (f *Fallback) DeleteProject(context.Context, string) (bool, error) {
	return false, ErrUnavailable
}

func (f *Fallback) ListTasks(context.Context, TaskFilter) ([]models.Task, error) {
	return []models.Task{}, nil
}
func (f *Fallback) GetTask(context.Context, string) (*models.Task, error) { return nil, ErrNotFound }
func (f *Fallback) CreateTask(context.Context, *models.Task) (*models.Task, error) {
	return nil, ErrUnavailable
}
func (f *Fallback) UpdateTask(context.Context, string, Patch) (*models.Task, error) {
	return nil, ErrUnavailable
}
func (f *Fallback) DeleteTask(context.Context, string) (bool, error) { return false, ErrUnavailable }

func (f *Fallback) ListTimeEntries(context.Context, TimeEntryFilter) ([]models.TimeEntry, error) {
	return []models.TimeEntry{}, nil
}
func (f *Fallback) GetTimeEntry(context.Context, string) (*models.TimeEntry, error) {
	return nil, ErrNotFound
}
func (f *Fallback) CreateTimeEntry(context.Context, *models.TimeEntry) (*models.TimeEntry, error) {
	return nil, ErrUnavailable
}
func (f *Fallback) UpdateTimeEntry(context.Context, string, Patch) (*models.TimeEntry, error) {
	return nil, ErrUnavailable
}
func (f *Fallback) DeleteTimeEntry(context.Context, string) (bool, error) {
	return false, ErrUnavailable
}

func (f *Fallback) ListProjectEmployees(context.Context, string) ([]models.ProjectEmployee, error) {
	return []models.ProjectEmployee{}, nil
}
func (f *Fallback) AssignEmployee(context.Context, string, string) (*models.ProjectEmployee, error) {
	return nil, ErrUnavailable
}
func (f *Fallback) UnassignEmployee(context.Context, string, string) (bool, error) {
	return false, ErrUnavailable
}

func (f *Fallback) DashboardStats(context.Context, string) (*DashboardStats, error) {
	return &DashboardStats{}, nil
}
func (f *Fallback) RecentActivity(context.Context, int) ([]ActivityItem, error) {
	return []ActivityItem{}, nil
}
func (f *Fallback) DepartmentHours(context.Context) ([]DepartmentHoursRow, error) {
	return []DepartmentHoursRow{}, nil
}

func (f *Fallback) HealthCheck(context.Context) error { return ErrUnavailable }
func (f *Fallback) Close() error                      { return nil }
