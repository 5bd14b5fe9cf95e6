package store

import (
	"context"
	"time"

	"tempo/internal/models"
)

// Patch is a partial update: only the wire-named keys present are applied,
// absent fields are left untouched.
type Patch = map[string]any

type ProjectFilter struct {
	Status         string
	UserID         string
	OrganizationID string
	DepartmentID   string
}

type TaskFilter struct {
	ProjectID  string
	AssigneeID string
	Status     string
}

type TimeEntryFilter struct {
	UserID    string
	ProjectID string
	Status    string
	From      *time.Time
	To        *time.Time
}

type EmployeeFilter struct {
	Department string
}

type DashboardStats struct {
	TotalHours      float64 `json:"totalHours"`
	BillableHours   float64 `json:"billableHours"`
	ActiveProjects  int64   `json:"activeProjects"`
	PendingTasks    int64   `json:"pendingTasks"`
	EntriesThisWeek int64   `json:"entriesThisWeek"`
}

type ActivityItem struct {
	Type       string    `json:"type"`
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	UserID     string    `json:"userId"`
	OccurredAt time.Time `json:"occurredAt"`
}

type DepartmentHoursRow struct {
	Department string  `json:"department"`
	TotalHours float64 `json:"totalHours"`
	EntryCount int64   `json:"entryCount"`
}

// Store is the storage capability set. Exactly two implementations exist:
// the relational adapter and the fallback, selected once at startup. Route
// handlers depend only on this interface.
//
// Every create/update returns the persisted entity after defaults and
// timestamps; every delete reports whether a row existed.
type Store interface {
	// Users
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) (*models.User, error)
	UpdateUser(ctx context.Context, id string, patch Patch) (*models.User, error)
	DeleteUser(ctx context.Context, id string) (bool, error)
	// UpsertUserByEmail creates the user on first authentication with the
	// given default role, or refreshes name fields on an existing row.
	UpsertUserByEmail(ctx context.Context, email, firstName, lastName, defaultRole string) (*models.User, error)
	TouchLastLogin(ctx context.Context, id string) error

	// Organizations
	ListOrganizations(ctx context.Context) ([]models.Organization, error)
	GetOrganization(ctx context.Context, id string) (*models.Organization, error)
	CreateOrganization(ctx context.Context, o *models.Organization) (*models.Organization, error)
	UpdateOrganization(ctx context.Context, id string, patch Patch) (*models.Organization, error)
	DeleteOrganization(ctx context.Context, id string) (bool, error)

	// Departments
	ListDepartments(ctx context.Context) ([]models.Department, error)
	GetDepartment(ctx context.Context, id string) (*models.Department, error)
	CreateDepartment(ctx context.Context, d *models.Department) (*models.Department, error)
	UpdateDepartment(ctx context.Context, id string, patch Patch) (*models.Department, error)
	DeleteDepartment(ctx context.Context, id string) (bool, error)

	// Employees
	ListEmployees(ctx context.Context, f EmployeeFilter) ([]models.Employee, error)
	GetEmployee(ctx context.Context, id string) (*models.Employee, error)
	CreateEmployee(ctx context.Context, e *models.Employee) (*models.Employee, error)
	UpdateEmployee(ctx context.Context, id string, patch Patch) (*models.Employee, error)
	DeleteEmployee(ctx context.Context, id string) (bool, error)

	// Projects
	ListProjects(ctx context.Context, f ProjectFilter) ([]models.Project, error)
	GetProject(ctx context.Context, id string) (*models.Project, error)
	CreateProject(ctx context.Context, p *models.Project) (*models.Project, error)
	UpdateProject(ctx context.Context, id string, patch Patch) (*models.Project, error)
	DeleteProject(ctx context.Context, id string) (bool, error)

	// Tasks
	ListTasks(ctx context.Context, f TaskFilter) ([]models.Task, error)
	GetTask(ctx context.Context, id string) (*models.Task, error)
	CreateTask(ctx context.Context, t *models.Task) (*models.Task, error)
	UpdateTask(ctx context.Context, id string, patch Patch) (*models.Task, error)
	DeleteTask(ctx context.Context, id string) (bool, error)

	// Time entries
	ListTimeEntries(ctx context.Context, f TimeEntryFilter) ([]models.TimeEntry, error)
	GetTimeEntry(ctx context.Context, id string) (*models.TimeEntry, error)
	CreateTimeEntry(ctx context.Context, t *models.TimeEntry) (*models.TimeEntry, error)
	UpdateTimeEntry(ctx context.Context, id string, patch Patch) (*models.TimeEntry, error)
	DeleteTimeEntry(ctx context.Context, id string) (bool, error)

	// Project/employee assignments
	ListProjectEmployees(ctx context.Context, projectID string) ([]models.ProjectEmployee, error)
	AssignEmployee(ctx context.Context, projectID, employeeID string) (*models.ProjectEmployee, error)
	UnassignEmployee(ctx context.Context, projectID, employeeID string) (bool, error)

	// Aggregates
	DashboardStats(ctx context.Context, userID string) (*DashboardStats, error)
	RecentActivity(ctx context.Context, limit int) ([]ActivityItem, error)
	DepartmentHours(ctx context.Context) ([]DepartmentHoursRow, error)

	HealthCheck(ctx context.Context) error
	Close() error
}
