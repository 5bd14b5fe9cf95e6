package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin          = "admin"
	RoleManager        = "manager"
	RoleProjectManager = "project_manager"
	RoleEmployee       = "employee"
	RoleViewer         = "viewer"
)

const (
	ProjectActive    = "active"
	ProjectInactive  = "inactive"
	ProjectCompleted = "completed"
	ProjectArchived  = "archived"
)

const (
	TaskPending    = "pending"
	TaskInProgress = "in_progress"
	TaskCompleted  = "completed"
	TaskCancelled  = "cancelled"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

const (
	EntryDraft     = "draft"
	EntrySubmitted = "submitted"
	EntryApproved  = "approved"
	EntryRejected  = "rejected"
)

func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleManager, RoleProjectManager, RoleEmployee, RoleViewer:
		return true
	}
	return false
}

func ValidProjectStatus(s string) bool {
	switch s {
	case ProjectActive, ProjectInactive, ProjectCompleted, ProjectArchived:
		return true
	}
	return false
}

func ValidTaskStatus(s string) bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted, TaskCancelled:
		return true
	}
	return false
}

func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

func ValidEntryStatus(s string) bool {
	switch s {
	case EntryDraft, EntrySubmitted, EntryApproved, EntryRejected:
		return true
	}
	return false
}

// IDs are generated app-side so the relational adapter behaves identically on
// every backing database.
func newID() string { return uuid.NewString() }

type User struct {
	ID             string     `gorm:"primaryKey;size:36" json:"id"`
	Email          string     `gorm:"uniqueIndex;not null" json:"email"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Role           string     `gorm:"not null;default:employee;index" json:"role"`
	IsActive       bool       `gorm:"not null;default:true" json:"isActive"`
	OrganizationID *string    `gorm:"size:36;index" json:"organizationId"`
	LastLoginAt    *time.Time `json:"lastLoginAt"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = newID()
	}
	return nil
}

type Organization struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	UserID      string    `gorm:"size:36;not null;index" json:"userId"`
	User        *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (o *Organization) BeforeCreate(*gorm.DB) error {
	if o.ID == "" {
		o.ID = newID()
	}
	return nil
}

type Department struct {
	ID             string        `gorm:"primaryKey;size:36" json:"id"`
	Name           string        `gorm:"not null" json:"name"`
	OrganizationID string        `gorm:"size:36;not null;index" json:"organizationId"`
	Organization   *Organization `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ManagerID      *string       `gorm:"size:36" json:"managerId"`
	Manager        *Employee     `gorm:"foreignKey:ManagerID;constraint:OnDelete:SET NULL" json:"-"`
	UserID         string        `gorm:"size:36;not null;index" json:"userId"`
	User           *User         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

func (d *Department) BeforeCreate(*gorm.DB) error {
	if d.ID == "" {
		d.ID = newID()
	}
	return nil
}

// Employee is a person record, distinct from a login account. The optional
// user link ties it to an account and is also the ownership column.
type Employee struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	EmployeeID string    `gorm:"uniqueIndex;not null" json:"employeeId"`
	FirstName  string    `gorm:"not null" json:"firstName"`
	LastName   string    `json:"lastName"`
	Department string    `gorm:"index" json:"department"`
	UserID     *string   `gorm:"size:36;index" json:"userId"`
	User       *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (e *Employee) BeforeCreate(*gorm.DB) error {
	if e.ID == "" {
		e.ID = newID()
	}
	return nil
}

type Project struct {
	ID             string     `gorm:"primaryKey;size:36" json:"id"`
	Name           string     `gorm:"not null" json:"name"`
	Description    string     `json:"description"`
	Status         string     `gorm:"not null;default:active;index" json:"status"`
	OrganizationID *string    `gorm:"size:36;index" json:"organizationId"`
	DepartmentID   *string    `gorm:"size:36;index" json:"departmentId"`
	ManagerID      *string    `gorm:"size:36" json:"managerId"`
	UserID         string     `gorm:"size:36;not null;index" json:"userId"`
	StartDate      *time.Time `gorm:"index" json:"startDate"`
	EndDate        *time.Time `json:"endDate"`

	IsEnterpriseWide     bool `gorm:"not null;default:false" json:"isEnterpriseWide"`
	IsTemplate           bool `gorm:"not null;default:false" json:"isTemplate"`
	AllowTimeTracking    bool `gorm:"not null;default:true" json:"allowTimeTracking"`
	RequireTaskSelection bool `gorm:"not null;default:false" json:"requireTaskSelection"`
	EnableBudgetTracking bool `gorm:"not null;default:false" json:"enableBudgetTracking"`
	EnableBilling        bool `gorm:"not null;default:false" json:"enableBilling"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *Project) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = newID()
	}
	return nil
}

type Task struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	ProjectID      string    `gorm:"size:36;not null;index" json:"projectId"`
	Project        *Project  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Title          string    `gorm:"not null" json:"title"`
	Description    string    `json:"description"`
	Status         string    `gorm:"not null;default:pending;index" json:"status"`
	Priority       string    `gorm:"not null;default:medium" json:"priority"`
	AssigneeID     *string   `gorm:"size:36;index" json:"assigneeId"`
	CreatedBy      *string   `gorm:"size:36" json:"createdBy"`
	EstimatedHours float64   `gorm:"not null;default:0" json:"estimatedHours"`
	ActualHours    float64   `gorm:"not null;default:0" json:"actualHours"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (t *Task) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = newID()
	}
	return nil
}

// TimeEntry keeps plain (non-cascading) references back to project and task:
// deleting either nulls the reference rather than destroying recorded hours.
type TimeEntry struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	UserID      string     `gorm:"size:36;not null;index" json:"userId"`
	ProjectID   *string    `gorm:"size:36;index" json:"projectId"`
	Project     *Project   `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	TaskID      *string    `gorm:"size:36;index" json:"taskId"`
	Task        *Task      `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Date        time.Time  `gorm:"not null;index" json:"date"`
	Hours       float64    `gorm:"not null" json:"hours"`
	Duration    float64    `gorm:"not null;default:0" json:"duration"`
	StartTime   *time.Time `json:"startTime"`
	EndTime     *time.Time `json:"endTime"`
	Description string     `json:"description"`
	Status      string     `gorm:"not null;default:draft;index" json:"status"`

	IsBillable    bool `gorm:"not null;default:false" json:"isBillable"`
	IsApproved    bool `gorm:"not null;default:false" json:"isApproved"`
	IsManualEntry bool `gorm:"not null;default:true" json:"isManualEntry"`
	IsTimerEntry  bool `gorm:"not null;default:false" json:"isTimerEntry"`
	IsTemplate    bool `gorm:"not null;default:false" json:"isTemplate"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (t *TimeEntry) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = newID()
	}
	return nil
}

type ProjectEmployee struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	ProjectID  string    `gorm:"size:36;not null;uniqueIndex:idx_project_employee" json:"projectId"`
	Project    *Project  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	EmployeeID string    `gorm:"size:36;not null;uniqueIndex:idx_project_employee" json:"employeeId"`
	Employee   *Employee `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (p *ProjectEmployee) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = newID()
	}
	return nil
}

// SessionRecord backs the database session store. Rows whose expiry has
// passed are dead and reclaimed by the cleanup pass.
type SessionRecord struct {
	SID       string    `gorm:"column:sid;primaryKey;size:64"`
	Data      string    `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
}

func (SessionRecord) TableName() string { return "sessions" }

// All lists every entity for migration, leaves before dependents.
func All() []any {
	return []any{
		&User{}, &Organization{}, &Department{}, &Employee{},
		&Project{}, &Task{}, &TimeEntry{}, &ProjectEmployee{},
		&SessionRecord{},
	}
}
