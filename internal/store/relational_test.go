package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tempo/internal/models"
)

func newTestStore(t *testing.T) *Relational {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	st, err := NewRelational(db, zap.NewNop().Sugar())
	require.NoError(t, err)
	return st
}

func seedUser(t *testing.T, st *Relational, role string) *models.User {
	t.Helper()
	u, err := st.CreateUser(context.Background(), &models.User{
		Email: uuid.NewString() + "@tempo.test", FirstName: "T", LastName: "U",
		Role: role, IsActive: true,
	})
	require.NoError(t, err)
	return u
}

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestCreateProjectDefaultsStatusActive(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	owner := seedUser(t, st, models.RoleProjectManager)

	p, err := st.CreateProject(ctx, &models.Project{Name: "Audit", UserID: owner.ID})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, models.ProjectActive, p.Status)

	got, err := st.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.AllowTimeTracking)
}

func TestCreateProjectRejectsEndBeforeStart(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	owner := seedUser(t, st, models.RoleProjectManager)

	_, err := st.CreateProject(ctx, &models.Project{
		Name: "Backwards", UserID: owner.ID,
		StartDate: date("2024-03-01"), EndDate: date("2024-01-01"),
	})
	ve, ok := AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "endDate")

	// nothing persisted
	projects, err := st.ListProjects(ctx, ProjectFilter{})
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestPartialUpdateLeavesOtherFieldsAlone(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	owner := seedUser(t, st, models.RoleProjectManager)

	p, err := st.CreateProject(ctx, &models.Project{
		Name: "Audit", Description: "quarterly audit", UserID: owner.ID,
		StartDate: date("2024-01-01"), EndDate: date("2024-03-01"),
		EnableBilling: true,
	})
	require.NoError(t, err)

	updated, err := st.UpdateProject(ctx, p.ID, Patch{"status": models.ProjectCompleted})
	require.NoError(t, err)
	assert.Equal(t, models.ProjectCompleted, updated.Status)

	got, err := st.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Audit", got.Name)
	assert.Equal(t, "quarterly audit", got.Description)
	assert.True(t, got.EnableBilling)
	require.NotNil(t, got.StartDate)
	assert.True(t, got.StartDate.Equal(*date("2024-01-01")))
}

func TestUpdateRejectsUnknownField(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	owner := seedUser(t, st, models.RoleAdmin)
	p, err := st.CreateProject(ctx, &models.Project{Name: "P", UserID: owner.ID})
	require.NoError(t, err)

	_, err = st.UpdateProject(ctx, p.ID, Patch{"ownerId": "x"})
	ve, ok := AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "ownerId")
}

func TestUpdateMergedDateInvariant(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	owner := seedUser(t, st, models.RoleAdmin)
	p, err := st.CreateProject(ctx, &models.Project{
		Name: "P", UserID: owner.ID, StartDate: date("2024-02-01"),
	})
	require.NoError(t, err)

	// patching only endDate must still honor end >= start
	_, err = st.UpdateProject(ctx, p.ID, Patch{"endDate": *date("2024-01-01")})
	_, ok := AsValidation(err)
	assert.True(t, ok)
}

func TestTimeEntryHoursBoundaries(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	u := seedUser(t, st, models.RoleEmployee)

	_, err := st.CreateTimeEntry(ctx, &models.TimeEntry{UserID: u.ID, Date: *date("2024-05-01"), Hours: 25})
	ve, ok := AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "hours")

	for _, hours := range []float64{0, 24} {
		e, err := st.CreateTimeEntry(ctx, &models.TimeEntry{UserID: u.ID, Date: *date("2024-05-01"), Hours: hours})
		require.NoError(t, err)
		assert.Equal(t, models.EntryDraft, e.Status)
	}
}

func TestTimeEntryEndBeforeStartRejected(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	u := seedUser(t, st, models.RoleEmployee)

	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)
	_, err := st.CreateTimeEntry(ctx, &models.TimeEntry{
		UserID: u.ID, Date: *date("2024-05-01"), Hours: 1, StartTime: &start, EndTime: &end,
	})
	ve, ok := AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "endTime")
}

func TestProjectDeleteCascadesTasksAndAssignmentsNotEntries(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	owner := seedUser(t, st, models.RoleProjectManager)

	p, err := st.CreateProject(ctx, &models.Project{Name: "Doomed", UserID: owner.ID})
	require.NoError(t, err)
	task, err := st.CreateTask(ctx, &models.Task{ProjectID: p.ID, Title: "t"})
	require.NoError(t, err)
	emp, err := st.CreateEmployee(ctx, &models.Employee{EmployeeID: "E-1", FirstName: "Ann"})
	require.NoError(t, err)
	_, err = st.AssignEmployee(ctx, p.ID, emp.ID)
	require.NoError(t, err)
	entry, err := st.CreateTimeEntry(ctx, &models.TimeEntry{
		UserID: owner.ID, ProjectID: &p.ID, TaskID: &task.ID, Date: *date("2024-05-01"), Hours: 2,
	})
	require.NoError(t, err)

	existed, err := st.DeleteProject(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, existed)

	_, err = st.GetTask(ctx, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	rows, err := st.ListProjectEmployees(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)

	// recorded hours survive with the reference nulled
	got, err := st.GetTimeEntry(ctx, entry.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ProjectID)
	assert.Nil(t, got.TaskID)
	assert.Equal(t, 2.0, got.Hours)
}

func TestAssignEmployeePairIsUnique(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	owner := seedUser(t, st, models.RoleManager)
	p, err := st.CreateProject(ctx, &models.Project{Name: "P", UserID: owner.ID})
	require.NoError(t, err)
	emp, err := st.CreateEmployee(ctx, &models.Employee{EmployeeID: "E-2", FirstName: "Bo"})
	require.NoError(t, err)

	_, err = st.AssignEmployee(ctx, p.ID, emp.ID)
	require.NoError(t, err)
	_, err = st.AssignEmployee(ctx, p.ID, emp.ID)
	_, ok := AsValidation(err)
	assert.True(t, ok)
}

func TestUpsertUserByEmail(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	u, err := st.UpsertUserByEmail(ctx, "Jane.Doe@Example.com", "Jane", "Doe", models.RoleEmployee)
	require.NoError(t, err)
	assert.Equal(t, "jane.doe@example.com", u.Email)
	assert.Equal(t, models.RoleEmployee, u.Role)
	assert.True(t, u.IsActive)

	// second authentication refreshes names but never resets the role
	_, err = st.UpdateUser(ctx, u.ID, Patch{"role": models.RoleManager})
	require.NoError(t, err)
	again, err := st.UpsertUserByEmail(ctx, "jane.doe@example.com", "Janet", "Doe", models.RoleEmployee)
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID)
	assert.Equal(t, "Janet", again.FirstName)
	assert.Equal(t, models.RoleManager, again.Role)

	users, err := st.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestDeleteReportsExistence(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	owner := seedUser(t, st, models.RoleAdmin)
	p, err := st.CreateProject(ctx, &models.Project{Name: "Once", UserID: owner.ID})
	require.NoError(t, err)

	existed, err := st.DeleteProject(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, existed)
	existed, err = st.DeleteProject(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestTaskRequiresExistingProject(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	_, err := st.CreateTask(ctx, &models.Task{ProjectID: uuid.NewString(), Title: "orphan"})
	ve, ok := AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "projectId")
}

func TestDashboardStatsAndDepartmentHours(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	u := seedUser(t, st, models.RoleManager)

	org, err := st.CreateOrganization(ctx, &models.Organization{Name: "Acme", UserID: u.ID})
	require.NoError(t, err)
	dep, err := st.CreateDepartment(ctx, &models.Department{Name: "Engineering", OrganizationID: org.ID, UserID: u.ID})
	require.NoError(t, err)
	p, err := st.CreateProject(ctx, &models.Project{Name: "Build", UserID: u.ID, DepartmentID: &dep.ID})
	require.NoError(t, err)

	for _, hours := range []float64{3, 5} {
		_, err = st.CreateTimeEntry(ctx, &models.TimeEntry{
			UserID: u.ID, ProjectID: &p.ID, Date: *date("2024-05-01"), Hours: hours, IsBillable: hours > 4,
		})
		require.NoError(t, err)
	}

	stats, err := st.DashboardStats(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 8.0, stats.TotalHours)
	assert.Equal(t, 5.0, stats.BillableHours)
	assert.Equal(t, int64(1), stats.ActiveProjects)

	rows, err := st.DepartmentHours(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Engineering", rows[0].Department)
	assert.Equal(t, 8.0, rows[0].TotalHours)
	assert.Equal(t, int64(2), rows[0].EntryCount)

	items, err := st.RecentActivity(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, items, 3) // two entries plus the project
	assert.Equal(t, "time_entry", items[0].Type)
}
