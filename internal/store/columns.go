package store

// The wire format is camelCase, the schema is snake_case. This file is the
// only place that knows about both; every partial update goes through one of
// these tables so an unknown or non-updatable field is rejected instead of
// silently dropped.

type mapping struct {
	wireToColumn map[string]string
	columnToWire map[string]string
}

func newMapping(pairs map[string]string) mapping {
	rev := make(map[string]string, len(pairs))
	for wire, col := range pairs {
		rev[col] = wire
	}
	return mapping{wireToColumn: pairs, columnToWire: rev}
}

// translate converts a wire-keyed patch into a column-keyed one. Unknown
// keys produce a ValidationError naming the offending wire field.
func (m mapping) translate(patch Patch) (map[string]any, error) {
	cols := make(map[string]any, len(patch))
	verr := &ValidationError{}
	for key, val := range patch {
		col, ok := m.wireToColumn[key]
		if !ok {
			verr.Add(key, "unknown or read-only field")
			continue
		}
		cols[col] = val
	}
	if !verr.Empty() {
		return nil, verr
	}
	return cols, nil
}

func (m mapping) wireName(column string) string {
	if w, ok := m.columnToWire[column]; ok {
		return w
	}
	return column
}

var userColumns = newMapping(map[string]string{
	"email":          "email",
	"firstName":      "first_name",
	"lastName":       "last_name",
	"role":           "role",
	"isActive":       "is_active",
	"organizationId": "organization_id",
})

var organizationColumns = newMapping(map[string]string{
	"name":        "name",
	"description": "description",
})

var departmentColumns = newMapping(map[string]string{
	"name":           "name",
	"organizationId": "organization_id",
	"managerId":      "manager_id",
})

var employeeColumns = newMapping(map[string]string{
	"employeeId": "employee_id",
	"firstName":  "first_name",
	"lastName":   "last_name",
	"department": "department",
	"userId":     "user_id",
})

var projectColumns = newMapping(map[string]string{
	"name":                 "name",
	"description":          "description",
	"status":               "status",
	"organizationId":       "organization_id",
	"departmentId":         "department_id",
	"managerId":            "manager_id",
	"startDate":            "start_date",
	"endDate":              "end_date",
	"isEnterpriseWide":     "is_enterprise_wide",
	"isTemplate":           "is_template",
	"allowTimeTracking":    "allow_time_tracking",
	"requireTaskSelection": "require_task_selection",
	"enableBudgetTracking": "enable_budget_tracking",
	"enableBilling":        "enable_billing",
})

var taskColumns = newMapping(map[string]string{
	"title":          "title",
	"description":    "description",
	"status":         "status",
	"priority":       "priority",
	"assigneeId":     "assignee_id",
	"estimatedHours": "estimated_hours",
	"actualHours":    "actual_hours",
})

var timeEntryColumns = newMapping(map[string]string{
	"projectId":     "project_id",
	"taskId":        "task_id",
	"date":          "date",
	"hours":         "hours",
	"duration":      "duration",
	"startTime":     "start_time",
	"endTime":       "end_time",
	"description":   "description",
	"status":        "status",
	"isBillable":    "is_billable",
	"isApproved":    "is_approved",
	"isManualEntry": "is_manual_entry",
	"isTimerEntry":  "is_timer_entry",
	"isTemplate":    "is_template",
})
