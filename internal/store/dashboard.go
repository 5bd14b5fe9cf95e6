package store

import (
	"context"
	"sort"
	"time"

	"tempo/internal/models"
)

func (s *Relational) DashboardStats(ctx context.Context, userID string) (*DashboardStats, error) {
	db := s.db.WithContext(ctx)
	stats := &DashboardStats{}

	row := db.Model(&models.TimeEntry{}).
		Select("COALESCE(SUM(hours), 0)").
		Where("user_id = ?", userID).
		Row()
	if err := row.Scan(&stats.TotalHours); err != nil {
		return nil, wrap(err)
	}

	row = db.Model(&models.TimeEntry{}).
		Select("COALESCE(SUM(hours), 0)").
		Where("user_id = ? AND is_billable = ?", userID, true).
		Row()
	if err := row.Scan(&stats.BillableHours); err != nil {
		return nil, wrap(err)
	}

	if err := db.Model(&models.Project{}).
		Where("status = ?", models.ProjectActive).
		Count(&stats.ActiveProjects).Error; err != nil {
		return nil, wrap(err)
	}

	if err := db.Model(&models.Task{}).
		Where("assignee_id = ? AND status IN ?", userID, []string{models.TaskPending, models.TaskInProgress}).
		Count(&stats.PendingTasks).Error; err != nil {
		return nil, wrap(err)
	}

	weekStart := startOfWeek(time.Now())
	if err := db.Model(&models.TimeEntry{}).
		Where("user_id = ? AND date >= ?", userID, weekStart).
		Count(&stats.EntriesThisWeek).Error; err != nil {
		return nil, wrap(err)
	}
	return stats, nil
}

func startOfWeek(t time.Time) time.Time {
	day := t.UTC().Truncate(24 * time.Hour)
	offset := (int(day.Weekday()) + 6) % 7 // Monday start
	return day.AddDate(0, 0, -offset)
}

// RecentActivity merges the latest time entries and projects into one feed.
func (s *Relational) RecentActivity(ctx context.Context, limit int) ([]ActivityItem, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	db := s.db.WithContext(ctx)

	var entries []models.TimeEntry
	if err := db.Order("created_at desc").Limit(limit).Find(&entries).Error; err != nil {
		return nil, wrap(err)
	}
	var projects []models.Project
	if err := db.Order("created_at desc").Limit(limit).Find(&projects).Error; err != nil {
		return nil, wrap(err)
	}

	items := make([]ActivityItem, 0, len(entries)+len(projects))
	for _, e := range entries {
		title := e.Description
		if title == "" {
			title = "time entry"
		}
		items = append(items, ActivityItem{
			Type: "time_entry", ID: e.ID, Title: title, UserID: e.UserID, OccurredAt: e.CreatedAt,
		})
	}
	for _, p := range projects {
		items = append(items, ActivityItem{
			Type: "project", ID: p.ID, Title: p.Name, UserID: p.UserID, OccurredAt: p.CreatedAt,
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].OccurredAt.After(items[j].OccurredAt) })
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Relational) DepartmentHours(ctx context.Context) ([]DepartmentHoursRow, error) {
	var rows []DepartmentHoursRow
	err := s.db.WithContext(ctx).
		Table("time_entries").
		Select("departments.name AS department, COALESCE(SUM(time_entries.hours), 0) AS total_hours, COUNT(time_entries.id) AS entry_count").
		Joins("JOIN projects ON projects.id = time_entries.project_id").
		Joins("JOIN departments ON departments.id = projects.department_id").
		Group("departments.name").
		Order("total_hours DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, wrap(err)
	}
	if rows == nil {
		rows = []DepartmentHoursRow{}
	}
	return rows, nil
}
