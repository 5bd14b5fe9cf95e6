package store

import (
	"strings"
	"time"

	"tempo/internal/models"
)

// Helpers to compute the prospective value of a constrained field when a
// patch is applied, so invariants are checked against the merged row.

func patchTime(cols map[string]any, key string, cur *time.Time) *time.Time {
	v, ok := cols[key]
	if !ok {
		return cur
	}
	switch t := v.(type) {
	case time.Time:
		return &t
	case *time.Time:
		return t
	}
	return nil
}

func patchString(cols map[string]any, key, cur string) string {
	if v, ok := cols[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return cur
}

func patchFloat(cols map[string]any, key string, cur float64) float64 {
	if v, ok := cols[key]; ok {
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		}
	}
	return cur
}

func validateProjectDates(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return Invalid("endDate", "must not be earlier than startDate")
	}
	return nil
}

func validateProjectStatus(status string) error {
	if !models.ValidProjectStatus(status) {
		return Invalid("status", "must be one of active, inactive, completed, archived")
	}
	return nil
}

func validateTaskFields(status, priority string, estimated, actual float64) error {
	verr := &ValidationError{}
	if !models.ValidTaskStatus(status) {
		verr.Add("status", "must be one of pending, in_progress, completed, cancelled")
	}
	if !models.ValidPriority(priority) {
		verr.Add("priority", "must be one of low, medium, high, urgent")
	}
	if estimated < 0 {
		verr.Add("estimatedHours", "must not be negative")
	}
	if actual < 0 {
		verr.Add("actualHours", "must not be negative")
	}
	if verr.Empty() {
		return nil
	}
	return verr
}

// Hours are bounded to a single day, boundaries inclusive.
func validateTimeEntry(hours float64, status string, start, end *time.Time) error {
	verr := &ValidationError{}
	if hours < 0 || hours > 24 {
		verr.Add("hours", "must be between 0 and 24")
	}
	if !models.ValidEntryStatus(status) {
		verr.Add("status", "must be one of draft, submitted, approved, rejected")
	}
	if start != nil && end != nil && end.Before(*start) {
		verr.Add("endTime", "must not be earlier than startTime")
	}
	if verr.Empty() {
		return nil
	}
	return verr
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique failed") || strings.Contains(msg, "constraint failed: unique")
}
