package service

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"agenda-api/internal/apperr"
	"agenda-api/internal/auth"
	"agenda-api/internal/model"
)

// DashboardService computes read-only analytics over the appointment
// set. It never writes.
type DashboardService struct {
	db  *gorm.DB
	log *zap.Logger
}

// DashboardStats is the per-month aggregate for one tenant.
type DashboardStats struct {
	Month             int                               `json:"month"`
	Year              int                               `json:"year"`
	TotalAppointments int64                             `json:"total_appointments"`
	StatusCounts      map[model.AppointmentStatus]int64 `json:"status_counts"`
	DailyCounts       map[string]int64                  `json:"daily_counts"` // keyed by YYYY-MM-DD
}

// Stats aggregates the tenant's appointments for the given month.
// A missing or malformed period falls back to the current month; the
// discarded input is logged rather than rejected.
func (s *DashboardService) Stats(actor auth.Actor, month, year int) (*DashboardStats, error) {
	from, to := monthRange(month, year, s.log)

	var rows []struct {
		StartTime time.Time
		Status    model.AppointmentStatus
	}
	err := auth.TenantScoped(s.db.Model(&model.Appointment{}), actor).
		Select("start_time, status").
		Where("start_time >= ? AND start_time < ?", from, to).
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Internal("database error", err)
	}

	stats := &DashboardStats{
		Month:        int(from.Month()),
		Year:         from.Year(),
		StatusCounts: make(map[model.AppointmentStatus]int64),
		DailyCounts:  make(map[string]int64),
	}
	for _, r := range rows {
		stats.TotalAppointments++
		stats.StatusCounts[r.Status]++
		stats.DailyCounts[r.StartTime.UTC().Format("2006-01-02")]++
	}
	return stats, nil
}

// monthRange resolves a [from, to) UTC window for the requested month,
// defaulting to the current one when the input is absent or out of
// range.
func monthRange(month, year int, log *zap.Logger) (time.Time, time.Time) {
	now := time.Now().UTC()
	if month < 1 || month > 12 || year < 1 {
		if month != 0 || year != 0 {
			log.Warn("ignoring malformed dashboard period",
				zap.Int("month", month), zap.Int("year", year))
		}
		month = int(now.Month())
		year = now.Year()
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}
