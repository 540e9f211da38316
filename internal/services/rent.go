// internal/services/rent.go
package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Zamahele/TenantManagement-sub001/internal/models"
)

// NextRentDueDate computes the next date rent is owed under a lease's terms,
// as seen from today. The second return value is false when the lease has
// ended or no due date remains inside the lease period.
//
// expectedDay values of 29-31 clamp to the last day of short months instead
// of erroring, and the first rent falls due at move-in rather than before it.
func NextRentDueDate(today, startDate, endDate time.Time, expectedDay int) (time.Time, bool) {
	today = truncateToDay(today)
	startDate = truncateToDay(startDate)
	endDate = truncateToDay(endDate)

	if today.After(endDate) {
		return time.Time{}, false
	}

	year, month := today.Year(), today.Month()
	if today.Day() > expectedDay {
		month++
		if month > time.December {
			month = time.January
			year++
		}
	}

	day := expectedDay
	if max := daysInMonth(year, month); day > max {
		day = max
	}

	dueDate := time.Date(year, month, day, 0, 0, 0, 0, today.Location())

	if dueDate.Before(startDate) {
		dueDate = startDate
	}
	if dueDate.After(endDate) {
		return time.Time{}, false
	}

	return dueDate, true
}

func daysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// RentService answers the lease/payment questions the reminder scheduler
// asks each cycle.
type RentService struct {
	db *gorm.DB
}

func NewRentService(db *gorm.DB) *RentService {
	return &RentService{db: db}
}

// activeLeases returns signed-or-later, non-cancelled leases that have not
// ended as of today, with tenants preloaded.
func (s *RentService) activeLeases(today time.Time) ([]models.Lease, error) {
	var leases []models.Lease
	err := s.db.Preload("Tenant").
		Where("status IN ?", []models.LeaseStatus{
			models.LeaseStatusSent,
			models.LeaseStatusSigned,
			models.LeaseStatusCompleted,
		}).
		Where("end_date >= ?", truncateToDay(today)).
		Find(&leases).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active leases: %w", err)
	}
	return leases, nil
}

// LeasesDueInDays returns the active leases whose next rent due date falls
// exactly leadDays from today.
func (s *RentService) LeasesDueInDays(today time.Time, leadDays int) ([]models.Lease, error) {
	leases, err := s.activeLeases(today)
	if err != nil {
		return nil, err
	}

	target := truncateToDay(today).AddDate(0, 0, leadDays)

	var due []models.Lease
	for _, lease := range leases {
		dueDate, ok := NextRentDueDate(today, lease.StartDate, lease.EndDate, lease.ExpectedRentDay)
		if ok && dueDate.Equal(target) {
			due = append(due, lease)
		}
	}
	return due, nil
}

// OverdueLeases returns active leases whose due date has passed without a
// rent payment recorded for that tenant and billing period.
func (s *RentService) OverdueLeases(today time.Time) ([]models.Lease, error) {
	leases, err := s.activeLeases(today)
	if err != nil {
		return nil, err
	}

	day := truncateToDay(today)

	var overdue []models.Lease
	for _, lease := range leases {
		// The next due date only moves past the expected day once that day
		// has gone by this month, so "raw due date this month is in the past"
		// needs the unshifted date.
		dueDate, ok := dueDateForMonth(day, lease.StartDate, lease.EndDate, lease.ExpectedRentDay)
		if !ok || !dueDate.Before(day) {
			continue
		}

		paid, err := s.HasRentPayment(lease.TenantID, int(dueDate.Month()), dueDate.Year())
		if err != nil {
			return nil, err
		}
		if !paid {
			overdue = append(overdue, lease)
		}
	}
	return overdue, nil
}

// dueDateForMonth is the rent date for today's calendar month, without
// rolling forward, clamped and bounded the same way as NextRentDueDate.
func dueDateForMonth(today, startDate, endDate time.Time, expectedDay int) (time.Time, bool) {
	if today.After(truncateToDay(endDate)) {
		return time.Time{}, false
	}

	year, month := today.Year(), today.Month()
	day := expectedDay
	if max := daysInMonth(year, month); day > max {
		day = max
	}

	dueDate := time.Date(year, month, day, 0, 0, 0, 0, today.Location())
	if dueDate.Before(truncateToDay(startDate)) {
		return time.Time{}, false
	}
	if dueDate.After(truncateToDay(endDate)) {
		return time.Time{}, false
	}
	return dueDate, true
}

// ExpiringLeases returns active leases ending within the given window.
func (s *RentService) ExpiringLeases(today time.Time, windowDays int) ([]models.Lease, error) {
	var leases []models.Lease
	day := truncateToDay(today)
	cutoff := day.AddDate(0, 0, windowDays)

	err := s.db.Preload("Tenant").
		Where("status IN ?", []models.LeaseStatus{
			models.LeaseStatusSent,
			models.LeaseStatusSigned,
			models.LeaseStatusCompleted,
		}).
		Where("end_date >= ? AND end_date <= ?", day, cutoff).
		Find(&leases).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch expiring leases: %w", err)
	}
	return leases, nil
}

// HasRentPayment reports whether a rent payment exists for the tenant and
// billing period.
func (s *RentService) HasRentPayment(tenantID uuid.UUID, month, year int) (bool, error) {
	var count int64
	err := s.db.Model(&models.Payment{}).
		Where("tenant_id = ? AND type = ? AND billing_month = ? AND billing_year = ?",
			tenantID, models.PaymentTypeRent, month, year).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check rent payment: %w", err)
	}
	return count > 0, nil
}
