// internal/scheduler/reminder.go
package scheduler

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/Zamahele/TenantManagement-sub001/internal/config"
	"github.com/Zamahele/TenantManagement-sub001/internal/services"
)

// RentReminderScheduler runs the daily reminder cycle: SMS tenants whose
// rent falls due soon, and e-mail the manager a digest of overdue and
// expiring leases. One failed send never aborts the cycle; the entry is
// simply attempted again on the next cycle if it still qualifies.
type RentReminderScheduler struct {
	rents         *services.RentService
	notifications *services.NotificationService
	config        config.ReminderConfig
	logger        *logrus.Logger
	cron          *cron.Cron
	mu            sync.Mutex
	running       bool
}

func NewRentReminderScheduler(
	rents *services.RentService,
	notifications *services.NotificationService,
	cfg config.ReminderConfig,
	logger *logrus.Logger,
) *RentReminderScheduler {
	return &RentReminderScheduler{
		rents:         rents,
		notifications: notifications,
		config:        cfg,
		logger:        logger,
	}
}

// Start schedules the reminder cycle.
func (s *RentReminderScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	if !s.config.Enabled {
		s.logger.Info("Rent reminders are disabled")
		return nil
	}

	s.cron = cron.New(cron.WithSeconds())

	schedule := s.config.Schedule
	if schedule == "" {
		schedule = "0 0 8 * * *" // 8 AM daily (with seconds)
	}

	// Convert 5-field cron to 6-field (add seconds prefix)
	fields := strings.Fields(schedule)
	if len(fields) == 5 {
		schedule = "0 " + schedule
	}

	_, err := s.cron.AddFunc(schedule, s.runCycle)
	if err != nil {
		s.logger.WithError(err).Error("Failed to schedule reminder cycle")
		return err
	}

	s.cron.Start()
	s.running = true

	s.logger.WithFields(logrus.Fields{
		"schedule":      s.config.Schedule,
		"lead_days":     s.config.LeadDays,
		"expiry_window": s.config.ExpiryWindowDays,
	}).Info("Rent reminder scheduler started")

	return nil
}

// Stop halts scheduling and waits for a cycle in flight to finish.
func (s *RentReminderScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.cron == nil {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.running = false
	s.logger.Info("Rent reminder scheduler stopped")
}

func (s *RentReminderScheduler) runCycle() {
	s.RunCycle(context.Background(), time.Now())
}

// RunCycle evaluates every lease once and sends the day's notifications.
// Exposed for manual triggering and tests.
func (s *RentReminderScheduler) RunCycle(ctx context.Context, today time.Time) {
	startTime := time.Now()
	s.logger.Info("Starting rent reminder cycle")

	var remindersSent, remindersFailed int

	due, err := s.rents.LeasesDueInDays(today, s.config.LeadDays)
	if err != nil {
		s.logger.WithError(err).Error("Failed to compute upcoming rent due dates")
	} else {
		for _, lease := range due {
			dueDate, ok := services.NextRentDueDate(today, lease.StartDate, lease.EndDate, lease.ExpectedRentDay)
			if !ok {
				continue
			}
			if err := s.notifications.SendRentReminderSMS(ctx, &lease.Tenant, lease.RentAmount, dueDate); err != nil {
				remindersFailed++
				s.logger.WithError(err).WithFields(logrus.Fields{
					"lease_id":  lease.ID,
					"tenant_id": lease.TenantID,
				}).Warn("Failed to send rent reminder SMS")
				continue
			}
			remindersSent++
		}
	}

	overdueCount := 0
	overdue, err := s.rents.OverdueLeases(today)
	if err != nil {
		s.logger.WithError(err).Error("Failed to compute overdue leases")
	} else {
		overdueCount = len(overdue)
		if err := s.notifications.SendOverdueLeasesEmail(overdue); err != nil {
			s.logger.WithError(err).Warn("Failed to send overdue digest to manager")
		}
	}

	expiringCount := 0
	expiring, err := s.rents.ExpiringLeases(today, s.config.ExpiryWindowDays)
	if err != nil {
		s.logger.WithError(err).Error("Failed to compute expiring leases")
	} else {
		expiringCount = len(expiring)
		if err := s.notifications.SendExpiringLeasesEmail(expiring, s.config.ExpiryWindowDays); err != nil {
			s.logger.WithError(err).Warn("Failed to send expiry digest to manager")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"reminders_sent":   remindersSent,
		"reminders_failed": remindersFailed,
		"overdue_leases":   overdueCount,
		"expiring_leases":  expiringCount,
		"duration":         time.Since(startTime).String(),
	}).Info("Completed rent reminder cycle")
}

// RunNow triggers an immediate cycle (for testing/manual trigger).
func (s *RentReminderScheduler) RunNow() {
	go s.runCycle()
}

// IsRunning returns whether the scheduler is running.
func (s *RentReminderScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
