// internal/scheduler/reminder_test.go
package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Zamahele/TenantManagement-sub001/internal/config"
	"github.com/Zamahele/TenantManagement-sub001/internal/models"
	"github.com/Zamahele/TenantManagement-sub001/internal/services"
)

type fakeSMSSender struct {
	sent    []string
	failFor string
}

func (f *fakeSMSSender) Send(_ context.Context, phoneNumber, _ string) error {
	if f.failFor != "" && phoneNumber == f.failFor {
		return errors.New("carrier rejected message")
	}
	f.sent = append(f.sent, phoneNumber)
	return nil
}

type sentEmail struct {
	To      string
	Subject string
}

type fakeEmailSender struct {
	sent []sentEmail
}

func (f *fakeEmailSender) Send(to, subject, _ string) error {
	f.sent = append(f.sent, sentEmail{To: to, Subject: subject})
	return nil
}

type ReminderSchedulerTestSuite struct {
	suite.Suite
	db        *gorm.DB
	scheduler *RentReminderScheduler
	sms       *fakeSMSSender
	emails    *fakeEmailSender
	today     time.Time
}

func TestReminderSchedulerTestSuite(t *testing.T) {
	suite.Run(t, new(ReminderSchedulerTestSuite))
}

func (s *ReminderSchedulerTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	s.Require().NoError(err)
	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)
	s.Require().NoError(db.AutoMigrate(
		&models.Room{}, &models.Tenant{}, &models.Lease{}, &models.Payment{},
	))
	s.db = db

	s.sms = &fakeSMSSender{}
	s.emails = &fakeEmailSender{}
	s.today = time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)

	cfg := &config.Config{
		Reminder: config.ReminderConfig{
			Enabled:          true,
			LeadDays:         3,
			ExpiryWindowDays: 30,
			ManagerEmail:     "manager@example.com",
		},
	}

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	notifications := services.NewNotificationServiceWithSenders(cfg, s.sms, s.emails)
	s.scheduler = NewRentReminderScheduler(services.NewRentService(db), notifications, cfg.Reminder, log)
}

func (s *ReminderSchedulerTestSuite) createLease(phone string, expectedDay int, status models.LeaseStatus) *models.Lease {
	tenant := &models.Tenant{FullName: "Tenant " + phone, PhoneNumber: phone, Email: phone + "@example.com"}
	s.Require().NoError(s.db.Create(tenant).Error)

	room := &models.Room{Number: "R" + phone, Type: models.RoomTypeSingle, Status: models.RoomStatusOccupied, MonthlyRent: 4500}
	s.Require().NoError(s.db.Create(room).Error)

	lease := &models.Lease{
		TenantID:        tenant.ID,
		RoomID:          room.ID,
		StartDate:       time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC),
		RentAmount:      4500,
		ExpectedRentDay: expectedDay,
		Status:          status,
	}
	s.Require().NoError(s.db.Create(lease).Error)
	return lease
}

func (s *ReminderSchedulerTestSuite) TestCycleSendsUpcomingReminders() {
	s.createLease("+27820000001", 13, models.LeaseStatusSigned) // due in exactly 3 days
	s.createLease("+27820000002", 20, models.LeaseStatusSigned) // outside the window
	s.createLease("+27820000003", 13, models.LeaseStatusDraft)  // not active yet

	s.scheduler.RunCycle(context.Background(), s.today)

	assert.Equal(s.T(), []string{"+27820000001"}, s.sms.sent)
}

func (s *ReminderSchedulerTestSuite) TestCycleSurvivesFailedSMS() {
	s.createLease("+27820000001", 13, models.LeaseStatusSigned)
	s.createLease("+27820000002", 13, models.LeaseStatusSigned)
	s.sms.failFor = "+27820000001"

	s.scheduler.RunCycle(context.Background(), s.today)

	// The failed tenant is skipped, not the whole cycle.
	assert.Equal(s.T(), []string{"+27820000002"}, s.sms.sent)
}

func (s *ReminderSchedulerTestSuite) TestCycleSendsOverdueDigest() {
	s.createLease("+27820000001", 5, models.LeaseStatusSigned)
	paid := s.createLease("+27820000002", 5, models.LeaseStatusSigned)

	s.Require().NoError(s.db.Create(&models.Payment{
		TenantID:     paid.TenantID,
		Amount:       4500,
		Type:         models.PaymentTypeRent,
		Method:       models.PaymentMethodEFT,
		BillingMonth: 3,
		BillingYear:  2026,
	}).Error)

	s.scheduler.RunCycle(context.Background(), s.today)

	require.Len(s.T(), s.emails.sent, 1)
	assert.Equal(s.T(), "manager@example.com", s.emails.sent[0].To)
	assert.Contains(s.T(), s.emails.sent[0].Subject, "Overdue rent: 1")
}

func (s *ReminderSchedulerTestSuite) TestCycleSendsExpiryDigest() {
	lease := s.createLease("+27820000001", 25, models.LeaseStatusCompleted)
	s.Require().NoError(s.db.Model(lease).Update("end_date",
		time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC)).Error)

	s.scheduler.RunCycle(context.Background(), s.today)

	require.Len(s.T(), s.emails.sent, 1)
	assert.Contains(s.T(), s.emails.sent[0].Subject, "expiring within 30 days")
}

func (s *ReminderSchedulerTestSuite) TestCycleQuietWhenNothingDue() {
	s.createLease("+27820000001", 25, models.LeaseStatusSigned)

	s.scheduler.RunCycle(context.Background(), s.today)

	assert.Empty(s.T(), s.sms.sent)
	assert.Empty(s.T(), s.emails.sent)
}

func (s *ReminderSchedulerTestSuite) TestStartStop() {
	s.Require().NoError(s.scheduler.Start())
	assert.True(s.T(), s.scheduler.IsRunning())

	// Start is idempotent.
	s.Require().NoError(s.scheduler.Start())

	s.scheduler.Stop()
	assert.False(s.T(), s.scheduler.IsRunning())
}

func (s *ReminderSchedulerTestSuite) TestStartAcceptsFiveFieldSchedule() {
	s.scheduler.config.Schedule = "0 8 * * *"
	s.Require().NoError(s.scheduler.Start())
	s.scheduler.Stop()
}

func (s *ReminderSchedulerTestSuite) TestStartDisabled() {
	s.scheduler.config.Enabled = false
	s.Require().NoError(s.scheduler.Start())
	assert.False(s.T(), s.scheduler.IsRunning())
}
