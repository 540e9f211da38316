// internal/services/testutil_test.go
package services

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Zamahele/TenantManagement-sub001/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.Tenant{},
		&models.Lease{},
		&models.DigitalSignature{},
		&models.LeaseTemplate{},
		&models.Payment{},
		&models.MaintenanceRequest{},
	))
	return db
}

func createTestRoom(t *testing.T, db *gorm.DB, number string) *models.Room {
	t.Helper()
	room := &models.Room{
		Number:      number,
		Type:        models.RoomTypeSingle,
		Status:      models.RoomStatusAvailable,
		MonthlyRent: 4500,
	}
	require.NoError(t, db.Create(room).Error)
	return room
}

func createTestTenant(t *testing.T, db *gorm.DB, name string) *models.Tenant {
	t.Helper()
	tenant := &models.Tenant{
		FullName:    name,
		Email:       "tenant@example.com",
		PhoneNumber: "+27821234567",
	}
	require.NoError(t, db.Create(tenant).Error)
	return tenant
}

func createTestLease(t *testing.T, db *gorm.DB, tenantID, roomID uuid.UUID, status models.LeaseStatus) *models.Lease {
	t.Helper()
	lease := &models.Lease{
		TenantID:        tenantID,
		RoomID:          roomID,
		StartDate:       time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC),
		RentAmount:      4500,
		ExpectedRentDay: 1,
		Status:          status,
	}
	require.NoError(t, db.Create(lease).Error)
	return lease
}

type fakeSMSSender struct {
	sent     []string
	failFor  string
	failWith error
}

func (f *fakeSMSSender) Send(_ context.Context, phoneNumber, _ string) error {
	if f.failFor != "" && phoneNumber == f.failFor {
		return f.failWith
	}
	f.sent = append(f.sent, phoneNumber)
	return nil
}

type sentEmail struct {
	To      string
	Subject string
	Body    string
}

type fakeEmailSender struct {
	sent     []sentEmail
	failWith error
}

func (f *fakeEmailSender) Send(to, subject, body string) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.sent = append(f.sent, sentEmail{To: to, Subject: subject, Body: body})
	return nil
}

type fakePDFRenderer struct {
	pdf      []byte
	failWith error
}

func (f *fakePDFRenderer) RenderPDF(_ context.Context, _ string) ([]byte, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.pdf, nil
}
