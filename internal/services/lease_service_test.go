// internal/services/lease_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zamahele/TenantManagement-sub001/internal/models"
)

func TestCreateLease(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaseService(db)

	room := createTestRoom(t, db, "301")
	tenant := createTestTenant(t, db, "Lerato Nkosi")

	lease, err := svc.CreateLease(&CreateLeaseRequest{
		TenantID:        tenant.ID,
		RoomID:          room.ID,
		StartDate:       date(2026, time.February, 1),
		EndDate:         date(2027, time.January, 31),
		RentAmount:      5200,
		ExpectedRentDay: 7,
	})
	require.NoError(t, err)
	assert.Equal(t, models.LeaseStatusDraft, lease.Status)
	assert.True(t, lease.RequiresDigitalSignature)
	assert.NotEqual(t, uuid.Nil, lease.ID)
}

func TestCreateLeaseEndBeforeStart(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaseService(db)

	room := createTestRoom(t, db, "302")
	tenant := createTestTenant(t, db, "Lerato Nkosi")

	_, err := svc.CreateLease(&CreateLeaseRequest{
		TenantID:        tenant.ID,
		RoomID:          room.ID,
		StartDate:       date(2026, time.February, 1),
		EndDate:         date(2026, time.January, 1),
		RentAmount:      5200,
		ExpectedRentDay: 7,
	})
	assert.True(t, IsKind(err, ErrKindValidationFailure))
}

func TestCreateLeaseRentDayOutOfRange(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaseService(db)

	room := createTestRoom(t, db, "303")
	tenant := createTestTenant(t, db, "Lerato Nkosi")

	// New leases must use days 1-28 so every month has the expected day.
	_, err := svc.CreateLease(&CreateLeaseRequest{
		TenantID:        tenant.ID,
		RoomID:          room.ID,
		StartDate:       date(2026, time.February, 1),
		EndDate:         date(2027, time.January, 31),
		RentAmount:      5200,
		ExpectedRentDay: 31,
	})
	assert.True(t, IsKind(err, ErrKindValidationFailure))
}

func TestCreateLeaseUnknownTenant(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaseService(db)

	room := createTestRoom(t, db, "304")

	_, err := svc.CreateLease(&CreateLeaseRequest{
		TenantID:        uuid.New(),
		RoomID:          room.ID,
		StartDate:       date(2026, time.February, 1),
		EndDate:         date(2027, time.January, 31),
		RentAmount:      5200,
		ExpectedRentDay: 7,
	})
	assert.True(t, IsKind(err, ErrKindNotFound))
}

func TestSearchLeasesFilters(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaseService(db)

	room := createTestRoom(t, db, "305")
	tenantA := createTestTenant(t, db, "Tenant A")
	tenantB := createTestTenant(t, db, "Tenant B")

	createTestLease(t, db, tenantA.ID, room.ID, models.LeaseStatusDraft)
	createTestLease(t, db, tenantA.ID, room.ID, models.LeaseStatusSent)
	createTestLease(t, db, tenantB.ID, room.ID, models.LeaseStatusSent)

	sent := models.LeaseStatusSent
	leases, total, err := svc.SearchLeases(LeaseSearchParams{Status: &sent})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, leases, 2)

	leases, total, err = svc.SearchLeases(LeaseSearchParams{TenantID: &tenantA.ID, Status: &sent})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, leases, 1)
	assert.Equal(t, tenantA.ID, leases[0].TenantID)
}

func TestCancelLease(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaseService(db)

	room := createTestRoom(t, db, "306")
	tenant := createTestTenant(t, db, "Tenant")

	lease := createTestLease(t, db, tenant.ID, room.ID, models.LeaseStatusSent)

	cancelled, err := svc.CancelLease(lease.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LeaseStatusCancelled, cancelled.Status)

	// Terminal states stay terminal.
	_, err = svc.CancelLease(lease.ID)
	assert.True(t, IsKind(err, ErrKindInvalidStateTransition))

	completed := createTestLease(t, db, tenant.ID, room.ID, models.LeaseStatusCompleted)
	_, err = svc.CancelLease(completed.ID)
	assert.True(t, IsKind(err, ErrKindInvalidStateTransition))
}

func TestDeleteLease(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaseService(db)

	room := createTestRoom(t, db, "307")
	tenant := createTestTenant(t, db, "Tenant")

	lease := createTestLease(t, db, tenant.ID, room.ID, models.LeaseStatusDraft)
	require.NoError(t, svc.DeleteLease(lease.ID))

	_, err := svc.GetLease(lease.ID)
	assert.True(t, IsKind(err, ErrKindNotFound))
}

func TestDeleteSignedLeaseRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaseService(db)

	room := createTestRoom(t, db, "308")
	tenant := createTestTenant(t, db, "Tenant")

	lease := createTestLease(t, db, tenant.ID, room.ID, models.LeaseStatusSigned)
	require.NoError(t, db.Create(&models.DigitalSignature{
		LeaseID:     lease.ID,
		TenantID:    tenant.ID,
		SignedAt:    time.Now(),
		ImagePath:   "signatures/test.png",
		ContentHash: "abc123",
	}).Error)

	err := svc.DeleteLease(lease.ID)
	assert.True(t, IsKind(err, ErrKindInvalidStateTransition))

	// Still there.
	_, err = svc.GetLease(lease.ID)
	assert.NoError(t, err)
}
