// internal/services/lease_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Zamahele/TenantManagement-sub001/internal/models"
	"github.com/Zamahele/TenantManagement-sub001/internal/utils"
)

type LeaseService struct {
	db *gorm.DB
}

type CreateLeaseRequest struct {
	TenantID                 uuid.UUID `json:"tenant_id" validate:"required"`
	RoomID                   uuid.UUID `json:"room_id" validate:"required"`
	StartDate                time.Time `json:"start_date" validate:"required"`
	EndDate                  time.Time `json:"end_date" validate:"required"`
	RentAmount               float64   `json:"rent_amount" validate:"required,gt=0"`
	ExpectedRentDay          int       `json:"expected_rent_day" validate:"required,rent_day"`
	RequiresDigitalSignature *bool     `json:"requires_digital_signature,omitempty"`
}

type LeaseSearchParams struct {
	utils.PaginationParams
	TenantID *uuid.UUID          `json:"tenant_id,omitempty"`
	RoomID   *uuid.UUID          `json:"room_id,omitempty"`
	Status   *models.LeaseStatus `json:"status,omitempty"`
}

func NewLeaseService(db *gorm.DB) *LeaseService {
	return &LeaseService{db: db}
}

func (s *LeaseService) CreateLease(req *CreateLeaseRequest) (*models.Lease, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, wrapServiceError(ErrKindValidationFailure, err, "invalid lease")
	}

	if !req.EndDate.After(req.StartDate) {
		return nil, newServiceError(ErrKindValidationFailure, "lease end date must be after start date")
	}

	var tenant models.Tenant
	if err := s.db.First(&tenant, "id = ?", req.TenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newServiceError(ErrKindNotFound, "tenant %s not found", req.TenantID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var room models.Room
	if err := s.db.First(&room, "id = ?", req.RoomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newServiceError(ErrKindNotFound, "room %s not found", req.RoomID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	lease := &models.Lease{
		TenantID:        req.TenantID,
		RoomID:          req.RoomID,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		RentAmount:      req.RentAmount,
		ExpectedRentDay: req.ExpectedRentDay,
		Status:          models.LeaseStatusDraft,
	}
	if req.RequiresDigitalSignature != nil {
		lease.RequiresDigitalSignature = *req.RequiresDigitalSignature
	} else {
		lease.RequiresDigitalSignature = true
	}

	if err := s.db.Create(lease).Error; err != nil {
		return nil, fmt.Errorf("failed to create lease: %w", err)
	}

	return lease, nil
}

func (s *LeaseService) GetLease(id uuid.UUID) (*models.Lease, error) {
	var lease models.Lease
	err := s.db.Preload("Tenant").Preload("Room").Preload("Signature").
		First(&lease, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newServiceError(ErrKindNotFound, "lease %s not found", id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &lease, nil
}

func (s *LeaseService) SearchLeases(params LeaseSearchParams) ([]models.Lease, int64, error) {
	query := s.db.Model(&models.Lease{}).Preload("Tenant").Preload("Room")

	if params.TenantID != nil {
		query = query.Where("tenant_id = ?", *params.TenantID)
	}
	if params.RoomID != nil {
		query = query.Where("room_id = ?", *params.RoomID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count leases: %w", err)
	}

	allowedSortFields := []string{"created_at", "start_date", "end_date", "status"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var leases []models.Lease
	if err := query.Find(&leases).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch leases: %w", err)
	}

	return leases, total, nil
}

// CancelLease moves a lease to Cancelled from any non-terminal state.
func (s *LeaseService) CancelLease(id uuid.UUID) (*models.Lease, error) {
	lease, err := s.GetLease(id)
	if err != nil {
		return nil, err
	}

	if !lease.Status.CanTransitionTo(models.LeaseStatusCancelled) {
		return nil, newServiceError(ErrKindInvalidStateTransition,
			"lease %s cannot be cancelled from status %s", id, lease.Status)
	}

	lease.Status = models.LeaseStatusCancelled
	if err := s.db.Save(lease).Error; err != nil {
		return nil, fmt.Errorf("failed to cancel lease: %w", err)
	}

	return lease, nil
}

// DeleteLease removes an unsigned lease. Leases with a signature on record
// are audit subjects and cannot be deleted.
func (s *LeaseService) DeleteLease(id uuid.UUID) error {
	lease, err := s.GetLease(id)
	if err != nil {
		return err
	}

	var signatureCount int64
	if err := s.db.Model(&models.DigitalSignature{}).
		Where("lease_id = ?", id).Count(&signatureCount).Error; err != nil {
		return fmt.Errorf("failed to check signatures: %w", err)
	}
	if signatureCount > 0 {
		return newServiceError(ErrKindInvalidStateTransition,
			"lease %s has a signature on record and cannot be deleted", id)
	}

	if err := s.db.Delete(lease).Error; err != nil {
		return fmt.Errorf("failed to delete lease: %w", err)
	}
	return nil
}
