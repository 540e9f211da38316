// internal/services/tenant_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Zamahele/TenantManagement-sub001/internal/models"
	"github.com/Zamahele/TenantManagement-sub001/internal/utils"
)

type TenantService struct {
	db *gorm.DB
}

type CreateTenantRequest struct {
	FullName              string     `json:"full_name" validate:"required,max=100"`
	Email                 string     `json:"email" validate:"omitempty,email"`
	PhoneNumber           string     `json:"phone_number" validate:"required,max=20"`
	IDNumber              string     `json:"id_number,omitempty" validate:"omitempty,max=30"`
	EmergencyContactName  string     `json:"emergency_contact_name,omitempty" validate:"omitempty,max=100"`
	EmergencyContactPhone string     `json:"emergency_contact_phone,omitempty" validate:"omitempty,max=20"`
	RoomID                *uuid.UUID `json:"room_id,omitempty"`
}

type UpdateTenantRequest struct {
	FullName              *string    `json:"full_name,omitempty" validate:"omitempty,max=100"`
	Email                 *string    `json:"email,omitempty" validate:"omitempty,email"`
	PhoneNumber           *string    `json:"phone_number,omitempty" validate:"omitempty,max=20"`
	EmergencyContactName  *string    `json:"emergency_contact_name,omitempty" validate:"omitempty,max=100"`
	EmergencyContactPhone *string    `json:"emergency_contact_phone,omitempty" validate:"omitempty,max=20"`
	RoomID                *uuid.UUID `json:"room_id,omitempty"`
}

func NewTenantService(db *gorm.DB) *TenantService {
	return &TenantService{db: db}
}

func (s *TenantService) CreateTenant(req *CreateTenantRequest) (*models.Tenant, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, wrapServiceError(ErrKindValidationFailure, err, "invalid tenant")
	}

	if req.RoomID != nil {
		var room models.Room
		if err := s.db.First(&room, "id = ?", *req.RoomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, newServiceError(ErrKindNotFound, "room %s not found", *req.RoomID)
			}
			return nil, fmt.Errorf("database error: %w", err)
		}
	}

	tenant := &models.Tenant{
		FullName:              req.FullName,
		Email:                 req.Email,
		PhoneNumber:           req.PhoneNumber,
		IDNumber:              req.IDNumber,
		EmergencyContactName:  req.EmergencyContactName,
		EmergencyContactPhone: req.EmergencyContactPhone,
		RoomID:                req.RoomID,
	}

	if err := s.db.Create(tenant).Error; err != nil {
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}

	return tenant, nil
}

func (s *TenantService) GetTenant(id uuid.UUID) (*models.Tenant, error) {
	var tenant models.Tenant
	err := s.db.Preload("Room").Preload("Leases").First(&tenant, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newServiceError(ErrKindNotFound, "tenant %s not found", id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &tenant, nil
}

func (s *TenantService) UpdateTenant(id uuid.UUID, req *UpdateTenantRequest) (*models.Tenant, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, wrapServiceError(ErrKindValidationFailure, err, "invalid tenant update")
	}

	tenant, err := s.GetTenant(id)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		tenant.FullName = *req.FullName
	}
	if req.Email != nil {
		tenant.Email = *req.Email
	}
	if req.PhoneNumber != nil {
		tenant.PhoneNumber = *req.PhoneNumber
	}
	if req.EmergencyContactName != nil {
		tenant.EmergencyContactName = *req.EmergencyContactName
	}
	if req.EmergencyContactPhone != nil {
		tenant.EmergencyContactPhone = *req.EmergencyContactPhone
	}
	if req.RoomID != nil {
		tenant.RoomID = req.RoomID
	}

	if err := s.db.Save(tenant).Error; err != nil {
		return nil, fmt.Errorf("failed to update tenant: %w", err)
	}

	return tenant, nil
}

func (s *TenantService) ListTenants(params utils.PaginationParams) ([]models.Tenant, int64, error) {
	query := s.db.Model(&models.Tenant{}).Preload("Room")

	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.Where("full_name ILIKE ? OR phone_number LIKE ?", search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tenants: %w", err)
	}

	allowedSortFields := []string{"created_at", "full_name"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var tenants []models.Tenant
	if err := query.Find(&tenants).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch tenants: %w", err)
	}

	return tenants, total, nil
}

// GetTenantByUserID resolves the tenant record linked to a portal login.
func (s *TenantService) GetTenantByUserID(userID uuid.UUID) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := s.db.Preload("Room").First(&tenant, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newServiceError(ErrKindNotFound, "no tenant linked to user %s", userID)
		}
		return nil, fmt.Errorf("failed to fetch tenant: %w", err)
	}
	return &tenant, nil
}

func (s *TenantService) DeleteTenant(id uuid.UUID) error {
	tenant, err := s.GetTenant(id)
	if err != nil {
		return err
	}

	var activeLeases int64
	if err := s.db.Model(&models.Lease{}).
		Where("tenant_id = ? AND status NOT IN ?", id, []models.LeaseStatus{
			models.LeaseStatusCompleted,
			models.LeaseStatusCancelled,
		}).Count(&activeLeases).Error; err != nil {
		return fmt.Errorf("failed to check leases: %w", err)
	}
	if activeLeases > 0 {
		return newServiceError(ErrKindValidationFailure,
			"tenant %s has active leases and cannot be deleted", id)
	}

	if err := s.db.Delete(tenant).Error; err != nil {
		return fmt.Errorf("failed to delete tenant: %w", err)
	}
	return nil
}
