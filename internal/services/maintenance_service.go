// internal/services/maintenance_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/Zamahele/TenantManagement-sub001/internal/models"
	"github.com/Zamahele/TenantManagement-sub001/internal/utils"
)

type MaintenanceService struct {
	db *gorm.DB
}

type CreateMaintenanceRequest struct {
	RoomID      uuid.UUID  `json:"room_id" validate:"required"`
	TenantID    *uuid.UUID `json:"tenant_id,omitempty"`
	Description string     `json:"description" validate:"required"`
	PhotoURLs   []string   `json:"photo_urls,omitempty" validate:"max=10,dive,url"`
}

func NewMaintenanceService(db *gorm.DB) *MaintenanceService {
	return &MaintenanceService{db: db}
}

func (s *MaintenanceService) CreateRequest(req *CreateMaintenanceRequest) (*models.MaintenanceRequest, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, wrapServiceError(ErrKindValidationFailure, err, "invalid maintenance request")
	}

	var room models.Room
	if err := s.db.First(&room, "id = ?", req.RoomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newServiceError(ErrKindNotFound, "room %s not found", req.RoomID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	request := &models.MaintenanceRequest{
		RoomID:      req.RoomID,
		TenantID:    req.TenantID,
		Description: req.Description,
		PhotoURLs:   pq.StringArray(req.PhotoURLs),
		Status:      models.MaintenanceStatusOpen,
	}

	if err := s.db.Create(request).Error; err != nil {
		return nil, fmt.Errorf("failed to create maintenance request: %w", err)
	}

	return request, nil
}

func (s *MaintenanceService) UpdateStatus(id uuid.UUID, status models.MaintenanceStatus) (*models.MaintenanceRequest, error) {
	var request models.MaintenanceRequest
	if err := s.db.First(&request, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newServiceError(ErrKindNotFound, "maintenance request %s not found", id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	request.Status = status
	if status == models.MaintenanceStatusResolved {
		now := time.Now()
		request.ResolvedAt = &now
	}

	if err := s.db.Save(&request).Error; err != nil {
		return nil, fmt.Errorf("failed to update maintenance request: %w", err)
	}

	return &request, nil
}

func (s *MaintenanceService) ListRequests(status *models.MaintenanceStatus, params utils.PaginationParams) ([]models.MaintenanceRequest, int64, error) {
	query := s.db.Model(&models.MaintenanceRequest{}).Preload("Room")
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count maintenance requests: %w", err)
	}

	allowedSortFields := []string{"created_at", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var requests []models.MaintenanceRequest
	if err := query.Find(&requests).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch maintenance requests: %w", err)
	}

	return requests, total, nil
}
