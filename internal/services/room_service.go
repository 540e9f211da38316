// internal/services/room_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Zamahele/TenantManagement-sub001/internal/models"
	"github.com/Zamahele/TenantManagement-sub001/internal/utils"
)

type RoomService struct {
	db *gorm.DB
}

type CreateRoomRequest struct {
	Number      string  `json:"number" validate:"required,max=20"`
	Type        string  `json:"type" validate:"required,oneof=single double family"`
	MonthlyRent float64 `json:"monthly_rent" validate:"required,gt=0"`
	Description string  `json:"description,omitempty"`
}

type UpdateRoomRequest struct {
	Type        *string  `json:"type,omitempty" validate:"omitempty,oneof=single double family"`
	Status      *string  `json:"status,omitempty" validate:"omitempty,oneof=available occupied maintenance"`
	MonthlyRent *float64 `json:"monthly_rent,omitempty" validate:"omitempty,gt=0"`
	Description *string  `json:"description,omitempty"`
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{db: db}
}

func (s *RoomService) CreateRoom(req *CreateRoomRequest) (*models.Room, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, wrapServiceError(ErrKindValidationFailure, err, "invalid room")
	}

	room := &models.Room{
		Number:      req.Number,
		Type:        models.RoomType(req.Type),
		Status:      models.RoomStatusAvailable,
		MonthlyRent: req.MonthlyRent,
		Description: req.Description,
	}

	if err := s.db.Create(room).Error; err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	return room, nil
}

func (s *RoomService) GetRoom(id uuid.UUID) (*models.Room, error) {
	var room models.Room
	if err := s.db.First(&room, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newServiceError(ErrKindNotFound, "room %s not found", id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &room, nil
}

func (s *RoomService) UpdateRoom(id uuid.UUID, req *UpdateRoomRequest) (*models.Room, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, wrapServiceError(ErrKindValidationFailure, err, "invalid room update")
	}

	room, err := s.GetRoom(id)
	if err != nil {
		return nil, err
	}

	if req.Type != nil {
		room.Type = models.RoomType(*req.Type)
	}
	if req.Status != nil {
		room.Status = models.RoomStatus(*req.Status)
	}
	if req.MonthlyRent != nil {
		room.MonthlyRent = *req.MonthlyRent
	}
	if req.Description != nil {
		room.Description = *req.Description
	}

	if err := s.db.Save(room).Error; err != nil {
		return nil, fmt.Errorf("failed to update room: %w", err)
	}

	return room, nil
}

func (s *RoomService) ListRooms(status *models.RoomStatus, params utils.PaginationParams) ([]models.Room, int64, error) {
	query := s.db.Model(&models.Room{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count rooms: %w", err)
	}

	allowedSortFields := []string{"created_at", "number", "monthly_rent"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var rooms []models.Room
	if err := query.Find(&rooms).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch rooms: %w", err)
	}

	return rooms, total, nil
}
