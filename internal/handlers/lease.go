// internal/handlers/lease.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Zamahele/TenantManagement-sub001/internal/models"
	"github.com/Zamahele/TenantManagement-sub001/internal/services"
	"github.com/Zamahele/TenantManagement-sub001/internal/utils"
)

type LeaseHandler struct {
	leaseService *services.LeaseService
}

func NewLeaseHandler(leaseService *services.LeaseService) *LeaseHandler {
	return &LeaseHandler{
		leaseService: leaseService,
	}
}

// POST /leases
func (h *LeaseHandler) CreateLease(c *gin.Context) {
	var req services.CreateLeaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	lease, err := h.leaseService.CreateLease(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"lease": lease,
	})
}

// GET /leases
func (h *LeaseHandler) GetLeases(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	searchParams := services.LeaseSearchParams{
		PaginationParams: params,
	}

	// Parse filters
	if tenantIDStr := c.Query("tenant_id"); tenantIDStr != "" {
		if tenantID, err := uuid.Parse(tenantIDStr); err == nil {
			searchParams.TenantID = &tenantID
		}
	}

	if roomIDStr := c.Query("room_id"); roomIDStr != "" {
		if roomID, err := uuid.Parse(roomIDStr); err == nil {
			searchParams.RoomID = &roomID
		}
	}

	if statusStr := c.Query("status"); statusStr != "" {
		if status, ok := models.ParseLeaseStatus(statusStr); ok {
			searchParams.Status = &status
		}
	}

	leases, total, err := h.leaseService.SearchLeases(searchParams)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(leases, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /leases/:id
func (h *LeaseHandler) GetLease(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	lease, err := h.leaseService.GetLease(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"lease": lease,
	})
}

// POST /leases/:id/cancel
func (h *LeaseHandler) CancelLease(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	lease, err := h.leaseService.CancelLease(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Lease cancelled",
		"lease":   lease,
	})
}

// DELETE /leases/:id
func (h *LeaseHandler) DeleteLease(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.leaseService.DeleteLease(id); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Lease deleted",
	})
}
