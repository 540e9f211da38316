// internal/handlers/maintenance.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Zamahele/TenantManagement-sub001/internal/models"
	"github.com/Zamahele/TenantManagement-sub001/internal/services"
	"github.com/Zamahele/TenantManagement-sub001/internal/utils"
)

type MaintenanceHandler struct {
	maintenanceService *services.MaintenanceService
}

func NewMaintenanceHandler(maintenanceService *services.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{
		maintenanceService: maintenanceService,
	}
}

type updateMaintenanceStatusRequest struct {
	Status models.MaintenanceStatus `json:"status" validate:"required,oneof=open in_progress resolved closed"`
}

// POST /maintenance
func (h *MaintenanceHandler) CreateRequest(c *gin.Context) {
	var req services.CreateMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	request, err := h.maintenanceService.CreateRequest(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"request": request,
	})
}

// PUT /maintenance/:id/status
func (h *MaintenanceHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req updateMaintenanceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	request, err := h.maintenanceService.UpdateStatus(id, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"request": request,
	})
}

// GET /maintenance
func (h *MaintenanceHandler) GetRequests(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	var status *models.MaintenanceStatus
	if statusStr := c.Query("status"); statusStr != "" {
		s := models.MaintenanceStatus(statusStr)
		status = &s
	}

	requests, total, err := h.maintenanceService.ListRequests(status, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(requests, total, params)
	utils.PaginatedResponse(c, result)
}
