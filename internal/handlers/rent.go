// internal/handlers/rent.go
package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zamahele/TenantManagement-sub001/internal/scheduler"
	"github.com/Zamahele/TenantManagement-sub001/internal/services"
	"github.com/Zamahele/TenantManagement-sub001/internal/utils"
)

type RentHandler struct {
	rentService  *services.RentService
	leaseService *services.LeaseService
	reminders    *scheduler.RentReminderScheduler
}

func NewRentHandler(
	rentService *services.RentService,
	leaseService *services.LeaseService,
	reminders *scheduler.RentReminderScheduler,
) *RentHandler {
	return &RentHandler{
		rentService:  rentService,
		leaseService: leaseService,
		reminders:    reminders,
	}
}

// GET /leases/:id/next-due-date
func (h *RentHandler) GetNextDueDate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	lease, err := h.leaseService.GetLease(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	dueDate, hasDue := services.NextRentDueDate(time.Now(), lease.StartDate, lease.EndDate, lease.ExpectedRentDay)
	if !hasDue {
		utils.SuccessResponse(c, gin.H{
			"lease_id":     id,
			"has_due_date": false,
		})
		return
	}

	utils.SuccessResponse(c, gin.H{
		"lease_id":     id,
		"has_due_date": true,
		"due_date":     dueDate.Format("2006-01-02"),
	})
}

// GET /rent/overdue
func (h *RentHandler) GetOverdueLeases(c *gin.Context) {
	leases, err := h.rentService.OverdueLeases(time.Now())
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"leases": leases,
		"count":  len(leases),
	})
}

// GET /rent/upcoming
func (h *RentHandler) GetUpcomingLeases(c *gin.Context) {
	leadDays := 3
	if daysStr := c.Query("days"); daysStr != "" {
		if days, err := strconv.Atoi(daysStr); err == nil && days > 0 && days <= 31 {
			leadDays = days
		}
	}

	leases, err := h.rentService.LeasesDueInDays(time.Now(), leadDays)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"leases":    leases,
		"count":     len(leases),
		"lead_days": leadDays,
	})
}

// GET /rent/expiring
func (h *RentHandler) GetExpiringLeases(c *gin.Context) {
	windowDays := 30
	if daysStr := c.Query("days"); daysStr != "" {
		if days, err := strconv.Atoi(daysStr); err == nil && days > 0 && days <= 365 {
			windowDays = days
		}
	}

	leases, err := h.rentService.ExpiringLeases(time.Now(), windowDays)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"leases":      leases,
		"count":       len(leases),
		"window_days": windowDays,
	})
}

// POST /rent/reminders/run
func (h *RentHandler) RunRemindersNow(c *gin.Context) {
	h.reminders.RunNow()

	utils.SuccessResponse(c, gin.H{
		"message": "Reminder cycle triggered",
	})
}
