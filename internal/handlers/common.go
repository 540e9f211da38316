// internal/handlers/common.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Zamahele/TenantManagement-sub001/internal/services"
	"github.com/Zamahele/TenantManagement-sub001/internal/utils"
)

// respondServiceError translates a service error kind into the matching HTTP
// response envelope.
func respondServiceError(c *gin.Context, err error) {
	switch services.KindOf(err) {
	case services.ErrKindNotFound, services.ErrKindTemplateNotFound:
		utils.ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case services.ErrKindAccessDenied:
		utils.ForbiddenResponse(c, err.Error())
	case services.ErrKindAlreadySigned:
		utils.ConflictResponse(c, err.Error())
	case services.ErrKindInvalidStateTransition, services.ErrKindNotReadyForSigning:
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, "INVALID_STATE", err.Error(), nil)
	case services.ErrKindValidationFailure:
		utils.BadRequestResponse(c, err.Error(), nil)
	case services.ErrKindRenderFailure, services.ErrKindExternalServiceFailure:
		utils.ErrorResponse(c, http.StatusBadGateway, "UPSTREAM_FAILURE", err.Error(), nil)
	default:
		utils.InternalErrorResponse(c, err.Error())
	}
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return uuid.Nil, false
	}
	return userID, true
}
