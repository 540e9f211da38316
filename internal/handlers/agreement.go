// internal/handlers/agreement.go
package handlers

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Zamahele/TenantManagement-sub001/internal/models"
	"github.com/Zamahele/TenantManagement-sub001/internal/services"
	"github.com/Zamahele/TenantManagement-sub001/internal/utils"
)

type AgreementHandler struct {
	agreementService *services.AgreementService
	tenantService    *services.TenantService
}

func NewAgreementHandler(agreementService *services.AgreementService, tenantService *services.TenantService) *AgreementHandler {
	return &AgreementHandler{
		agreementService: agreementService,
		tenantService:    tenantService,
	}
}

type generateAgreementRequest struct {
	TemplateID *uuid.UUID `json:"template_id,omitempty"`
	RenderPDF  bool       `json:"render_pdf,omitempty"`
}

type signLeaseRequest struct {
	ImageData string `json:"image_data" validate:"required"`
	Notes     string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// signingIdentity resolves who the caller is for signing-page access checks:
// managers get the preview sentinel, tenant logins resolve to their tenant
// record.
func (h *AgreementHandler) signingIdentity(c *gin.Context) (uuid.UUID, bool) {
	role, _ := utils.GetUserRoleFromContext(c)
	if role == string(models.UserRoleManager) {
		return services.ManagerPreviewID, true
	}

	userID, ok := currentUserID(c)
	if !ok {
		return uuid.Nil, false
	}

	tenant, err := h.tenantService.GetTenantByUserID(userID)
	if err != nil {
		respondServiceError(c, err)
		return uuid.Nil, false
	}
	return tenant.ID, true
}

// POST /leases/:id/generate
func (h *AgreementHandler) GenerateAgreement(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req generateAgreementRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid input", err.Error())
			return
		}
	}

	lease, err := h.agreementService.GenerateHTML(id, req.TemplateID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if req.RenderPDF {
		pdfPath, err := h.agreementService.GeneratePDF(c.Request.Context(), id, lease.HtmlContent)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		lease.PdfPath = pdfPath
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Lease agreement generated",
		"lease":   lease,
	})
}

// POST /leases/:id/send
func (h *AgreementHandler) SendToTenant(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	lease, err := h.agreementService.SendToTenant(id)
	if err != nil {
		// The lease may have moved to Sent even when the email delivery
		// failed; surface both.
		if lease != nil && services.IsKind(err, services.ErrKindExternalServiceFailure) {
			utils.SuccessResponse(c, gin.H{
				"message": "Lease marked as sent but email delivery failed",
				"lease":   lease,
				"warning": err.Error(),
			})
			return
		}
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Lease sent to tenant",
		"lease":   lease,
	})
}

// GET /signing/leases/:id
func (h *AgreementHandler) GetLeaseForSigning(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	tenantID, ok := h.signingIdentity(c)
	if !ok {
		return
	}

	lease, err := h.agreementService.GetLeaseForSigning(id, tenantID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"lease": lease,
	})
}

// POST /signing/leases/:id/sign
func (h *AgreementHandler) SignLease(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	tenantID, ok := h.signingIdentity(c)
	if !ok {
		return
	}

	var req signLeaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	imageData, err := decodeSignatureImage(req.ImageData)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid signature image", err.Error())
		return
	}

	signature, err := h.agreementService.SignLease(services.SignLeaseRequest{
		LeaseID:   id,
		TenantID:  tenantID,
		ImageData: imageData,
		SignerIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Notes:     req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":   "Lease signed",
		"signature": signature,
	})
}

// GET /leases/:id/signature/verify
func (h *AgreementHandler) VerifySignature(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	valid, err := h.agreementService.VerifySignature(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"lease_id": id,
		"valid":    valid,
	})
}

// POST /leases/:id/finalize
func (h *AgreementHandler) FinalizeLease(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	lease, err := h.agreementService.FinalizeLease(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Lease finalized",
		"lease":   lease,
	})
}

// GET /signing/leases/:id/download
func (h *AgreementHandler) DownloadSignedLease(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	tenantID, ok := h.signingIdentity(c)
	if !ok {
		return
	}

	data, contentType, err := h.agreementService.DownloadSignedLease(id, tenantID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	ext := "html"
	if contentType == "application/pdf" {
		ext = "pdf"
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="lease-%s.%s"`, id, ext))
	c.Data(200, contentType, data)
}

// decodeSignatureImage accepts either a raw base64 payload or a data URL
// ("data:image/png;base64,...") as produced by canvas toDataURL.
func decodeSignatureImage(encoded string) ([]byte, error) {
	if idx := strings.Index(encoded, ","); idx >= 0 && strings.HasPrefix(encoded, "data:") {
		encoded = encoded[idx+1:]
	}
	return base64.StdEncoding.DecodeString(encoded)
}
