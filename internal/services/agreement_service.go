// internal/services/agreement_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Zamahele/TenantManagement-sub001/internal/config"
	"github.com/Zamahele/TenantManagement-sub001/internal/models"
)

// ManagerPreviewID is the sentinel tenant id a manager passes to view a
// lease for signing without being its tenant.
var ManagerPreviewID = uuid.Nil

// AgreementService drives a lease through content generation, dispatch and
// digital signing, validating every move against the lease state machine.
type AgreementService struct {
	db            *gorm.DB
	templates     *TemplateService
	renderer      PDFRenderer
	storage       *StorageService
	notifications *NotificationService
	verifier      *SignatureVerifier
	autoComplete  bool
}

func NewAgreementService(
	db *gorm.DB,
	templates *TemplateService,
	renderer PDFRenderer,
	storage *StorageService,
	notifications *NotificationService,
	verifier *SignatureVerifier,
	signingCfg config.SigningConfig,
) *AgreementService {
	return &AgreementService{
		db:            db,
		templates:     templates,
		renderer:      renderer,
		storage:       storage,
		notifications: notifications,
		verifier:      verifier,
		autoComplete:  signingCfg.AutoComplete,
	}
}

func (s *AgreementService) loadLease(leaseID uuid.UUID) (*models.Lease, error) {
	var lease models.Lease
	err := s.db.Preload("Tenant").Preload("Room").Preload("Signature").
		First(&lease, "id = ?", leaseID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newServiceError(ErrKindNotFound, "lease %s not found", leaseID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &lease, nil
}

// GenerateHTML renders the lease agreement from a template. From Draft the
// lease advances to Generated; regenerating while Generated or Sent
// overwrites the content without regressing the status, which is the
// sanctioned recovery path for a lease with inconsistent content.
func (s *AgreementService) GenerateHTML(leaseID uuid.UUID, templateID *uuid.UUID) (*models.Lease, error) {
	lease, err := s.loadLease(leaseID)
	if err != nil {
		return nil, err
	}

	switch lease.Status {
	case models.LeaseStatusDraft, models.LeaseStatusGenerated, models.LeaseStatusSent:
		// generation or regeneration allowed
	default:
		return nil, newServiceError(ErrKindInvalidStateTransition,
			"lease %s content cannot be generated from status %s", leaseID, lease.Status)
	}

	tmpl, err := s.templates.ResolveTemplate(templateID)
	if err != nil {
		return nil, err
	}

	html, err := s.templates.Render(tmpl, LeaseTemplateData{
		TenantName:      lease.Tenant.FullName,
		TenantPhone:     lease.Tenant.PhoneNumber,
		TenantEmail:     lease.Tenant.Email,
		RoomNumber:      lease.Room.Number,
		StartDate:       lease.StartDate.Format("02 January 2006"),
		EndDate:         lease.EndDate.Format("02 January 2006"),
		RentAmount:      fmt.Sprintf("R%.2f", lease.RentAmount),
		ExpectedRentDay: lease.ExpectedRentDay,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	lease.HtmlContent = html
	lease.TemplateID = &tmpl.ID
	lease.GeneratedAt = &now
	if lease.Status == models.LeaseStatusDraft {
		lease.Status = models.LeaseStatusGenerated
	}

	if err := s.db.Save(lease).Error; err != nil {
		return nil, fmt.Errorf("failed to save generated lease: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"lease_id": lease.ID,
		"template": tmpl.Name,
		"status":   lease.Status.String(),
	}).Info("Lease HTML generated")

	return lease, nil
}

// GeneratePDF renders the given HTML to a PDF artifact and records its
// storage path. A renderer failure leaves the lease untouched; earlier HTML
// generation is never rolled back and the operation can simply be retried.
func (s *AgreementService) GeneratePDF(ctx context.Context, leaseID uuid.UUID, html string) (string, error) {
	lease, err := s.loadLease(leaseID)
	if err != nil {
		return "", err
	}

	if html == "" {
		return "", newServiceError(ErrKindValidationFailure, "no HTML content to render")
	}

	pdf, err := s.renderer.RenderPDF(ctx, html)
	if err != nil {
		if IsKind(err, ErrKindRenderFailure) {
			return "", err
		}
		return "", wrapServiceError(ErrKindRenderFailure, err, "PDF rendering failed for lease %s", leaseID)
	}

	pdfPath, err := s.storage.SaveLeasePDF(lease.ID, pdf)
	if err != nil {
		return "", wrapServiceError(ErrKindExternalServiceFailure, err, "failed to store PDF for lease %s", leaseID)
	}

	if err := s.db.Model(lease).Update("pdf_path", pdfPath).Error; err != nil {
		return "", fmt.Errorf("failed to record PDF path: %w", err)
	}

	return pdfPath, nil
}

// SendToTenant dispatches a generated lease to its tenant for signing and
// advances Generated to Sent.
func (s *AgreementService) SendToTenant(leaseID uuid.UUID) (*models.Lease, error) {
	lease, err := s.loadLease(leaseID)
	if err != nil {
		return nil, err
	}

	if !lease.HasContent() {
		return nil, newServiceError(ErrKindNotReadyForSigning,
			"lease %s has no generated content to send", leaseID)
	}

	if !lease.Status.CanTransitionTo(models.LeaseStatusSent) {
		return nil, newServiceError(ErrKindInvalidStateTransition,
			"lease %s cannot be sent from status %s", leaseID, lease.Status)
	}

	now := time.Now()
	lease.SentToTenantAt = &now
	lease.Status = models.LeaseStatusSent

	if err := s.db.Save(lease).Error; err != nil {
		return nil, fmt.Errorf("failed to mark lease as sent: %w", err)
	}

	if err := s.notifications.SendLeaseToTenantEmail(lease, &lease.Tenant); err != nil {
		// Status stays Sent; the e-mail can be re-issued out of band.
		logrus.WithError(err).WithField("lease_id", lease.ID).Warn("Failed to e-mail lease to tenant")
		return lease, err
	}

	logrus.WithFields(logrus.Fields{
		"lease_id": lease.ID,
		"tenant":   lease.Tenant.Email,
	}).Info("Lease sent to tenant")

	return lease, nil
}

// GetLeaseForSigning returns the lease view for the signing page. Only the
// lease's tenant may view it, except for a manager preview via
// ManagerPreviewID, and only once the lease has been sent.
func (s *AgreementService) GetLeaseForSigning(leaseID, tenantID uuid.UUID) (*models.Lease, error) {
	lease, err := s.loadLease(leaseID)
	if err != nil {
		return nil, err
	}

	if tenantID != ManagerPreviewID && tenantID != lease.TenantID {
		return nil, newServiceError(ErrKindAccessDenied,
			"tenant %s does not own lease %s", tenantID, leaseID)
	}

	if !lease.Status.AtLeast(models.LeaseStatusSent) {
		return nil, newServiceError(ErrKindNotReadyForSigning,
			"lease %s is not ready for signing (status %s)", leaseID, lease.Status)
	}

	return lease, nil
}

type SignLeaseRequest struct {
	LeaseID   uuid.UUID
	TenantID  uuid.UUID
	ImageData []byte
	SignerIP  string
	UserAgent string
	Notes     string
}

// SignLease executes a tenant's signature on a sent lease: it stores the
// signature image, computes the tamper-evident content hash, creates the
// one-and-only DigitalSignature record and advances the lease to Signed
// (or Completed when auto-completion is on).
//
// The pre-check for an existing signature is advisory; the unique index on
// digital_signatures(lease_id) is what actually serializes concurrent
// signing attempts, surfacing the loser as AlreadySigned.
func (s *AgreementService) SignLease(req SignLeaseRequest) (*models.DigitalSignature, error) {
	if len(req.ImageData) == 0 {
		return nil, newServiceError(ErrKindValidationFailure, "signature image data is required")
	}

	lease, err := s.loadLease(req.LeaseID)
	if err != nil {
		return nil, err
	}

	if req.TenantID != lease.TenantID {
		return nil, newServiceError(ErrKindAccessDenied,
			"tenant %s does not own lease %s", req.TenantID, req.LeaseID)
	}

	var existing int64
	if err := s.db.Model(&models.DigitalSignature{}).
		Where("lease_id = ?", req.LeaseID).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing signatures: %w", err)
	}
	if existing > 0 {
		return nil, newServiceError(ErrKindAlreadySigned, "lease %s is already signed", req.LeaseID)
	}

	if lease.Status != models.LeaseStatusSent {
		return nil, newServiceError(ErrKindInvalidStateTransition,
			"lease %s cannot be signed from status %s", req.LeaseID, lease.Status)
	}

	imagePath, err := s.storage.SaveSignatureImage(lease.ID, req.ImageData)
	if err != nil {
		return nil, wrapServiceError(ErrKindExternalServiceFailure, err, "failed to store signature image")
	}

	signedAt := time.Now()
	signature := &models.DigitalSignature{
		LeaseID:         lease.ID,
		TenantID:        req.TenantID,
		SignedAt:        signedAt,
		ImagePath:       imagePath,
		ContentHash:     s.verifier.ComputeHash(req.ImageData, lease.ID, req.TenantID, signedAt),
		SignerIP:        req.SignerIP,
		SignerUserAgent: req.UserAgent,
		Notes:           req.Notes,
		Verified:        true,
	}

	nextStatus := models.LeaseStatusSigned
	if s.autoComplete {
		nextStatus = models.LeaseStatusCompleted
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(signature).Error; err != nil {
			return err
		}
		return tx.Model(lease).Updates(map[string]interface{}{
			"is_digitally_signed": true,
			"signed_at":           signedAt,
			"status":              nextStatus,
		}).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			// A concurrent signing attempt committed first.
			return nil, newServiceError(ErrKindAlreadySigned, "lease %s is already signed", req.LeaseID)
		}
		return nil, fmt.Errorf("failed to record signature: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"lease_id":  lease.ID,
		"tenant_id": req.TenantID,
		"signer_ip": req.SignerIP,
		"status":    nextStatus.String(),
	}).Info("Lease signed")

	return signature, nil
}

// VerifySignature recomputes the content hash from the stored signature
// image and compares it with the hash captured at signing time.
func (s *AgreementService) VerifySignature(leaseID uuid.UUID) (bool, error) {
	var signature models.DigitalSignature
	err := s.db.First(&signature, "lease_id = ?", leaseID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, newServiceError(ErrKindNotFound, "no signature on record for lease %s", leaseID)
		}
		return false, fmt.Errorf("database error: %w", err)
	}

	imageData, err := s.storage.ReadFile(signature.ImagePath)
	if err != nil {
		return false, wrapServiceError(ErrKindExternalServiceFailure, err, "failed to read signature image")
	}

	return s.verifier.Verify(&signature, imageData), nil
}

// FinalizeLease advances a signed lease to Completed once its signature is
// verified.
func (s *AgreementService) FinalizeLease(leaseID uuid.UUID) (*models.Lease, error) {
	lease, err := s.loadLease(leaseID)
	if err != nil {
		return nil, err
	}

	if !lease.Status.CanTransitionTo(models.LeaseStatusCompleted) {
		return nil, newServiceError(ErrKindInvalidStateTransition,
			"lease %s cannot be finalized from status %s", leaseID, lease.Status)
	}

	if lease.Signature == nil || !lease.Signature.Verified {
		return nil, newServiceError(ErrKindInvalidStateTransition,
			"lease %s has no verified signature", leaseID)
	}

	lease.Status = models.LeaseStatusCompleted
	if err := s.db.Save(lease).Error; err != nil {
		return nil, fmt.Errorf("failed to finalize lease: %w", err)
	}

	return lease, nil
}

// DownloadSignedLease returns the executed agreement document, preferring
// the PDF artifact and falling back to the rendered HTML.
func (s *AgreementService) DownloadSignedLease(leaseID, tenantID uuid.UUID) ([]byte, string, error) {
	lease, err := s.loadLease(leaseID)
	if err != nil {
		return nil, "", err
	}

	if tenantID != ManagerPreviewID && tenantID != lease.TenantID {
		return nil, "", newServiceError(ErrKindAccessDenied,
			"tenant %s does not own lease %s", tenantID, leaseID)
	}

	if !lease.Status.AtLeast(models.LeaseStatusSigned) {
		return nil, "", newServiceError(ErrKindNotReadyForSigning,
			"lease %s has not been signed (status %s)", leaseID, lease.Status)
	}

	if lease.PdfPath != "" {
		pdf, err := s.storage.ReadFile(lease.PdfPath)
		if err != nil {
			return nil, "", wrapServiceError(ErrKindExternalServiceFailure, err, "failed to read lease PDF")
		}
		return pdf, "application/pdf", nil
	}

	if lease.HasContent() {
		return []byte(lease.HtmlContent), "text/html", nil
	}

	return nil, "", newServiceError(ErrKindNotFound, "no document on record for lease %s", leaseID)
}
