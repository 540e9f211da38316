// internal/services/payment_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"gorm.io/gorm"

	"github.com/Zamahele/TenantManagement-sub001/internal/config"
	"github.com/Zamahele/TenantManagement-sub001/internal/models"
	"github.com/Zamahele/TenantManagement-sub001/internal/utils"
)

type PaymentService struct {
	db     *gorm.DB
	config *config.Config
}

type RecordPaymentRequest struct {
	TenantID     uuid.UUID  `json:"tenant_id" validate:"required"`
	LeaseID      *uuid.UUID `json:"lease_id,omitempty"`
	Amount       float64    `json:"amount" validate:"required,gt=0"`
	Type         string     `json:"type" validate:"required,oneof=rent deposit"`
	Method       string     `json:"method" validate:"required,oneof=cash eft card"`
	BillingMonth int        `json:"billing_month" validate:"required,min=1,max=12"`
	BillingYear  int        `json:"billing_year" validate:"required,min=2000"`
}

type CreateRentPaymentIntentRequest struct {
	TenantID     uuid.UUID `json:"tenant_id" validate:"required"`
	LeaseID      uuid.UUID `json:"lease_id" validate:"required"`
	BillingMonth int       `json:"billing_month" validate:"required,min=1,max=12"`
	BillingYear  int       `json:"billing_year" validate:"required,min=2000"`
}

type PaymentIntentResponse struct {
	ClientSecret string  `json:"client_secret"`
	IntentID     string  `json:"intent_id"`
	Amount       float64 `json:"amount"`
}

func NewPaymentService(db *gorm.DB, cfg *config.Config) *PaymentService {
	// Initialize Stripe
	stripe.Key = cfg.Payment.StripeSecretKey

	return &PaymentService{db: db, config: cfg}
}

// RecordPayment captures an already-received payment (cash or EFT) against
// a tenant and billing period.
func (s *PaymentService) RecordPayment(req *RecordPaymentRequest) (*models.Payment, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, wrapServiceError(ErrKindValidationFailure, err, "invalid payment")
	}

	var tenant models.Tenant
	if err := s.db.First(&tenant, "id = ?", req.TenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newServiceError(ErrKindNotFound, "tenant %s not found", req.TenantID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	payment := &models.Payment{
		TenantID:     req.TenantID,
		LeaseID:      req.LeaseID,
		Amount:       req.Amount,
		Type:         models.PaymentType(req.Type),
		Method:       models.PaymentMethod(req.Method),
		BillingMonth: req.BillingMonth,
		BillingYear:  req.BillingYear,
		PaidAt:       time.Now(),
	}

	if err := s.db.Create(payment).Error; err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	return payment, nil
}

// CreateRentPaymentIntent opens a Stripe PaymentIntent for one month's rent
// on a lease, to be confirmed client side.
func (s *PaymentService) CreateRentPaymentIntent(req *CreateRentPaymentIntentRequest) (*PaymentIntentResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, wrapServiceError(ErrKindValidationFailure, err, "invalid payment intent request")
	}

	var lease models.Lease
	if err := s.db.First(&lease, "id = ?", req.LeaseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newServiceError(ErrKindNotFound, "lease %s not found", req.LeaseID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if lease.TenantID != req.TenantID {
		return nil, newServiceError(ErrKindAccessDenied,
			"tenant %s does not own lease %s", req.TenantID, req.LeaseID)
	}

	amountInCents := int64(lease.RentAmount * 100)

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountInCents),
		Currency: stripe.String(s.config.Payment.Currency),
	}
	params.AddMetadata("tenant_id", req.TenantID.String())
	params.AddMetadata("lease_id", req.LeaseID.String())
	params.AddMetadata("billing_period", fmt.Sprintf("%04d-%02d", req.BillingYear, req.BillingMonth))

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, wrapServiceError(ErrKindExternalServiceFailure, err, "failed to create payment intent")
	}

	return &PaymentIntentResponse{
		ClientSecret: intent.ClientSecret,
		IntentID:     intent.ID,
		Amount:       lease.RentAmount,
	}, nil
}

// ConfirmRentPayment records a card payment once its Stripe intent reports
// success.
func (s *PaymentService) ConfirmRentPayment(intentID string) (*models.Payment, error) {
	intent, err := paymentintent.Get(intentID, nil)
	if err != nil {
		return nil, wrapServiceError(ErrKindExternalServiceFailure, err, "failed to fetch payment intent")
	}

	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, newServiceError(ErrKindValidationFailure,
			"payment intent %s has status %s", intentID, intent.Status)
	}

	tenantID, err := uuid.Parse(intent.Metadata["tenant_id"])
	if err != nil {
		return nil, newServiceError(ErrKindValidationFailure, "payment intent %s has no tenant metadata", intentID)
	}
	leaseID, err := uuid.Parse(intent.Metadata["lease_id"])
	if err != nil {
		return nil, newServiceError(ErrKindValidationFailure, "payment intent %s has no lease metadata", intentID)
	}

	var year, month int
	if _, err := fmt.Sscanf(intent.Metadata["billing_period"], "%d-%d", &year, &month); err != nil {
		return nil, newServiceError(ErrKindValidationFailure, "payment intent %s has no billing period metadata", intentID)
	}

	payment := &models.Payment{
		TenantID:              tenantID,
		LeaseID:               &leaseID,
		Amount:                float64(intent.Amount) / 100,
		Type:                  models.PaymentTypeRent,
		Method:                models.PaymentMethodCard,
		BillingMonth:          month,
		BillingYear:           year,
		PaidAt:                time.Now(),
		StripePaymentIntentID: intent.ID,
	}

	if err := s.db.Create(payment).Error; err != nil {
		return nil, fmt.Errorf("failed to record card payment: %w", err)
	}

	return payment, nil
}

func (s *PaymentService) ListPayments(tenantID *uuid.UUID, params utils.PaginationParams) ([]models.Payment, int64, error) {
	query := s.db.Model(&models.Payment{}).Preload("Tenant")
	if tenantID != nil {
		query = query.Where("tenant_id = ?", *tenantID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}

	allowedSortFields := []string{"created_at", "paid_at", "amount"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var payments []models.Payment
	if err := query.Find(&payments).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch payments: %w", err)
	}

	return payments, total, nil
}
