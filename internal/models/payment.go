// internal/models/payment.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Payment records one received rent or deposit payment. BillingMonth and
// BillingYear identify which rent period a rent payment covers; the overdue
// check in the reminder scheduler matches on that pair.
type Payment struct {
	BaseModel
	TenantID uuid.UUID  `json:"tenant_id" gorm:"type:uuid;not null;index"`
	LeaseID  *uuid.UUID `json:"lease_id,omitempty" gorm:"type:uuid;index"`

	Amount       float64       `json:"amount" gorm:"not null"`
	Type         PaymentType   `json:"type" gorm:"type:varchar(20);not null;default:'rent'"`
	Method       PaymentMethod `json:"method" gorm:"type:varchar(20);not null;default:'cash'"`
	BillingMonth int           `json:"billing_month" gorm:"not null"`
	BillingYear  int           `json:"billing_year" gorm:"not null"`
	PaidAt       time.Time     `json:"paid_at" gorm:"not null"`

	// Set when the payment was taken by card through Stripe.
	StripePaymentIntentID string `json:"stripe_payment_intent_id,omitempty" gorm:"size:255"`

	Tenant Tenant `json:"tenant,omitempty" gorm:"foreignKey:TenantID"`
}

type MaintenanceRequest struct {
	BaseModel
	RoomID   uuid.UUID  `json:"room_id" gorm:"type:uuid;not null;index"`
	TenantID *uuid.UUID `json:"tenant_id,omitempty" gorm:"type:uuid;index"`

	Description string            `json:"description" gorm:"type:text;not null"`
	PhotoURLs   pq.StringArray    `json:"photo_urls" gorm:"type:text[]"`
	Status      MaintenanceStatus `json:"status" gorm:"type:varchar(20);not null;default:'open';index"`
	ResolvedAt  *time.Time        `json:"resolved_at,omitempty"`

	Room Room `json:"room,omitempty" gorm:"foreignKey:RoomID"`
}
