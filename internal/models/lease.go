// internal/models/lease.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// LeaseStatus is persisted as an ordinal so "at least Sent" comparisons
// stay cheap in SQL and in code.
type LeaseStatus int

const (
	LeaseStatusDraft LeaseStatus = iota
	LeaseStatusGenerated
	LeaseStatusSent
	LeaseStatusSigned
	LeaseStatusCompleted
	LeaseStatusCancelled
)

func (s LeaseStatus) String() string {
	switch s {
	case LeaseStatusDraft:
		return "draft"
	case LeaseStatusGenerated:
		return "generated"
	case LeaseStatusSent:
		return "sent"
	case LeaseStatusSigned:
		return "signed"
	case LeaseStatusCompleted:
		return "completed"
	case LeaseStatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ParseLeaseStatus maps a status name back to its ordinal, for query filters.
func ParseLeaseStatus(name string) (LeaseStatus, bool) {
	for s := LeaseStatusDraft; s <= LeaseStatusCancelled; s++ {
		if s.String() == name {
			return s, true
		}
	}
	return LeaseStatusDraft, false
}

// leaseTransitions is the single source of truth for legal status moves.
// Cancellation from non-terminal states is handled in CanTransitionTo
// rather than enumerated per state.
var leaseTransitions = map[LeaseStatus][]LeaseStatus{
	LeaseStatusDraft:     {LeaseStatusGenerated},
	LeaseStatusGenerated: {LeaseStatusSent},
	LeaseStatusSent:      {LeaseStatusSigned},
	LeaseStatusSigned:    {LeaseStatusCompleted},
}

// IsTerminal reports whether no further transition is possible.
func (s LeaseStatus) IsTerminal() bool {
	return s == LeaseStatusCompleted || s == LeaseStatusCancelled
}

// CanTransitionTo reports whether moving from s to target is a legal edge.
func (s LeaseStatus) CanTransitionTo(target LeaseStatus) bool {
	if target == LeaseStatusCancelled {
		return !s.IsTerminal()
	}
	for _, next := range leaseTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// AtLeast reports whether the status has reached the given stage.
// Cancelled leases never count as having reached anything.
func (s LeaseStatus) AtLeast(stage LeaseStatus) bool {
	if s == LeaseStatusCancelled {
		return false
	}
	return s >= stage
}

// Lease is one tenancy contract between a tenant and a room for a date range.
type Lease struct {
	BaseModel
	TenantID uuid.UUID `json:"tenant_id" gorm:"type:uuid;not null;index"`
	RoomID   uuid.UUID `json:"room_id" gorm:"type:uuid;not null;index"`

	StartDate       time.Time `json:"start_date" gorm:"not null"`
	EndDate         time.Time `json:"end_date" gorm:"not null"`
	RentAmount      float64   `json:"rent_amount" gorm:"not null"`
	ExpectedRentDay int       `json:"expected_rent_day" gorm:"not null;default:1"`

	Status         LeaseStatus `json:"status" gorm:"not null;default:0;index"`
	HtmlContent    string      `json:"html_content,omitempty" gorm:"type:text"`
	PdfPath        string      `json:"pdf_path,omitempty" gorm:"size:512"`
	TemplateID     *uuid.UUID  `json:"template_id,omitempty" gorm:"type:uuid"`
	GeneratedAt    *time.Time  `json:"generated_at,omitempty"`
	SentToTenantAt *time.Time  `json:"sent_to_tenant_at,omitempty"`
	SignedAt       *time.Time  `json:"signed_at,omitempty"`

	RequiresDigitalSignature bool `json:"requires_digital_signature" gorm:"default:true"`
	IsDigitallySigned        bool `json:"is_digitally_signed" gorm:"default:false"`

	// Relationships
	Tenant    Tenant            `json:"tenant,omitempty" gorm:"foreignKey:TenantID"`
	Room      Room              `json:"room,omitempty" gorm:"foreignKey:RoomID"`
	Signature *DigitalSignature `json:"signature,omitempty" gorm:"foreignKey:LeaseID"`
}

// HasContent reports whether lease HTML has been generated.
func (l *Lease) HasContent() bool {
	return l.HtmlContent != ""
}

// DigitalSignature is the immutable audit record of one tenant executing a
// lease. The unique index on LeaseID is the serialization point for
// concurrent signing attempts.
type DigitalSignature struct {
	BaseModel
	LeaseID  uuid.UUID `json:"lease_id" gorm:"type:uuid;not null;uniqueIndex"`
	TenantID uuid.UUID `json:"tenant_id" gorm:"type:uuid;not null;index"`

	SignedAt        time.Time `json:"signed_at" gorm:"not null"`
	ImagePath       string    `json:"image_path" gorm:"size:512;not null"`
	ContentHash     string    `json:"content_hash" gorm:"size:64;not null"`
	SignerIP        string    `json:"signer_ip" gorm:"size:45"`
	SignerUserAgent string    `json:"signer_user_agent" gorm:"size:512"`
	Notes           string    `json:"notes,omitempty" gorm:"type:text"`
	Verified        bool      `json:"verified" gorm:"default:false"`
}

// LeaseTemplate is a reusable HTML document with placeholders for
// lease/tenant/room variables. At most one active template should be marked
// default; the flag is maintained by the template service, not a constraint.
type LeaseTemplate struct {
	BaseModel
	Name        string `json:"name" gorm:"size:100;not null"`
	Description string `json:"description,omitempty" gorm:"type:text"`
	HtmlBody    string `json:"html_body" gorm:"type:text;not null"`
	IsDefault   bool   `json:"is_default" gorm:"default:false;index"`
	IsActive    bool   `json:"is_active" gorm:"default:true;index"`
}
