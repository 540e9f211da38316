// internal/models/tenant.go
package models

import (
	"github.com/google/uuid"
)

type Tenant struct {
	BaseModel
	UserID *uuid.UUID `json:"user_id,omitempty" gorm:"type:uuid;index"`
	RoomID *uuid.UUID `json:"room_id,omitempty" gorm:"type:uuid;index"`

	FullName              string `json:"full_name" gorm:"size:100;not null"`
	Email                 string `json:"email" gorm:"size:255"`
	PhoneNumber           string `json:"phone_number" gorm:"size:20;not null"`
	IDNumber              string `json:"id_number" gorm:"size:30"`
	EmergencyContactName  string `json:"emergency_contact_name" gorm:"size:100"`
	EmergencyContactPhone string `json:"emergency_contact_phone" gorm:"size:20"`

	// Relationships
	User   *User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Room   *Room   `json:"room,omitempty" gorm:"foreignKey:RoomID"`
	Leases []Lease `json:"leases,omitempty" gorm:"foreignKey:TenantID"`
}

type Room struct {
	BaseModel
	Number      string     `json:"number" gorm:"uniqueIndex;size:20;not null"`
	Type        RoomType   `json:"type" gorm:"type:varchar(20);not null;default:'single'"`
	Status      RoomStatus `json:"status" gorm:"type:varchar(20);not null;default:'available';index"`
	MonthlyRent float64    `json:"monthly_rent" gorm:"not null"`
	Description string     `json:"description,omitempty" gorm:"type:text"`
}
