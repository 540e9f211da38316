// internal/services/template_service.go
package services

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Zamahele/TenantManagement-sub001/internal/models"
	"github.com/Zamahele/TenantManagement-sub001/internal/utils"
)

type TemplateService struct {
	db *gorm.DB
}

type CreateTemplateRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description,omitempty"`
	HtmlBody    string `json:"html_body" validate:"required"`
	IsDefault   bool   `json:"is_default"`
	IsActive    bool   `json:"is_active"`
}

type UpdateTemplateRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Description *string `json:"description,omitempty"`
	HtmlBody    *string `json:"html_body,omitempty"`
	IsDefault   *bool   `json:"is_default,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

func NewTemplateService(db *gorm.DB) *TemplateService {
	return &TemplateService{db: db}
}

func (s *TemplateService) CreateTemplate(req *CreateTemplateRequest) (*models.LeaseTemplate, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, wrapServiceError(ErrKindValidationFailure, err, "invalid template")
	}

	tmpl := &models.LeaseTemplate{
		Name:        req.Name,
		Description: req.Description,
		HtmlBody:    req.HtmlBody,
		IsDefault:   req.IsDefault,
		IsActive:    req.IsActive,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if tmpl.IsDefault {
			// Keep the soft invariant: one default among active templates.
			if err := tx.Model(&models.LeaseTemplate{}).
				Where("is_default = ?", true).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(tmpl).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create lease template: %w", err)
	}

	return tmpl, nil
}

func (s *TemplateService) UpdateTemplate(id uuid.UUID, req *UpdateTemplateRequest) (*models.LeaseTemplate, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, wrapServiceError(ErrKindValidationFailure, err, "invalid template update")
	}

	var tmpl models.LeaseTemplate
	if err := s.db.First(&tmpl, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newServiceError(ErrKindTemplateNotFound, "lease template %s not found", id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if req.Name != nil {
		tmpl.Name = *req.Name
	}
	if req.Description != nil {
		tmpl.Description = *req.Description
	}
	if req.HtmlBody != nil {
		tmpl.HtmlBody = *req.HtmlBody
	}
	if req.IsActive != nil {
		tmpl.IsActive = *req.IsActive
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if req.IsDefault != nil && *req.IsDefault && !tmpl.IsDefault {
			if err := tx.Model(&models.LeaseTemplate{}).
				Where("is_default = ?", true).
				Update("is_default", false).Error; err != nil {
				return err
			}
			tmpl.IsDefault = true
		} else if req.IsDefault != nil {
			tmpl.IsDefault = *req.IsDefault
		}
		return tx.Save(&tmpl).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update lease template: %w", err)
	}

	return &tmpl, nil
}

func (s *TemplateService) GetTemplate(id uuid.UUID) (*models.LeaseTemplate, error) {
	var tmpl models.LeaseTemplate
	if err := s.db.First(&tmpl, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newServiceError(ErrKindTemplateNotFound, "lease template %s not found", id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &tmpl, nil
}

func (s *TemplateService) ListTemplates(activeOnly bool) ([]models.LeaseTemplate, error) {
	var templates []models.LeaseTemplate
	query := s.db.Order("created_at DESC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch lease templates: %w", err)
	}
	return templates, nil
}

// ResolveTemplate returns the explicitly requested template, or the active
// default when no id is given.
func (s *TemplateService) ResolveTemplate(templateID *uuid.UUID) (*models.LeaseTemplate, error) {
	if templateID != nil {
		return s.GetTemplate(*templateID)
	}

	var tmpl models.LeaseTemplate
	err := s.db.Where("is_default = ? AND is_active = ?", true, true).First(&tmpl).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newServiceError(ErrKindTemplateNotFound, "no active default lease template configured")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &tmpl, nil
}

// LeaseTemplateData carries the placeholder variables substituted into a
// lease template body.
type LeaseTemplateData struct {
	TenantName      string
	TenantPhone     string
	TenantEmail     string
	RoomNumber      string
	StartDate       string
	EndDate         string
	RentAmount      string
	ExpectedRentDay int
}

// Render substitutes lease/tenant/room variables into the template body.
func (s *TemplateService) Render(tmpl *models.LeaseTemplate, data LeaseTemplateData) (string, error) {
	parsed, err := template.New("lease").Parse(tmpl.HtmlBody)
	if err != nil {
		return "", wrapServiceError(ErrKindRenderFailure, err, "lease template %q does not parse", tmpl.Name)
	}

	var buf bytes.Buffer
	if err := parsed.Execute(&buf, data); err != nil {
		return "", wrapServiceError(ErrKindRenderFailure, err, "failed to render lease template %q", tmpl.Name)
	}

	return buf.String(), nil
}
