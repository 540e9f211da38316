// internal/services/template_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zamahele/TenantManagement-sub001/internal/models"
)

func TestCreateTemplateKeepsSingleDefault(t *testing.T) {
	db := newTestDB(t)
	svc := NewTemplateService(db)

	first, err := svc.CreateTemplate(&CreateTemplateRequest{
		Name:      "Original",
		HtmlBody:  "<p>v1</p>",
		IsDefault: true,
		IsActive:  true,
	})
	require.NoError(t, err)

	second, err := svc.CreateTemplate(&CreateTemplateRequest{
		Name:      "Replacement",
		HtmlBody:  "<p>v2</p>",
		IsDefault: true,
		IsActive:  true,
	})
	require.NoError(t, err)
	assert.True(t, second.IsDefault)

	var reloaded models.LeaseTemplate
	require.NoError(t, db.First(&reloaded, "id = ?", first.ID).Error)
	assert.False(t, reloaded.IsDefault)

	var defaults int64
	require.NoError(t, db.Model(&models.LeaseTemplate{}).
		Where("is_default = ?", true).Count(&defaults).Error)
	assert.EqualValues(t, 1, defaults)
}

func TestCreateTemplateValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewTemplateService(db)

	_, err := svc.CreateTemplate(&CreateTemplateRequest{Name: "No body"})
	assert.True(t, IsKind(err, ErrKindValidationFailure))
}

func TestUpdateTemplateMovesDefaultFlag(t *testing.T) {
	db := newTestDB(t)
	svc := NewTemplateService(db)

	first, err := svc.CreateTemplate(&CreateTemplateRequest{
		Name: "First", HtmlBody: "<p>1</p>", IsDefault: true, IsActive: true,
	})
	require.NoError(t, err)

	second, err := svc.CreateTemplate(&CreateTemplateRequest{
		Name: "Second", HtmlBody: "<p>2</p>", IsActive: true,
	})
	require.NoError(t, err)

	makeDefault := true
	updated, err := svc.UpdateTemplate(second.ID, &UpdateTemplateRequest{IsDefault: &makeDefault})
	require.NoError(t, err)
	assert.True(t, updated.IsDefault)

	var reloaded models.LeaseTemplate
	require.NoError(t, db.First(&reloaded, "id = ?", first.ID).Error)
	assert.False(t, reloaded.IsDefault)
}

func TestResolveTemplate(t *testing.T) {
	db := newTestDB(t)
	svc := NewTemplateService(db)

	// Nothing configured yet.
	_, err := svc.ResolveTemplate(nil)
	assert.True(t, IsKind(err, ErrKindTemplateNotFound))

	inactive, err := svc.CreateTemplate(&CreateTemplateRequest{
		Name: "Retired", HtmlBody: "<p>old</p>", IsDefault: true, IsActive: false,
	})
	require.NoError(t, err)

	// An inactive default does not resolve.
	_, err = svc.ResolveTemplate(nil)
	assert.True(t, IsKind(err, ErrKindTemplateNotFound))

	active, err := svc.CreateTemplate(&CreateTemplateRequest{
		Name: "Current", HtmlBody: "<p>new</p>", IsDefault: true, IsActive: true,
	})
	require.NoError(t, err)

	resolved, err := svc.ResolveTemplate(nil)
	require.NoError(t, err)
	assert.Equal(t, active.ID, resolved.ID)

	// An explicit id wins over the default, active or not.
	resolved, err = svc.ResolveTemplate(&inactive.ID)
	require.NoError(t, err)
	assert.Equal(t, inactive.ID, resolved.ID)

	missing := uuid.New()
	_, err = svc.ResolveTemplate(&missing)
	assert.True(t, IsKind(err, ErrKindTemplateNotFound))
}

func TestRenderSubstitutesPlaceholders(t *testing.T) {
	db := newTestDB(t)
	svc := NewTemplateService(db)

	tmpl := &models.LeaseTemplate{
		Name:     "Standard",
		HtmlBody: "<p>{{.TenantName}} rents room {{.RoomNumber}} for {{.RentAmount}}, due day {{.ExpectedRentDay}}, from {{.StartDate}} to {{.EndDate}}.</p>",
	}

	html, err := svc.Render(tmpl, LeaseTemplateData{
		TenantName:      "Naledi Khumalo",
		RoomNumber:      "305",
		StartDate:       "01 January 2026",
		EndDate:         "31 December 2026",
		RentAmount:      "R5200.00",
		ExpectedRentDay: 7,
	})
	require.NoError(t, err)
	assert.Contains(t, html, "Naledi Khumalo")
	assert.Contains(t, html, "room 305")
	assert.Contains(t, html, "R5200.00")
	assert.Contains(t, html, "due day 7")
	assert.Contains(t, html, "01 January 2026")
}

func TestRenderRejectsBrokenTemplate(t *testing.T) {
	db := newTestDB(t)
	svc := NewTemplateService(db)

	tmpl := &models.LeaseTemplate{Name: "Broken", HtmlBody: "{{.Unclosed"}
	_, err := svc.Render(tmpl, LeaseTemplateData{})
	assert.True(t, IsKind(err, ErrKindRenderFailure))
}
