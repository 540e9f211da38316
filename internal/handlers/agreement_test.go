// internal/handlers/agreement_test.go
package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Zamahele/TenantManagement-sub001/internal/config"
	"github.com/Zamahele/TenantManagement-sub001/internal/middleware"
	"github.com/Zamahele/TenantManagement-sub001/internal/models"
	"github.com/Zamahele/TenantManagement-sub001/internal/services"
)

type stubRenderer struct{}

func (stubRenderer) RenderPDF(_ context.Context, _ string) ([]byte, error) {
	return []byte("%PDF-1.4 stub"), nil
}

type nullSMS struct{}

func (nullSMS) Send(_ context.Context, _, _ string) error { return nil }

type nullEmail struct{}

func (nullEmail) Send(_, _, _ string) error { return nil }

// asUser stands in for AuthRequired, injecting the identity a validated JWT
// would have set.
func asUser(userID uuid.UUID, role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID.String())
		c.Set("username", "test-user")
		c.Set("user_role", string(role))
		c.Next()
	}
}

type AgreementHandlerTestSuite struct {
	suite.Suite
	db           *gorm.DB
	tenant       *models.Tenant
	tenantUserID uuid.UUID
	otherUserID  uuid.UUID
	managerID    uuid.UUID
	lease        *models.Lease
	handler      *AgreementHandler
	leaseHandler *LeaseHandler
}

func TestAgreementHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AgreementHandlerTestSuite))
}

func (s *AgreementHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	s.Require().NoError(err)
	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)
	s.Require().NoError(db.AutoMigrate(
		&models.User{}, &models.Room{}, &models.Tenant{}, &models.Lease{},
		&models.DigitalSignature{}, &models.LeaseTemplate{},
	))
	s.db = db

	cfg := &config.Config{
		AWS:      config.AWSConfig{LocalPath: s.T().TempDir()},
		Frontend: config.FrontendConfig{BaseURL: "http://localhost:3000"},
	}

	storage, err := services.NewStorageService(cfg)
	s.Require().NoError(err)
	notifications := services.NewNotificationServiceWithSenders(cfg, nullSMS{}, nullEmail{})
	templates := services.NewTemplateService(db)
	tenantSvc := services.NewTenantService(db)
	agreementSvc := services.NewAgreementService(
		db, templates, stubRenderer{}, storage,
		notifications, services.NewSignatureVerifier(), config.SigningConfig{},
	)

	s.handler = NewAgreementHandler(agreementSvc, tenantSvc)
	s.leaseHandler = NewLeaseHandler(services.NewLeaseService(db))

	s.managerID = uuid.New()
	s.tenantUserID = uuid.New()
	s.otherUserID = uuid.New()

	s.Require().NoError(db.Create(&models.LeaseTemplate{
		Name: "Standard", HtmlBody: "<p>Lease for {{.TenantName}}</p>", IsDefault: true, IsActive: true,
	}).Error)

	room := &models.Room{Number: "101", Type: models.RoomTypeSingle, Status: models.RoomStatusOccupied, MonthlyRent: 4500}
	s.Require().NoError(db.Create(room).Error)

	s.tenant = &models.Tenant{
		FullName: "Zanele Mthembu", Email: "zanele@example.com",
		PhoneNumber: "+27821112222", UserID: &s.tenantUserID,
	}
	s.Require().NoError(db.Create(s.tenant).Error)

	other := &models.Tenant{
		FullName: "Bongani Zulu", Email: "bongani@example.com",
		PhoneNumber: "+27823334444", UserID: &s.otherUserID,
	}
	s.Require().NoError(db.Create(other).Error)

	s.lease = &models.Lease{
		TenantID:        s.tenant.ID,
		RoomID:          room.ID,
		StartDate:       time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC),
		RentAmount:      4500,
		ExpectedRentDay: 1,
		Status:          models.LeaseStatusDraft,
	}
	s.Require().NoError(db.Create(s.lease).Error)
}

func (s *AgreementHandlerTestSuite) newRouter(userID uuid.UUID, role models.UserRole) *gin.Engine {
	r := gin.New()
	auth := r.Group("", asUser(userID, role))
	{
		leases := auth.Group("/leases", middleware.ManagerRequired())
		leases.POST("/:id/generate", s.handler.GenerateAgreement)
		leases.POST("/:id/send", s.handler.SendToTenant)
		leases.POST("/:id/finalize", s.handler.FinalizeLease)
		leases.GET("/:id/signature/verify", s.handler.VerifySignature)

		signing := auth.Group("/signing/leases")
		signing.GET("/:id", s.handler.GetLeaseForSigning)
		signing.POST("/:id/sign", s.handler.SignLease)
		signing.GET("/:id/download", s.handler.DownloadSignedLease)
	}
	return r
}

func (s *AgreementHandlerTestSuite) do(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func (s *AgreementHandlerTestSuite) signBody() map[string]interface{} {
	encoded := base64.StdEncoding.EncodeToString([]byte("signature-strokes"))
	return map[string]interface{}{"image_data": "data:image/png;base64," + encoded}
}

func (s *AgreementHandlerTestSuite) TestFullFlowOverHTTP() {
	manager := s.newRouter(s.managerID, models.UserRoleManager)
	tenant := s.newRouter(s.tenantUserID, models.UserRoleTenant)
	leaseID := s.lease.ID.String()

	w := s.do(manager, "POST", "/leases/"+leaseID+"/generate", nil)
	s.Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.do(manager, "POST", "/leases/"+leaseID+"/send", nil)
	s.Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.do(tenant, "GET", "/signing/leases/"+leaseID, nil)
	s.Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.do(tenant, "POST", "/signing/leases/"+leaseID+"/sign", s.signBody())
	s.Equal(http.StatusCreated, w.Code, w.Body.String())

	w = s.do(manager, "GET", "/leases/"+leaseID+"/signature/verify", nil)
	s.Equal(http.StatusOK, w.Code, w.Body.String())
	s.Contains(w.Body.String(), `"valid":true`)

	w = s.do(tenant, "GET", "/signing/leases/"+leaseID+"/download", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("text/html", w.Header().Get("Content-Type"))
	s.Contains(w.Body.String(), "Zanele Mthembu")

	w = s.do(manager, "POST", "/leases/"+leaseID+"/finalize", nil)
	s.Equal(http.StatusOK, w.Code, w.Body.String())
}

func (s *AgreementHandlerTestSuite) TestSignTwiceConflicts() {
	manager := s.newRouter(s.managerID, models.UserRoleManager)
	tenant := s.newRouter(s.tenantUserID, models.UserRoleTenant)
	leaseID := s.lease.ID.String()

	s.do(manager, "POST", "/leases/"+leaseID+"/generate", nil)
	s.do(manager, "POST", "/leases/"+leaseID+"/send", nil)

	w := s.do(tenant, "POST", "/signing/leases/"+leaseID+"/sign", s.signBody())
	s.Equal(http.StatusCreated, w.Code)

	w = s.do(tenant, "POST", "/signing/leases/"+leaseID+"/sign", s.signBody())
	s.Equal(http.StatusConflict, w.Code, w.Body.String())
}

func (s *AgreementHandlerTestSuite) TestWrongTenantForbidden() {
	manager := s.newRouter(s.managerID, models.UserRoleManager)
	other := s.newRouter(s.otherUserID, models.UserRoleTenant)
	leaseID := s.lease.ID.String()

	s.do(manager, "POST", "/leases/"+leaseID+"/generate", nil)
	s.do(manager, "POST", "/leases/"+leaseID+"/send", nil)

	w := s.do(other, "GET", "/signing/leases/"+leaseID, nil)
	s.Equal(http.StatusForbidden, w.Code, w.Body.String())

	w = s.do(other, "POST", "/signing/leases/"+leaseID+"/sign", s.signBody())
	s.Equal(http.StatusForbidden, w.Code, w.Body.String())
}

func (s *AgreementHandlerTestSuite) TestManagerPreviewAllowed() {
	manager := s.newRouter(s.managerID, models.UserRoleManager)
	leaseID := s.lease.ID.String()

	s.do(manager, "POST", "/leases/"+leaseID+"/generate", nil)
	s.do(manager, "POST", "/leases/"+leaseID+"/send", nil)

	w := s.do(manager, "GET", "/signing/leases/"+leaseID, nil)
	s.Equal(http.StatusOK, w.Code, w.Body.String())
}

func (s *AgreementHandlerTestSuite) TestSignBeforeSentUnprocessable() {
	manager := s.newRouter(s.managerID, models.UserRoleManager)
	tenant := s.newRouter(s.tenantUserID, models.UserRoleTenant)
	leaseID := s.lease.ID.String()

	s.do(manager, "POST", "/leases/"+leaseID+"/generate", nil)

	w := s.do(tenant, "POST", "/signing/leases/"+leaseID+"/sign", s.signBody())
	s.Equal(http.StatusUnprocessableEntity, w.Code, w.Body.String())
}

func (s *AgreementHandlerTestSuite) TestTenantCannotUseManagerRoutes() {
	tenant := s.newRouter(s.tenantUserID, models.UserRoleTenant)
	leaseID := s.lease.ID.String()

	w := s.do(tenant, "POST", "/leases/"+leaseID+"/generate", nil)
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *AgreementHandlerTestSuite) TestInvalidLeaseIDRejected() {
	manager := s.newRouter(s.managerID, models.UserRoleManager)

	w := s.do(manager, "POST", "/leases/not-a-uuid/generate", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *AgreementHandlerTestSuite) TestUnknownLeaseNotFound() {
	manager := s.newRouter(s.managerID, models.UserRoleManager)

	w := s.do(manager, "POST", "/leases/"+uuid.NewString()+"/generate", nil)
	s.Equal(http.StatusNotFound, w.Code, w.Body.String())
}

func (s *AgreementHandlerTestSuite) TestSignWithBadBase64() {
	manager := s.newRouter(s.managerID, models.UserRoleManager)
	tenant := s.newRouter(s.tenantUserID, models.UserRoleTenant)
	leaseID := s.lease.ID.String()

	s.do(manager, "POST", "/leases/"+leaseID+"/generate", nil)
	s.do(manager, "POST", "/leases/"+leaseID+"/send", nil)

	w := s.do(tenant, "POST", "/signing/leases/"+leaseID+"/sign",
		map[string]interface{}{"image_data": "%%%not-base64%%%"})
	s.Equal(http.StatusBadRequest, w.Code, w.Body.String())
}
