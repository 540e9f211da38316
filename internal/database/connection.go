// internal/database/connection.go
package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Zamahele/TenantManagement-sub001/internal/config"
	"github.com/Zamahele/TenantManagement-sub001/internal/models"
)

var DB *gorm.DB

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var err error
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		}
	} else {
		gormConfig = &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Info),
			TranslateError: true,
		}
	}

	// Connect to database
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection established successfully")
	return DB, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	// Run auto-migrations
	err := db.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.Tenant{},
		&models.LeaseTemplate{},
		&models.Lease{},
		&models.DigitalSignature{},
		&models.Payment{},
		&models.MaintenanceRequest{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create indexes
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// Lease indexes
		"CREATE INDEX IF NOT EXISTS idx_leases_tenant ON leases(tenant_id)",
		"CREATE INDEX IF NOT EXISTS idx_leases_room ON leases(room_id)",
		"CREATE INDEX IF NOT EXISTS idx_leases_status ON leases(status)",
		"CREATE INDEX IF NOT EXISTS idx_leases_end_date ON leases(end_date)",

		// Exactly one signature per lease; this constraint, not the
		// application pre-check, is what closes the concurrent-sign race.
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_digital_signatures_lease ON digital_signatures(lease_id)",

		// Payment indexes
		"CREATE INDEX IF NOT EXISTS idx_payments_tenant_period ON payments(tenant_id, billing_year, billing_month)",
		"CREATE INDEX IF NOT EXISTS idx_payments_paid_at ON payments(paid_at DESC)",

		// Template and maintenance indexes
		"CREATE INDEX IF NOT EXISTS idx_lease_templates_default ON lease_templates(is_default, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_maintenance_requests_status ON maintenance_requests(status, created_at DESC)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s, Error: %v", index, err)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// Seed initial data
func SeedInitialData(db *gorm.DB) error {
	log.Println("Seeding initial data...")

	// Create default manager account
	var managerCount int64
	db.Model(&models.User{}).Where("role = ?", models.UserRoleManager).Count(&managerCount)

	if managerCount == 0 {
		manager := &models.User{
			Username: "manager",
			Email:    "manager@tenantmanagement.local",
			Role:     models.UserRoleManager,
		}

		if err := manager.SetPassword("ChangeMe123!"); err != nil {
			return fmt.Errorf("failed to set manager password: %w", err)
		}

		if err := db.Create(manager).Error; err != nil {
			return fmt.Errorf("failed to create manager user: %w", err)
		}

		log.Println("Default manager user created successfully")
	}

	// Create the default lease template if none exists
	var templateCount int64
	db.Model(&models.LeaseTemplate{}).Count(&templateCount)

	if templateCount == 0 {
		template := &models.LeaseTemplate{
			Name:        "Standard Lease Agreement",
			Description: "Default residential lease agreement template",
			HtmlBody:    defaultLeaseTemplateBody,
			IsDefault:   true,
			IsActive:    true,
		}

		if err := db.Create(template).Error; err != nil {
			return fmt.Errorf("failed to create default lease template: %w", err)
		}

		log.Println("Default lease template created successfully")
	}

	log.Println("Initial data seeding completed")
	return nil
}

const defaultLeaseTemplateBody = `
<!DOCTYPE html>
<html>
<head><title>Lease Agreement</title></head>
<body>
	<h1>Residential Lease Agreement</h1>
	<p>This agreement is entered into between the property manager and
	<strong>{{.TenantName}}</strong> for room <strong>{{.RoomNumber}}</strong>.</p>
	<h2>Terms</h2>
	<ul>
		<li>Lease period: {{.StartDate}} to {{.EndDate}}</li>
		<li>Monthly rent: {{.RentAmount}}</li>
		<li>Rent due on day {{.ExpectedRentDay}} of each month</li>
	</ul>
	<h2>Tenant Details</h2>
	<p>Phone: {{.TenantPhone}}<br>Email: {{.TenantEmail}}</p>
	<p>Signed at: ______________________ Date: ____________</p>
</body>
</html>`
