package database

import (
	"flexreviews/config"
	"flexreviews/models"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect establishes a connection to PostgreSQL, runs migrations and seeds
// the default manager account. The returned handle is injected into the
// services at startup.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	// Set up connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(0)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	if err := SeedManager(db, cfg); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate performs database migrations. Exposed so tests can run the same
// schema against an in-memory database.
func Migrate(db *gorm.DB) error {
	log.Println("Running Migrations...")

	if err := db.AutoMigrate(
		&models.Listing{},
		&models.Manager{},
		&models.Review{},
	); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Println("Migrations completed successfully.")
	return nil
}

// SeedManager creates the default manager account from the environment when
// no account with that email exists yet.
func SeedManager(db *gorm.DB, cfg *config.Config) error {
	if cfg.ManagerEmail == "" || cfg.ManagerPassword == "" {
		return nil
	}

	var count int64
	if err := db.Model(&models.Manager{}).Where("email = ?", cfg.ManagerEmail).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check manager account: %w", err)
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.ManagerPassword), cfg.SaltRound)
	if err != nil {
		return fmt.Errorf("failed to hash manager password: %w", err)
	}

	manager := models.Manager{
		Name:     cfg.ManagerName,
		Email:    cfg.ManagerEmail,
		Password: string(hashed),
	}
	if err := db.Create(&manager).Error; err != nil {
		return fmt.Errorf("failed to seed manager account: %w", err)
	}

	log.Printf("[DATABASE] Seeded default manager account %s", cfg.ManagerEmail)
	return nil
}
