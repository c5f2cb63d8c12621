package config

import (
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Adi-ops16/Swift-Tix-server/internal/models"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Base64-encoded Firebase service account JSON. When empty,
	// AuthJWTSecret selects the shared-secret verifier instead.
	FirebaseAdminKey string
	AuthJWTSecret    string

	StripeSecretKey string
	SiteURL         string
	Port            string
}

func LoadConfig() (*Config, error) {
	return &Config{
		DBHost:           os.Getenv("DB_HOST"),
		DBPort:           os.Getenv("DB_PORT"),
		DBUser:           os.Getenv("DB_USER"),
		DBPassword:       os.Getenv("DB_PASSWORD"),
		DBName:           os.Getenv("DB_NAME"),
		FirebaseAdminKey: os.Getenv("FIREBASE_ADMIN_KEY"),
		AuthJWTSecret:    os.Getenv("AUTH_JWT_SECRET"),
		StripeSecretKey:  os.Getenv("STRIPE_SECRET_KEY"),
		SiteURL:          os.Getenv("SITE_URL"),
		Port:             os.Getenv("PORT"),
	}, nil
}

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(&models.User{}, &models.Ticket{}, &models.Booking{}, &models.Payment{})
	if err != nil {
		return nil, err
	}

	return db, nil
}
