package db

import (
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sujalbistaa/secretos/internal/models"
)

// Init opens the backend database named by dbURL. Supported prefixes are
// postgres:// (and postgresql://) and sqlite://.
func Init(dbURL string, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch {
	case strings.HasPrefix(dbURL, "postgres://"), strings.HasPrefix(dbURL, "postgresql://"):
		dialector = postgres.Open(dbURL)
		log.Info("connecting to PostgreSQL database")
	case strings.HasPrefix(dbURL, "sqlite://"):
		dsn := strings.TrimPrefix(dbURL, "sqlite://")
		dialector = sqlite.Open(dsn)
		log.Info("connecting to SQLite database", zap.String("path", dsn))
	default:
		return nil, fmt.Errorf("invalid DATABASE_URL prefix, must start with postgres:// or sqlite://")
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Info("database connection established")
	return db, nil
}

// Migrate creates or updates every table the service touches.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.School{},
		&models.Secret{},
		&models.SecretImage{},
		&models.AdminUser{},
	)
}
