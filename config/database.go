package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kendall-kelly/artisan-portal-api/models"
)

// ConnectDatabase opens the relational store named by cfg.DatabaseURL.
// postgres:// URLs use PostgreSQL; anything else is a SQLite file path.
func ConnectDatabase(cfg *Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
		TranslateError: true,
	}

	if IsPostgresURL(cfg.DatabaseURL) {
		log.Println("Connecting to PostgreSQL...")
		db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), gormConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		log.Println("Database connection established successfully")
		return db, nil
	}

	if dir := filepath.Dir(cfg.DatabaseURL); !isMemoryDSN(cfg.DatabaseURL) && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	log.Println("Using SQLite database:", cfg.DatabaseURL)
	db, err := OpenSQLite(cfg.DatabaseURL, gormConfig)
	if err != nil {
		return nil, err
	}
	log.Println("Database connection established successfully")
	return db, nil
}

// OpenSQLite opens a SQLite store with foreign keys enforced. The pool is
// capped at one connection: writes are serialized through this handle and
// an in-memory database stays a single database.
func OpenSQLite(dsn string, gormConfig *gorm.Config) (*gorm.DB, error) {
	if gormConfig == nil {
		gormConfig = &gorm.Config{TranslateError: true}
	}
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return db, nil
}

// Migrate creates or updates every table of the portal
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectArtisan{},
		&models.Invoice{},
		&models.Alert{},
		&models.ArtisanDocument{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// IsPostgresURL reports whether dsn points at a PostgreSQL server
func IsPostgresURL(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func isMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || strings.Contains(dsn, "mode=memory")
}

func gormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.Info
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	default:
		return logger.Warn
	}
}
