package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/config"
)

// Connect ouvre la base selon le driver configuré (Supabase/Postgres ou SQLite embarqué)
func Connect(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel(cfg.DBLogLevel)),
	}

	switch cfg.DBDriver {
	case config.DriverPostgres:
		db, err := gorm.Open(postgres.New(postgres.Config{
			DSN:                  cfg.DBUrl,
			PreferSimpleProtocol: true,
		}), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("connexion à Supabase: %w", err)
		}
		return db, nil
	case config.DriverSQLite:
		return openSQLite(cfg.SQLitePath, gormCfg)
	default:
		return nil, fmt.Errorf("driver de base inconnu: %q", cfg.DBDriver)
	}
}

// OpenSQLite ouvre une base SQLite; ":memory:" donne une base éphémère (tests)
func OpenSQLite(path string) (*gorm.DB, error) {
	return openSQLite(path, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
}

func openSQLite(path string, gormCfg *gorm.Config) (*gorm.DB, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("création du dossier de données: %w", err)
		}
		dsn = "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := gorm.Open(sqlite.Open(dsn), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("ouverture SQLite %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// SQLite n'accepte qu'un écrivain; une seule connexion garde aussi la base ":memory:" en vie
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	return db, nil
}

// Close ferme le pool sous-jacent
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func logLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
