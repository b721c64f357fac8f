package db

import (
	"fmt"

	"github.com/ikkim/dealer-admin-backend/config"
	appLogger "github.com/ikkim/dealer-admin-backend/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Initialize opens the SQL database backing the slot table.
// backend is config.BackendPostgres or config.BackendSQLite.
func Initialize(backend string, cfg *config.DatabaseConfig, sqliteCfg *config.SQLiteConfig) error {
	var dialector gorm.Dialector
	switch backend {
	case config.BackendPostgres:
		appLogger.Info("Connecting to database", map[string]interface{}{
			"host":     cfg.Host,
			"port":     cfg.Port,
			"database": cfg.DBName,
			"user":     cfg.User,
		})
		dialector = postgres.Open(cfg.DSN())
	case config.BackendSQLite:
		appLogger.Info("Opening sqlite database", map[string]interface{}{
			"path": sqliteCfg.Path,
		})
		dialector = sqlite.Open(sqliteCfg.Path)
	default:
		return fmt.Errorf("backend %q is not a SQL backend", backend)
	}

	var err error
	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Use silent mode, we'll use our own logger
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	// sqlite serializes writers anyway
	if backend == config.BackendSQLite {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}

	appLogger.Info("Database connection established successfully", map[string]interface{}{
		"backend": backend,
	})
	return nil
}

// Close closes the database connection
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
