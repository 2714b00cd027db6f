package db

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/suitloom/suitloom-backend/internal/app/model"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB() (*gorm.DB, error) {
	testDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open test database: %w", err)
	}

	err = testDB.AutoMigrate(
		&model.User{},
		&model.Order{},
		&model.ConfiguratorSnapshot{},
		&model.Measurement{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}

	return testDB, nil
}

// CleanupTestDB closes the test database connection
func CleanupTestDB(testDB *gorm.DB) error {
	sqlDB, err := testDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// TruncateAllTables removes all data from test database tables
func TruncateAllTables(testDB *gorm.DB) error {
	tables := []string{"measurements", "configurator_snapshots", "orders", "users"}
	for _, table := range tables {
		if err := testDB.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}
	return nil
}
