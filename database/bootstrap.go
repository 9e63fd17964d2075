// database/bootstrap.go
package database

import (
	"fmt"
	"log"

	sqlite "github.com/glebarez/sqlite" // CGO-free driver
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Muneeb381a/disiltting/entities"
)

// Open connects to the SQLite file at path and migrates every table.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Exec(`PRAGMA foreign_keys=ON`).Error; err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if err := db.AutoMigrate(
		&entities.Task{},
		&entities.WorkSubmission{},
		&entities.Draft{},
	); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	return db, nil
}

// OpenSQLite is Open for main: any failure ends the process.
func OpenSQLite(path string) *gorm.DB {
	db, err := Open(path)
	if err != nil {
		log.Fatalf("[db] %v", err)
	}
	log.Printf("[db] using %s", path)
	return db
}
