package db

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"docvault/internal/model"
)

// SearchIndexName is the FULLTEXT index backing document search on MySQL.
const SearchIndexName = "idx_documents_search"

func models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Document{},
		&model.MetadataField{},
	}
}

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	if db.Dialector.Name() != "mysql" {
		return nil
	}
	if db.Migrator().HasIndex(&model.Document{}, SearchIndexName) {
		return nil
	}
	stmt := fmt.Sprintf("ALTER TABLE documents ADD FULLTEXT INDEX %s (title, description, tags)", SearchIndexName)
	if err := db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("create search index: %w", err)
	}
	return nil
}

// Reset drops every table. Used with RESET_DB=true.
func Reset(db *gorm.DB) error {
	for _, table := range models() {
		if err := db.Migrator().DropTable(table); err != nil {
			log.Printf("Warning: Failed to drop table (may not exist): %v", err)
		}
	}
	return nil
}
