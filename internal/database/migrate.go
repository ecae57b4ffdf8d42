package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/recipehub/backend/internal/models"
)

// migration is a named statement applied once and recorded in the
// migrations table
type migration struct {
	name string
	sql  string
}

// postgresMigrations index the JSON fields the services filter and sort on
var postgresMigrations = []migration{
	{"001_documents_user_id", `CREATE INDEX IF NOT EXISTS idx_documents_user_id ON documents (collection, (data->>'userId'))`},
	{"002_documents_recipe_id", `CREATE INDEX IF NOT EXISTS idx_documents_recipe_id ON documents (collection, (data->>'recipeId'))`},
	{"003_documents_created_at", `CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents (collection, (data->>'createdAt'))`},
	{"004_documents_logical_id", `CREATE INDEX IF NOT EXISTS idx_documents_logical_id ON documents (collection, (data->>'id'))`},
	{"005_documents_email", `CREATE INDEX IF NOT EXISTS idx_documents_email ON documents (collection, (data->>'email'))`},
}

// Migrate creates the documents table and, on Postgres, its indexes
func Migrate(db *gorm.DB, log *zap.Logger) error {
	if err := db.AutoMigrate(&models.Document{}); err != nil {
		return fmt.Errorf("failed to migrate documents table: %w", err)
	}

	if db.Dialector.Name() != "postgres" {
		log.Info("using GORM auto-migration only", zap.String("dialect", db.Dialector.Name()))
		return nil
	}

	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`).Error; err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, m := range postgresMigrations {
		var count int64
		if err := db.Table("migrations").Where("name = ?", m.name).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if count > 0 {
			log.Debug("skipping migration (already applied)", zap.String("migration", m.name))
			continue
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(m.sql).Error; err != nil {
				return err
			}
			return tx.Exec("INSERT INTO migrations (name) VALUES (?)", m.name).Error
		})
		if err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", m.name, err)
		}
		log.Info("applied migration", zap.String("migration", m.name))
	}

	return nil
}
