package docstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/recipehub/backend/internal/models"
)

var fieldName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// GormStore keeps every document as one row of the documents table, with
// the fields in a JSON column. Filters and ordering are pushed down to SQL
// using the dialect's JSON operators.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open connection. The documents table must exist;
// see database.Migrate.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// jsonField returns the SQL expression reading a top-level field as text.
func (s *GormStore) jsonField(field string) (string, error) {
	if !fieldName.MatchString(field) {
		return "", fmt.Errorf("invalid field name %q", field)
	}
	if s.db.Dialector.Name() == "postgres" {
		return fmt.Sprintf("data->>'%s'", field), nil
	}
	return fmt.Sprintf("json_extract(data, '$.%s')", field), nil
}

func toDocument(row models.Document) *Document {
	data := map[string]any(row.Data)
	if data == nil {
		data = map[string]any{}
	}
	return &Document{Ref: Ref{Collection: row.Collection, ID: row.ID}, Data: data}
}

func (s *GormStore) Get(ctx context.Context, ref Ref) (*Document, error) {
	var row models.Document
	err := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", ref.Collection, ref.ID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", ref.Path(), err)
	}
	return toDocument(row), nil
}

func (s *GormStore) Query(ctx context.Context, collection string, q Query) ([]*Document, error) {
	tx := s.db.WithContext(ctx).Where("collection = ?", collection)
	for _, f := range q.Filters {
		expr, err := s.jsonField(f.Field)
		if err != nil {
			return nil, err
		}
		tx = tx.Where(expr+" = ?", f.Value)
	}
	if q.OrderBy != "" {
		expr, err := s.jsonField(q.OrderBy)
		if err != nil {
			return nil, err
		}
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: expr, Raw: true}, Desc: q.Direction == Desc})
	} else {
		tx = tx.Order("created_at, id")
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var rows []models.Document
	if err := tx.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", collection, err)
	}
	docs := make([]*Document, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, toDocument(row))
	}
	return docs, nil
}

func (s *GormStore) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	id := uuid.NewString()
	row := models.Document{Collection: collection, ID: id, Data: models.JSONMap(applyMerge(nil, data))}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", fmt.Errorf("failed to add to %s: %w", collection, err)
	}
	return id, nil
}

func (s *GormStore) Set(ctx context.Context, ref Ref, data map[string]any) error {
	row := models.Document{Collection: ref.Collection, ID: ref.ID, Data: models.JSONMap(applyMerge(nil, data))}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection"}, {Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", ref.Path(), err)
	}
	return nil
}

// Merge creates the row if needed and then patches it under a row lock, so
// concurrent merges into one document each keep their fields. SQLite takes
// no row locks; its writers are serialized by the database lock instead.
func (s *GormStore) Merge(ctx context.Context, ref Ref, data map[string]any) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		empty := models.Document{Collection: ref.Collection, ID: ref.ID, Data: models.JSONMap{}}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection"}, {Name: "id"}},
			DoNothing: true,
		}).Create(&empty).Error; err != nil {
			return err
		}

		query := tx.Where("collection = ? AND id = ?", ref.Collection, ref.ID)
		if tx.Dialector.Name() == "postgres" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var row models.Document
		if err := query.Take(&row).Error; err != nil {
			return err
		}

		row.Data = models.JSONMap(applyMerge(row.Data, data))
		return tx.Model(&models.Document{}).
			Where("collection = ? AND id = ?", ref.Collection, ref.ID).
			Update("data", row.Data).Error
	})
	if err != nil {
		return fmt.Errorf("failed to merge %s: %w", ref.Path(), err)
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, ref Ref) error {
	err := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", ref.Collection, ref.ID).
		Delete(&models.Document{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", ref.Path(), err)
	}
	return nil
}

func (s *GormStore) DeleteAll(ctx context.Context, refs []Ref) error {
	if len(refs) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, ref := range refs {
			if err := tx.Where("collection = ? AND id = ?", ref.Collection, ref.ID).
				Delete(&models.Document{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete %d documents: %w", len(refs), err)
	}
	return nil
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
