package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// JSONMap is a JSON object column: jsonb on Postgres, text elsewhere.
type JSONMap map[string]any

// Value implements the driver.Valuer interface
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported JSONMap source %T", value)
	}

	out := JSONMap{}
	if err := json.Unmarshal(bytes, &out); err != nil {
		return err
	}
	*m = out
	return nil
}

// GormDataType implements schema.GormDataTypeInterface
func (JSONMap) GormDataType() string {
	return "json"
}

// GormDBDataType picks the column type per dialect
func (JSONMap) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "jsonb"
	}
	return "text"
}

// Document is one row of the documents table backing the SQL document store.
// Collection holds the full collection path, e.g. users/<uid>/favorites.
type Document struct {
	Collection string    `gorm:"primaryKey;size:255" json:"collection"`
	ID         string    `gorm:"primaryKey;size:128" json:"id"`
	Data       JSONMap   `gorm:"not null" json:"data"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName overrides the gorm default
func (Document) TableName() string {
	return "documents"
}
