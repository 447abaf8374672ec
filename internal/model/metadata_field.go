package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FieldType is the input kind of a custom metadata field.
type FieldType string

const (
	FieldTypeText    FieldType = "text"
	FieldTypeNumber  FieldType = "number"
	FieldTypeDate    FieldType = "date"
	FieldTypeSelect  FieldType = "select"
	FieldTypeBoolean FieldType = "boolean"
)

// Valid reports whether t is a known field type.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeText, FieldTypeNumber, FieldTypeDate, FieldTypeSelect, FieldTypeBoolean:
		return true
	}
	return false
}

// MetadataField defines an admin-configured key that documents may carry in their
// metadata map. Name is the stable key and never changes after creation.
type MetadataField struct {
	ID           uuid.UUID                   `json:"id" gorm:"type:char(36);primaryKey"`
	Name         string                      `json:"name" gorm:"size:100;uniqueIndex;not null"`
	Label        string                      `json:"label" gorm:"size:255;not null"`
	Type         FieldType                   `json:"type" gorm:"type:varchar(16);not null"`
	Required     bool                        `json:"required" gorm:"not null"`
	Options      datatypes.JSONSlice[string] `json:"options" gorm:"type:text"`
	DefaultValue *string                     `json:"defaultValue,omitempty" gorm:"size:255"`
	IsActive     bool                        `json:"isActive" gorm:"not null"`
	CreatedAt    time.Time                   `json:"createdAt"`
	UpdatedAt    time.Time                   `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (f *MetadataField) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
