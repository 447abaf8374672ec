package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"docvault/internal/model"
)

// MetadataFieldRepository defines persistence for metadata field definitions.
type MetadataFieldRepository interface {
	Create(ctx context.Context, field *model.MetadataField) error
	Update(ctx context.Context, field *model.MetadataField) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.MetadataField, error)
	FindByName(ctx context.Context, name string) (*model.MetadataField, error)
	List(ctx context.Context) ([]model.MetadataField, error)
}

type metadataFieldRepository struct {
	db *gorm.DB
}

// NewMetadataFieldRepository creates a new metadata field repository.
func NewMetadataFieldRepository(db *gorm.DB) MetadataFieldRepository {
	return &metadataFieldRepository{db: db}
}

func (r *metadataFieldRepository) Create(ctx context.Context, field *model.MetadataField) error {
	return r.db.WithContext(ctx).Create(field).Error
}

// Update writes the mutable columns. Name is fixed at creation and never written here.
func (r *metadataFieldRepository) Update(ctx context.Context, field *model.MetadataField) error {
	return r.db.WithContext(ctx).
		Model(field).
		Select("label", "type", "required", "options", "default_value", "is_active", "updated_at").
		Updates(field).Error
}

func (r *metadataFieldRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.MetadataField{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *metadataFieldRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.MetadataField, error) {
	var field model.MetadataField
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&field).Error; err != nil {
		return nil, err
	}
	return &field, nil
}

func (r *metadataFieldRepository) FindByName(ctx context.Context, name string) (*model.MetadataField, error) {
	var field model.MetadataField
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&field).Error; err != nil {
		return nil, err
	}
	return &field, nil
}

func (r *metadataFieldRepository) List(ctx context.Context) ([]model.MetadataField, error) {
	var fields []model.MetadataField
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&fields).Error; err != nil {
		return nil, err
	}
	return fields, nil
}
