package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	apperrors "docvault/internal/errors"
	"docvault/internal/model"
	"docvault/internal/repository"
)

// CreateFieldInput defines a new metadata field. A nil IsActive means active.
type CreateFieldInput struct {
	Name         string
	Label        string
	Type         model.FieldType
	Required     bool
	Options      []string
	DefaultValue *string
	IsActive     *bool
}

// UpdateFieldInput is a partial update. Name is present only so it can be refused.
type UpdateFieldInput struct {
	Name         *string
	Label        *string
	Type         *model.FieldType
	Required     *bool
	Options      []string
	DefaultValue *string
	IsActive     *bool
}

// MetadataService manages the metadata field registry.
type MetadataService interface {
	CreateField(ctx context.Context, in CreateFieldInput) (*model.MetadataField, error)
	GetField(ctx context.Context, id uuid.UUID) (*model.MetadataField, error)
	ListFields(ctx context.Context) ([]model.MetadataField, error)
	UpdateField(ctx context.Context, id uuid.UUID, in UpdateFieldInput) (*model.MetadataField, error)
	DeleteField(ctx context.Context, id uuid.UUID) error
}

type metadataService struct {
	repo repository.MetadataFieldRepository
}

// NewMetadataService creates a new metadata field service.
func NewMetadataService(repo repository.MetadataFieldRepository) MetadataService {
	return &metadataService{repo: repo}
}

func (s *metadataService) CreateField(ctx context.Context, in CreateFieldInput) (*model.MetadataField, error) {
	field := &model.MetadataField{
		Name:         strings.TrimSpace(in.Name),
		Label:        strings.TrimSpace(in.Label),
		Type:         in.Type,
		Required:     in.Required,
		Options:      datatypes.JSONSlice[string](in.Options),
		DefaultValue: in.DefaultValue,
		IsActive:     in.IsActive == nil || *in.IsActive,
	}
	if err := validateField(field); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByName(ctx, field.Name); err == nil {
		return nil, apperrors.ErrFieldAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Internal("Error creating metadata field", err)
	}

	if err := s.repo.Create(ctx, field); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrFieldAlreadyExists
		}
		return nil, apperrors.Internal("Error creating metadata field", err)
	}
	return field, nil
}

func (s *metadataService) GetField(ctx context.Context, id uuid.UUID) (*model.MetadataField, error) {
	field, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFieldNotFound
		}
		return nil, apperrors.Internal("Error retrieving metadata field", err)
	}
	return field, nil
}

func (s *metadataService) ListFields(ctx context.Context) ([]model.MetadataField, error) {
	fields, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal("Error retrieving metadata fields", err)
	}
	return fields, nil
}

func (s *metadataService) UpdateField(ctx context.Context, id uuid.UUID, in UpdateFieldInput) (*model.MetadataField, error) {
	if in.Name != nil {
		return nil, apperrors.Validation("Invalid input", apperrors.FieldError{
			Field: "name", Tag: "immutable", Message: "name cannot be changed",
		})
	}

	field, err := s.GetField(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Label != nil {
		field.Label = strings.TrimSpace(*in.Label)
	}
	if in.Type != nil {
		field.Type = *in.Type
	}
	if in.Required != nil {
		field.Required = *in.Required
	}
	if in.Options != nil {
		field.Options = datatypes.JSONSlice[string](in.Options)
	}
	if in.DefaultValue != nil {
		field.DefaultValue = in.DefaultValue
	}
	if in.IsActive != nil {
		field.IsActive = *in.IsActive
	}
	if err := validateField(field); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, field); err != nil {
		return nil, apperrors.Internal("Error updating metadata field", err)
	}
	return field, nil
}

// DeleteField removes the definition only. Documents keep any values stored under its name.
func (s *metadataService) DeleteField(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrFieldNotFound
		}
		return apperrors.Internal("Error deleting metadata field", err)
	}
	return nil
}

// validateField checks the definition and drops options on non-select types.
func validateField(field *model.MetadataField) error {
	var fields []apperrors.FieldError
	if field.Name == "" {
		fields = append(fields, apperrors.FieldError{Field: "name", Tag: "required", Message: "name is required"})
	}
	if field.Label == "" {
		fields = append(fields, apperrors.FieldError{Field: "label", Tag: "required", Message: "label is required"})
	}
	if !field.Type.Valid() {
		fields = append(fields, apperrors.FieldError{
			Field: "type", Tag: "oneof", Message: "type must be one of text, number, date, select, boolean",
		})
	}

	if field.Type == model.FieldTypeSelect {
		if len(field.Options) == 0 {
			fields = append(fields, apperrors.FieldError{
				Field: "options", Tag: "required", Message: "select fields need at least one option",
			})
		}
	} else {
		field.Options = datatypes.JSONSlice[string]{}
	}

	if len(fields) > 0 {
		return apperrors.Validation("Invalid input", fields...)
	}
	return nil
}
