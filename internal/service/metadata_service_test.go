package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	apperrors "docvault/internal/errors"
	"docvault/internal/model"
)

func TestMetadataService_CreateField(t *testing.T) {
	tests := []struct {
		name          string
		input         CreateFieldInput
		setupMock     func(*MockMetadataFieldRepository)
		expectedKind  apperrors.Kind
		expectedError error
		check         func(*testing.T, *model.MetadataField)
	}{
		{
			name:  "text field defaults to active",
			input: CreateFieldInput{Name: "department", Label: "Department", Type: model.FieldTypeText, Required: true},
			setupMock: func(m *MockMetadataFieldRepository) {
				m.On("FindByName", mock.Anything, "department").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.MetadataField")).Return(nil)
			},
			check: func(t *testing.T, f *model.MetadataField) {
				assert.True(t, f.IsActive)
				assert.True(t, f.Required)
				assert.Empty(t, f.Options)
			},
		},
		{
			name:  "options are dropped on non-select types",
			input: CreateFieldInput{Name: "year", Label: "Year", Type: model.FieldTypeNumber, Options: []string{"a"}},
			setupMock: func(m *MockMetadataFieldRepository) {
				m.On("FindByName", mock.Anything, "year").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.MetadataField")).Return(nil)
			},
			check: func(t *testing.T, f *model.MetadataField) {
				assert.Empty(t, f.Options)
			},
		},
		{
			name:  "duplicate name",
			input: CreateFieldInput{Name: "department", Label: "Dept", Type: model.FieldTypeText},
			setupMock: func(m *MockMetadataFieldRepository) {
				m.On("FindByName", mock.Anything, "department").Return(&model.MetadataField{Name: "department"}, nil)
			},
			expectedError: apperrors.ErrFieldAlreadyExists,
		},
		{
			name:         "select without options",
			input:        CreateFieldInput{Name: "status", Label: "Status", Type: model.FieldTypeSelect},
			setupMock:    func(m *MockMetadataFieldRepository) {},
			expectedKind: apperrors.KindValidation,
		},
		{
			name:         "unknown type",
			input:        CreateFieldInput{Name: "blob", Label: "Blob", Type: "json"},
			setupMock:    func(m *MockMetadataFieldRepository) {},
			expectedKind: apperrors.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockMetadataFieldRepository)
			tt.setupMock(mockRepo)

			field, err := NewMetadataService(mockRepo).CreateField(context.Background(), tt.input)

			switch {
			case tt.expectedError != nil:
				assert.Equal(t, tt.expectedError, err)
			case tt.expectedKind != "":
				assert.Equal(t, tt.expectedKind, apperrors.KindOf(err))
			default:
				require.NoError(t, err)
				tt.check(t, field)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestMetadataService_UpdateField(t *testing.T) {
	id := uuid.New()
	existing := func() *model.MetadataField {
		return &model.MetadataField{ID: id, Name: "status", Label: "Status", Type: model.FieldTypeSelect,
			Options: datatypes.JSONSlice[string]{"draft", "final"}, IsActive: true}
	}

	t.Run("name is immutable", func(t *testing.T) {
		mockRepo := new(MockMetadataFieldRepository)
		name := "renamed"
		_, err := NewMetadataService(mockRepo).UpdateField(context.Background(), id, UpdateFieldInput{Name: &name})

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.KindValidation, appErr.Kind)
		assert.Equal(t, "name", appErr.Fields[0].Field)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("partial update keeps other attributes", func(t *testing.T) {
		mockRepo := new(MockMetadataFieldRepository)
		mockRepo.On("FindByID", mock.Anything, id).Return(existing(), nil)
		mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.MetadataField")).Return(nil)

		label := "Document status"
		field, err := NewMetadataService(mockRepo).UpdateField(context.Background(), id, UpdateFieldInput{Label: &label})

		require.NoError(t, err)
		assert.Equal(t, "status", field.Name)
		assert.Equal(t, "Document status", field.Label)
		assert.Equal(t, []string{"draft", "final"}, []string(field.Options))
		assert.True(t, field.IsActive)
	})

	t.Run("switching away from select clears options", func(t *testing.T) {
		mockRepo := new(MockMetadataFieldRepository)
		mockRepo.On("FindByID", mock.Anything, id).Return(existing(), nil)
		mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.MetadataField")).Return(nil)

		text := model.FieldTypeText
		field, err := NewMetadataService(mockRepo).UpdateField(context.Background(), id, UpdateFieldInput{Type: &text})

		require.NoError(t, err)
		assert.Empty(t, field.Options)
	})

	t.Run("missing field", func(t *testing.T) {
		mockRepo := new(MockMetadataFieldRepository)
		mockRepo.On("FindByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

		label := "x"
		_, err := NewMetadataService(mockRepo).UpdateField(context.Background(), id, UpdateFieldInput{Label: &label})
		assert.Equal(t, apperrors.ErrFieldNotFound, err)
	})
}

func TestMetadataService_DeleteField(t *testing.T) {
	id := uuid.New()
	mockRepo := new(MockMetadataFieldRepository)
	mockRepo.On("Delete", mock.Anything, id).Return(gorm.ErrRecordNotFound).Once()
	mockRepo.On("Delete", mock.Anything, id).Return(nil).Once()

	service := NewMetadataService(mockRepo)
	assert.Equal(t, apperrors.ErrFieldNotFound, service.DeleteField(context.Background(), id))
	assert.NoError(t, service.DeleteField(context.Background(), id))
}
