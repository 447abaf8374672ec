package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "docvault/internal/errors"
	"docvault/internal/model"
	"docvault/internal/service"
)

type mockDocumentService struct {
	mock.Mock
}

func (m *mockDocumentService) Upload(ctx context.Context, caller model.Identity, in service.UploadInput) (*model.Document, error) {
	args := m.Called(ctx, caller, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *mockDocumentService) List(ctx context.Context, caller model.Identity, q service.ListQuery) (*service.DocumentPage, error) {
	args := m.Called(ctx, caller, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentPage), args.Error(1)
}

func (m *mockDocumentService) ListPublic(ctx context.Context, q service.ListQuery) (*service.DocumentPage, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentPage), args.Error(1)
}

func (m *mockDocumentService) Get(ctx context.Context, caller model.Identity, id uuid.UUID) (*service.DocumentWithURL, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentWithURL), args.Error(1)
}

func (m *mockDocumentService) Delete(ctx context.Context, caller model.Identity, id uuid.UUID) error {
	return m.Called(ctx, caller, id).Error(0)
}

type structValidator struct {
	v *validator.Validate
}

func (s *structValidator) Validate(i interface{}) error {
	return s.v.Struct(i)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &structValidator{v: validator.New()}
	return e
}

func TestDocumentHandler_ListPublicQuery(t *testing.T) {
	yes := true

	tests := []struct {
		name      string
		query     string
		want      *service.ListQuery
		wantField string
	}{
		{"defaults", "", &service.ListQuery{}, ""},
		{"all filters", "?page=2&limit=5&search=budget&fileType=pdf&isPublic=true",
			&service.ListQuery{Page: 2, Limit: 5, Search: "budget", FileType: model.FileTypePDF, IsPublic: &yes}, ""},
		{"non-numeric page", "?page=two", nil, "page"},
		{"limit above maximum", "?limit=101", nil, "Limit"},
		{"unknown file type", "?fileType=exe", nil, "FileType"},
		{"bad boolean", "?isPublic=maybe", nil, "isPublic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockDocumentService)
			if tt.want != nil {
				svc.On("ListPublic", mock.Anything, *tt.want).Return(&service.DocumentPage{}, nil)
			}
			h := NewDocumentHandler(svc, 1<<20)

			e := newEcho()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/documents/public"+tt.query, nil), rec)

			err := h.ListPublic(c)
			if tt.want != nil {
				require.NoError(t, err)
				assert.Equal(t, http.StatusOK, rec.Code)
			} else {
				var appErr *apperrors.AppError
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, apperrors.KindValidation, appErr.Kind)
				require.NotEmpty(t, appErr.Fields)
				assert.Equal(t, tt.wantField, appErr.Fields[0].Field)
			}
			svc.AssertExpectations(t)
		})
	}
}

func multipartContext(t *testing.T, e *echo.Echo, withFile bool, fields map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if withFile {
		part, err := w.CreateFormFile("file", "sheet.xlsx")
		require.NoError(t, err)
		_, err = part.Write([]byte("cells"))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("identity", model.Identity{ID: uuid.New(), Role: model.RoleUser, IsActive: true})
	return c, rec
}

func TestDocumentHandler_UploadFormErrors(t *testing.T) {
	tests := []struct {
		name       string
		withFile   bool
		fields     map[string]string
		wantFields []string
	}{
		{"missing file", false, map[string]string{"title": "x"}, []string{"file"}},
		{"malformed tags and metadata", true, map[string]string{"title": "x", "tags": "a,b", "metadata": "[1]"}, []string{"tags", "metadata"}},
		{"bad isPublic", true, map[string]string{"title": "x", "isPublic": "sometimes"}, []string{"isPublic"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockDocumentService)
			h := NewDocumentHandler(svc, 1<<20)
			c, _ := multipartContext(t, newEcho(), tt.withFile, tt.fields)

			err := h.Upload(c)
			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperrors.KindValidation, appErr.Kind)

			got := make([]string, 0, len(appErr.Fields))
			for _, f := range appErr.Fields {
				got = append(got, f.Field)
			}
			assert.Equal(t, tt.wantFields, got)
			svc.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestDocumentHandler_UploadPassesFormThrough(t *testing.T) {
	svc := new(mockDocumentService)
	svc.On("Upload", mock.Anything, mock.Anything, mock.MatchedBy(func(in service.UploadInput) bool {
		return in.Filename == "sheet.xlsx" &&
			in.Title == "Budget" &&
			in.IsPublic &&
			assert.ObjectsAreEqual([]string{"finance", "2024"}, in.Tags) &&
			in.Metadata["department"] == "finance"
	})).Return(&model.Document{ID: uuid.New(), FileType: model.FileTypeExcel}, nil)

	h := NewDocumentHandler(svc, 1<<20)
	c, rec := multipartContext(t, newEcho(), true, map[string]string{
		"title":    "Budget",
		"isPublic": "true",
		"tags":     `["finance","2024"]`,
		"metadata": `{"department":"finance"}`,
	})

	require.NoError(t, h.Upload(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	svc.AssertExpectations(t)
}

func TestDocumentHandler_InvalidID(t *testing.T) {
	svc := new(mockDocumentService)
	h := NewDocumentHandler(svc, 1<<20)

	e := newEcho()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/documents/abc", nil), httptest.NewRecorder())
	c.Set("identity", model.Identity{ID: uuid.New(), Role: model.RoleUser, IsActive: true})
	c.SetParamNames("id")
	c.SetParamValues("abc")

	err := h.Get(c)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}
