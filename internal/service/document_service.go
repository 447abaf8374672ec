package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	apperrors "docvault/internal/errors"
	"docvault/internal/model"
	"docvault/internal/repository"
	"docvault/internal/storage"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// UploadInput is one uploaded file plus its descriptive fields.
type UploadInput struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
	Title       string
	Description string
	IsPublic    bool
	Tags        []string
	Metadata    map[string]string
}

// ListQuery holds listing parameters. Zero Page and Limit take the defaults.
type ListQuery struct {
	Page     int
	Limit    int
	Search   string
	FileType model.FileType
	IsPublic *bool
}

// Pagination describes where a page sits in the full result.
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

// DocumentPage is one page of a document listing.
type DocumentPage struct {
	Documents  []model.Document `json:"documents"`
	Pagination Pagination       `json:"pagination"`
}

// DocumentWithURL is a document plus a freshly signed download link.
type DocumentWithURL struct {
	*model.Document
	DownloadURL          string    `json:"downloadUrl"`
	DownloadURLExpiresAt time.Time `json:"downloadUrlExpiresAt"`
}

// DocumentService applies ownership and visibility rules on top of the document
// repository and object storage.
type DocumentService interface {
	Upload(ctx context.Context, caller model.Identity, in UploadInput) (*model.Document, error)
	List(ctx context.Context, caller model.Identity, q ListQuery) (*DocumentPage, error)
	ListPublic(ctx context.Context, q ListQuery) (*DocumentPage, error)
	Get(ctx context.Context, caller model.Identity, id uuid.UUID) (*DocumentWithURL, error)
	Delete(ctx context.Context, caller model.Identity, id uuid.UUID) error
}

type documentService struct {
	repo         repository.DocumentRepository
	store        storage.Gateway
	logger       echo.Logger
	signedURLTTL time.Duration
	now          func() time.Time
}

// NewDocumentService creates a new document service.
func NewDocumentService(repo repository.DocumentRepository, store storage.Gateway, logger echo.Logger, signedURLTTL time.Duration) DocumentService {
	return &documentService{
		repo:         repo,
		store:        store,
		logger:       logger,
		signedURLTTL: signedURLTTL,
		now:          time.Now,
	}
}

// Upload stores the file and then the record. If anything fails after the object is
// written, the object is deleted again and the original error is returned.
func (s *documentService) Upload(ctx context.Context, caller model.Identity, in UploadInput) (*model.Document, error) {
	fileType, ok := model.FileTypeFromName(in.Filename)
	if !ok {
		return nil, apperrors.ErrUnsupportedFileType
	}

	key := storage.NewKey(in.Filename, s.now())
	if err := s.store.Put(ctx, key, in.Body, in.Size, in.ContentType); err != nil {
		return nil, apperrors.Storage("Error uploading file", err)
	}

	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	metadata := in.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	doc := &model.Document{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		FileType:    fileType,
		FileSize:    in.Size,
		StorageKey:  key,
		Metadata:    datatypes.NewJSONType(metadata),
		UploadedBy:  caller.ID,
		IsPublic:    in.IsPublic,
		Tags:        datatypes.JSONSlice[string](tags),
	}

	if err := validateDocument(doc); err != nil {
		s.compensate(ctx, key)
		return nil, err
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		s.compensate(ctx, key)
		return nil, apperrors.Internal("Error saving document", err)
	}
	return doc, nil
}

// compensate removes an object whose record was never written. It runs even if the
// request was cancelled.
func (s *documentService) compensate(ctx context.Context, key string) {
	if err := s.store.Delete(context.WithoutCancel(ctx), key); err != nil {
		s.logger.Errorf("compensating delete failed, orphaned object %s: %v", key, err)
	}
}

func validateDocument(doc *model.Document) error {
	var fields []apperrors.FieldError
	if doc.Title == "" {
		fields = append(fields, apperrors.FieldError{Field: "title", Tag: "required", Message: "title is required"})
	}
	if doc.FileSize <= 0 {
		fields = append(fields, apperrors.FieldError{Field: "file", Tag: "min", Message: "file must not be empty"})
	}
	if !doc.FileType.Valid() {
		fields = append(fields, apperrors.FieldError{Field: "fileType", Tag: "oneof", Message: "unsupported file type"})
	}
	for _, tag := range doc.Tags {
		if strings.TrimSpace(tag) == "" {
			fields = append(fields, apperrors.FieldError{Field: "tags", Tag: "required", Message: "tags must be non-empty strings"})
			break
		}
	}
	if len(fields) > 0 {
		return apperrors.Validation("Invalid input", fields...)
	}
	return nil
}

func (s *documentService) List(ctx context.Context, caller model.Identity, q ListQuery) (*DocumentPage, error) {
	return s.list(ctx, &caller, q)
}

// ListPublic lists public documents only, whoever asks.
func (s *documentService) ListPublic(ctx context.Context, q ListQuery) (*DocumentPage, error) {
	public := true
	q.IsPublic = &public
	return s.list(ctx, nil, q)
}

func (s *documentService) list(ctx context.Context, viewer *model.Identity, q ListQuery) (*DocumentPage, error) {
	page, limit := normalizePage(q.Page, q.Limit)
	docs, total, err := s.repo.List(ctx, repository.DocumentFilter{
		Viewer:   viewer,
		FileType: q.FileType,
		IsPublic: q.IsPublic,
		Search:   q.Search,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return nil, apperrors.Internal("Error retrieving documents", err)
	}
	return &DocumentPage{
		Documents: docs,
		Pagination: Pagination{
			Total: total,
			Page:  page,
			Limit: limit,
			Pages: int((total + int64(limit) - 1) / int64(limit)),
		},
	}, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// Get returns a visible document with a download link signed for this request only.
func (s *documentService) Get(ctx context.Context, caller model.Identity, id uuid.UUID) (*DocumentWithURL, error) {
	doc, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !doc.VisibleTo(caller) {
		return nil, apperrors.ErrAccessDenied
	}

	url, expiresAt, err := s.store.SignedURL(ctx, doc.StorageKey, s.signedURLTTL)
	if err != nil {
		return nil, apperrors.Storage("Error generating download link", err)
	}
	return &DocumentWithURL{Document: doc, DownloadURL: url, DownloadURLExpiresAt: expiresAt}, nil
}

// Delete removes the stored object first. If that fails the record is kept so the
// object is still reachable.
func (s *documentService) Delete(ctx context.Context, caller model.Identity, id uuid.UUID) error {
	doc, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !doc.OwnedBy(caller) && !caller.IsAdmin() {
		return apperrors.ErrAccessDenied
	}

	if err := s.store.Delete(ctx, doc.StorageKey); err != nil {
		s.logger.Errorf("delete object %s for document %s: %v", doc.StorageKey, doc.ID, err)
		return apperrors.Storage("Error deleting file", err)
	}

	if err := s.repo.Delete(ctx, doc.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrDocumentNotFound
		}
		return apperrors.Internal("Error deleting document", err)
	}
	return nil
}

func (s *documentService) find(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrDocumentNotFound
		}
		return nil, apperrors.Internal("Error retrieving document", err)
	}
	return doc, nil
}
