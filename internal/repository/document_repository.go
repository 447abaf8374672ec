package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"docvault/internal/model"
)

// DocumentFilter narrows a document listing. Page and Limit are expected to be
// normalised by the caller.
type DocumentFilter struct {
	Viewer   *model.Identity // nil means no visibility restriction
	FileType model.FileType
	IsPublic *bool
	Search   string
	Page     int
	Limit    int
}

// DocumentRepository defines document persistence operations.
type DocumentRepository interface {
	Create(ctx context.Context, doc *model.Document) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Document, error)
	List(ctx context.Context, filter DocumentFilter) ([]model.Document, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new document repository.
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, doc *model.Document) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

// FindByID loads the document with its uploader, if the uploader still exists.
func (r *documentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	var doc model.Document
	if err := r.db.WithContext(ctx).Preload("Owner", selectUploader).Where("id = ?", id).First(&doc).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

// List returns one page of matching documents, newest first, and the total match count.
func (r *documentRepository) List(ctx context.Context, filter DocumentFilter) ([]model.Document, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Document{})

	if v := filter.Viewer; v != nil && !v.IsAdmin() {
		query = query.Where("(is_public = ? OR uploaded_by = ?)", true, v.ID)
	}
	if filter.FileType != "" {
		query = query.Where("file_type = ?", filter.FileType)
	}
	if filter.IsPublic != nil {
		query = query.Where("is_public = ?", *filter.IsPublic)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = r.applySearch(query, search)
	}

	// New session so Count and Find do not share statement state.
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count documents: %w", err)
	}

	docs := make([]model.Document, 0)
	if total == 0 {
		return docs, 0, nil
	}
	// Pages past the end are empty. Checked before computing the offset, which
	// would overflow for very large page numbers.
	if filter.Limit > 0 && int64(filter.Page) > (total+int64(filter.Limit)-1)/int64(filter.Limit) {
		return docs, total, nil
	}

	offset := (filter.Page - 1) * filter.Limit
	err := query.
		Preload("Owner", selectUploader).
		Order("created_at DESC").
		Order("id").
		Offset(offset).
		Limit(filter.Limit).
		Find(&docs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list documents: %w", err)
	}
	return docs, total, nil
}

func selectUploader(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "email")
}

// applySearch uses the FULLTEXT index on MySQL. Other dialects match any token as a
// whole word in title or description, or as an exact tag.
func (r *documentRepository) applySearch(query *gorm.DB, search string) *gorm.DB {
	if r.db.Dialector.Name() == "mysql" {
		return query.Where("MATCH(title, description, tags) AGAINST(? IN NATURAL LANGUAGE MODE)", search)
	}

	tokens := strings.Fields(strings.ToLower(search))
	clauses := make([]string, 0, len(tokens))
	args := make([]interface{}, 0, len(tokens)*3)
	for _, tok := range tokens {
		word := "% " + escapeLike(tok) + " %"
		clauses = append(clauses,
			`(' ' || LOWER(title) || ' ' LIKE ? ESCAPE '\' OR ' ' || LOWER(COALESCE(description, '')) || ' ' LIKE ? ESCAPE '\' OR LOWER(tags) LIKE ? ESCAPE '\')`)
		args = append(args, word, word, `%"`+escapeLike(tok)+`"%`)
	}
	return query.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// Delete hard-deletes the document row. It returns gorm.ErrRecordNotFound when no row matched.
func (r *documentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Document{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
