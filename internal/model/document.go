package model

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FileType is the document category derived from the uploaded file's extension.
type FileType string

const (
	FileTypeExcel FileType = "excel"
	FileTypePDF   FileType = "pdf"
	FileTypeCSV   FileType = "csv"
	FileTypeHTML  FileType = "html"
	FileTypeZip   FileType = "zip"
	FileTypeVideo FileType = "video"
)

// Valid reports whether t is one of the supported file types.
func (t FileType) Valid() bool {
	switch t {
	case FileTypeExcel, FileTypePDF, FileTypeCSV, FileTypeHTML, FileTypeZip, FileTypeVideo:
		return true
	}
	return false
}

var fileTypeByExt = map[string]FileType{
	".pdf":  FileTypePDF,
	".xls":  FileTypeExcel,
	".xlsx": FileTypeExcel,
	".csv":  FileTypeCSV,
	".html": FileTypeHTML,
	".htm":  FileTypeHTML,
	".zip":  FileTypeZip,
	".mp4":  FileTypeVideo,
	".mov":  FileTypeVideo,
	".avi":  FileTypeVideo,
	".mkv":  FileTypeVideo,
	".webm": FileTypeVideo,
}

// FileTypeFromName maps a filename's extension to its FileType, case-insensitively.
func FileTypeFromName(filename string) (FileType, bool) {
	ft, ok := fileTypeByExt[strings.ToLower(filepath.Ext(filename))]
	return ft, ok
}

// Document is the metadata record of an uploaded file. The binary lives in object
// storage under StorageKey.
type Document struct {
	ID          uuid.UUID                              `json:"id" gorm:"type:char(36);primaryKey"`
	Title       string                                 `json:"title" gorm:"size:255;not null"`
	Description string                                 `json:"description,omitempty" gorm:"type:text"`
	FileType    FileType                               `json:"fileType" gorm:"type:varchar(16);not null;index"`
	FileSize    int64                                  `json:"fileSize" gorm:"not null"`
	StorageKey  string                                 `json:"storageKey" gorm:"size:512;uniqueIndex;not null"`
	Metadata    datatypes.JSONType[map[string]string] `json:"metadata"`
	UploadedBy  uuid.UUID                              `json:"uploadedBy" gorm:"type:char(36);not null;index"`
	IsPublic    bool                                   `json:"isPublic" gorm:"not null;index"`
	Tags        datatypes.JSONSlice[string]            `json:"tags" gorm:"type:text"`
	CreatedAt   time.Time                              `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time                              `json:"updatedAt"`

	// Relations
	Owner    *User        `json:"-" gorm:"foreignKey:UploadedBy"`
	Uploader *UserSummary `json:"uploader,omitempty" gorm:"-"`
}

// AfterFind exposes the preloaded owner as a summary. Preloads run before this hook.
func (d *Document) AfterFind(tx *gorm.DB) error {
	if d.Owner != nil {
		d.Uploader = d.Owner.Summary()
	}
	return nil
}

// BeforeCreate sets UUID before creating the record.
func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// VisibleTo reports whether the caller may read the document.
func (d *Document) VisibleTo(caller Identity) bool {
	return d.IsPublic || d.OwnedBy(caller) || caller.IsAdmin()
}

// OwnedBy reports whether the caller uploaded the document.
func (d *Document) OwnedBy(caller Identity) bool {
	return d.UploadedBy == caller.ID
}
