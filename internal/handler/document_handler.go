package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "docvault/internal/errors"
	"docvault/internal/middleware"
	"docvault/internal/model"
	"docvault/internal/service"
)

// DocumentHandler serves document upload, listing, download links and deletion.
type DocumentHandler struct {
	svc            service.DocumentService
	maxUploadBytes int64
}

// NewDocumentHandler creates a new document handler.
func NewDocumentHandler(svc service.DocumentService, maxUploadBytes int64) *DocumentHandler {
	return &DocumentHandler{svc: svc, maxUploadBytes: maxUploadBytes}
}

// ListDocumentsQuery holds the listing query parameters.
type ListDocumentsQuery struct {
	Page     int    `json:"page" validate:"omitempty,min=1"`
	Limit    int    `json:"limit" validate:"omitempty,min=1,max=100"`
	Search   string `json:"search" validate:"max=200"`
	FileType string `json:"fileType" validate:"omitempty,oneof=excel pdf csv html zip video"`
	IsPublic *bool  `json:"isPublic"`
}

func (h *DocumentHandler) bindListQuery(c echo.Context) (service.ListQuery, error) {
	var q ListDocumentsQuery
	err := echo.QueryParamsBinder(c).
		Int("page", &q.Page).
		Int("limit", &q.Limit).
		String("search", &q.Search).
		String("fileType", &q.FileType).
		BindError()
	if err != nil {
		field := "query"
		var be *echo.BindingError
		if errors.As(err, &be) {
			field = be.Field
		}
		return service.ListQuery{}, apperrors.Validation("Invalid query parameters", apperrors.FieldError{
			Field: field, Tag: "number", Message: field + " must be an integer",
		})
	}

	if raw := c.QueryParam("isPublic"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return service.ListQuery{}, apperrors.Validation("Invalid query parameters", apperrors.FieldError{
				Field: "isPublic", Tag: "boolean", Message: "isPublic must be true or false",
			})
		}
		q.IsPublic = &v
	}

	if err := validate(c, &q, "Invalid query parameters"); err != nil {
		return service.ListQuery{}, err
	}

	return service.ListQuery{
		Page:     q.Page,
		Limit:    q.Limit,
		Search:   q.Search,
		FileType: model.FileType(q.FileType),
		IsPublic: q.IsPublic,
	}, nil
}

// Upload godoc
// @Summary Upload a document
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Document file (pdf, excel, csv, html, zip, video)"
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Param isPublic formData boolean false "Visible to everyone"
// @Param tags formData string false "JSON array of tags"
// @Param metadata formData string false "JSON object of metadata values"
// @Success 201 {object} Response{data=model.Document}
// @Failure 400 {object} Response{error=apperrors.ErrorResponse}
// @Failure 401 {object} Response{error=apperrors.ErrorResponse}
// @Failure 413 {object} Response{error=apperrors.ErrorResponse}
// @Failure 415 {object} Response{error=apperrors.ErrorResponse}
// @Failure 500 {object} Response{error=apperrors.ErrorResponse}
// @Router /documents/upload [post]
func (h *DocumentHandler) Upload(c echo.Context) error {
	caller, ok := middleware.IdentityFrom(c)
	if !ok {
		return apperrors.ErrPleaseAuthenticate
	}

	file, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, echo.ErrStatusRequestEntityTooLarge) {
			return apperrors.ErrFileTooLarge
		}
		return apperrors.Validation("No file provided", apperrors.FieldError{
			Field: "file", Tag: "required", Message: "file is required",
		})
	}
	if h.maxUploadBytes > 0 && file.Size > h.maxUploadBytes {
		return apperrors.ErrFileTooLarge
	}

	in := service.UploadInput{
		Filename:    file.Filename,
		ContentType: file.Header.Get(echo.HeaderContentType),
		Size:        file.Size,
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
	}
	if in.ContentType == "" {
		in.ContentType = "application/octet-stream"
	}

	var fields []apperrors.FieldError
	if raw := c.FormValue("isPublic"); raw != "" {
		if in.IsPublic, err = strconv.ParseBool(raw); err != nil {
			fields = append(fields, apperrors.FieldError{Field: "isPublic", Tag: "boolean", Message: "isPublic must be true or false"})
		}
	}
	if raw := c.FormValue("tags"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &in.Tags); err != nil {
			fields = append(fields, apperrors.FieldError{Field: "tags", Tag: "json", Message: "tags must be a JSON array of strings"})
		}
	}
	if raw := c.FormValue("metadata"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &in.Metadata); err != nil {
			fields = append(fields, apperrors.FieldError{Field: "metadata", Tag: "json", Message: "metadata must be a JSON object of string values"})
		}
	}
	if len(fields) > 0 {
		return apperrors.Validation("Invalid document data", fields...)
	}

	src, err := file.Open()
	if err != nil {
		return apperrors.Internal("Error uploading document", err)
	}
	defer src.Close()
	in.Body = src

	doc, err := h.svc.Upload(c.Request().Context(), caller, in)
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, "Document uploaded successfully", doc)
}

// List godoc
// @Summary List documents visible to the caller
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" minimum(1)
// @Param limit query int false "Page size" minimum(1) maximum(100)
// @Param search query string false "Full-text search"
// @Param fileType query string false "File type" Enums(excel, pdf, csv, html, zip, video)
// @Param isPublic query boolean false "Filter by visibility"
// @Success 200 {object} Response{data=service.DocumentPage}
// @Failure 400 {object} Response{error=apperrors.ErrorResponse}
// @Failure 401 {object} Response{error=apperrors.ErrorResponse}
// @Router /documents [get]
func (h *DocumentHandler) List(c echo.Context) error {
	caller, ok := middleware.IdentityFrom(c)
	if !ok {
		return apperrors.ErrPleaseAuthenticate
	}
	q, err := h.bindListQuery(c)
	if err != nil {
		return err
	}

	page, err := h.svc.List(c.Request().Context(), caller, q)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Documents retrieved successfully", page)
}

// ListPublic godoc
// @Summary List public documents
// @Tags documents
// @Produce json
// @Param page query int false "Page number" minimum(1)
// @Param limit query int false "Page size" minimum(1) maximum(100)
// @Param search query string false "Full-text search"
// @Param fileType query string false "File type" Enums(excel, pdf, csv, html, zip, video)
// @Success 200 {object} Response{data=service.DocumentPage}
// @Failure 400 {object} Response{error=apperrors.ErrorResponse}
// @Router /documents/public [get]
func (h *DocumentHandler) ListPublic(c echo.Context) error {
	q, err := h.bindListQuery(c)
	if err != nil {
		return err
	}

	page, err := h.svc.ListPublic(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Documents retrieved successfully", page)
}

// Get godoc
// @Summary Get a document with a signed download URL
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Param id path string true "Document ID"
// @Success 200 {object} Response{data=service.DocumentWithURL}
// @Failure 401 {object} Response{error=apperrors.ErrorResponse}
// @Failure 403 {object} Response{error=apperrors.ErrorResponse}
// @Failure 404 {object} Response{error=apperrors.ErrorResponse}
// @Router /documents/{id} [get]
func (h *DocumentHandler) Get(c echo.Context) error {
	caller, ok := middleware.IdentityFrom(c)
	if !ok {
		return apperrors.ErrPleaseAuthenticate
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}

	doc, err := h.svc.Get(c.Request().Context(), caller, id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Document retrieved successfully", doc)
}

// Delete godoc
// @Summary Delete a document
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Param id path string true "Document ID"
// @Success 200 {object} Response{data=DeletedResponse}
// @Failure 401 {object} Response{error=apperrors.ErrorResponse}
// @Failure 403 {object} Response{error=apperrors.ErrorResponse}
// @Failure 404 {object} Response{error=apperrors.ErrorResponse}
// @Failure 500 {object} Response{error=apperrors.ErrorResponse}
// @Router /documents/{id} [delete]
func (h *DocumentHandler) Delete(c echo.Context) error {
	caller, ok := middleware.IdentityFrom(c)
	if !ok {
		return apperrors.ErrPleaseAuthenticate
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.svc.Delete(c.Request().Context(), caller, id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Document deleted successfully", DeletedResponse{ID: id.String()})
}
