package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"docvault/internal/model"
	"docvault/internal/service"
)

// MetadataFieldHandler serves the admin metadata field registry.
type MetadataFieldHandler struct {
	svc service.MetadataService
}

// NewMetadataFieldHandler creates a new metadata field handler.
func NewMetadataFieldHandler(svc service.MetadataService) *MetadataFieldHandler {
	return &MetadataFieldHandler{svc: svc}
}

// CreateFieldRequest defines a new metadata field.
type CreateFieldRequest struct {
	Name         string   `json:"name" validate:"required,max=100"`
	Label        string   `json:"label" validate:"required,max=255"`
	Type         string   `json:"type" validate:"required,oneof=text number date select boolean"`
	Required     bool     `json:"required"`
	Options      []string `json:"options" validate:"omitempty,dive,required"`
	DefaultValue *string  `json:"defaultValue" validate:"omitempty,max=255"`
	IsActive     *bool    `json:"isActive"`
}

// UpdateFieldRequest is a partial update. Sending name is rejected.
type UpdateFieldRequest struct {
	Name         *string  `json:"name"`
	Label        *string  `json:"label" validate:"omitempty,min=1,max=255"`
	Type         *string  `json:"type" validate:"omitempty,oneof=text number date select boolean"`
	Required     *bool    `json:"required"`
	Options      []string `json:"options" validate:"omitempty,dive,required"`
	DefaultValue *string  `json:"defaultValue" validate:"omitempty,max=255"`
	IsActive     *bool    `json:"isActive"`
}

// ListFields godoc
// @Summary List metadata fields
// @Tags metadata-fields
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]model.MetadataField}
// @Failure 403 {object} Response{error=apperrors.ErrorResponse}
// @Router /metadata-fields [get]
func (h *MetadataFieldHandler) ListFields(c echo.Context) error {
	fields, err := h.svc.ListFields(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Metadata fields retrieved successfully", fields)
}

// GetField godoc
// @Summary Get a metadata field
// @Tags metadata-fields
// @Produce json
// @Security BearerAuth
// @Param id path string true "Field ID"
// @Success 200 {object} Response{data=model.MetadataField}
// @Failure 404 {object} Response{error=apperrors.ErrorResponse}
// @Router /metadata-fields/{id} [get]
func (h *MetadataFieldHandler) GetField(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	field, err := h.svc.GetField(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Metadata field retrieved successfully", field)
}

// CreateField godoc
// @Summary Create a metadata field
// @Tags metadata-fields
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param field body CreateFieldRequest true "Field definition"
// @Success 201 {object} Response{data=model.MetadataField}
// @Failure 400 {object} Response{error=apperrors.ErrorResponse}
// @Failure 409 {object} Response{error=apperrors.ErrorResponse}
// @Router /metadata-fields [post]
func (h *MetadataFieldHandler) CreateField(c echo.Context) error {
	var req CreateFieldRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	field, err := h.svc.CreateField(c.Request().Context(), service.CreateFieldInput{
		Name:         req.Name,
		Label:        req.Label,
		Type:         model.FieldType(req.Type),
		Required:     req.Required,
		Options:      req.Options,
		DefaultValue: req.DefaultValue,
		IsActive:     req.IsActive,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Metadata field created successfully", field)
}

// UpdateField godoc
// @Summary Update a metadata field
// @Tags metadata-fields
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Field ID"
// @Param field body UpdateFieldRequest true "Fields to change"
// @Success 200 {object} Response{data=model.MetadataField}
// @Failure 400 {object} Response{error=apperrors.ErrorResponse}
// @Failure 404 {object} Response{error=apperrors.ErrorResponse}
// @Router /metadata-fields/{id} [put]
func (h *MetadataFieldHandler) UpdateField(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req UpdateFieldRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	in := service.UpdateFieldInput{
		Name:         req.Name,
		Label:        req.Label,
		Required:     req.Required,
		Options:      req.Options,
		DefaultValue: req.DefaultValue,
		IsActive:     req.IsActive,
	}
	if req.Type != nil {
		ft := model.FieldType(*req.Type)
		in.Type = &ft
	}

	field, err := h.svc.UpdateField(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Metadata field updated successfully", field)
}

// DeleteField godoc
// @Summary Delete a metadata field
// @Tags metadata-fields
// @Produce json
// @Security BearerAuth
// @Param id path string true "Field ID"
// @Success 200 {object} Response{data=DeletedResponse}
// @Failure 404 {object} Response{error=apperrors.ErrorResponse}
// @Router /metadata-fields/{id} [delete]
func (h *MetadataFieldHandler) DeleteField(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteField(c.Request().Context(), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Metadata field deleted successfully", DeletedResponse{ID: id.String()})
}
