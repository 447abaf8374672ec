package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "docvault/internal/errors"
	"docvault/internal/middleware"
	"docvault/internal/model"
	"docvault/internal/service"
)

// UserHandler bundles HTTP handlers.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// CreateUserRequest is the admin user creation payload.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=admin user"`
}

// UpdateUserRequest is the admin user update payload. Omitted fields are unchanged.
type UpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin user"`
	IsActive *bool   `json:"isActive"`
}

// UpdateMeRequest is what callers may change on their own account.
type UpdateMeRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1"`
	Password *string `json:"password" validate:"omitempty,min=6"`
}

// CreateUser godoc
// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body CreateUserRequest true "User payload"
// @Success 201 {object} Response{data=model.User}
// @Failure 400 {object} Response{error=apperrors.ErrorResponse}
// @Failure 403 {object} Response{error=apperrors.ErrorResponse}
// @Failure 409 {object} Response{error=apperrors.ErrorResponse}
// @Router /users [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req CreateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	created, err := h.svc.CreateUser(c.Request().Context(), service.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     model.Role(req.Role),
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "User created successfully", created)
}

// GetUser godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} Response{data=model.User}
// @Failure 400 {object} Response{error=apperrors.ErrorResponse}
// @Failure 404 {object} Response{error=apperrors.ErrorResponse}
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	user, err := h.svc.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User retrieved successfully", user)
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]model.User}
// @Failure 403 {object} Response{error=apperrors.ErrorResponse}
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.svc.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Users retrieved successfully", users)
}

// UpdateUser godoc
// @Summary Update a user's name, role or status
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param user body UpdateUserRequest true "Fields to change"
// @Success 200 {object} Response{data=model.User}
// @Failure 400 {object} Response{error=apperrors.ErrorResponse}
// @Failure 403 {object} Response{error=apperrors.ErrorResponse}
// @Failure 404 {object} Response{error=apperrors.ErrorResponse}
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	caller, ok := middleware.IdentityFrom(c)
	if !ok {
		return apperrors.ErrPleaseAuthenticate
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req UpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	in := service.UpdateUserInput{Name: req.Name, IsActive: req.IsActive}
	if req.Role != nil {
		role := model.Role(*req.Role)
		in.Role = &role
	}

	user, err := h.svc.UpdateUser(c.Request().Context(), caller, id, in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User updated successfully", user)
}

// DeleteUser godoc
// @Summary Delete a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} Response{data=DeletedResponse}
// @Failure 403 {object} Response{error=apperrors.ErrorResponse}
// @Failure 404 {object} Response{error=apperrors.ErrorResponse}
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	caller, ok := middleware.IdentityFrom(c)
	if !ok {
		return apperrors.ErrPleaseAuthenticate
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteUser(c.Request().Context(), caller, id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User deleted successfully", DeletedResponse{ID: id.String()})
}

// Me godoc
// @Summary Get the caller's own account
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=model.Identity}
// @Failure 401 {object} Response{error=apperrors.ErrorResponse}
// @Router /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	caller, ok := middleware.IdentityFrom(c)
	if !ok {
		return apperrors.ErrPleaseAuthenticate
	}
	return respond(c, http.StatusOK, "User retrieved successfully", caller)
}

// UpdateMe godoc
// @Summary Change the caller's own name or password
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body UpdateMeRequest true "Fields to change"
// @Success 200 {object} Response{data=model.User}
// @Failure 400 {object} Response{error=apperrors.ErrorResponse}
// @Failure 401 {object} Response{error=apperrors.ErrorResponse}
// @Router /users/me [put]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	caller, ok := middleware.IdentityFrom(c)
	if !ok {
		return apperrors.ErrPleaseAuthenticate
	}
	var req UpdateMeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.svc.UpdateSelf(c.Request().Context(), caller, service.UpdateSelfInput{
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User updated successfully", user)
}
