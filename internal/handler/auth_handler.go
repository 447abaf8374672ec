package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "docvault/internal/errors"
	"docvault/internal/middleware"
	"docvault/internal/model"
	"docvault/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthUser is the public view of the signed-in user.
type AuthUser struct {
	ID    uuid.UUID  `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
}

// AuthResponse represents an authentication response.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      AuthUser  `json:"user"`
}

// VerifyResponse is returned for a valid token.
type VerifyResponse struct {
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func toAuthResponse(r *service.AuthResult) AuthResponse {
	return AuthResponse{
		Token:     r.Token,
		ExpiresAt: r.ExpiresAt,
		User: AuthUser{
			ID:    r.User.ID,
			Name:  r.User.Name,
			Email: r.User.Email,
			Role:  r.User.Role,
		},
	}
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} Response{data=AuthResponse}
// @Failure 400 {object} Response{error=apperrors.ErrorResponse}
// @Failure 409 {object} Response{error=apperrors.ErrorResponse}
// @Failure 500 {object} Response{error=apperrors.ErrorResponse}
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.authService.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, "User registered successfully", toAuthResponse(result))
}

// Login godoc
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} Response{data=AuthResponse}
// @Failure 400 {object} Response{error=apperrors.ErrorResponse}
// @Failure 401 {object} Response{error=apperrors.ErrorResponse}
// @Failure 500 {object} Response{error=apperrors.ErrorResponse}
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "Login successful", toAuthResponse(result))
}

// Verify godoc
// @Summary Verify a token without loading the user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=VerifyResponse}
// @Failure 401 {object} Response{error=apperrors.ErrorResponse}
// @Router /auth/verify [get]
func (h *AuthHandler) Verify(c echo.Context) error {
	token := middleware.BearerToken(c)
	if token == "" {
		return apperrors.ErrNoTokenProvided
	}

	claims, err := h.authService.VerifyToken(token)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "Token is valid", VerifyResponse{
		UserID:    claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
	})
}
