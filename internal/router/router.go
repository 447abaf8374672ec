package router

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"docvault/internal/config"
	apperrors "docvault/internal/errors"
	"docvault/internal/handler"
	"docvault/internal/middleware"
)

// uploadOverhead leaves room for multipart boundaries and the text fields around the file.
const uploadOverhead = 1 << 20

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	guard *middleware.Guard,
	authHandler *handler.AuthHandler,
	documentHandler *handler.DocumentHandler,
	userHandler *handler.UserHandler,
	fieldHandler *handler.MetadataFieldHandler,
) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	e.Validator = NewValidator()
	e.HTTPErrorHandler = ErrorHandler

	e.GET("/health", handler.Health)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authn := guard.Authenticate()
	admin := guard.RequireAdmin()

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/verify", authHandler.Verify)
	api.GET("/documents/public", documentHandler.ListPublic)

	// Documents (identity)
	documents := api.Group("/documents")
	bodyLimit := echomw.BodyLimit(fmt.Sprintf("%dB", cfg.MaxUploadBytes+uploadOverhead))
	documents.POST("/upload", documentHandler.Upload, bodyLimit, authn)
	documents.GET("", documentHandler.List, authn)
	documents.GET("/:id", documentHandler.Get, authn)
	documents.DELETE("/:id", documentHandler.Delete, authn)

	// Metadata fields (identity + admin)
	fields := api.Group("/metadata-fields", authn, admin)
	fields.GET("", fieldHandler.ListFields)
	fields.POST("", fieldHandler.CreateField)
	fields.GET("/:id", fieldHandler.GetField)
	fields.PUT("/:id", fieldHandler.UpdateField)
	fields.DELETE("/:id", fieldHandler.DeleteField)

	// Users: /me needs identity only, everything else is admin
	users := api.Group("/users")
	users.GET("/me", userHandler.Me, authn)
	users.PUT("/me", userHandler.UpdateMe, authn)
	users.GET("", userHandler.ListUsers, authn, admin)
	users.POST("", userHandler.CreateUser, authn, admin)
	users.GET("/:id", userHandler.GetUser, authn, admin)
	users.PUT("/:id", userHandler.UpdateUser, authn, admin)
	users.DELETE("/:id", userHandler.DeleteUser, authn, admin)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator reports field errors by their JSON names.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// ErrorHandler renders every failure as the response envelope.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		appErr  *apperrors.AppError
		echoErr *echo.HTTPError
		verrs   validator.ValidationErrors
		httpErr *apperrors.HTTPError
	)
	switch {
	case errors.As(err, &appErr):
		httpErr = apperrors.MapErrorToHTTP(appErr)
	case errors.As(err, &verrs):
		httpErr = apperrors.MapErrorToHTTP(apperrors.Validation("Invalid input", handler.FieldErrors(verrs)...))
	case errors.As(err, &echoErr):
		message, _ := echoErr.Message.(string)
		httpErr = apperrors.FromStatus(echoErr.Code, message)
	default:
		httpErr = apperrors.MapErrorToHTTP(err)
	}

	if httpErr.StatusCode >= http.StatusInternalServerError {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(httpErr.StatusCode)
	} else {
		err = c.JSON(httpErr.StatusCode, handler.Response{
			Success: false,
			Message: httpErr.Message,
			Error:   httpErr.ToErrorResponse(),
		})
	}
	if err != nil {
		c.Logger().Error(err)
	}
}
