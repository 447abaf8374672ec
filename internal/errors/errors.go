package errors

import (
	stderrors "errors"
	"net/http"
)

// Kind classifies a domain failure and doubles as the machine-readable error code.
type Kind string

const (
	KindValidation      Kind = "VALIDATION_ERROR"
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	KindForbidden       Kind = "FORBIDDEN"
	KindNotFound        Kind = "NOT_FOUND"
	KindConflict        Kind = "CONFLICT"
	KindUnsupportedType Kind = "UNSUPPORTED_MEDIA_TYPE"
	KindTooLarge        Kind = "PAYLOAD_TOO_LARGE"
	KindStorage         Kind = "STORAGE_ERROR"
	KindInternal        Kind = "INTERNAL_ERROR"
)

var (
	// ErrInvalidCredentials is returned for an unknown email and for a wrong password alike.
	ErrInvalidCredentials = New(KindUnauthenticated, "Invalid credentials")
	// ErrUserAlreadyExists is returned when an email is already registered.
	ErrUserAlreadyExists = New(KindConflict, "User already exists")
	// ErrUserNotFound is returned when a user record does not exist.
	ErrUserNotFound = New(KindNotFound, "User not found")
	// ErrSelfModification is returned when an admin tries to delete, demote or deactivate themselves.
	ErrSelfModification = New(KindForbidden, "You cannot delete or demote your own account")
	// ErrDocumentNotFound is returned when a document record does not exist.
	ErrDocumentNotFound = New(KindNotFound, "Document not found")
	// ErrAccessDenied is returned when the caller may not read or delete a document.
	ErrAccessDenied = New(KindForbidden, "Access denied")
	// ErrUnsupportedFileType is returned when the uploaded file extension is not accepted.
	ErrUnsupportedFileType = New(KindUnsupportedType, "Invalid file type")
	// ErrFileTooLarge is returned when the upload exceeds the configured size.
	ErrFileTooLarge = New(KindTooLarge, "File too large")
	// ErrFieldNotFound is returned when a metadata field definition does not exist.
	ErrFieldNotFound = New(KindNotFound, "Metadata field not found")
	// ErrFieldAlreadyExists is returned when a metadata field name is taken.
	ErrFieldAlreadyExists = New(KindConflict, "Metadata field already exists")
	// ErrNoToken is returned by the access guard when no bearer token is sent.
	ErrNoToken = New(KindUnauthenticated, "No authentication token provided")
	// ErrPleaseAuthenticate is returned for tokens that fail signature or expiry checks.
	ErrPleaseAuthenticate = New(KindUnauthenticated, "Please authenticate")
	// ErrCallerNotFound is returned when a valid token names a user that no longer exists.
	ErrCallerNotFound = New(KindUnauthenticated, "User not found")
	// ErrAdminRequired is returned by the admin gate.
	ErrAdminRequired = New(KindForbidden, "Admin access required")
	// ErrNoTokenProvided is returned by the verify endpoint when no bearer token is sent.
	ErrNoTokenProvided = New(KindUnauthenticated, "No token provided")
	// ErrInvalidToken is returned by the verify endpoint for any token that fails verification.
	ErrInvalidToken = New(KindUnauthenticated, "Invalid token")
)

// FieldError describes one offending input field.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag,omitempty"`
	Message string `json:"message"`
}

// AppError is a classified error carrying a human-readable message.
type AppError struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an AppError of the given kind.
func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

// Validation creates a validation error with field-level detail.
func Validation(message string, fields ...FieldError) *AppError {
	return &AppError{Kind: KindValidation, Message: message, Fields: fields}
}

// Storage wraps an object storage failure.
func Storage(message string, err error) *AppError {
	return &AppError{Kind: KindStorage, Message: message, Err: err}
}

// Internal wraps an unexpected failure.
func Internal(message string, err error) *AppError {
	return &AppError{Kind: KindInternal, Message: message, Err: err}
}

// KindOf returns the Kind of the first AppError in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// ErrorResponse is the structured `error` member of a failed envelope.
type ErrorResponse struct {
	Code   string       `json:"code"`
	Fields []FieldError `json:"fields,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Fields     []FieldError
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Code:   e.Code,
		Fields: e.Fields,
	}
}

var statusByKind = map[Kind]int{
	KindValidation:      http.StatusBadRequest,
	KindUnauthenticated: http.StatusUnauthorized,
	KindForbidden:       http.StatusForbidden,
	KindNotFound:        http.StatusNotFound,
	KindConflict:        http.StatusConflict,
	KindUnsupportedType: http.StatusUnsupportedMediaType,
	KindTooLarge:        http.StatusRequestEntityTooLarge,
	KindStorage:         http.StatusInternalServerError,
	KindInternal:        http.StatusInternalServerError,
}

// FromStatus builds an HTTPError for failures raised by the framework itself,
// such as unknown routes or an exceeded body limit.
func FromStatus(status int, message string) *HTTPError {
	code := string(KindInternal)
	switch {
	case status == http.StatusMethodNotAllowed:
		code = "METHOD_NOT_ALLOWED"
	case status < http.StatusInternalServerError:
		code = "HTTP_ERROR"
		for kind, s := range statusByKind {
			if s == status && kind != KindStorage {
				code = string(kind)
				break
			}
		}
	}
	if message == "" {
		message = http.StatusText(status)
	}
	return NewHTTPError(status, message, code)
}

// MapErrorToHTTP maps domain errors to HTTP errors. Internal details never reach the caller.
func MapErrorToHTTP(err error) *HTTPError {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return NewHTTPError(http.StatusInternalServerError, "Internal server error", string(KindInternal))
	}

	status, ok := statusByKind[appErr.Kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	message := appErr.Message
	if appErr.Kind == KindInternal && message == "" {
		message = "Internal server error"
	}
	return &HTTPError{
		StatusCode: status,
		Message:    message,
		Code:       string(appErr.Kind),
		Fields:     appErr.Fields,
	}
}
