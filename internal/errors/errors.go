package errors

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// Error codes
const (
	// Authentication errors
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"

	// Validation errors
	ErrCodeInvalidInput = "INVALID_INPUT"

	// Resource errors
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeConflict         = "CONFLICT"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"

	// Throttling
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS"

	// Service errors
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// APIError is the uniform error envelope returned by every endpoint.
type APIError struct {
	StatusCode int       `json:"statusCode"`
	Code       string    `json:"code"`
	Timestamp  time.Time `json:"timestamp"`
	Path       string    `json:"path"`
	Method     string    `json:"method"`
	Message    []string  `json:"message"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return strings.Join(e.Message, "; ")
}

// NewAPIError builds an envelope for the current request.
func NewAPIError(c *gin.Context, statusCode int, code string, messages ...string) *APIError {
	if len(messages) == 0 {
		messages = []string{http.StatusText(statusCode)}
	}
	apiErr := &APIError{
		StatusCode: statusCode,
		Code:       code,
		Timestamp:  time.Now().UTC(),
		Message:    messages,
	}
	if c.Request != nil {
		apiErr.Path = c.Request.URL.Path
		apiErr.Method = c.Request.Method
	}
	return apiErr
}

// RespondWithError logs and sends an error response, aborting the handler chain.
func RespondWithError(c *gin.Context, apiErr *APIError) {
	event := log.Warn()
	if apiErr.StatusCode >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.
		Int("status", apiErr.StatusCode).
		Str("method", apiErr.Method).
		Str("path", apiErr.Path).
		Strs("message", apiErr.Message).
		Msgf("HTTP %d error", apiErr.StatusCode)

	c.AbortWithStatusJSON(apiErr.StatusCode, apiErr)
}

// Helper functions for common error responses

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, NewAPIError(c, http.StatusUnauthorized, ErrCodeUnauthorized, message))
}

// InvalidCredentials sends a 401 response for a failed login
func InvalidCredentials(c *gin.Context, message string) {
	RespondWithError(c, NewAPIError(c, http.StatusUnauthorized, ErrCodeInvalidCredentials, message))
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, NewAPIError(c, http.StatusNotFound, ErrCodeNotFound, message))
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	RespondWithError(c, NewAPIError(c, http.StatusBadRequest, ErrCodeInvalidInput, message))
}

// ValidationFailed sends a 400 response listing every binding failure in err.
func ValidationFailed(c *gin.Context, err error) {
	RespondWithError(c, NewAPIError(c, http.StatusBadRequest, ErrCodeInvalidInput, ValidationMessages(err)...))
}

// Conflict sends a 409 response
func Conflict(c *gin.Context, message string) {
	if message == "" {
		message = "Resource conflict"
	}
	RespondWithError(c, NewAPIError(c, http.StatusConflict, ErrCodeConflict, message))
}

// MethodNotAllowed sends a 405 response
func MethodNotAllowed(c *gin.Context) {
	RespondWithError(c, NewAPIError(c, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed))
}

// TooManyRequests sends a 429 response
func TooManyRequests(c *gin.Context, message string) {
	if message == "" {
		message = "Too many requests"
	}
	RespondWithError(c, NewAPIError(c, http.StatusTooManyRequests, ErrCodeTooManyRequests, message))
}

// InternalError logs err and sends a generic 500 response without leaking it.
func InternalError(c *gin.Context, err error) {
	if err != nil {
		log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("unhandled error")
	}
	RespondWithError(c, NewAPIError(c, http.StatusInternalServerError, ErrCodeInternalError, "Internal server error"))
}

// ServiceUnavailable sends a 503 response
func ServiceUnavailable(c *gin.Context, message string) {
	if message == "" {
		message = "Service temporarily unavailable"
	}
	RespondWithError(c, NewAPIError(c, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, message))
}

// ValidationMessages turns binding errors into one readable message per field.
func ValidationMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{"Invalid request body"}
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, fieldMessage(fe))
	}
	return messages
}

func fieldMessage(fe validator.FieldError) string {
	field := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must not be less than %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must not be greater than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

var registerOnce sync.Once

// RegisterJSONFieldNames makes validation errors report JSON field names
// instead of Go struct field names.
func RegisterJSONFieldNames() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return f.Name
		})
	})
}
