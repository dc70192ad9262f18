package errors

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Kind classifies an application error independently of its message.
type Kind string

const (
	KindValidation      Kind = "validation"
	KindIndexOutOfRange Kind = "index_out_of_range"
	KindNotFound        Kind = "not_found"
	KindStorage         Kind = "storage"
	KindInternal        Kind = "internal"
)

// Error represents an application error
type Error struct {
	Kind    Kind   `json:"kind"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind, so sentinels compare
// equal to any error built from them regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// JSON returns the error as a JSON string
func (e *Error) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// New creates a new Error
func New(kind Kind, code int, message string, err error) *Error {
	return &Error{
		Kind:    kind,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Sentinels for errors.Is checks.
var (
	ErrValidation      = New(KindValidation, http.StatusBadRequest, "Validation error", nil)
	ErrIndexOutOfRange = New(KindIndexOutOfRange, http.StatusConflict, "Cart index out of range", nil)
	ErrNotFound        = New(KindNotFound, http.StatusNotFound, "Not found", nil)
	ErrStorage         = New(KindStorage, http.StatusInternalServerError, "Storage error", nil)
	ErrInternalServer  = New(KindInternal, http.StatusInternalServerError, "Internal server error", nil)
)

// Validation builds a user-facing validation error.
func Validation(message string) *Error {
	return New(KindValidation, http.StatusBadRequest, message, nil)
}

// IndexOutOfRange reports a cart position that does not exist.
func IndexOutOfRange(index, length int) *Error {
	return New(KindIndexOutOfRange, http.StatusConflict,
		fmt.Sprintf("cart index %d out of range (cart has %d items)", index, length), nil)
}

// NotFound builds a not-found error with the given message.
func NotFound(message string) *Error {
	return New(KindNotFound, http.StatusNotFound, message, nil)
}

// Storage wraps a backend write failure.
func Storage(err error) *Error {
	return New(KindStorage, http.StatusInternalServerError, "Storage error", err)
}

// From returns err as an *Error, wrapping unknown errors as internal.
func From(err error) *Error {
	if e, ok := err.(*Error); ok {
		return e
	}
	return New(KindInternal, http.StatusInternalServerError, "Internal server error", err)
}

// HandleError writes err as a JSON response.
func HandleError(w http.ResponseWriter, err error) {
	appErr := From(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.Code)
	w.Write([]byte(appErr.JSON()))
}

// ErrorMiddleware renders the last error attached to the gin context.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		appErr := From(c.Errors.Last().Err)
		message := appErr.Message
		if appErr.Kind == KindInternal || appErr.Kind == KindStorage {
			message = "internal server error"
		}
		c.AbortWithStatusJSON(appErr.Code, gin.H{"error": message, "kind": appErr.Kind})
	}
}
