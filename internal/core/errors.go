// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	ErrTokenExpired = errors.New("token expired")
	ErrTokenRevoked = errors.New("token revoked")
	ErrTokenInvalid = errors.New("token invalid")

	// Ingestion taxonomy. Precondition errors are raised before any
	// gateway call or write; gateway and mapping errors leave no state.
	ErrTokensExhausted   = errors.New("no tokens remaining")
	ErrInvalidUpload     = errors.New("invalid upload")
	ErrOcrFailure        = errors.New("ocr extraction failed")
	ErrMalformedOcrField = errors.New("malformed ocr field")
)

type AppError struct {
	Err     error
	Message string
	Status  int
	Code    string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(err error, message string, status int, code string) *AppError {
	return &AppError{
		Err:     err,
		Message: message,
		Status:  status,
		Code:    code,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func UnauthorizedError(message string) *AppError {
	if message == "" {
		message = "authentication required"
	}
	return NewAppError(
		ErrUnauthorized,
		message,
		http.StatusUnauthorized,
		"UNAUTHORIZED",
	)
}

func ForbiddenError(message string) *AppError {
	if message == "" {
		message = "access denied"
	}
	return NewAppError(
		ErrForbidden,
		message,
		http.StatusForbidden,
		"FORBIDDEN",
	)
}

func NotFoundError(resource string) *AppError {
	return NewAppError(
		ErrNotFound,
		fmt.Sprintf("%s not found", resource),
		http.StatusNotFound,
		"NOT_FOUND",
	)
}

func DuplicateError(field string) *AppError {
	return NewAppError(
		ErrDuplicateKey,
		fmt.Sprintf("%s already exists", field),
		http.StatusConflict,
		"DUPLICATE",
	)
}

func ValidationError(message string) *AppError {
	return NewAppError(
		ErrInvalidInput,
		message,
		http.StatusBadRequest,
		"VALIDATION_FAILED",
	)
}

func TokenExpiredError() *AppError {
	return NewAppError(
		ErrTokenExpired,
		"token has expired",
		http.StatusUnauthorized,
		"TOKEN_EXPIRED",
	)
}

func TokenRevokedError() *AppError {
	return NewAppError(
		ErrTokenRevoked,
		"token has been revoked",
		http.StatusUnauthorized,
		"TOKEN_REVOKED",
	)
}

func TokenInvalidError() *AppError {
	return NewAppError(
		ErrTokenInvalid,
		"token is invalid",
		http.StatusUnauthorized,
		"TOKEN_INVALID",
	)
}

func TokensExhaustedError() *AppError {
	return NewAppError(
		ErrTokensExhausted,
		"no tokens remaining on subscription",
		http.StatusPaymentRequired,
		"TOKENS_EXHAUSTED",
	)
}

func InvalidUploadError(message string) *AppError {
	return NewAppError(
		ErrInvalidUpload,
		message,
		http.StatusBadRequest,
		"INVALID_UPLOAD",
	)
}

// MalformedOcrFieldError flags a field value the extraction produced
// that is neither the sentinel nor parseable; field names the culprit.
func MalformedOcrFieldError(field string) *AppError {
	return NewAppError(
		ErrMalformedOcrField,
		fmt.Sprintf("extraction returned an unusable value for %s", field),
		http.StatusBadGateway,
		"MALFORMED_OCR_FIELD",
	)
}

// OcrFailureError covers gateway unreachability, non-2xx responses and
// unparseable payloads. The caller may simply resubmit.
func OcrFailureError() *AppError {
	return NewAppError(
		ErrOcrFailure,
		"invoice extraction failed, please retry",
		http.StatusBadGateway,
		"OCR_FAILURE",
	)
}
