package apperrors

import (
	"net/http"
)

/*
Фабрики и предопределенные ошибки домена.
Таксономия: Unauthorized, Forbidden, NotFound, Conflict, RateLimited.
*/

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation - невалидная операция (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// --- Auth ---

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusBadRequest, // ссылки из писем: 400, а не 401
)

var ErrNotAuthenticated = New(
	CodeUnauthorized,
	"auth",
	"Not authenticated",
	http.StatusUnauthorized,
)

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Not enough permissions",
	http.StatusForbidden,
)

var ErrUserInactive = New(
	CodeInvalidOperation,
	"auth",
	"Inactive user",
	http.StatusBadRequest,
)

var ErrEmailAlreadyVerified = New(
	CodeInvalidOperation,
	"auth",
	"Email is already verified",
	http.StatusBadRequest,
)

var ErrWeakPassword = New(
	CodeValidationFailed,
	"validation",
	"Password is too weak. Minimum 6 characters required.",
	http.StatusBadRequest,
)

// --- Users ---

var ErrUserNotFound = New(
	CodeNotFound,
	"user",
	"User not found",
	http.StatusNotFound,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"user",
	"Account already exists",
	http.StatusConflict,
)

// --- Contacts ---

var ErrContactNotFound = New(
	CodeNotFound,
	"contact",
	"Contact not found",
	http.StatusNotFound,
)

var ErrContactAlreadyExists = New(
	CodeConflict,
	"contact",
	"Contact with this email already exists",
	http.StatusConflict,
)

// --- Uploads ---

var ErrFileTooLarge = New(
	CodeValidationFailed,
	"upload",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

var ErrInvalidFileType = New(
	CodeValidationFailed,
	"upload",
	"The provided file type is not allowed",
	http.StatusUnsupportedMediaType,
)

// --- Rate limiting ---

var ErrTooManyRequests = New(
	CodeRateLimited,
	"rate_limit",
	"Too many requests",
	http.StatusTooManyRequests,
)
