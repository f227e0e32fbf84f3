package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies application errors so the HTTP layer can map each one to a
// status code without inspecting messages.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindAuthorization
	KindInvalidToken
	KindConflict
)

// AppError is a typed application error carried from services to handlers.
type AppError struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// E builds an application error with the given kind, API code and message.
func E(kind Kind, code, message string) *AppError {
	return &AppError{Kind: kind, Code: code, Message: message}
}

// Wrap attaches an underlying cause to an internal error.
func Wrap(err error, message string) *AppError {
	return &AppError{Kind: KindInternal, Code: "INTERNAL_ERROR", Message: message, Err: err}
}

// Validation builds a validation error.
func Validation(code, message string) *AppError {
	return E(KindValidation, code, message)
}

// NotFound builds a not-found error.
func NotFound(code, message string) *AppError {
	return E(KindNotFound, code, message)
}

// Common application errors used across services.
var (
	ErrInvalidToken      = E(KindInvalidToken, "INVALID_TOKEN", "Invalid or expired token")
	ErrInvalidKey        = E(KindInvalidToken, "INVALID_KEY", "Invalid confirmation key")
	ErrInvalidCredential = E(KindAuthorization, "INVALID_CREDENTIALS", "Invalid email or password")
	ErrNotOwner          = E(KindAuthorization, "FORBIDDEN", "Resource belongs to another account")
	ErrAccountInactive   = E(KindAuthorization, "ACCOUNT_INACTIVE", "Account is not activated")
	ErrAccountNotFound   = E(KindNotFound, "ACCOUNT_NOT_FOUND", "Account not found")
	ErrShopNotFound      = E(KindNotFound, "SHOP_NOT_FOUND", "Shop not found")
	ErrContactNotFound   = E(KindNotFound, "CONTACT_NOT_FOUND", "Contact not found")
	ErrListingNotFound   = E(KindNotFound, "LISTING_NOT_FOUND", "Product listing not found")
	ErrBasketNotFound    = E(KindNotFound, "BASKET_NOT_FOUND", "Basket is empty")
	ErrItemNotFound      = E(KindNotFound, "ITEM_NOT_FOUND", "Item is not in the basket")
	ErrDuplicateAccount  = E(KindConflict, "DUPLICATE_ACCOUNT", "Email or phone already registered")
	ErrBasketConflict    = E(KindConflict, "BASKET_CONFLICT", "Concurrent basket modification")
)

// KindOf extracts the kind of an error, defaulting to internal.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// HTTPStatus maps an application error to an HTTP status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindAuthorization:
		return http.StatusForbidden
	case KindInvalidToken:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// APICode returns the machine-readable code of an application error.
func APICode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "INTERNAL_ERROR"
}
