package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrCardNotFound is returned when a card is not found.
	ErrCardNotFound = errors.New("card not found")
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidAmount is returned when a transfer amount is not positive.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrSameCard is returned when source and destination cards are identical.
	ErrSameCard = errors.New("cannot transfer to the same card")
	// ErrCardNumberFormat is returned when a card number is not 16 digits.
	ErrCardNumberFormat = errors.New("card number must be exactly 16 digits")
	// ErrExpiryInPast is returned when a new card's expiry date is not in the future.
	ErrExpiryInPast = errors.New("expiry date must be in the future")
	// ErrNegativeBalance is returned when a card would be created or updated with a negative balance.
	ErrNegativeBalance = errors.New("balance cannot be negative")
	// ErrDuplicateCardNumber is returned when the card number already exists.
	ErrDuplicateCardNumber = errors.New("card number already exists")
	// ErrForbidden is returned when the requester does not own the card.
	ErrForbidden = errors.New("card does not belong to the requester")
	// ErrCardBlocked is returned when an operation touches a blocked card.
	ErrCardBlocked = errors.New("card is blocked")
	// ErrInvalidStatusTransition is returned for a disallowed status change.
	ErrInvalidStatusTransition = errors.New("invalid card status transition")
	// ErrInsufficientFunds is returned when the source balance cannot cover the amount.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrCipher is returned when card number encryption or decryption fails.
	ErrCipher = errors.New("card number cipher failure")
	// ErrConflict is returned when a storage-level conflict cannot be resolved.
	ErrConflict = errors.New("storage conflict")
	// ErrUsernameTaken is returned when registering with an existing username.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrEmailTaken is returned when registering with an existing email.
	ErrEmailTaken = errors.New("email already exists")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
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
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. The core raises typed
// errors only; this is the single place where they become transport statuses.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrCardNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "CARD_NOT_FOUND")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrInvalidAmount):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_AMOUNT")
	case errors.Is(err, ErrSameCard):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "SAME_CARD")
	case errors.Is(err, ErrCardNumberFormat):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_CARD_NUMBER")
	case errors.Is(err, ErrExpiryInPast):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "EXPIRY_IN_PAST")
	case errors.Is(err, ErrNegativeBalance):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "NEGATIVE_BALANCE")
	case errors.Is(err, ErrDuplicateCardNumber):
		return NewHTTPError(http.StatusConflict, err.Error(), "DUPLICATE_CARD_NUMBER")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrCardBlocked):
		return NewHTTPError(http.StatusConflict, err.Error(), "CARD_BLOCKED")
	case errors.Is(err, ErrInvalidStatusTransition):
		return NewHTTPError(http.StatusConflict, err.Error(), "INVALID_STATUS_TRANSITION")
	case errors.Is(err, ErrInsufficientFunds):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INSUFFICIENT_FUNDS")
	case errors.Is(err, ErrConflict):
		return NewHTTPError(http.StatusConflict, err.Error(), "CONFLICT")
	case errors.Is(err, ErrUsernameTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "USERNAME_TAKEN")
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "EMAIL_TAKEN")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
