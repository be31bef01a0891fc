package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Ledger posting (LED) ----

func ErrInvalidPosting(detail string) *AppError {
	return New("LED_001", fmt.Sprintf("Invalid posting: %s", detail), http.StatusBadRequest)
}

func ErrUnbalancedBatch() *AppError {
	return New("LED_002", "Batch debits and credits do not balance", http.StatusBadRequest)
}

func ErrBatchTooSmall() *AppError {
	return New("LED_003", "Batch must contain at least two postings", http.StatusBadRequest)
}

func ErrUnknownAccount(code string) *AppError {
	return New("LED_004", fmt.Sprintf("Unknown ledger account: %s", code), http.StatusBadRequest)
}

// ErrDuplicateBatch signals an idempotency-key replay. Callers treat it as a
// successful no-op, never as a failure.
func ErrDuplicateBatch() *AppError {
	return New("LED_010", "Batch already posted for idempotency key", http.StatusConflict)
}

func ErrInsufficientBalance() *AppError {
	return New("LED_020", "Insufficient available balance", http.StatusUnprocessableEntity)
}

func ErrInvalidAmount() *AppError {
	return New("LED_021", "Invalid amount", http.StatusBadRequest)
}

func ErrNotFound(entity string) *AppError {
	return New("LED_022", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Closing & snapshots (CLO) ----

func ErrDayAlreadyClosed(dateKey string) *AppError {
	return New("CLO_001", fmt.Sprintf("Ledger day %s is already closed", dateKey), http.StatusConflict)
}

func ErrNothingToClose(dateKey string) *AppError {
	return New("CLO_002", fmt.Sprintf("No postings recorded for %s", dateKey), http.StatusUnprocessableEntity)
}

// ---- Reconciliation & settlement (REC / SET) ----

func ErrDivergenceLocked(dateKey string) *AppError {
	return New("REC_001", fmt.Sprintf("Snapshots for %s are locked pending manual review", dateKey), http.StatusConflict)
}

func ErrAmbiguousTransferMatch() *AppError {
	return New("SET_001", "Multiple bank transfers match; manual resolution required", http.StatusConflict)
}

func ErrCashoutNotActionable(status string) *AppError {
	return New("SET_002", fmt.Sprintf("Cashout request in status %s cannot be modified", status), http.StatusConflict)
}

// ---- External dependencies (EXT) ----

func ErrExternalDependency(name string, err error) *AppError {
	return Wrap("EXT_001", fmt.Sprintf("External dependency %s unavailable", name), http.StatusBadGateway, err)
}

// ---- Authentication & authorization (AUTH) ----

func ErrInvalidToken() *AppError {
	return New("AUTH_001", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrForbiddenRole() *AppError {
	return New("AUTH_002", "Principal role not allowed for this operation", http.StatusForbidden)
}

// ---- Rate limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Too many requests", http.StatusTooManyRequests)
}

// ---- System & infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a LED_001-style validation error.
func Validation(message string) *AppError {
	return New("LED_001", message, http.StatusBadRequest)
}
