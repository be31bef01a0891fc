package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	err := New("LED_002", "Batch debits and credits do not balance", http.StatusBadRequest)
	assert.Equal(t, "[LED_002] Batch debits and credits do not balance", err.Error())
}

func TestAppError_ErrorWithWrapped(t *testing.T) {
	inner := fmt.Errorf("connection refused")
	err := Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, inner)
	assert.Contains(t, err.Error(), "SYS_001")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestAppError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	err := Wrap("EXT_001", "External dependency bank unavailable", http.StatusBadGateway, inner)
	assert.ErrorIs(t, err, inner)
}

func TestAppError_ErrorsAs(t *testing.T) {
	var appErr *AppError
	err := fmt.Errorf("handler: %w", ErrUnbalancedBatch())
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "LED_002", appErr.Code)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"invalid posting", ErrInvalidPosting("negative amount"), "LED_001", http.StatusBadRequest},
		{"unbalanced", ErrUnbalancedBatch(), "LED_002", http.StatusBadRequest},
		{"too small", ErrBatchTooSmall(), "LED_003", http.StatusBadRequest},
		{"unknown account", ErrUnknownAccount("typo_acct"), "LED_004", http.StatusBadRequest},
		{"duplicate batch", ErrDuplicateBatch(), "LED_010", http.StatusConflict},
		{"insufficient", ErrInsufficientBalance(), "LED_020", http.StatusUnprocessableEntity},
		{"not found", ErrNotFound("wallet"), "LED_022", http.StatusNotFound},
		{"already closed", ErrDayAlreadyClosed("2024-03-01"), "CLO_001", http.StatusConflict},
		{"nothing to close", ErrNothingToClose("2024-03-01"), "CLO_002", http.StatusUnprocessableEntity},
		{"divergence locked", ErrDivergenceLocked("2024-03-01"), "REC_001", http.StatusConflict},
		{"ambiguous match", ErrAmbiguousTransferMatch(), "SET_001", http.StatusConflict},
		{"invalid token", ErrInvalidToken(), "AUTH_001", http.StatusUnauthorized},
		{"forbidden role", ErrForbiddenRole(), "AUTH_002", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
		})
	}
}

func TestErrNotFound_Message(t *testing.T) {
	err := ErrNotFound("cashout request")
	assert.Equal(t, "cashout request not found", err.Message)
}
