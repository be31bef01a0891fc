package domain

import "errors"

// Sentinel validation errors raised by pure domain checks. Services map
// them to coded apperror values at the boundary.
var (
	ErrBatchSize        = errors.New("batch must contain at least two postings")
	ErrNegativeAmount   = errors.New("posting amount must not be negative")
	ErrInvalidAccount   = errors.New("posting references an invalid account")
	ErrInvalidEntryType = errors.New("posting type must be debit or credit")
	ErrUnbalanced       = errors.New("batch debits and credits do not balance")
)

// ErrDateAlreadyClosed signals that a closing record already exists for the
// date. Storage raises it on the unique(date_key) constraint; the closer
// treats it as "a racing close won", not a failure.
var ErrDateAlreadyClosed = errors.New("ledger batch already exists for date")
