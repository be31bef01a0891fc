package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryType is the side of a double-entry posting.
type EntryType string

const (
	EntryTypeDebit  EntryType = "debit"
	EntryTypeCredit EntryType = "credit"
)

// LedgerEntry is one immutable posting inside a balanced batch. Entries are
// append-only: they are written exactly once by the poster and never
// mutated or deleted afterwards.
type LedgerEntry struct {
	BatchID        uuid.UUID       `json:"batch_id"`
	Sequence       int             `json:"sequence"`
	TransactionRef string          `json:"transaction_ref"`
	SellerRef      *uuid.UUID      `json:"seller_ref,omitempty"`
	Account        Account         `json:"account"`
	Type           EntryType       `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	IdempotencyKey string          `json:"idempotency_key"`
	SideHash       string          `json:"side_hash"`
	SourceSystem   string          `json:"source_system"`
	SourceDetail   string          `json:"source_detail"`
	CreatedAt      time.Time       `json:"created_at"`
	EventAt        time.Time       `json:"event_at"`
}

// PostingIntent is one proposed posting before it is validated and chained
// into a batch.
type PostingIntent struct {
	Account Account
	Type    EntryType
	Amount  decimal.Decimal
}

// PostContext carries the batch-level attributes of a posting request.
type PostContext struct {
	IdempotencyKey string
	TransactionRef string
	SellerRef      *uuid.UUID
	SourceSystem   string
	SourceDetail   string
	Currency       string
	EventAt        *time.Time
}

// ChainHash computes the running side hash for one posting:
// H(prev || account || type || amount || currency). The amount contributes
// its fixed two-decimal representation so equal amounts always hash equally.
func ChainHash(prev string, account Account, typ EntryType, amount decimal.Decimal, currency string) string {
	h := sha256.New()
	h.Write([]byte(prev))
	h.Write([]byte(account))
	h.Write([]byte(typ))
	h.Write([]byte(amount.StringFixed(2)))
	h.Write([]byte(currency))
	return hex.EncodeToString(h.Sum(nil))
}

// BuildEntries turns an ordered, validated intent list into chained ledger
// entries for a new batch. Sequence and side hash are functions of the
// order, which must therefore be preserved exactly as given.
func BuildEntries(batchID uuid.UUID, intents []PostingIntent, pctx PostContext, now time.Time) []LedgerEntry {
	eventAt := now
	if pctx.EventAt != nil {
		eventAt = *pctx.EventAt
	}

	entries := make([]LedgerEntry, 0, len(intents))
	prev := ""
	for i, in := range intents {
		hash := ChainHash(prev, in.Account, in.Type, in.Amount, pctx.Currency)
		entries = append(entries, LedgerEntry{
			BatchID:        batchID,
			Sequence:       i,
			TransactionRef: pctx.TransactionRef,
			SellerRef:      pctx.SellerRef,
			Account:        in.Account,
			Type:           in.Type,
			Amount:         Round2(in.Amount),
			Currency:       pctx.Currency,
			IdempotencyKey: pctx.IdempotencyKey,
			SideHash:       hash,
			SourceSystem:   pctx.SourceSystem,
			SourceDetail:   pctx.SourceDetail,
			CreatedAt:      now,
			EventAt:        eventAt,
		})
		prev = hash
	}
	return entries
}

// ValidateIntents enforces the batch preconditions: at least two postings,
// non-negative amounts, valid accounts and the double-entry invariant
// round2(Σdebit) == round2(Σcredit).
func ValidateIntents(intents []PostingIntent) error {
	if len(intents) < 2 {
		return ErrBatchSize
	}

	debit := decimal.Zero
	credit := decimal.Zero
	for _, in := range intents {
		if in.Amount.IsNegative() {
			return ErrNegativeAmount
		}
		if !in.Account.Valid() {
			return ErrInvalidAccount
		}
		switch in.Type {
		case EntryTypeDebit:
			debit = debit.Add(in.Amount)
		case EntryTypeCredit:
			credit = credit.Add(in.Amount)
		default:
			return ErrInvalidEntryType
		}
	}

	if !Round2(debit).Equal(Round2(credit)) {
		return ErrUnbalanced
	}
	return nil
}

// VerifyChain re-derives the side hash over entries in sequence order and
// compares each step to the stored value. It returns the index of the first
// mismatch, or -1 when the whole chain verifies.
func VerifyChain(entries []LedgerEntry) int {
	prev := ""
	for i, e := range entries {
		expected := ChainHash(prev, e.Account, e.Type, e.Amount, e.Currency)
		if e.SideHash != expected {
			return i
		}
		prev = expected
	}
	return -1
}

// BatchTotals sums the debit and credit sides of a batch.
func BatchTotals(entries []LedgerEntry) (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, e := range entries {
		if e.Type == EntryTypeDebit {
			debit = debit.Add(e.Amount)
		} else {
			credit = credit.Add(e.Amount)
		}
	}
	return debit, credit
}
