package domain

import "github.com/google/uuid"

// Idempotency key builders for system-generated postings. Caller-supplied
// keys (sales, cashouts) arrive through the request layer unchanged.

// BuildSettlementKey derives the D+1 release key: one per (seller, date),
// so re-running the job for an already-processed day is a no-op per seller.
func BuildSettlementKey(sellerRef uuid.UUID, dateKey string) string {
	return "settlement:d1:" + sellerRef.String() + ":" + dateKey
}

// BuildSaleKey derives the posting key for a sale transaction.
func BuildSaleKey(transactionRef string) string {
	return "sale:" + transactionRef
}

// BuildCashoutKey derives the posting key for a cashout transaction.
func BuildCashoutKey(cashoutID uuid.UUID) string {
	return "cashout:" + cashoutID.String()
}
