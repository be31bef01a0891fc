package dto

// PostingEntry is one proposed posting inside a batch request.
type PostingEntry struct {
	Account string `json:"account" binding:"required,account_code"`
	Type    string `json:"type" binding:"required,oneof=debit credit"`
	Amount  string `json:"amount" binding:"required,money"`
}

// PostBatchRequest is the request body for posting a raw ledger batch.
type PostBatchRequest struct {
	IdempotencyKey string         `json:"idempotency_key" binding:"required,min=1,max=128"`
	TransactionRef string         `json:"transaction_ref" binding:"required,max=100"`
	SellerRef      *string        `json:"seller_ref,omitempty" binding:"omitempty,uuid"`
	SourceSystem   string         `json:"source_system" binding:"required,max=50"`
	SourceDetail   string         `json:"source_detail,omitempty" binding:"max=500"`
	Currency       string         `json:"currency" binding:"required,len=3"`
	EventAt        *string        `json:"event_at,omitempty"`
	Entries        []PostingEntry `json:"entries" binding:"required,min=2,dive"`
}

// PostBatchResponse is the outcome of a batch posting.
type PostBatchResponse struct {
	BatchID  string `json:"batch_id"`
	Replayed bool   `json:"replayed"`
	Entries  int    `json:"entries"`
}

// SaleCreateRequest is the request body for registering a sale.
type SaleCreateRequest struct {
	Amount      string `json:"amount" binding:"required,money"`
	Method      string `json:"method" binding:"required,oneof=card slip instant"`
	Description string `json:"description,omitempty" binding:"max=500"`
	ProductRef  string `json:"product_ref,omitempty" binding:"max=100"`
	SellerRef   string `json:"seller_ref" binding:"required,uuid"`
}

// SaleCreateResponse is the ledger outcome of a sale.
type SaleCreateResponse struct {
	TransactionRef  string  `json:"transaction_ref"`
	BatchID         string  `json:"batch_id"`
	NetAmount       string  `json:"net_amount"`
	ReserveAmount   string  `json:"reserve_amount"`
	RetainedAmount  *string `json:"retained_amount,omitempty"`
	RetainedPercent *string `json:"retained_percent,omitempty"`
	AvailableIn     *string `json:"available_in,omitempty"`
}

// CashoutCreateRequest is the request body for a cashout.
type CashoutCreateRequest struct {
	Amount         string  `json:"amount" binding:"required,money"`
	BankAccountRef *string `json:"bank_account_ref,omitempty" binding:"omitempty,max=100"`
}

// CashoutDecisionRequest carries a manual approve/reject.
type CashoutDecisionRequest struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason,omitempty" binding:"max=500"`
}

// CashoutResponse is the API view of a cashout request.
type CashoutResponse struct {
	ID             string  `json:"id"`
	SellerRef      string  `json:"seller_ref"`
	Amount         string  `json:"amount"`
	Status         string  `json:"status"`
	BankAccountRef *string `json:"bank_account_ref,omitempty"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

// AccountBalanceResponse is one account's balance for a seller or globally.
type AccountBalanceResponse struct {
	Account string `json:"account"`
	Balance string `json:"balance"`
}

// TrialBalanceRowResponse is one row of the trial balance report.
type TrialBalanceRowResponse struct {
	Account string `json:"account"`
	Debit   string `json:"debit"`
	Credit  string `json:"credit"`
	Balance string `json:"balance"`
}

// TrialBalanceResponse is the trial balance over a date range.
type TrialBalanceResponse struct {
	From        string                    `json:"from"`
	To          string                    `json:"to"`
	Rows        []TrialBalanceRowResponse `json:"rows"`
	TotalDebit  string                    `json:"total_debit"`
	TotalCredit string                    `json:"total_credit"`
}

// WalletFundResponse is one pending retention hold.
type WalletFundResponse struct {
	Amount      string `json:"amount"`
	OriginRef   string `json:"origin_ref"`
	AvailableIn string `json:"available_in"`
}

// WalletResponse is the seller-facing wallet view.
type WalletResponse struct {
	SellerRef        string               `json:"seller_ref"`
	AvailableBalance string               `json:"available_balance"`
	Currency         string               `json:"currency"`
	PendingFunds     []WalletFundResponse `json:"pending_funds"`
}

// DateKeyRequest triggers a batch job for one UTC day.
type DateKeyRequest struct {
	DateKey string `json:"date_key" binding:"required,date_key"`
}

// ReconcileFileRequest carries an inline external statement.
type ReconcileFileRequest struct {
	DateKey   string         `json:"date_key" binding:"required,date_key"`
	Statement []StatementRow `json:"statement" binding:"required,min=1,dive"`
}

// StatementRow is one line of the submitted external statement.
type StatementRow struct {
	Account string `json:"account" binding:"required,account_code"`
	Balance string `json:"balance" binding:"required,signed_money"`
}

// AuditEventResponse is the API view of one audit event.
type AuditEventResponse struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	DateKey   string `json:"date_key"`
	Detail    any    `json:"detail"`
	CreatedAt string `json:"created_at"`
}
