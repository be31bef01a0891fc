package domain

import (
	"fmt"
	"regexp"
)

// Account identifies a ledger account. The set of accounts is a closed
// enumeration: free-form strings are rejected so a typo can never silently
// open a new account. Extension accounts must carry the "x_" prefix and
// pass validation.
type Account string

const (
	// AccountCash mirrors money held at the acquirer/bank.
	AccountCash Account = "cash"
	// AccountSellerLiability is what the platform owes each seller.
	AccountSellerLiability Account = "seller_liability"
	// AccountRiskReserve holds the percentage reserved against chargebacks.
	AccountRiskReserve Account = "risk_reserve"
	// AccountRetentionHold holds seller proceeds until their maturity date.
	AccountRetentionHold Account = "retention_hold"
	// AccountFeeRevenue accumulates platform fees.
	AccountFeeRevenue Account = "fee_revenue"
)

var knownAccounts = map[Account]struct{}{
	AccountCash:            {},
	AccountSellerLiability: {},
	AccountRiskReserve:     {},
	AccountRetentionHold:   {},
	AccountFeeRevenue:      {},
}

var extensionAccountRe = regexp.MustCompile(`^x_[a-z][a-z0-9_]{1,47}$`)

// ParseAccount validates a raw account code. Known codes map to the closed
// enumeration; anything else is accepted only under the validated "x_"
// extension namespace.
func ParseAccount(code string) (Account, error) {
	a := Account(code)
	if _, ok := knownAccounts[a]; ok {
		return a, nil
	}
	if extensionAccountRe.MatchString(code) {
		return a, nil
	}
	return "", fmt.Errorf("unknown account code %q", code)
}

// Valid reports whether the account is a known or extension account.
func (a Account) Valid() bool {
	_, err := ParseAccount(string(a))
	return err == nil
}

// String implements fmt.Stringer.
func (a Account) String() string { return string(a) }
