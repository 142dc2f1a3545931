package mmodel

import "time"

// AccountType enumerates the kinds of ledger accounts the core knows
// about (spec.md §3).
type AccountType string

const (
	AccountTypeWallet             AccountType = "WALLET"
	AccountTypeCashFloat          AccountType = "CASH_FLOAT"
	AccountTypeFeeRevenue         AccountType = "FEE_REVENUE"
	AccountTypeCommissionPayable  AccountType = "COMMISSION_PAYABLE"
	AccountTypeSuspense           AccountType = "SUSPENSE"
	AccountTypeBankClearing       AccountType = "BANK_CLEARING"
)

// Account identifies a ledger participant. Accounts are never deleted.
type Account struct {
	AccountID      string      `json:"account_id"`
	OwnerType      string      `json:"owner_type"`
	OwnerID        string      `json:"owner_id"`
	AccountType    AccountType `json:"account_type"`
	Currency       string      `json:"currency"`
	MetadataID     *string     `json:"metadata_id,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
}
