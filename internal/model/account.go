package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies an account as credit or debit.
type AccountType string

// Account types accepted on the wire.
const (
	AccountTypeCredit    AccountType = "credit"
	AccountTypeDebit     AccountType = "debit"
	AccountTypeUndefined AccountType = "undefined"
)

// ValidAccountTypes contains the allowed account type values.
var ValidAccountTypes = map[AccountType]bool{
	AccountTypeCredit:    true,
	AccountTypeDebit:     true,
	AccountTypeUndefined: true,
}

// DefaultMoniker is assigned to accounts created on first reference.
const DefaultMoniker = "0000"

// Account is keyed by AccountNameOwner. Accounts referenced by an ingested
// transaction are created lazily with zero balances.
type Account struct {
	AccountID        int64           `json:"accountId"`
	AccountNameOwner string          `json:"accountNameOwner"`
	AccountType      AccountType     `json:"accountType"`
	ActiveStatus     bool            `json:"activeStatus"`
	Moniker          string          `json:"moniker"`
	Cleared          decimal.Decimal `json:"cleared"`
	Outstanding      decimal.Decimal `json:"outstanding"`
	Future           decimal.Decimal `json:"future"`
	DateAdded        time.Time       `json:"dateAdded"`
	DateUpdated      time.Time       `json:"dateUpdated"`
}

// Category is keyed by its name.
type Category struct {
	CategoryID   int64     `json:"categoryId"`
	Category     string    `json:"category"`
	ActiveStatus bool      `json:"activeStatus"`
	DateAdded    time.Time `json:"dateAdded"`
}
