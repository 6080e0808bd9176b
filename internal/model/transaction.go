package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionState is the clearing state of a transaction.
type TransactionState string

// Transaction states accepted on the wire.
const (
	TransactionStateCleared     TransactionState = "cleared"
	TransactionStateOutstanding TransactionState = "outstanding"
	TransactionStateFuture      TransactionState = "future"
	TransactionStateUndefined   TransactionState = "undefined"
)

// ValidTransactionStates contains the allowed transaction state values.
var ValidTransactionStates = map[TransactionState]bool{
	TransactionStateCleared:     true,
	TransactionStateOutstanding: true,
	TransactionStateFuture:      true,
	TransactionStateUndefined:   true,
}

// TransactionRecord is one entry of a batch file, exactly as it arrives on the wire.
// Date and enum fields are kept as strings so that a malformed value is reported
// as a field violation rather than a parse failure of the whole file. Amount is
// nullable so that a missing or null amount is told apart from 0.00.
type TransactionRecord struct {
	GUID             string              `json:"guid"`
	AccountNameOwner string              `json:"accountNameOwner"`
	AccountType      AccountType         `json:"accountType"`
	Description      string              `json:"description"`
	Category         string              `json:"category"`
	Amount           decimal.NullDecimal `json:"amount"`
	TransactionDate  string              `json:"transactionDate"`
	TransactionState TransactionState    `json:"transactionState"`
	Notes            string              `json:"notes,omitempty"`
	ActiveStatus     *bool               `json:"activeStatus,omitempty"`
	Reoccurring      bool                `json:"reoccurring,omitempty"`
}

// IsActive reports the record's active status, defaulting to true when absent.
func (r TransactionRecord) IsActive() bool {
	if r.ActiveStatus == nil {
		return true
	}
	return *r.ActiveStatus
}

// Transaction represents a stored transaction row.
type Transaction struct {
	TransactionID    int64            `json:"transactionId"`
	GUID             string           `json:"guid"`
	AccountID        int64            `json:"accountId"`
	AccountNameOwner string           `json:"accountNameOwner"`
	AccountType      AccountType      `json:"accountType"`
	Description      string           `json:"description"`
	Category         string           `json:"category"`
	Amount           decimal.Decimal  `json:"amount"`
	TransactionDate  time.Time        `json:"transactionDate"`
	TransactionState TransactionState `json:"transactionState"`
	Notes            string           `json:"notes"`
	ActiveStatus     bool             `json:"activeStatus"`
	Reoccurring      bool             `json:"reoccurring"`
	DateAdded        time.Time        `json:"dateAdded"`
	DateUpdated      time.Time        `json:"dateUpdated"`
}

// AccountTotals sums the transaction amounts of one account per clearing state.
type AccountTotals struct {
	AccountNameOwner  string          `json:"accountNameOwner"`
	TotalsCleared     decimal.Decimal `json:"totalsCleared"`
	TotalsOutstanding decimal.Decimal `json:"totalsOutstanding"`
	TotalsFuture      decimal.Decimal `json:"totalsFuture"`
	Totals            decimal.Decimal `json:"totals"`
}
