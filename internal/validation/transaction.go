package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/finance-ingest/internal/apperrors"
	"github.com/ndewijer/finance-ingest/internal/model"
)

var (
	guidPattern             = regexp.MustCompile(`^[a-z0-9]{8}-[a-z0-9]{4}-[a-z0-9]{4}-[a-z0-9]{4}-[a-z0-9]{12}$`)
	accountNameOwnerPattern = regexp.MustCompile(`^[a-z-]+_[a-z]+$`)
	categoryPattern         = regexp.MustCompile(`^[a-z0-9_]*$`)
)

// Field limits for a transaction record.
const (
	AccountNameOwnerMin = 3
	AccountNameOwnerMax = 40
	DescriptionMax      = 75
	CategoryMax         = 50
	NotesMax            = 100
	AmountScale         = 2
	AmountIntegerDigits = 8
)

// MinTransactionDate is the earliest transaction date accepted.
var MinTransactionDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

var amountIntegerLimit = decimal.New(1, AmountIntegerDigits)

// rule checks one field and returns a message when the field is invalid.
type rule struct {
	field string
	check func(model.TransactionRecord) string
}

var transactionRules = []rule{
	{"guid", checkGUID},
	{"accountNameOwner", checkAccountNameOwner},
	{"accountType", checkAccountType},
	{"description", checkDescription},
	{"category", checkCategory},
	{"amount", checkAmount},
	{"transactionDate", checkTransactionDate},
	{"transactionState", checkTransactionState},
	{"notes", checkNotes},
}

// ValidateTransaction checks a parsed record against the field rules and returns
// one violation per invalid field, in field order. A nil result means the record
// is valid. Pure: no I/O.
func ValidateTransaction(rec model.TransactionRecord) []Violation {
	var violations []Violation
	for _, r := range transactionRules {
		if msg := r.check(rec); msg != "" {
			violations = append(violations, Violation{Field: r.field, Message: msg})
		}
	}
	return violations
}

func checkGUID(rec model.TransactionRecord) string {
	if strings.TrimSpace(rec.GUID) == "" {
		return "guid is required"
	}
	if !guidPattern.MatchString(rec.GUID) || ValidateUUID(rec.GUID) != nil {
		return fmt.Sprintf("must be a lowercase uuid, got %q", rec.GUID)
	}
	return ""
}

func checkAccountNameOwner(rec model.TransactionRecord) string {
	name := rec.AccountNameOwner
	if name == "" {
		return "accountNameOwner is required"
	}
	if n := length(name); n < AccountNameOwnerMin || n > AccountNameOwnerMax {
		return fmt.Sprintf("size must be between %d and %d", AccountNameOwnerMin, AccountNameOwnerMax)
	}
	if !accountNameOwnerPattern.MatchString(name) {
		return "must be lowercase words joined by an underscore, e.g. chase_brian"
	}
	return ""
}

// ValidateAccountNameOwner applies the accountNameOwner field rules to a bare name,
// as received in a URL path.
func ValidateAccountNameOwner(name string) error {
	if msg := checkAccountNameOwner(model.TransactionRecord{AccountNameOwner: name}); msg != "" {
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidAccountNameOwner, msg)
	}
	return nil
}

func checkAccountType(rec model.TransactionRecord) string {
	if rec.AccountType == "" {
		return "accountType is required"
	}
	if !model.ValidAccountTypes[rec.AccountType] {
		return fmt.Sprintf("invalid type: %s", rec.AccountType)
	}
	return ""
}

func checkDescription(rec model.TransactionRecord) string {
	if n := length(rec.Description); n < 1 || n > DescriptionMax {
		return fmt.Sprintf("size must be between 1 and %d", DescriptionMax)
	}
	if !isASCII(rec.Description) {
		return "must contain only ascii characters"
	}
	return ""
}

func checkCategory(rec model.TransactionRecord) string {
	if length(rec.Category) > CategoryMax {
		return fmt.Sprintf("size must be between 0 and %d", CategoryMax)
	}
	if !categoryPattern.MatchString(rec.Category) {
		return "must be lowercase letters, digits or underscores"
	}
	return ""
}

func checkAmount(rec model.TransactionRecord) string {
	if !rec.Amount.Valid {
		return "amount is required"
	}
	a := rec.Amount.Decimal
	if !a.Equal(a.Truncate(AmountScale)) {
		return fmt.Sprintf("must have at most %d fractional digits", AmountScale)
	}
	if a.Abs().GreaterThanOrEqual(amountIntegerLimit) {
		return fmt.Sprintf("must have at most %d integer digits", AmountIntegerDigits)
	}
	return ""
}

func checkTransactionDate(rec model.TransactionRecord) string {
	if strings.TrimSpace(rec.TransactionDate) == "" {
		return "transactionDate is required"
	}
	d, err := time.Parse("2006-01-02", rec.TransactionDate)
	if err != nil {
		return fmt.Sprintf("must be a date in YYYY-MM-DD format, got %q", rec.TransactionDate)
	}
	if d.Before(MinTransactionDate) {
		return "must be on or after " + MinTransactionDate.Format("2006-01-02")
	}
	return ""
}

func checkTransactionState(rec model.TransactionRecord) string {
	if rec.TransactionState == "" {
		return "transactionState is required"
	}
	if !model.ValidTransactionStates[rec.TransactionState] {
		return fmt.Sprintf("invalid state: %s", rec.TransactionState)
	}
	return ""
}

func checkNotes(rec model.TransactionRecord) string {
	if length(rec.Notes) > NotesMax {
		return fmt.Sprintf("size must be between 0 and %d", NotesMax)
	}
	if !isASCII(rec.Notes) {
		return "must contain only ascii characters"
	}
	return ""
}
