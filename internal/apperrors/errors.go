package apperrors

import "errors"

// Domain entity errors represent missing entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrTransactionNotFound indicates that a transaction with the given guid does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrAccountNotFound indicates that an account with the given name does not exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrCategoryNotFound indicates that a category with the given name does not exist.
	ErrCategoryNotFound = errors.New("category not found")
)

// Ingestion errors classify why a batch file ended in a quarantine directory.
// Every failure returned by the pipeline wraps exactly one of them.
var (
	// ErrNonJSONFilename indicates that the file name does not end in .json.
	// Detected before the payload is read.
	ErrNonJSONFilename = errors.New("file name is not a json file")

	// ErrParse indicates that the payload is not a JSON array of transaction objects.
	ErrParse = errors.New("failed to parse batch file")

	// ErrValidation indicates that a record broke one or more field rules.
	ErrValidation = errors.New("transaction validation failed")

	// ErrPersistence indicates that a lookaside or transaction store operation failed.
	ErrPersistence = errors.New("failed to persist transaction")
)

// Business logic errors represent validation failures or constraint violations.
var (
	// ErrInvalidUUID indicates that a provided guid is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrInvalidAccountNameOwner indicates that an account name does not follow the owner naming rules.
	ErrInvalidAccountNameOwner = errors.New("invalid account name owner")

	// ErrMissingRequiredField indicates that a required field is missing or empty.
	ErrMissingRequiredField = errors.New("missing required field")
)

// Operation failure errors represent system-level failures when retrieving data.
var (
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")
	ErrFailedToRetrieveTransaction  = errors.New("failed to retrieve transaction")
	ErrFailedToRetrieveTotals       = errors.New("failed to retrieve account totals")
	ErrFailedToRetrieveAccounts     = errors.New("failed to retrieve accounts")
	ErrFailedToRetrieveCategories   = errors.New("failed to retrieve categories")

	// System operation errors
	ErrFailedToGetVersionInfo = errors.New("failed to get version information")
)
