package request

import (
	"fmt"
	"strings"

	"github.com/ndewijer/finance-ingest/internal/model"
)

// ParseTransactionState extracts and validates the optional state filter.
// An empty parameter means no filter and yields an empty state.
func ParseTransactionState(stateParam string) (model.TransactionState, error) {
	state := model.TransactionState(strings.TrimSpace(strings.ToLower(stateParam)))
	if state == "" {
		return "", nil
	}
	if !model.ValidTransactionStates[state] {
		return "", fmt.Errorf("invalid transaction state: %s", stateParam)
	}
	return state, nil
}
