package ingest

import (
	"errors"
	"testing"

	"github.com/ndewijer/finance-ingest/internal/apperrors"
	"github.com/ndewijer/finance-ingest/internal/model"
)

func TestParseBatch(t *testing.T) {
	t.Run("decodes records in file order", func(t *testing.T) {
		data := []byte(`[
			{"guid": "a", "accountNameOwner": "foo_brian", "amount": 12.5, "transactionState": "cleared"},
			{"guid": "b", "accountNameOwner": "foo_brian", "amount": "-3.10", "unknownField": {"x": 1}}
		]`)

		batch, err := ParseBatch(data)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(batch) != 2 {
			t.Fatalf("Expected 2 records, got %d", len(batch))
		}
		if batch[0].GUID != "a" || batch[1].GUID != "b" {
			t.Errorf("Expected order [a b], got [%s %s]", batch[0].GUID, batch[1].GUID)
		}
		if batch[0].Amount.Decimal.String() != "12.5" {
			t.Errorf("Expected amount 12.5, got %s", batch[0].Amount.Decimal)
		}
		if batch[1].Amount.Decimal.String() != "-3.1" {
			t.Errorf("Expected amount -3.1, got %s", batch[1].Amount.Decimal)
		}
		if batch[0].TransactionState != model.TransactionStateCleared {
			t.Errorf("Expected state cleared, got %s", batch[0].TransactionState)
		}
		if !batch[1].IsActive() {
			t.Error("Expected activeStatus to default to true")
		}
	})

	t.Run("empty array is an empty batch", func(t *testing.T) {
		batch, err := ParseBatch([]byte(" [ ] \n"))
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(batch) != 0 {
			t.Errorf("Expected 0 records, got %d", len(batch))
		}
	})

	t.Run("accepts a leading byte order mark", func(t *testing.T) {
		data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(`[{"guid":"a"}]`)...)
		batch, err := ParseBatch(data)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(batch) != 1 {
			t.Errorf("Expected 1 record, got %d", len(batch))
		}
	})

	failures := []struct {
		name string
		data string
	}{
		{"empty file", ""},
		{"plain text", "not valid json"},
		{"json string", `"not valid json"`},
		{"object instead of array", `{"guid": "a"}`},
		{"null", "null"},
		{"truncated array", `[{"guid": "a"}`},
		{"number element", `[1]`},
		{"null element", `[null]`},
		{"nested array element", `[[{"guid": "a"}]]`},
		{"wrong type for string field", `[{"guid": 42}]`},
		{"wrong type for amount", `[{"amount": true}]`},
		{"trailing garbage", `[] []`},
	}

	for _, tc := range failures {
		t.Run("rejects "+tc.name, func(t *testing.T) {
			batch, err := ParseBatch([]byte(tc.data))
			if err == nil {
				t.Fatalf("Expected error, got batch of %d", len(batch))
			}
			if !errors.Is(err, apperrors.ErrParse) {
				t.Errorf("Expected ErrParse, got %v", err)
			}
		})
	}
}
