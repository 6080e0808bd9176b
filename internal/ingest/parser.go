package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ndewijer/finance-ingest/internal/apperrors"
	"github.com/ndewijer/finance-ingest/internal/model"
)

// Batch is the ordered list of records parsed from one file.
// It lives only for the duration of processing that file.
type Batch []model.TransactionRecord

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseBatch decodes a batch file body.
//
// The body must be a JSON array whose elements are all objects. An empty array
// is a valid, empty batch. Unknown fields are ignored. Malformed JSON, any other
// top-level value, a non-object element or a field of the wrong JSON type is
// reported as an error wrapping apperrors.ErrParse.
func ParseBatch(data []byte) (Batch, error) {
	data = bytes.TrimSpace(bytes.TrimPrefix(data, utf8BOM))
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: malformed JSON", apperrors.ErrParse)
	}
	if len(data) == 0 || data[0] != '[' {
		return nil, fmt.Errorf("%w: top-level value is not an array", apperrors.ErrParse)
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrParse, err)
	}

	batch := make(Batch, 0, len(elements))
	for i, raw := range elements {
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '{' {
			return nil, fmt.Errorf("%w: element %d is not an object", apperrors.ErrParse, i)
		}

		var rec model.TransactionRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("%w: element %d: %w", apperrors.ErrParse, i, err)
		}
		batch = append(batch, rec)
	}

	return batch, nil
}
