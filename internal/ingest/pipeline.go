package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/ndewijer/finance-ingest/internal/apperrors"
	"github.com/ndewijer/finance-ingest/internal/model"
	"github.com/ndewijer/finance-ingest/internal/service"
	"github.com/ndewijer/finance-ingest/internal/validation"
)

// Persister stores valid records. service.TransactionService implements it.
type Persister interface {
	Persist(ctx context.Context, rec model.TransactionRecord) (service.PersistStatus, error)
	PersistBatch(ctx context.Context, records []model.TransactionRecord) (service.BatchResult, error)
}

// ValidationError reports the first record of a batch that broke a field rule.
type ValidationError struct {
	Index      int
	GUID       string
	Violations []validation.Violation
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: record %d (guid %q): %s", apperrors.ErrValidation, e.Index, e.GUID, validation.Join(e.Violations))
}

func (e *ValidationError) Unwrap() error {
	return apperrors.ErrValidation
}

// Result is what processing one file produced.
// Inserted and Duplicates count the records that are stored after processing,
// which in per-record mode includes records committed before a failure.
type Result struct {
	Outcome    Outcome
	Err        error
	Records    int
	Inserted   int
	Duplicates int
}

// Pipeline runs parse, validate and persist for one file.
//
// In atomic mode every record is validated before anything is written and the
// batch is persisted in one database transaction, so a failing file leaves
// the store untouched. Otherwise records are validated and committed one at a
// time and records before the first failure stay stored.
type Pipeline struct {
	persister Persister
	atomic    bool
}

// NewPipeline creates a Pipeline over persister.
func NewPipeline(persister Persister, atomic bool) *Pipeline {
	return &Pipeline{
		persister: persister,
		atomic:    atomic,
	}
}

// Process classifies one file by name and content. It never touches the file system.
func (p *Pipeline) Process(ctx context.Context, fileName string, data []byte) Result {
	if !IsJSONFileName(fileName) {
		return Result{
			Outcome: OutcomeNonJSONFilename,
			Err:     fmt.Errorf("%w: %s", apperrors.ErrNonJSONFilename, fileName),
		}
	}

	batch, err := ParseBatch(data)
	if err != nil {
		return Result{Outcome: OutcomeParseError, Err: err}
	}

	result := Result{Outcome: OutcomeSuccess, Records: len(batch)}
	if len(batch) == 0 {
		return result
	}

	if p.atomic {
		err = p.persistAtomic(ctx, batch, &result)
	} else {
		err = p.persistEach(ctx, batch, &result)
	}
	if err != nil {
		result.Err = err
		result.Outcome = classify(err)
	}
	return result
}

func (p *Pipeline) persistAtomic(ctx context.Context, batch Batch, result *Result) error {
	for i, rec := range batch {
		if err := validateRecord(i, rec); err != nil {
			return err
		}
	}

	br, err := p.persister.PersistBatch(ctx, batch)
	if err != nil {
		return err
	}
	result.Inserted = br.Inserted
	result.Duplicates = br.Duplicates
	return nil
}

func (p *Pipeline) persistEach(ctx context.Context, batch Batch, result *Result) error {
	for i, rec := range batch {
		if err := validateRecord(i, rec); err != nil {
			return err
		}

		status, err := p.persister.Persist(ctx, rec)
		if err != nil {
			return fmt.Errorf("record %d (guid %s): %w", i, rec.GUID, err)
		}
		switch status {
		case service.StatusInserted:
			result.Inserted++
		case service.StatusDuplicate:
			result.Duplicates++
		}
	}
	return nil
}

func validateRecord(index int, rec model.TransactionRecord) error {
	if violations := validation.ValidateTransaction(rec); len(violations) > 0 {
		return &ValidationError{
			Index:      index,
			GUID:       rec.GUID,
			Violations: violations,
		}
	}
	return nil
}

func classify(err error) Outcome {
	switch {
	case errors.Is(err, apperrors.ErrNonJSONFilename):
		return OutcomeNonJSONFilename
	case errors.Is(err, apperrors.ErrParse):
		return OutcomeParseError
	case errors.Is(err, apperrors.ErrValidation):
		return OutcomeValidationError
	default:
		return OutcomePersistenceError
	}
}
