package ingest

// Outcome is the terminal classification of one batch file.
type Outcome string

const (
	OutcomeSuccess          Outcome = "success"
	OutcomeNonJSONFilename  Outcome = "non_json_filename"
	OutcomeParseError       Outcome = "parse_error"
	OutcomeValidationError  Outcome = "validation_error"
	OutcomePersistenceError Outcome = "persistence_error"
)

// Outcomes lists every outcome in routing order.
var Outcomes = []Outcome{
	OutcomeSuccess,
	OutcomeNonJSONFilename,
	OutcomeParseError,
	OutcomeValidationError,
	OutcomePersistenceError,
}

func (o Outcome) String() string {
	return string(o)
}
