package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Directory names below the base path.
const (
	InputDirName       = "json_in"
	ProcessedDirName   = ".processed-successfully"
	NonJSONDirName     = ".not-processed-non-json-file"
	ParseErrorsDirName = ".not-processed-json-parsing-errors"
	FailedDirName      = ".not-processed-failed-with-errors"
)

// Dirs holds the watched input directory and the four terminal directories.
type Dirs struct {
	Input       string
	Processed   string
	NonJSON     string
	ParseErrors string
	Failed      string
}

// DirsFromBase lays out the directories under base: the input directory is
// base/json_in and the terminal directories are hidden directories inside it.
func DirsFromBase(base string) Dirs {
	input := filepath.Join(base, InputDirName)
	return Dirs{
		Input:       input,
		Processed:   filepath.Join(input, ProcessedDirName),
		NonJSON:     filepath.Join(input, NonJSONDirName),
		ParseErrors: filepath.Join(input, ParseErrorsDirName),
		Failed:      filepath.Join(input, FailedDirName),
	}
}

// Terminal returns the four terminal directories.
func (d Dirs) Terminal() []string {
	return []string{d.Processed, d.NonJSON, d.ParseErrors, d.Failed}
}

// IsJSONFileName reports whether name ends in ".json", ignoring case.
func IsJSONFileName(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".json")
}

// Router maps a file and its outcome to a terminal location and performs the move.
type Router struct {
	dirs Dirs
}

// NewRouter creates a Router over dirs.
func NewRouter(dirs Dirs) *Router {
	return &Router{dirs: dirs}
}

// Dirs returns the directory layout the router works on.
func (r *Router) Dirs() Dirs {
	return r.dirs
}

// EnsureDirectories creates the input and terminal directories if they don't exist.
func (r *Router) EnsureDirectories() error {
	for _, dir := range append([]string{r.dirs.Input}, r.dirs.Terminal()...) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Directory returns the terminal directory for fileName and outcome.
// A name without a .json extension always goes to the non-json directory.
func (r *Router) Directory(fileName string, outcome Outcome) string {
	if !IsJSONFileName(fileName) {
		return r.dirs.NonJSON
	}
	switch outcome {
	case OutcomeSuccess:
		return r.dirs.Processed
	case OutcomeNonJSONFilename:
		return r.dirs.NonJSON
	case OutcomeParseError:
		return r.dirs.ParseErrors
	default:
		return r.dirs.Failed
	}
}

// Destination returns the full path the original file is moved to.
// The correlation id prefix keeps resubmissions of the same name apart.
func (r *Router) Destination(correlationID, fileName string, outcome Outcome) string {
	return filepath.Join(r.Directory(fileName, outcome), correlationID+"-"+fileName)
}

// ConfirmationPath returns where the success confirmation for a file is written.
func (r *Router) ConfirmationPath(correlationID, fileName string) string {
	stem := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	return filepath.Join(r.dirs.Processed, correlationID+"-"+stem+".confirmation.json")
}

// Route moves the claimed file to its terminal location.
// On success the confirmation is written first and the original archived
// after it, so a processed file always has its confirmation next to it.
// Returns the destination of the original and, on success, the confirmation path.
func (r *Router) Route(claim *Claim, outcome Outcome, conf *Confirmation) (string, string, error) {
	dest := r.Destination(claim.CorrelationID, claim.Name, outcome)

	var confPath string
	if outcome == OutcomeSuccess && conf != nil {
		data, err := json.MarshalIndent(conf, "", "  ")
		if err != nil {
			return "", "", fmt.Errorf("failed to encode confirmation: %w", err)
		}
		confPath = r.ConfirmationPath(claim.CorrelationID, claim.Name)
		if err := writeFileAtomic(confPath, data); err != nil {
			return "", "", fmt.Errorf("failed to write confirmation: %w", err)
		}
	}

	if err := moveFile(claim.Path, dest); err != nil {
		return "", confPath, fmt.Errorf("failed to route %s: %w", claim.Name, err)
	}
	return dest, confPath, nil
}
