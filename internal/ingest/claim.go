package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const claimPrefix = ".claimed-"

// ErrAlreadyClaimed is returned when another worker claimed the file first.
var ErrAlreadyClaimed = errors.New("file already claimed")

// Claim is exclusive ownership of one input file.
// The file is renamed inside the input directory to a hidden name carrying
// the correlation id, so no other poller lists it while it is processed.
type Claim struct {
	Name          string
	Path          string
	CorrelationID string
}

func claimFile(inputDir, name string) (*Claim, error) {
	id := uuid.New().String()
	claimed := filepath.Join(inputDir, claimPrefix+id+"-"+name)

	if err := os.Rename(filepath.Join(inputDir, name), claimed); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrAlreadyClaimed
		}
		return nil, fmt.Errorf("failed to claim %s: %w", name, err)
	}

	return &Claim{
		Name:          name,
		Path:          claimed,
		CorrelationID: id,
	}, nil
}

// isClaim reports whether name is a claim made by claimFile. A user file that
// merely starts with the claim prefix is not one.
func isClaim(name string) bool {
	_, ok := unclaimedName(name)
	return ok
}

// unclaimedName recovers the original file name from a claim name.
func unclaimedName(name string) (string, bool) {
	rest, ok := strings.CutPrefix(name, claimPrefix)
	if !ok || len(rest) < 38 || rest[36] != '-' {
		return "", false
	}
	if _, err := uuid.Parse(rest[:36]); err != nil {
		return "", false
	}
	return rest[37:], true
}

// RecoverClaims renames claims left behind by an interrupted process back to
// their original names so they are picked up again. A claim whose original
// name is taken by a newer file is left in place. Returns the number restored.
func RecoverClaims(inputDir string) (int, error) {
	entries, err := os.ReadDir(inputDir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to list %s: %w", inputDir, err)
	}

	restored := 0
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		original, ok := unclaimedName(e.Name())
		if !ok {
			continue
		}

		target := filepath.Join(inputDir, original)
		if _, err := os.Lstat(target); err == nil {
			continue
		}
		if err := os.Rename(filepath.Join(inputDir, e.Name()), target); err != nil {
			return restored, fmt.Errorf("failed to restore %s: %w", original, err)
		}
		restored++
	}
	return restored, nil
}
