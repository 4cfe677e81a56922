// Package reports implements the report-archive collaborator: a per-pet log
// of status entries plus an on-disk directory of report artifacts (PDFs).
//
// The archive is produced out-of-band by grooming/boarding staff tooling;
// the assistant only reads it. An absent index file or artifact directory
// behaves as an empty archive.
package reports

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Entry is one status report for a pet.
type Entry struct {
	Message    string `json:"message"`
	Service    string `json:"service"`
	StatusType string `json:"statusType"`
}

// Archive resolves report entries and artifact files by pet name. Lookups
// are case-insensitive on the pet name.
type Archive struct {
	dir     string
	entries map[string][]Entry
}

// indexFile is the per-pet entry log inside the archive directory.
const indexFile = "reports.json"

// Open loads the archive rooted at dir. A missing directory or index file
// yields an empty archive, not an error.
func Open(dir string) (*Archive, error) {
	a := &Archive{dir: dir, entries: make(map[string][]Entry)}

	raw, err := os.ReadFile(filepath.Join(dir, indexFile))
	if errors.Is(err, os.ErrNotExist) {
		return a, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read report index: %w", err)
	}

	byPet := make(map[string][]Entry)
	if err := json.Unmarshal(raw, &byPet); err != nil {
		return nil, fmt.Errorf("parse report index: %w", err)
	}
	for pet, es := range byPet {
		a.entries[normalize(pet)] = es
	}
	return a, nil
}

// Latest returns the most recent entry for a pet, or false when the pet has
// no entries.
func (a *Archive) Latest(petName string) (Entry, bool) {
	es := a.entries[normalize(petName)]
	if len(es) == 0 {
		return Entry{}, false
	}
	return es[len(es)-1], true
}

// ArtifactPath returns the on-disk report file for a pet when one exists.
func (a *Archive) ArtifactPath(petName string) (string, bool) {
	name := strings.TrimSpace(petName)
	if name == "" {
		return "", false
	}
	path := filepath.Join(a.dir, name+".pdf")
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

func normalize(petName string) string {
	return strings.ToLower(strings.TrimSpace(petName))
}
