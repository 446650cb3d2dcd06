// Package ingest loads course descriptions and split data into the
// store from local files.
package ingest

import (
	"log/slog"

	"github.com/google/uuid"

	"ultrasmart/internal/store"
)

// Importer writes imported course and split data to the store
type Importer struct {
	store *store.DB
	log   *slog.Logger
}

// NewImporter creates a new importer
func NewImporter(db *store.DB, log *slog.Logger) *Importer {
	if log == nil {
		log = slog.Default()
	}
	return &Importer{store: db, log: log}
}

// CourseImport summarizes one course file import
type CourseImport struct {
	RunID       string
	RaceID      int64
	AidStations int
	Segments    int
	TrackPoints int
}

// SplitsImport summarizes one splits file import
type SplitsImport struct {
	RunID   string
	RaceID  int64
	Runners int
	Splits  int
	Skipped int
}

// recordRun appends to the import audit log. Audit failures are logged
// rather than failing an import that already committed its data.
func (im *Importer) recordRun(kind, source string, raceID int64, records int) string {
	run := &store.ImportRun{
		ID:      uuid.New().String(),
		Kind:    kind,
		Source:  source,
		RaceID:  raceID,
		Records: records,
	}
	if err := im.store.RecordImportRun(run); err != nil {
		im.log.Warn("recording import run", "kind", kind, "error", err)
	}
	return run.ID
}
