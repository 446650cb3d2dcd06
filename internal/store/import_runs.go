package store

import "time"

// RecordImportRun stores one row in the import audit log
func (db *DB) RecordImportRun(run *ImportRun) error {
	_, err := db.Exec(`
		INSERT INTO import_runs (id, kind, source, race_id, records)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, run.Kind, run.Source, run.RaceID, run.Records)
	return err
}

// ImportRuns retrieves the import audit log for a race, newest first
func (db *DB) ImportRuns(raceID int64) ([]ImportRun, error) {
	rows, err := db.Query(`
		SELECT id, kind, source, race_id, records, created_at
		FROM import_runs
		WHERE race_id = ?
		ORDER BY created_at DESC
	`, raceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []ImportRun
	for rows.Next() {
		var r ImportRun
		var source *string
		var createdAt string
		if err := rows.Scan(&r.ID, &r.Kind, &source, &r.RaceID, &r.Records, &createdAt); err != nil {
			return nil, err
		}
		if source != nil {
			r.Source = *source
		}
		if t, err := time.Parse("2006-01-02 15:04:05", createdAt); err == nil {
			r.CreatedAt = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
