package store

import (
	"database/sql"
	"errors"
)

// UpsertResult inserts or updates a race result by (race_id, runner_id)
// and returns its ID
func (db *DB) UpsertResult(r *RaceResult) (int64, error) {
	status := r.Status
	if status == "" {
		status = StatusFinished
	}

	_, err := db.Exec(`
		INSERT INTO race_results (
			race_id, runner_id, bib_number, finish_time_hours, finish_position,
			status, splits_available, strava_activity_id, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(race_id, runner_id) DO UPDATE SET
			bib_number = excluded.bib_number,
			finish_time_hours = excluded.finish_time_hours,
			finish_position = excluded.finish_position,
			status = excluded.status,
			splits_available = excluded.splits_available,
			strava_activity_id = excluded.strava_activity_id,
			updated_at = CURRENT_TIMESTAMP
	`,
		r.RaceID, r.RunnerID, r.BibNumber, r.FinishTimeHours, r.FinishPosition,
		status, boolToInt(r.SplitsAvailable), r.StravaActivityID,
	)
	if err != nil {
		return 0, err
	}

	var id int64
	err = db.QueryRow(`
		SELECT id FROM race_results WHERE race_id = ? AND runner_id = ?
	`, r.RaceID, r.RunnerID).Scan(&id)
	if err != nil {
		return 0, err
	}
	r.ID = id
	return id, nil
}

// GetResult retrieves the result for one runner in one race
func (db *DB) GetResult(raceID, runnerID int64) (*RaceResult, error) {
	row := db.QueryRow(`
		SELECT id, race_id, runner_id, bib_number, finish_time_hours,
			finish_position, status, splits_available, strava_activity_id
		FROM race_results
		WHERE race_id = ? AND runner_id = ?
	`, raceID, runnerID)
	return scanResult(row)
}

// ResultsForRace retrieves all results for a race ordered by runner ID
func (db *DB) ResultsForRace(raceID int64) ([]*RaceResult, error) {
	rows, err := db.Query(`
		SELECT id, race_id, runner_id, bib_number, finish_time_hours,
			finish_position, status, splits_available, strava_activity_id
		FROM race_results
		WHERE race_id = ?
		ORDER BY runner_id
	`, raceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*RaceResult
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func scanResult(row rowScanner) (*RaceResult, error) {
	var r RaceResult
	var bib *string
	var finishTime *float64
	var position, stravaID *int64
	var splitsAvailable int64
	err := row.Scan(
		&r.ID, &r.RaceID, &r.RunnerID, &bib, &finishTime,
		&position, &r.Status, &splitsAvailable, &stravaID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrResultNotFound
	}
	if err != nil {
		return nil, err
	}

	if bib != nil {
		r.BibNumber = *bib
	}
	r.FinishTimeHours = finishTime
	if position != nil {
		p := int(*position)
		r.FinishPosition = &p
	}
	r.SplitsAvailable = splitsAvailable == 1
	r.StravaActivityID = stravaID
	return &r, nil
}
