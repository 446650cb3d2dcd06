package store

import (
	"database/sql"
	"fmt"
)

// UpsertSplit inserts or updates one mile split for a race result
func (db *DB) UpsertSplit(s *Split) error {
	_, err := db.Exec(`
		INSERT INTO splits (
			race_result_id, mile_number, distance_miles, split_time_seconds,
			pace_seconds, cumulative_time_seconds, elevation_feet, temperature_f, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(race_result_id, mile_number) DO UPDATE SET
			distance_miles = excluded.distance_miles,
			split_time_seconds = excluded.split_time_seconds,
			pace_seconds = excluded.pace_seconds,
			cumulative_time_seconds = excluded.cumulative_time_seconds,
			elevation_feet = excluded.elevation_feet,
			temperature_f = excluded.temperature_f,
			notes = excluded.notes
	`,
		s.RaceResultID, s.MileNumber, s.DistanceMiles, s.SplitTimeSeconds,
		s.PaceSeconds, s.CumulativeTimeSeconds, s.ElevationFeet, s.TemperatureF, s.Notes,
	)
	return err
}

// UpsertSplits stores a batch of splits in a single transaction
func (db *DB) UpsertSplits(splits []Split) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO splits (
			race_result_id, mile_number, distance_miles, split_time_seconds,
			pace_seconds, cumulative_time_seconds, elevation_feet, temperature_f, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(race_result_id, mile_number) DO UPDATE SET
			distance_miles = excluded.distance_miles,
			split_time_seconds = excluded.split_time_seconds,
			pace_seconds = excluded.pace_seconds,
			cumulative_time_seconds = excluded.cumulative_time_seconds,
			elevation_feet = excluded.elevation_feet,
			temperature_f = excluded.temperature_f,
			notes = excluded.notes
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range splits {
		s := &splits[i]
		if _, err := stmt.Exec(
			s.RaceResultID, s.MileNumber, s.DistanceMiles, s.SplitTimeSeconds,
			s.PaceSeconds, s.CumulativeTimeSeconds, s.ElevationFeet, s.TemperatureF, s.Notes,
		); err != nil {
			return fmt.Errorf("storing mile %d: %w", s.MileNumber, err)
		}
	}

	return tx.Commit()
}

// SplitsForResult retrieves all splits for a race result ordered by mile
func (db *DB) SplitsForResult(resultID int64) ([]Split, error) {
	rows, err := db.Query(`
		SELECT id, race_result_id, mile_number, distance_miles, split_time_seconds,
			pace_seconds, cumulative_time_seconds, elevation_feet, temperature_f, notes
		FROM splits
		WHERE race_result_id = ?
		ORDER BY mile_number
	`, resultID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSplits(rows)
}

// SplitsForRunner retrieves one runner's splits in a race ordered by mile
func (db *DB) SplitsForRunner(raceID, runnerID int64) ([]Split, error) {
	rows, err := db.Query(`
		SELECT s.id, s.race_result_id, s.mile_number, s.distance_miles, s.split_time_seconds,
			s.pace_seconds, s.cumulative_time_seconds, s.elevation_feet, s.temperature_f, s.notes
		FROM splits s
		JOIN race_results r ON r.id = s.race_result_id
		WHERE r.race_id = ? AND r.runner_id = ?
		ORDER BY s.mile_number
	`, raceID, runnerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSplits(rows)
}

// SplitsByRunner retrieves every runner's splits for a race, keyed by
// runner ID with each series ordered by mile
func (db *DB) SplitsByRunner(raceID int64) (map[int64][]Split, error) {
	rows, err := db.Query(`
		SELECT r.runner_id, s.id, s.race_result_id, s.mile_number, s.distance_miles,
			s.split_time_seconds, s.pace_seconds, s.cumulative_time_seconds,
			s.elevation_feet, s.temperature_f, s.notes
		FROM splits s
		JOIN race_results r ON r.id = s.race_result_id
		WHERE r.race_id = ?
		ORDER BY r.runner_id, s.mile_number
	`, raceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[int64][]Split)
	for rows.Next() {
		var runnerID int64
		var s Split
		var notes *string
		err := rows.Scan(
			&runnerID, &s.ID, &s.RaceResultID, &s.MileNumber, &s.DistanceMiles,
			&s.SplitTimeSeconds, &s.PaceSeconds, &s.CumulativeTimeSeconds,
			&s.ElevationFeet, &s.TemperatureF, &notes,
		)
		if err != nil {
			return nil, err
		}
		if notes != nil {
			s.Notes = *notes
		}
		result[runnerID] = append(result[runnerID], s)
	}
	return result, rows.Err()
}

func scanSplits(rows *sql.Rows) ([]Split, error) {
	var splits []Split
	for rows.Next() {
		var s Split
		var notes *string
		err := rows.Scan(
			&s.ID, &s.RaceResultID, &s.MileNumber, &s.DistanceMiles, &s.SplitTimeSeconds,
			&s.PaceSeconds, &s.CumulativeTimeSeconds, &s.ElevationFeet, &s.TemperatureF, &notes,
		)
		if err != nil {
			return nil, err
		}
		if notes != nil {
			s.Notes = *notes
		}
		splits = append(splits, s)
	}
	return splits, rows.Err()
}
