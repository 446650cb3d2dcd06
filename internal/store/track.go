package store

// ReplaceTrackPoints replaces a race's elevation track in one transaction.
// Tracks arrive whole from the course importer, so partial updates are
// never needed.
func (db *DB) ReplaceTrackPoints(raceID int64, points []TrackPoint) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM track_points WHERE race_id = ?`, raceID); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO track_points (race_id, mile, elevation_feet)
		VALUES (?, ?, ?)
		ON CONFLICT(race_id, mile) DO UPDATE SET elevation_feet = excluded.elevation_feet
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range points {
		if _, err := stmt.Exec(raceID, p.Mile, p.ElevationFeet); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// TrackPoints retrieves a race's elevation track ordered by mile
func (db *DB) TrackPoints(raceID int64) ([]TrackPoint, error) {
	rows, err := db.Query(`
		SELECT race_id, mile, elevation_feet
		FROM track_points
		WHERE race_id = ?
		ORDER BY mile
	`, raceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []TrackPoint
	for rows.Next() {
		var p TrackPoint
		if err := rows.Scan(&p.RaceID, &p.Mile, &p.ElevationFeet); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
