package store

import (
	"database/sql"
	"errors"
	"time"
)

// UpsertRace inserts or updates a race by (name, year) and returns its ID
func (db *DB) UpsertRace(r *Race) (int64, error) {
	var startTime *string
	if r.StartTime != nil {
		s := r.StartTime.Format(time.RFC3339)
		startTime = &s
	}

	_, err := db.Exec(`
		INSERT INTO races (
			name, year, start_time, location, distance_miles,
			elevation_gain_feet, elevation_loss_feet, time_limit_hours,
			course_description, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name, year) DO UPDATE SET
			start_time = excluded.start_time,
			location = excluded.location,
			distance_miles = excluded.distance_miles,
			elevation_gain_feet = excluded.elevation_gain_feet,
			elevation_loss_feet = excluded.elevation_loss_feet,
			time_limit_hours = excluded.time_limit_hours,
			course_description = excluded.course_description,
			updated_at = CURRENT_TIMESTAMP
	`,
		r.Name, r.Year, startTime, r.Location, r.DistanceMiles,
		r.ElevationGainFeet, r.ElevationLossFeet, r.TimeLimitHours,
		r.CourseDescription,
	)
	if err != nil {
		return 0, err
	}

	var id int64
	err = db.QueryRow(`SELECT id FROM races WHERE name = ? AND year = ?`, r.Name, r.Year).Scan(&id)
	if err != nil {
		return 0, err
	}
	r.ID = id
	return id, nil
}

// GetRace retrieves a race by ID
func (db *DB) GetRace(id int64) (*Race, error) {
	row := db.QueryRow(`
		SELECT id, name, year, start_time, location, distance_miles,
			elevation_gain_feet, elevation_loss_feet, time_limit_hours,
			course_description
		FROM races
		WHERE id = ?
	`, id)
	return scanRace(row)
}

// ListRaces retrieves all races, newest first
func (db *DB) ListRaces() ([]*Race, error) {
	rows, err := db.Query(`
		SELECT id, name, year, start_time, location, distance_miles,
			elevation_gain_feet, elevation_loss_feet, time_limit_hours,
			course_description
		FROM races
		ORDER BY year DESC, name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var races []*Race
	for rows.Next() {
		r, err := scanRace(rows)
		if err != nil {
			return nil, err
		}
		races = append(races, r)
	}
	return races, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRace(row rowScanner) (*Race, error) {
	var r Race
	var startTime, location, description *string
	err := row.Scan(
		&r.ID, &r.Name, &r.Year, &startTime, &location, &r.DistanceMiles,
		&r.ElevationGainFeet, &r.ElevationLossFeet, &r.TimeLimitHours,
		&description,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRaceNotFound
	}
	if err != nil {
		return nil, err
	}

	if startTime != nil {
		if t, err := time.Parse(time.RFC3339, *startTime); err == nil {
			r.StartTime = &t
		}
	}
	if location != nil {
		r.Location = *location
	}
	if description != nil {
		r.CourseDescription = *description
	}
	return &r, nil
}
