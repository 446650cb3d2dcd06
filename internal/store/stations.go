package store

import (
	"encoding/json"
	"fmt"
)

// UpsertAidStation inserts or updates an aid station by (race_id, distance)
func (db *DB) UpsertAidStation(a *AidStation) error {
	services, err := json.Marshal(a.Services)
	if err != nil {
		return fmt.Errorf("encoding services for %q: %w", a.Name, err)
	}

	_, err = db.Exec(`
		INSERT INTO aid_stations (
			race_id, name, distance_miles, elevation_feet, station_type,
			services, crew_access, drop_bag_access, cutoff_time_hours, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(race_id, distance_miles) DO UPDATE SET
			name = excluded.name,
			elevation_feet = excluded.elevation_feet,
			station_type = excluded.station_type,
			services = excluded.services,
			crew_access = excluded.crew_access,
			drop_bag_access = excluded.drop_bag_access,
			cutoff_time_hours = excluded.cutoff_time_hours,
			notes = excluded.notes
	`,
		a.RaceID, a.Name, a.DistanceMiles, a.ElevationFeet, a.StationType,
		string(services), boolToInt(a.CrewAccess), boolToInt(a.DropBagAccess),
		a.CutoffTimeHours, a.Notes,
	)
	return err
}

// AidStations retrieves all aid stations for a race ordered by distance
func (db *DB) AidStations(raceID int64) ([]AidStation, error) {
	rows, err := db.Query(`
		SELECT id, race_id, name, distance_miles, elevation_feet, station_type,
			services, crew_access, drop_bag_access, cutoff_time_hours, notes
		FROM aid_stations
		WHERE race_id = ?
		ORDER BY distance_miles
	`, raceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stations []AidStation
	for rows.Next() {
		var a AidStation
		var services, notes *string
		var crewAccess, dropBagAccess int64
		err := rows.Scan(
			&a.ID, &a.RaceID, &a.Name, &a.DistanceMiles, &a.ElevationFeet, &a.StationType,
			&services, &crewAccess, &dropBagAccess, &a.CutoffTimeHours, &notes,
		)
		if err != nil {
			return nil, err
		}

		if services != nil && *services != "" {
			if err := json.Unmarshal([]byte(*services), &a.Services); err != nil {
				return nil, fmt.Errorf("decoding services for %q: %w", a.Name, err)
			}
		}
		a.CrewAccess = crewAccess == 1
		a.DropBagAccess = dropBagAccess == 1
		if notes != nil {
			a.Notes = *notes
		}
		stations = append(stations, a)
	}
	return stations, rows.Err()
}
