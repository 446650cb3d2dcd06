package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// Races (one row per event edition)
		`CREATE TABLE IF NOT EXISTS races (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			year INTEGER NOT NULL,
			start_time TEXT,
			location TEXT,
			distance_miles REAL NOT NULL,
			elevation_gain_feet REAL DEFAULT 0,
			elevation_loss_feet REAL DEFAULT 0,
			time_limit_hours REAL DEFAULT 0,
			course_description TEXT,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(name, year)
		)`,

		// Runners
		`CREATE TABLE IF NOT EXISTS runners (
			id INTEGER PRIMARY KEY,
			bib_number TEXT,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			age INTEGER,
			gender TEXT CHECK (gender IN ('M', 'F', 'X', '')),
			city TEXT,
			state TEXT,
			country TEXT,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_runners_bib ON runners(bib_number)`,

		// Race results (runner x race)
		`CREATE TABLE IF NOT EXISTS race_results (
			id INTEGER PRIMARY KEY,
			race_id INTEGER NOT NULL,
			runner_id INTEGER NOT NULL,
			bib_number TEXT,
			finish_time_hours REAL,
			finish_position INTEGER,
			status TEXT DEFAULT 'Finished' CHECK (status IN ('Finished', 'DNF', 'DNS', 'DQ')),
			splits_available INTEGER DEFAULT 0,
			strava_activity_id INTEGER,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(race_id, runner_id),
			FOREIGN KEY (race_id) REFERENCES races(id) ON DELETE CASCADE,
			FOREIGN KEY (runner_id) REFERENCES runners(id) ON DELETE CASCADE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_results_race ON race_results(race_id)`,

		// Per-mile splits
		`CREATE TABLE IF NOT EXISTS splits (
			id INTEGER PRIMARY KEY,
			race_result_id INTEGER NOT NULL,
			mile_number INTEGER NOT NULL,
			distance_miles REAL NOT NULL,
			split_time_seconds REAL,
			pace_seconds REAL,
			cumulative_time_seconds REAL,
			elevation_feet REAL,
			temperature_f REAL,
			notes TEXT,
			UNIQUE(race_result_id, mile_number),
			FOREIGN KEY (race_result_id) REFERENCES race_results(id) ON DELETE CASCADE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_splits_result ON splits(race_result_id)`,

		// Aid stations
		`CREATE TABLE IF NOT EXISTS aid_stations (
			id INTEGER PRIMARY KEY,
			race_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			distance_miles REAL NOT NULL,
			elevation_feet REAL,
			station_type TEXT DEFAULT 'aid' CHECK (station_type IN ('aid', 'crew', 'drop_bag', 'crew_aid', 'major_aid')),
			services TEXT,
			crew_access INTEGER DEFAULT 0,
			drop_bag_access INTEGER DEFAULT 0,
			cutoff_time_hours REAL,
			notes TEXT,
			UNIQUE(race_id, distance_miles),
			FOREIGN KEY (race_id) REFERENCES races(id) ON DELETE CASCADE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_stations_race ON aid_stations(race_id)`,

		// Curated course segment metadata (terrain overlay for derived segments)
		`CREATE TABLE IF NOT EXISTS course_segments (
			id INTEGER PRIMARY KEY,
			race_id INTEGER NOT NULL,
			segment_name TEXT NOT NULL,
			start_mile REAL NOT NULL,
			end_mile REAL NOT NULL,
			terrain_type TEXT,
			difficulty_rating REAL CHECK (difficulty_rating BETWEEN 1 AND 5),
			elevation_gain_feet REAL DEFAULT 0,
			elevation_loss_feet REAL DEFAULT 0,
			typical_conditions TEXT,
			notes TEXT,
			FOREIGN KEY (race_id) REFERENCES races(id) ON DELETE CASCADE
		)`,

		// Pre-processed route elevation samples
		`CREATE TABLE IF NOT EXISTS track_points (
			race_id INTEGER NOT NULL,
			mile REAL NOT NULL,
			elevation_feet REAL NOT NULL,
			PRIMARY KEY (race_id, mile),
			FOREIGN KEY (race_id) REFERENCES races(id) ON DELETE CASCADE
		)`,

		// Authentication (singleton row)
		`CREATE TABLE IF NOT EXISTS auth (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			athlete_id INTEGER NOT NULL,
			access_token TEXT NOT NULL,
			refresh_token TEXT NOT NULL,
			expires_at INTEGER NOT NULL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Sync state (key-value store for import tracking)
		`CREATE TABLE IF NOT EXISTS sync_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Import audit log
		`CREATE TABLE IF NOT EXISTS import_runs (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			source TEXT,
			race_id INTEGER,
			records INTEGER DEFAULT 0,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}
