package store

// UpsertSegmentMeta inserts or updates curated segment metadata by
// (race_id, segment_name)
func (db *DB) UpsertSegmentMeta(m *CourseSegmentMeta) error {
	// course_segments has no natural unique key in older databases, so
	// delete-then-insert keeps one row per name
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		DELETE FROM course_segments WHERE race_id = ? AND segment_name = ?
	`, m.RaceID, m.SegmentName); err != nil {
		return err
	}

	if _, err := tx.Exec(`
		INSERT INTO course_segments (
			race_id, segment_name, start_mile, end_mile, terrain_type,
			difficulty_rating, elevation_gain_feet, elevation_loss_feet,
			typical_conditions, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		m.RaceID, m.SegmentName, m.StartMile, m.EndMile, m.TerrainType,
		m.DifficultyRating, m.ElevationGainFeet, m.ElevationLossFeet,
		m.TypicalConditions, m.Notes,
	); err != nil {
		return err
	}

	return tx.Commit()
}

// SegmentMeta retrieves curated segment metadata for a race ordered by
// start mile
func (db *DB) SegmentMeta(raceID int64) ([]CourseSegmentMeta, error) {
	rows, err := db.Query(`
		SELECT id, race_id, segment_name, start_mile, end_mile, terrain_type,
			difficulty_rating, elevation_gain_feet, elevation_loss_feet,
			typical_conditions, notes
		FROM course_segments
		WHERE race_id = ?
		ORDER BY start_mile
	`, raceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var metas []CourseSegmentMeta
	for rows.Next() {
		var m CourseSegmentMeta
		var terrain, conditions, notes *string
		var difficulty *float64
		err := rows.Scan(
			&m.ID, &m.RaceID, &m.SegmentName, &m.StartMile, &m.EndMile, &terrain,
			&difficulty, &m.ElevationGainFeet, &m.ElevationLossFeet,
			&conditions, &notes,
		)
		if err != nil {
			return nil, err
		}

		if terrain != nil {
			m.TerrainType = *terrain
		}
		if difficulty != nil {
			m.DifficultyRating = *difficulty
		}
		if conditions != nil {
			m.TypicalConditions = *conditions
		}
		if notes != nil {
			m.Notes = *notes
		}
		metas = append(metas, m)
	}
	return metas, rows.Err()
}
