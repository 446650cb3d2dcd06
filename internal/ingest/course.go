package ingest

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"ultrasmart/internal/store"
)

// courseFile is the on-disk YAML shape of a course description
type courseFile struct {
	Race        raceYAML      `yaml:"race"`
	AidStations []stationYAML `yaml:"aid_stations"`
	Segments    []segmentYAML `yaml:"segments"`
	TrackPoints []trackYAML   `yaml:"track_points"`
}

type raceYAML struct {
	Name              string  `yaml:"name"`
	Year              int     `yaml:"year"`
	StartTime         string  `yaml:"start_time"` // RFC 3339, optional
	Location          string  `yaml:"location"`
	DistanceMiles     float64 `yaml:"distance_miles"`
	ElevationGainFeet float64 `yaml:"elevation_gain_feet"`
	ElevationLossFeet float64 `yaml:"elevation_loss_feet"`
	TimeLimitHours    float64 `yaml:"time_limit_hours"`
	Description       string  `yaml:"description"`
}

type stationYAML struct {
	Name            string   `yaml:"name"`
	DistanceMiles   float64  `yaml:"distance_miles"`
	ElevationFeet   *float64 `yaml:"elevation_feet"`
	StationType     string   `yaml:"station_type"`
	Services        []string `yaml:"services"`
	CrewAccess      bool     `yaml:"crew_access"`
	DropBagAccess   bool     `yaml:"drop_bag_access"`
	CutoffTimeHours *float64 `yaml:"cutoff_time_hours"`
	Notes           string   `yaml:"notes"`
}

type segmentYAML struct {
	Name              string  `yaml:"name"`
	StartMile         float64 `yaml:"start_mile"`
	EndMile           float64 `yaml:"end_mile"`
	TerrainType       string  `yaml:"terrain_type"`
	DifficultyRating  float64 `yaml:"difficulty_rating"`
	ElevationGainFeet float64 `yaml:"elevation_gain_feet"`
	ElevationLossFeet float64 `yaml:"elevation_loss_feet"`
	TypicalConditions string  `yaml:"typical_conditions"`
	Notes             string  `yaml:"notes"`
}

type trackYAML struct {
	Mile          float64 `yaml:"mile"`
	ElevationFeet float64 `yaml:"elevation_feet"`
}

// Course imports a YAML course description: the race row, its aid
// stations, curated segment metadata and the elevation track. Importing
// the same file again updates rows in place.
func (im *Importer) Course(path string) (*CourseImport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading course file: %w", err)
	}

	var cf courseFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parsing course file: %w", err)
	}
	if cf.Race.Name == "" || cf.Race.Year == 0 {
		return nil, fmt.Errorf("course file must set race.name and race.year")
	}

	race := &store.Race{
		Name:              cf.Race.Name,
		Year:              cf.Race.Year,
		Location:          cf.Race.Location,
		DistanceMiles:     cf.Race.DistanceMiles,
		ElevationGainFeet: cf.Race.ElevationGainFeet,
		ElevationLossFeet: cf.Race.ElevationLossFeet,
		TimeLimitHours:    cf.Race.TimeLimitHours,
		CourseDescription: cf.Race.Description,
	}
	if cf.Race.StartTime != "" {
		t, err := time.Parse(time.RFC3339, cf.Race.StartTime)
		if err != nil {
			return nil, fmt.Errorf("parsing race.start_time: %w", err)
		}
		race.StartTime = &t
	}

	raceID, err := im.store.UpsertRace(race)
	if err != nil {
		return nil, fmt.Errorf("storing race: %w", err)
	}

	for _, s := range cf.AidStations {
		station := store.AidStation{
			RaceID:          raceID,
			Name:            s.Name,
			DistanceMiles:   s.DistanceMiles,
			ElevationFeet:   s.ElevationFeet,
			StationType:     s.StationType,
			Services:        s.Services,
			CrewAccess:      s.CrewAccess,
			DropBagAccess:   s.DropBagAccess,
			CutoffTimeHours: s.CutoffTimeHours,
			Notes:           s.Notes,
		}
		if station.StationType == "" {
			station.StationType = store.StationAid
		}
		if err := im.store.UpsertAidStation(&station); err != nil {
			return nil, fmt.Errorf("storing aid station %q: %w", s.Name, err)
		}
	}

	for _, sg := range cf.Segments {
		meta := store.CourseSegmentMeta{
			RaceID:            raceID,
			SegmentName:       sg.Name,
			StartMile:         sg.StartMile,
			EndMile:           sg.EndMile,
			TerrainType:       sg.TerrainType,
			DifficultyRating:  sg.DifficultyRating,
			ElevationGainFeet: sg.ElevationGainFeet,
			ElevationLossFeet: sg.ElevationLossFeet,
			TypicalConditions: sg.TypicalConditions,
			Notes:             sg.Notes,
		}
		if err := im.store.UpsertSegmentMeta(&meta); err != nil {
			return nil, fmt.Errorf("storing segment %q: %w", sg.Name, err)
		}
	}

	if len(cf.TrackPoints) > 0 {
		points := make([]store.TrackPoint, len(cf.TrackPoints))
		for i, p := range cf.TrackPoints {
			points[i] = store.TrackPoint{RaceID: raceID, Mile: p.Mile, ElevationFeet: p.ElevationFeet}
		}
		if err := im.store.ReplaceTrackPoints(raceID, points); err != nil {
			return nil, fmt.Errorf("storing track points: %w", err)
		}
	}

	records := 1 + len(cf.AidStations) + len(cf.Segments) + len(cf.TrackPoints)
	runID := im.recordRun("course", path, raceID, records)

	im.log.Info("course imported",
		"race", cf.Race.Name,
		"year", cf.Race.Year,
		"aid_stations", len(cf.AidStations),
		"segments", len(cf.Segments),
		"track_points", len(cf.TrackPoints))

	return &CourseImport{
		RunID:       runID,
		RaceID:      raceID,
		AidStations: len(cf.AidStations),
		Segments:    len(cf.Segments),
		TrackPoints: len(cf.TrackPoints),
	}, nil
}
