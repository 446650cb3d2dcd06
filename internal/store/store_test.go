package store

import (
	"errors"
	"math"
	"testing"
	"time"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedRace(t *testing.T, db *DB) int64 {
	t.Helper()
	start := time.Date(2026, 5, 4, 5, 0, 0, 0, time.UTC)
	id, err := db.UpsertRace(&Race{
		Name:              "Cocodona 250",
		Year:              2026,
		StartTime:         &start,
		Location:          "Black Canyon City, AZ",
		DistanceMiles:     256.9,
		ElevationGainFeet: 40000,
		ElevationLossFeet: 35000,
		TimeLimitHours:    125,
	})
	if err != nil {
		t.Fatalf("seeding race: %v", err)
	}
	return id
}

func seedRunner(t *testing.T, db *DB, bib, first, last string) int64 {
	t.Helper()
	id, err := db.CreateRunner(&Runner{BibNumber: bib, FirstName: first, LastName: last})
	if err != nil {
		t.Fatalf("seeding runner %s: %v", bib, err)
	}
	return id
}

func seedResult(t *testing.T, db *DB, raceID, runnerID int64) int64 {
	t.Helper()
	id, err := db.UpsertResult(&RaceResult{RaceID: raceID, RunnerID: runnerID, SplitsAvailable: true})
	if err != nil {
		t.Fatalf("seeding result: %v", err)
	}
	return id
}

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func TestUpsertRace(t *testing.T) {
	db := setupTestDB(t)
	id := seedRace(t, db)

	got, err := db.GetRace(id)
	if err != nil {
		t.Fatalf("GetRace() error: %v", err)
	}
	if got.Name != "Cocodona 250" || got.Year != 2026 {
		t.Errorf("race = %q %d", got.Name, got.Year)
	}
	if got.Location != "Black Canyon City, AZ" || got.DistanceMiles != 256.9 {
		t.Errorf("location/distance = %q/%v", got.Location, got.DistanceMiles)
	}
	want := time.Date(2026, 5, 4, 5, 0, 0, 0, time.UTC)
	if got.StartTime == nil || !got.StartTime.Equal(want) {
		t.Errorf("StartTime = %v, want %v", got.StartTime, want)
	}

	// same name and year updates in place
	id2, err := db.UpsertRace(&Race{Name: "Cocodona 250", Year: 2026, Location: "Prescott, AZ", DistanceMiles: 250})
	if err != nil {
		t.Fatalf("UpsertRace() again: %v", err)
	}
	if id2 != id {
		t.Errorf("re-upsert id = %d, want %d", id2, id)
	}
	got, _ = db.GetRace(id)
	if got.Location != "Prescott, AZ" || got.DistanceMiles != 250 {
		t.Errorf("updated race = %q/%v", got.Location, got.DistanceMiles)
	}

	if _, err := db.GetRace(9999); !errors.Is(err, ErrRaceNotFound) {
		t.Errorf("GetRace(9999) error = %v, want ErrRaceNotFound", err)
	}
}

func TestListRaces(t *testing.T) {
	db := setupTestDB(t)
	for _, r := range []Race{
		{Name: "Cocodona 250", Year: 2025},
		{Name: "Elden Crest 38", Year: 2026},
		{Name: "Cocodona 250", Year: 2026},
	} {
		if _, err := db.UpsertRace(&r); err != nil {
			t.Fatalf("UpsertRace(%q %d): %v", r.Name, r.Year, err)
		}
	}

	races, err := db.ListRaces()
	if err != nil {
		t.Fatalf("ListRaces() error: %v", err)
	}
	var got []string
	for _, r := range races {
		got = append(got, r.Name)
	}
	want := []string{"Cocodona 250", "Elden Crest 38", "Cocodona 250"}
	if len(got) != 3 || got[0] != want[0] || got[1] != want[1] || got[2] != want[2] {
		t.Errorf("order = %v, want newest year first then name", got)
	}
	if races[2].Year != 2025 {
		t.Errorf("races[2].Year = %d, want 2025", races[2].Year)
	}
}

func TestRunners(t *testing.T) {
	db := setupTestDB(t)

	id, err := db.CreateRunner(&Runner{
		BibNumber: "42",
		FirstName: "Rachel",
		LastName:  "Entrekin",
		Age:       intPtr(29),
		Gender:    "F",
		City:      "Boulder",
		State:     "CO",
		Country:   "USA",
	})
	if err != nil {
		t.Fatalf("CreateRunner() error: %v", err)
	}

	got, err := db.GetRunner(id)
	if err != nil {
		t.Fatalf("GetRunner() error: %v", err)
	}
	if got.FirstName != "Rachel" || got.LastName != "Entrekin" || got.Gender != "F" {
		t.Errorf("runner = %+v", got)
	}
	if got.Age == nil || *got.Age != 29 {
		t.Errorf("Age = %v, want 29", got.Age)
	}

	byBib, err := db.GetRunnerByBib("42")
	if err != nil || byBib.ID != id {
		t.Errorf("GetRunnerByBib() = %v, %v", byBib, err)
	}

	if _, err := db.GetRunner(9999); !errors.Is(err, ErrRunnerNotFound) {
		t.Errorf("GetRunner(9999) error = %v, want ErrRunnerNotFound", err)
	}
	if _, err := db.GetRunnerByBib("404"); !errors.Is(err, ErrRunnerNotFound) {
		t.Errorf("GetRunnerByBib(404) error = %v, want ErrRunnerNotFound", err)
	}
}

func TestGetOrCreateRunnerByBib(t *testing.T) {
	db := setupTestDB(t)

	r, err := db.GetOrCreateRunnerByBib("117")
	if err != nil {
		t.Fatalf("GetOrCreateRunnerByBib() error: %v", err)
	}
	if r.FirstName != "Bib" || r.LastName != "117" {
		t.Errorf("placeholder = %q %q, want Bib 117", r.FirstName, r.LastName)
	}

	again, err := db.GetOrCreateRunnerByBib("117")
	if err != nil {
		t.Fatalf("second call error: %v", err)
	}
	if again.ID != r.ID {
		t.Errorf("second call id = %d, want %d", again.ID, r.ID)
	}
}

func TestListRunners(t *testing.T) {
	db := setupTestDB(t)
	seedRunner(t, db, "7", "Arlen", "Glick")
	seedRunner(t, db, "22", "Joe", "Corcione")
	seedRunner(t, db, "5", "Rachel", "Entrekin")

	runners, err := db.ListRunners()
	if err != nil {
		t.Fatalf("ListRunners() error: %v", err)
	}
	var got []string
	for _, r := range runners {
		got = append(got, r.LastName)
	}
	want := []string{"Corcione", "Entrekin", "Glick"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("order = %v, want %v", got, want)
			break
		}
	}
}

func TestResults(t *testing.T) {
	db := setupTestDB(t)
	raceID := seedRace(t, db)
	runnerID := seedRunner(t, db, "42", "Rachel", "Entrekin")

	id, err := db.UpsertResult(&RaceResult{RaceID: raceID, RunnerID: runnerID, BibNumber: "42"})
	if err != nil {
		t.Fatalf("UpsertResult() error: %v", err)
	}

	got, err := db.GetResult(raceID, runnerID)
	if err != nil {
		t.Fatalf("GetResult() error: %v", err)
	}
	if got.Status != StatusFinished {
		t.Errorf("empty status stored as %q, want Finished", got.Status)
	}
	if got.FinishTimeHours != nil || got.FinishPosition != nil {
		t.Errorf("finish fields = %v/%v, want nil", got.FinishTimeHours, got.FinishPosition)
	}

	// conflict on (race, runner) updates the same row
	activityID := int64(987654)
	id2, err := db.UpsertResult(&RaceResult{
		RaceID:           raceID,
		RunnerID:         runnerID,
		BibNumber:        "42",
		FinishTimeHours:  floatPtr(58.2),
		FinishPosition:   intPtr(1),
		Status:           StatusFinished,
		SplitsAvailable:  true,
		StravaActivityID: &activityID,
	})
	if err != nil {
		t.Fatalf("UpsertResult() again: %v", err)
	}
	if id2 != id {
		t.Errorf("re-upsert id = %d, want %d", id2, id)
	}
	got, _ = db.GetResult(raceID, runnerID)
	if got.FinishTimeHours == nil || math.Abs(*got.FinishTimeHours-58.2) > 0.001 {
		t.Errorf("FinishTimeHours = %v, want 58.2", got.FinishTimeHours)
	}
	if !got.SplitsAvailable || got.StravaActivityID == nil || *got.StravaActivityID != 987654 {
		t.Errorf("result = %+v", got)
	}

	if _, err := db.GetResult(raceID, 9999); !errors.Is(err, ErrResultNotFound) {
		t.Errorf("GetResult() error = %v, want ErrResultNotFound", err)
	}
}

func TestResultsForRace(t *testing.T) {
	db := setupTestDB(t)
	raceID := seedRace(t, db)
	r1 := seedRunner(t, db, "1", "Joe", "Corcione")
	r2 := seedRunner(t, db, "2", "Rachel", "Entrekin")

	// inserted out of runner order
	seedResult(t, db, raceID, r2)
	seedResult(t, db, raceID, r1)

	results, err := db.ResultsForRace(raceID)
	if err != nil {
		t.Fatalf("ResultsForRace() error: %v", err)
	}
	if len(results) != 2 || results[0].RunnerID != r1 || results[1].RunnerID != r2 {
		t.Errorf("results out of runner order: %+v", results)
	}
}

func TestSplits(t *testing.T) {
	db := setupTestDB(t)
	raceID := seedRace(t, db)
	runnerID := seedRunner(t, db, "42", "Rachel", "Entrekin")
	resultID := seedResult(t, db, raceID, runnerID)

	splits := []Split{
		{RaceResultID: resultID, MileNumber: 2, DistanceMiles: 2, SplitTimeSeconds: floatPtr(760), PaceSeconds: floatPtr(760), CumulativeTimeSeconds: floatPtr(1480)},
		{RaceResultID: resultID, MileNumber: 1, DistanceMiles: 1, SplitTimeSeconds: floatPtr(720), PaceSeconds: floatPtr(720), CumulativeTimeSeconds: floatPtr(720), ElevationFeet: floatPtr(5000)},
		{RaceResultID: resultID, MileNumber: 3, DistanceMiles: 3, SplitTimeSeconds: floatPtr(800), Notes: "first climb"},
	}
	if err := db.UpsertSplits(splits); err != nil {
		t.Fatalf("UpsertSplits() error: %v", err)
	}

	got, err := db.SplitsForResult(resultID)
	if err != nil {
		t.Fatalf("SplitsForResult() error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d splits, want 3", len(got))
	}
	for i, want := range []int{1, 2, 3} {
		if got[i].MileNumber != want {
			t.Errorf("splits[%d].MileNumber = %d, want %d", i, got[i].MileNumber, want)
		}
	}
	if got[0].ElevationFeet == nil || *got[0].ElevationFeet != 5000 {
		t.Errorf("mile 1 elevation = %v, want 5000", got[0].ElevationFeet)
	}
	if got[2].PaceSeconds != nil {
		t.Errorf("mile 3 pace = %v, want nil", got[2].PaceSeconds)
	}
	if got[2].Notes != "first climb" {
		t.Errorf("mile 3 notes = %q", got[2].Notes)
	}

	// re-upserting a mile updates rather than duplicates
	if err := db.UpsertSplits([]Split{{RaceResultID: resultID, MileNumber: 2, DistanceMiles: 2, SplitTimeSeconds: floatPtr(900)}}); err != nil {
		t.Fatalf("UpsertSplits() update: %v", err)
	}
	got, _ = db.SplitsForResult(resultID)
	if len(got) != 3 {
		t.Fatalf("after update got %d splits, want 3", len(got))
	}
	if *got[1].SplitTimeSeconds != 900 {
		t.Errorf("updated mile 2 = %v, want 900", *got[1].SplitTimeSeconds)
	}

	byRunner, err := db.SplitsForRunner(raceID, runnerID)
	if err != nil || len(byRunner) != 3 {
		t.Errorf("SplitsForRunner() = %d splits, %v", len(byRunner), err)
	}
}

func TestSplitsByRunner(t *testing.T) {
	db := setupTestDB(t)
	raceID := seedRace(t, db)
	r1 := seedRunner(t, db, "1", "Joe", "Corcione")
	r2 := seedRunner(t, db, "2", "Rachel", "Entrekin")
	res1 := seedResult(t, db, raceID, r1)
	res2 := seedResult(t, db, raceID, r2)

	if err := db.UpsertSplits([]Split{
		{RaceResultID: res1, MileNumber: 1, DistanceMiles: 1, SplitTimeSeconds: floatPtr(700)},
		{RaceResultID: res1, MileNumber: 2, DistanceMiles: 2, SplitTimeSeconds: floatPtr(710)},
		{RaceResultID: res2, MileNumber: 1, DistanceMiles: 1, SplitTimeSeconds: floatPtr(800)},
	}); err != nil {
		t.Fatalf("UpsertSplits() error: %v", err)
	}

	byRunner, err := db.SplitsByRunner(raceID)
	if err != nil {
		t.Fatalf("SplitsByRunner() error: %v", err)
	}
	if len(byRunner) != 2 {
		t.Fatalf("got %d runners, want 2", len(byRunner))
	}
	if len(byRunner[r1]) != 2 || len(byRunner[r2]) != 1 {
		t.Errorf("split counts = %d/%d, want 2/1", len(byRunner[r1]), len(byRunner[r2]))
	}
	if byRunner[r1][0].MileNumber != 1 || byRunner[r1][1].MileNumber != 2 {
		t.Errorf("runner 1 miles out of order: %+v", byRunner[r1])
	}
}

func TestAidStations(t *testing.T) {
	db := setupTestDB(t)
	raceID := seedRace(t, db)

	stations := []AidStation{
		{RaceID: raceID, Name: "Camp Kipa", DistanceMiles: 36.4, StationType: StationMajorAid, Services: []string{"sleep", "medical"}, CrewAccess: true, DropBagAccess: true},
		{RaceID: raceID, Name: "Cottonwood Creek", DistanceMiles: 7.9, StationType: StationAid, Services: []string{"water"}},
	}
	for i := range stations {
		if err := db.UpsertAidStation(&stations[i]); err != nil {
			t.Fatalf("UpsertAidStation(%q): %v", stations[i].Name, err)
		}
	}

	got, err := db.AidStations(raceID)
	if err != nil {
		t.Fatalf("AidStations() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d stations, want 2", len(got))
	}
	if got[0].Name != "Cottonwood Creek" || got[1].Name != "Camp Kipa" {
		t.Errorf("order = %q, %q, want distance ascending", got[0].Name, got[1].Name)
	}
	if len(got[1].Services) != 2 || got[1].Services[0] != "sleep" {
		t.Errorf("services = %v, want [sleep medical]", got[1].Services)
	}
	if !got[1].CrewAccess || !got[1].DropBagAccess {
		t.Errorf("flags = %+v", got[1])
	}

	// conflict on (race, distance) updates in place
	if err := db.UpsertAidStation(&AidStation{RaceID: raceID, Name: "Cottonwood Crossing", DistanceMiles: 7.9, StationType: StationCrewAid}); err != nil {
		t.Fatalf("UpsertAidStation() update: %v", err)
	}
	got, _ = db.AidStations(raceID)
	if len(got) != 2 || got[0].Name != "Cottonwood Crossing" || got[0].StationType != StationCrewAid {
		t.Errorf("after update = %+v", got[0])
	}
}

func TestAidStationCapabilities(t *testing.T) {
	tests := []struct {
		name    string
		station AidStation
		sleep   bool
		crew    bool
		drop    bool
		medic   bool
		gear    bool
	}{
		{
			name:    "major aid has sleep and crew",
			station: AidStation{StationType: StationMajorAid},
			sleep:   true,
			crew:    true,
		},
		{
			name:    "sleeping service on a small station",
			station: AidStation{StationType: StationAid, Services: []string{"sleeping"}},
			sleep:   true,
		},
		{
			name:    "crew aid type",
			station: AidStation{StationType: StationCrewAid},
			crew:    true,
		},
		{
			name:    "crew access flag",
			station: AidStation{StationType: StationAid, CrewAccess: true},
			crew:    true,
		},
		{
			name:    "drop bag type",
			station: AidStation{StationType: StationDropBag},
			drop:    true,
		},
		{
			name:    "drop bag flag",
			station: AidStation{StationType: StationAid, DropBagAccess: true},
			drop:    true,
		},
		{
			name:    "medical service",
			station: AidStation{StationType: StationAid, Services: []string{"medical"}},
			medic:   true,
		},
		{
			name:    "medic shorthand",
			station: AidStation{StationType: StationAid, Services: []string{"medic"}},
			medic:   true,
		},
		{
			name:    "gear check service",
			station: AidStation{StationType: StationAid, Services: []string{"gear_check"}},
			gear:    true,
		},
		{
			name:    "plain aid station",
			station: AidStation{StationType: StationAid},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.station
			if s.SleepStation() != tt.sleep {
				t.Errorf("SleepStation() = %v, want %v", s.SleepStation(), tt.sleep)
			}
			if s.CrewAccessible() != tt.crew {
				t.Errorf("CrewAccessible() = %v, want %v", s.CrewAccessible(), tt.crew)
			}
			if s.DropBags() != tt.drop {
				t.Errorf("DropBags() = %v, want %v", s.DropBags(), tt.drop)
			}
			if s.HasMedic() != tt.medic {
				t.Errorf("HasMedic() = %v, want %v", s.HasMedic(), tt.medic)
			}
			if s.GearCheck() != tt.gear {
				t.Errorf("GearCheck() = %v, want %v", s.GearCheck(), tt.gear)
			}
		})
	}
}

func TestSegmentMeta(t *testing.T) {
	db := setupTestDB(t)
	raceID := seedRace(t, db)

	rows := []CourseSegmentMeta{
		{RaceID: raceID, SegmentName: "Mingus climb", StartMile: 30, EndMile: 40, TerrainType: "rocky", DifficultyRating: 4.5},
		{RaceID: raceID, SegmentName: "opening miles", StartMile: 0, EndMile: 8, TerrainType: "jeep road", DifficultyRating: 2.5},
	}
	for i := range rows {
		if err := db.UpsertSegmentMeta(&rows[i]); err != nil {
			t.Fatalf("UpsertSegmentMeta(%q): %v", rows[i].SegmentName, err)
		}
	}

	got, err := db.SegmentMeta(raceID)
	if err != nil {
		t.Fatalf("SegmentMeta() error: %v", err)
	}
	if len(got) != 2 || got[0].SegmentName != "opening miles" || got[1].SegmentName != "Mingus climb" {
		t.Errorf("order = %+v, want start_mile ascending", got)
	}

	// same segment name replaces in place
	if err := db.UpsertSegmentMeta(&CourseSegmentMeta{RaceID: raceID, SegmentName: "Mingus climb", StartMile: 30, EndMile: 40, TerrainType: "technical rock", DifficultyRating: 5}); err != nil {
		t.Fatalf("UpsertSegmentMeta() replace: %v", err)
	}
	got, _ = db.SegmentMeta(raceID)
	if len(got) != 2 {
		t.Fatalf("after replace got %d rows, want 2", len(got))
	}
	if got[1].TerrainType != "technical rock" || got[1].DifficultyRating != 5 {
		t.Errorf("replaced row = %+v", got[1])
	}
}

func TestTrackPoints(t *testing.T) {
	db := setupTestDB(t)
	raceID := seedRace(t, db)

	if err := db.ReplaceTrackPoints(raceID, []TrackPoint{
		{Mile: 10, ElevationFeet: 6200},
		{Mile: 0, ElevationFeet: 5000},
		{Mile: 20, ElevationFeet: 5800},
	}); err != nil {
		t.Fatalf("ReplaceTrackPoints() error: %v", err)
	}

	got, err := db.TrackPoints(raceID)
	if err != nil {
		t.Fatalf("TrackPoints() error: %v", err)
	}
	if len(got) != 3 || got[0].Mile != 0 || got[2].Mile != 20 {
		t.Errorf("points = %+v, want mile ascending", got)
	}

	// a new import wipes the old track
	if err := db.ReplaceTrackPoints(raceID, []TrackPoint{{Mile: 0, ElevationFeet: 5000}}); err != nil {
		t.Fatalf("ReplaceTrackPoints() again: %v", err)
	}
	got, _ = db.TrackPoints(raceID)
	if len(got) != 1 {
		t.Errorf("after replace got %d points, want 1", len(got))
	}
}

func TestSyncState(t *testing.T) {
	db := setupTestDB(t)

	got, err := db.GetSyncState("last_strava_sync")
	if err != nil || got != "" {
		t.Errorf("missing key = %q, %v, want empty and nil", got, err)
	}

	if err := db.SetSyncState("last_strava_sync", "2026-05-04T12:00:00Z"); err != nil {
		t.Fatalf("SetSyncState() error: %v", err)
	}
	if got, _ = db.GetSyncState("last_strava_sync"); got != "2026-05-04T12:00:00Z" {
		t.Errorf("GetSyncState() = %q", got)
	}

	if err := db.SetSyncState("last_strava_sync", "2026-05-05T12:00:00Z"); err != nil {
		t.Fatalf("SetSyncState() overwrite: %v", err)
	}
	if got, _ = db.GetSyncState("last_strava_sync"); got != "2026-05-05T12:00:00Z" {
		t.Errorf("after overwrite = %q", got)
	}
}

func TestImportRuns(t *testing.T) {
	db := setupTestDB(t)
	raceID := seedRace(t, db)

	runs := []ImportRun{
		{ID: "0c8f9b1e-0001-4000-8000-000000000001", Kind: "course", Source: "course.yaml", RaceID: raceID, Records: 12},
		{ID: "0c8f9b1e-0002-4000-8000-000000000002", Kind: "splits", Source: "splits.csv", RaceID: raceID, Records: 300},
	}
	for i := range runs {
		if err := db.RecordImportRun(&runs[i]); err != nil {
			t.Fatalf("RecordImportRun(%q): %v", runs[i].Kind, err)
		}
	}

	got, err := db.ImportRuns(raceID)
	if err != nil {
		t.Fatalf("ImportRuns() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d runs, want 2", len(got))
	}
	seen := make(map[string]bool)
	for _, r := range got {
		seen[r.Kind] = true
		if r.CreatedAt.IsZero() {
			t.Errorf("run %q has zero CreatedAt", r.ID)
		}
	}
	if !seen["course"] || !seen["splits"] {
		t.Errorf("kinds = %v", seen)
	}
}

func TestAuth(t *testing.T) {
	db := setupTestDB(t)

	if _, err := db.GetAuth(); !errors.Is(err, ErrNoAuth) {
		t.Fatalf("GetAuth() on empty db error = %v, want ErrNoAuth", err)
	}

	expires := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	if err := db.SaveAuth(&Auth{AthleteID: 12345, AccessToken: "access", RefreshToken: "refresh", ExpiresAt: expires}); err != nil {
		t.Fatalf("SaveAuth() error: %v", err)
	}

	got, err := db.GetAuth()
	if err != nil {
		t.Fatalf("GetAuth() error: %v", err)
	}
	if got.AthleteID != 12345 || got.AccessToken != "access" || got.RefreshToken != "refresh" {
		t.Errorf("auth = %+v", got)
	}
	if got.ExpiresAt.Unix() != expires.Unix() {
		t.Errorf("ExpiresAt = %v, want %v", got.ExpiresAt, expires)
	}

	newExpires := expires.Add(6 * time.Hour)
	if err := db.UpdateTokens("access2", "refresh2", newExpires); err != nil {
		t.Fatalf("UpdateTokens() error: %v", err)
	}
	got, _ = db.GetAuth()
	if got.AccessToken != "access2" || got.RefreshToken != "refresh2" || got.ExpiresAt.Unix() != newExpires.Unix() {
		t.Errorf("after UpdateTokens = %+v", got)
	}
	if got.AthleteID != 12345 {
		t.Errorf("AthleteID changed to %d", got.AthleteID)
	}

	if err := db.DeleteAuth(); err != nil {
		t.Fatalf("DeleteAuth() error: %v", err)
	}
	if _, err := db.GetAuth(); !errors.Is(err, ErrNoAuth) {
		t.Errorf("GetAuth() after delete error = %v, want ErrNoAuth", err)
	}
	if err := db.UpdateTokens("x", "y", newExpires); !errors.Is(err, ErrNoAuth) {
		t.Errorf("UpdateTokens() after delete error = %v, want ErrNoAuth", err)
	}
}
