package ingest

import (
	"errors"
	"strings"
	"testing"

	"ultrasmart/internal/store"
)

const splitsCSV = `bib,mile,split_seconds,pace_seconds,cumulative_seconds,elevation_feet,notes
11,1,720,720,720,5000,
11,2,760,760,1480,5200,steady climb
42,1,700,700,700,5000,
11,abc,720,720,2200,5300,
,3,700,700,2100,5100,
`

func TestImportSplits(t *testing.T) {
	im, db := newTestImporter(t)
	raceID, err := db.UpsertRace(&store.Race{Name: "Cocodona 250", Year: 2026})
	if err != nil {
		t.Fatalf("seeding race: %v", err)
	}
	path := writeTestFile(t, "splits.csv", splitsCSV)

	result, err := im.Splits(raceID, path)
	if err != nil {
		t.Fatalf("Splits() error: %v", err)
	}
	if result.Runners != 2 || result.Splits != 3 || result.Skipped != 2 {
		t.Errorf("result = %d runners %d splits %d skipped, want 2/3/2", result.Runners, result.Splits, result.Skipped)
	}

	runner, err := db.GetRunnerByBib("11")
	if err != nil {
		t.Fatalf("GetRunnerByBib(11) error: %v", err)
	}
	if runner.FirstName != "Bib" || runner.LastName != "11" {
		t.Errorf("placeholder runner = %q %q", runner.FirstName, runner.LastName)
	}

	res, err := db.GetResult(raceID, runner.ID)
	if err != nil {
		t.Fatalf("GetResult() error: %v", err)
	}
	if !res.SplitsAvailable {
		t.Error("SplitsAvailable = false, want true")
	}

	splits, err := db.SplitsForRunner(raceID, runner.ID)
	if err != nil {
		t.Fatalf("SplitsForRunner() error: %v", err)
	}
	if len(splits) != 2 {
		t.Fatalf("got %d splits, want 2", len(splits))
	}
	if splits[0].MileNumber != 1 || splits[1].MileNumber != 2 {
		t.Errorf("miles = %d, %d", splits[0].MileNumber, splits[1].MileNumber)
	}
	if splits[0].SplitTimeSeconds == nil || *splits[0].SplitTimeSeconds != 720 {
		t.Errorf("mile 1 split = %v, want 720", splits[0].SplitTimeSeconds)
	}
	if splits[1].Notes != "steady climb" {
		t.Errorf("mile 2 notes = %q", splits[1].Notes)
	}

	runs, err := db.ImportRuns(raceID)
	if err != nil || len(runs) != 1 {
		t.Fatalf("ImportRuns() = %d runs, %v", len(runs), err)
	}
	if runs[0].Kind != "splits" || runs[0].Records != 3 {
		t.Errorf("run = %+v", runs[0])
	}
}

func TestImportSplitsColumnOrder(t *testing.T) {
	im, db := newTestImporter(t)
	raceID, err := db.UpsertRace(&store.Race{Name: "Cocodona 250", Year: 2026})
	if err != nil {
		t.Fatalf("seeding race: %v", err)
	}

	// only the required columns, reversed
	path := writeTestFile(t, "splits.csv", "mile,bib\n1,77\n")
	result, err := im.Splits(raceID, path)
	if err != nil {
		t.Fatalf("Splits() error: %v", err)
	}
	if result.Runners != 1 || result.Splits != 1 || result.Skipped != 0 {
		t.Errorf("result = %+v", result)
	}

	runner, _ := db.GetRunnerByBib("77")
	splits, _ := db.SplitsForRunner(raceID, runner.ID)
	if len(splits) != 1 {
		t.Fatalf("got %d splits, want 1", len(splits))
	}
	if splits[0].SplitTimeSeconds != nil || splits[0].PaceSeconds != nil {
		t.Errorf("optional fields = %v/%v, want nil", splits[0].SplitTimeSeconds, splits[0].PaceSeconds)
	}
	if splits[0].DistanceMiles != 1 {
		t.Errorf("DistanceMiles = %v, want the mile number", splits[0].DistanceMiles)
	}
}

func TestImportSplitsMissingColumn(t *testing.T) {
	im, db := newTestImporter(t)
	raceID, err := db.UpsertRace(&store.Race{Name: "Cocodona 250", Year: 2026})
	if err != nil {
		t.Fatalf("seeding race: %v", err)
	}

	path := writeTestFile(t, "splits.csv", "bib,distance\n11,1\n")
	_, err = im.Splits(raceID, path)
	if err == nil {
		t.Fatal("Splits() = nil, want error")
	}
	if !strings.Contains(err.Error(), "mile") {
		t.Errorf("error = %v, want it to name the missing column", err)
	}
}

func TestImportSplitsUnknownRace(t *testing.T) {
	im, _ := newTestImporter(t)
	path := writeTestFile(t, "splits.csv", "bib,mile\n11,1\n")

	if _, err := im.Splits(9999, path); !errors.Is(err, store.ErrRaceNotFound) {
		t.Errorf("Splits() error = %v, want ErrRaceNotFound", err)
	}
}
