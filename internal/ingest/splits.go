package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"ultrasmart/internal/store"
)

// Splits imports a CSV of per-mile splits into a race. The file needs a
// header row naming at least "bib" and "mile"; the optional columns
// split_seconds, pace_seconds, cumulative_seconds, distance_miles,
// elevation_feet, temperature_f and notes are picked up by name in any
// order. Unknown runners are created from their bib numbers. Malformed
// records are skipped with a warning, not a failed import.
func (im *Importer) Splits(raceID int64, path string) (*SplitsImport, error) {
	if _, err := im.store.GetRace(raceID); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening splits file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	cols := columnIndex(header)
	for _, required := range []string{"bib", "mile"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("splits file is missing the %q column", required)
		}
	}

	byBib := make(map[string][]store.Split)
	var order []string
	record := 1
	skipped := 0

	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		record++
		if err != nil {
			im.log.Warn("skipping malformed record", "record", record, "error", err)
			skipped++
			continue
		}

		split, bib, err := parseSplit(rec, cols)
		if err != nil {
			im.log.Warn("skipping malformed record", "record", record, "error", err)
			skipped++
			continue
		}

		if _, seen := byBib[bib]; !seen {
			order = append(order, bib)
		}
		byBib[bib] = append(byBib[bib], split)
	}

	runners := 0
	total := 0
	for _, bib := range order {
		runner, err := im.store.GetOrCreateRunnerByBib(bib)
		if err != nil {
			return nil, fmt.Errorf("runner bib %s: %w", bib, err)
		}
		resultID, err := im.store.UpsertResult(&store.RaceResult{
			RaceID:          raceID,
			RunnerID:        runner.ID,
			BibNumber:       bib,
			SplitsAvailable: true,
		})
		if err != nil {
			return nil, fmt.Errorf("result for bib %s: %w", bib, err)
		}

		splits := byBib[bib]
		for i := range splits {
			splits[i].RaceResultID = resultID
		}
		if err := im.store.UpsertSplits(splits); err != nil {
			return nil, fmt.Errorf("splits for bib %s: %w", bib, err)
		}
		runners++
		total += len(splits)
	}

	runID := im.recordRun("splits", path, raceID, total)
	im.log.Info("splits imported",
		"race_id", raceID,
		"runners", runners,
		"splits", total,
		"skipped", skipped)

	return &SplitsImport{
		RunID:   runID,
		RaceID:  raceID,
		Runners: runners,
		Splits:  total,
		Skipped: skipped,
	}, nil
}

// parseSplit converts one CSV record into a split row plus its bib
func parseSplit(rec []string, cols map[string]int) (store.Split, string, error) {
	bib := field(rec, cols, "bib")
	if bib == "" {
		return store.Split{}, "", fmt.Errorf("empty bib")
	}

	mileStr := field(rec, cols, "mile")
	mile, err := strconv.Atoi(mileStr)
	if err != nil || mile < 1 {
		return store.Split{}, "", fmt.Errorf("bad mile %q", mileStr)
	}

	s := store.Split{
		MileNumber:    mile,
		DistanceMiles: float64(mile),
		Notes:         field(rec, cols, "notes"),
	}
	if d, err := optionalFloat(rec, cols, "distance_miles"); err != nil {
		return store.Split{}, "", err
	} else if d != nil {
		s.DistanceMiles = *d
	}
	if s.SplitTimeSeconds, err = optionalFloat(rec, cols, "split_seconds"); err != nil {
		return store.Split{}, "", err
	}
	if s.PaceSeconds, err = optionalFloat(rec, cols, "pace_seconds"); err != nil {
		return store.Split{}, "", err
	}
	if s.CumulativeTimeSeconds, err = optionalFloat(rec, cols, "cumulative_seconds"); err != nil {
		return store.Split{}, "", err
	}
	if s.ElevationFeet, err = optionalFloat(rec, cols, "elevation_feet"); err != nil {
		return store.Split{}, "", err
	}
	if s.TemperatureF, err = optionalFloat(rec, cols, "temperature_f"); err != nil {
		return store.Split{}, "", err
	}
	return s, bib, nil
}

// columnIndex maps normalized header names to their positions
func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}

func field(rec []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func optionalFloat(rec []string, cols map[string]int, name string) (*float64, error) {
	v := field(rec, cols, name)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("bad %s %q", name, v)
	}
	return &f, nil
}
