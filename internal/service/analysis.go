package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ultrasmart/internal/analysis"
	"ultrasmart/internal/config"
	"ultrasmart/internal/course"
	"ultrasmart/internal/store"
)

// AnalysisService assembles splits-analytics reports for presentation.
// Every call recomputes from current persisted data; nothing is cached
// between calls.
type AnalysisService struct {
	store *store.DB
	cfg   config.AnalysisConfig
	log   *slog.Logger
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(db *store.DB, cfg config.AnalysisConfig, log *slog.Logger) *AnalysisService {
	if log == nil {
		log = slog.Default()
	}
	return &AnalysisService{store: db, cfg: cfg, log: log}
}

// raceContext is the per-request view of one race: scored segments, the
// whole field's splits and the segment benchmarks derived from them
type raceContext struct {
	stations   []store.AidStation
	segments   []course.Segment
	field      map[int64][]analysis.Split
	benchmarks map[string]analysis.Benchmark
	startTime  *time.Time
}

func (s *AnalysisService) loadRace(ctx context.Context, raceID int64) (*raceContext, error) {
	race, err := s.store.GetRace(raceID)
	if err != nil {
		return nil, err
	}
	stations, err := s.store.AidStations(raceID)
	if err != nil {
		return nil, fmt.Errorf("loading aid stations: %w", err)
	}
	points, err := s.store.TrackPoints(raceID)
	if err != nil {
		return nil, fmt.Errorf("loading track points: %w", err)
	}
	meta, err := s.store.SegmentMeta(raceID)
	if err != nil {
		return nil, fmt.Errorf("loading segment metadata: %w", err)
	}
	byRunner, err := s.store.SplitsByRunner(raceID)
	if err != nil {
		return nil, fmt.Errorf("loading splits: %w", err)
	}

	field := make(map[int64][]analysis.Split, len(byRunner))
	for id, rows := range byRunner {
		field[id] = analysis.FromStoreSplits(rows)
	}

	// Score each segment with the whole field's pacing before anything
	// downstream reads difficulty ratings.
	segments := course.Segments(stations, course.NewElevationTrack(points), meta)
	for i := range segments {
		end := stationAt(stations, segments[i].EndMile)
		segments[i].DifficultyRating = analysis.ScoreDifficulty(segments[i], end, field, s.cfg.Difficulty).Rating
	}

	return &raceContext{
		stations:   stations,
		segments:   segments,
		field:      field,
		benchmarks: analysis.BuildBenchmarks(ctx, segments, field, s.cfg.BenchmarkWorkers),
		startTime:  race.StartTime,
	}, nil
}

// stationAt finds the station at an exact mile mark
func stationAt(stations []store.AidStation, mile float64) *store.AidStation {
	for i := range stations {
		if stations[i].DistanceMiles == mile {
			return &stations[i]
		}
	}
	return nil
}

// RunnerIDs returns the ids of every runner with a result in a race
func (s *AnalysisService) RunnerIDs(raceID int64) ([]int64, error) {
	results, err := s.store.ResultsForRace(raceID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.RunnerID)
	}
	return ids, nil
}

// SegmentRatings returns the scored difficulty of each course segment
// with its explainable factor breakdown
func (s *AnalysisService) SegmentRatings(ctx context.Context, raceID int64) ([]analysis.SegmentRating, error) {
	rc, err := s.loadRace(ctx, raceID)
	if err != nil {
		return nil, err
	}

	ratings := make([]analysis.SegmentRating, 0, len(rc.segments))
	for _, seg := range rc.segments {
		end := stationAt(rc.stations, seg.EndMile)
		score := analysis.ScoreDifficulty(seg, end, rc.field, s.cfg.Difficulty)
		ratings = append(ratings, analysis.SegmentRating{
			Segment:    seg.Name,
			StartMile:  seg.StartMile,
			EndMile:    seg.EndMile,
			Terrain:    seg.TerrainType,
			Difficulty: score,
		})
	}
	return ratings, nil
}

func noSplitData() map[string]any {
	return map[string]any{"error": "No split data found"}
}

// averageFatigue is the mean fatigue factor, 1.0 with no data
func averageFatigue(points []analysis.FatiguePoint) float64 {
	if len(points) == 0 {
		return 1.0
	}
	sum := 0.0
	for _, p := range points {
		sum += p.FatigueFactor
	}
	return sum / float64(len(points))
}
