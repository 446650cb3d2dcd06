package service

import (
	"context"

	"ultrasmart/internal/analysis"
	"ultrasmart/internal/sanitize"
)

// FatigueReport builds one runner's mile-by-mile fatigue progression
func (s *AnalysisService) FatigueReport(ctx context.Context, raceID, runnerID int64) (map[string]any, error) {
	rc, err := s.loadRace(ctx, raceID)
	if err != nil {
		return nil, err
	}
	return s.fatigueReport(rc, runnerID), nil
}

func (s *AnalysisService) fatigueReport(rc *raceContext, runnerID int64) map[string]any {
	splits := rc.field[runnerID]
	if len(splits) == 0 {
		return noSplitData()
	}

	points, basePace := analysis.BuildFatigue(splits, rc.segments, rc.stations, rc.startTime, s.cfg.Fatigue)

	peak := points[0]
	var rests []analysis.FatiguePoint
	for _, p := range points {
		if p.FatigueFactor > peak.FatigueFactor {
			peak = p
		}
		if p.IsRestPeriod {
			rests = append(rests, p)
		}
	}

	payload := map[string]any{
		"fatigue_progression": points,
		"average_fatigue":     averageFatigue(points),
		"peak_fatigue_mile":   peak.Mile,
		"rest_periods":        rests,
		"base_pace_minutes":   basePace,
	}
	return sanitize.Clean(payload).(map[string]any)
}

// RestReport builds one runner's detected stops, their attribution to
// aid stations and the usage patterns across them
func (s *AnalysisService) RestReport(ctx context.Context, raceID, runnerID int64) (map[string]any, error) {
	rc, err := s.loadRace(ctx, raceID)
	if err != nil {
		return nil, err
	}
	return s.restReport(rc, runnerID), nil
}

func (s *AnalysisService) restReport(rc *raceContext, runnerID int64) map[string]any {
	splits := rc.field[runnerID]
	if len(splits) == 0 {
		return noSplitData()
	}

	periods, stops := analysis.DetectRests(splits, rc.stations, s.cfg.Rest)
	for _, p := range periods {
		if p.GPSCorrected {
			s.log.Warn("rest matched to distant aid station",
				"runner_id", runnerID,
				"mile", p.Mile,
				"station", *p.NearbyAidStation,
				"distance_miles", *p.AidStationDistance)
		}
	}

	var patterns any = map[string]any{}
	if agg := analysis.AggregateStopPatterns(stops, s.cfg.Rest); agg != nil {
		patterns = agg
	}

	payload := map[string]any{
		"rest_periods":         periods,
		"aid_station_stops":    stops,
		"aid_station_patterns": patterns,
	}
	return sanitize.Clean(payload).(map[string]any)
}

// CourseImpactReport scores one runner against each course segment and
// summarizes their terrain strengths and weaknesses
func (s *AnalysisService) CourseImpactReport(ctx context.Context, raceID, runnerID int64) (map[string]any, error) {
	rc, err := s.loadRace(ctx, raceID)
	if err != nil {
		return nil, err
	}
	return s.courseReport(rc, runnerID), nil
}

func (s *AnalysisService) courseReport(rc *raceContext, runnerID int64) map[string]any {
	splits := rc.field[runnerID]
	if len(splits) == 0 {
		return noSplitData()
	}

	perfs := analysis.AnalyzeSegments(splits, rc.segments, rc.benchmarks, s.cfg.Performance)

	strongest, weakest := "unknown", "unknown"
	bestName, worstName := "unknown", "unknown"
	if best, ok := analysis.BestSegment(perfs); ok {
		strongest, bestName = best.TerrainType, best.SegmentName
	}
	if worst, ok := analysis.WorstSegment(perfs); ok {
		weakest, worstName = worst.TerrainType, worst.SegmentName
	}

	payload := map[string]any{
		"segment_analysis":    perfs,
		"strongest_terrain":   strongest,
		"weakest_terrain":     weakest,
		"best_segment":        bestName,
		"worst_segment":       worstName,
		"elevation_tolerance": analysis.ElevationTolerance(perfs),
	}
	return sanitize.Clean(payload).(map[string]any)
}

// PacingReport builds per-segment effort guidance plus an overall race
// strategy for one runner
func (s *AnalysisService) PacingReport(ctx context.Context, raceID, runnerID int64) (map[string]any, error) {
	rc, err := s.loadRace(ctx, raceID)
	if err != nil {
		return nil, err
	}
	return s.pacingReport(rc, runnerID), nil
}

func (s *AnalysisService) pacingReport(rc *raceContext, runnerID int64) map[string]any {
	splits := rc.field[runnerID]
	if len(splits) == 0 {
		return noSplitData()
	}

	points, _ := analysis.BuildFatigue(splits, rc.segments, rc.stations, rc.startTime, s.cfg.Fatigue)
	perfs := analysis.AnalyzeSegments(splits, rc.segments, rc.benchmarks, s.cfg.Performance)

	strongest, weakest := "unknown", "unknown"
	if best, ok := analysis.BestSegment(perfs); ok {
		strongest = best.TerrainType
	}
	if worst, ok := analysis.WorstSegment(perfs); ok {
		weakest = worst.TerrainType
	}

	payload := map[string]any{
		"segment_recommendations": analysis.RecommendPacing(rc.segments, perfs, s.cfg.Pacing),
		"overall_strategy":        analysis.OverallStrategy(averageFatigue(points), strongest, weakest, s.cfg.Pacing),
		"critical_segments":       analysis.CriticalSegments(rc.segments, perfs, s.cfg.Pacing),
	}
	return sanitize.Clean(payload).(map[string]any)
}
