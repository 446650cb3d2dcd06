package service

import (
	"context"
	"fmt"
)

// AnalyzeRunners builds the full report set for several runners from one
// pass over the race data. A runner whose analysis fails is reported
// individually; the batch continues.
func (s *AnalysisService) AnalyzeRunners(ctx context.Context, raceID int64, runnerIDs []int64) (map[int64]map[string]any, error) {
	rc, err := s.loadRace(ctx, raceID)
	if err != nil {
		return nil, err
	}

	out := make(map[int64]map[string]any, len(runnerIDs))
	for _, id := range runnerIDs {
		report, err := s.analyzeRunner(rc, id)
		if err != nil {
			s.log.Error("runner analysis failed", "runner_id", id, "error", err)
			out[id] = map[string]any{"error": fmt.Sprintf("Analysis failed: %s", err)}
			continue
		}
		out[id] = report
	}
	return out, nil
}

// analyzeRunner recovers panics so one runner's bad data cannot take
// down a whole batch
func (s *AnalysisService) analyzeRunner(rc *raceContext, runnerID int64) (report map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	report = map[string]any{
		"fatigue_analysis": s.fatigueReport(rc, runnerID),
		"rest_periods":     s.restReport(rc, runnerID),
		"course_analysis":  s.courseReport(rc, runnerID),
		"recommendations":  s.pacingReport(rc, runnerID),
	}
	return report, nil
}
