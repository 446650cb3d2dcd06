package analysis

import "ultrasmart/internal/course"

// SegmentPerformance is one runner's showing over one course segment
type SegmentPerformance struct {
	SegmentName       string     `json:"segment_name"`
	StartMile         float64    `json:"start_mile"`
	EndMile           float64    `json:"end_mile"`
	TerrainType       string     `json:"terrain_type"`
	DifficultyRating  float64    `json:"difficulty_rating"`
	ElevationGain     float64    `json:"elevation_gain"`
	AveragePace       float64    `json:"average_pace"`
	PaceConsistency   float64    `json:"pace_consistency"`
	PerformanceScore  float64    `json:"performance_score"`
	TypicalConditions string     `json:"typical_conditions"`
	BenchmarkInfo     *Benchmark `json:"benchmark_info"`
}

// AnalyzeSegments scores a runner against each course segment they have
// split data for. Segments without any of the runner's splits are
// skipped rather than zero-filled.
func AnalyzeSegments(splits []Split, segments []course.Segment, benchmarks map[string]Benchmark, cfg PerformanceConfig) []SegmentPerformance {
	var perfs []SegmentPerformance
	for _, seg := range segments {
		var paces []float64
		for _, s := range splits {
			m := float64(s.Mile)
			if m >= seg.StartMile && m < seg.EndMile {
				paces = append(paces, s.PacePerMile)
			}
		}
		if len(paces) == 0 {
			continue
		}

		avgPace := mean(paces)
		consistency := 1.0
		if v := variance(paces); v > 0 {
			consistency = 1.0 / v
		}

		var benchInfo *Benchmark
		var bench Benchmark
		if b, ok := benchmarks[seg.Name]; ok {
			bench = b
			benchInfo = &bench
		}

		perfs = append(perfs, SegmentPerformance{
			SegmentName:       seg.Name,
			StartMile:         seg.StartMile,
			EndMile:           seg.EndMile,
			TerrainType:       seg.TerrainType,
			DifficultyRating:  seg.DifficultyRating,
			ElevationGain:     seg.ElevationGainFeet,
			AveragePace:       avgPace,
			PaceConsistency:   consistency,
			PerformanceScore:  ScorePerformance(avgPace, seg.DifficultyRating, bench, cfg),
			TypicalConditions: seg.TypicalConditions,
			BenchmarkInfo:     benchInfo,
		})
	}
	return perfs
}

// BestSegment returns the segment with the highest performance score.
// Ties keep the earliest segment.
func BestSegment(perfs []SegmentPerformance) (SegmentPerformance, bool) {
	if len(perfs) == 0 {
		return SegmentPerformance{}, false
	}
	best := perfs[0]
	for _, p := range perfs[1:] {
		if p.PerformanceScore > best.PerformanceScore {
			best = p
		}
	}
	return best, true
}

// WorstSegment returns the segment with the lowest performance score.
// Ties keep the earliest segment.
func WorstSegment(perfs []SegmentPerformance) (SegmentPerformance, bool) {
	if len(perfs) == 0 {
		return SegmentPerformance{}, false
	}
	worst := perfs[0]
	for _, p := range perfs[1:] {
		if p.PerformanceScore < worst.PerformanceScore {
			worst = p
		}
	}
	return worst, true
}

// ElevationTolerance labels how a runner handles climbing by correlating
// segment elevation gain with performance score across climbing segments
func ElevationTolerance(perfs []SegmentPerformance) string {
	var gains, scores []float64
	for _, p := range perfs {
		if p.ElevationGain > 0 {
			gains = append(gains, p.ElevationGain)
			scores = append(scores, p.PerformanceScore)
		}
	}
	if len(gains) < 2 {
		return "Insufficient data"
	}

	switch r := correlation(gains, scores); {
	case r > 0.1:
		return "Strong uphill runner"
	case r > -0.1:
		return "Moderate elevation tolerance"
	default:
		return "Struggles with elevation"
	}
}
