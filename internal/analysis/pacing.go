package analysis

import (
	"fmt"

	"ultrasmart/internal/course"
)

// PacingConfig holds the tunables of the pacing recommender. Efforts
// are fractions of maximum sustainable effort and run deliberately
// conservative for a 250-mile race.
type PacingConfig struct {
	HighScore          float64 `koanf:"high_score"`
	HighScoreEffort    float64 `koanf:"high_score_effort"`
	MidScore           float64 `koanf:"mid_score"`
	MidScoreEffort     float64 `koanf:"mid_score_effort"`
	LowScoreEffort     float64 `koanf:"low_score_effort"`
	NoHistoryBase      float64 `koanf:"no_history_base"`
	NoHistoryStep      float64 `koanf:"no_history_step"`
	NoHistoryFloor     float64 `koanf:"no_history_floor"`
	PushEffort         float64 `koanf:"push_effort"`
	MaintainEffort     float64 `koanf:"maintain_effort"`
	PowerHikeGainFeet  float64 `koanf:"power_hike_gain_feet"`
	CriticalDifficulty float64 `koanf:"critical_difficulty"`
	CriticalScore      float64 `koanf:"critical_score"`
	FatigueCaution     float64 `koanf:"fatigue_caution"`
}

// DefaultPacingConfig returns the standard pacing recommender tunables
func DefaultPacingConfig() PacingConfig {
	return PacingConfig{
		HighScore:          0.8,
		HighScoreEffort:    0.75,
		MidScore:           0.6,
		MidScoreEffort:     0.70,
		LowScoreEffort:     0.65,
		NoHistoryBase:      0.65,
		NoHistoryStep:      0.05,
		NoHistoryFloor:     0.55,
		PushEffort:         0.75,
		MaintainEffort:     0.70,
		PowerHikeGainFeet:  2000.0,
		CriticalDifficulty: 4.0,
		CriticalScore:      0.4,
		FatigueCaution:     1.2,
	}
}

// Recommendation is the pacing guidance for one course segment
type Recommendation struct {
	Segment           string  `json:"segment"`
	Miles             string  `json:"miles"`
	Terrain           string  `json:"terrain"`
	Difficulty        float64 `json:"difficulty"`
	RecommendedEffort float64 `json:"recommended_effort"`
	KeyStrategy       string  `json:"key_strategy"`
	ElevationChange   float64 `json:"elevation_change"`
}

// RecommendPacing builds per-segment effort guidance from the runner's
// scored history on similar terrain. Segments with no comparable
// history get a difficulty-discounted default effort.
func RecommendPacing(segments []course.Segment, perfs []SegmentPerformance, cfg PacingConfig) []Recommendation {
	recs := make([]Recommendation, 0, len(segments))
	for _, seg := range segments {
		var similar []float64
		for _, p := range perfs {
			if p.TerrainType == seg.TerrainType {
				similar = append(similar, p.PerformanceScore)
			}
		}

		var effort float64
		if len(similar) > 0 {
			switch avg := mean(similar); {
			case avg > cfg.HighScore:
				effort = cfg.HighScoreEffort
			case avg > cfg.MidScore:
				effort = cfg.MidScoreEffort
			default:
				effort = cfg.LowScoreEffort
			}
		} else {
			effort = cfg.NoHistoryBase - (seg.DifficultyRating-3)*cfg.NoHistoryStep
			if effort < cfg.NoHistoryFloor {
				effort = cfg.NoHistoryFloor
			}
		}

		recs = append(recs, Recommendation{
			Segment:           seg.Name,
			Miles:             fmt.Sprintf("%.1f - %.1f", seg.StartMile, seg.EndMile),
			Terrain:           seg.TerrainType,
			Difficulty:        seg.DifficultyRating,
			RecommendedEffort: effort,
			KeyStrategy:       strategyText(seg, effort, cfg),
			ElevationChange:   seg.ElevationGainFeet - seg.ElevationLossFeet,
		})
	}
	return recs
}

// strategyText combines the effort tier with terrain guidance
func strategyText(seg course.Segment, effort float64, cfg PacingConfig) string {
	var effortText string
	switch {
	case effort >= cfg.PushEffort:
		effortText = "Push pace"
	case effort >= cfg.MaintainEffort:
		effortText = "Maintain effort"
	default:
		effortText = "Conservative approach"
	}

	var text string
	if seg.DifficultyRating >= cfg.CriticalDifficulty {
		text = fmt.Sprintf("%s, expect challenging %s terrain", effortText, seg.TerrainType)
	} else {
		text = effortText + ", good opportunity to make time"
	}
	if seg.ElevationGainFeet > cfg.PowerHikeGainFeet {
		text += "; power-hike the climbs to save your legs"
	}
	return text
}

// OverallStrategy synthesizes a race strategy line from average fatigue
// and the runner's best and worst terrain types
func OverallStrategy(avgFatigue float64, strongest, weakest string, cfg PacingConfig) string {
	var lead string
	if avgFatigue > cfg.FatigueCaution {
		lead = "Focus on consistent pacing to manage fatigue buildup"
	} else {
		lead = "Solid pacing control allows for strategic pushes"
	}
	return fmt.Sprintf("%s; Maximize time on %s terrain; Use conservative approach on %s sections", lead, strongest, weakest)
}

// CriticalSegments returns the union of hard segments and segments where
// this runner underperformed, first occurrence order, no duplicates
func CriticalSegments(segments []course.Segment, perfs []SegmentPerformance, cfg PacingConfig) []string {
	seen := make(map[string]bool)
	var critical []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			critical = append(critical, name)
		}
	}

	for _, seg := range segments {
		if seg.DifficultyRating >= cfg.CriticalDifficulty {
			add(seg.Name)
		}
	}
	for _, p := range perfs {
		if p.PerformanceScore < cfg.CriticalScore {
			add(p.SegmentName)
		}
	}
	return critical
}
