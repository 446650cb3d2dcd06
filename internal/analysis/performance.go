package analysis

// PerformanceConfig holds the coefficients of the relative performance
// score. All overridable, like the rest of the tuned heuristics.
type PerformanceConfig struct {
	WinnerBonusFactor     float64 `koanf:"winner_bonus_factor"`
	FieldFasterFactor     float64 `koanf:"field_faster_factor"`
	FieldSlowerFactor     float64 `koanf:"field_slower_factor"`
	DifficultyBonusFactor float64 `koanf:"difficulty_bonus_factor"`
	DifficultyBonusAbove  float64 `koanf:"difficulty_bonus_above"`
	MinLeaderRatio        float64 `koanf:"min_leader_ratio"`
	MaxScore              float64 `koanf:"max_score"`
}

// DefaultPerformanceConfig returns the standard scoring coefficients
func DefaultPerformanceConfig() PerformanceConfig {
	return PerformanceConfig{
		WinnerBonusFactor:     0.1,
		FieldFasterFactor:     0.3,
		FieldSlowerFactor:     0.2,
		DifficultyBonusFactor: 0.05,
		DifficultyBonusAbove:  3.0,
		MinLeaderRatio:        0.8,
		MaxScore:              1.5,
	}
}

// ScorePerformance converts one runner's average segment pace into a
// bounded score relative to the field benchmark. Scores above 1.0 mean the
// runner beat the segment leader once bonuses are included; that is
// intentional and not capped at 1.0.
func ScorePerformance(runnerPace, difficulty float64, b Benchmark, cfg PerformanceConfig) float64 {
	if runnerPace <= 0 {
		return 0.0
	}

	leaderRatio := b.SegmentLeaderPace / runnerPace

	var winnerBonus float64
	if b.RaceWinnerPace > 0 && runnerPace < b.RaceWinnerPace {
		winnerBonus = cfg.WinnerBonusFactor * (b.RaceWinnerPace - runnerPace) / b.RaceWinnerPace
	}

	var fieldPosition float64
	if b.FieldAveragePace > 0 {
		if runnerPace < b.FieldAveragePace {
			fieldPosition = cfg.FieldFasterFactor * (b.FieldAveragePace - runnerPace) / b.FieldAveragePace
		} else {
			fieldPosition = -cfg.FieldSlowerFactor * (runnerPace - b.FieldAveragePace) / b.FieldAveragePace
		}
	}

	var difficultyBonus float64
	if difficulty > cfg.DifficultyBonusAbove && leaderRatio > cfg.MinLeaderRatio {
		difficultyBonus = cfg.DifficultyBonusFactor * (difficulty - cfg.DifficultyBonusAbove) * leaderRatio
	}

	return clamp(leaderRatio+winnerBonus+fieldPosition+difficultyBonus, 0.0, cfg.MaxScore)
}
