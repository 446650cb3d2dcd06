package analysis

import (
	"fmt"
	"strings"

	"ultrasmart/internal/course"
	"ultrasmart/internal/store"
)

// RateTier maps a threshold to a difficulty delta. Tiers are evaluated in
// order and the first tier whose Min is exceeded wins.
type RateTier struct {
	Min   float64 `koanf:"min"`
	Delta float64 `koanf:"delta"`
}

// NameAdjustment applies a fixed delta to segments whose name contains one
// of the substrings. These encode course-specific knowledge (named climbs,
// technical descents) and are configuration, never a fixed rule.
type NameAdjustment struct {
	Substrings []string `koanf:"substrings"`
	Delta      float64  `koanf:"delta"`
	Reason     string   `koanf:"reason"`
}

// DifficultyConfig holds every threshold and coefficient of the difficulty
// model. The model is an empirically tuned heuristic, so all of these are
// overridable configuration rather than burned-in literals.
type DifficultyConfig struct {
	Base float64 `koanf:"base"`
	Min  float64 `koanf:"min"`
	Max  float64 `koanf:"max"`

	GainTiers     []RateTier `koanf:"gain_tiers"`
	GainFlatBelow float64    `koanf:"gain_flat_below"`
	GainFlatDelta float64    `koanf:"gain_flat_delta"`
	LossTiers     []RateTier `koanf:"loss_tiers"`

	RollingMinRate float64 `koanf:"rolling_min_rate"`
	RollingDelta   float64 `koanf:"rolling_delta"`

	BaselineFraction  float64    `koanf:"baseline_fraction"`
	PaceRatioTiers    []RateTier `koanf:"pace_ratio_tiers"`
	PaceFastBelow     float64    `koanf:"pace_fast_below"`
	PaceFastDelta     float64    `koanf:"pace_fast_delta"`
	PaceVarianceMin   float64    `koanf:"pace_variance_min"`
	PaceVarianceDelta float64    `koanf:"pace_variance_delta"`

	DistanceTiers []RateTier `koanf:"distance_tiers"`
	ShortBelow    float64    `koanf:"short_below"`
	ShortDelta    float64    `koanf:"short_delta"`

	PositionTiers []RateTier `koanf:"position_tiers"`
	EarlyBelow    float64    `koanf:"early_below"`
	EarlyDelta    float64    `koanf:"early_delta"`

	SleepStationDelta   float64 `koanf:"sleep_station_delta"`
	SleepStationMinMile float64 `koanf:"sleep_station_min_mile"`
	GearCheckDelta      float64 `koanf:"gear_check_delta"`
	MedicDelta          float64 `koanf:"medic_delta"`

	NameAdjustments []NameAdjustment `koanf:"name_adjustments"`
}

// DefaultDifficultyConfig returns the tuned Cocodona 250 difficulty model
func DefaultDifficultyConfig() DifficultyConfig {
	return DifficultyConfig{
		Base: 3.0,
		Min:  1.0,
		Max:  5.0,

		GainTiers: []RateTier{
			{Min: 400, Delta: 1.8},
			{Min: 250, Delta: 1.2},
			{Min: 150, Delta: 0.8},
			{Min: 75, Delta: 0.4},
		},
		GainFlatBelow: 25,
		GainFlatDelta: -0.2,
		LossTiers: []RateTier{
			{Min: 300, Delta: 0.6},
			{Min: 150, Delta: 0.3},
		},

		RollingMinRate: 100,
		RollingDelta:   0.4,

		BaselineFraction: 0.2,
		PaceRatioTiers: []RateTier{
			{Min: 1.4, Delta: 1.0},
			{Min: 1.2, Delta: 0.7},
			{Min: 1.1, Delta: 0.4},
		},
		PaceFastBelow:     0.95,
		PaceFastDelta:     -0.3,
		PaceVarianceMin:   0.3,
		PaceVarianceDelta: 0.2,

		DistanceTiers: []RateTier{
			{Min: 20, Delta: 0.5},
			{Min: 15, Delta: 0.3},
		},
		ShortBelow: 5,
		ShortDelta: -0.2,

		PositionTiers: []RateTier{
			{Min: 200, Delta: 0.8},
			{Min: 150, Delta: 0.5},
			{Min: 100, Delta: 0.3},
		},
		EarlyBelow: 20,
		EarlyDelta: -0.2,

		SleepStationDelta:   0.3,
		SleepStationMinMile: 20,
		GearCheckDelta:      0.2,
		MedicDelta:          0.1,

		NameAdjustments: []NameAdjustment{
			{Substrings: []string{"Mingus", "Elden", "Granite Mountain"}, Delta: 0.5, Reason: "major named climb"},
			{Substrings: []string{"Jerome", "Spur Cross"}, Delta: 0.3, Reason: "technical descent"},
			{Substrings: []string{"Whiskey Row", "Sycamore"}, Delta: 0.2, Reason: "exposed remote crossing"},
			{Substrings: []string{"Walnut Canyon", "Mount Elden Summit"}, Delta: 0.4, Reason: "late summit push"},
			{Substrings: []string{"Water Stop", "Water Only"}, Delta: -0.3, Reason: "plain water stop"},
		},
	}
}

// Factor is one explainable contribution to a difficulty rating
type Factor struct {
	Category string  `json:"category"`
	Detail   string  `json:"detail"`
	Delta    float64 `json:"delta"`
}

// DifficultyScore is a segment's rating plus the breakdown that produced
// it. Base plus the sum of breakdown deltas always equals Raw; Rating is
// Raw clamped into the configured range.
type DifficultyScore struct {
	Rating    float64  `json:"rating"`
	Raw       float64  `json:"raw"`
	Breakdown []Factor `json:"breakdown"`
}

// SegmentRating pairs a course segment with its scored difficulty
type SegmentRating struct {
	Segment    string          `json:"segment"`
	StartMile  float64         `json:"start_mile"`
	EndMile    float64         `json:"end_mile"`
	Terrain    string          `json:"terrain"`
	Difficulty DifficultyScore `json:"difficulty"`
}

// ScoreDifficulty rates how hard a segment actually is, blending the
// elevation profile, how the whole field paced it relative to early-race
// form, segment length, how deep into the race it starts, features of the
// station it ends at, and configured course knowledge. Elevation and
// field-pacing signals are summed, not reconciled; a segment can score
// hard on either alone.
func ScoreDifficulty(seg course.Segment, endStation *store.AidStation, fieldSplits map[int64][]Split, cfg DifficultyConfig) DifficultyScore {
	score := DifficultyScore{}
	add := func(category, detail string, delta float64) {
		if delta == 0 {
			return
		}
		score.Breakdown = append(score.Breakdown, Factor{Category: category, Detail: detail, Delta: delta})
	}

	// Elevation gain rate
	gainRate := seg.GainRate()
	if delta := tierDelta(cfg.GainTiers, gainRate); delta != 0 {
		add("elevation_gain", fmt.Sprintf("%.0f ft/mi climbing", gainRate), delta)
	} else if gainRate < cfg.GainFlatBelow {
		add("elevation_gain", "nearly flat", cfg.GainFlatDelta)
	}

	// Elevation loss rate
	lossRate := seg.LossRate()
	if delta := tierDelta(cfg.LossTiers, lossRate); delta != 0 {
		add("elevation_loss", fmt.Sprintf("%.0f ft/mi descent", lossRate), delta)
	}

	// Rolling terrain
	if gainRate > cfg.RollingMinRate && lossRate > cfg.RollingMinRate {
		add("rolling_terrain", "repeated climbs and descents", cfg.RollingDelta)
	}

	// Field pacing relative to each runner's early-race baseline
	ratios := fieldPaceRatios(seg, fieldSplits, cfg.BaselineFraction)
	if len(ratios) > 0 {
		avgRatio := mean(ratios)
		if delta := tierDelta(cfg.PaceRatioTiers, avgRatio); delta != 0 {
			add("field_pacing", fmt.Sprintf("field slows %.0f%% vs early-race pace", (avgRatio-1)*100), delta)
		} else if avgRatio < cfg.PaceFastBelow {
			add("field_pacing", "field runs this faster than early-race pace", cfg.PaceFastDelta)
		}
		if variance(ratios) > cfg.PaceVarianceMin {
			add("pace_variance", "inconsistent pacing across the field", cfg.PaceVarianceDelta)
		}
	}

	// Segment length
	length := seg.Length()
	if delta := tierDelta(cfg.DistanceTiers, length); delta != 0 {
		add("distance", fmt.Sprintf("%.1f mile stretch", length), delta)
	} else if length < cfg.ShortBelow {
		add("distance", "short segment", cfg.ShortDelta)
	}

	// How deep into the race the segment starts
	if delta := tierDelta(cfg.PositionTiers, seg.StartMile); delta != 0 {
		add("race_position", fmt.Sprintf("starts at mile %.0f", seg.StartMile), delta)
	} else if seg.StartMile < cfg.EarlyBelow {
		add("race_position", "fresh legs early in the race", cfg.EarlyDelta)
	}

	// Features of the station the segment ends at
	if endStation != nil {
		if endStation.SleepStation() && seg.StartMile >= cfg.SleepStationMinMile {
			add("aid_features", fmt.Sprintf("ends at %s sleep station", endStation.Name), cfg.SleepStationDelta)
		}
		if endStation.GearCheck() {
			add("aid_features", fmt.Sprintf("gear check at %s", endStation.Name), cfg.GearCheckDelta)
		}
		if endStation.HasMedic() {
			add("aid_features", fmt.Sprintf("medic stationed at %s", endStation.Name), cfg.MedicDelta)
		}
	}

	// Configured course knowledge keyed on segment name
	for _, adj := range cfg.NameAdjustments {
		for _, sub := range adj.Substrings {
			if sub != "" && strings.Contains(strings.ToLower(seg.Name), strings.ToLower(sub)) {
				add("course_knowledge", adj.Reason, adj.Delta)
				break
			}
		}
	}

	score.Raw = cfg.Base
	for _, f := range score.Breakdown {
		score.Raw += f.Delta
	}
	score.Rating = clamp(score.Raw, cfg.Min, cfg.Max)
	return score
}

// tierDelta returns the delta of the first tier whose Min is exceeded
func tierDelta(tiers []RateTier, value float64) float64 {
	for _, t := range tiers {
		if value > t.Min {
			return t.Delta
		}
	}
	return 0
}

// fieldPaceRatios computes, per runner, average in-segment pace over that
// runner's early-race baseline (the first BaselineFraction of their splits)
func fieldPaceRatios(seg course.Segment, fieldSplits map[int64][]Split, baselineFraction float64) []float64 {
	var ratios []float64
	for _, splits := range fieldSplits {
		baseline := earlyBaseline(splits, baselineFraction)
		if baseline <= 0 {
			continue
		}

		var inSegment []float64
		for _, s := range splits {
			m := float64(s.Mile)
			if m >= seg.StartMile && m <= seg.EndMile && s.PacePerMile > 0 {
				inSegment = append(inSegment, s.PacePerMile)
			}
		}
		if len(inSegment) == 0 {
			continue
		}

		ratios = append(ratios, mean(inSegment)/baseline)
	}
	return ratios
}

// earlyBaseline is the average positive pace over the first fraction of a
// runner's splits, minimum one split
func earlyBaseline(splits []Split, fraction float64) float64 {
	n := int(float64(len(splits)) * fraction)
	if n < 1 {
		n = 1
	}
	if n > len(splits) {
		n = len(splits)
	}

	var paces []float64
	for _, s := range splits[:n] {
		if s.PacePerMile > 0 {
			paces = append(paces, s.PacePerMile)
		}
	}
	return mean(paces)
}
