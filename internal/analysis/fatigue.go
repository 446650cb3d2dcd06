package analysis

import (
	"time"

	"ultrasmart/internal/course"
	"ultrasmart/internal/store"
)

// FatigueConfig holds the tunables of the fatigue model
type FatigueConfig struct {
	DefaultBasePace   float64 `koanf:"default_base_pace"`
	BaselineMiles     int     `koanf:"baseline_miles"`
	DefaultDifficulty float64 `koanf:"default_difficulty"`
	TerrainFloor      float64 `koanf:"terrain_floor"`
	TerrainStep       float64 `koanf:"terrain_step"`
	ElevationPenalty  float64 `koanf:"elevation_penalty"`
	ElevationCap      float64 `koanf:"elevation_cap"`
	NightFactor       float64 `koanf:"night_factor"`
	DayFactor         float64 `koanf:"day_factor"`
	RestWindowMiles   int     `koanf:"rest_window_miles"`
	RestPaceRatio     float64 `koanf:"rest_pace_ratio"`
	AidLookbackMiles  float64 `koanf:"aid_lookback_miles"`
}

// DefaultFatigueConfig returns the standard fatigue model tunables
func DefaultFatigueConfig() FatigueConfig {
	return FatigueConfig{
		DefaultBasePace:   12.0,
		BaselineMiles:     10,
		DefaultDifficulty: 3.0,
		TerrainFloor:      0.9,
		TerrainStep:       0.15,
		ElevationPenalty:  0.01,
		ElevationCap:      2.0,
		NightFactor:       1.10,
		DayFactor:         0.98,
		RestWindowMiles:   3,
		RestPaceRatio:     1.5,
		AidLookbackMiles:  5.0,
	}
}

// FatiguePoint is one mile's fatigue state for one runner
type FatiguePoint struct {
	Mile              int     `json:"mile"`
	ActualPace        float64 `json:"actual_pace"`
	ExpectedPace      float64 `json:"expected_pace"`
	FatigueFactor     float64 `json:"fatigue_factor"`
	TerrainDifficulty float64 `json:"terrain_difficulty"`
	ElevationGain     float64 `json:"elevation_gain"`
	IsRestPeriod      bool    `json:"is_rest_period"`
	RecentAidStation  *string `json:"recent_aid_station"`
	TimeOfDay         *string `json:"time_of_day"`
	CumulativeTime    float64 `json:"cumulative_time"`
}

// BuildFatigue computes each mile's fatigue factor: actual pace over an
// expected pace derived from the runner's early-race baseline adjusted for
// terrain, elevation and time of day. start is the race gun time; nil
// leaves the circadian adjustment neutral. The returned base pace is the
// baseline used, in minutes per mile.
func BuildFatigue(splits []Split, segments []course.Segment, stations []store.AidStation, start *time.Time, cfg FatigueConfig) ([]FatiguePoint, float64) {
	basePace := baselinePace(splits, cfg)

	points := make([]FatiguePoint, 0, len(splits))
	for i, s := range splits {
		seg, inSegment := course.SegmentAt(segments, float64(s.Mile))

		difficulty := cfg.DefaultDifficulty
		var segmentGain, gainPerMile float64
		if inSegment {
			difficulty = seg.DifficultyRating
			segmentGain = seg.ElevationGainFeet
			gainPerMile = seg.GainRate()
		}

		terrainAdj := cfg.TerrainFloor + (difficulty-1)*cfg.TerrainStep

		elevationAdj := 1.0 + (gainPerMile/100.0)*cfg.ElevationPenalty
		if elevationAdj > cfg.ElevationCap {
			elevationAdj = cfg.ElevationCap
		}

		timeOfDay, timeAdj := timeOfDayAdjustment(start, s.CumulativeMinutes, cfg)

		expected := basePace * terrainAdj * elevationAdj * timeAdj

		fatigue := 1.0
		if expected > 0 {
			fatigue = s.PacePerMile / expected
		}

		var recentAid *string
		if station := recentAidStation(float64(s.Mile), stations, cfg.AidLookbackMiles); station != nil {
			recentAid = &station.Name
		}

		points = append(points, FatiguePoint{
			Mile:              s.Mile,
			ActualPace:        s.PacePerMile,
			ExpectedPace:      expected,
			FatigueFactor:     fatigue,
			TerrainDifficulty: difficulty,
			ElevationGain:     segmentGain,
			IsRestPeriod:      isRestMile(splits, i, cfg.RestWindowMiles, cfg.RestPaceRatio),
			RecentAidStation:  recentAid,
			TimeOfDay:         timeOfDay,
			CumulativeTime:    s.CumulativeMinutes,
		})
	}
	return points, basePace
}

// baselinePace is the median positive pace over the first BaselineMiles
// recorded splits, or the configured default when no pace data exists
func baselinePace(splits []Split, cfg FatigueConfig) float64 {
	n := cfg.BaselineMiles
	if n > len(splits) {
		n = len(splits)
	}

	var paces []float64
	for _, s := range splits[:n] {
		if s.PacePerMile > 0 {
			paces = append(paces, s.PacePerMile)
		}
	}
	if len(paces) == 0 {
		return cfg.DefaultBasePace
	}
	return median(paces)
}

// timeOfDayAdjustment maps the clock hour at a point in the race to a
// circadian pace factor. Night hours run slower, daytime slightly faster.
// Unknown start or elapsed time leaves the factor neutral.
func timeOfDayAdjustment(start *time.Time, cumulativeMinutes float64, cfg FatigueConfig) (*string, float64) {
	if start == nil || cumulativeMinutes <= 0 {
		return nil, 1.0
	}

	clock := start.Add(time.Duration(cumulativeMinutes * float64(time.Minute)))
	tod := clock.Format("15:04")
	hour := clock.Hour()

	switch {
	case hour >= 22 || hour <= 6:
		return &tod, cfg.NightFactor
	case hour >= 8 && hour <= 18:
		return &tod, cfg.DayFactor
	default:
		return &tod, 1.0
	}
}

// isRestMile flags a mile whose pace exceeds the mean of its surrounding
// window (the mile itself excluded) by the configured ratio
func isRestMile(splits []Split, idx, window int, ratio float64) bool {
	pace := splits[idx].PacePerMile
	if pace <= 0 {
		return false
	}

	lo := idx - window
	if lo < 0 {
		lo = 0
	}
	hi := idx + window
	if hi > len(splits)-1 {
		hi = len(splits) - 1
	}

	var nearby []float64
	for j := lo; j <= hi; j++ {
		if j == idx {
			continue
		}
		if splits[j].PacePerMile > 0 {
			nearby = append(nearby, splits[j].PacePerMile)
		}
	}
	if len(nearby) == 0 {
		return false
	}

	return pace > mean(nearby)*ratio
}

// recentAidStation finds the most recent station at or behind a mile mark
// within the lookback distance
func recentAidStation(mile float64, stations []store.AidStation, lookback float64) *store.AidStation {
	var recent *store.AidStation
	for i := range stations {
		a := &stations[i]
		if a.DistanceMiles <= mile && mile-a.DistanceMiles <= lookback {
			if recent == nil || a.DistanceMiles > recent.DistanceMiles {
				recent = a
			}
		}
	}
	return recent
}
